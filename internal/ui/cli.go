package ui

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ph1ltep/wfgrid/internal/config"
	"github.com/ph1ltep/wfgrid/internal/session"
	"github.com/ph1ltep/wfgrid/internal/store"
	"github.com/ph1ltep/wfgrid/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	config   *config.Config
	store    *store.SQLite
	root     *cobra.Command
	debug    bool   // Enable debug logging
	scenario string // Scenario name the commands operate on
}

// NewApp creates a new CLI application with the given config.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "wfgrid",
		Short: "A terminal grid for contract time series",
		Long: `Wfgrid renders year-indexed contract figures as an editable grid.

It opens a scenario document, lays the configured series out as a
table with summary and totals lanes, and writes edits back in one
atomic batch.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			sess, err := a.openSession()
			if err != nil {
				return err
			}
			return tui.RunWithDebug(sess, a.config, a.debug)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to wfgrid-debug.log)")
	a.root.PersistentFlags().StringVar(&a.scenario, "scenario", "default", "Scenario to operate on")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.exportCmd())
	a.root.AddCommand(a.seedCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("wfgrid %s (commit: %s)\n", Version, Commit)
		},
	}
}

// openStore opens the scenario store on first use.
func (a *App) openStore() (*store.SQLite, error) {
	if a.store != nil {
		return a.store, nil
	}
	st, err := store.New(a.config.Storage.DBPath, a.scenario)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	a.store = st
	return st, nil
}

// openSession opens the store and loads an edit session over it.
func (a *App) openSession() (*session.Session, error) {
	st, err := a.openStore()
	if err != nil {
		return nil, err
	}
	sess, err := session.New(a.config, st, nil)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}
	if err := sess.Load(); err != nil {
		return nil, fmt.Errorf("loading table data: %w", err)
	}
	return sess, nil
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store if a command opened it.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
