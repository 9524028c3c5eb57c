package ui

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ph1ltep/wfgrid/internal/config"
	"github.com/ph1ltep/wfgrid/internal/grid"
	"github.com/ph1ltep/wfgrid/internal/session"
	"github.com/ph1ltep/wfgrid/internal/tui"
)

func (a *App) showCmd() *cobra.Command {
	var field string
	var vertical bool
	var noColor bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the contract table",
		Long: `Render the contract table once to stdout and exit.

This is a read-only view without the interactive grid. Use the bare
'wfgrid' command to edit values.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			sess, err := a.openSession()
			if err != nil {
				return err
			}
			if field != "" {
				if err := sess.SwitchField(field, false); err != nil {
					return fmt.Errorf("switching field: %w", err)
				}
			}

			orientation := grid.Horizontal
			if vertical || a.config.Table.Orientation == "vertical" {
				orientation = grid.Vertical
			}

			gridCfg := buildGrid(sess, a.config, orientation)
			printGrid(gridCfg, sess.Field())

			if len(a.config.Table.Markers) > 0 {
				fmt.Println()
				for _, mk := range a.config.Table.Markers {
					fmt.Printf("%s %s (year %d)\n", formatMarker("●"), mk.Label, mk.Year)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", "", "Series field to display")
	cmd.Flags().BoolVar(&vertical, "vertical", false, "Years down, contracts across")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

// buildGrid lays out the session's entities for one-shot rendering,
// mirroring the interactive grid's lane setup.
func buildGrid(sess *session.Session, cfg *config.Config, orientation grid.Orientation) *grid.Config {
	markers := make([]grid.Marker, 0, len(cfg.Table.Markers))
	for _, mk := range cfg.Table.Markers {
		markers = append(markers, grid.Marker{
			Year:  mk.Year,
			Color: mk.Color,
			Kind:  mk.Kind,
			Label: mk.Label,
		})
	}

	summary := grid.Sum("Total")
	if sess.Field().Type == config.FieldPercentage {
		summary = grid.Average("Average")
	}

	return grid.Build(grid.Params{
		Orientation: orientation,
		Years:       sess.Years(),
		Entities:    sess.Entities(),
		Field:       sess.Field().Value,
		HideEmpty:   cfg.Table.HideEmptyItems,
		Markers:     markers,
		SummaryRow:  summary,
		TotalsCol:   grid.Sum("All years"),
	})
}

// printGrid writes the full table, header and label lanes included.
func printGrid(gridCfg *grid.Config, field config.FieldOption) {
	// One column for the label lane plus one per grid column, fitted to
	// the terminal.
	colWidth := termWidth()/(len(gridCfg.Cols)+1) - 1
	if colWidth < 8 {
		colWidth = 8
	}
	if colWidth > 22 {
		colWidth = 22
	}

	for tr := 0; tr <= len(gridCfg.Rows); tr++ {
		cells := make([]string, 0, len(gridCfg.Cols)+1)
		for tc := 0; tc <= len(gridCfg.Cols); tc++ {
			cells = append(cells, renderShowCell(gridCfg, field, tr, tc, colWidth))
		}
		fmt.Println(strings.Join(cells, " "))
	}
}

func renderShowCell(gridCfg *grid.Config, field config.FieldOption, tr, tc, width int) string {
	var text string
	var marker bool

	switch {
	case tr == 0 && tc == 0:
		text = field.Label
	case tr == 0:
		col := gridCfg.Cols[tc-1]
		text = col.Label
		marker = col.Marker != nil
	case tc == 0:
		row := gridCfg.Rows[tr-1]
		text = row.Label
		marker = row.Marker != nil
	default:
		cd := gridCfg.CellData(gridCfg.Rows[tr-1], gridCfg.Cols[tc-1])
		text = tui.FormatValue(field.Type, cd.Value)
		marker = cd.Marker != nil
	}

	padded := fit(text, width)
	if tc > 0 && tr > 0 {
		// Right-align numbers inside the cell.
		padded = fit(strings.Repeat(" ", width-min(width, len(text)))+text, width)
	}

	switch grid.Classify(gridCfg.ClassCell(tr, tc)) {
	case grid.PositionHeader, grid.PositionSubheader:
		if marker {
			return formatMarker(padded)
		}
		return formatHeader(padded)
	case grid.PositionSummary:
		return formatSummary(padded)
	case grid.PositionTotals:
		return formatTotals(padded)
	default:
		if text == "-" {
			return formatMuted(padded)
		}
		if marker {
			return formatMarker(padded)
		}
		return padded
	}
}
