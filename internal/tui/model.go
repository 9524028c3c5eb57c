package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ph1ltep/wfgrid/internal/config"
	"github.com/ph1ltep/wfgrid/internal/grid"
	"github.com/ph1ltep/wfgrid/internal/session"
	"github.com/ph1ltep/wfgrid/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeView    Mode = iota
	ModeEdit         // edit session open, navigating cells
	ModeInput        // cell editor focused
	ModeConfirm      // discard confirmation modal
)

// confirmAction is what a confirmed discard proceeds to.
type confirmAction int

const (
	confirmCancelEdit confirmAction = iota
	confirmSwitchField
	confirmQuit
)

// Position is the cursor position over body descriptors.
type Position struct {
	Row int // index into the grid config's Rows
	Col int // index into the grid config's Cols
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	sess   *session.Session
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Layout state
	orientation grid.Orientation
	markers     []grid.Marker
	gridCfg     *grid.Config

	// Interaction state
	cursor       Position
	mode         Mode
	confirm      confirmAction
	pendingField string // field a confirmed switch proceeds to
	saving       bool   // a save command is outstanding

	// Components
	input textinput.Model

	// Terminal dimensions and layout
	width     int
	height    int
	cellWidth int

	// Cached render data
	styleCache *StyleCache

	// Messages
	statusMsg   string
	statusIsErr bool
	statusTime  time.Time

	err error
}

// New creates a new TUI model over a loaded session.
func New(sess *session.Session, cfg *config.Config) *Model {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		t, _ = theme.Load("frappe")
	}

	markers := make([]grid.Marker, 0, len(cfg.Table.Markers))
	for _, mk := range cfg.Table.Markers {
		markers = append(markers, grid.Marker{
			Year:  mk.Year,
			Color: mk.Color,
			Kind:  mk.Kind,
			Label: mk.Label,
		})
	}

	styles := NewStyles(t, markers)

	ti := textinput.New()
	ti.CharLimit = 24
	ti.Prompt = ""
	ti.TextStyle = styles.InputTextStyle
	ti.Cursor.Style = styles.InputCursorStyle

	orientation := grid.Horizontal
	if cfg.Table.Orientation == "vertical" {
		orientation = grid.Vertical
	}

	m := &Model{
		sess:        sess,
		config:      cfg,
		theme:       t,
		styles:      styles,
		orientation: orientation,
		markers:     markers,
		mode:        ModeView,
		input:       ti,
		cellWidth:   defaultCellWidth,
		styleCache:  NewStyleCache(styles, defaultCellWidth),
	}
	m.rebuildGrid()
	return m
}

// rebuildGrid rebuilds the grid configuration from the current session
// state. Called after anything that changes entities, field,
// orientation, or edit mode.
func (m *Model) rebuildGrid() {
	m.gridCfg = grid.Build(grid.Params{
		Orientation: m.orientation,
		Years:       m.sess.Years(),
		Entities:    m.sess.Entities(),
		Field:       m.sess.Field().Value,
		HideEmpty:   m.config.Table.HideEmptyItems,
		Editing:     m.sess.Editing(),
		Markers:     m.markers,
		SummaryRow:  m.summaryAggregator(),
		TotalsCol:   grid.Sum("All years"),
	})
	m.clampCursor()
}

// summaryAggregator picks the lane aggregation for the active field:
// percentages average, everything else sums.
func (m *Model) summaryAggregator() *grid.Aggregator {
	if m.sess.Field().Type == config.FieldPercentage {
		return grid.Average("Average")
	}
	return grid.Sum("Total")
}

func (m *Model) clampCursor() {
	if m.cursor.Row >= len(m.gridCfg.Rows) {
		m.cursor.Row = len(m.gridCfg.Rows) - 1
	}
	if m.cursor.Row < 0 {
		m.cursor.Row = 0
	}
	if m.cursor.Col >= len(m.gridCfg.Cols) {
		m.cursor.Col = len(m.gridCfg.Cols) - 1
	}
	if m.cursor.Col < 0 {
		m.cursor.Col = 0
	}
}

// cursorCell returns the cell data under the cursor.
func (m *Model) cursorCell() grid.CellData {
	return m.gridCfg.CellData(m.gridCfg.Rows[m.cursor.Row], m.gridCfg.Cols[m.cursor.Col])
}

// cursorEditable reports whether the cursor sits on an editable cell.
func (m *Model) cursorEditable() bool {
	if len(m.gridCfg.Rows) == 0 || len(m.gridCfg.Cols) == 0 {
		return false
	}
	return !m.gridCfg.Rows[m.cursor.Row].Aggregate && !m.gridCfg.Cols[m.cursor.Col].Aggregate
}

// setStatus sets a transient status line.
func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsErr = isErr
	m.statusTime = time.Now().Add(4 * time.Second)
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Run starts the TUI.
func Run(sess *session.Session, cfg *config.Config) error {
	return RunWithDebug(sess, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(sess *session.Session, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model := New(sess, cfg)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
