package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/ph1ltep/wfgrid/internal/grid"
)

// View renders the TUI.
func (m Model) View() string {
	if m.mode == ModeConfirm {
		return m.renderModal()
	}

	sections := []string{
		m.renderTitle(),
		m.renderTable(),
		m.renderLegend(),
		m.renderStatus(),
		m.renderHelp(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTitle() string {
	title := m.sess.Field().Label
	if title == "" {
		title = m.sess.Field().Value
	}
	mode := "viewing"
	if m.sess.Editing() {
		mode = "editing"
	}
	return m.styles.TitleStyle.Render(fmt.Sprintf("%s · %s · %s", title, m.orientation, mode))
}

// renderTable paints the grid: a header lane, a label lane, the data
// body, and any aggregate lanes, each cell styled by its class tokens.
func (m Model) renderTable() string {
	cfg := m.gridCfg
	if len(cfg.Rows) == 0 || len(cfg.Cols) == 0 {
		return m.styles.HelpStyle.Render("No data to display")
	}

	lines := make([]string, 0, len(cfg.Rows)+1)
	for tr := 0; tr <= len(cfg.Rows); tr++ {
		cells := make([]string, 0, len(cfg.Cols)+1)
		for tc := 0; tc <= len(cfg.Cols); tc++ {
			cells = append(cells, m.renderCell(tr, tc))
		}
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return strings.Join(lines, "\n")
}

// renderCell renders one table cell. Table coordinates include the
// header lane at row 0 and the label lane at column 0.
func (m Model) renderCell(tr, tc int) string {
	cfg := m.gridCfg
	pos := grid.Classify(cfg.ClassCell(tr, tc))

	var (
		text    string
		numeric bool
		marker  *grid.Marker
		cd      grid.CellData
		isBody  bool
	)
	switch {
	case tr == 0 && tc == 0:
		text = m.sess.Field().Label
	case tr == 0:
		col := cfg.Cols[tc-1]
		text = col.Label
		marker = col.Marker
	case tc == 0:
		row := cfg.Rows[tr-1]
		text = row.Label
		marker = row.Marker
	default:
		cd = cfg.CellData(cfg.Rows[tr-1], cfg.Cols[tc-1])
		text = FormatValue(m.sess.Field().Type, cd.Value)
		numeric = true
		marker = cd.Marker
		isBody = true
	}

	selected := isBody && tr-1 == m.cursor.Row && tc-1 == m.cursor.Col
	tokens := grid.Classes(grid.ClassParams{
		Position:    pos,
		Orientation: m.orientation,
		Marker:      marker,
		Selected:    selected,
		Primary:     selected && m.mode == ModeInput,
	})
	style := m.styleCache.Cell(tokens, numeric)

	// Inline state overrides win over class styling.
	if isBody && !cd.Computed && m.sess.Editing() {
		if _, bad := m.sess.Error(cd.Key); bad {
			style = m.styles.ErrorCellStyle.Inherit(style)
		} else if m.sess.Modified(cd.Key) {
			style = m.styles.ModifiedCellStyle.Inherit(style)
		}
	}

	if selected && m.mode == ModeInput {
		return style.Render(m.input.View())
	}
	return style.Render(truncate(text, m.styleCache.Width()-2))
}

func (m Model) renderLegend() string {
	if len(m.markers) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.markers))
	for _, mk := range m.markers {
		label := mk.Label
		if label == "" {
			label = mk.Kind
		}
		dot := m.styles.LegendMarkStyle.Foreground(m.theme.MarkerColor(mk.Color)).Render("●")
		parts = append(parts, fmt.Sprintf("%s %s (year %d)", dot, label, mk.Year))
	}
	return m.styles.LegendStyle.Render(strings.Join(parts, "   "))
}

func (m Model) renderStatus() string {
	if m.statusMsg != "" {
		if m.statusIsErr {
			return m.styles.StatusErrorStyle.Render(m.statusMsg)
		}
		return m.styles.StatusStyle.Render(m.statusMsg)
	}

	if m.sess.Editing() {
		line := fmt.Sprintf("%d modified", m.sess.ModifiedCount())
		if n := m.sess.ErrorCount(); n > 0 {
			line += fmt.Sprintf(" · %d validation error(s)", n)
		}
		if key := m.cursorErrorMessage(); key != "" {
			line += " · " + key
		}
		return m.styles.StatusStyle.Render(line)
	}
	return ""
}

// cursorErrorMessage surfaces the validation message for the focused
// cell, if any.
func (m Model) cursorErrorMessage() string {
	if !m.cursorEditable() {
		return ""
	}
	msg, _ := m.sess.Error(m.cursorCell().Key)
	return msg
}

func (m Model) renderHelp() string {
	var help string
	switch m.mode {
	case ModeInput:
		help = "enter apply · esc abort"
	case ModeEdit:
		help = "←↓↑→ move · enter edit cell · x blank · s save · f field · o orientation · esc cancel"
	default:
		help = "←↓↑→ move · e edit · f field · o orientation · c copy · q quit"
	}
	return m.styles.HelpStyle.Render(help)
}

func (m Model) renderModal() string {
	var body string
	switch m.confirm {
	case confirmSwitchField:
		body = fmt.Sprintf("Discard %d unsaved change(s) and switch field?", m.sess.ModifiedCount())
	case confirmQuit:
		body = fmt.Sprintf("Discard %d unsaved change(s) and quit?", m.sess.ModifiedCount())
	default:
		body = fmt.Sprintf("Discard %d unsaved change(s)?", m.sess.ModifiedCount())
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.styles.ModalTitleStyle.Render("Unsaved changes"),
		"",
		m.styles.ModalBodyStyle.Render(body),
		"",
		m.styles.ModalHintStyle.Render("y discard · n keep editing"),
	)
	modal := m.styles.ModalStyle.Render(content)
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
	}
	return modal
}

func truncate(s string, width int) string {
	if width <= 0 || ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
