// Package tui provides the terminal user interface for wfgrid.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ph1ltep/wfgrid/internal/grid"
	"github.com/ph1ltep/wfgrid/internal/tui/theme"
)

// Default cell width - recalculated from the terminal size.
const defaultCellWidth = 12

// Styles holds all lipgloss styles for the TUI, derived from a theme.
// Cell styling is driven by the class tokens the grid engine emits:
// each token maps to an overlay style, and later tokens in a token
// list win over earlier ones.
type Styles struct {
	colorBg          lipgloss.Color
	colorBgHighlight lipgloss.Color
	colorBgSelection lipgloss.Color
	colorFg          lipgloss.Color
	colorFgMuted     lipgloss.Color
	colorAccent      lipgloss.Color
	colorSummary     lipgloss.Color
	colorTotals      lipgloss.Color
	colorModified    lipgloss.Color
	colorError       lipgloss.Color
	colorWarning     lipgloss.Color

	// Class token overlays, applied in token order.
	classStyles map[string]lipgloss.Style

	// Chrome styles
	TitleStyle       lipgloss.Style
	LegendStyle      lipgloss.Style
	LegendMarkStyle  lipgloss.Style
	StatusStyle      lipgloss.Style
	StatusErrorStyle lipgloss.Style
	HelpStyle        lipgloss.Style

	// Modal styles
	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	ModalBodyStyle  lipgloss.Style
	ModalHintStyle  lipgloss.Style

	// Cell-state overrides layered on top of class styles. These are
	// the caller-side inline overrides and always win.
	ModifiedCellStyle lipgloss.Style
	ErrorCellStyle    lipgloss.Style

	// Input styles for the in-cell editor
	InputTextStyle   lipgloss.Style
	InputCursorStyle lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme. Marker class
// overlays are registered per configured marker so "marker-{kind}"
// tokens resolve to the marker's named color.
func NewStyles(t *theme.Theme, markers []grid.Marker) *Styles {
	s := &Styles{}

	s.colorBg = theme.Color(t.Bg)
	s.colorBgHighlight = theme.Color(t.BgHighlight)
	s.colorBgSelection = theme.Color(t.BgSelection)
	s.colorFg = theme.Color(t.Fg)
	s.colorFgMuted = theme.Color(t.FgMuted)
	s.colorAccent = theme.Color(t.Accent)
	s.colorSummary = theme.Color(t.Summary)
	s.colorTotals = theme.Color(t.Totals)
	s.colorModified = theme.Color(t.Modified)
	s.colorError = theme.Color(t.Error)
	s.colorWarning = theme.Color(t.Warning)

	s.classStyles = map[string]lipgloss.Style{
		grid.ClassBase: lipgloss.NewStyle().
			Foreground(s.colorFg).
			Background(s.colorBg),

		"header": lipgloss.NewStyle().
			Bold(true).
			Foreground(s.colorAccent),
		"subheader": lipgloss.NewStyle().
			Foreground(s.colorFgMuted),
		"summary": lipgloss.NewStyle().
			Bold(true).
			Foreground(s.colorSummary).
			Background(s.colorBgHighlight),
		"totals": lipgloss.NewStyle().
			Bold(true).
			Foreground(s.colorTotals).
			Background(s.colorBgHighlight),

		"selected": lipgloss.NewStyle().
			Background(s.colorBgSelection),
		"primary": lipgloss.NewStyle().
			Bold(true).
			Background(s.colorBgSelection).
			Foreground(s.colorFg),

		// State+position combinations keep the lane color readable
		// under the selection background.
		"selected-header":    lipgloss.NewStyle().Bold(true).Underline(true),
		"selected-subheader": lipgloss.NewStyle().Foreground(s.colorFg),
		"selected-summary":   lipgloss.NewStyle().Background(s.colorBgSelection),
		"selected-totals":    lipgloss.NewStyle().Background(s.colorBgSelection),
	}

	for _, mk := range markers {
		token := "marker-" + mk.Kind
		if _, exists := s.classStyles[token]; !exists {
			s.classStyles[token] = lipgloss.NewStyle().Foreground(t.MarkerColor(mk.Color))
		}
	}

	s.TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(s.colorAccent).
		Background(s.colorBg).
		Padding(0, 1)

	s.LegendStyle = lipgloss.NewStyle().Foreground(s.colorFgMuted).Background(s.colorBg)
	s.LegendMarkStyle = lipgloss.NewStyle().Bold(true).Background(s.colorBg)
	s.StatusStyle = lipgloss.NewStyle().Foreground(s.colorFg).Background(s.colorBg)
	s.StatusErrorStyle = lipgloss.NewStyle().Bold(true).Foreground(s.colorError).Background(s.colorBg)
	s.HelpStyle = lipgloss.NewStyle().Foreground(s.colorFgMuted).Background(s.colorBg)

	s.ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.colorWarning).
		Background(s.colorBgHighlight).
		Padding(1, 2)
	s.ModalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(s.colorWarning)
	s.ModalBodyStyle = lipgloss.NewStyle().Foreground(s.colorFg)
	s.ModalHintStyle = lipgloss.NewStyle().Foreground(s.colorFgMuted)

	s.ModifiedCellStyle = lipgloss.NewStyle().Bold(true).Foreground(s.colorModified)
	s.ErrorCellStyle = lipgloss.NewStyle().Bold(true).Foreground(s.colorBg).Background(s.colorError)

	s.InputTextStyle = lipgloss.NewStyle().Foreground(s.colorFg).Background(s.colorBgSelection)
	s.InputCursorStyle = lipgloss.NewStyle().Foreground(s.colorAccent)

	return s
}

// Resolve folds a class token list into one style. Tokens are applied
// in order; a later token's properties override an earlier token's.
// Unknown tokens are skipped, which is what lets callers carry tokens
// the renderer has no opinion about.
func (s *Styles) Resolve(tokens []string) lipgloss.Style {
	acc := lipgloss.NewStyle()
	first := true
	for _, tok := range tokens {
		overlay, ok := s.classStyles[tok]
		if !ok {
			continue
		}
		if first {
			acc = overlay
			first = false
			continue
		}
		acc = overlay.Inherit(acc)
	}
	return acc
}
