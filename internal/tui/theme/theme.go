// Package theme provides color themes for the TUI.
package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string
	Bg          string // base background
	BgHighlight string // aggregate lanes, subtle highlight
	BgSelection string // cursor, selection
	Fg          string // primary foreground
	FgMuted     string // subheaders, muted elements
	Accent      string // title, header lane, borders
	Summary     string // summary lane values
	Totals      string // totals lane values
	Modified    string // cells touched this edit
	Error       string // failing validation
	Warning     string // confirm prompts, discard warnings

	// Named marker colors, addressed by the marker spec's color field.
	Markers map[string]string
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// MarkerColor resolves a named marker color, falling back to the
// accent when the name is unknown.
func (t *Theme) MarkerColor(name string) lipgloss.Color {
	if c, ok := t.Markers[strings.ToLower(name)]; ok {
		return Color(c)
	}
	return Color(t.Accent)
}

// builtin holds the shipped Catppuccin-flavored themes.
var builtin = map[string]*Theme{
	"mocha": {
		Name: "mocha",
		Bg:   "#1e1e2e", BgHighlight: "#313244", BgSelection: "#45475a",
		Fg: "#cdd6f4", FgMuted: "#a6adc8",
		Accent: "#89b4fa", Summary: "#a6e3a1", Totals: "#94e2d5",
		Modified: "#f9e2af", Error: "#f38ba8", Warning: "#fab387",
		Markers: map[string]string{
			"amber": "#f9e2af", "red": "#f38ba8", "green": "#a6e3a1",
			"blue": "#89b4fa", "mauve": "#cba6f7", "teal": "#94e2d5",
		},
	},
	"macchiato": {
		Name: "macchiato",
		Bg:   "#24273a", BgHighlight: "#363a4f", BgSelection: "#494d64",
		Fg: "#cad3f5", FgMuted: "#a5adcb",
		Accent: "#8aadf4", Summary: "#a6da95", Totals: "#8bd5ca",
		Modified: "#eed49f", Error: "#ed8796", Warning: "#f5a97f",
		Markers: map[string]string{
			"amber": "#eed49f", "red": "#ed8796", "green": "#a6da95",
			"blue": "#8aadf4", "mauve": "#c6a0f6", "teal": "#8bd5ca",
		},
	},
	"frappe": {
		Name: "frappe",
		Bg:   "#303446", BgHighlight: "#414559", BgSelection: "#51576d",
		Fg: "#c6d0f5", FgMuted: "#a5adce",
		Accent: "#8caaee", Summary: "#a6d189", Totals: "#81c8be",
		Modified: "#e5c890", Error: "#e78284", Warning: "#ef9f76",
		Markers: map[string]string{
			"amber": "#e5c890", "red": "#e78284", "green": "#a6d189",
			"blue": "#8caaee", "mauve": "#ca9ee6", "teal": "#81c8be",
		},
	},
	"latte": {
		Name: "latte",
		Bg:   "#eff1f5", BgHighlight: "#ccd0da", BgSelection: "#bcc0cc",
		Fg: "#4c4f69", FgMuted: "#6c6f85",
		Accent: "#1e66f5", Summary: "#40a02b", Totals: "#179299",
		Modified: "#df8e1d", Error: "#d20f39", Warning: "#fe640b",
		Markers: map[string]string{
			"amber": "#df8e1d", "red": "#d20f39", "green": "#40a02b",
			"blue": "#1e66f5", "mauve": "#8839ef", "teal": "#179299",
		},
	},
}

// Load loads a theme by name.
// Falls back to frappe if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "frappe"
	}
	name = strings.ToLower(name)

	t, ok := builtin[name]
	if !ok {
		if name != "frappe" {
			return Load("frappe")
		}
		return nil, fmt.Errorf("loading theme %q: not found", name)
	}
	return t, nil
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
