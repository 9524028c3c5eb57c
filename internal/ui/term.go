package ui

import (
	"os"

	"github.com/charmbracelet/x/ansi"
	"github.com/fatih/color"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// Color definitions for consistent styling across the CLI output.
var (
	// Headers and row labels: bold
	colorHeader = color.New(color.Bold)

	// Summary lane: bold green
	colorSummary = color.New(color.FgGreen, color.Bold)

	// Totals lane: bold yellow
	colorTotals = color.New(color.FgYellow, color.Bold)

	// Marker years: magenta to stand out
	colorMarker = color.New(color.FgMagenta)

	// Muted: empty cells and secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)
)

func init() {
	// Honor NO_COLOR and dumb terminals for one-shot output.
	if termenv.EnvColorProfile() == termenv.Ascii {
		color.NoColor = true
	}
}

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80 // sensible default
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// fit pads or truncates s to exactly width cells, ANSI-aware.
func fit(s string, width int) string {
	if w := ansi.StringWidth(s); w > width {
		return ansi.Truncate(s, width, "…")
	}
	for ansi.StringWidth(s) < width {
		s += " "
	}
	return s
}

// formatHeader formats text as a header.
func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

// formatSummary formats text for the summary lane.
func formatSummary(s string) string {
	return colorSummary.Sprint(s)
}

// formatTotals formats text for the totals lane.
func formatTotals(s string) string {
	return colorTotals.Sprint(s)
}

// formatMarker formats text for a marker-bound year.
func formatMarker(s string) string {
	return colorMarker.Sprint(s)
}

// formatMuted formats text as secondary/muted.
func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}
