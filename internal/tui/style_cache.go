package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StyleCache memoizes width-applied cell styles per class token list
// to avoid rebuilding lipgloss styles on every render pass. A new
// cache is built whenever the terminal width changes.
type StyleCache struct {
	styles *Styles
	width  int
	memo   map[string]lipgloss.Style
}

// NewStyleCache creates a cache for the given cell width.
func NewStyleCache(styles *Styles, width int) *StyleCache {
	return &StyleCache{
		styles: styles,
		width:  max(1, width),
		memo:   make(map[string]lipgloss.Style),
	}
}

// Width returns the cached cell width.
func (c *StyleCache) Width() int {
	return c.width
}

// Cell resolves a token list into a width-applied style. Numeric cells
// align right, label cells align left.
func (c *StyleCache) Cell(tokens []string, numeric bool) lipgloss.Style {
	key := strings.Join(tokens, " ")
	if numeric {
		key += "|n"
	}
	if st, ok := c.memo[key]; ok {
		return st
	}

	st := c.styles.Resolve(tokens).Width(c.width).Padding(0, 1)
	if numeric {
		st = st.Align(lipgloss.Right)
	} else {
		st = st.Align(lipgloss.Left)
	}
	c.memo[key] = st
	return st
}
