// Package grid builds orientation-symmetric table layouts over contract
// time series and classifies every cell for styling.
package grid

import "strconv"

// Orientation selects which axis carries entities and which carries
// years. All grid logic consults it exactly once, when a configuration
// is built or a cell is classified; callers holding a Config never
// branch on it.
type Orientation int

const (
	// Horizontal lays entities out as rows and years as columns.
	Horizontal Orientation = iota
	// Vertical is the transpose: years as rows, entities as columns.
	Vertical
)

func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Marker is a highlight annotation bound to a single year value, e.g.
// the end of a warranty period.
type Marker struct {
	Year  int
	Color string // color token resolved by the rendering layer
	Kind  string // semantic tag, becomes the marker class token
	Label string
}

// CellKey identifies one editable cell by real entity index and year.
// It joins modification tracking, validation, and rendering.
type CellKey struct {
	Entity int
	Year   int
}

// String returns the canonical "{entity}-{year}" encoding used in
// persistence paths and test fixtures.
func (k CellKey) String() string {
	return strconv.Itoa(k.Entity) + "-" + strconv.Itoa(k.Year)
}
