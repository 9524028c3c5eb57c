package grid

// Position is the disjoint category a cell occupies in the rendered
// table. Exactly one category applies to any cell.
type Position int

const (
	// PositionData is a plain editable value cell.
	PositionData Position = iota
	// PositionHeader is the clickable axis header lane.
	PositionHeader
	// PositionSubheader is the fixed label lane (entity names or year
	// labels), visually distinct from the header but never selectable.
	PositionSubheader
	// PositionSummary is a synthetic aggregate row appended below the
	// data rows. Never editable.
	PositionSummary
	// PositionTotals is a synthetic aggregate column appended after the
	// data columns. Never editable.
	PositionTotals
)

func (p Position) String() string {
	switch p {
	case PositionHeader:
		return "header"
	case PositionSubheader:
		return "subheader"
	case PositionSummary:
		return "summary"
	case PositionTotals:
		return "totals"
	default:
		return "data"
	}
}

// Cell carries the full-table coordinates the classifier needs. Row and
// Col include the label lane; TotalRows and TotalCols count the table
// body including any appended aggregate lane. When a table has no
// aggregate lane, callers pass 1 for the corresponding total so the
// size guard keeps summary/totals classification off (Config.ClassCell
// does this).
type Cell struct {
	Row       int
	Col       int
	TotalRows int
	TotalCols int
	HeaderRow bool
	HeaderCol bool

	Orientation Orientation
}

// Classify maps a cell to exactly one position category.
//
// Header is the axis header lane for the current orientation. The
// subheader is column 0 in horizontal layouts and row 0 in vertical
// ones. Summary and totals are the last row and last column of tables
// large enough to carry an aggregate lane; a cell that is both resolves
// to summary. Everything else is data.
func Classify(c Cell) Position {
	header := (c.Orientation == Horizontal && c.HeaderRow) ||
		(c.Orientation == Vertical && c.HeaderCol)
	if header {
		return PositionHeader
	}

	if (c.Orientation == Horizontal && c.Col == 0) ||
		(c.Orientation == Vertical && c.Row == 0) {
		return PositionSubheader
	}

	if c.Row == c.TotalRows-1 && c.TotalRows > 1 {
		return PositionSummary
	}
	if c.Col == c.TotalCols-1 && c.TotalCols > 1 {
		return PositionTotals
	}

	return PositionData
}
