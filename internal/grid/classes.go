package grid

// Class tokens shared by every cell, in composition order.
const (
	ClassBase        = "cell"
	ClassContent     = "content"
	ClassContentCell = "content-cell"
	ClassContentRow  = "content-row"
	ClassContentCol  = "content-col"

	ClassSelected = "selected"
	ClassPrimary  = "primary"

	markerClassPrefix = "marker-"
)

// ClassParams is the styling input for one cell.
type ClassParams struct {
	Position    Position
	Orientation Orientation
	Marker      *Marker
	Selected    bool
	Primary     bool
}

// Classes composes the ordered class token list for a cell:
//
//	base, content, content-cell, content-row|content-col,
//	position, marker, states, state-position combinations
//
// Later tokens take precedence over earlier ones when renderers resolve
// them to concrete styles; inline overrides applied by the caller win
// over the whole list.
func Classes(p ClassParams) []string {
	tokens := make([]string, 0, 10)
	tokens = append(tokens, ClassBase, ClassContent, ClassContentCell)

	if p.Orientation == Vertical {
		tokens = append(tokens, ClassContentCol)
	} else {
		tokens = append(tokens, ClassContentRow)
	}

	pos := positionClass(p.Position)
	if pos != "" {
		tokens = append(tokens, pos)
	}

	if p.Marker != nil && p.Marker.Kind != "" {
		tokens = append(tokens, markerClassPrefix+p.Marker.Kind)
	}

	if p.Selected {
		tokens = append(tokens, ClassSelected)
	}
	if p.Primary {
		tokens = append(tokens, ClassPrimary)
	}

	if pos != "" {
		if p.Selected {
			tokens = append(tokens, ClassSelected+"-"+pos)
		}
		if p.Primary {
			tokens = append(tokens, ClassPrimary+"-"+pos)
		}
	}

	return tokens
}

// positionClass returns the class token for a position category. Data
// cells carry no position token.
func positionClass(p Position) string {
	if p == PositionData {
		return ""
	}
	return p.String()
}
