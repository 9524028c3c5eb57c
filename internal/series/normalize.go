package series

import "math"

// DefaultSource produces the fill value used for years an entity has no
// point for. It receives the entity so defaults can come from one of
// its attributes (e.g. a flat fee).
type DefaultSource func(Entity) *float64

// AttrDefault returns a DefaultSource that reads a numeric attribute.
// Entities without the attribute get nil values.
func AttrDefault(name string) DefaultSource {
	return func(e Entity) *float64 {
		return e.AttrFloat(name)
	}
}

// Normalize returns a deep copy of entities where the named series has
// exactly one point per year in years. Existing points are kept;
// missing years are synthesized from defaultOf. Points outside the
// year list are carried through unchanged: the grid never shows them,
// but they must survive the edit round-trip instead of being deleted
// by an unrelated save.
//
// Called on entering edit mode so every cell of the working copy has a
// point behind it.
func Normalize(entities []Entity, field string, defaultOf DefaultSource, years []int) []Entity {
	out := CloneEntities(entities)
	inRange := make(map[int]bool, len(years))
	for _, y := range years {
		inRange[y] = true
	}

	for i := range out {
		existing := make(map[int]Point, len(out[i].Points(field)))
		for _, p := range out[i].Points(field) {
			existing[p.Year] = p
		}

		pts := make([]Point, 0, len(years))
		for _, y := range years {
			if p, ok := existing[y]; ok {
				pts = append(pts, p)
				continue
			}
			p := Point{Year: y}
			if defaultOf != nil {
				p.Value = defaultOf(out[i])
			}
			pts = append(pts, p)
		}
		for _, p := range out[i].Points(field) {
			if !inRange[p.Year] {
				pts = append(pts, p)
			}
		}
		SortPoints(pts)

		if out[i].Series == nil {
			out[i].Series = make(map[string][]Point, 1)
		}
		out[i].Series[field] = pts
	}
	return out
}

// Trim returns a deep copy of entities with placeholder points removed
// from the named series. With trimBlanks, points whose value is nil or
// NaN are dropped. With a non-nil sentinel, points equal to it are
// dropped as well, so untouched defaults never reach persistence.
func Trim(entities []Entity, field string, trimBlanks bool, sentinel *float64) []Entity {
	out := CloneEntities(entities)
	for i := range out {
		src := out[i].Points(field)
		if src == nil {
			continue
		}
		kept := make([]Point, 0, len(src))
		for _, p := range src {
			if trimBlanks && (p.Value == nil || math.IsNaN(*p.Value)) {
				continue
			}
			if sentinel != nil && p.Value != nil && *p.Value == *sentinel {
				continue
			}
			kept = append(kept, p)
		}
		out[i].Series[field] = kept
	}
	return out
}
