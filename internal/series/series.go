// Package series holds the contract time-series model that the grid
// renders and the edit session mutates.
package series

import "sort"

// Point is one year-indexed value in a series. A nil Value means the
// year has no recorded data.
type Point struct {
	Year  int      `json:"year"`
	Value *float64 `json:"value"`
}

// Entity is a named record owning one or more named point series plus
// auxiliary attributes. Attributes survive edit round-trips unchanged.
type Entity struct {
	Name   string
	Attrs  map[string]any
	Series map[string][]Point
}

// YearRange is the contiguous set of year values materialized as rows
// or columns.
type YearRange struct {
	Min int
	Max int
}

// Valid reports whether the range contains at least one year.
func (r YearRange) Valid() bool {
	return r.Max >= r.Min
}

// Len returns the number of years in the range.
func (r YearRange) Len() int {
	if !r.Valid() {
		return 0
	}
	return r.Max - r.Min + 1
}

// Years expands the range into an ordered slice of year values.
func (r YearRange) Years() []int {
	if !r.Valid() {
		return nil
	}
	years := make([]int, 0, r.Len())
	for y := r.Min; y <= r.Max; y++ {
		years = append(years, y)
	}
	return years
}

// Value returns a pointer to v. Convenience for building points.
func Value(v float64) *float64 {
	return &v
}

// Points returns the named series, or nil if the entity has none.
func (e Entity) Points(field string) []Point {
	if e.Series == nil {
		return nil
	}
	return e.Series[field]
}

// PointAt returns the point for the given year in the named series.
func (e Entity) PointAt(field string, year int) (Point, bool) {
	for _, p := range e.Points(field) {
		if p.Year == year {
			return p, true
		}
	}
	return Point{}, false
}

// AttrFloat returns a numeric attribute as a float pointer, or nil if
// the attribute is absent or not numeric.
func (e Entity) AttrFloat(name string) *float64 {
	if e.Attrs == nil {
		return nil
	}
	switch v := e.Attrs[name].(type) {
	case float64:
		return Value(v)
	case float32:
		return Value(float64(v))
	case int:
		return Value(float64(v))
	case int64:
		return Value(float64(v))
	case *float64:
		return v
	}
	return nil
}

// Clone returns a deep copy of the entity. Attribute values are copied
// by reference; callers treat Attrs as immutable.
func (e Entity) Clone() Entity {
	c := Entity{Name: e.Name}
	if e.Attrs != nil {
		c.Attrs = make(map[string]any, len(e.Attrs))
		for k, v := range e.Attrs {
			c.Attrs[k] = v
		}
	}
	if e.Series != nil {
		c.Series = make(map[string][]Point, len(e.Series))
		for field, pts := range e.Series {
			c.Series[field] = ClonePoints(pts)
		}
	}
	return c
}

// ClonePoints returns a deep copy of a point slice.
func ClonePoints(pts []Point) []Point {
	if pts == nil {
		return nil
	}
	out := make([]Point, len(pts))
	for i, p := range pts {
		out[i] = Point{Year: p.Year}
		if p.Value != nil {
			v := *p.Value
			out[i].Value = &v
		}
	}
	return out
}

// CloneEntities deep-copies a slice of entities.
func CloneEntities(entities []Entity) []Entity {
	if entities == nil {
		return nil
	}
	out := make([]Entity, len(entities))
	for i, e := range entities {
		out[i] = e.Clone()
	}
	return out
}

// SortPoints orders points by ascending year in place.
func SortPoints(pts []Point) {
	sort.Slice(pts, func(i, j int) bool { return pts[i].Year < pts[j].Year })
}
