package grid

import (
	"strconv"

	"github.com/ph1ltep/wfgrid/internal/series"
)

// Descriptor identifies one row or column of a built grid. Entity-axis
// descriptors carry the real index into the underlying entity slice so
// write-back stays correct when empty items are hidden; year-axis
// descriptors carry the year value and any bound marker. Aggregate
// lanes carry neither.
type Descriptor struct {
	Key         string
	Label       string
	EntityIndex int // real entity index, -1 off the entity axis
	Year        int
	Marker      *Marker
	Aggregate   bool
}

// Aggregator computes a synthetic summary or totals lane. The numeric
// function is injected; the grid never does financial math itself.
type Aggregator struct {
	Label string
	Fn    func(values []float64) float64
}

// Sum returns an aggregator that totals its inputs.
func Sum(label string) *Aggregator {
	return &Aggregator{Label: label, Fn: func(values []float64) float64 {
		var total float64
		for _, v := range values {
			total += v
		}
		return total
	}}
}

// Average returns an aggregator over the non-null inputs.
func Average(label string) *Aggregator {
	return &Aggregator{Label: label, Fn: func(values []float64) float64 {
		if len(values) == 0 {
			return 0
		}
		var total float64
		for _, v := range values {
			total += v
		}
		return total / float64(len(values))
	}}
}

// Params is the input to Build.
type Params struct {
	Orientation Orientation
	Years       []int
	Entities    []series.Entity
	Field       string
	HideEmpty   bool // drop all-null rows/columns (read mode only)
	Editing     bool // edit mode forces full row/column sets
	Markers     []Marker

	// Optional aggregate lanes. SummaryRow is appended as the last row,
	// TotalsCol as the last column, whatever the orientation.
	SummaryRow *Aggregator
	TotalsCol  *Aggregator
}

// Config is a built grid layout. Rows and Cols are ready for rendering
// in order; CellData resolves any (row, col) pair to the underlying
// value without the caller ever consulting the orientation.
type Config struct {
	Rows []Descriptor
	Cols []Descriptor

	orientation Orientation
	field       string
	entities    []series.Entity
	summaryRow  *Aggregator
	totalsCol   *Aggregator
}

// CellData is the resolved content of one body cell.
type CellData struct {
	Value       *float64
	Key         CellKey
	EntityIndex int // real entity index, -1 for computed cells
	Year        int
	Marker      *Marker
	Exists      bool // a stored point backs the cell
	Computed    bool // value came from an aggregate lane
}

// Build converts an entity list and an expanded year list into a grid
// configuration for the requested orientation. When HideEmpty is set
// and the grid is not editing, rows and columns whose entire
// cross-section is null are omitted; editing always materializes the
// full sets so every cell can receive a value.
func Build(p Params) *Config {
	markers := make(map[int]*Marker, len(p.Markers))
	for i := range p.Markers {
		m := p.Markers[i]
		markers[m.Year] = &m
	}

	hide := p.HideEmpty && !p.Editing

	entityAxis := make([]Descriptor, 0, len(p.Entities))
	for i, e := range p.Entities {
		if hide && entityAllNull(e, p.Field, p.Years) {
			continue
		}
		entityAxis = append(entityAxis, Descriptor{
			Key:         "contract-" + strconv.Itoa(i),
			Label:       e.Name,
			EntityIndex: i,
		})
	}

	yearAxis := make([]Descriptor, 0, len(p.Years))
	for _, y := range p.Years {
		if hide && yearAllNull(p.Entities, p.Field, y) {
			continue
		}
		yearAxis = append(yearAxis, Descriptor{
			Key:         "year-" + strconv.Itoa(y),
			Label:       "Year " + strconv.Itoa(y),
			EntityIndex: -1,
			Year:        y,
			Marker:      markers[y],
		})
	}

	cfg := &Config{
		orientation: p.Orientation,
		field:       p.Field,
		entities:    p.Entities,
		summaryRow:  p.SummaryRow,
		totalsCol:   p.TotalsCol,
	}

	if p.Orientation == Vertical {
		cfg.Rows = yearAxis
		cfg.Cols = entityAxis
	} else {
		cfg.Rows = entityAxis
		cfg.Cols = yearAxis
	}

	if p.SummaryRow != nil {
		cfg.Rows = append(cfg.Rows, Descriptor{
			Key:         "summary",
			Label:       p.SummaryRow.Label,
			EntityIndex: -1,
			Aggregate:   true,
		})
	}
	if p.TotalsCol != nil {
		cfg.Cols = append(cfg.Cols, Descriptor{
			Key:         "totals",
			Label:       p.TotalsCol.Label,
			EntityIndex: -1,
			Aggregate:   true,
		})
	}

	return cfg
}

// Orientation returns the orientation the grid was built with.
func (c *Config) Orientation() Orientation {
	return c.orientation
}

// Field returns the series field the grid exposes.
func (c *Config) Field() string {
	return c.field
}

// HasSummaryRow reports whether a summary lane was appended.
func (c *Config) HasSummaryRow() bool {
	return c.summaryRow != nil
}

// HasTotalsCol reports whether a totals lane was appended.
func (c *Config) HasTotalsCol() bool {
	return c.totalsCol != nil
}

// CellData resolves a (row, col) descriptor pair to the underlying
// entity and year, or to a computed aggregate for synthetic lanes.
func (c *Config) CellData(row, col Descriptor) CellData {
	switch {
	case row.Aggregate && col.Aggregate:
		return c.intersectionCell()
	case row.Aggregate:
		return c.summaryCell(col)
	case col.Aggregate:
		return c.totalsCell(row)
	}

	entity, year := row, col
	if c.orientation == Vertical {
		entity, year = col, row
	}

	cd := CellData{
		Key:         CellKey{Entity: entity.EntityIndex, Year: year.Year},
		EntityIndex: entity.EntityIndex,
		Year:        year.Year,
		Marker:      year.Marker,
	}

	if entity.EntityIndex < 0 || entity.EntityIndex >= len(c.entities) {
		return cd
	}
	if p, ok := c.entities[entity.EntityIndex].PointAt(c.field, year.Year); ok {
		cd.Exists = true
		cd.Value = p.Value
	}
	return cd
}

// ClassCell builds the classifier input for full-table coordinates,
// where row 0 is the header lane and column 0 the label lane. Tables
// without an aggregate lane report a total of 1 on that axis so the
// classifier's size guard keeps summary/totals off.
func (c *Config) ClassCell(row, col int) Cell {
	cell := Cell{
		Row:         row,
		Col:         col,
		TotalRows:   1,
		TotalCols:   1,
		HeaderRow:   row == 0,
		HeaderCol:   col == 0,
		Orientation: c.orientation,
	}
	if c.summaryRow != nil {
		cell.TotalRows = len(c.Rows) + 1 // header lane included
	}
	if c.totalsCol != nil {
		cell.TotalCols = len(c.Cols) + 1 // label lane included
	}
	return cell
}

// summaryCell aggregates the data cells down one column.
func (c *Config) summaryCell(col Descriptor) CellData {
	cd := CellData{
		Key:         CellKey{Entity: col.EntityIndex, Year: col.Year},
		EntityIndex: col.EntityIndex,
		Year:        col.Year,
		Marker:      col.Marker,
		Computed:    true,
	}
	if vals := c.columnValues(col); len(vals) > 0 {
		cd.Value = series.Value(c.summaryRow.Fn(vals))
	}
	return cd
}

// totalsCell aggregates the data cells across one row.
func (c *Config) totalsCell(row Descriptor) CellData {
	cd := CellData{
		Key:         CellKey{Entity: row.EntityIndex, Year: row.Year},
		EntityIndex: row.EntityIndex,
		Year:        row.Year,
		Marker:      row.Marker,
		Computed:    true,
	}
	if vals := c.rowValues(row); len(vals) > 0 {
		cd.Value = series.Value(c.totalsCol.Fn(vals))
	}
	return cd
}

// intersectionCell is the summary/totals corner. The canonical
// computation is the totals aggregate over the per-column summaries;
// tests assert the transposed computation agrees.
func (c *Config) intersectionCell() CellData {
	cd := CellData{Key: CellKey{Entity: -1}, EntityIndex: -1, Computed: true}
	var vals []float64
	for _, col := range c.Cols {
		if col.Aggregate {
			continue
		}
		if s := c.summaryCell(col); s.Value != nil {
			vals = append(vals, *s.Value)
		}
	}
	if len(vals) > 0 {
		cd.Value = series.Value(c.totalsCol.Fn(vals))
	}
	return cd
}

func (c *Config) columnValues(col Descriptor) []float64 {
	var vals []float64
	for _, row := range c.Rows {
		if row.Aggregate {
			continue
		}
		if cd := c.CellData(row, col); cd.Value != nil {
			vals = append(vals, *cd.Value)
		}
	}
	return vals
}

func (c *Config) rowValues(row Descriptor) []float64 {
	var vals []float64
	for _, col := range c.Cols {
		if col.Aggregate {
			continue
		}
		if cd := c.CellData(row, col); cd.Value != nil {
			vals = append(vals, *cd.Value)
		}
	}
	return vals
}

// entityAllNull reports whether an entity has no value in any of the
// given years.
func entityAllNull(e series.Entity, field string, years []int) bool {
	for _, y := range years {
		if p, ok := e.PointAt(field, y); ok && p.Value != nil {
			return false
		}
	}
	return true
}

// yearAllNull reports whether no entity has a value for the year.
func yearAllNull(entities []series.Entity, field string, year int) bool {
	for _, e := range entities {
		if p, ok := e.PointAt(field, year); ok && p.Value != nil {
			return false
		}
	}
	return true
}
