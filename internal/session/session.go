// Package session implements the edit lifecycle over the contract
// table: a working copy distinct from the committed snapshot, per-cell
// modification and validation tracking, and a batched diff handed to
// the persistence layer on save.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ph1ltep/wfgrid/internal/config"
	"github.com/ph1ltep/wfgrid/internal/grid"
	"github.com/ph1ltep/wfgrid/internal/series"
)

// Session errors.
var (
	ErrNotEditing        = errors.New("not in edit mode")
	ErrEditing           = errors.New("already in edit mode")
	ErrSaveInFlight      = errors.New("save already in progress")
	ErrUnsavedChanges    = errors.New("unsaved changes")
	ErrValidationPending = errors.New("validation errors pending")
	ErrUnknownField      = errors.New("unknown field")
)

// Store is the persistence collaborator. ValueByPath resolves a dotted
// path in the scenario document and never fails; absent paths yield the
// fallback. UpdateByPath applies a batch of path-addressed updates
// atomically and reports a discriminated result.
type Store interface {
	ValueByPath(path []string, fallback any) any
	UpdateByPath(ctx context.Context, updates map[string]any) (Result, error)
}

// Result is the outcome of a persistence update.
type Result struct {
	Valid   bool
	Applied int
	Errors  []string
}

// MetricsFunc recomputes derived metrics affected by an update. It
// receives the metric names from configuration, a context describing
// the edit, and the outgoing updates; whatever it returns is merged
// into the same batch.
type MetricsFunc func(names []string, editCtx map[string]any, updates map[string]any) map[string]any

// SaveResult reports what a successful or no-op save did.
type SaveResult struct {
	NoOp    bool // nothing was modified; no state changed
	Applied int
}

// Session owns the edit state for one table. It is single-owner and
// must be driven from one goroutine; only Save suspends, on the store
// call.
type Session struct {
	cfg     *config.Config
	store   Store
	metrics MetricsFunc

	field  config.FieldOption
	single bool

	committed []series.Entity

	// Edit state. working is non-nil exactly while editing.
	editing  bool
	saving   bool
	working  []series.Entity
	modified map[grid.CellKey]struct{}
	errors   map[grid.CellKey]string
}

// New creates a session over the configured table. The active field
// starts as the first configured field option; a config without fields
// is refused rather than deferring the failure to the first render.
func New(cfg *config.Config, store Store, metrics MetricsFunc) (*Session, error) {
	if len(cfg.Table.Fields) == 0 {
		return nil, errors.New("no table fields configured")
	}
	return &Session{
		cfg:      cfg,
		store:    store,
		metrics:  metrics,
		field:    cfg.Table.Fields[0],
		modified: make(map[grid.CellKey]struct{}),
		errors:   make(map[grid.CellKey]string),
	}, nil
}

// Load pulls the committed snapshot from the store. It cannot run
// while an edit is open.
func (s *Session) Load() error {
	if s.editing {
		return ErrEditing
	}

	fields := make([]string, len(s.cfg.Table.Fields))
	for i, f := range s.cfg.Table.Fields {
		fields[i] = f.Value
	}

	raw := s.store.ValueByPath(s.cfg.PathSegments(), nil)
	entities, single, err := series.FromDocument(raw, fields)
	if err != nil {
		return fmt.Errorf("loading %s: %w", s.cfg.Table.Path, err)
	}
	s.committed = entities
	s.single = single
	return nil
}

// Field returns the active field option.
func (s *Session) Field() config.FieldOption {
	return s.field
}

// Editing reports whether an edit is open.
func (s *Session) Editing() bool {
	return s.editing
}

// Saving reports whether a persistence call is pending.
func (s *Session) Saving() bool {
	return s.saving
}

// Single reports whether the table wraps a lone entity.
func (s *Session) Single() bool {
	return s.single
}

// Entities returns the working copy while editing, the committed
// snapshot otherwise. Callers must not mutate the result.
func (s *Session) Entities() []series.Entity {
	if s.editing {
		return s.working
	}
	return s.committed
}

// Committed returns the committed snapshot.
func (s *Session) Committed() []series.Entity {
	return s.committed
}

// Years expands the configured year range.
func (s *Session) Years() []int {
	r := series.YearRange{Min: s.cfg.Table.YearRange.Min, Max: s.cfg.Table.YearRange.Max}
	return r.Years()
}

// BeginEdit opens an edit: the committed snapshot is normalized into a
// working copy with exactly one point per configured year, missing
// years filled from the field's default attribute. Idempotent while
// already editing.
func (s *Session) BeginEdit() {
	if s.editing {
		return
	}
	s.working = series.Normalize(s.committed, s.field.Value, s.defaultSource(), s.Years())
	s.editing = true
	s.modified = make(map[grid.CellKey]struct{})
	s.errors = make(map[grid.CellKey]string)
}

// HasChanges reports whether any cell has been modified this edit.
func (s *Session) HasChanges() bool {
	return len(s.modified) > 0
}

// Modified reports whether the cell has been touched this edit.
func (s *Session) Modified(key grid.CellKey) bool {
	_, ok := s.modified[key]
	return ok
}

// ModifiedCount returns the number of touched cells.
func (s *Session) ModifiedCount() int {
	return len(s.modified)
}

// Error returns the validation message for a cell, if any.
func (s *Session) Error(key grid.CellKey) (string, bool) {
	msg, ok := s.errors[key]
	return msg, ok
}

// ErrorCount returns the number of cells failing validation.
func (s *Session) ErrorCount() int {
	return len(s.errors)
}

// SetCell writes a value into the working copy, records the cell as
// modified, and validates it against the active field. A nil value
// blanks the cell. Validation outcomes are data, not errors; the
// returned error only signals state machine misuse.
func (s *Session) SetCell(key grid.CellKey, value *float64) error {
	if !s.editing {
		return ErrNotEditing
	}
	if key.Entity < 0 || key.Entity >= len(s.working) {
		return fmt.Errorf("entity index %d out of range", key.Entity)
	}

	e := &s.working[key.Entity]
	pts := e.Series[s.field.Value]
	placed := false
	for i := range pts {
		if pts[i].Year == key.Year {
			pts[i].Value = value
			placed = true
			break
		}
	}
	if !placed {
		pts = append(pts, series.Point{Year: key.Year, Value: value})
		series.SortPoints(pts)
		e.Series[s.field.Value] = pts
	}

	s.modified[key] = struct{}{}
	if msg := s.validateValue(value); msg != "" {
		s.errors[key] = msg
	} else {
		delete(s.errors, key)
	}
	return nil
}

// Cancel discards the edit and returns to viewing. With unsaved
// changes it refuses unless force is set, so callers can put a
// confirmation in front of the discard.
func (s *Session) Cancel(force bool) error {
	if !s.editing {
		return ErrNotEditing
	}
	if s.HasChanges() && !force {
		return ErrUnsavedChanges
	}
	s.discard()
	return nil
}

// SwitchField changes the active field. While editing with unsaved
// changes it is gated like Cancel; on a forced or clean switch the
// working copy is re-normalized from the committed snapshot, never
// from abandoned edits.
func (s *Session) SwitchField(value string, force bool) error {
	f, ok := s.cfg.FieldByValue(value)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownField, value)
	}

	if !s.editing {
		s.field = f
		return nil
	}
	if s.HasChanges() && !force {
		return ErrUnsavedChanges
	}

	s.field = f
	s.working = series.Normalize(s.committed, s.field.Value, s.defaultSource(), s.Years())
	s.modified = make(map[grid.CellKey]struct{})
	s.errors = make(map[grid.CellKey]string)
	return nil
}

// Save persists the edit. With nothing modified it is a silent no-op
// and the edit stays open. Otherwise the whole working copy is
// re-validated first; pending errors block the save. The working copy
// is trimmed, diffed against the committed snapshot, merged with
// recomputed metrics, and handed to the store in one batch. Success
// commits and returns to viewing; any persistence failure leaves the
// session state untouched for retry.
func (s *Session) Save(ctx context.Context) (SaveResult, error) {
	if !s.editing {
		return SaveResult{}, ErrNotEditing
	}
	if s.saving {
		return SaveResult{}, ErrSaveInFlight
	}
	if !s.HasChanges() {
		return SaveResult{NoOp: true}, nil
	}

	s.revalidate()
	if len(s.errors) > 0 {
		return SaveResult{}, fmt.Errorf("%d cell(s) failed validation: %w", len(s.errors), ErrValidationPending)
	}

	processed := series.Trim(s.working, s.field.Value, s.cfg.TrimBlanksEnabled(), s.cfg.Table.TrimValue)
	updates := series.BuildDiff(processed, s.committed, s.single, s.cfg.PathSegments(), s.field.Value)
	if len(updates) == 0 {
		// Edits reverted to the committed values; nothing to persist.
		s.commit(processed)
		return SaveResult{}, nil
	}

	if s.metrics != nil && len(s.cfg.Table.AffectedMetrics) > 0 {
		editCtx := map[string]any{
			"path":  s.cfg.Table.Path,
			"field": s.field.Value,
		}
		for k, v := range s.metrics(s.cfg.Table.AffectedMetrics, editCtx, updates) {
			updates[k] = v
		}
	}

	s.saving = true
	defer func() { s.saving = false }()

	res, err := s.store.UpdateByPath(ctx, updates)
	if err != nil {
		return SaveResult{}, fmt.Errorf("saving changes: %w", err)
	}
	if !res.Valid {
		return SaveResult{}, fmt.Errorf("update rejected: %s", strings.Join(res.Errors, "; "))
	}

	s.commit(processed)
	return SaveResult{Applied: res.Applied}, nil
}

// commit replaces the committed snapshot and closes the edit.
func (s *Session) commit(processed []series.Entity) {
	s.committed = processed
	s.discard()
}

func (s *Session) discard() {
	s.editing = false
	s.working = nil
	s.modified = make(map[grid.CellKey]struct{})
	s.errors = make(map[grid.CellKey]string)
}

func (s *Session) defaultSource() series.DefaultSource {
	if s.field.DefaultValueField == "" {
		return nil
	}
	return series.AttrDefault(s.field.DefaultValueField)
}

// revalidate rebuilds the validation map from the whole working copy,
// catching bad values in cells never touched this edit. Values the
// trim pass will drop are skipped, as are points outside the
// configured year range: those have no cell to surface an error on
// and pass through the edit untouched.
func (s *Session) revalidate() {
	errs := make(map[grid.CellKey]string)
	sentinel := s.cfg.Table.TrimValue
	inRange := make(map[int]bool)
	for _, y := range s.Years() {
		inRange[y] = true
	}
	for i := range s.working {
		for _, p := range s.working[i].Points(s.field.Value) {
			if !inRange[p.Year] {
				continue
			}
			if sentinel != nil && p.Value != nil && *p.Value == *sentinel {
				continue
			}
			if msg := s.validateValue(p.Value); msg != "" {
				errs[grid.CellKey{Entity: i, Year: p.Year}] = msg
			}
		}
	}
	s.errors = errs
}

// validateValue checks one value against the active field's
// constraints. An empty string means valid; nil values are always
// valid (the trim pass decides their fate).
func (s *Session) validateValue(v *float64) string {
	if v == nil {
		return ""
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "Must be a finite number"
	}
	val := s.field.Validation
	if val.Min != nil && *v < *val.Min {
		return "Minimum value is " + formatBound(*val.Min)
	}
	if val.Max != nil && *v > *val.Max {
		return "Maximum value is " + formatBound(*val.Max)
	}
	if val.Precision != nil && !withinPrecision(*v, *val.Precision) {
		return fmt.Sprintf("Maximum %d decimal place(s)", *val.Precision)
	}
	return ""
}

// withinPrecision reports whether v has at most places decimal places.
// Scaling and rounding avoids string formatting; the epsilon absorbs
// binary representation noise.
func withinPrecision(v float64, places int) bool {
	scaled := v * math.Pow10(places)
	return math.Abs(scaled-math.Round(scaled)) < 1e-9
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
