package store

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *SQLite {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := New(path, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedDoc() map[string]any {
	return map[string]any{
		"settings": map[string]any{
			"contracts": map[string]any{
				"oem": []any{
					map[string]any{
						"name":     "OEM Contract A",
						"fixedFee": 5.0,
						"fees": []any{
							map[string]any{"year": 1.0, "value": 10.0},
						},
					},
				},
			},
		},
	}
}

func TestNewCreatesEmptyScenario(t *testing.T) {
	s := newTestStore(t)

	if s.Scenario() != DefaultScenario {
		t.Errorf("scenario = %q", s.Scenario())
	}
	if got := s.ValueByPath([]string{"anything"}, "fallback"); got != "fallback" {
		t.Errorf("empty document must yield fallback, got %v", got)
	}
}

func TestValueByPath(t *testing.T) {
	s := newTestStore(t)
	if err := s.Replace(context.Background(), seedDoc()); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}

	v := s.ValueByPath([]string{"settings", "contracts", "oem"}, nil)
	list, ok := v.([]any)
	if !ok || len(list) != 1 {
		t.Fatalf("expected contract list, got %T", v)
	}

	// Numeric segments index into lists.
	v = s.ValueByPath([]string{"settings", "contracts", "oem", "0", "fixedFee"}, nil)
	if v != 5.0 {
		t.Errorf("fixedFee = %v", v)
	}

	// Missing and non-traversable paths never fail.
	if got := s.ValueByPath([]string{"settings", "nope"}, 42); got != 42 {
		t.Errorf("missing path = %v, want fallback", got)
	}
	if got := s.ValueByPath([]string{"settings", "contracts", "oem", "9"}, nil); got != nil {
		t.Errorf("out-of-range index = %v, want nil", got)
	}
	if got := s.ValueByPath([]string{"settings", "contracts", "oem", "0", "fixedFee", "deeper"}, nil); got != nil {
		t.Errorf("descending into a scalar = %v, want nil", got)
	}
}

func TestUpdateByPathAppliesBatch(t *testing.T) {
	s := newTestStore(t)
	if err := s.Replace(context.Background(), seedDoc()); err != nil {
		t.Fatal(err)
	}

	updates := map[string]any{
		"settings.contracts.oem.0.fees": []any{
			map[string]any{"year": 1.0, "value": 12.0},
			map[string]any{"year": 2.0, "value": 13.0},
		},
		"settings.contracts.oem.0.fixedFee": 6.0,
	}
	res, err := s.UpdateByPath(context.Background(), updates)
	if err != nil {
		t.Fatalf("UpdateByPath failed: %v", err)
	}
	if !res.Valid || res.Applied != 2 {
		t.Fatalf("result = %+v", res)
	}

	fees := s.ValueByPath([]string{"settings", "contracts", "oem", "0", "fees"}, nil)
	if list, ok := fees.([]any); !ok || len(list) != 2 {
		t.Errorf("fees after update = %v", fees)
	}
}

func TestUpdateByPathPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	s, err := New(path, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := s.Replace(context.Background(), seedDoc()); err != nil {
		t.Fatal(err)
	}
	if _, err := s.UpdateByPath(context.Background(), map[string]any{
		"settings.contracts.oem.0.fixedFee": 7.0,
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	reopened, err := New(path, "")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer func() { _ = reopened.Close() }()

	if v := reopened.ValueByPath([]string{"settings", "contracts", "oem", "0", "fixedFee"}, nil); v != 7.0 {
		t.Errorf("fixedFee after reopen = %v, want 7", v)
	}
}

func TestUpdateByPathRejectsBadPathsAtomically(t *testing.T) {
	s := newTestStore(t)
	if err := s.Replace(context.Background(), seedDoc()); err != nil {
		t.Fatal(err)
	}

	res, err := s.UpdateByPath(context.Background(), map[string]any{
		"settings.contracts.oem.0.fixedFee": 99.0, // valid on its own
		"settings.contracts.oem.7.fees":     []any{},
	})
	if err != nil {
		t.Fatalf("UpdateByPath failed: %v", err)
	}
	if res.Valid {
		t.Fatal("bad index must invalidate the batch")
	}
	if len(res.Errors) != 1 {
		t.Errorf("errors = %v", res.Errors)
	}

	// Nothing from the batch landed.
	if v := s.ValueByPath([]string{"settings", "contracts", "oem", "0", "fixedFee"}, nil); v != 5.0 {
		t.Errorf("rejected batch leaked a write: fixedFee = %v", v)
	}
}

func TestUpdateByPathCreatesMissingObjects(t *testing.T) {
	s := newTestStore(t)
	if err := s.Replace(context.Background(), seedDoc()); err != nil {
		t.Fatal(err)
	}

	res, err := s.UpdateByPath(context.Background(), map[string]any{
		"metrics.totalCost": 123.0,
	})
	if err != nil || !res.Valid {
		t.Fatalf("res = %+v, err = %v", res, err)
	}
	if v := s.ValueByPath([]string{"metrics", "totalCost"}, nil); v != 123.0 {
		t.Errorf("metric not written: %v", v)
	}
}

func TestUpdateByPathEmptyBatch(t *testing.T) {
	s := newTestStore(t)
	res, err := s.UpdateByPath(context.Background(), nil)
	if err != nil {
		t.Fatalf("UpdateByPath failed: %v", err)
	}
	if !res.Valid || res.Applied != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestSeparateScenarios(t *testing.T) {
	path := filepath.Join(t.TempDir(), "multi.db")
	a, err := New(path, "alpha")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = a.Close() }()
	if err := a.Replace(context.Background(), map[string]any{"k": "alpha"}); err != nil {
		t.Fatal(err)
	}

	b, err := New(path, "beta")
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = b.Close() }()

	if v := b.ValueByPath([]string{"k"}, nil); v != nil {
		t.Errorf("scenario beta must not see alpha's document, got %v", v)
	}
}
