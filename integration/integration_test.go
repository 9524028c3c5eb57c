package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ph1ltep/wfgrid/internal/config"
	"github.com/ph1ltep/wfgrid/internal/grid"
	"github.com/ph1ltep/wfgrid/internal/session"
	"github.com/ph1ltep/wfgrid/internal/store"
)

// testConfig points the table at a two-contract document with a
// currency field bounded below at zero.
func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Table.Path = "settings.contracts.oem"
	cfg.Table.YearRange = config.YearRange{Min: 1, Max: 3}
	cfg.Table.Fields = []config.FieldOption{
		{
			Value:             "fees",
			Label:             "Fees",
			Type:              config.FieldCurrency,
			Validation:        config.Validation{Min: floatPtr(0)},
			DefaultValueField: "fixedFee",
		},
		{Value: "escalation", Label: "Escalation", Type: config.FieldPercentage},
	}
	return cfg
}

func floatPtr(v float64) *float64 { return &v }

// openStore creates a fresh scenario store with automatic cleanup.
func openStore(t *testing.T, dbPath string) *store.SQLite {
	t.Helper()
	st, err := store.New(dbPath, "default")
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

// seedStore writes a two-contract document under the test path.
func seedStore(t *testing.T, st *store.SQLite) {
	t.Helper()
	doc := map[string]any{
		"settings": map[string]any{
			"contracts": map[string]any{
				"oem": []any{
					map[string]any{
						"name":     "OEM Contract A",
						"fixedFee": 5.0,
						"fees": []any{
							map[string]any{"year": 1.0, "value": 10.0},
							map[string]any{"year": 2.0, "value": 20.0},
						},
					},
					map[string]any{
						"name": "OEM Contract B",
						"fees": []any{
							map[string]any{"year": 1.0, "value": 50.0},
						},
					},
				},
			},
		},
	}
	if err := st.Replace(context.Background(), doc); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
}

func openSession(t *testing.T, st *store.SQLite, cfg *config.Config) *session.Session {
	t.Helper()
	sess, err := session.New(cfg, st, nil)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if err := sess.Load(); err != nil {
		t.Fatalf("failed to load session: %v", err)
	}
	return sess
}

func TestEditSaveReload(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := testConfig()

	st := openStore(t, dbPath)
	seedStore(t, st)
	sess := openSession(t, st, cfg)

	sess.BeginEdit()
	if err := sess.SetCell(grid.CellKey{Entity: 0, Year: 2}, floatPtr(25)); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := sess.SetCell(grid.CellKey{Entity: 1, Year: 3}, floatPtr(60)); err != nil {
		t.Fatalf("set cell: %v", err)
	}

	res, err := sess.Save(context.Background())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if res.Applied == 0 {
		t.Error("expected applied updates")
	}
	if sess.Editing() {
		t.Error("session still editing after save")
	}

	// A brand new store over the same file must see the edits.
	st2 := openStore(t, dbPath)
	sess2 := openSession(t, st2, cfg)

	entities := sess2.Entities()
	if len(entities) != 2 {
		t.Fatalf("reloaded %d entities, want 2", len(entities))
	}
	if p, ok := entities[0].PointAt("fees", 2); !ok || p.Value == nil || *p.Value != 25 {
		t.Errorf("contract A year 2 = %+v, want 25", p)
	}
	if p, ok := entities[1].PointAt("fees", 3); !ok || p.Value == nil || *p.Value != 60 {
		t.Errorf("contract B year 3 = %+v, want 60", p)
	}
}

func TestSaveBlockedByValidation(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := testConfig()

	st := openStore(t, dbPath)
	seedStore(t, st)
	sess := openSession(t, st, cfg)

	sess.BeginEdit()
	if err := sess.SetCell(grid.CellKey{Entity: 0, Year: 1}, floatPtr(-5)); err != nil {
		t.Fatalf("set cell: %v", err)
	}

	_, err := sess.Save(context.Background())
	if !errors.Is(err, session.ErrValidationPending) {
		t.Fatalf("save error = %v, want validation pending", err)
	}
	if !sess.Editing() {
		t.Error("blocked save must keep the edit open")
	}

	// The database must be untouched.
	st2 := openStore(t, dbPath)
	sess2 := openSession(t, st2, cfg)
	if p, ok := sess2.Entities()[0].PointAt("fees", 1); !ok || p.Value == nil || *p.Value != 10 {
		t.Errorf("contract A year 1 = %+v, want original 10", p)
	}
}

func TestNormalizationFillsFromDefault(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := testConfig()

	st := openStore(t, dbPath)
	seedStore(t, st)
	sess := openSession(t, st, cfg)

	// Contract A has no year 3 point; editing fills it from fixedFee.
	sess.BeginEdit()
	p, ok := sess.Entities()[0].PointAt("fees", 3)
	if !ok || p.Value == nil || *p.Value != 5 {
		t.Errorf("normalized year 3 = %+v, want fixedFee 5", p)
	}

	// Contract B has no fixedFee; its missing years stay null.
	p, ok = sess.Entities()[1].PointAt("fees", 2)
	if !ok || p.Value != nil {
		t.Errorf("contract B year 2 = %+v, want null point", p)
	}
}

func TestFieldSwitchAcrossSaves(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	cfg := testConfig()

	st := openStore(t, dbPath)
	seedStore(t, st)
	sess := openSession(t, st, cfg)

	if err := sess.SwitchField("escalation", false); err != nil {
		t.Fatalf("switch field: %v", err)
	}

	sess.BeginEdit()
	if err := sess.SetCell(grid.CellKey{Entity: 0, Year: 1}, floatPtr(2.5)); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if _, err := sess.Save(context.Background()); err != nil {
		t.Fatalf("save: %v", err)
	}

	// The fees series must be untouched by the escalation save.
	if err := sess.SwitchField("fees", false); err != nil {
		t.Fatalf("switch back: %v", err)
	}
	if p, ok := sess.Entities()[0].PointAt("fees", 1); !ok || p.Value == nil || *p.Value != 10 {
		t.Errorf("fees year 1 = %+v after escalation save, want 10", p)
	}

	st2 := openStore(t, dbPath)
	sess2 := openSession(t, st2, cfg)
	if err := sess2.SwitchField("escalation", false); err != nil {
		t.Fatalf("switch field: %v", err)
	}
	if p, ok := sess2.Entities()[0].PointAt("escalation", 1); !ok || p.Value == nil || *p.Value != 2.5 {
		t.Errorf("escalation year 1 = %+v after reload, want 2.5", p)
	}
}
