package tui

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ph1ltep/wfgrid/internal/config"
	"github.com/ph1ltep/wfgrid/internal/grid"
	"github.com/ph1ltep/wfgrid/internal/session"
	"github.com/ph1ltep/wfgrid/internal/tui/commands"
)

type stubStore struct {
	doc any
}

func (s stubStore) ValueByPath(path []string, fallback any) any {
	if s.doc == nil {
		return fallback
	}
	return s.doc
}

func (s stubStore) UpdateByPath(ctx context.Context, updates map[string]any) (session.Result, error) {
	return session.Result{Valid: true, Applied: len(updates)}, nil
}

func testModelConfig() *config.Config {
	cfg := config.Default()
	cfg.Table.Path = "settings.contracts.oem"
	cfg.Table.YearRange = config.YearRange{Min: 1, Max: 3}
	cfg.Table.Fields = []config.FieldOption{
		{Value: "fees", Label: "Fees", Type: config.FieldCurrency, DefaultValueField: "fixedFee"},
		{Value: "escalation", Label: "Escalation", Type: config.FieldPercentage},
	}
	cfg.Table.Markers = []config.MarkerSpec{
		{Year: 2, Color: "amber", Kind: "warranty", Label: "Warranty end"},
	}
	return cfg
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	doc := []any{
		map[string]any{
			"name":     "OEM Contract A",
			"fixedFee": 5.0,
			"fees": []any{
				map[string]any{"year": 1.0, "value": 10.0},
			},
		},
		map[string]any{
			"name": "OEM Contract B",
			"fees": []any{
				map[string]any{"year": 1.0, "value": 50.0},
			},
		},
	}
	cfg := testModelConfig()
	sess, err := session.New(cfg, stubStore{doc: doc}, nil)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := sess.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return *New(sess, cfg)
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+u":
			msg = tea.KeyMsg{Type: tea.KeyCtrlU}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		updated, _ := m.Update(msg)
		var ok bool
		m, ok = updated.(Model)
		if !ok {
			t.Fatalf("update returned %T", updated)
		}
	}
	return m
}

func TestModelStartsViewing(t *testing.T) {
	m := newTestModel(t)
	if m.mode != ModeView {
		t.Errorf("mode = %v", m.mode)
	}
	if m.sess.Editing() {
		t.Error("session must start in viewing state")
	}
	if len(m.gridCfg.Rows) == 0 || len(m.gridCfg.Cols) == 0 {
		t.Fatal("grid not built")
	}
}

func TestEditKeyOpensSession(t *testing.T) {
	m := press(t, newTestModel(t), "e")
	if m.mode != ModeEdit {
		t.Fatalf("mode = %v, want edit", m.mode)
	}
	if !m.sess.Editing() {
		t.Error("session did not enter edit mode")
	}
}

func TestCursorMovementClamps(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "k", "h", "h")
	if m.cursor.Row != 0 || m.cursor.Col != 0 {
		t.Errorf("cursor = %+v, want origin", m.cursor)
	}

	for i := 0; i < 20; i++ {
		m = press(t, m, "j", "l")
	}
	if m.cursor.Row != len(m.gridCfg.Rows)-1 || m.cursor.Col != len(m.gridCfg.Cols)-1 {
		t.Errorf("cursor = %+v, want bottom-right corner", m.cursor)
	}
}

func TestCellEditFlow(t *testing.T) {
	m := press(t, newTestModel(t), "e", "enter")
	if m.mode != ModeInput {
		t.Fatalf("mode = %v, want input", m.mode)
	}

	// The editor is seeded with the current value; clear it first.
	m = press(t, m, "ctrl+u", "4", "2", "enter")
	if m.mode != ModeEdit {
		t.Fatalf("mode after apply = %v", m.mode)
	}

	cd := m.cursorCell()
	if cd.Value == nil || *cd.Value != 42 {
		t.Errorf("cell value = %v, want 42", cd.Value)
	}
	if !m.sess.Modified(grid.CellKey{Entity: cd.EntityIndex, Year: cd.Year}) {
		t.Error("edited cell not tracked as modified")
	}
}

func TestEscInInputAbandonsWithoutWrite(t *testing.T) {
	m := press(t, newTestModel(t), "e", "enter", "9", "esc")
	if m.mode != ModeEdit {
		t.Fatalf("mode = %v", m.mode)
	}
	if m.sess.HasChanges() {
		t.Error("abandoned input must not touch the working copy")
	}
}

func TestCancelWithChangesNeedsConfirmation(t *testing.T) {
	m := press(t, newTestModel(t), "e", "enter", "7", "enter", "esc")
	if m.mode != ModeConfirm {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}

	// Declining returns to the edit session intact.
	m = press(t, m, "n")
	if m.mode != ModeEdit || !m.sess.HasChanges() {
		t.Error("declined discard must keep the edit")
	}

	// Confirming discards and leaves edit mode.
	m = press(t, m, "esc", "y")
	if m.mode != ModeView {
		t.Errorf("mode = %v, want view", m.mode)
	}
	if m.sess.Editing() {
		t.Error("session still editing after confirmed discard")
	}
}

func TestCleanCancelSkipsConfirmation(t *testing.T) {
	m := press(t, newTestModel(t), "e", "esc")
	if m.mode != ModeView {
		t.Errorf("mode = %v, want view", m.mode)
	}
}

func TestOrientationToggleKeepsCell(t *testing.T) {
	m := newTestModel(t)
	m = press(t, m, "j", "l")
	before := m.cursorCell().Key

	m = press(t, m, "o")
	if m.orientation != grid.Vertical {
		t.Fatalf("orientation = %v", m.orientation)
	}
	if after := m.cursorCell().Key; after != before {
		t.Errorf("cursor cell changed across transpose: %v -> %v", before, after)
	}
}

func TestFieldSwitchWhileEditingGated(t *testing.T) {
	m := press(t, newTestModel(t), "e", "enter", "7", "enter", "f")
	if m.mode != ModeConfirm {
		t.Fatalf("mode = %v, want confirm", m.mode)
	}
	m = press(t, m, "y")
	if m.sess.Field().Value != "escalation" {
		t.Errorf("field = %q after confirmed switch", m.sess.Field().Value)
	}
	if m.mode != ModeEdit {
		t.Errorf("confirmed field switch must stay editing, mode = %v", m.mode)
	}
}

func TestAggregateCellNotEditable(t *testing.T) {
	m := press(t, newTestModel(t), "e")
	// Jump to the summary lane.
	for i := 0; i < 20; i++ {
		m = press(t, m, "j")
	}
	if m.cursorEditable() {
		t.Fatal("aggregate lane must not be editable")
	}
	m = press(t, m, "enter")
	if m.mode != ModeEdit {
		t.Errorf("entering input on an aggregate cell, mode = %v", m.mode)
	}
}

// While a save command is pending, anything that would mutate the
// session must be refused; the session is single-owner and the save
// runs off the update loop.
func TestEditKeysGatedWhileSaving(t *testing.T) {
	m := press(t, newTestModel(t), "e", "enter", "ctrl+u", "7", "enter")
	m = press(t, m, "s")
	if !m.saving {
		t.Fatal("save key did not mark a save as pending")
	}

	m = press(t, m, "enter")
	if m.mode != ModeEdit {
		t.Errorf("cell editor opened during save, mode = %v", m.mode)
	}

	before := m.sess.ModifiedCount()
	m = press(t, m, "l", "x")
	if m.sess.ModifiedCount() != before {
		t.Error("blank key mutated the session during save")
	}

	m = press(t, m, "esc")
	if m.mode == ModeConfirm || !m.sess.Editing() {
		t.Error("cancel progressed during save")
	}

	m = press(t, m, "f")
	if m.sess.Field().Value != "fees" {
		t.Error("field switch progressed during save")
	}
}

func TestSaveResultStatuses(t *testing.T) {
	m := press(t, newTestModel(t), "e")

	updated, cmd := m.Update(commands.SavedMsg{Result: session.SaveResult{NoOp: true}})
	m = updated.(Model)
	if m.statusMsg != "Nothing to save" {
		t.Errorf("no-op status = %q", m.statusMsg)
	}
	if cmd == nil {
		t.Error("no-op status must still schedule its clear")
	}
	if m.saving {
		t.Error("saving flag stuck after no-op result")
	}

	// A save whose edits reverted to the committed values commits
	// locally without touching the store.
	updated, _ = m.Update(commands.SavedMsg{Result: session.SaveResult{}})
	m = updated.(Model)
	if m.statusMsg != "No changes to persist" {
		t.Errorf("empty-diff status = %q", m.statusMsg)
	}
	if m.mode != ModeView {
		t.Errorf("mode = %v, want view", m.mode)
	}
}

func TestBuildTSV(t *testing.T) {
	m := newTestModel(t)
	tsv := BuildTSV(m.gridCfg, m.sess.Field().Type)

	lines := strings.Split(strings.TrimRight(tsv, "\n"), "\n")
	if len(lines) != len(m.gridCfg.Rows)+1 {
		t.Fatalf("tsv has %d lines, want %d", len(lines), len(m.gridCfg.Rows)+1)
	}
	if !strings.Contains(lines[0], "Year 1") && !strings.Contains(lines[0], "1") {
		t.Errorf("header line = %q", lines[0])
	}
	if !strings.Contains(tsv, "OEM Contract A") {
		t.Error("row labels missing from tsv")
	}
	if !strings.Contains(tsv, "$10") {
		t.Error("values missing from tsv")
	}
}
