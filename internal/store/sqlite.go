// Package store provides SQLite persistence for scenario documents and
// resolves path-addressed reads and batched updates against them.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ph1ltep/wfgrid/internal/session"
)

// DefaultScenario is the scenario row used when none is named.
const DefaultScenario = "default"

// SQLite stores one JSON document per named scenario and serves the
// active one. Reads come from an in-memory copy kept in sync with the
// row; updates rewrite the whole document in one transaction.
type SQLite struct {
	db       *sql.DB
	scenario string

	mu  sync.RWMutex
	doc map[string]any
}

// New opens the database at path, runs migrations, and loads the named
// scenario, creating an empty document if it does not exist yet.
func New(path, scenario string) (*SQLite, error) {
	if scenario == "" {
		scenario = DefaultScenario
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, scenario: scenario}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	if err := s.loadScenario(); err != nil {
		return nil, fmt.Errorf("loading scenario %q: %w", scenario, err)
	}

	return s, nil
}

// loadScenario reads the scenario row into memory, inserting an empty
// document on first use.
func (s *SQLite) loadScenario() error {
	var blob string
	err := s.db.QueryRow(`SELECT document FROM scenarios WHERE name = ?`, s.scenario).Scan(&blob)
	if err == sql.ErrNoRows {
		blob = "{}"
		_, err = s.db.Exec(
			`INSERT INTO scenarios (name, document, updated_at) VALUES (?, ?, ?)`,
			s.scenario, blob, time.Now().Format(time.RFC3339),
		)
	}
	if err != nil {
		return err
	}

	var doc map[string]any
	if err := json.Unmarshal([]byte(blob), &doc); err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}
	s.doc = doc
	return nil
}

// Scenario returns the active scenario name.
func (s *SQLite) Scenario() string {
	return s.scenario
}

// Document returns a deep copy of the active document.
func (s *SQLite) Document() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, err := deepCopy(s.doc)
	if err != nil {
		return nil
	}
	return doc
}

// ValueByPath resolves a path in the active document. Absent or
// non-traversable paths yield the fallback; it never fails.
func (s *SQLite) ValueByPath(path []string, fallback any) any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := resolvePath(s.doc, path)
	if !ok {
		return fallback
	}
	return v
}

// UpdateByPath applies a batch of dotted-path updates atomically. All
// paths are applied to a copy of the document first; any bad path
// rejects the whole batch with Valid=false and leaves the stored
// document untouched. On success the new document is written in one
// transaction and becomes the served copy.
func (s *SQLite) UpdateByPath(ctx context.Context, updates map[string]any) (session.Result, error) {
	if len(updates) == 0 {
		return session.Result{Valid: true}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	working, err := deepCopy(s.doc)
	if err != nil {
		return session.Result{}, fmt.Errorf("copying document: %w", err)
	}

	paths := make([]string, 0, len(updates))
	for p := range updates {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var errs []string
	for _, p := range paths {
		if err := setPath(working, strings.Split(p, "."), updates[p]); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", p, err))
		}
	}
	if len(errs) > 0 {
		return session.Result{Valid: false, Errors: errs}, nil
	}

	blob, err := json.Marshal(working)
	if err != nil {
		return session.Result{}, fmt.Errorf("encoding document: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return session.Result{}, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`UPDATE scenarios SET document = ?, updated_at = ? WHERE name = ?`,
		string(blob), time.Now().Format(time.RFC3339), s.scenario,
	)
	if err != nil {
		return session.Result{}, fmt.Errorf("updating scenario: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return session.Result{}, fmt.Errorf("committing transaction: %w", err)
	}

	// Serve the canonical (serialized) form so later reads see the same
	// shapes a fresh load would.
	var canonical map[string]any
	if err := json.Unmarshal(blob, &canonical); err != nil {
		return session.Result{}, fmt.Errorf("reloading document: %w", err)
	}
	s.doc = canonical

	return session.Result{Valid: true, Applied: len(updates)}, nil
}

// Replace swaps the whole active document. Used by seeding.
func (s *SQLite) Replace(ctx context.Context, doc map[string]any) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`UPDATE scenarios SET document = ?, updated_at = ? WHERE name = ?`,
		string(blob), time.Now().Format(time.RFC3339), s.scenario,
	)
	if err != nil {
		return fmt.Errorf("replacing scenario document: %w", err)
	}

	var canonical map[string]any
	if err := json.Unmarshal(blob, &canonical); err != nil {
		return fmt.Errorf("reloading document: %w", err)
	}
	s.doc = canonical
	return nil
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// deepCopy clones a document through its JSON form.
func deepCopy(doc map[string]any) (map[string]any, error) {
	if doc == nil {
		return map[string]any{}, nil
	}
	blob, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(blob, &out); err != nil {
		return nil, err
	}
	return out, nil
}
