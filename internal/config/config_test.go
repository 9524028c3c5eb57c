package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Table.Path == "" {
		t.Error("default table path must be set")
	}
	if len(cfg.Table.Fields) != 1 {
		t.Fatalf("expected 1 default field, got %d", len(cfg.Table.Fields))
	}
	if cfg.Table.Fields[0].Type != FieldCurrency {
		t.Errorf("expected currency field, got %s", cfg.Table.Fields[0].Type)
	}
	if !cfg.TrimBlanksEnabled() {
		t.Error("trim_blanks must default to true")
	}
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected theme frappe, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Table.Path != Default().Table.Path {
		t.Errorf("expected default table path, got %s", cfg.Table.Path)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[table]
path = "settings.contracts.oem"
orientation = "vertical"
hide_empty_items = true
trim_blanks = false

[table.year_range]
min = 1
max = 5

[[table.fields]]
value = "fees"
label = "Fees"
type = "number"
default_value_field = "fixedFee"

[table.fields.validation]
min = 0.0
precision = 2

[storage]
db_path = "/tmp/test.db"

[ui]
theme = "latte"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Table.Path != "settings.contracts.oem" {
		t.Errorf("path = %s", cfg.Table.Path)
	}
	if cfg.Table.Orientation != "vertical" {
		t.Errorf("orientation = %s", cfg.Table.Orientation)
	}
	if cfg.TrimBlanksEnabled() {
		t.Error("trim_blanks = false was not honored")
	}
	f, ok := cfg.FieldByValue("fees")
	if !ok {
		t.Fatal("field fees not found")
	}
	if f.Validation.Min == nil || *f.Validation.Min != 0 {
		t.Error("field min not loaded")
	}
	if f.Validation.Precision == nil || *f.Validation.Precision != 2 {
		t.Error("field precision not loaded")
	}
	if cfg.UI.Theme != "latte" {
		t.Errorf("theme = %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	t.Setenv("WFGRID_TABLE_PATH", "other.path")
	t.Setenv("WFGRID_UI_THEME", "mocha")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Table.Path != "other.path" {
		t.Errorf("env override lost: %s", cfg.Table.Path)
	}
	if cfg.UI.Theme != "mocha" {
		t.Errorf("env override lost: %s", cfg.UI.Theme)
	}
}

func TestValidateFailsFast(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty path", func(c *Config) { c.Table.Path = "" }, "path"},
		{"empty path segment", func(c *Config) { c.Table.Path = "settings..oem" }, "segment"},
		{"no fields", func(c *Config) { c.Table.Fields = nil }, "field"},
		{"bad field type", func(c *Config) { c.Table.Fields[0].Type = "text" }, "type"},
		{"min above max", func(c *Config) {
			c.Table.Fields[0].Validation.Min = float64Ptr(10)
			c.Table.Fields[0].Validation.Max = float64Ptr(1)
		}, "min"},
		{"inverted years", func(c *Config) { c.Table.YearRange = YearRange{Min: 5, Max: 1} }, "year_range"},
		{"bad orientation", func(c *Config) { c.Table.Orientation = "diagonal" }, "orientation"},
		{"no db path", func(c *Config) { c.Storage.DBPath = "" }, "db_path"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestPathSegments(t *testing.T) {
	cfg := Default()
	cfg.Table.Path = "a.b.c"
	segs := cfg.PathSegments()
	if len(segs) != 3 || segs[0] != "a" || segs[2] != "c" {
		t.Errorf("segments = %v", segs)
	}
}
