// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Field value types understood by validation and formatting.
const (
	FieldNumber     = "number"
	FieldCurrency   = "currency"
	FieldPercentage = "percentage"
)

// Config holds the application configuration.
type Config struct {
	Table   TableConfig   `toml:"table"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// TableConfig describes the contract table: where its data lives in the
// scenario document, which fields are editable, and how the grid lays
// out by default.
type TableConfig struct {
	Path            string        `toml:"path"`             // dotted path to the entity list
	Fields          []FieldOption `toml:"fields"`           // editable series fields
	YearRange       YearRange     `toml:"year_range"`       // contiguous project years
	TrimBlanks      *bool         `toml:"trim_blanks"`      // drop null/NaN points on save (default true)
	TrimValue       *float64      `toml:"trim_value"`       // optional sentinel dropped on save
	Orientation     string        `toml:"orientation"`      // "horizontal" or "vertical"
	HideEmptyItems  bool          `toml:"hide_empty_items"` // hide all-null rows/columns in read mode
	AffectedMetrics []string      `toml:"affected_metrics"` // metric names recomputed on save
	Markers         []MarkerSpec  `toml:"markers"`
}

// FieldOption describes one editable series field.
type FieldOption struct {
	Value             string     `toml:"value"` // series name in the entity
	Label             string     `toml:"label"`
	Type              string     `toml:"type"` // number, currency, percentage
	Validation        Validation `toml:"validation"`
	DefaultValueField string     `toml:"default_value_field"` // attribute used to fill missing years
}

// Validation bounds a field's values.
type Validation struct {
	Min       *float64 `toml:"min"`
	Max       *float64 `toml:"max"`
	Precision *int     `toml:"precision"` // max decimal places
}

// YearRange is the inclusive year span materialized by the grid.
type YearRange struct {
	Min int `toml:"min"`
	Max int `toml:"max"`
}

// MarkerSpec binds a highlight to one year.
type MarkerSpec struct {
	Year  int    `toml:"year"`
	Color string `toml:"color"`
	Kind  string `toml:"kind"`
	Label string `toml:"label"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Table: TableConfig{
			Path: "settings.modules.contracts.oemContracts",
			Fields: []FieldOption{
				{
					Value:             "fixedFeeTimeSeries",
					Label:             "Fixed fee",
					Type:              FieldCurrency,
					Validation:        Validation{Min: float64Ptr(0)},
					DefaultValueField: "fixedFee",
				},
			},
			YearRange:   YearRange{Min: 1, Max: 20},
			Orientation: "horizontal",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

func float64Ptr(v float64) *float64 { return &v }

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "wfgrid.db"
	}
	return filepath.Join(home, ".local", "share", "wfgrid", "wfgrid.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "wfgrid", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Expand paths
	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WFGRID_TABLE_PATH"); v != "" {
		cfg.Table.Path = v
	}
	if v := os.Getenv("WFGRID_ORIENTATION"); v != "" {
		cfg.Table.Orientation = v
	}
	if v := os.Getenv("WFGRID_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("WFGRID_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

var validFieldTypes = map[string]bool{
	FieldNumber:     true,
	FieldCurrency:   true,
	FieldPercentage: true,
}

// Validate checks if the configuration is valid. Construction fails
// fast here; nothing renders on a malformed table definition.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Table.Path) == "" {
		return errors.New("table path must be set")
	}
	for _, seg := range strings.Split(c.Table.Path, ".") {
		if strings.TrimSpace(seg) == "" {
			return fmt.Errorf("table path %q has an empty segment", c.Table.Path)
		}
	}

	if len(c.Table.Fields) == 0 {
		return errors.New("at least one table field must be configured")
	}
	for i, f := range c.Table.Fields {
		if strings.TrimSpace(f.Value) == "" {
			return fmt.Errorf("field %d: value must be set", i)
		}
		if !validFieldTypes[f.Type] {
			return fmt.Errorf("field %q: invalid type %q", f.Value, f.Type)
		}
		if f.Validation.Min != nil && f.Validation.Max != nil && *f.Validation.Min > *f.Validation.Max {
			return fmt.Errorf("field %q: min is greater than max", f.Value)
		}
		if f.Validation.Precision != nil && *f.Validation.Precision < 0 {
			return fmt.Errorf("field %q: precision must not be negative", f.Value)
		}
	}

	if c.Table.YearRange.Max < c.Table.YearRange.Min {
		return fmt.Errorf("year_range: max %d is before min %d", c.Table.YearRange.Max, c.Table.YearRange.Min)
	}

	switch c.Table.Orientation {
	case "", "horizontal", "vertical":
	default:
		return fmt.Errorf("invalid orientation %q", c.Table.Orientation)
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// PathSegments returns the table path split into segments.
func (c *Config) PathSegments() []string {
	return strings.Split(c.Table.Path, ".")
}

// TrimBlanksEnabled reports the trim_blanks setting, defaulting to true.
func (c *Config) TrimBlanksEnabled() bool {
	if c.Table.TrimBlanks == nil {
		return true
	}
	return *c.Table.TrimBlanks
}

// FieldByValue returns the field option with the given series name.
func (c *Config) FieldByValue(value string) (FieldOption, bool) {
	for _, f := range c.Table.Fields {
		if f.Value == value {
			return f, true
		}
	}
	return FieldOption{}, false
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
