// Package config resolves the run configuration from three layers:
// built-in defaults, an optional TOML file, then DEDUPE_* environment
// variables, strongest last.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFile is the config file looked for when no path is given.
const DefaultFile = "dedupe.toml"

// FieldNames maps the source table's columns onto record attributes.
type FieldNames struct {
	ObjectID string `toml:"object_id"`
	Text     string `toml:"text"`
	Class    string `toml:"class"`
	PK       string `toml:"pk"`
	X        string `toml:"x"`
	Y        string `toml:"y"`
}

// SourceConfig locates the spatial data source.
type SourceConfig struct {
	// DSN is either a postgres:// URL or a SQLite file path.
	DSN    string     `toml:"dsn"`
	Table  string     `toml:"table"`
	SRID   int        `toml:"srid"`
	Fields FieldNames `toml:"fields"`
}

// MatchConfig controls the pairwise match run.
type MatchConfig struct {
	// SearchDistance is a distance with units, e.g. "3600 Meters".
	SearchDistance string `toml:"search_distance"`
	// MaxRecords caps how many focal records a run processes; 0 means all.
	MaxRecords int `toml:"max_records"`
}

// ReportConfig locates the output CSV.
type ReportConfig struct {
	Folder   string `toml:"folder"`
	Filename string `toml:"filename"`
}

// LogConfig locates the run log.
type LogConfig struct {
	Folder string `toml:"folder"`
	Name   string `toml:"name"`
	Level  string `toml:"level"`
}

// WebConfig sets the results browser listen address.
type WebConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// Config is the resolved run configuration.
type Config struct {
	Source SourceConfig `toml:"source"`
	Match  MatchConfig  `toml:"match"`
	Report ReportConfig `toml:"report"`
	Log    LogConfig    `toml:"log"`
	Web    WebConfig    `toml:"web"`
}

// Default returns the configuration used where neither file nor environment
// say otherwise. The source DSN and table have no default.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			SRID: 28356,
			Fields: FieldNames{
				ObjectID: "objectid",
				Text:     "feature_name",
				Class:    "main_class",
				PK:       "listing_number",
				X:        "x",
				Y:        "y",
			},
		},
		Match: MatchConfig{
			SearchDistance: "3600 Meters",
			MaxRecords:     1000000,
		},
		Report: ReportConfig{
			Folder:   ".",
			Filename: "fuzzy_comparisons.csv",
		},
		Log: LogConfig{
			Folder: ".",
			Name:   "spatial-dedupe",
			Level:  "debug",
		},
		Web: WebConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
	}
}

// Load resolves the configuration. A non-empty path must name an existing
// TOML file; an empty path uses DefaultFile when present and plain
// defaults otherwise. Environment variables are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func applyEnv(cfg *Config) {
	cfg.Source.DSN = GetEnv("DEDUPE_SOURCE_DSN", cfg.Source.DSN)
	cfg.Source.Table = GetEnv("DEDUPE_SOURCE_TABLE", cfg.Source.Table)
	cfg.Source.SRID = GetEnvInt("DEDUPE_SOURCE_SRID", cfg.Source.SRID)
	cfg.Source.Fields.ObjectID = GetEnv("DEDUPE_FIELD_OBJECT_ID", cfg.Source.Fields.ObjectID)
	cfg.Source.Fields.Text = GetEnv("DEDUPE_FIELD_TEXT", cfg.Source.Fields.Text)
	cfg.Source.Fields.Class = GetEnv("DEDUPE_FIELD_CLASS", cfg.Source.Fields.Class)
	cfg.Source.Fields.PK = GetEnv("DEDUPE_FIELD_PK", cfg.Source.Fields.PK)
	cfg.Source.Fields.X = GetEnv("DEDUPE_FIELD_X", cfg.Source.Fields.X)
	cfg.Source.Fields.Y = GetEnv("DEDUPE_FIELD_Y", cfg.Source.Fields.Y)
	cfg.Match.SearchDistance = GetEnv("DEDUPE_SEARCH_DISTANCE", cfg.Match.SearchDistance)
	cfg.Match.MaxRecords = GetEnvInt("DEDUPE_MAX_RECORDS", cfg.Match.MaxRecords)
	cfg.Report.Folder = GetEnv("DEDUPE_REPORT_FOLDER", cfg.Report.Folder)
	cfg.Report.Filename = GetEnv("DEDUPE_REPORT_FILENAME", cfg.Report.Filename)
	cfg.Log.Folder = GetEnv("DEDUPE_LOG_FOLDER", cfg.Log.Folder)
	cfg.Log.Name = GetEnv("DEDUPE_LOG_NAME", cfg.Log.Name)
	cfg.Log.Level = GetEnv("DEDUPE_LOG_LEVEL", cfg.Log.Level)
	cfg.Web.Host = GetEnv("DEDUPE_WEB_HOST", cfg.Web.Host)
	cfg.Web.Port = GetEnvInt("DEDUPE_WEB_PORT", cfg.Web.Port)
}

// Validate checks the settings every command needs before work starts.
func (c *Config) Validate() error {
	if c.Source.DSN == "" {
		return errors.New("source dsn is required (set [source] dsn or DEDUPE_SOURCE_DSN)")
	}
	if c.Source.Table == "" {
		return errors.New("source table is required (set [source] table or DEDUPE_SOURCE_TABLE)")
	}
	fields := map[string]string{
		"object_id": c.Source.Fields.ObjectID,
		"text":      c.Source.Fields.Text,
		"class":     c.Source.Fields.Class,
		"pk":        c.Source.Fields.PK,
		"x":         c.Source.Fields.X,
		"y":         c.Source.Fields.Y,
	}
	for name, value := range fields {
		if value == "" {
			return fmt.Errorf("source field name %q must not be empty", name)
		}
	}
	if c.Match.SearchDistance == "" {
		return errors.New("match search_distance is required")
	}
	if c.Match.MaxRecords < 0 {
		return fmt.Errorf("match max_records must not be negative, got %d", c.Match.MaxRecords)
	}
	if c.Report.Filename == "" {
		return errors.New("report filename is required")
	}
	if c.Web.Port < 1 || c.Web.Port > 65535 {
		return fmt.Errorf("web port %d out of range", c.Web.Port)
	}
	return nil
}

// ReportPath is the full path of the output CSV.
func (c *Config) ReportPath() string {
	return filepath.Join(c.Report.Folder, c.Report.Filename)
}
