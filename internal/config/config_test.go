package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if cfg.Source.SRID != 28356 {
		t.Errorf("default SRID = %d, want 28356", cfg.Source.SRID)
	}
	if cfg.Match.SearchDistance != "3600 Meters" {
		t.Errorf("default search distance = %q", cfg.Match.SearchDistance)
	}
	if cfg.Match.MaxRecords != 1000000 {
		t.Errorf("default max records = %d", cfg.Match.MaxRecords)
	}
	if cfg.Report.Filename != "fuzzy_comparisons.csv" {
		t.Errorf("default report filename = %q", cfg.Report.Filename)
	}
	if cfg.Source.Fields.ObjectID != "objectid" || cfg.Source.Fields.Text != "feature_name" {
		t.Errorf("default field names = %+v", cfg.Source.Fields)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dedupe.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
[source]
dsn = "listings.db"
table = "listings"

[source.fields]
text = "venue_name"

[match]
search_distance = "2 Kilometers"
max_records = 50
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Source.DSN != "listings.db" || cfg.Source.Table != "listings" {
		t.Errorf("source = %+v", cfg.Source)
	}
	if cfg.Source.Fields.Text != "venue_name" {
		t.Errorf("text field = %q, want venue_name", cfg.Source.Fields.Text)
	}
	if cfg.Source.Fields.ObjectID != "objectid" {
		t.Errorf("object id field lost its default: %q", cfg.Source.Fields.ObjectID)
	}
	if cfg.Match.SearchDistance != "2 Kilometers" || cfg.Match.MaxRecords != 50 {
		t.Errorf("match = %+v", cfg.Match)
	}
	if cfg.Source.SRID != 28356 {
		t.Errorf("SRID lost its default: %d", cfg.Source.SRID)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
[source]
dsn = "listings.db"
table = "listings"
`)

	t.Setenv("DEDUPE_SOURCE_TABLE", "venues")
	t.Setenv("DEDUPE_MAX_RECORDS", "7")
	t.Setenv("DEDUPE_SOURCE_SRID", "27700")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Source.Table != "venues" {
		t.Errorf("table = %q, want env override venues", cfg.Source.Table)
	}
	if cfg.Match.MaxRecords != 7 {
		t.Errorf("max records = %d, want 7", cfg.Match.MaxRecords)
	}
	if cfg.Source.SRID != 27700 {
		t.Errorf("SRID = %d, want 27700", cfg.Source.SRID)
	}
	if cfg.Source.DSN != "listings.db" {
		t.Errorf("dsn = %q, file value should survive", cfg.Source.DSN)
	}
}

func TestLoadMissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err == nil {
		t.Fatal("Load() with a missing explicit path should fail")
	}
}

func TestLoadBadTOMLFails(t *testing.T) {
	path := writeConfigFile(t, "[source\ndsn=")
	if _, err := Load(path); err == nil {
		t.Fatal("Load() with malformed TOML should fail")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Source.DSN = "listings.db"
		cfg.Source.Table = "listings"
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{"missing dsn", func(c *Config) { c.Source.DSN = "" }, "dsn"},
		{"missing table", func(c *Config) { c.Source.Table = "" }, "table"},
		{"missing field name", func(c *Config) { c.Source.Fields.PK = "" }, "field name"},
		{"missing distance", func(c *Config) { c.Match.SearchDistance = "" }, "search_distance"},
		{"negative cap", func(c *Config) { c.Match.MaxRecords = -1 }, "max_records"},
		{"missing report filename", func(c *Config) { c.Report.Filename = "" }, "filename"},
		{"bad port", func(c *Config) { c.Web.Port = 0 }, "port"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() passed, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestReportPath(t *testing.T) {
	cfg := Default()
	cfg.Report.Folder = "/data/out"
	cfg.Report.Filename = "pairs.csv"
	if got := cfg.ReportPath(); got != filepath.Join("/data/out", "pairs.csv") {
		t.Errorf("ReportPath() = %q", got)
	}
}
