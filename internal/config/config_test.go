package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
[general]
timezone = "Europe/Berlin"

[sheet]
spreadsheet_id = "sheet-123"
range = "Schedule!A:E"

[calendar]
calendar_id = "team@example.com"

[sync]
busy_event_title = "Occupied"
min_interval = "30m"
`

func TestParseOverlaysDefaults(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "sheet-123", cfg.Sheet.SpreadsheetID)
	assert.Equal(t, "Schedule!A:E", cfg.Sheet.Range)
	assert.Equal(t, "Occupied", cfg.Sync.BusyEventTitle)
	assert.Equal(t, 30*time.Minute, cfg.Sync.MinInterval.Duration)

	// untouched keys keep their defaults
	assert.Equal(t, 2000, cfg.Sheet.MaxRows)
	assert.Equal(t, 5, cfg.Sheet.AvailabilityColumn)
	assert.Equal(t, "9", cfg.Sync.BusyEventColor)
	assert.Equal(t, []string{"pto", "[res]", "[dev]"}, cfg.Sync.ExcludedTitles)
	assert.Equal(t, 5, cfg.Sync.MaxFreeTitleLength)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", loc.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"missing spreadsheet", func(c *Config) { c.Sheet.SpreadsheetID = "" }},
		{"csv without path", func(c *Config) { c.Sheet.Provider = "csv" }},
		{"unknown sheet provider", func(c *Config) { c.Sheet.Provider = "excel" }},
		{"zero column", func(c *Config) { c.Sheet.TitleColumn = 0 }},
		{"unknown calendar provider", func(c *Config) { c.Calendar.Provider = "outlook" }},
		{"caldav server missing", func(c *Config) { c.Calendar.Provider = "caldav"; c.Calendar.CalDAVServer = "home" }},
		{"empty busy title", func(c *Config) { c.Sync.BusyEventTitle = "" }},
		{"bad timezone", func(c *Config) { c.General.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Sheet.SpreadsheetID = "sheet-123"
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	t.Run("caldav server present", func(t *testing.T) {
		cfg := Default()
		cfg.Sheet.SpreadsheetID = "sheet-123"
		cfg.Calendar.Provider = "caldav"
		cfg.Calendar.CalDAVServer = "home"
		cfg.CalDAVs = map[string]CalDAVConfig{"home": {ServerURL: "https://dav.example.com"}}
		assert.NoError(t, cfg.Validate())
	})
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "team@example.com", cfg.Calendar.CalendarID)
	assert.Equal(t, ".sheetsync.db", cfg.DBPath())

	_, err = Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestDBPathRelativeToConfigDir(t *testing.T) {
	cfg := Default()
	cfg.Dir = "/home/me/.config/sheetsync"
	assert.Equal(t, "/home/me/.config/sheetsync/.sheetsync.db", cfg.DBPath())

	cfg.General.DBPath = "/var/lib/sheetsync.db"
	assert.Equal(t, "/var/lib/sheetsync.db", cfg.DBPath())
}
