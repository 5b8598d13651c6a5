// Package config loads the .sheetsync.toml configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

const FileName = ".sheetsync.toml"

type Config struct {
	General  GeneralConfig           `toml:"general"`
	Google   GoogleConfig            `toml:"google"`
	Sheet    SheetConfig             `toml:"sheet"`
	Calendar CalendarConfig          `toml:"calendar"`
	Sync     SyncConfig              `toml:"sync"`
	CalDAVs  map[string]CalDAVConfig `toml:"caldavs"`

	// Dir is the directory the config file was read from; the database
	// path is resolved relative to it.
	Dir string `toml:"-"`
}

type GeneralConfig struct {
	LogLevel    string `toml:"log_level"`
	LogEncoding string `toml:"log_encoding"`
	Timezone    string `toml:"timezone"`
	DBPath      string `toml:"db_path"`
}

type GoogleConfig struct {
	ClientID        string `toml:"client_id"`
	ClientSecret    string `toml:"client_secret"`
	CredentialsFile string `toml:"credentials_file"` // service account JSON, optional
	Account         string `toml:"account"`
}

type SheetConfig struct {
	Provider           string   `toml:"provider"` // google or csv
	SpreadsheetID      string   `toml:"spreadsheet_id"`
	Range              string   `toml:"range"`
	CSVPath            string   `toml:"csv_path"`
	HeaderRows         int      `toml:"header_rows"`
	MaxRows            int      `toml:"max_rows"`
	StartColumn        int      `toml:"start_column"`
	EndColumn          int      `toml:"end_column"`
	TitleColumn        int      `toml:"title_column"`
	AvailabilityColumn int      `toml:"availability_column"`
	DateLayouts        []string `toml:"date_layouts"`
}

type CalendarConfig struct {
	Provider     string `toml:"provider"` // google or caldav
	CalendarID   string `toml:"calendar_id"`
	CalDAVServer string `toml:"caldav_server"`
}

type SyncConfig struct {
	BusyEventTitle     string   `toml:"busy_event_title"`
	BusyEventColor     string   `toml:"busy_event_color"`
	MonthsPast         int      `toml:"months_past"`
	MonthsFuture       int      `toml:"months_future"`
	ExcludedTitles     []string `toml:"excluded_titles"`
	MinFreeEventDays   int      `toml:"min_free_event_days"`
	MaxFreeTitleLength int      `toml:"max_free_title_length"`
	RequestsPerSecond  float64  `toml:"requests_per_second"`
	Schedule           string   `toml:"schedule"`
	MinInterval        Duration `toml:"min_interval"`
}

type CalDAVConfig struct {
	Name      string `toml:"name"`
	ServerURL string `toml:"server_url"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
}

// Duration decodes TOML strings such as "10m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used for every key the file omits.
func Default() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:    "info",
			LogEncoding: "console",
			Timezone:    "Local",
			DBPath:      ".sheetsync.db",
		},
		Google: GoogleConfig{
			Account: "default",
		},
		Sheet: SheetConfig{
			Provider:           "google",
			Range:              "A:E",
			HeaderRows:         1,
			MaxRows:            2000,
			StartColumn:        1,
			EndColumn:          2,
			TitleColumn:        3,
			AvailabilityColumn: 5,
			DateLayouts: []string{
				"2006-01-02 15:04:05",
				"2006-01-02 15:04",
				"2006-01-02",
				"1/2/2006 15:04:05",
				"1/2/2006 15:04",
				"1/2/2006",
			},
		},
		Calendar: CalendarConfig{
			Provider:   "google",
			CalendarID: "primary",
		},
		Sync: SyncConfig{
			BusyEventTitle:     "Busy",
			BusyEventColor:     "9", // Google "Blueberry"
			MonthsPast:         3,
			MonthsFuture:       2,
			ExcludedTitles:     []string{"pto", "[res]", "[dev]"},
			MinFreeEventDays:   1,
			MaxFreeTitleLength: 5,
			RequestsPerSecond:  5,
			Schedule:           "*/15 * * * *",
			MinInterval:        Duration{10 * time.Minute},
		},
	}
}

// Load reads filename from the current directory, falling back to
// $HOME/.config/sheetsync/, and overlays it on Default.
func Load(filename string) (*Config, error) {
	dir := ""
	data, err := os.ReadFile(filename)
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		dir = filepath.Join(home, ".config", "sheetsync")
		data, err = os.ReadFile(filepath.Join(dir, filepath.Base(filename)))
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.Dir = dir
	return cfg, nil
}

// Parse decodes TOML data on top of Default and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves General.Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.General.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalid, c.General.Timezone, err)
	}
	return loc, nil
}

// DBPath returns the database path, relative to the config directory when
// the config was found under $HOME.
func (c *Config) DBPath() string {
	if c.Dir == "" || filepath.IsAbs(c.General.DBPath) {
		return c.General.DBPath
	}
	return filepath.Join(c.Dir, c.General.DBPath)
}

// CalDAV returns the server referenced by Calendar.CalDAVServer.
func (c *Config) CalDAV() (CalDAVConfig, error) {
	name := c.Calendar.CalDAVServer
	server, ok := c.CalDAVs[name]
	if !ok {
		return CalDAVConfig{}, fmt.Errorf("%w: CalDAV server '%s' not found in configuration", ErrInvalid, name)
	}
	return server, nil
}

func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	s := c.Sheet
	switch s.Provider {
	case "google":
		check(s.SpreadsheetID != "", "sheet.spreadsheet_id is required")
	case "csv":
		check(s.CSVPath != "", "sheet.csv_path is required")
	default:
		check(false, "unsupported sheet provider %q", s.Provider)
	}
	for name, col := range map[string]int{
		"start_column":        s.StartColumn,
		"end_column":          s.EndColumn,
		"title_column":        s.TitleColumn,
		"availability_column": s.AvailabilityColumn,
	} {
		check(col >= 1, "sheet.%s must be >= 1", name)
	}
	check(s.HeaderRows >= 0, "sheet.header_rows must be >= 0")
	check(s.MaxRows > 0, "sheet.max_rows must be > 0")
	check(len(s.DateLayouts) > 0, "sheet.date_layouts must not be empty")

	switch c.Calendar.Provider {
	case "google":
	case "caldav":
		if _, err := c.CalDAV(); err != nil {
			errs = append(errs, err)
		}
	default:
		check(false, "unsupported calendar provider %q", c.Calendar.Provider)
	}
	check(c.Calendar.CalendarID != "", "calendar.calendar_id is required")

	check(c.Sync.BusyEventTitle != "", "sync.busy_event_title is required")
	check(c.Sync.MonthsPast >= 0, "sync.months_past must be >= 0")
	check(c.Sync.MonthsFuture >= 0, "sync.months_future must be >= 0")
	check(c.Sync.MinFreeEventDays >= 0, "sync.min_free_event_days must be >= 0")
	check(c.Sync.MaxFreeTitleLength > 0, "sync.max_free_title_length must be > 0")

	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
