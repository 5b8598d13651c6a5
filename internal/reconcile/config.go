package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobuk/sheetsync/internal/config"
)

// Columns are 1-based table column positions.
type Columns struct {
	Start        int
	End          int
	Title        int
	Availability int
}

// Config is everything the engine needs, resolved once per run.
type Config struct {
	CalendarID         string
	BusyTitle          string
	BusyColor          string
	Columns            Columns
	HeaderRows         int
	DateLayouts        []string
	Location           *time.Location
	ExcludedTitles     []string
	MinFreeEventDays   int
	MaxFreeTitleLength int
	MonthsPast         int
	MonthsFuture       int
}

func NewConfig(c *config.Config) (Config, error) {
	loc, err := c.Location()
	if err != nil {
		return Config{}, err
	}
	return Config{
		CalendarID: c.Calendar.CalendarID,
		BusyTitle:  c.Sync.BusyEventTitle,
		BusyColor:  c.Sync.BusyEventColor,
		Columns: Columns{
			Start:        c.Sheet.StartColumn,
			End:          c.Sheet.EndColumn,
			Title:        c.Sheet.TitleColumn,
			Availability: c.Sheet.AvailabilityColumn,
		},
		HeaderRows:         c.Sheet.HeaderRows,
		DateLayouts:        c.Sheet.DateLayouts,
		Location:           loc,
		ExcludedTitles:     c.Sync.ExcludedTitles,
		MinFreeEventDays:   c.Sync.MinFreeEventDays,
		MaxFreeTitleLength: c.Sync.MaxFreeTitleLength,
		MonthsPast:         c.Sync.MonthsPast,
		MonthsFuture:       c.Sync.MonthsFuture,
	}, nil
}

func (c Config) excluded(title string) bool {
	for _, ex := range c.ExcludedTitles {
		if strings.EqualFold(title, strings.TrimSpace(ex)) {
			return true
		}
	}
	return false
}

// parseTime tries every configured layout in the configured zone.
func (c Config) parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errEmptyCell
	}
	for _, layout := range c.DateLayouts {
		if t, err := time.ParseInLocation(layout, s, c.Location); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", errBadDate, s)
}

// spansDays reports whether end is at least days calendar days after start.
func (c Config) spansDays(start, end time.Time, days int) bool {
	return !end.Before(start.In(c.Location).AddDate(0, 0, days))
}
