package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/bobuk/sheetsync/internal/calendar"
	"github.com/bobuk/sheetsync/internal/table"
)

const calID = "cal"

var testNow = time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

func testConfig() Config {
	return Config{
		CalendarID: calID,
		BusyTitle:  "Busy",
		BusyColor:  "9",
		Columns:    Columns{Start: 1, End: 2, Title: 3, Availability: 5},
		HeaderRows: 1,
		DateLayouts: []string{
			"2006-01-02 15:04",
			"2006-01-02",
		},
		Location:           time.UTC,
		ExcludedTitles:     []string{"pto", "[res]", "[dev]"},
		MinFreeEventDays:   1,
		MaxFreeTitleLength: 5,
		MonthsPast:         3,
		MonthsFuture:       2,
	}
}

func row(start, end, title, availability string) table.Row {
	return table.Row{start, end, title, "", availability}
}

func at(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		t, err = time.ParseInLocation("2006-01-02", s, time.UTC)
	}
	if err != nil {
		panic(err)
	}
	return t
}

type staticSource struct {
	rows []table.Row
	err  error
}

func (s *staticSource) ReadRows(context.Context) ([]table.Row, error) {
	return s.rows, s.err
}

var errBoom = errors.New("boom")

// flakyProvider fails selected calls on top of a Memory provider.
type flakyProvider struct {
	*calendar.Memory
	failList        bool
	failDeleteID    string
	failCreateTitle string
	failSearchTitle string
	failColor       bool
	calls           int
}

func (f *flakyProvider) GetCalendar(ctx context.Context, id string) error {
	f.calls++
	return f.Memory.GetCalendar(ctx, id)
}

func (f *flakyProvider) ListEvents(ctx context.Context, id string, from, to time.Time) ([]*calendar.Event, error) {
	f.calls++
	if f.failList {
		return nil, errBoom
	}
	return f.Memory.ListEvents(ctx, id, from, to)
}

func (f *flakyProvider) SearchEvents(ctx context.Context, id string, from, to time.Time, q string) ([]*calendar.Event, error) {
	f.calls++
	if q == f.failSearchTitle {
		return nil, errBoom
	}
	return f.Memory.SearchEvents(ctx, id, from, to, q)
}

func (f *flakyProvider) CreateEvent(ctx context.Context, id string, e *calendar.Event) (*calendar.Event, error) {
	f.calls++
	if e.Summary == f.failCreateTitle {
		return nil, errBoom
	}
	return f.Memory.CreateEvent(ctx, id, e)
}

func (f *flakyProvider) DeleteEvent(ctx context.Context, id, eventID string) error {
	f.calls++
	if eventID == f.failDeleteID {
		return errBoom
	}
	return f.Memory.DeleteEvent(ctx, id, eventID)
}

func (f *flakyProvider) SetColor(ctx context.Context, id, eventID, color string) error {
	f.calls++
	if f.failColor {
		return errBoom
	}
	return f.Memory.SetColor(ctx, id, eventID, color)
}

func (f *flakyProvider) SetTransparency(ctx context.Context, id, eventID string, t calendar.Transparency) error {
	f.calls++
	return f.Memory.SetTransparency(ctx, id, eventID, t)
}

func findEvents(events []calendar.Event, title string) []calendar.Event {
	var out []calendar.Event
	for _, e := range events {
		if e.Summary == title {
			out = append(out, e)
		}
	}
	return out
}
