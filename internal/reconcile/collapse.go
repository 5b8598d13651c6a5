package reconcile

import (
	"context"
	"time"

	"github.com/bobuk/sheetsync/internal/calendar"
	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/table"
)

// CollapseSummary reports a collapse pass.
type CollapseSummary struct {
	Titles  int
	Deleted int
	Failed  int
}

// Collapser removes same-title free blocks that start on the same day. It
// ignores end times and transparency and deletes past events too, so it is
// meant as a one-off cleanup rather than part of every sync.
type Collapser struct {
	source   table.Source
	provider calendar.Provider
	cfg      Config
	l        log.Logger

	Now func() time.Time
}

func NewCollapser(source table.Source, provider calendar.Provider, cfg Config, l log.Logger) *Collapser {
	return &Collapser{source: source, provider: provider, cfg: cfg, l: l, Now: time.Now}
}

func (c *Collapser) Run(ctx context.Context) (CollapseSummary, error) {
	var sum CollapseSummary

	rows, err := c.source.ReadRows(ctx)
	if err != nil {
		return sum, &FetchError{Op: "rows", Err: err}
	}
	if err := c.provider.GetCalendar(ctx, c.cfg.CalendarID); err != nil {
		return sum, err
	}

	now := c.Now()
	window := NewWindow(now, c.cfg.MonthsFuture, c.cfg.Location)
	from := window.Start.AddDate(0, -c.cfg.MonthsPast, 0)

	titles := FreeTitles(ctx, rows, c.cfg, c.l)
	sum.Titles = len(titles)

	for _, title := range titles {
		events, err := c.provider.SearchEvents(ctx, c.cfg.CalendarID, from, window.End, title)
		if err != nil {
			c.l.Errorw(ctx, "search failed", "title", title, "error", err.Error())
			continue
		}
		for _, dup := range c.duplicates(events, title) {
			if err := c.provider.DeleteEvent(ctx, c.cfg.CalendarID, dup.ID); err != nil {
				sum.Failed++
				c.l.Errorw(ctx, "delete duplicate failed", "event_id", dup.ID, "title", title, "error", err.Error())
				continue
			}
			sum.Deleted++
			c.l.Infow(ctx, "duplicate deleted", "event_id", dup.ID, "title", title,
				"day", dup.Start.In(c.cfg.Location).Format(time.DateOnly))
		}
	}

	c.l.Infow(ctx, "collapse finished", "titles", sum.Titles, "deleted", sum.Deleted, "failed", sum.Failed)
	return sum, nil
}

// duplicates groups exact title matches by start day and returns every
// event after the first of each group, in provider order.
func (c *Collapser) duplicates(events []*calendar.Event, title string) []*calendar.Event {
	kept := make(map[string]bool)
	var out []*calendar.Event
	for _, e := range events {
		if e.Summary != title {
			continue
		}
		day := e.Start.In(c.cfg.Location).Format(time.DateOnly)
		if kept[day] {
			out = append(out, e)
			continue
		}
		kept[day] = true
	}
	return out
}
