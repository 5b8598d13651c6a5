package calendar

import (
	"context"
	"time"

	"github.com/bobuk/sheetsync/internal/log"
)

// DryRun passes reads through and logs mutations without applying them.
// Created events get a placeholder ID so follow-up color and transparency
// calls can be logged against it.
type DryRun struct {
	next Provider
	l    log.Logger
}

func NewDryRun(next Provider, l log.Logger) *DryRun {
	return &DryRun{next: next, l: l}
}

func (d *DryRun) GetCalendar(ctx context.Context, calendarID string) error {
	return d.next.GetCalendar(ctx, calendarID)
}

func (d *DryRun) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*Event, error) {
	return d.next.ListEvents(ctx, calendarID, timeMin, timeMax)
}

func (d *DryRun) SearchEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, query string) ([]*Event, error) {
	return d.next.SearchEvents(ctx, calendarID, timeMin, timeMax, query)
}

func (d *DryRun) CreateEvent(ctx context.Context, calendarID string, event *Event) (*Event, error) {
	d.l.Infow(ctx, "dry run: create", "calendar", calendarID, "title", event.Summary,
		"start", event.Start, "end", event.End)
	cp := *event
	cp.ID = "dry-run"
	return &cp, nil
}

func (d *DryRun) DeleteEvent(ctx context.Context, calendarID string, eventID string) error {
	d.l.Infow(ctx, "dry run: delete", "calendar", calendarID, "event_id", eventID)
	return nil
}

func (d *DryRun) SetColor(ctx context.Context, calendarID string, eventID string, colorID string) error {
	d.l.Infow(ctx, "dry run: set color", "calendar", calendarID, "event_id", eventID, "color", colorID)
	return nil
}

func (d *DryRun) SetTransparency(ctx context.Context, calendarID string, eventID string, t Transparency) error {
	d.l.Infow(ctx, "dry run: set transparency", "calendar", calendarID, "event_id", eventID, "transparency", t)
	return nil
}
