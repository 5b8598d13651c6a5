// Package reconcile makes a calendar mirror a busy/free table.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/bobuk/sheetsync/internal/calendar"
	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/table"
)

// State is a step of a reconciliation run.
type State int

const (
	StateFetch State = iota
	StateBuildDesired
	StateFetchActual
	StateClassify
	StateDiff
	StateApplyDeletes
	StateApplyUpdates
	StateApplyCreates
	StateDone
	StateAborted
)

var stateNames = [...]string{
	"Fetch", "BuildDesired", "FetchActual", "Classify", "Diff",
	"ApplyDeletes", "ApplyUpdates", "ApplyCreates", "Done", "Aborted",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Summary reports what a run did. Skipped counts deletions withheld
// because the event already started; Failed counts rejected mutations.
type Summary struct {
	State   State
	Created int
	Updated int
	Deleted int
	Skipped int
	Failed  int
}

// Driver runs reconciliation against a table and a calendar. Runs are
// stateless: every run re-reads both sides.
type Driver struct {
	source   table.Source
	provider calendar.Provider
	cfg      Config
	l        log.Logger

	// Now is the clock; tests replace it.
	Now func() time.Time
}

func NewDriver(source table.Source, provider calendar.Provider, cfg Config, l log.Logger) *Driver {
	return &Driver{
		source:   source,
		provider: provider,
		cfg:      cfg,
		l:        l,
		Now:      time.Now,
	}
}

// Run performs one reconciliation. It returns an error only for failures
// that happen before any mutation: reading rows, an unknown calendar, or
// listing events. Individual mutation failures are logged and counted.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	now := d.Now()
	window := NewWindow(now, d.cfg.MonthsFuture, d.cfg.Location)

	d.enter(ctx, &sum, StateFetch)
	rows, err := d.source.ReadRows(ctx)
	if err != nil {
		return sum, &FetchError{Op: "rows", Err: err}
	}
	usable := countUsableRows(rows, d.cfg)
	if usable == 0 {
		d.enter(ctx, &sum, StateAborted)
		d.l.Warnw(ctx, "table has no usable rows, calendar left untouched", "rows", len(rows))
		return sum, nil
	}

	d.enter(ctx, &sum, StateBuildDesired)
	desired := BuildDesired(ctx, rows, window, d.cfg, d.l)
	if len(desired) == 0 {
		d.l.Warnw(ctx, "no desired events in the window, every future managed event will be deleted",
			"usable_rows", usable, "window_start", window.Start, "window_end", window.End)
	}

	d.enter(ctx, &sum, StateFetchActual)
	events, err := d.fetchActual(ctx, window)
	if err != nil {
		return sum, err
	}

	d.enter(ctx, &sum, StateClassify)
	managed, dups := BuildManaged(events, d.cfg)
	for _, m := range dups {
		d.l.Warnw(ctx, "duplicate managed event", "event_id", m.Event.ID, "key", m.Key().String())
	}

	d.enter(ctx, &sum, StateDiff)
	diff := ComputeDiff(desired, managed, d.cfg.BusyColor)
	d.l.Infof(ctx, "window %s..%s: %d desired, %d managed, %d to create, %d to delete, %d to recolor",
		window.Start.Format(time.DateOnly), window.End.Format(time.DateOnly),
		len(desired), len(managed), len(diff.ToCreate), len(diff.ToDelete), len(diff.ToRecolor))

	d.enter(ctx, &sum, StateApplyDeletes)
	for _, m := range diff.ToDelete {
		d.delete(ctx, &sum, m, now)
	}
	for _, m := range staleDuplicates(dups, diff.ToDelete) {
		d.delete(ctx, &sum, m, now)
	}

	d.enter(ctx, &sum, StateApplyUpdates)
	for _, m := range diff.ToRecolor {
		d.recolor(ctx, &sum, m)
	}

	d.enter(ctx, &sum, StateApplyCreates)
	for _, ev := range diff.ToCreate {
		d.create(ctx, &sum, ev)
	}

	d.enter(ctx, &sum, StateDone)
	d.l.Infow(ctx, "sync finished", "created", sum.Created, "updated", sum.Updated,
		"deleted", sum.Deleted, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum, nil
}

// Desync removes every managed event that has not started yet. Foreign
// events and past events are left alone.
func (d *Driver) Desync(ctx context.Context) (Summary, error) {
	var sum Summary
	now := d.Now()
	window := NewWindow(now, d.cfg.MonthsFuture, d.cfg.Location)

	d.enter(ctx, &sum, StateFetchActual)
	events, err := d.fetchActual(ctx, window)
	if err != nil {
		return sum, err
	}

	d.enter(ctx, &sum, StateApplyDeletes)
	for _, e := range events {
		kind := Classify(e, d.cfg)
		if kind == KindForeign {
			continue
		}
		d.delete(ctx, &sum, ManagedEvent{Event: e, Kind: kind}, now)
	}

	d.enter(ctx, &sum, StateDone)
	d.l.Infow(ctx, "desync finished", "deleted", sum.Deleted, "skipped", sum.Skipped, "failed", sum.Failed)
	return sum, nil
}

// staleDuplicates returns the duplicates whose key is being deleted. A
// duplicate of a desired key is left for the collapser.
func staleDuplicates(dups, toDelete []ManagedEvent) []ManagedEvent {
	if len(dups) == 0 {
		return nil
	}
	deleted := make(map[Key]bool, len(toDelete))
	for _, m := range toDelete {
		deleted[m.Key()] = true
	}
	var out []ManagedEvent
	for _, m := range dups {
		if deleted[m.Key()] {
			out = append(out, m)
		}
	}
	return out
}

func (d *Driver) fetchActual(ctx context.Context, w Window) ([]*calendar.Event, error) {
	if err := d.provider.GetCalendar(ctx, d.cfg.CalendarID); err != nil {
		return nil, err
	}
	events, err := d.provider.ListEvents(ctx, d.cfg.CalendarID, w.Start, w.End)
	if err != nil {
		return nil, &FetchError{Op: "events", Err: err}
	}
	return events, nil
}

func (d *Driver) enter(ctx context.Context, sum *Summary, s State) {
	sum.State = s
	d.l.Debugf(ctx, "state %s", s)
}

func (d *Driver) delete(ctx context.Context, sum *Summary, m ManagedEvent, now time.Time) {
	e := m.Event
	if !e.Start.After(now) {
		sum.Skipped++
		d.l.Infow(ctx, "past event kept", "event_id", e.ID, "kind", m.Kind.String(), "key", m.Key().String())
		return
	}
	if err := d.provider.DeleteEvent(ctx, d.cfg.CalendarID, e.ID); err != nil {
		sum.Failed++
		d.l.Errorw(ctx, "delete failed", "event_id", e.ID, "key", m.Key().String(), "error", err.Error())
		return
	}
	sum.Deleted++
	d.l.Infow(ctx, "event deleted", "event_id", e.ID, "kind", m.Kind.String(), "key", m.Key().String())
}

func (d *Driver) recolor(ctx context.Context, sum *Summary, m ManagedEvent) {
	e := m.Event
	if err := d.provider.SetColor(ctx, d.cfg.CalendarID, e.ID, d.cfg.BusyColor); err != nil {
		sum.Failed++
		d.l.Errorw(ctx, "recolor failed", "event_id", e.ID, "key", m.Key().String(), "error", err.Error())
		return
	}
	sum.Updated++
	d.l.Infow(ctx, "event recolored", "event_id", e.ID, "from", e.ColorID, "to", d.cfg.BusyColor)
}

func (d *Driver) create(ctx context.Context, sum *Summary, ev DesiredEvent) {
	created, err := d.provider.CreateEvent(ctx, d.cfg.CalendarID, &calendar.Event{
		Summary: ev.Title,
		Start:   ev.Start,
		End:     ev.End,
	})
	if err != nil {
		sum.Failed++
		d.l.Errorw(ctx, "create failed", "key", ev.Key().String(), "error", err.Error())
		return
	}
	sum.Created++
	d.l.Infow(ctx, "event created", "event_id", created.ID, "key", ev.Key().String())

	// The event exists now; attribute failures only get logged.
	if ev.Title == d.cfg.BusyTitle {
		if err := d.provider.SetColor(ctx, d.cfg.CalendarID, created.ID, d.cfg.BusyColor); err != nil {
			d.l.Warnw(ctx, "set color failed", "event_id", created.ID, "error", err.Error())
		}
		return
	}
	if err := d.provider.SetTransparency(ctx, d.cfg.CalendarID, created.ID, calendar.Transparent); err != nil {
		d.l.Warnw(ctx, "set transparency failed", "event_id", created.ID, "error", err.Error())
	}
}
