package reconcile

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/samber/mo"

	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/table"
)

const (
	availabilityBusy = "busy"
	availabilityFree = "free"
)

// RowParser turns table rows into desired events.
type RowParser struct {
	cfg Config
	l   log.Logger
}

func NewRowParser(cfg Config, l log.Logger) *RowParser {
	return &RowParser{cfg: cfg, l: l}
}

// Parse returns the desired event for row, or None when the row is
// malformed, excluded, or describes nothing sheetsync manages. rowNum is
// the row's position in the table and only used for logging.
func (p *RowParser) Parse(ctx context.Context, rowNum int, row table.Row) mo.Option[DesiredEvent] {
	cols := p.cfg.Columns

	start, err := p.cfg.parseTime(row.Cell(cols.Start))
	if err != nil {
		p.reject(ctx, &RowError{Row: rowNum, Field: "start", Err: err})
		return mo.None[DesiredEvent]()
	}
	end, err := p.cfg.parseTime(row.Cell(cols.End))
	if err != nil {
		p.reject(ctx, &RowError{Row: rowNum, Field: "end", Err: err})
		return mo.None[DesiredEvent]()
	}

	title := strings.TrimSpace(row.Cell(cols.Title))
	if p.cfg.excluded(title) {
		p.l.Debugf(ctx, "row %d: title %q excluded", rowNum, title)
		return mo.None[DesiredEvent]()
	}

	switch strings.ToLower(strings.TrimSpace(row.Cell(cols.Availability))) {
	case availabilityBusy:
		return mo.Some(DesiredEvent{Start: start, End: end, Title: p.cfg.BusyTitle})

	case availabilityFree:
		if !p.cfg.spansDays(start, end, p.cfg.MinFreeEventDays) {
			return mo.None[DesiredEvent]()
		}
		if title == "" {
			p.reject(ctx, &RowError{Row: rowNum, Field: "title", Err: errors.New("free event has no title")})
			return mo.None[DesiredEvent]()
		}
		if utf8.RuneCountInString(title) > p.cfg.MaxFreeTitleLength {
			return mo.None[DesiredEvent]()
		}
		if strings.EqualFold(title, p.cfg.BusyTitle) {
			// would share the busy key space
			p.reject(ctx, &RowError{Row: rowNum, Field: "title", Err: errors.New("free event uses the busy title")})
			return mo.None[DesiredEvent]()
		}
		return mo.Some(DesiredEvent{Start: start, End: end.AddDate(0, 0, 1), Title: title})

	default:
		return mo.None[DesiredEvent]()
	}
}

func (p *RowParser) reject(ctx context.Context, err *RowError) {
	p.l.Warnw(ctx, "row skipped", "row", err.Row, "field", err.Field, "error", err.Err.Error())
}
