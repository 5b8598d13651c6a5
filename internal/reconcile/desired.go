package reconcile

import (
	"context"
	"strings"

	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/table"
)

// DesiredSet holds desired events by key; rows with the same key collapse.
type DesiredSet map[Key]DesiredEvent

// BuildDesired parses every row whose start falls inside w. The window is
// checked against the row's start before the rest of the row is parsed.
func BuildDesired(ctx context.Context, rows []table.Row, w Window, cfg Config, l log.Logger) DesiredSet {
	parser := NewRowParser(cfg, l)
	set := make(DesiredSet)

	for i, row := range rows {
		rowNum := cfg.HeaderRows + i + 1
		cell := row.Cell(cfg.Columns.Start)
		if strings.TrimSpace(cell) == "" {
			continue
		}

		start, err := cfg.parseTime(cell)
		if err != nil {
			parser.reject(ctx, &RowError{Row: rowNum, Field: "start", Err: err})
			continue
		}
		if !w.Contains(start) {
			continue
		}

		if ev, ok := parser.Parse(ctx, rowNum, row).Get(); ok {
			set[ev.Key()] = ev
		}
	}
	return set
}

// FreeTitles returns the distinct titles of every free event in the table,
// in first-seen order, regardless of date.
func FreeTitles(ctx context.Context, rows []table.Row, cfg Config, l log.Logger) []string {
	parser := NewRowParser(cfg, l)
	seen := make(map[string]bool)
	var titles []string

	for i, row := range rows {
		if strings.TrimSpace(row.Cell(cfg.Columns.Start)) == "" {
			continue
		}
		ev, ok := parser.Parse(ctx, cfg.HeaderRows+i+1, row).Get()
		if !ok || ev.Title == "" || ev.Title == cfg.BusyTitle || seen[ev.Title] {
			continue
		}
		seen[ev.Title] = true
		titles = append(titles, ev.Title)
	}
	return titles
}

// countUsableRows counts rows whose start cell parses as a date. A table
// where no start parses, say after a date format change, counts as empty.
func countUsableRows(rows []table.Row, cfg Config) int {
	n := 0
	for _, row := range rows {
		if _, err := cfg.parseTime(row.Cell(cfg.Columns.Start)); err == nil {
			n++
		}
	}
	return n
}
