package main

import (
	"context"
	"fmt"

	"github.com/bobuk/sheetsync/internal/calendar"
	"github.com/bobuk/sheetsync/internal/reconcile"
	"github.com/bobuk/sheetsync/internal/table"
)

// newProvider builds the configured calendar provider, rate limited and,
// with --dry-run, read-only.
func (a *App) newProvider(ctx context.Context) (calendar.Provider, error) {
	var (
		p   calendar.Provider
		err error
	)

	switch a.cfg.Calendar.Provider {
	case "google":
		client, cerr := a.googleClient(ctx)
		if cerr != nil {
			return nil, cerr
		}
		loc, lerr := a.cfg.Location()
		if lerr != nil {
			return nil, lerr
		}
		p, err = calendar.NewGoogle(ctx, client, loc)
		if err != nil {
			return nil, fmt.Errorf("error creating Google calendar provider: %w", err)
		}

	case "caldav":
		server, serr := a.cfg.CalDAV()
		if serr != nil {
			return nil, serr
		}
		p, err = calendar.NewCalDAV(ctx, server.ServerURL, server.Username, server.Password)
		if err != nil {
			return nil, fmt.Errorf("error connecting to CalDAV server %s: %w", a.cfg.Calendar.CalDAVServer, err)
		}

	default:
		return nil, fmt.Errorf("unsupported provider type: %s", a.cfg.Calendar.Provider)
	}

	p = calendar.NewRateLimited(p, a.cfg.Sync.RequestsPerSecond)
	if a.dryRun {
		p = calendar.NewDryRun(p, a.l)
	}
	return p, nil
}

func (a *App) newSource(ctx context.Context) (table.Source, error) {
	s := a.cfg.Sheet
	opts := table.Options{HeaderRows: s.HeaderRows, MaxRows: s.MaxRows}

	switch s.Provider {
	case "google":
		client, err := a.googleClient(ctx)
		if err != nil {
			return nil, err
		}
		return table.NewSheets(ctx, client, s.SpreadsheetID, s.Range, opts)
	case "csv":
		return table.NewCSV(s.CSVPath, opts), nil
	default:
		return nil, fmt.Errorf("unsupported sheet provider: %s", s.Provider)
	}
}

// engine wires everything a reconcile run needs.
func (a *App) engine(ctx context.Context) (table.Source, calendar.Provider, reconcile.Config, error) {
	cfg, err := reconcile.NewConfig(a.cfg)
	if err != nil {
		return nil, nil, cfg, err
	}
	source, err := a.newSource(ctx)
	if err != nil {
		return nil, nil, cfg, err
	}
	provider, err := a.newProvider(ctx)
	if err != nil {
		return nil, nil, cfg, err
	}
	return source, provider, cfg, nil
}
