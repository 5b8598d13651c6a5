package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Run is one persisted invocation of sync, collapse or desync.
type Run struct {
	ID         string
	Command    string
	StartedAt  time.Time
	FinishedAt time.Time
	State      string
	Created    int
	Updated    int
	Deleted    int
	Skipped    int
	Failed     int
	Error      string
}

func (s *Store) RecordRun(ctx context.Context, r Run) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR REPLACE INTO runs
		(id, command, started_at, finished_at, state, created, updated, deleted, skipped, failed, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Command, r.StartedAt.UTC().Format(time.RFC3339Nano), r.FinishedAt.UTC().Format(time.RFC3339Nano),
		r.State, r.Created, r.Updated, r.Deleted, r.Skipped, r.Failed, r.Error)
	if err != nil {
		return fmt.Errorf("record run: %w", err)
	}
	return nil
}

// Runs returns the most recent runs, newest first.
func (s *Store) Runs(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, command, started_at, finished_at, state,
		created, updated, deleted, skipped, failed, error
		FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var started, finished string
		if err := rows.Scan(&r.ID, &r.Command, &started, &finished, &r.State,
			&r.Created, &r.Updated, &r.Deleted, &r.Skipped, &r.Failed, &r.Error); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		r.FinishedAt, _ = time.Parse(time.RFC3339Nano, finished)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// LastRun returns the start time of the latest run of command.
func (s *Store) LastRun(ctx context.Context, command string) (time.Time, error) {
	var started string
	err := s.db.QueryRowContext(ctx, "SELECT started_at FROM runs WHERE command = ? ORDER BY started_at DESC LIMIT 1", command).Scan(&started)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("query last run: %w", err)
	}
	return time.Parse(time.RFC3339Nano, started)
}
