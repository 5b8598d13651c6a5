// Package store keeps OAuth tokens and run history in sqlite.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaName = "sheetsync"

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS db_version (
		name TEXT PRIMARY KEY,
		version INTEGER
	)`); err != nil {
		return fmt.Errorf("create db_version table: %w", err)
	}

	var version int
	err := s.db.QueryRowContext(ctx, "SELECT version FROM db_version WHERE name = ?", schemaName).Scan(&version)
	if err == sql.ErrNoRows {
		if _, err := s.db.ExecContext(ctx, "INSERT INTO db_version (name, version) VALUES (?, 0)", schemaName); err != nil {
			return fmt.Errorf("initialize db_version table: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("read db_version: %w", err)
	}

	if version < 1 {
		stmts := []string{
			`CREATE TABLE IF NOT EXISTS tokens (
				account_name TEXT PRIMARY KEY,
				token TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS runs (
				id TEXT PRIMARY KEY,
				command TEXT,
				started_at TEXT,
				finished_at TEXT,
				state TEXT,
				created INTEGER,
				updated INTEGER,
				deleted INTEGER,
				skipped INTEGER,
				failed INTEGER,
				error TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at)`,
		}
		for _, stmt := range stmts {
			if _, err := s.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate to version 1: %w", err)
			}
		}
		if _, err := s.db.ExecContext(ctx, "UPDATE db_version SET version = 1 WHERE name = ?", schemaName); err != nil {
			return fmt.Errorf("update db_version table: %w", err)
		}
	}
	return nil
}
