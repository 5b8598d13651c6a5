package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
)

func (s *Store) SaveToken(ctx context.Context, account string, token *oauth2.Token) error {
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "INSERT OR REPLACE INTO tokens (account_name, token) VALUES (?, ?)", account, tokenJSON)
	return err
}

func (s *Store) Token(ctx context.Context, account string) (*oauth2.Token, error) {
	var tokenJSON []byte
	err := s.db.QueryRowContext(ctx, "SELECT token FROM tokens WHERE account_name = ?", account).Scan(&tokenJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("token for %s: %w", account, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}

	var token oauth2.Token
	if err := json.Unmarshal(tokenJSON, &token); err != nil {
		return nil, fmt.Errorf("unmarshal token: %w", err)
	}
	return &token, nil
}

func (s *Store) DeleteToken(ctx context.Context, account string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM tokens WHERE account_name = ?", account)
	if err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("token for %s: %w", account, ErrNotFound)
	}
	return nil
}
