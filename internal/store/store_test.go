package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTokens(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.Token(ctx, "me")
	assert.ErrorIs(t, err, ErrNotFound)

	expiry := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveToken(ctx, "me", &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: expiry}))
	require.NoError(t, s.SaveToken(ctx, "me", &oauth2.Token{AccessToken: "b", RefreshToken: "r", Expiry: expiry}))

	tok, err := s.Token(ctx, "me")
	require.NoError(t, err)
	assert.Equal(t, "b", tok.AccessToken)
	assert.True(t, tok.Expiry.Equal(expiry))

	require.NoError(t, s.DeleteToken(ctx, "me"))
	assert.ErrorIs(t, s.DeleteToken(ctx, "me"), ErrNotFound)
}

func TestRuns(t *testing.T) {
	ctx := context.Background()
	s := openTest(t)

	_, err := s.LastRun(ctx, "sync")
	assert.ErrorIs(t, err, ErrNotFound)

	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.RecordRun(ctx, Run{ID: "1", Command: "sync", StartedAt: base, FinishedAt: base.Add(time.Second), State: "Done", Created: 2}))
	require.NoError(t, s.RecordRun(ctx, Run{ID: "2", Command: "collapse", StartedAt: base.Add(time.Hour), FinishedAt: base.Add(time.Hour), State: "Done", Deleted: 1}))
	require.NoError(t, s.RecordRun(ctx, Run{ID: "3", Command: "sync", StartedAt: base.Add(2 * time.Hour), FinishedAt: base.Add(2 * time.Hour), State: "Aborted"}))

	runs, err := s.Runs(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, []string{"3", "2", "1"}, []string{runs[0].ID, runs[1].ID, runs[2].ID})
	assert.Equal(t, 2, runs[2].Created)

	last, err := s.LastRun(ctx, "sync")
	require.NoError(t, err)
	assert.True(t, last.Equal(base.Add(2*time.Hour)))
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveToken(context.Background(), "me", &oauth2.Token{AccessToken: "a"}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	_, err = s.Token(context.Background(), "me")
	assert.NoError(t, err)
}
