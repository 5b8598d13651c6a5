package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/bobuk/sheetsync/internal/config"
	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/reconcile"
	"github.com/bobuk/sheetsync/internal/store"
)

func init() {
	color.NoColor = true
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return &App{cfg: config.Default(), l: log.NewNop(), store: st}
}

func TestVersionNeedsNoConfig(t *testing.T) {
	app := NewApp()
	var out bytes.Buffer
	app.root.SetOut(&out)
	app.root.SetArgs([]string{"version", "--config", "/nonexistent/.sheetsync.toml"})

	require.NoError(t, app.root.Execute())
	assert.Equal(t, "sheetsync dev\n", out.String())
}

func TestHistoryCommand(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sheetsync.toml")
	dbPath := filepath.Join(dir, "runs.db")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(`
[general]
db_path = %q
timezone = "UTC"

[sheet]
provider = "csv"
csv_path = "rows.csv"

[calendar]
provider = "caldav"
calendar_id = "/cal/work/"
caldav_server = "home"

[caldavs.home]
server_url = "https://dav.example.com"
`, dbPath)), 0o600))

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	started := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)
	require.NoError(t, st.RecordRun(context.Background(), store.Run{
		ID: "r1", Command: "sync", StartedAt: started, FinishedAt: started.Add(time.Second),
		State: "Done", Created: 2, Deleted: 1,
	}))
	require.NoError(t, st.Close())

	app := NewApp()
	var out bytes.Buffer
	app.root.SetOut(&out)
	app.root.SetArgs([]string{"history", "--config", cfgPath})
	require.NoError(t, app.root.Execute())
	require.NoError(t, app.close())

	assert.Contains(t, out.String(), "Recent runs")
	assert.Contains(t, out.String(), "+2 ~0 -1")
}

func TestPrintSummary(t *testing.T) {
	tests := []struct {
		name string
		sum  reconcile.Summary
		want string
	}{
		{
			name: "done",
			sum:  reconcile.Summary{State: reconcile.StateDone, Created: 1, Deleted: 2},
			want: "✅ sync finished: 1 created, 0 updated, 2 deleted\n",
		},
		{
			name: "skipped and failed",
			sum:  reconcile.Summary{State: reconcile.StateDone, Skipped: 1, Failed: 3},
			want: "❗️ sync finished: 0 created, 0 updated, 0 deleted, 1 past kept, 3 failed\n",
		},
		{
			name: "aborted",
			sum:  reconcile.Summary{State: reconcile.StateAborted},
			want: "⚠️  sync aborted: the table has no usable rows, calendar left untouched\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			printSummary(&out, "sync", tt.sum)
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestUntilDue(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)
	now := time.Date(2025, 5, 20, 10, 0, 0, 0, time.UTC)

	assert.Zero(t, app.untilDue(ctx, now))

	require.NoError(t, app.store.RecordRun(ctx, store.Run{ID: "a", Command: "sync", StartedAt: now.Add(-4 * time.Minute)}))
	assert.Equal(t, 6*time.Minute, app.untilDue(ctx, now))
	assert.Zero(t, app.untilDue(ctx, now.Add(6*time.Minute)))

	app.dryRun = true
	assert.Zero(t, app.untilDue(ctx, now), "dry runs are tracked separately")
}

func TestStoredTokenSourceSavesRefresh(t *testing.T) {
	ctx := context.Background()
	app := newTestApp(t)

	src := &storedTokenSource{
		ctx:     ctx,
		base:    oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "fresh"}),
		store:   app.store,
		account: "default",
		last:    "stale",
	}
	tok, err := src.Token()
	require.NoError(t, err)
	assert.Equal(t, "fresh", tok.AccessToken)

	saved, err := app.store.Token(ctx, "default")
	require.NoError(t, err)
	assert.Equal(t, "fresh", saved.AccessToken)
}

func TestGoogleClientWithoutToken(t *testing.T) {
	app := newTestApp(t)
	_, err := app.googleClient(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheetsync auth")
}

func TestGetTokenFromWebRejectsEmptyCode(t *testing.T) {
	var out bytes.Buffer
	_, err := getTokenFromWeb(context.Background(), oauthConfig(config.Default()), strings.NewReader("\n"), &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "accounts.google.com")
}

func TestConfirm(t *testing.T) {
	var out bytes.Buffer
	assert.True(t, confirm(strings.NewReader("y\n"), &out, "? "))
	assert.False(t, confirm(strings.NewReader("yes\n"), &out, "? "))
	assert.False(t, confirm(strings.NewReader(""), &out, "? "))
}
