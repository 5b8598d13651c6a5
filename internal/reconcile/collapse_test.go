package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobuk/sheetsync/internal/calendar"
	"github.com/bobuk/sheetsync/internal/log"
	"github.com/bobuk/sheetsync/internal/table"
)

func newTestCollapser(rows []table.Row, p calendar.Provider) *Collapser {
	c := NewCollapser(&staticSource{rows: rows}, p, testConfig(), log.NewNop())
	c.Now = func() time.Time { return testNow }
	return c
}

func TestCollapserKeepsOnePerDay(t *testing.T) {
	mem := calendar.NewMemory(calID)
	first := mem.Add(calID, calendar.Event{Summary: "VAC", Start: at("2025-06-01"), End: at("2025-06-04"), Transparency: calendar.Transparent})
	mem.Add(calID, calendar.Event{Summary: "VAC", Start: at("2025-06-01"), End: at("2025-06-04"), Transparency: calendar.Transparent})
	mem.Add(calID, calendar.Event{Summary: "VAC", Start: at("2025-06-01 10:00"), End: at("2025-06-02")})
	other := mem.Add(calID, calendar.Event{Summary: "VAC", Start: at("2025-06-08"), End: at("2025-06-10")})
	longer := mem.Add(calID, calendar.Event{Summary: "VACAY", Start: at("2025-06-01"), End: at("2025-06-04")})

	c := newTestCollapser([]table.Row{row("2025-06-01", "2025-06-03", "VAC", "free")}, mem)
	sum, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CollapseSummary{Titles: 1, Deleted: 2}, sum)

	events := mem.Events(calID)
	require.Len(t, events, 3)
	ids := []string{events[0].ID, events[1].ID, events[2].ID}
	assert.Equal(t, []string{first.ID, other.ID, longer.ID}, ids)
}

func TestCollapserReachesBack(t *testing.T) {
	mem := calendar.NewMemory(calID)
	mem.Add(calID, calendar.Event{Summary: "OOO", Start: at("2025-03-01"), End: at("2025-03-03")})
	mem.Add(calID, calendar.Event{Summary: "OOO", Start: at("2025-03-01"), End: at("2025-03-03")})
	// outside the three month look-back
	mem.Add(calID, calendar.Event{Summary: "OOO", Start: at("2025-01-05"), End: at("2025-01-06")})
	mem.Add(calID, calendar.Event{Summary: "OOO", Start: at("2025-01-05"), End: at("2025-01-06")})

	c := newTestCollapser([]table.Row{row("2025-03-01", "2025-03-02", "OOO", "free")}, mem)
	sum, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Deleted)
	assert.Len(t, mem.Events(calID), 3)
}

func TestCollapserContinuesAfterSearchFailure(t *testing.T) {
	mem := calendar.NewMemory(calID)
	mem.Add(calID, calendar.Event{Summary: "VAC", Start: at("2025-06-01"), End: at("2025-06-02")})
	mem.Add(calID, calendar.Event{Summary: "VAC", Start: at("2025-06-01"), End: at("2025-06-02")})
	mem.Add(calID, calendar.Event{Summary: "OOO", Start: at("2025-06-05"), End: at("2025-06-06")})
	mem.Add(calID, calendar.Event{Summary: "OOO", Start: at("2025-06-05"), End: at("2025-06-06")})

	p := &flakyProvider{Memory: mem, failSearchTitle: "VAC"}
	c := newTestCollapser([]table.Row{
		row("2025-06-01", "2025-06-02", "VAC", "free"),
		row("2025-06-05", "2025-06-06", "OOO", "free"),
	}, p)

	sum, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CollapseSummary{Titles: 2, Deleted: 1}, sum)
	assert.Len(t, findEvents(mem.Events(calID), "VAC"), 2)
	assert.Len(t, findEvents(mem.Events(calID), "OOO"), 1)
}

func TestCollapserFetchError(t *testing.T) {
	c := NewCollapser(&staticSource{err: errBoom}, calendar.NewMemory(calID), testConfig(), log.NewNop())
	_, err := c.Run(context.Background())
	assert.ErrorIs(t, err, errBoom)
}

func TestCollapserIgnoresUntitledRows(t *testing.T) {
	mem := calendar.NewMemory(calID)
	mem.Add(calID, calendar.Event{Summary: "", Start: at("2025-06-01 09:00"), End: at("2025-06-01 10:00")})
	mem.Add(calID, calendar.Event{Summary: "", Start: at("2025-06-01 14:00"), End: at("2025-06-01 15:00")})

	c := newTestCollapser([]table.Row{row("2025-06-01", "2025-06-03", "", "free")}, mem)
	sum, err := c.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, CollapseSummary{}, sum)
	assert.Len(t, mem.Events(calID), 2)
}
