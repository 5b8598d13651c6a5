package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLifecycle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory("cal")
	day := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, m.GetCalendar(ctx, "cal"))
	assert.ErrorIs(t, m.GetCalendar(ctx, "other"), ErrCalendarNotFound)

	busy, err := m.CreateEvent(ctx, "cal", &Event{Summary: "Busy", Start: day.Add(9 * time.Hour), End: day.Add(17 * time.Hour)})
	require.NoError(t, err)
	assert.Equal(t, Opaque, busy.Transparency)
	m.Add("cal", Event{Summary: "Lunch", Start: day.AddDate(0, 1, 0), End: day.AddDate(0, 1, 0).Add(time.Hour)})

	events, err := m.ListEvents(ctx, "cal", day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, busy.ID, events[0].ID)

	found, err := m.SearchEvents(ctx, "cal", day, day.AddDate(1, 0, 0), "lunch")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Lunch", found[0].Summary)

	require.NoError(t, m.SetColor(ctx, "cal", busy.ID, "9"))
	require.NoError(t, m.SetTransparency(ctx, "cal", busy.ID, Transparent))
	assert.Equal(t, "9", m.Events("cal")[0].ColorID)
	assert.Equal(t, Transparent, m.Events("cal")[0].Transparency)

	require.NoError(t, m.DeleteEvent(ctx, "cal", busy.ID))
	assert.ErrorIs(t, m.DeleteEvent(ctx, "cal", busy.ID), ErrEventNotFound)
	assert.Len(t, m.Events("cal"), 1)
}
