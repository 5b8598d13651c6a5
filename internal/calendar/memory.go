package calendar

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Memory is an in-process Provider. Events are returned in insertion
// order, the way a provider without ordering guarantees might.
type Memory struct {
	mu        sync.Mutex
	calendars map[string][]*Event
	nextID    int
}

func NewMemory(calendarIDs ...string) *Memory {
	m := &Memory{calendars: make(map[string][]*Event)}
	for _, id := range calendarIDs {
		m.calendars[id] = nil
	}
	return m
}

// Add seeds an event and returns it with an ID assigned.
func (m *Memory) Add(calendarID string, event Event) *Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.add(calendarID, event)
}

func (m *Memory) add(calendarID string, event Event) *Event {
	m.nextID++
	event.ID = fmt.Sprintf("mem-%d", m.nextID)
	if event.Transparency == "" {
		event.Transparency = Opaque
	}
	m.calendars[calendarID] = append(m.calendars[calendarID], &event)
	cp := event
	return &cp
}

// Events returns a snapshot of every event in the calendar.
func (m *Memory) Events(calendarID string) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, 0, len(m.calendars[calendarID]))
	for _, e := range m.calendars[calendarID] {
		out = append(out, *e)
	}
	return out
}

func (m *Memory) GetCalendar(_ context.Context, calendarID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.calendars[calendarID]; !ok {
		return fmt.Errorf("%w: %s", ErrCalendarNotFound, calendarID)
	}
	return nil
}

func (m *Memory) ListEvents(_ context.Context, calendarID string, timeMin, timeMax time.Time) ([]*Event, error) {
	return m.find(calendarID, timeMin, timeMax, "")
}

// SearchEvents matches query as a case-insensitive substring of the summary.
func (m *Memory) SearchEvents(_ context.Context, calendarID string, timeMin, timeMax time.Time, query string) ([]*Event, error) {
	return m.find(calendarID, timeMin, timeMax, query)
}

func (m *Memory) find(calendarID string, timeMin, timeMax time.Time, query string) ([]*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	events, ok := m.calendars[calendarID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrCalendarNotFound, calendarID)
	}

	var out []*Event
	for _, e := range events {
		// overlap, like the Google timeMin/timeMax semantics
		if !e.End.After(timeMin) || !e.Start.Before(timeMax) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(e.Summary), strings.ToLower(query)) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (m *Memory) CreateEvent(_ context.Context, calendarID string, event *Event) (*Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.calendars[calendarID]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrCalendarNotFound, calendarID)
	}
	return m.add(calendarID, *event), nil
}

func (m *Memory) DeleteEvent(_ context.Context, calendarID string, eventID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	events := m.calendars[calendarID]
	for i, e := range events {
		if e.ID == eventID {
			m.calendars[calendarID] = append(events[:i:i], events[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
}

func (m *Memory) SetColor(_ context.Context, calendarID string, eventID string, colorID string) error {
	return m.update(calendarID, eventID, func(e *Event) { e.ColorID = colorID })
}

func (m *Memory) SetTransparency(_ context.Context, calendarID string, eventID string, t Transparency) error {
	return m.update(calendarID, eventID, func(e *Event) { e.Transparency = t })
}

func (m *Memory) update(calendarID, eventID string, fn func(e *Event)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.calendars[calendarID] {
		if e.ID == eventID {
			fn(e)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
}
