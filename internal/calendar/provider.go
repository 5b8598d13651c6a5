// Package calendar holds the calendar providers sheetsync writes to.
package calendar

import (
	"context"
	"time"
)

// Transparency is the busy/free flag of an event as the provider reports it.
type Transparency string

const (
	Opaque      Transparency = "OPAQUE"
	Transparent Transparency = "TRANSPARENT"
)

type Provider interface {
	GetCalendar(ctx context.Context, calendarID string) error
	ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*Event, error)
	SearchEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, query string) ([]*Event, error)
	CreateEvent(ctx context.Context, calendarID string, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, calendarID string, eventID string) error
	SetColor(ctx context.Context, calendarID string, eventID string, colorID string) error
	SetTransparency(ctx context.Context, calendarID string, eventID string, t Transparency) error
}

type Event struct {
	ID           string
	Summary      string
	Start        time.Time
	End          time.Time
	ColorID      string
	Transparency Transparency
}
