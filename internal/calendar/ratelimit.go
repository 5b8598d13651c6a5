package calendar

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited waits on a token bucket before every call to the wrapped
// Provider, keeping a run inside the provider's per-user quota.
type RateLimited struct {
	next    Provider
	limiter *rate.Limiter
}

// NewRateLimited allows perSecond calls per second with a burst of one
// second's worth. perSecond <= 0 disables limiting.
func NewRateLimited(next Provider, perSecond float64) *RateLimited {
	limit, burst := rate.Inf, 1
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
		burst = max(1, int(perSecond))
	}
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (r *RateLimited) GetCalendar(ctx context.Context, calendarID string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.GetCalendar(ctx, calendarID)
}

func (r *RateLimited) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*Event, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.ListEvents(ctx, calendarID, timeMin, timeMax)
}

func (r *RateLimited) SearchEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, query string) ([]*Event, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.SearchEvents(ctx, calendarID, timeMin, timeMax, query)
}

func (r *RateLimited) CreateEvent(ctx context.Context, calendarID string, event *Event) (*Event, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return r.next.CreateEvent(ctx, calendarID, event)
}

func (r *RateLimited) DeleteEvent(ctx context.Context, calendarID string, eventID string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.DeleteEvent(ctx, calendarID, eventID)
}

func (r *RateLimited) SetColor(ctx context.Context, calendarID string, eventID string, colorID string) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.SetColor(ctx, calendarID, eventID, colorID)
}

func (r *RateLimited) SetTransparency(ctx context.Context, calendarID string, eventID string, t Transparency) error {
	if err := r.limiter.Wait(ctx); err != nil {
		return err
	}
	return r.next.SetTransparency(ctx, calendarID, eventID, t)
}
