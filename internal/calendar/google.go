package calendar

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

type Google struct {
	service *gcal.Service
	loc     *time.Location
}

// NewGoogle creates a Google Calendar provider. loc is used for all-day
// events, which carry a date but no offset.
func NewGoogle(ctx context.Context, client *http.Client, loc *time.Location) (*Google, error) {
	service, err := gcal.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &Google{service: service, loc: loc}, nil
}

func (g *Google) GetCalendar(ctx context.Context, calendarID string) error {
	_, err := g.service.Calendars.Get(calendarID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
			return fmt.Errorf("%w: %s", ErrCalendarNotFound, calendarID)
		}
		return fmt.Errorf("failed to get calendar: %w", err)
	}
	return nil
}

func (g *Google) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*Event, error) {
	return g.list(ctx, calendarID, timeMin, timeMax, "")
}

func (g *Google) SearchEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, query string) ([]*Event, error) {
	return g.list(ctx, calendarID, timeMin, timeMax, query)
}

func (g *Google) list(ctx context.Context, calendarID string, timeMin, timeMax time.Time, query string) ([]*Event, error) {
	var result []*Event
	pageToken := ""

	for {
		call := g.service.Events.List(calendarID).
			Context(ctx).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			OrderBy("startTime").
			PageToken(pageToken)
		if query != "" {
			call = call.Q(query)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}

		for _, item := range events.Items {
			if item.Status == "cancelled" {
				continue
			}
			ev, err := g.fromAPI(item)
			if err != nil {
				return nil, err
			}
			result = append(result, ev)
		}

		pageToken = events.NextPageToken
		if pageToken == "" {
			break
		}
	}

	return result, nil
}

func (g *Google) CreateEvent(ctx context.Context, calendarID string, event *Event) (*Event, error) {
	googleEvent := &gcal.Event{
		Summary: event.Summary,
		Start:   &gcal.EventDateTime{DateTime: event.Start.Format(time.RFC3339)},
		End:     &gcal.EventDateTime{DateTime: event.End.Format(time.RFC3339)},
	}

	created, err := g.service.Events.Insert(calendarID, googleEvent).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return g.fromAPI(created)
}

func (g *Google) DeleteEvent(ctx context.Context, calendarID string, eventID string) error {
	err := g.service.Events.Delete(calendarID, eventID).Context(ctx).Do()
	if err != nil {
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && (apiErr.Code == http.StatusNotFound || apiErr.Code == http.StatusGone) {
			return fmt.Errorf("%w: %s", ErrEventNotFound, eventID)
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (g *Google) SetColor(ctx context.Context, calendarID string, eventID string, colorID string) error {
	_, err := g.service.Events.Patch(calendarID, eventID, &gcal.Event{ColorId: colorID}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to set color: %w", err)
	}
	return nil
}

func (g *Google) SetTransparency(ctx context.Context, calendarID string, eventID string, t Transparency) error {
	patch := &gcal.Event{Transparency: "opaque"}
	if t == Transparent {
		patch.Transparency = "transparent"
	}
	_, err := g.service.Events.Patch(calendarID, eventID, patch).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to set transparency: %w", err)
	}
	return nil
}

func (g *Google) fromAPI(item *gcal.Event) (*Event, error) {
	start, err := g.parseTime(item.Start)
	if err != nil {
		return nil, fmt.Errorf("event %s start: %w", item.Id, err)
	}
	end, err := g.parseTime(item.End)
	if err != nil {
		return nil, fmt.Errorf("event %s end: %w", item.Id, err)
	}

	// The API omits transparency for the default, opaque.
	transparency := Opaque
	if item.Transparency == "transparent" {
		transparency = Transparent
	}

	return &Event{
		ID:           item.Id,
		Summary:      item.Summary,
		Start:        start,
		End:          end,
		ColorID:      item.ColorId,
		Transparency: transparency,
	}, nil
}

func (g *Google) parseTime(dt *gcal.EventDateTime) (time.Time, error) {
	switch {
	case dt == nil:
		return time.Time{}, errors.New("missing date")
	case dt.DateTime != "":
		return time.Parse(time.RFC3339, dt.DateTime)
	case dt.Date != "":
		return time.ParseInLocation("2006-01-02", dt.Date, g.loc)
	default:
		return time.Time{}, errors.New("empty date")
	}
}
