package calendar

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/emersion/go-ical"
	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
	"github.com/google/uuid"
)

const (
	propColor        = "COLOR"
	propTransparency = "TRANSP"
	productID        = "-//sheetsync//EN"
)

// CalDAV is a Provider backed by a CalDAV server. Event IDs are the
// object paths on the server.
type CalDAV struct {
	client    *caldav.Client
	serverURL string
}

func NewCalDAV(ctx context.Context, serverURL, username, password string) (*CalDAV, error) {
	baseURL, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("invalid CalDAV server URL: %w", err)
	}

	var httpClient webdav.HTTPClient = http.DefaultClient
	if username != "" && password != "" {
		httpClient = webdav.HTTPClientWithBasicAuth(httpClient, username, password)
	}

	c, err := caldav.NewClient(httpClient, baseURL.String())
	if err != nil {
		return nil, fmt.Errorf("failed to create CalDAV client: %w", err)
	}

	return &CalDAV{client: c, serverURL: serverURL}, nil
}

func (c *CalDAV) GetCalendar(ctx context.Context, calendarID string) error {
	calPath, err := calendarPath(calendarID)
	if err != nil {
		return err
	}

	calendars, err := c.client.FindCalendars(ctx, path.Dir(strings.TrimRight(calPath, "/")))
	if err != nil {
		return fmt.Errorf("failed to find calendars: %w", err)
	}

	for _, cal := range calendars {
		if strings.TrimRight(cal.Path, "/") == strings.TrimRight(calPath, "/") {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrCalendarNotFound, calPath)
}

func (c *CalDAV) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*Event, error) {
	return c.query(ctx, calendarID, timeMin, timeMax, "")
}

func (c *CalDAV) SearchEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time, query string) ([]*Event, error) {
	return c.query(ctx, calendarID, timeMin, timeMax, query)
}

func (c *CalDAV) query(ctx context.Context, calendarID string, timeMin, timeMax time.Time, summary string) ([]*Event, error) {
	calPath, err := calendarPath(calendarID)
	if err != nil {
		return nil, err
	}

	eventFilter := caldav.CompFilter{
		Name:  ical.CompEvent,
		Start: timeMin,
		End:   timeMax,
	}
	if summary != "" {
		eventFilter.Props = []caldav.PropFilter{{
			Name:      ical.PropSummary,
			TextMatch: &caldav.TextMatch{Text: summary},
		}}
	}

	query := &caldav.CalendarQuery{
		CompRequest: caldav.CalendarCompRequest{
			Name:     ical.CompCalendar,
			AllProps: true,
			AllComps: true,
		},
		CompFilter: caldav.CompFilter{
			Name:  ical.CompCalendar,
			Comps: []caldav.CompFilter{eventFilter},
		},
	}

	objects, err := c.client.QueryCalendar(ctx, calPath, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	var result []*Event
	for _, obj := range objects {
		comp := eventComponent(obj.Data)
		if comp == nil {
			continue
		}
		if strings.EqualFold(getTextProp(comp.Props, "STATUS"), "CANCELLED") {
			continue
		}
		ev, err := eventFromComponent(obj.Path, comp)
		if err != nil {
			return nil, err
		}
		result = append(result, ev)
	}
	return result, nil
}

func (c *CalDAV) CreateEvent(ctx context.Context, calendarID string, event *Event) (*Event, error) {
	calPath, err := calendarPath(calendarID)
	if err != nil {
		return nil, err
	}

	uid := uuid.NewString()
	vevent := ical.NewEvent()
	vevent.Props.SetText(ical.PropUID, uid)
	vevent.Props.SetText(ical.PropSummary, event.Summary)
	vevent.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeStart, event.Start.UTC())
	vevent.Props.SetDateTime(ical.PropDateTimeEnd, event.End.UTC())
	vevent.Props.SetText("STATUS", "CONFIRMED")
	if event.ColorID != "" {
		vevent.Props.SetText(propColor, event.ColorID)
	}
	transparency := event.Transparency
	if transparency == "" {
		transparency = Opaque
	}
	vevent.Props.SetText(propTransparency, string(transparency))

	objPath := strings.TrimRight(calPath, "/") + "/" + uid + ".ics"
	if _, err := c.client.PutCalendarObject(ctx, objPath, newCalendar(vevent.Component)); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	return &Event{
		ID:           objPath,
		Summary:      event.Summary,
		Start:        event.Start,
		End:          event.End,
		ColorID:      event.ColorID,
		Transparency: transparency,
	}, nil
}

func (c *CalDAV) DeleteEvent(ctx context.Context, calendarID string, eventID string) error {
	// RemoveAll comes from the embedded webdav.Client.
	if err := c.client.RemoveAll(ctx, eventID); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

func (c *CalDAV) SetColor(ctx context.Context, calendarID string, eventID string, colorID string) error {
	return c.modify(ctx, eventID, func(comp *ical.Component) {
		comp.Props.SetText(propColor, colorID)
	})
}

func (c *CalDAV) SetTransparency(ctx context.Context, calendarID string, eventID string, t Transparency) error {
	return c.modify(ctx, eventID, func(comp *ical.Component) {
		comp.Props.SetText(propTransparency, string(t))
	})
}

func (c *CalDAV) modify(ctx context.Context, eventID string, fn func(comp *ical.Component)) error {
	obj, err := c.client.GetCalendarObject(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}

	comp := eventComponent(obj.Data)
	if comp == nil {
		return fmt.Errorf("%w: no VEVENT in %s", ErrEventNotFound, eventID)
	}
	fn(comp)
	comp.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())

	if _, err := c.client.PutCalendarObject(ctx, eventID, obj.Data); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

func calendarPath(calendarID string) (string, error) {
	calURL, err := url.Parse(calendarID)
	if err != nil {
		return "", fmt.Errorf("invalid calendar URL: %w", err)
	}
	if calURL.Path == "" {
		return "", fmt.Errorf("invalid calendar URL: %q has no path", calendarID)
	}
	return calURL.Path, nil
}

func newCalendar(children ...*ical.Component) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Children = append(cal.Children, children...)
	return cal
}

func eventComponent(cal *ical.Calendar) *ical.Component {
	if cal == nil {
		return nil
	}
	for _, comp := range cal.Children {
		if comp.Name == ical.CompEvent {
			return comp
		}
	}
	return nil
}

func eventFromComponent(objPath string, comp *ical.Component) (*Event, error) {
	start, err := comp.Props.DateTime(ical.PropDateTimeStart, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("event %s start: %w", objPath, err)
	}
	end, err := comp.Props.DateTime(ical.PropDateTimeEnd, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("event %s end: %w", objPath, err)
	}
	if end.IsZero() {
		end = start
	}

	transparency := Opaque
	if strings.EqualFold(getTextProp(comp.Props, propTransparency), string(Transparent)) {
		transparency = Transparent
	}

	return &Event{
		ID:           objPath,
		Summary:      getTextProp(comp.Props, ical.PropSummary),
		Start:        start,
		End:          end,
		ColorID:      getTextProp(comp.Props, propColor),
		Transparency: transparency,
	}, nil
}

func getTextProp(props ical.Props, name string) string {
	prop := props.Get(name)
	if prop == nil {
		return ""
	}
	return prop.Value
}
