package reconcile

import (
	"github.com/bobuk/sheetsync/internal/calendar"
)

// Kind is how the engine sees a calendar event.
type Kind int

const (
	KindForeign Kind = iota
	KindBusy
	KindFree
)

func (k Kind) String() string {
	switch k {
	case KindBusy:
		return "busy"
	case KindFree:
		return "free"
	default:
		return "foreign"
	}
}

// Classify decides whether an event is managed. Busy markers are matched by
// title; free blocks by a multi-day span and transparency.
func Classify(e *calendar.Event, cfg Config) Kind {
	if e.Summary == cfg.BusyTitle {
		return KindBusy
	}
	if e.Transparency == calendar.Transparent && cfg.spansDays(e.Start, e.End, cfg.MinFreeEventDays) {
		return KindFree
	}
	return KindForeign
}

// ManagedEvent is a calendar event the engine owns.
type ManagedEvent struct {
	Event *calendar.Event
	Kind  Kind
}

func (m ManagedEvent) Key() Key {
	return NewKey(m.Event.Start, m.Event.End, m.Event.Summary)
}

type ManagedSet map[Key]ManagedEvent

// BuildManaged classifies events and keys the managed ones. The first
// event seen for a key wins; later ones are returned as duplicates.
func BuildManaged(events []*calendar.Event, cfg Config) (ManagedSet, []ManagedEvent) {
	set := make(ManagedSet)
	var dups []ManagedEvent

	for _, e := range events {
		kind := Classify(e, cfg)
		if kind == KindForeign {
			continue
		}
		m := ManagedEvent{Event: e, Kind: kind}
		key := m.Key()
		if _, ok := set[key]; ok {
			dups = append(dups, m)
			continue
		}
		set[key] = m
	}
	return set, dups
}
