package reconcile

import (
	"fmt"
	"time"
)

// DesiredEvent is an event the table says should exist.
type DesiredEvent struct {
	Start time.Time
	End   time.Time
	Title string
}

func (e DesiredEvent) Key() Key {
	return NewKey(e.Start, e.End, e.Title)
}

// Key identifies an event by its instants and title. Instants are UTC
// Unix milliseconds so the table and every provider agree regardless of
// zone or representation.
type Key struct {
	Start int64
	End   int64
	Title string
}

func NewKey(start, end time.Time, title string) Key {
	return Key{Start: start.UnixMilli(), End: end.UnixMilli(), Title: title}
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%s/%s",
		time.UnixMilli(k.Start).UTC().Format(time.RFC3339),
		time.UnixMilli(k.End).UTC().Format(time.RFC3339),
		k.Title)
}

func (k Key) less(o Key) bool {
	if k.Start != o.Start {
		return k.Start < o.Start
	}
	if k.End != o.End {
		return k.End < o.End
	}
	return k.Title < o.Title
}
