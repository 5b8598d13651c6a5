package reconcile

import "time"

// Window is the span of time a run reconciles, both ends inclusive.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow spans from the start of today to the end of the last day of
// the month monthsFuture months from now.
func NewWindow(now time.Time, monthsFuture int, loc *time.Location) Window {
	now = now.In(loc)
	start := startOfDay(now)
	// day 1 of the following month, minus an instant
	end := time.Date(now.Year(), now.Month()+time.Month(monthsFuture)+1, 1, 0, 0, 0, 0, loc).Add(-time.Nanosecond)
	return Window{Start: start, End: end}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
