package reconcile

import (
	"errors"
	"fmt"
)

var (
	errEmptyCell = errors.New("empty cell")
	errBadDate   = errors.New("invalid date")
)

// RowError describes a row that could not be parsed. It is logged, never
// returned from a run.
type RowError struct {
	Row   int
	Field string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s: %v", e.Row, e.Field, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// FetchError is returned when rows or events could not be read. No
// mutation has been attempted when a run returns it.
type FetchError struct {
	Op  string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
