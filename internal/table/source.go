// Package table reads the rows sheetsync treats as the source of truth.
package table

import "context"

// Row is one table row. Cells keep their formatted text.
type Row []string

// Cell returns the value at the 1-based column, or "" when the row is
// shorter than that.
func (r Row) Cell(col int) string {
	if col < 1 || col > len(r) {
		return ""
	}
	return r[col-1]
}

type Source interface {
	// ReadRows returns the data rows in table order, without header rows.
	ReadRows(ctx context.Context) ([]Row, error)
}

// Options applies to every Source.
type Options struct {
	HeaderRows int
	MaxRows    int
}

func (o Options) trim(rows []Row) []Row {
	if o.HeaderRows >= len(rows) {
		return nil
	}
	rows = rows[o.HeaderRows:]
	if o.MaxRows > 0 && len(rows) > o.MaxRows {
		rows = rows[:o.MaxRows]
	}
	return rows
}
