package table

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
)

// CSV reads rows from a local CSV export of the table.
type CSV struct {
	path string
	opts Options
}

func NewCSV(path string, opts Options) *CSV {
	return &CSV{path: path, opts: opts}
}

func (c *CSV) ReadRows(_ context.Context) ([]Row, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", c.path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", c.path, err)
	}

	rows := make([]Row, len(records))
	for i, rec := range records {
		rows[i] = Row(rec)
	}
	return c.opts.trim(rows), nil
}
