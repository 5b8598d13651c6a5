package table

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Sheets reads a range of a Google spreadsheet in one request.
type Sheets struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
	opts          Options
}

func NewSheets(ctx context.Context, client *http.Client, spreadsheetID, readRange string, opts Options) (*Sheets, error) {
	service, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return &Sheets{
		service:       service,
		spreadsheetID: spreadsheetID,
		readRange:     readRange,
		opts:          opts,
	}, nil
}

func (s *Sheets) ReadRows(ctx context.Context) ([]Row, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).
		Context(ctx).
		ValueRenderOption("FORMATTED_VALUE").
		DateTimeRenderOption("FORMATTED_STRING").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read range %s: %w", s.readRange, err)
	}

	rows := make([]Row, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make(Row, len(values))
		for i, v := range values {
			row[i] = fmt.Sprint(v)
		}
		rows = append(rows, row)
	}
	return s.opts.trim(rows), nil
}
