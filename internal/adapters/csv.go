package adapters

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/kastilyo/leadscout/internal/record"
)

// CSVAdapter reads spreadsheet exports: a header row naming fields, one
// prospect per row. Unknown headers are carried through as raw keys and
// ignored by normalization.
type CSVAdapter struct {
	channel string
}

// NewCSVAdapter creates a CSVAdapter. channel may be empty, in which case it
// is inferred from the filename.
func NewCSVAdapter(channel string) *CSVAdapter {
	return &CSVAdapter{channel: channel}
}

// Name returns the adapter name.
func (a *CSVAdapter) Name() string {
	return "csv_import"
}

// Import decodes one CSV export into normalized candidate records.
func (a *CSVAdapter) Import(path string) ([]record.CandidateRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // exports are ragged more often than not

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse export %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	raws := make([]record.RawRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		raw := make(record.RawRecord, len(headers))
		for i, value := range row {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			raw[headers[i]] = value
		}
		raws = append(raws, raw)
	}

	channel := channelForFile(a.channel, path)
	return record.NormalizeAll(raws, channel), nil
}
