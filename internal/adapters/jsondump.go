package adapters

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kastilyo/leadscout/internal/record"
)

// jsonDump is the on-disk shape of a channel dump file. Channel is optional;
// when absent it is inferred from the filename.
type jsonDump struct {
	Channel string             `json:"channel,omitempty"`
	Records []record.RawRecord `json:"records"`
}

// JSONDumpAdapter reads JSON dump files produced by the ingestion channels.
// A dump is either {"channel": ..., "records": [...]} or a bare array of raw
// records.
type JSONDumpAdapter struct{}

// NewJSONDumpAdapter creates a JSONDumpAdapter.
func NewJSONDumpAdapter() *JSONDumpAdapter {
	return &JSONDumpAdapter{}
}

// Name returns the adapter name.
func (a *JSONDumpAdapter) Name() string {
	return "json_dump"
}

// Import decodes one JSON dump file into normalized candidate records.
func (a *JSONDumpAdapter) Import(path string) ([]record.CandidateRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump %s: %w", path, err)
	}

	var dump jsonDump
	if err := json.Unmarshal(data, &dump); err != nil {
		// Fall back to a bare array of raw records.
		var raws []record.RawRecord
		if arrErr := json.Unmarshal(data, &raws); arrErr != nil {
			return nil, fmt.Errorf("parse dump %s: %w", path, err)
		}
		dump.Records = raws
	}

	channel := channelForFile(dump.Channel, path)
	return record.NormalizeAll(dump.Records, channel), nil
}
