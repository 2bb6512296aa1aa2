package adapters

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/kastilyo/leadscout/internal/record"
)

// Adapter is the interface implemented by all channel dump readers. Adapters
// decode already-extracted prospect records; the extraction itself (OCR,
// scraping, capture) happens upstream and out of process.
type Adapter interface {
	// Name returns the adapter name (e.g., "json_dump", "csv_import")
	Name() string

	// Import decodes one dump file into normalized candidate records
	Import(path string) ([]record.CandidateRecord, error)
}

// ImportResult contains statistics about an import operation
type ImportResult struct {
	Files           int
	RecordsImported int
	Skipped         int
	Duration        time.Duration
}

// ForFile picks the adapter for a dump file based on its extension.
func ForFile(path string) (Adapter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONDumpAdapter(), nil
	case ".csv":
		return NewCSVAdapter(""), nil
	default:
		return nil, fmt.Errorf("no adapter for file %s", filepath.Base(path))
	}
}

// knownChannels guards against typo'd channel tags in dump files.
var knownChannels = map[string]bool{
	record.ChannelScreenshot:     true,
	record.ChannelURLScrape:      true,
	record.ChannelFileImport:     true,
	record.ChannelExportDump:     true,
	record.ChannelScraperAPI:     true,
	record.ChannelManualText:     true,
	record.ChannelBrowserCapture: true,
}

// channelForFile resolves the channel tag for a dump file: an explicit tag
// wins, then a known-channel filename prefix, then file_import.
func channelForFile(explicit, path string) string {
	if explicit != "" && knownChannels[explicit] {
		return explicit
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for channel := range knownChannels {
		if strings.HasPrefix(stem, channel) {
			return channel
		}
	}
	return record.ChannelFileImport
}
