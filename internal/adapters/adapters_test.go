package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kastilyo/leadscout/internal/record"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestJSONDumpImport(t *testing.T) {
	path := writeFile(t, "dump.json", `{
		"channel": "screenshot",
		"records": [
			{"name": "Maria Santos", "email": "maria@example.com", "followers": 1200},
			{"name": "Ben Reyes", "text": "sideline wanted"},
			{"followers": 5}
		]
	}`)

	records, err := NewJSONDumpAdapter().Import(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (empty one dropped)", len(records))
	}
	if records[0].Channel != record.ChannelScreenshot {
		t.Errorf("channel = %q, want screenshot", records[0].Channel)
	}
	if records[0].Name != "Maria Santos" || records[0].Followers != 1200 {
		t.Errorf("first record = %+v", records[0])
	}
}

func TestJSONDumpBareArray(t *testing.T) {
	path := writeFile(t, "url_scrape-batch7.json", `[
		{"name": "Ana Lim", "profile_url": "https://instagram.com/analim"}
	]`)

	records, err := NewJSONDumpAdapter().Import(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	// Channel inferred from the filename prefix.
	if records[0].Channel != record.ChannelURLScrape {
		t.Errorf("channel = %q, want url_scrape", records[0].Channel)
	}
}

func TestJSONDumpUnknownChannelFallsBack(t *testing.T) {
	path := writeFile(t, "whatever.json", `{"channel": "carrier_pigeon", "records": [{"name": "X"}]}`)

	records, err := NewJSONDumpAdapter().Import(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if records[0].Channel != record.ChannelFileImport {
		t.Errorf("unknown channel tag should fall back to file_import, got %q", records[0].Channel)
	}
}

func TestJSONDumpMalformed(t *testing.T) {
	path := writeFile(t, "bad.json", `{not json`)

	if _, err := NewJSONDumpAdapter().Import(path); err == nil {
		t.Error("malformed dump should return an error")
	}
}

func TestCSVImport(t *testing.T) {
	path := writeFile(t, "export_dump-leads.csv",
		"Name,Email,Occupation,Followers\n"+
			"Maria Santos,maria@example.com,Branch Manager,12000\n"+
			"Ben Reyes,,Nurse,\n")

	records, err := NewCSVAdapter("").Import(path)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Name != "Maria Santos" || records[0].Occupation != "Branch Manager" {
		t.Errorf("first record = %+v", records[0])
	}
	if records[0].Followers != 12000 {
		t.Errorf("followers = %d, want 12000 (parsed from string cell)", records[0].Followers)
	}
	if records[0].Channel != record.ChannelExportDump {
		t.Errorf("channel = %q, want export_dump from filename", records[0].Channel)
	}
	if records[1].Email != "" {
		t.Errorf("empty cell produced email %q", records[1].Email)
	}
}

func TestCSVRaggedRows(t *testing.T) {
	path := writeFile(t, "leads.csv",
		"name,email\n"+
			"Maria Santos,maria@example.com,extra-cell\n"+
			"Ben Reyes\n")

	records, err := NewCSVAdapter(record.ChannelFileImport).Import(path)
	if err != nil {
		t.Fatalf("ragged rows should import: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[1].Name != "Ben Reyes" || records[1].Email != "" {
		t.Errorf("short row = %+v", records[1])
	}
}

func TestCSVHeaderOnly(t *testing.T) {
	path := writeFile(t, "empty.csv", "name,email\n")

	records, err := NewCSVAdapter("").Import(path)
	if err != nil {
		t.Fatalf("header-only file: %v", err)
	}
	if len(records) != 0 {
		t.Errorf("header-only file produced %d records", len(records))
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		path    string
		adapter string
		wantErr bool
	}{
		{"dump.json", "json_dump", false},
		{"dump.JSON", "json_dump", false},
		{"leads.csv", "csv_import", false},
		{"notes.txt", "", true},
	}

	for _, test := range tests {
		adapter, err := ForFile(test.path)
		if test.wantErr {
			if err == nil {
				t.Errorf("ForFile(%q) should fail", test.path)
			}
			continue
		}
		if err != nil {
			t.Errorf("ForFile(%q): %v", test.path, err)
			continue
		}
		if adapter.Name() != test.adapter {
			t.Errorf("ForFile(%q) = %s, want %s", test.path, adapter.Name(), test.adapter)
		}
	}
}
