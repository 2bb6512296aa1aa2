package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/kastilyo/leadscout/internal/db"
	"github.com/kastilyo/leadscout/internal/fusion"
	"github.com/kastilyo/leadscout/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("open in-memory database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return store.New(database)
}

func writeDump(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestImportDirectory(t *testing.T) {
	st := newTestStore(t)
	dir := t.TempDir()

	writeDump(t, dir, "screenshot-1.json", `{"records": [{"name": "Maria Santos"}, {"name": "Ben Reyes"}]}`)
	writeDump(t, dir, "leads.csv", "name,email\nCarlo Dizon,carlo@example.com\n")
	writeDump(t, dir, "notes.txt", "not a dump")

	result := ImportPath(context.Background(), st, fusion.UUIDGenerator{}, dir)

	if !result.OK {
		t.Fatalf("import failed: %s", result.Message)
	}
	if result.RunID == "" {
		t.Fatal("no run ID assigned")
	}
	if len(result.Files) != 2 {
		t.Fatalf("imported %d files, want 2 (txt skipped)", len(result.Files))
	}
	if result.TotalRecords != 3 {
		t.Errorf("total records = %d, want 3", result.TotalRecords)
	}

	// The candidates landed in the store under the new run.
	records, err := st.LoadCandidates(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("load candidates: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("stored %d candidates, want 3", len(records))
	}

	run, err := st.GetRun(context.Background(), result.RunID)
	if err != nil {
		t.Fatalf("get run: %v", err)
	}
	if run.Status != store.StatusPending {
		t.Errorf("imported run status = %s, want pending", run.Status)
	}
	if run.TotalRecords != 3 {
		t.Errorf("run total records = %d, want 3", run.TotalRecords)
	}
}

func TestImportSingleFile(t *testing.T) {
	st := newTestStore(t)
	dir := t.TempDir()
	writeDump(t, dir, "dump.json", `{"channel": "manual_text", "records": [{"name": "Ana Lim"}]}`)

	result := ImportPath(context.Background(), st, fusion.UUIDGenerator{}, filepath.Join(dir, "dump.json"))

	if !result.OK {
		t.Fatalf("import failed: %s", result.Message)
	}
	if result.TotalRecords != 1 {
		t.Errorf("total records = %d, want 1", result.TotalRecords)
	}
}

func TestImportBadFileContinues(t *testing.T) {
	st := newTestStore(t)
	dir := t.TempDir()

	writeDump(t, dir, "a-bad.json", `{broken`)
	writeDump(t, dir, "b-good.json", `{"records": [{"name": "Maria Santos"}]}`)

	result := ImportPath(context.Background(), st, fusion.UUIDGenerator{}, dir)

	// One bad file fails the overall result but the good file still imports.
	if result.OK {
		t.Error("result should not be OK with a failed file")
	}
	if result.TotalRecords != 1 {
		t.Errorf("total records = %d, want 1", result.TotalRecords)
	}
	var badResult *FileResult
	for i := range result.Files {
		if result.Files[i].File == "a-bad.json" {
			badResult = &result.Files[i]
		}
	}
	if badResult == nil || badResult.Error == "" {
		t.Errorf("bad file result = %+v, want recorded error", badResult)
	}
}

func TestImportEmptyDirectory(t *testing.T) {
	st := newTestStore(t)

	result := ImportPath(context.Background(), st, fusion.UUIDGenerator{}, t.TempDir())
	if result.OK {
		t.Error("empty directory should not be OK")
	}
	if result.RunID != "" {
		t.Errorf("empty directory created run %s", result.RunID)
	}
}

func TestImportMissingPath(t *testing.T) {
	st := newTestStore(t)

	result := ImportPath(context.Background(), st, fusion.UUIDGenerator{}, "/does/not/exist")
	if result.OK {
		t.Error("missing path should not be OK")
	}
}

func TestImportUnsupportedFile(t *testing.T) {
	st := newTestStore(t)
	dir := t.TempDir()
	writeDump(t, dir, "notes.txt", "plain text")

	result := ImportPath(context.Background(), st, fusion.UUIDGenerator{}, filepath.Join(dir, "notes.txt"))
	if result.OK {
		t.Error("unsupported file should not be OK")
	}
}
