package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kastilyo/leadscout/internal/adapters"
	"github.com/kastilyo/leadscout/internal/fusion"
	"github.com/kastilyo/leadscout/internal/store"
)

// FileResult contains the result of importing a single dump file
type FileResult struct {
	File    string `json:"file"`
	Adapter string `json:"adapter"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// Result contains the results of importing a path into a new run
type Result struct {
	OK           bool         `json:"ok"`
	RunID        string       `json:"run_id,omitempty"`
	Message      string       `json:"message,omitempty"`
	Files        []FileResult `json:"files,omitempty"`
	TotalRecords int          `json:"total_records"`
}

// ImportPath imports a dump file or a directory of dump files into a freshly
// created run. One file failing doesn't stop the others, but the overall
// result is not OK.
func ImportPath(ctx context.Context, st *store.Store, ids fusion.IDGenerator, path string) Result {
	result := Result{OK: true}

	files, err := collectDumpFiles(path)
	if err != nil {
		result.OK = false
		result.Message = err.Error()
		return result
	}
	if len(files) == 0 {
		result.OK = false
		result.Message = fmt.Sprintf("no dump files (*.json, *.csv) found at %s", path)
		return result
	}

	runID := ids.NewID()
	if err := st.CreateRun(ctx, runID, path); err != nil {
		result.OK = false
		result.Message = fmt.Sprintf("create run: %v", err)
		return result
	}
	result.RunID = runID

	for _, file := range files {
		fileResult := importFile(ctx, st, runID, file)
		result.Files = append(result.Files, fileResult)
		result.TotalRecords += fileResult.Records
		if fileResult.Error != "" {
			result.OK = false
		}
	}

	return result
}

// importFile imports a single dump file into the run.
func importFile(ctx context.Context, st *store.Store, runID, path string) FileResult {
	fileResult := FileResult{File: filepath.Base(path)}

	adapter, err := adapters.ForFile(path)
	if err != nil {
		fileResult.Error = err.Error()
		return fileResult
	}
	fileResult.Adapter = adapter.Name()

	records, err := adapter.Import(path)
	if err != nil {
		fileResult.Error = err.Error()
		return fileResult
	}
	if len(records) == 0 {
		return fileResult
	}

	if err := st.AddCandidates(ctx, runID, records); err != nil {
		fileResult.Error = fmt.Sprintf("persist candidates: %v", err)
		return fileResult
	}
	fileResult.Records = len(records)
	return fileResult
}

// collectDumpFiles resolves a path to a sorted list of importable dump files.
// Sorting keeps the candidate iteration order (and therefore clustering)
// stable across re-imports of the same directory.
func collectDumpFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	if !info.IsDir() {
		if !importable(path) {
			return nil, fmt.Errorf("unsupported file type: %s", filepath.Base(path))
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		full := filepath.Join(path, entry.Name())
		if importable(full) {
			files = append(files, full)
		}
	}
	sort.Strings(files)
	return files, nil
}

func importable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".csv":
		return true
	}
	return false
}
