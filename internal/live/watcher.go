package live

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kastilyo/leadscout/internal/compute"
	"github.com/kastilyo/leadscout/internal/fusion"
	"github.com/kastilyo/leadscout/internal/ingest"
	"github.com/kastilyo/leadscout/internal/store"
)

// Options configures the drop-dir watcher.
type Options struct {
	DropDir         string
	DebounceSeconds int
	Logf            func(format string, args ...any)
}

// Watch watches the drop directory for new dump files. Each batch of new
// files becomes a run, which is imported, queued for fusion, and processed
// in place. Blocks until the context is cancelled.
func Watch(ctx context.Context, st *store.Store, eng *compute.Engine, ids fusion.IDGenerator, opts Options) error {
	logf := opts.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	debounceSec := opts.DebounceSeconds
	if debounceSec <= 0 {
		debounceSec = 2
	}

	info, err := os.Stat(opts.DropDir)
	if err != nil {
		return fmt.Errorf("stat drop dir %s: %w", opts.DropDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("drop dir %s is not a directory", opts.DropDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(opts.DropDir); err != nil {
		return fmt.Errorf("watch %s: %w", opts.DropDir, err)
	}

	logf("Watching for new dumps in %s (debounce: %ds)", opts.DropDir, debounceSec)
	logf("Press Ctrl+C to stop")

	// Files present at startup are treated as already handled. Only files
	// that arrive while watching trigger imports.
	var mu sync.Mutex
	seen := make(map[string]bool)
	entries, err := os.ReadDir(opts.DropDir)
	if err != nil {
		return fmt.Errorf("read drop dir %s: %w", opts.DropDir, err)
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			seen[filepath.Join(opts.DropDir, entry.Name())] = true
		}
	}

	runImport := func() {
		mu.Lock()
		defer mu.Unlock()

		entries, err := os.ReadDir(opts.DropDir)
		if err != nil {
			logf("[%s] Read drop dir error: %v", time.Now().Format("15:04:05"), err)
			return
		}

		var fresh []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			full := filepath.Join(opts.DropDir, entry.Name())
			if seen[full] || !importableDump(full) {
				continue
			}
			fresh = append(fresh, full)
		}
		if len(fresh) == 0 {
			return
		}

		for _, file := range fresh {
			seen[file] = true
			result := ingest.ImportPath(ctx, st, ids, file)
			if !result.OK {
				logf("[%s] Import %s failed: %s", time.Now().Format("15:04:05"), filepath.Base(file), result.Message)
				continue
			}
			logf("[%s] Imported %s: %d records (run %s)",
				time.Now().Format("15:04:05"), filepath.Base(file), result.TotalRecords, result.RunID)

			if err := eng.EnqueueRun(result.RunID); err != nil {
				logf("[%s] Enqueue error: %v", time.Now().Format("15:04:05"), err)
				continue
			}
		}

		if _, err := eng.Run(ctx); err != nil {
			logf("[%s] Fusion error: %v", time.Now().Format("15:04:05"), err)
			return
		}
		logf("[%s] Fusion pass done", time.Now().Format("15:04:05"))
	}

	debounceDelay := time.Duration(debounceSec) * time.Second
	var debounceTimer *time.Timer
	triggerImport := func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
		debounceTimer = time.AfterFunc(debounceDelay, runImport)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Rename) {
				if importableDump(event.Name) {
					triggerImport()
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logf("[%s] Watch error: %v", time.Now().Format("15:04:05"), err)
		}
	}
}

func importableDump(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".csv":
		return true
	}
	return false
}
