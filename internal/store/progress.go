package store

import (
	"context"
	"log"
)

// RunReporter adapts run-row progress updates to the fusion pipeline's
// ProgressReporter interface. Updates are best-effort: a write failure is
// logged and dropped, never surfaced into the fusion pass.
type RunReporter struct {
	store *Store
	runID string
}

// NewRunReporter creates a reporter bound to one run.
func NewRunReporter(store *Store, runID string) *RunReporter {
	return &RunReporter{store: store, runID: runID}
}

// Progress implements fusion.ProgressReporter.
func (r *RunReporter) Progress(step string, percent int, message string) {
	if err := r.store.UpdateProgress(context.Background(), r.runID, step, percent, message); err != nil {
		log.Printf("progress update failed (run %s, step %s): %v", r.runID, step, err)
	}
}
