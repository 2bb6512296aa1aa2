package compute

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	"github.com/Napageneral/taskengine/engine"
	"github.com/Napageneral/taskengine/queue"

	"github.com/kastilyo/leadscout/internal/fusion"
	"github.com/kastilyo/leadscout/internal/store"
)

const JobTypeFusion = "fusion"

// Engine wraps the taskengine with the fusion job handler. Each job runs the
// full cluster/merge/score pass for one run and finalizes its leads.
type Engine struct {
	db     *sql.DB
	store  *store.Store
	queue  *queue.Queue
	engine *engine.Engine
	ids    fusion.IDGenerator

	pipelineCfg fusion.PipelineConfig
}

// Config for the compute engine
type Config struct {
	WorkerCount int
	Pipeline    fusion.PipelineConfig
}

// DefaultConfig returns sensible defaults. Fusion jobs are CPU-bound and
// whole-run sized, so a small worker count is plenty.
func DefaultConfig() Config {
	return Config{
		WorkerCount: 4,
	}
}

// NewEngine creates a compute engine bound to the given database.
func NewEngine(db *sql.DB, ids fusion.IDGenerator, cfg Config) (*Engine, error) {
	// Initialize the job queue schema
	if err := queue.Init(db); err != nil {
		return nil, fmt.Errorf("init queue schema: %w", err)
	}

	q := queue.New(db)

	engineCfg := engine.DefaultConfig()
	if cfg.WorkerCount > 0 {
		engineCfg.WorkerCount = cfg.WorkerCount
	}
	engineCfg.LeaseOwner = "leadscout-fusion"

	e := &Engine{
		db:          db,
		store:       store.New(db),
		queue:       q,
		engine:      engine.New(q, engineCfg),
		ids:         ids,
		pipelineCfg: cfg.Pipeline,
	}

	e.engine.RegisterHandler(JobTypeFusion, e.handleFusionJob)

	return e, nil
}

// FusionJobPayload for fusion jobs
type FusionJobPayload struct {
	RunID string `json:"run_id"`
}

// EnqueueRun queues a fusion job for one run. The job key makes re-enqueues
// of the same run idempotent at the queue level.
func (e *Engine) EnqueueRun(runID string) error {
	payload := FusionJobPayload{RunID: runID}
	if err := e.queue.Enqueue(queue.EnqueueOptions{
		Type:    JobTypeFusion,
		Key:     fmt.Sprintf("fusion:%s", runID),
		Payload: payload,
	}); err != nil {
		return fmt.Errorf("enqueue fusion for %s: %w", runID, err)
	}
	return nil
}

// EnqueuePending queues fusion jobs for every run still awaiting fusion,
// including failed runs so they get retried.
func (e *Engine) EnqueuePending(ctx context.Context) (int, error) {
	runIDs, err := e.store.PendingRuns(ctx)
	if err != nil {
		return 0, fmt.Errorf("query pending runs: %w", err)
	}

	count := 0
	for _, runID := range runIDs {
		if err := e.EnqueueRun(runID); err != nil {
			log.Printf("failed to enqueue fusion for %s: %v", runID, err)
			continue
		}
		count++
	}
	return count, nil
}

// Run starts the compute engine and processes jobs until done or context cancelled
func (e *Engine) Run(ctx context.Context) (*engine.Stats, error) {
	return e.engine.Run(ctx)
}

// QueueStats returns current queue statistics
func (e *Engine) QueueStats() (*queue.Stats, error) {
	return e.queue.GetStats()
}

// handleFusionJob processes one fusion job: load the run's candidates, run
// the pipeline, and finalize the leads. Completed runs are skipped so
// replayed jobs are harmless.
func (e *Engine) handleFusionJob(ctx context.Context, job *queue.Job) error {
	var payload FusionJobPayload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("parse payload: %w", err)
	}

	run, err := e.store.GetRun(ctx, payload.RunID)
	if err != nil {
		return fmt.Errorf("get run %s: %w", payload.RunID, err)
	}
	if run == nil {
		return fmt.Errorf("run %s not found", payload.RunID)
	}
	if run.Status == store.StatusCompleted {
		return nil
	}

	if err := e.store.MarkRunning(ctx, run.ID); err != nil {
		return fmt.Errorf("mark running: %w", err)
	}

	records, err := e.store.LoadCandidates(ctx, run.ID)
	if err != nil {
		e.markFailed(ctx, run.ID, err)
		return fmt.Errorf("load candidates: %w", err)
	}

	reporter := store.NewRunReporter(e.store, run.ID)
	pipeline := fusion.NewPipeline(e.pipelineCfg, e.ids, reporter)
	result := pipeline.Run(records)

	if err := e.store.FinalizeRun(ctx, run.ID, result); err != nil {
		e.markFailed(ctx, run.ID, err)
		return fmt.Errorf("finalize run: %w", err)
	}

	log.Printf("[fusion] run %s: %d records -> %d leads (%d hot, %d warm, %d cold) in %v",
		run.ID, result.TotalRecords, len(result.Entities), result.Hot, result.Warm, result.Cold, result.Duration)
	return nil
}

func (e *Engine) markFailed(ctx context.Context, runID string, cause error) {
	if err := e.store.MarkFailed(ctx, runID, cause.Error()); err != nil {
		log.Printf("failed to mark run %s failed: %v", runID, err)
	}
}
