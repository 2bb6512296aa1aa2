package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kastilyo/leadscout/internal/fusion"
	"github.com/kastilyo/leadscout/internal/record"
)

// Run statuses.
const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// Run is one ingestion run's summary row.
type Run struct {
	ID              string
	Status          string
	Source          string
	TotalRecords    int
	TotalLeads      int
	Hot             int
	Warm            int
	Cold            int
	ProgressStep    string
	ProgressPercent int
	ProgressMessage string
	ErrorMessage    string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

// Lead is one persisted ranked lead.
type Lead struct {
	ID              string
	RunID           string
	Name            string
	Score           int
	Rank            string
	Confidence      float64
	MergedCount     int
	MergeConfidence float64
	Entity          fusion.MergedEntity
	CreatedAt       time.Time
}

// Store persists runs, imported candidates, and ranked leads. The fusion
// result is complete in memory before any write happens here; a store failure
// never corrupts the computed result set.
type Store struct {
	db *sql.DB
}

// New creates a Store over an open database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// CreateRun inserts a new pending run.
func (s *Store) CreateRun(ctx context.Context, runID, source string) error {
	now := time.Now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, status, source, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`, runID, StatusPending, source, now, now)
	if err != nil {
		return fmt.Errorf("create run %s: %w", runID, err)
	}
	return nil
}

// AddCandidates appends imported candidate records to a run.
func (s *Store) AddCandidates(ctx context.Context, runID string, records []record.CandidateRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Format(time.RFC3339)
	for _, rec := range records {
		payload, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode candidate: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO candidates (run_id, channel, payload, created_at)
			VALUES (?, ?, ?, ?)
		`, runID, rec.Channel, string(payload), now); err != nil {
			return fmt.Errorf("insert candidate: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE runs SET total_records = total_records + ?, updated_at = ? WHERE id = ?
	`, len(records), now, runID); err != nil {
		return fmt.Errorf("update run totals: %w", err)
	}

	return tx.Commit()
}

// LoadCandidates returns a run's candidate records in insertion order.
func (s *Store) LoadCandidates(ctx context.Context, runID string) ([]record.CandidateRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM candidates WHERE run_id = ? ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	var records []record.CandidateRecord
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		var rec record.CandidateRecord
		if err := json.Unmarshal([]byte(payload), &rec); err != nil {
			// Malformed payloads are skipped, not fatal.
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// MarkRunning flips a run to running status.
func (s *Store) MarkRunning(ctx context.Context, runID string) error {
	now := time.Now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, updated_at = ? WHERE id = ?
	`, StatusRunning, now, runID)
	if err != nil {
		return fmt.Errorf("mark run running: %w", err)
	}
	return nil
}

// MarkFailed records a run failure.
func (s *Store) MarkFailed(ctx context.Context, runID, message string) error {
	now := time.Now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET status = ?, error_message = ?, updated_at = ? WHERE id = ?
	`, StatusFailed, message, now, runID)
	if err != nil {
		return fmt.Errorf("mark run failed: %w", err)
	}
	return nil
}

// UpdateProgress records a stage-progress checkpoint on the run row.
func (s *Store) UpdateProgress(ctx context.Context, runID, step string, percent int, message string) error {
	now := time.Now().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs SET progress_step = ?, progress_percent = ?, progress_message = ?, updated_at = ?
		WHERE id = ?
	`, step, percent, message, now, runID)
	if err != nil {
		return fmt.Errorf("update progress: %w", err)
	}
	return nil
}

// FinalizeRun atomically replaces a run's leads with the fusion result and
// updates the run summary counts. Re-finalizing the same run is safe.
func (s *Store) FinalizeRun(ctx context.Context, runID string, result fusion.PipelineResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leads WHERE run_id = ?`, runID); err != nil {
		return fmt.Errorf("clear previous leads: %w", err)
	}

	now := time.Now().Format(time.RFC3339)
	for _, entity := range result.Entities {
		metadata, err := json.Marshal(entity)
		if err != nil {
			return fmt.Errorf("encode entity %s: %w", entity.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO leads (id, run_id, name, score, rank, confidence, merged_count, merge_confidence, metadata, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, entity.ID, runID, entity.Name, entity.Score.Score, string(entity.Score.Rank),
			entity.Score.Confidence, entity.MergedCount, entity.Confidence, string(metadata), now); err != nil {
			return fmt.Errorf("insert lead %s: %w", entity.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE runs SET
			status = ?,
			total_records = ?,
			total_leads = ?,
			hot_count = ?,
			warm_count = ?,
			cold_count = ?,
			progress_step = 'done',
			progress_percent = 100,
			progress_message = 'run completed',
			updated_at = ?,
			completed_at = ?
		WHERE id = ?
	`, StatusCompleted, result.TotalRecords, result.TotalMerged,
		result.Hot, result.Warm, result.Cold, now, now, runID); err != nil {
		return fmt.Errorf("update run summary: %w", err)
	}

	return tx.Commit()
}

// GetRun loads one run row.
func (s *Store) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, status, COALESCE(source, ''), total_records, total_leads,
		       hot_count, warm_count, cold_count,
		       COALESCE(progress_step, ''), progress_percent, COALESCE(progress_message, ''),
		       COALESCE(error_message, ''), created_at, completed_at
		FROM runs WHERE id = ?
	`, runID)
	return scanRun(row)
}

// ListRuns returns all runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, status, COALESCE(source, ''), total_records, total_leads,
		       hot_count, warm_count, cold_count,
		       COALESCE(progress_step, ''), progress_percent, COALESCE(progress_message, ''),
		       COALESCE(error_message, ''), created_at, completed_at
		FROM runs ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// PendingRuns returns run IDs that have not completed, oldest first.
func (s *Store) PendingRuns(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM runs WHERE status IN (?, ?) ORDER BY created_at
	`, StatusPending, StatusFailed)
	if err != nil {
		return nil, fmt.Errorf("query pending runs: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// RankedLeads returns a run's leads sorted descending by score.
func (s *Store) RankedLeads(ctx context.Context, runID string) ([]Lead, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, run_id, name, score, rank, confidence, merged_count, merge_confidence, metadata, created_at
		FROM leads WHERE run_id = ? ORDER BY score DESC, name
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query leads: %w", err)
	}
	defer rows.Close()

	var leads []Lead
	for rows.Next() {
		var lead Lead
		var metadata, createdAt string
		if err := rows.Scan(&lead.ID, &lead.RunID, &lead.Name, &lead.Score, &lead.Rank,
			&lead.Confidence, &lead.MergedCount, &lead.MergeConfidence, &metadata, &createdAt); err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		if err := json.Unmarshal([]byte(metadata), &lead.Entity); err != nil {
			return nil, fmt.Errorf("decode lead %s metadata: %w", lead.ID, err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			lead.CreatedAt = t
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// Stats holds aggregate counts across all runs.
type Stats struct {
	TotalRuns  int
	TotalLeads int
	Hot        int
	Warm       int
	Cold       int
}

// GetStats returns aggregate statistics across completed runs.
func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	stats := &Stats{}

	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM runs`).Scan(&stats.TotalRuns)
	if err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN rank = 'hot' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN rank = 'warm' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN rank = 'cold' THEN 1 ELSE 0 END), 0)
		FROM leads
	`).Scan(&stats.TotalLeads, &stats.Hot, &stats.Warm, &stats.Cold)
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}

	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var createdAt string
	var completedAt sql.NullString
	err := row.Scan(&run.ID, &run.Status, &run.Source, &run.TotalRecords, &run.TotalLeads,
		&run.Hot, &run.Warm, &run.Cold,
		&run.ProgressStep, &run.ProgressPercent, &run.ProgressMessage,
		&run.ErrorMessage, &createdAt, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scan run: %w", err)
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		run.CreatedAt = t
	}
	if completedAt.Valid {
		if t, err := time.Parse(time.RFC3339, completedAt.String); err == nil {
			run.CompletedAt = &t
		}
	}
	return &run, nil
}
