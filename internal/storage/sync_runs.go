package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ssewanyana/groupcal/internal/common"
)

// SyncRun records one fetch of the remote feed into the cache.
type SyncRun struct {
	StartedAt  time.Time
	FinishedAt time.Time
	RangeStart time.Time
	RangeEnd   time.Time
	ID         string
	Fetched    int
	Dropped    int
}

// SaveSyncRun upserts a sync run record.
func (s *SQLiteStorage) SaveSyncRun(ctx context.Context, run *SyncRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run must not be nil")
	}
	if err := validateString(run.ID, "run.ID"); err != nil {
		return err
	}

	var finished sql.NullTime
	if !run.FinishedAt.IsZero() {
		finished = sql.NullTime{Time: run.FinishedAt, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO sync_runs
		(id, started_at, finished_at, range_start, range_end, fetched, dropped)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			finished_at = excluded.finished_at,
			fetched = excluded.fetched,
			dropped = excluded.dropped`,
		run.ID, run.StartedAt, finished, run.RangeStart, run.RangeEnd, run.Fetched, run.Dropped)
	if err != nil {
		return fmt.Errorf("failed to save sync run: %w", err)
	}
	return nil
}

// LatestSyncRun returns the most recently started sync run.
func (s *SQLiteStorage) LatestSyncRun(ctx context.Context) (*SyncRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		run      SyncRun
		finished sql.NullTime
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, started_at, finished_at, range_start, range_end, fetched, dropped
		FROM sync_runs ORDER BY started_at DESC LIMIT 1`).
		Scan(&run.ID, &run.StartedAt, &finished, &run.RangeStart, &run.RangeEnd, &run.Fetched, &run.Dropped)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("sync runs: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load sync run: %w", err)
	}
	if finished.Valid {
		run.FinishedAt = finished.Time
	}
	return &run, nil
}
