package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ssewanyana/groupcal/internal/common"
	"github.com/ssewanyana/groupcal/internal/model"
)

// SaveFilterOptions replaces the cached filter value catalog. The catalog is
// one denormalized document fetched wholesale, so it is stored the same way.
func (s *SQLiteStorage) SaveFilterOptions(ctx context.Context, options *model.FilterOptions) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if options == nil {
		return fmt.Errorf("options must not be nil")
	}

	payload, err := json.Marshal(options)
	if err != nil {
		return fmt.Errorf("failed to encode filter options: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO filter_options (id, payload, fetched_at)
		VALUES (1, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, fetched_at = CURRENT_TIMESTAMP`,
		string(payload))
	if err != nil {
		return fmt.Errorf("failed to save filter options: %w", err)
	}
	return nil
}

// GetFilterOptions returns the cached catalog, or ErrNotFound when no sync
// has stored one yet.
func (s *SQLiteStorage) GetFilterOptions(ctx context.Context) (*model.FilterOptions, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM filter_options WHERE id = 1`).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("filter options: %w", common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to load filter options: %w", err)
	}

	var options model.FilterOptions
	if err := json.Unmarshal([]byte(payload), &options); err != nil {
		return nil, fmt.Errorf("failed to decode filter options: %w", err)
	}
	return &options, nil
}
