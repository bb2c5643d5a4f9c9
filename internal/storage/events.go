package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/ssewanyana/groupcal/internal/common"
	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/service"
)

// SaveEvents upserts canonical events into the cache. Re-syncing the same
// window replaces records in place keyed on the feed's opaque id.
func (s *SQLiteStorage) SaveEvents(ctx context.Context, events []model.CalendarEvent) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateEvents(events); err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO events (
			id, event_type, title, description, event_date, occurred_at,
			group_id, group_name, region, district, parish, village,
			amount, fund_type, verification, member_gender, member_role, synced_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			event_type = excluded.event_type,
			title = excluded.title,
			description = excluded.description,
			event_date = excluded.event_date,
			occurred_at = excluded.occurred_at,
			group_id = excluded.group_id,
			group_name = excluded.group_name,
			region = excluded.region,
			district = excluded.district,
			parish = excluded.parish,
			village = excluded.village,
			amount = excluded.amount,
			fund_type = excluded.fund_type,
			verification = excluded.verification,
			member_gender = excluded.member_gender,
			member_role = excluded.member_role,
			synced_at = CURRENT_TIMESTAMP`)
		if err != nil {
			return fmt.Errorf("failed to prepare event upsert: %w", err)
		}
		defer func() {
			_ = stmt.Close()
		}()

		for _, e := range events {
			var amount sql.NullInt64
			if e.Amount != nil {
				amount = sql.NullInt64{Int64: *e.Amount, Valid: true}
			}
			var occurred sql.NullTime
			if !e.OccurredAt.IsZero() {
				occurred = sql.NullTime{Time: e.OccurredAt, Valid: true}
			}
			if _, err := stmt.ExecContext(ctx,
				e.ID, string(e.Type), e.Title, e.Description, e.Date, occurred,
				e.GroupID, e.GroupName, e.Region, e.District, e.Parish, e.Village,
				amount, string(e.FundType), string(e.Verification),
				string(e.MemberGender), e.MemberRole,
			); err != nil {
				return fmt.Errorf("failed to save event %s: %w", e.ID, err)
			}
		}
		return nil
	})
}

const eventColumns = `id, event_type, title, description, event_date, occurred_at,
	group_id, group_name, region, district, parish, village,
	amount, fund_type, verification, member_gender, member_role`

// GetEvents returns cached events matching the coarse query, newest first
// with id as tiebreaker for deterministic paging.
func (s *SQLiteStorage) GetEvents(ctx context.Context, query service.EventQuery) ([]model.CalendarEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var where []string
	var args []any
	if query.StartDate != nil {
		where = append(where, "event_date >= ?")
		args = append(args, *query.StartDate)
	}
	if query.EndDate != nil {
		where = append(where, "event_date <= ?")
		args = append(args, *query.EndDate)
	}
	if len(query.GroupIDs) > 0 {
		placeholders := strings.TrimRight(strings.Repeat("?,", len(query.GroupIDs)), ",")
		where = append(where, fmt.Sprintf("group_id IN (%s)", placeholders))
		for _, id := range query.GroupIDs {
			args = append(args, id)
		}
	}

	q := "SELECT " + eventColumns + " FROM events"
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY event_date DESC, id ASC"
	if query.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, query.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var events []model.CalendarEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// GetEventByID looks up a single cached event.
func (s *SQLiteStorage) GetEventByID(ctx context.Context, id string) (*model.CalendarEvent, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", id)
	event, err := scanEvent(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("event %s: %w", id, common.ErrNotFound)
		}
		return nil, err
	}
	return &event, nil
}

// CountEvents returns the total number of cached events.
func (s *SQLiteStorage) CountEvents(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return count, nil
}

// PruneEventsBefore deletes cached events older than the cutoff and returns
// how many were removed.
func (s *SQLiteStorage) PruneEventsBefore(ctx context.Context, cutoff time.Time) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM events WHERE event_date < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned events: %w", err)
	}
	return int(n), nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (model.CalendarEvent, error) {
	var (
		e            model.CalendarEvent
		eventType    string
		fundType     string
		verification string
		gender       string
		amount       sql.NullInt64
		occurred     sql.NullTime
	)
	err := row.Scan(
		&e.ID, &eventType, &e.Title, &e.Description, &e.Date, &occurred,
		&e.GroupID, &e.GroupName, &e.Region, &e.District, &e.Parish, &e.Village,
		&amount, &fundType, &verification, &gender, &e.MemberRole,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return model.CalendarEvent{}, err
		}
		return model.CalendarEvent{}, fmt.Errorf("failed to scan event: %w", err)
	}
	e.Type = model.EventType(eventType)
	e.FundType = model.FundType(fundType)
	e.Verification = model.VerificationStatus(verification)
	e.MemberGender = model.Gender(gender)
	if amount.Valid {
		v := amount.Int64
		e.Amount = &v
	}
	if occurred.Valid {
		e.OccurredAt = occurred.Time
	}
	return e, nil
}
