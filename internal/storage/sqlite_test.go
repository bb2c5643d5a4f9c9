package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssewanyana/groupcal/internal/common"
	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/service"
)

func setupTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func int64Ptr(v int64) *int64 { return &v }

func testEvent(id string, date time.Time) model.CalendarEvent {
	return model.CalendarEvent{
		ID:           id,
		Type:         model.EventTransaction,
		Title:        "Weekly saving",
		Date:         date,
		GroupID:      "grp-1",
		GroupName:    "Kira Savers",
		Region:       "Central",
		District:     "Wakiso",
		FundType:     model.FundPersonal,
		Verification: model.VerificationVerified,
		MemberGender: model.GenderFemale,
		MemberRole:   "treasurer",
		Amount:       int64Ptr(75000),
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := setupTestStorage(t)
	// Running migrations again must be a no-op.
	require.NoError(t, store.Migrate(context.Background()))
}

func TestSaveAndGetEvents(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	events := []model.CalendarEvent{
		testEvent("txn-1", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)),
		testEvent("txn-2", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
	}
	require.NoError(t, store.SaveEvents(ctx, events))

	got, err := store.GetEvents(ctx, service.EventQuery{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	// Newest first.
	assert.Equal(t, "txn-1", got[0].ID)
	assert.Equal(t, "txn-2", got[1].ID)

	first := got[0]
	assert.Equal(t, model.EventTransaction, first.Type)
	assert.Equal(t, "Weekly saving", first.Title)
	assert.Equal(t, model.FundPersonal, first.FundType)
	assert.Equal(t, model.VerificationVerified, first.Verification)
	assert.Equal(t, model.GenderFemale, first.MemberGender)
	require.True(t, first.HasAmount())
	assert.Equal(t, int64(75000), first.AmountValue())
}

func TestSaveEventsUpsert(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	event := testEvent("txn-1", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.SaveEvents(ctx, []model.CalendarEvent{event}))

	event.Title = "Corrected saving"
	event.Amount = int64Ptr(80000)
	require.NoError(t, store.SaveEvents(ctx, []model.CalendarEvent{event}))

	count, err := store.CountEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	got, err := store.GetEventByID(ctx, "txn-1")
	require.NoError(t, err)
	assert.Equal(t, "Corrected saving", got.Title)
	assert.Equal(t, int64(80000), got.AmountValue())
}

func TestSaveEventsPreservesAbsence(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	minimal := model.CalendarEvent{
		ID:   "mtg-1",
		Type: model.EventMeeting,
		Date: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.SaveEvents(ctx, []model.CalendarEvent{minimal}))

	got, err := store.GetEventByID(ctx, "mtg-1")
	require.NoError(t, err)
	// A round trip must not invent values the event never had.
	assert.False(t, got.HasAmount())
	assert.Empty(t, string(got.FundType))
	assert.Empty(t, string(got.Verification))
	assert.Empty(t, string(got.MemberGender))
	assert.True(t, got.OccurredAt.IsZero())
}

func TestSaveEventsValidation(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		event model.CalendarEvent
	}{
		{
			name:  "missing id",
			event: model.CalendarEvent{Type: model.EventTransaction, Date: time.Now()},
		},
		{
			name:  "missing type",
			event: model.CalendarEvent{ID: "x", Date: time.Now()},
		},
		{
			name:  "zero date",
			event: model.CalendarEvent{ID: "x", Type: model.EventTransaction},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, store.SaveEvents(ctx, []model.CalendarEvent{tt.event}))
		})
	}
}

func TestGetEventsQueryBounds(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEvents(ctx, []model.CalendarEvent{
		testEvent("txn-1", time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC)),
		testEvent("txn-2", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)),
		testEvent("txn-3", time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC)),
	}))

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	got, err := store.GetEvents(ctx, service.EventQuery{StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "txn-2", got[0].ID)
}

func TestGetEventsByGroup(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	other := testEvent("txn-2", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC))
	other.GroupID = "grp-2"
	require.NoError(t, store.SaveEvents(ctx, []model.CalendarEvent{
		testEvent("txn-1", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)),
		other,
	}))

	got, err := store.GetEvents(ctx, service.EventQuery{GroupIDs: []string{"grp-2"}})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "txn-2", got[0].ID)
}

func TestGetEventByIDNotFound(t *testing.T) {
	store := setupTestStorage(t)

	_, err := store.GetEventByID(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestPruneEventsBefore(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveEvents(ctx, []model.CalendarEvent{
		testEvent("old", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)),
		testEvent("recent", time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC)),
	}))

	pruned, err := store.PruneEventsBefore(ctx, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	count, err := store.CountEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFilterOptionsRoundTrip(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	_, err := store.GetFilterOptions(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	options := &model.FilterOptions{
		Regions:   []string{"Central", "Eastern"},
		Roles:     []string{"treasurer"},
		FundTypes: []model.FundType{model.FundPersonal, model.FundECD},
		Groups:    []model.GroupRef{{ID: "grp-1", Name: "Kira Savers"}},
	}
	require.NoError(t, store.SaveFilterOptions(ctx, options))

	got, err := store.GetFilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, options, got)

	// A second save replaces the catalog wholesale.
	options.Regions = []string{"Northern"}
	require.NoError(t, store.SaveFilterOptions(ctx, options))
	got, err = store.GetFilterOptions(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Northern"}, got.Regions)
}

func TestSyncRuns(t *testing.T) {
	store := setupTestStorage(t)
	ctx := context.Background()

	_, err := store.LatestSyncRun(ctx)
	assert.ErrorIs(t, err, common.ErrNotFound)

	run := &SyncRun{
		ID:         "run-1",
		StartedAt:  time.Date(2024, 3, 14, 8, 0, 0, 0, time.UTC),
		RangeStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		RangeEnd:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Fetched:    120,
		Dropped:    2,
	}
	require.NoError(t, store.SaveSyncRun(ctx, run))

	run.FinishedAt = run.StartedAt.Add(30 * time.Second)
	require.NoError(t, store.SaveSyncRun(ctx, run))

	later := &SyncRun{
		ID:         "run-2",
		StartedAt:  time.Date(2024, 3, 15, 8, 0, 0, 0, time.UTC),
		RangeStart: run.RangeStart,
		RangeEnd:   run.RangeEnd,
		Fetched:    5,
	}
	require.NoError(t, store.SaveSyncRun(ctx, later))

	latest, err := store.LatestSyncRun(ctx)
	require.NoError(t, err)
	assert.Equal(t, "run-2", latest.ID)
	assert.Equal(t, 5, latest.Fetched)
}

func TestSaveEventsEmptySlice(t *testing.T) {
	store := setupTestStorage(t)
	assert.NoError(t, store.SaveEvents(context.Background(), nil))
}
