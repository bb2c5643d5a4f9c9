package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssewanyana/groupcal/internal/calendar"
	"github.com/ssewanyana/groupcal/internal/common"
	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/service"
)

// stubStorage is an in-memory service.Storage for handler tests.
type stubStorage struct {
	events     []model.CalendarEvent
	options    *model.FilterOptions
	getErr     error
	optionsErr error
}

func (s *stubStorage) SaveEvents(_ context.Context, events []model.CalendarEvent) error {
	s.events = append(s.events, events...)
	return nil
}

func (s *stubStorage) GetEvents(_ context.Context, query service.EventQuery) ([]model.CalendarEvent, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	var out []model.CalendarEvent
	for _, e := range s.events {
		if query.StartDate != nil && e.Date.Before(*query.StartDate) {
			continue
		}
		if query.EndDate != nil && e.Date.After(*query.EndDate) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *stubStorage) GetEventByID(_ context.Context, id string) (*model.CalendarEvent, error) {
	for _, e := range s.events {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *stubStorage) CountEvents(_ context.Context) (int, error) {
	return len(s.events), nil
}

func (s *stubStorage) PruneEventsBefore(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

func (s *stubStorage) SaveFilterOptions(_ context.Context, options *model.FilterOptions) error {
	s.options = options
	return nil
}

func (s *stubStorage) GetFilterOptions(_ context.Context) (*model.FilterOptions, error) {
	if s.optionsErr != nil {
		return nil, s.optionsErr
	}
	if s.options == nil {
		return nil, common.ErrNotFound
	}
	return s.options, nil
}

func (s *stubStorage) Migrate(_ context.Context) error { return nil }

func (s *stubStorage) Close() error { return nil }

var testNow = time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

func newTestServer(store *stubStorage) *Server {
	builder := calendar.NewBuilder(calendar.DefaultConfig())
	return New(DefaultConfig(), store, builder, func() time.Time { return testNow })
}

func seedEvents() []model.CalendarEvent {
	return []model.CalendarEvent{
		{
			ID:       "txn-1",
			Type:     model.EventTransaction,
			Title:    "Weekly saving",
			Date:     time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			FundType: model.FundPersonal,
			Amount:   int64Ptr(75000),
			GroupID:  "grp-1",
			Region:   "Central",
		},
		{
			ID:   "mtg-1",
			Type: model.EventMeeting,
			Date: time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:     "txn-old",
			Type:   model.EventTransaction,
			Date:   time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Amount: int64Ptr(10000),
		},
	}
}

func doRequest(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleCalendar(t *testing.T) {
	store := &stubStorage{events: seedEvents()}
	srv := newTestServer(store)

	rec := doRequest(t, srv, "/api/calendar")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	var body struct {
		Days    []string `json:"days"`
		Summary struct {
			TotalEvents        int            `json:"totalEvents"`
			TotalAmount        int64          `json:"totalAmount"`
			EventTypeBreakdown map[string]int `json:"eventTypeBreakdown"`
		} `json:"summary"`
		Page struct {
			TotalCount int `json:"totalCount"`
		} `json:"page"`
		ActiveFilters int `json:"activeFilters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	// Default criteria is this-month: the January event is excluded.
	assert.Equal(t, 2, body.Summary.TotalEvents)
	assert.Equal(t, int64(75000), body.Summary.TotalAmount)
	assert.Equal(t, map[string]int{"TRANSACTION": 1, "MEETING": 1}, body.Summary.EventTypeBreakdown)
	assert.Equal(t, 2, body.Page.TotalCount)
	assert.Zero(t, body.ActiveFilters)
	assert.Len(t, body.Days, 31)
}

func TestHandleCalendarWithFilters(t *testing.T) {
	store := &stubStorage{events: seedEvents()}
	srv := newTestServer(store)

	rec := doRequest(t, srv, "/api/calendar?event_types=transaction&fund_types=personal&view=week")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Days    []string `json:"days"`
		Buckets []struct {
			Date   string `json:"date"`
			Events []struct {
				ID       string `json:"id"`
				FundType string `json:"fundType"`
			} `json:"events"`
		} `json:"buckets"`
		Summary struct {
			TotalEvents int `json:"totalEvents"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, 1, body.Summary.TotalEvents)
	require.Len(t, body.Buckets, 1)
	require.Len(t, body.Buckets[0].Events, 1)
	assert.Equal(t, "txn-1", body.Buckets[0].Events[0].ID)
	assert.Equal(t, "PERSONAL", body.Buckets[0].Events[0].FundType)
	assert.Len(t, body.Days, 7)
}

func TestHandleCalendarEmptyResult(t *testing.T) {
	store := &stubStorage{}
	srv := newTestServer(store)

	rec := doRequest(t, srv, "/api/calendar")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Buckets []any `json:"buckets"`
		Page    struct {
			TotalPages int `json:"totalPages"`
		} `json:"page"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Empty(t, body.Buckets)
	assert.Zero(t, body.Page.TotalPages)
}

func TestHandleCalendarBadRequest(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{name: "unknown period", path: "/api/calendar?period=fortnight"},
		{name: "bad start date", path: "/api/calendar?start=March+1"},
		{name: "unknown view", path: "/api/calendar?view=quarter"},
		{name: "non-numeric page", path: "/api/calendar?page=two"},
		{name: "non-numeric amount", path: "/api/calendar?amount_min=lots"},
		{name: "min above max", path: "/api/calendar?amount_min=1000&amount_max=10"},
		{
			name: "custom start after end",
			path: "/api/calendar?period=custom&start=2024-03-20&end=2024-03-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStorage{events: seedEvents()}
			rec := doRequest(t, newTestServer(store), tt.path)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestHandleCalendarIncompleteCustomRange(t *testing.T) {
	store := &stubStorage{events: seedEvents()}
	srv := newTestServer(store)

	// Only a start date: the custom window fails open and all cached
	// events match.
	rec := doRequest(t, srv, "/api/calendar?period=custom&start=2024-03-01")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Summary struct {
			TotalEvents int `json:"totalEvents"`
		} `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Summary.TotalEvents)
}

func TestHandleCalendarStorageFailure(t *testing.T) {
	store := &stubStorage{getErr: fmt.Errorf("disk gone")}
	srv := newTestServer(store)

	rec := doRequest(t, srv, "/api/calendar")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleFilterOptions(t *testing.T) {
	store := &stubStorage{options: &model.FilterOptions{
		Regions:   []string{"Central"},
		FundTypes: []model.FundType{model.FundPersonal},
		Groups:    []model.GroupRef{{ID: "grp-1", Name: "Kira Savers"}},
	}}
	srv := newTestServer(store)

	rec := doRequest(t, srv, "/api/filter-options")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Regions   []string `json:"regions"`
		FundTypes []string `json:"fundTypes"`
		Groups    []struct {
			ID string `json:"id"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"Central"}, body.Regions)
	assert.Equal(t, []string{"PERSONAL"}, body.FundTypes)
	require.Len(t, body.Groups, 1)
	assert.Equal(t, "grp-1", body.Groups[0].ID)
}

func TestHandleFilterOptionsMissingCatalog(t *testing.T) {
	srv := newTestServer(&stubStorage{})

	rec := doRequest(t, srv, "/api/filter-options")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Regions []string `json:"regions"`
		Groups  []any    `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Regions)
	assert.Empty(t, body.Regions)
	assert.Empty(t, body.Groups)
}

func TestHandleFilterOptionsStorageFailure(t *testing.T) {
	srv := newTestServer(&stubStorage{optionsErr: errors.New("disk gone")})

	rec := doRequest(t, srv, "/api/filter-options")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(&stubStorage{})

	rec := doRequest(t, srv, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, testNow.UTC().Format(time.RFC3339), body.Time)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(&stubStorage{})

	req := httptest.NewRequest(http.MethodPost, "/api/calendar", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
