package server

import (
	"errors"
	"net/http"

	"github.com/ssewanyana/groupcal/internal/common"
	"github.com/ssewanyana/groupcal/internal/filter"
	"github.com/ssewanyana/groupcal/internal/model"
	"github.com/ssewanyana/groupcal/internal/service"
)

// handleCalendar runs the full pipeline for one request: criteria and range
// decoded from the query string, cached events as the candidate feed.
func (s *Server) handleCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	now := s.now()

	criteria, err := parseCriteria(q)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	spec, err := parseRangeSpec(q, now)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	page, err := parsePage(q)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Pre-narrow the cache read with the resolved window when there is one,
	// padded a day each side for timezone skew. The predicate engine
	// re-checks every dimension regardless; the store is only an
	// optimization, never the authority.
	query := service.EventQuery{}
	if window, ok := filter.ResolveWindow(criteria, now, nil); ok {
		start := window.Start.AddDate(0, 0, -1)
		end := window.End.AddDate(0, 0, 2)
		query.StartDate = &start
		query.EndDate = &end
	}

	events, err := s.storage.GetEvents(r.Context(), query)
	if err != nil {
		s.logger.Error("Failed to load cached events", "request_id", RequestID(r.Context()), "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load events")
		return
	}

	vm, err := s.builder.BuildFromEvents(events, criteria, spec, page, now)
	if err != nil {
		var criteriaErr *filter.InvalidCriteriaError
		if errors.As(err, &criteriaErr) {
			s.writeError(w, http.StatusBadRequest, criteriaErr.Error())
			return
		}
		s.logger.Error("Failed to build calendar", "request_id", RequestID(r.Context()), "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to build calendar")
		return
	}

	// A feed that matched nothing is a normal outcome, not an error.
	s.writeJSON(w, http.StatusOK, toCalendarDTO(vm))
}

// handleFilterOptions re-serves the cached catalog. A missing catalog is an
// empty one: filtering never depends on the catalog being present.
func (s *Server) handleFilterOptions(w http.ResponseWriter, r *http.Request) {
	options, err := s.storage.GetFilterOptions(r.Context())
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.writeJSON(w, http.StatusOK, toOptionsDTO(&model.FilterOptions{}))
			return
		}
		s.logger.Error("Failed to load filter options", "request_id", RequestID(r.Context()), "error", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load filter options")
		return
	}
	s.writeJSON(w, http.StatusOK, toOptionsDTO(options))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthNow(s.now()))
}
