package server

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ssewanyana/groupcal/internal/calendar"
	"github.com/ssewanyana/groupcal/internal/model"
)

// parseCriteria decodes filter criteria from query parameters. Absent
// parameters keep their unconstrained defaults; malformed values are
// reported, not guessed at.
func parseCriteria(q url.Values) (model.FilterCriteria, error) {
	c := model.DefaultCriteria()

	if v := q.Get("period"); v != "" {
		switch model.TimePeriod(v) {
		case model.PeriodToday, model.PeriodThisWeek, model.PeriodThisMonth, model.PeriodLastMonth, model.PeriodCustom:
			c.Period = model.TimePeriod(v)
		default:
			return c, fmt.Errorf("unknown period %q", v)
		}
	}
	if v := q.Get("start"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, fmt.Errorf("invalid start date %q", v)
		}
		c.StartDate = &t
	}
	if v := q.Get("end"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return c, fmt.Errorf("invalid end date %q", v)
		}
		c.EndDate = &t
	}

	if v := q.Get("region"); v != "" {
		c.Region = v
	}
	if v := q.Get("district"); v != "" {
		c.District = v
	}
	if v := q.Get("parish"); v != "" {
		c.Parish = v
	}
	if v := q.Get("village"); v != "" {
		c.Village = v
	}
	if v := q.Get("gender"); v != "" {
		c.Gender = v
	}
	if v := q.Get("verification"); v != "" {
		c.Verification = v
	}

	c.Roles = model.Select(splitList(q.Get("roles"))...)
	c.GroupIDs = model.Select(splitList(q.Get("groups"))...)

	if fundValues := splitList(q.Get("fund_types")); len(fundValues) > 0 {
		funds := make([]model.FundType, len(fundValues))
		for i, v := range fundValues {
			funds[i] = model.FundType(strings.ToUpper(v))
		}
		c.FundTypes = model.SelectFrom(model.AllFundTypes, funds...)
	}
	if typeValues := splitList(q.Get("event_types")); len(typeValues) > 0 {
		types := make([]model.EventType, len(typeValues))
		for i, v := range typeValues {
			types[i] = model.EventType(strings.ToUpper(v))
		}
		c.EventTypes = model.SelectFrom(model.AllEventTypes, types...)
	}

	if v := q.Get("amount_min"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c, fmt.Errorf("invalid amount_min %q", v)
		}
		c.AmountMin = &n
	}
	if v := q.Get("amount_max"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return c, fmt.Errorf("invalid amount_max %q", v)
		}
		c.AmountMax = &n
	}

	return c, nil
}

// parseRangeSpec decodes the display range: view mode plus anchor date.
func parseRangeSpec(q url.Values, now time.Time) (calendar.RangeSpec, error) {
	spec := calendar.RangeSpec{Mode: calendar.ViewMonth, Anchor: now}

	if v := q.Get("view"); v != "" {
		switch calendar.ViewMode(v) {
		case calendar.ViewDay, calendar.ViewWeek, calendar.ViewMonth:
			spec.Mode = calendar.ViewMode(v)
		default:
			return spec, fmt.Errorf("unknown view %q", v)
		}
	}
	if v := q.Get("anchor"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return spec, fmt.Errorf("invalid anchor date %q", v)
		}
		spec.Anchor = t
	}
	return spec, nil
}

// parsePage decodes the 1-based page number; out-of-range values are the
// pager's concern, only non-numeric input is an error.
func parsePage(q url.Values) (int, error) {
	v := q.Get("page")
	if v == "" {
		return 1, nil
	}
	page, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid page %q", v)
	}
	return page, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
