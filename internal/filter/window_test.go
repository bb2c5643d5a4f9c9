package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssewanyana/groupcal/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestResolveWindow(t *testing.T) {
	// Thursday afternoon.
	now := time.Date(2024, 3, 14, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		name      string
		criteria  model.FilterCriteria
		wantStart time.Time
		wantEnd   time.Time
		wantOK    bool
	}{
		{
			name:      "today",
			criteria:  model.FilterCriteria{Period: model.PeriodToday},
			wantStart: day(2024, 3, 14),
			wantEnd:   day(2024, 3, 14),
			wantOK:    true,
		},
		{
			name:      "this week starts on Monday",
			criteria:  model.FilterCriteria{Period: model.PeriodThisWeek},
			wantStart: day(2024, 3, 11),
			wantEnd:   day(2024, 3, 17),
			wantOK:    true,
		},
		{
			name:      "this month",
			criteria:  model.FilterCriteria{Period: model.PeriodThisMonth},
			wantStart: day(2024, 3, 1),
			wantEnd:   day(2024, 3, 31),
			wantOK:    true,
		},
		{
			name:      "last month handles short February",
			criteria:  model.FilterCriteria{Period: model.PeriodLastMonth},
			wantStart: day(2024, 2, 1),
			wantEnd:   day(2024, 2, 29),
			wantOK:    true,
		},
		{
			name: "custom range truncates to days",
			criteria: model.FilterCriteria{
				Period:    model.PeriodCustom,
				StartDate: timePtr(time.Date(2024, 1, 5, 9, 0, 0, 0, time.UTC)),
				EndDate:   timePtr(time.Date(2024, 1, 20, 23, 0, 0, 0, time.UTC)),
			},
			wantStart: day(2024, 1, 5),
			wantEnd:   day(2024, 1, 20),
			wantOK:    true,
		},
		{
			name: "incomplete custom range fails open",
			criteria: model.FilterCriteria{
				Period:    model.PeriodCustom,
				StartDate: timePtr(day(2024, 1, 5)),
			},
			wantOK: false,
		},
		{
			name:     "empty period is unconstrained",
			criteria: model.FilterCriteria{},
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window, ok := ResolveWindow(tt.criteria, now, time.UTC)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.True(t, tt.wantStart.Equal(window.Start), "start: want %v got %v", tt.wantStart, window.Start)
				assert.True(t, tt.wantEnd.Equal(window.End), "end: want %v got %v", tt.wantEnd, window.End)
			}
		})
	}
}

func TestResolveWindowLastMonthAcrossYearBoundary(t *testing.T) {
	now := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	window, ok := ResolveWindow(model.FilterCriteria{Period: model.PeriodLastMonth}, now, time.UTC)
	require.True(t, ok)
	assert.True(t, day(2023, 12, 1).Equal(window.Start))
	assert.True(t, day(2023, 12, 31).Equal(window.End))
}

func TestResolveWindowMondayAnchor(t *testing.T) {
	// Sunday still belongs to the week that started the previous Monday.
	now := time.Date(2024, 3, 17, 8, 0, 0, 0, time.UTC)
	window, ok := ResolveWindow(model.FilterCriteria{Period: model.PeriodThisWeek}, now, time.UTC)
	require.True(t, ok)
	assert.True(t, day(2024, 3, 11).Equal(window.Start))
	assert.True(t, day(2024, 3, 17).Equal(window.End))
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: day(2024, 3, 11), End: day(2024, 3, 17)}

	assert.True(t, w.Contains(day(2024, 3, 11)))
	assert.True(t, w.Contains(day(2024, 3, 17)))
	assert.True(t, w.Contains(day(2024, 3, 14)))
	assert.False(t, w.Contains(day(2024, 3, 10)))
	assert.False(t, w.Contains(day(2024, 3, 18)))
}
