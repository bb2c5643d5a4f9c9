package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandRange(t *testing.T) {
	tests := []struct {
		name      string
		spec      RangeSpec
		wantLen   int
		wantFirst time.Time
		wantLast  time.Time
	}{
		{
			name:      "day view is a single slot",
			spec:      RangeSpec{Anchor: day(2024, 3, 14), Mode: ViewDay},
			wantLen:   1,
			wantFirst: day(2024, 3, 14),
			wantLast:  day(2024, 3, 14),
		},
		{
			name:      "week view spans Monday to Sunday",
			spec:      RangeSpec{Anchor: day(2024, 3, 14), Mode: ViewWeek},
			wantLen:   7,
			wantFirst: day(2024, 3, 11),
			wantLast:  day(2024, 3, 17),
		},
		{
			name:      "week anchored on Sunday keeps the same Monday",
			spec:      RangeSpec{Anchor: day(2024, 3, 17), Mode: ViewWeek},
			wantLen:   7,
			wantFirst: day(2024, 3, 11),
			wantLast:  day(2024, 3, 17),
		},
		{
			name:      "month view covers every day",
			spec:      RangeSpec{Anchor: day(2024, 2, 10), Mode: ViewMonth},
			wantLen:   29,
			wantFirst: day(2024, 2, 1),
			wantLast:  day(2024, 2, 29),
		},
		{
			name:      "unknown mode falls back to a single day",
			spec:      RangeSpec{Anchor: day(2024, 3, 14), Mode: "quarter"},
			wantLen:   1,
			wantFirst: day(2024, 3, 14),
			wantLast:  day(2024, 3, 14),
		},
		{
			name:      "anchor time of day is discarded",
			spec:      RangeSpec{Anchor: time.Date(2024, 3, 14, 17, 45, 0, 0, time.UTC), Mode: ViewDay},
			wantLen:   1,
			wantFirst: day(2024, 3, 14),
			wantLast:  day(2024, 3, 14),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := ExpandRange(tt.spec, time.UTC)
			require.Len(t, days, tt.wantLen)
			assert.True(t, tt.wantFirst.Equal(days[0]))
			assert.True(t, tt.wantLast.Equal(days[len(days)-1]))

			// Slots are consecutive days.
			for i := 1; i < len(days); i++ {
				assert.True(t, days[i-1].AddDate(0, 0, 1).Equal(days[i]))
			}
		})
	}
}
