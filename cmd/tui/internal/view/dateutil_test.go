package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeframeToDateRange(t *testing.T) {
	loc, err := time.LoadLocation("Africa/Nairobi")
	require.NoError(t, err)

	// Wednesday
	now := time.Date(2025, 3, 19, 10, 0, 0, 0, loc)

	tests := []struct {
		name      string
		tf        Timeframe
		wantStart string
		wantEnd   string
	}{
		{name: "Today", tf: TimeframeToday, wantStart: "2025-03-19", wantEnd: "2025-03-19"},
		{name: "ThisWeek", tf: TimeframeThisWeek, wantStart: "2025-03-17", wantEnd: "2025-03-19"},
		{name: "LastWeek", tf: TimeframeLastWeek, wantStart: "2025-03-10", wantEnd: "2025-03-16"},
		{name: "ThisMonth", tf: TimeframeThisMonth, wantStart: "2025-03-01", wantEnd: "2025-03-19"},
		{name: "LastMonth", tf: TimeframeLastMonth, wantStart: "2025-02-01", wantEnd: "2025-02-28"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := timeframeToDateRange(tt.tf, now, loc)
			start, end = normalizeDateRange(start, end, loc)

			assert.Equal(t, tt.wantStart, start.Format(time.DateOnly))
			assert.Equal(t, tt.wantEnd, end.Format(time.DateOnly))
			assert.Equal(t, 0, start.Hour())
			assert.Equal(t, 23, end.Hour())
			assert.Equal(t, loc, start.Location())
		})
	}
}

func TestParseCustomRange(t *testing.T) {
	start, end, err := parseCustomRange("2025-03-01", " 2025-03-09 ", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 3, 9, 23, 59, 59, int(999*time.Millisecond), time.UTC), end)

	_, _, err = parseCustomRange("2025-03-09", "2025-03-01", time.UTC)
	assert.Error(t, err)

	_, _, err = parseCustomRange("March", "2025-03-01", time.UTC)
	assert.Error(t, err)
}
