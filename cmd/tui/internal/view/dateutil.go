package view

import (
	"time"
)

// Timeframe represents a predefined or custom date range selection.
type Timeframe int

const (
	TimeframeToday     Timeframe = 0
	TimeframeThisWeek  Timeframe = 1
	TimeframeLastWeek  Timeframe = 2
	TimeframeThisMonth Timeframe = 3
	TimeframeLastMonth Timeframe = 4
	TimeframeAll       Timeframe = 5
	TimeframeCustom    Timeframe = 6
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeToday:
		return "Today"
	case TimeframeThisWeek:
		return "This Week"
	case TimeframeLastWeek:
		return "Last Week"
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// timeframeToDateRange resolves tf against now in loc. Weeks start on Monday.
// The returned days still need normalizeDateRange.
func timeframeToDateRange(tf Timeframe, now time.Time, loc *time.Location) (time.Time, time.Time) {
	now = now.In(loc)

	var start, end time.Time

	switch tf {
	case TimeframeToday:
		start, end = now, now
	case TimeframeThisWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		start = now.AddDate(0, 0, -offset+1)
		end = now
	case TimeframeLastWeek:
		offset := int(now.Weekday())
		if offset == 0 {
			offset = 7
		}

		end = now.AddDate(0, 0, -offset)
		start = end.AddDate(0, 0, -6)
	case TimeframeThisMonth:
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		end = now
	case TimeframeLastMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		start = first.AddDate(0, -1, 0)
		end = first.AddDate(0, 0, -1)
	}

	return start, end
}

// normalizeDateRange widens the range to whole days in loc.
func normalizeDateRange(start, end time.Time, loc *time.Location) (time.Time, time.Time) {
	start, end = start.In(loc), end.In(loc)

	return time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc),
		time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
}
