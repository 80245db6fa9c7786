package chart

import "time"

type TimeWindow struct {
	Start time.Time
	End   time.Time
}

// CalculateWindow returns the window of days ending at now. The start is
// computed with calendar arithmetic, so a window crossing a daylight saving
// transition is not a multiple of 24 hours.
func CalculateWindow(days int, now time.Time) TimeWindow {
	return TimeWindow{
		Start: now.AddDate(0, 0, -days),
		End:   now,
	}
}
