package chart

import "time"

// Granularity is the time unit of a single bucket in a chart.
type Granularity int

const (
	Hour Granularity = iota
	Day
	Week
)

const (
	// Windows shorter than this many days are charted per hour.
	maxDaysForHours = 4
	// Windows longer than this many days are charted per week.
	minDaysForWeeks = 90
)

func (g Granularity) String() string {
	switch g {
	case Hour:
		return "hour"
	case Day:
		return "day"
	case Week:
		return "week"
	default:
		return "unknown"
	}
}

// Duration returns the fixed length of one bucket.
func (g Granularity) Duration() time.Duration {
	switch g {
	case Hour:
		return time.Hour
	case Week:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// SelectGranularity picks the bucket unit for a window of days and returns
// the number of buckets to chart. days is expected to be positive.
func SelectGranularity(days int) (Granularity, int) {
	if days > minDaysForWeeks {
		return Week, days / 7
	}

	if days < maxDaysForHours {
		return Hour, days * 24
	}

	return Day, days
}
