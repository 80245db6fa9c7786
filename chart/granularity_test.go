package chart

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_SelectGranularity(t *testing.T) {
	tests := []struct {
		days        int
		granularity Granularity
		segments    int
	}{
		{days: 1, granularity: Hour, segments: 24},
		{days: 2, granularity: Hour, segments: 48},
		{days: 3, granularity: Hour, segments: 72},
		{days: 4, granularity: Day, segments: 4},
		{days: 30, granularity: Day, segments: 30},
		{days: 90, granularity: Day, segments: 90},
		{days: 91, granularity: Week, segments: 13},
		{days: 120, granularity: Week, segments: 17},
		{days: 365, granularity: Week, segments: 52},
	}

	for _, tst := range tests {
		t.Run(fmt.Sprintf("days%d", tst.days), func(t *testing.T) {
			granularity, segments := SelectGranularity(tst.days)
			assert.Equal(t, tst.granularity, granularity)
			assert.Equal(t, tst.segments, segments)
		})
	}
}

func Test_SelectGranularity_Ranges(t *testing.T) {
	for days := 1; days <= 400; days++ {
		granularity, segments := SelectGranularity(days)
		switch {
		case days < 4:
			assert.Equal(t, Hour, granularity, days)
			assert.Equal(t, days*24, segments, days)
		case days <= 90:
			assert.Equal(t, Day, granularity, days)
			assert.Equal(t, days, segments, days)
		default:
			assert.Equal(t, Week, granularity, days)
			assert.Equal(t, days/7, segments, days)
			assert.GreaterOrEqual(t, segments, 12)
		}
	}
}

func Test_Granularity_String(t *testing.T) {
	assert.Equal(t, "hour", Hour.String())
	assert.Equal(t, "day", Day.String())
	assert.Equal(t, "week", Week.String())
	assert.Equal(t, time.Hour, Hour.Duration())
	assert.Equal(t, 24*time.Hour, Day.Duration())
	assert.Equal(t, 168*time.Hour, Week.Duration())
}

func Test_CalculateWindow(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	w := CalculateWindow(30, now)
	assert.Equal(t, now, w.End)
	assert.Equal(t, time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC), w.Start)
	assert.False(t, w.Start.After(w.End))
}

func Test_CalculateWindow_DaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("no timezone data: %v", err)
	}

	// Clocks moved forward on 2024-03-10.
	now := time.Date(2024, 3, 11, 12, 0, 0, 0, loc)
	w := CalculateWindow(2, now)
	assert.Equal(t, time.Date(2024, 3, 9, 12, 0, 0, 0, loc), w.Start)
	assert.Equal(t, 47*time.Hour, w.End.Sub(w.Start))
}
