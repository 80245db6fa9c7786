package chart

import (
	"testing"
	"time"

	"github.com/breez/feechart/lightning"
	"github.com/stretchr/testify/assert"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func forwardAt(t time.Time, feeSat uint64) *lightning.ForwardEvent {
	return &lightning.ForwardEvent{
		FeeSat:     feeSat,
		FeeMsat:    feeSat * 1000,
		Timestamp:  t,
		InChannel:  1,
		OutChannel: 2,
	}
}

func Test_Aggregate_Empty(t *testing.T) {
	series := Aggregate(nil, Day, 30, testNow.AddDate(0, 0, -30))
	assert.Len(t, series.Fees, 30)
	assert.Len(t, series.Counts, 30)
	for i := range series.Fees {
		assert.Zero(t, series.Fees[i])
		assert.Zero(t, series.Counts[i])
	}
}

func Test_Aggregate_LastHour(t *testing.T) {
	start := testNow.AddDate(0, 0, -2)
	var forwards []*lightning.ForwardEvent
	for i := 0; i < 5; i++ {
		forwards = append(forwards, forwardAt(testNow.Add(-time.Duration(i+1)*time.Minute), 1000))
	}

	series := Aggregate(forwards, Hour, 48, start)
	assert.Len(t, series.Fees, 48)
	assert.Len(t, series.Counts, 48)
	for i := 0; i < 47; i++ {
		assert.Zero(t, series.Fees[i])
		assert.Zero(t, series.Counts[i])
	}
	assert.Equal(t, float64(5000), series.Fees[47])
	assert.Equal(t, uint64(5), series.Counts[47])
	assert.Equal(t, uint64(5000), TotalEarned(forwards))
}

func Test_Aggregate_BucketBoundaries(t *testing.T) {
	start := testNow.AddDate(0, 0, -4)
	forwards := []*lightning.ForwardEvent{
		forwardAt(start, 1),
		forwardAt(start.Add(24*time.Hour-time.Nanosecond), 2),
		forwardAt(start.Add(24*time.Hour), 4),
		forwardAt(start.Add(72*time.Hour), 8),
	}

	series := Aggregate(forwards, Day, 4, start)
	assert.Equal(t, []float64{3, 4, 0, 8}, series.Fees)
	assert.Equal(t, []uint64{2, 1, 0, 1}, series.Counts)
}

func Test_Aggregate_ClampsOutOfRange(t *testing.T) {
	start := testNow.AddDate(0, 0, -4)
	forwards := []*lightning.ForwardEvent{
		forwardAt(start.Add(-time.Second), 1),
		forwardAt(testNow, 2),
		forwardAt(testNow.Add(time.Hour), 4),
	}

	series := Aggregate(forwards, Day, 4, start)
	assert.Equal(t, []float64{1, 0, 0, 6}, series.Fees)
	assert.Equal(t, []uint64{1, 0, 0, 2}, series.Counts)
}

func Test_Aggregate_WeekRemainderInLastBucket(t *testing.T) {
	// 120 days are 17 weeks and one day, the extra day goes to the last week.
	start := testNow.AddDate(0, 0, -120)
	forwards := []*lightning.ForwardEvent{
		forwardAt(start.Add(17*7*24*time.Hour+time.Hour), 10),
	}

	series := Aggregate(forwards, Week, 17, start)
	assert.Len(t, series.Fees, 17)
	assert.Equal(t, float64(10), series.Fees[16])
	assert.Equal(t, uint64(1), series.Counts[16])
}

func Test_Aggregate_SumsMatchTotals(t *testing.T) {
	start := testNow.AddDate(0, 0, -10)
	var forwards []*lightning.ForwardEvent
	for i := 0; i < 100; i++ {
		forwards = append(forwards, forwardAt(start.Add(time.Duration(i)*137*time.Minute), uint64(i*3)))
	}

	series := Aggregate(forwards, Day, 10, start)
	var fees float64
	var counts uint64
	for i := range series.Fees {
		fees += series.Fees[i]
		counts += series.Counts[i]
	}
	assert.Equal(t, float64(TotalEarned(forwards)), fees)
	assert.Equal(t, uint64(len(forwards)), counts)
}

func Test_Aggregate_NoSegments(t *testing.T) {
	series := Aggregate([]*lightning.ForwardEvent{forwardAt(testNow, 1)}, Week, 0, testNow)
	assert.Empty(t, series.Fees)
	assert.Empty(t, series.Counts)
}
