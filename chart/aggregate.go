package chart

import (
	"time"

	"github.com/breez/feechart/lightning"
)

// BucketSeries holds the per bucket fee sums and forward counts. Both slices
// always have the same length.
type BucketSeries struct {
	Fees   []float64
	Counts []uint64
}

// Aggregate sums the fees and counts the forwards per bucket. Bucket i
// covers [start + i*unit, start + (i+1)*unit). Forwards before start go in
// the first bucket, forwards after the last bucket's range go in the last
// bucket, so the last bucket absorbs the remainder of the window and any
// clock skew between retrieval and bucketing.
func Aggregate(
	forwards []*lightning.ForwardEvent,
	granularity Granularity,
	segments int,
	start time.Time,
) *BucketSeries {
	if segments < 1 {
		return &BucketSeries{
			Fees:   []float64{},
			Counts: []uint64{},
		}
	}

	series := &BucketSeries{
		Fees:   make([]float64, segments),
		Counts: make([]uint64, segments),
	}

	unit := granularity.Duration()
	for _, f := range forwards {
		i := bucketIndex(f.Timestamp.Sub(start), unit, segments)
		series.Fees[i] += float64(f.FeeSat)
		series.Counts[i]++
	}

	return series
}

func bucketIndex(offset time.Duration, unit time.Duration, segments int) int {
	if offset < 0 {
		return 0
	}

	i := offset / unit
	if i >= time.Duration(segments) {
		return segments - 1
	}

	return int(i)
}

// TotalEarned returns the sum of the fees of all forwards in satoshi.
func TotalEarned(forwards []*lightning.ForwardEvent) uint64 {
	var total uint64
	for _, f := range forwards {
		total += f.FeeSat
	}

	return total
}
