package backtest

import (
	"math"

	"github.com/okian/pickgate/internal/domain/types"
)

const bucketCount = 10

// prediction is one settled pick.
type prediction struct {
	probability float64
	won         bool
}

// bucketIndex maps p to one of ten equal-width bands; the last band is
// closed at 1.0.
func bucketIndex(p float64) int {
	i := int(math.Floor(p * bucketCount))
	switch {
	case i < 0:
		return 0
	case i >= bucketCount:
		return bucketCount - 1
	default:
		return i
	}
}

// calibrate builds the calibration curve over settled predictions and
// returns it with the count-weighted mean absolute error across non-empty
// buckets.
func calibrate(preds []prediction) ([bucketCount]types.CalibrationBucket, float64) {
	var curve [bucketCount]types.CalibrationBucket
	sums := [bucketCount]float64{}
	for i := range curve {
		curve[i].Lower = float64(i) / bucketCount
		curve[i].Upper = float64(i+1) / bucketCount
	}
	for _, p := range preds {
		i := bucketIndex(p.probability)
		curve[i].Count++
		sums[i] += p.probability
		if p.won {
			curve[i].Wins++
		}
	}

	var weighted float64
	total := 0
	for i := range curve {
		b := &curve[i]
		if b.Count == 0 {
			continue
		}
		b.AvgPredicted = sums[i] / float64(b.Count)
		b.ActualRate = float64(b.Wins) / float64(b.Count)
		b.Error = math.Abs(b.AvgPredicted - b.ActualRate)
		weighted += b.Error * float64(b.Count)
		total += b.Count
	}
	if total == 0 {
		return curve, 0
	}
	return curve, weighted / float64(total)
}
