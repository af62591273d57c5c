package counts

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// SecondMean is the average total detections of the frames in one second.
type SecondMean struct {
	Sec       int
	MeanTotal float64
}

// PerSecond groups frames by their timestamp rounded to the nearest second,
// halves going to the even second, and averages Total within each group.
// The result is ordered by second.
func PerSecond(frames []FrameCounts) []SecondMean {
	groups := map[int][]float64{}
	for _, fc := range frames {
		sec := int(math.RoundToEven(fc.TimeSec))
		groups[sec] = append(groups[sec], float64(fc.Total))
	}

	secs := make([]int, 0, len(groups))
	for sec := range groups {
		secs = append(secs, sec)
	}
	sort.Ints(secs)

	out := make([]SecondMean, len(secs))
	for i, sec := range secs {
		out[i] = SecondMean{Sec: sec, MeanTotal: stat.Mean(groups[sec], nil)}
	}
	return out
}

// Totals sums each class column over all frames.
func (t *Table) Totals() []int {
	totals := make([]int, len(t.Names))
	for _, fc := range t.Frames {
		for i, n := range fc.PerClass {
			totals[i] += n
		}
	}
	return totals
}
