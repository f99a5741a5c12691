package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary is the distribution of one derived quantity within a session.
// NaN inputs are skipped; Std is the sample standard deviation and is NaN
// for fewer than two values.
type Summary struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Std    float64
}

// Range returns Max - Min.
func (s Summary) Range() float64 { return s.Max - s.Min }

// Summarize computes min, max, mean, median and sample std of vals.
func Summarize(vals []float64) Summary {
	cp := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			cp = append(cp, v)
		}
	}
	if len(cp) == 0 {
		nan := math.NaN()
		return Summary{Min: nan, Max: nan, Mean: nan, Median: nan, Std: nan}
	}
	sort.Float64s(cp)
	mean, std := stat.MeanStdDev(cp, nil)
	if len(cp) < 2 {
		std = math.NaN()
	}
	return Summary{
		Count:  len(cp),
		Min:    cp[0],
		Max:    cp[len(cp)-1],
		Mean:   mean,
		Median: quantile(cp, 0.5),
		Std:    std,
	}
}

// quantile interpolates linearly between the closest ranks of sorted.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
