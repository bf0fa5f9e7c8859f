package frame

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates a Result for logging and reports.
type Summary struct {
	Samples    int
	Valid      int
	Missing    int
	Degenerate int

	// NonOrthonormal counts non-degenerate samples whose rotation matrix is
	// not orthonormal, i.e. the ram vector has a vertical component.
	NonOrthonormal int

	// Statistics over valid samples only; NaN when there are none.
	MeanHorizontalSpeed   float64
	StdDevHorizontalSpeed float64
	MaxHorizontalSpeed    float64
}

// Summarize counts sample outcomes and computes horizontal speed statistics
// over valid samples.
func Summarize(r *Result) Summary {
	s := Summary{Samples: r.Len()}
	speeds := make([]float64, 0, r.Len())
	for i, st := range r.Status {
		switch st {
		case StatusOK:
			s.Valid++
			speeds = append(speeds, r.HorizontalSpeed[i])
		case StatusMissing:
			s.Missing++
		case StatusDegenerate:
			s.Degenerate++
			continue
		}
		if !IsOrthonormal(r.Dense(i)) {
			s.NonOrthonormal++
		}
	}
	if len(speeds) == 0 {
		nan := math.NaN()
		s.MeanHorizontalSpeed, s.StdDevHorizontalSpeed, s.MaxHorizontalSpeed = nan, nan, nan
		return s
	}
	s.MeanHorizontalSpeed, s.StdDevHorizontalSpeed = stat.MeanStdDev(speeds, nil)
	s.MaxHorizontalSpeed = speeds[0]
	for _, v := range speeds[1:] {
		s.MaxHorizontalSpeed = math.Max(s.MaxHorizontalSpeed, v)
	}
	return s
}

// Invalid returns the number of samples that are not StatusOK.
func (s Summary) Invalid() int {
	return s.Missing + s.Degenerate
}
