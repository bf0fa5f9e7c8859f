// Package window selects the samples of a time series that fall inside a
// requested interval, snapping each bound to the nearest sample.
package window

import (
	"errors"
	"time"
)

// ErrEmptySeries is returned when there are no samples to choose from.
var ErrEmptySeries = errors.New("window: empty time series")

// Nearest returns the index of the sample closest to t. Ties resolve to the
// earliest index.
func Nearest(times []time.Time, t time.Time) (int, error) {
	if len(times) == 0 {
		return 0, ErrEmptySeries
	}
	best := 0
	bestDist := absDuration(times[0].Sub(t))
	for i := 1; i < len(times); i++ {
		if d := absDuration(times[i].Sub(t)); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, nil
}

// Select returns the inclusive index range [lo, hi] spanning start..end. A
// zero start selects the first sample and a zero end the last. Reversed
// bounds are swapped.
func Select(times []time.Time, start, end time.Time) (lo, hi int, err error) {
	if len(times) == 0 {
		return 0, 0, ErrEmptySeries
	}
	lo, hi = 0, len(times)-1
	if !start.IsZero() {
		lo, _ = Nearest(times, start)
	}
	if !end.IsZero() {
		hi, _ = Nearest(times, end)
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi, nil
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
