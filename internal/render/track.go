package render

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrNoData is returned when a track has no samples to draw.
var ErrNoData = errors.New("render: track has no samples")

// Track is the per-sample input of every renderer. Velocities are in m/s.
// LOSEast/LOSNorth are optional unit line-of-sight components.
type Track struct {
	Times           []time.Time
	Lat, Lon        []float64
	East, North, Up []float64
	Speed           []float64
	LOSEast         []float64
	LOSNorth        []float64
}

// Len returns the number of samples.
func (t *Track) Len() int {
	return len(t.Times)
}

func (t *Track) validate() error {
	n := t.Len()
	if n == 0 {
		return ErrNoData
	}
	for name, col := range map[string][]float64{
		"Lat": t.Lat, "Lon": t.Lon, "East": t.East, "North": t.North, "Up": t.Up, "Speed": t.Speed,
	} {
		if len(col) != n {
			return fmt.Errorf("render: column %s has %d samples, want %d", name, len(col), n)
		}
	}
	if t.HasLOS() && (len(t.LOSEast) != n || len(t.LOSNorth) != n) {
		return fmt.Errorf("render: line-of-sight columns have %d/%d samples, want %d", len(t.LOSEast), len(t.LOSNorth), n)
	}
	return nil
}

// HasLOS reports whether line-of-sight arrows were supplied.
func (t *Track) HasLOS() bool {
	return t.LOSEast != nil || t.LOSNorth != nil
}

// seconds returns sample times as unix seconds for plot axes.
func (t *Track) seconds() []float64 {
	out := make([]float64, len(t.Times))
	for i, ts := range t.Times {
		out[i] = float64(ts.UnixNano()) / 1e9
	}
	return out
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
