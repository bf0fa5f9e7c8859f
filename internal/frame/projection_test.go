package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLineOfSight(t *testing.T) {
	b := single(3, 4, 0, 0, 0, 0, 0, 1)
	los := b.LineOfSight(0)
	assert.InDelta(t, 0.8, los[0], 1e-12) // east
	assert.InDelta(t, 0.6, los[1], 1e-12) // north
	assert.Zero(t, los[2])

	norm := math.Sqrt(los[0]*los[0] + los[1]*los[1] + los[2]*los[2])
	assert.InDelta(t, 1.0, norm, 1e-12)
}

func TestLineOfSight_Degenerate(t *testing.T) {
	b := single(0, 0, 0, 0, 0, 0, 0, 1)
	for _, v := range b.LineOfSight(0) {
		assert.True(t, math.IsNaN(v))
	}
	for _, v := range b.CrossTrackAxis(0) {
		assert.True(t, math.IsNaN(v))
	}
	assert.True(t, math.IsNaN(b.ProjectCrossTrack(0, [3]float64{1, 2, 3})))
}

func TestCrossTrackAxis(t *testing.T) {
	tests := []struct {
		name       string
		vsatN      float64
		vsatE      float64
		wantAxis   [3]float64
		drift      [3]float64
		wantProjec float64
	}{
		{"southbound, northward drift", -1, 0, [3]float64{-1, 0, 0}, [3]float64{0, 100, 0}, 0},
		{"southbound, eastward drift", -1, 0, [3]float64{-1, 0, 0}, [3]float64{100, 0, 0}, -100},
		{"eastbound", 0, 7500, [3]float64{0, -1, 0}, [3]float64{30, 40, 5}, -40},
		{"northbound", 7500, 0, [3]float64{1, 0, 0}, [3]float64{30, 40, 5}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := single(tt.vsatN, tt.vsatE, 0, 0, 0, 0, 0, 1)
			ax := b.CrossTrackAxis(0)
			assert.InDeltaSlice(t, tt.wantAxis[:], ax[:], 1e-12)
			assert.InDelta(t, tt.wantProjec, b.ProjectCrossTrack(0, tt.drift), 1e-9)
		})
	}
}

func TestCrossTrackAxis_IgnoresVerticalDrift(t *testing.T) {
	b := single(5000, 5000, 100, 0, 0, 0, 0, 1)
	assert.Zero(t, b.CrossTrackAxis(0)[2])
	assert.InDelta(t, 0.0, b.ProjectCrossTrack(0, [3]float64{0, 0, 900}), 1e-12)
}
