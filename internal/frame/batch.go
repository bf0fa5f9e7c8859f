package frame

import "math"

// MinQualityFlag is the lowest quality flag for which drift components are
// considered valid.
const MinQualityFlag = 1

// SampleBatch holds N samples column-wise. All columns must have the same
// length. Velocities are in metres per second.
type SampleBatch struct {
	// Satellite velocity: north, east and centre (radial) components.
	VsatN []float64
	VsatE []float64
	VsatC []float64

	// Ion drift in the instrument frame.
	Vixh []float64 // cross-track, horizontal sensor
	Vixv []float64 // cross-track, vertical sensor
	Viy  []float64 // along-track
	Viz  []float64 // vertical

	QualityFlag []int
}

// Len returns the number of samples, taken from VsatN.
func (b *SampleBatch) Len() int {
	return len(b.VsatN)
}

// Validate checks that every column has the same length as VsatN.
func (b *SampleBatch) Validate() error {
	want := len(b.VsatN)
	cols := []struct {
		name string
		n    int
	}{
		{"VsatE", len(b.VsatE)},
		{"VsatC", len(b.VsatC)},
		{"Vixh", len(b.Vixh)},
		{"Vixv", len(b.Vixv)},
		{"Viy", len(b.Viy)},
		{"Viz", len(b.Viz)},
		{"QualityFlag", len(b.QualityFlag)},
	}
	for _, c := range cols {
		if c.n != want {
			return &ShapeMismatchError{Field: c.name, Len: c.n, Want: want}
		}
	}
	return nil
}

// Slice returns a copy of samples [lo, hi). The caller must have validated
// the batch and ensured 0 <= lo <= hi <= Len().
func (b *SampleBatch) Slice(lo, hi int) SampleBatch {
	return SampleBatch{
		VsatN:       cloneFloats(b.VsatN[lo:hi]),
		VsatE:       cloneFloats(b.VsatE[lo:hi]),
		VsatC:       cloneFloats(b.VsatC[lo:hi]),
		Vixh:        cloneFloats(b.Vixh[lo:hi]),
		Vixv:        cloneFloats(b.Vixv[lo:hi]),
		Viy:         cloneFloats(b.Viy[lo:hi]),
		Viz:         cloneFloats(b.Viz[lo:hi]),
		QualityFlag: append([]int(nil), b.QualityFlag[lo:hi]...),
	}
}

// Flagged reports whether sample i fails the quality threshold.
func (b *SampleBatch) Flagged(i int) bool {
	return b.QualityFlag[i] < MinQualityFlag
}

// MaskFlagged overwrites the drift components of every flagged sample with
// NaN in place. It is idempotent.
func (b *SampleBatch) MaskFlagged() int {
	nan := math.NaN()
	masked := 0
	for i := range b.QualityFlag {
		if !b.Flagged(i) {
			continue
		}
		b.Vixh[i], b.Vixv[i], b.Viy[i], b.Viz[i] = nan, nan, nan, nan
		masked++
	}
	return masked
}

// nonFiniteDrift returns the name of the first drift column of sample i that
// holds NaN or ±Inf, or "" when all four are finite.
func (b *SampleBatch) nonFiniteDrift(i int) string {
	for _, c := range [...]struct {
		name string
		v    float64
	}{{"Vixh", b.Vixh[i]}, {"Vixv", b.Vixv[i]}, {"Viy", b.Viy[i]}, {"Viz", b.Viz[i]}} {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return c.name
		}
	}
	return ""
}

func cloneFloats(s []float64) []float64 {
	return append([]float64(nil), s...)
}
