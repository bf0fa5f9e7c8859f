package frame

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Status classifies the outcome for one sample.
type Status uint8

const (
	StatusOK Status = iota
	// StatusMissing means the drift measurement was masked by its quality
	// flag; the rotation matrix is still valid.
	StatusMissing
	// StatusDegenerate means the ram direction is undefined; every output
	// of the sample is NaN.
	StatusDegenerate
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMissing:
		return "missing"
	case StatusDegenerate:
		return "degenerate"
	default:
		return "unknown"
	}
}

// Matrix is a row-major 3x3 matrix.
type Matrix [3][3]float64

// Result holds per-sample outputs column-wise.
type Result struct {
	// m holds the nine rotation matrix entries, row-major, one column per
	// entry so the product can run as whole-slice operations.
	m [9][]float64

	// Vi is the instrument-frame vector [(Vixh+Vixv)/2, Viy, Viz].
	Vi [3][]float64

	// East, North, Up are the rotated velocity components (m/s).
	East  []float64
	North []float64
	Up    []float64

	// HorizontalSpeed is |Vi[0], Vi[1]| computed before rotation.
	HorizontalSpeed []float64

	Status []Status

	errs []error
}

func newResult(n int) *Result {
	r := &Result{
		East:            make([]float64, n),
		North:           make([]float64, n),
		Up:              make([]float64, n),
		HorizontalSpeed: make([]float64, n),
		Status:          make([]Status, n),
		errs:            make([]error, n),
	}
	for k := range r.m {
		r.m[k] = make([]float64, n)
	}
	for k := range r.Vi {
		r.Vi[k] = make([]float64, n)
	}
	return r
}

// Len returns the number of samples in the result.
func (r *Result) Len() int {
	return len(r.Status)
}

// Matrix returns the rotation matrix of sample i.
func (r *Result) Matrix(i int) Matrix {
	var out Matrix
	for k := 0; k < 9; k++ {
		out[k/3][k%3] = r.m[k][i]
	}
	return out
}

// Dense returns the rotation matrix of sample i as a gonum matrix.
func (r *Result) Dense(i int) *mat.Dense {
	m := r.Matrix(i)
	return mat.NewDense(3, 3, append(append(m[0][:], m[1][:]...), m[2][:]...))
}

// Velocity returns the rotated ENU vector of sample i.
func (r *Result) Velocity(i int) [3]float64 {
	return [3]float64{r.East[i], r.North[i], r.Up[i]}
}

// Err returns the per-sample error for i: nil, *DegenerateSampleError or
// *MissingMeasurementError.
func (r *Result) Err(i int) error {
	return r.errs[i]
}

// Errs returns all non-nil per-sample errors in sample order.
func (r *Result) Errs() []error {
	var out []error
	for _, err := range r.errs {
		if err != nil {
			out = append(out, err)
		}
	}
	return out
}

// Valid reports whether sample i produced a finite rotated velocity. Samples
// with a good quality flag but a non-finite drift cell are StatusMissing.
func (r *Result) Valid(i int) bool {
	return r.Status[i] == StatusOK
}

// Rotate computes rotation matrices and rotated velocities for every sample
// in b. An empty batch yields an empty result. The only error returned is a
// *ShapeMismatchError; per-sample problems are reported through Result.
func Rotate(b *SampleBatch) (*Result, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	res := newResult(b.Len())
	rotateRange(b, res, 0, b.Len())
	return res, nil
}

// rotateRange fills res for samples [lo, hi). Ranges never overlap between
// callers, so concurrent calls on disjoint ranges are safe.
func rotateRange(b *SampleBatch, res *Result, lo, hi int) {
	if lo >= hi {
		return
	}
	nan := math.NaN()

	// Ram direction and matrix entries.
	for i := lo; i < hi; i++ {
		vsN, vsE, vsC, mag, ok := b.ramUnit(i)
		if !ok {
			for k := range res.m {
				res.m[k][i] = nan
			}
			res.Status[i] = StatusDegenerate
			res.errs[i] = &DegenerateSampleError{Index: i, Speed: mag}
			continue
		}
		res.m[0][i], res.m[1][i], res.m[2][i] = vsE, vsN, -vsC*vsE
		res.m[3][i], res.m[4][i], res.m[5][i] = vsN, -vsE, -vsC*vsN
		res.m[6][i], res.m[7][i], res.m[8][i] = -vsC, 0, vsC*vsC-1
	}

	// Instrument-frame vector.
	vi0, vi1, vi2 := res.Vi[0][lo:hi], res.Vi[1][lo:hi], res.Vi[2][lo:hi]
	floats.AddTo(vi0, b.Vixh[lo:hi], b.Vixv[lo:hi])
	floats.Scale(0.5, vi0)
	copy(vi1, b.Viy[lo:hi])
	copy(vi2, b.Viz[lo:hi])
	for i := lo; i < hi; i++ {
		field := ""
		if !b.Flagged(i) {
			if field = b.nonFiniteDrift(i); field == "" {
				continue
			}
		}
		res.Vi[0][i], res.Vi[1][i], res.Vi[2][i] = nan, nan, nan
		if res.Status[i] == StatusOK {
			res.Status[i] = StatusMissing
			res.errs[i] = &MissingMeasurementError{Index: i, Flag: b.QualityFlag[i], Field: field}
		}
	}

	// R·Vi, one output row at a time across the whole range.
	tmp := make([]float64, hi-lo)
	out := [3][]float64{res.East[lo:hi], res.North[lo:hi], res.Up[lo:hi]}
	vi := [3][]float64{vi0, vi1, vi2}
	for row := 0; row < 3; row++ {
		dst := out[row]
		floats.MulTo(dst, res.m[row*3][lo:hi], vi[0])
		for col := 1; col < 3; col++ {
			floats.MulTo(tmp, res.m[row*3+col][lo:hi], vi[col])
			floats.Add(dst, tmp)
		}
	}

	// Horizontal speed from the un-rotated vector.
	hs := res.HorizontalSpeed[lo:hi]
	for j := range hs {
		hs[j] = math.Sqrt(vi0[j]*vi0[j] + vi1[j]*vi1[j])
	}
	for i := lo; i < hi; i++ {
		if res.Status[i] == StatusDegenerate {
			res.East[i], res.North[i], res.Up[i] = nan, nan, nan
			res.HorizontalSpeed[i] = nan
		}
	}
}
