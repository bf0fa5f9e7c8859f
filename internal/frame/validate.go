package frame

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// OrthonormalTolerance bounds the per-entry deviation of RᵀR from identity
// accepted by IsOrthonormal.
const OrthonormalTolerance = 1e-9

// IsOrthonormal reports whether m satisfies mᵀm ≈ I. The instrument
// rotation is only orthonormal when the ram vector is horizontal (VsC = 0);
// callers use this to tell the two regimes apart, not to reject samples.
func IsOrthonormal(m mat.Matrix) bool {
	r, c := m.Dims()
	if r != c {
		return false
	}
	var prod mat.Dense
	prod.Mul(m.T(), m)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			v := prod.At(i, j)
			if math.IsNaN(v) || math.Abs(v-want) > OrthonormalTolerance {
				return false
			}
		}
	}
	return true
}
