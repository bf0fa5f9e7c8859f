package frame

import "math"

// ramUnit returns the normalised satellite velocity (north, east, centre) of
// sample i together with the speed. ok is false when the speed is zero or
// non-finite.
func (b *SampleBatch) ramUnit(i int) (vsN, vsE, vsC, mag float64, ok bool) {
	mag = math.Sqrt(b.VsatN[i]*b.VsatN[i] + b.VsatE[i]*b.VsatE[i] + b.VsatC[i]*b.VsatC[i])
	if mag == 0 || math.IsNaN(mag) || math.IsInf(mag, 0) {
		return 0, 0, 0, mag, false
	}
	return b.VsatN[i] / mag, b.VsatE[i] / mag, b.VsatC[i] / mag, mag, true
}

// LineOfSight returns the unit ram vector of sample i ordered east, north,
// centre, which is the ordering the map renderer draws in. Degenerate
// samples yield NaN.
func (b *SampleBatch) LineOfSight(i int) [3]float64 {
	vsN, vsE, vsC, _, ok := b.ramUnit(i)
	if !ok {
		nan := math.NaN()
		return [3]float64{nan, nan, nan}
	}
	return [3]float64{vsE, vsN, vsC}
}

// CrossTrackAxis returns [VsN, -VsE, 0] for sample i: the horizontal axis
// onto which a ground-radar ENU drift is projected for comparison with the
// satellite's cross-track measurement.
func (b *SampleBatch) CrossTrackAxis(i int) [3]float64 {
	vsN, vsE, _, _, ok := b.ramUnit(i)
	if !ok {
		nan := math.NaN()
		return [3]float64{nan, nan, nan}
	}
	return [3]float64{vsN, -vsE, 0}
}

// ProjectCrossTrack projects v onto the cross-track axis of sample i.
func (b *SampleBatch) ProjectCrossTrack(i int, v [3]float64) float64 {
	ax := b.CrossTrackAxis(i)
	return v[0]*ax[0] + v[1]*ax[1] + v[2]*ax[2]
}
