// Package geo holds the geodetic helpers used when plotting a satellite pass:
// WGS-84 ECEF conversion, altitude from geocentric radius and the
// latitude-aware arrow scaling used on equirectangular maps.
package geo

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WGS-84 ellipsoid parameters.
const (
	wgs84A  = 6378137.0        // semi-major axis (meters)
	wgs84E2 = 6.69437999014e-3 // first eccentricity squared
)

// MeanEarthRadiusKm is the spherical radius subtracted from the geocentric
// radius to obtain altitude.
const MeanEarthRadiusKm = 6371.0

// ToECEF converts geodetic latitude/longitude in degrees and altitude in
// meters above the ellipsoid to ECEF coordinates in meters.
func ToECEF(latDeg, lonDeg, altM float64) r3.Vec {
	lat := latDeg * math.Pi / 180.0
	lon := lonDeg * math.Pi / 180.0

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	// Radius of curvature in the prime vertical.
	n := wgs84A / math.Sqrt(1-wgs84E2*sinLat*sinLat)

	return r3.Vec{
		X: (n + altM) * cosLat * cosLon,
		Y: (n + altM) * cosLat * sinLon,
		Z: (n*(1-wgs84E2) + altM) * sinLat,
	}
}

// AltitudeKm converts a geocentric radius in meters to altitude in km.
func AltitudeKm(radiusM float64) float64 {
	return radiusM/1000.0 - MeanEarthRadiusKm
}

// ScaleUV stretches the eastward component of an arrow by 1/cos(lat) so it
// points the right way on a plate carrée map, then rescales both components
// so the arrow keeps its original length. A zero vector stays zero; NaN
// inputs propagate.
func ScaleUV(latDeg, u, v float64) (float64, float64) {
	us := u / math.Cos(latDeg*math.Pi/180.0)
	mag := math.Sqrt(u*u + v*v)
	if mag == 0 {
		return 0, 0
	}
	sf := mag / math.Sqrt(us*us+v*v)
	return us * sf, v * sf
}
