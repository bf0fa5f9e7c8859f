// Package units provides shared constants and validation for drift speed units
package units

import "strings"

// Unit constants
const (
	MPS  = "mps"
	KMPS = "kmps"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, KMPS, KPH}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertSpeed converts a speed from meters per second to the target units.
// Rotation outputs are always in m/s; NaN passes through unchanged.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case KMPS:
		return speedMPS / 1000
	case KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// Label returns the axis label suffix for a unit, e.g. "m/s".
func Label(unit string) string {
	switch unit {
	case KMPS:
		return "km/s"
	case KPH:
		return "km/h"
	default:
		return "m/s"
	}
}
