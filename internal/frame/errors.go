package frame

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateSample matches any *DegenerateSampleError.
	ErrDegenerateSample = errors.New("degenerate sample")
	// ErrMissingMeasurement matches any *MissingMeasurementError.
	ErrMissingMeasurement = errors.New("missing measurement")
	// ErrShapeMismatch matches any *ShapeMismatchError.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// DegenerateSampleError reports a sample whose satellite speed is zero or
// non-finite, so the ram direction is undefined.
type DegenerateSampleError struct {
	Index int
	Speed float64
}

func (e *DegenerateSampleError) Error() string {
	return fmt.Sprintf("sample %d: satellite speed %v leaves ram direction undefined", e.Index, e.Speed)
}

func (e *DegenerateSampleError) Is(target error) bool { return target == ErrDegenerateSample }

// MissingMeasurementError marks a sample without a usable drift measurement:
// either its quality flag masked it, or Field names a drift column holding a
// non-finite value. It is a marker, not a failure.
type MissingMeasurementError struct {
	Index int
	Flag  int
	Field string
}

func (e *MissingMeasurementError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("sample %d: %s is not finite, drift masked", e.Index, e.Field)
	}
	return fmt.Sprintf("sample %d: quality flag %d, drift masked", e.Index, e.Flag)
}

func (e *MissingMeasurementError) Is(target error) bool { return target == ErrMissingMeasurement }

// ShapeMismatchError reports input columns of inconsistent length.
type ShapeMismatchError struct {
	Field string
	Len   int
	Want  int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf("column %s has %d samples, want %d", e.Field, e.Len, e.Want)
}

func (e *ShapeMismatchError) Is(target error) bool { return target == ErrShapeMismatch }
