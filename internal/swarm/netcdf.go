package swarm

import (
	"fmt"
	"math"
	"time"

	"github.com/batchatco/go-native-netcdf/netcdf"

	"github.com/spacephys/driftframe/internal/monitoring"
	"github.com/spacephys/driftframe/internal/timeutil"
)

// NetCDFReader reads a pass from a NetCDF file holding one 1-D variable per
// column. Timestamp is in unix seconds.
type NetCDFReader struct {
	Path string
}

// Read implements Reader.
func (r *NetCDFReader) Read() (*Pass, error) {
	nc, err := netcdf.Open(r.Path)
	if err != nil {
		return nil, fmt.Errorf("open netcdf %s: %w", r.Path, err)
	}
	defer nc.Close()

	get := func(name string) (interface{}, error) {
		vr, err := nc.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("netcdf %s: variable %s: %w", r.Path, name, err)
		}
		return vr.Values, nil
	}

	raw, err := get(ColTimestamp)
	if err != nil {
		return nil, err
	}
	secs, err := toFloat64s(raw)
	if err != nil {
		return nil, fmt.Errorf("netcdf %s: %s: %w", r.Path, ColTimestamp, err)
	}
	times := make([]time.Time, len(secs))
	for i, s := range secs {
		times[i] = timeutil.FromUnixSeconds(s)
	}

	cols := make(map[string][]float64, len(floatColumns))
	for _, name := range floatColumns {
		raw, err := get(name)
		if err != nil {
			return nil, err
		}
		if cols[name], err = toFloat64s(raw); err != nil {
			return nil, fmt.Errorf("netcdf %s: %s: %w", r.Path, name, err)
		}
	}

	raw, err = get(ColQualityFlags)
	if err != nil {
		return nil, err
	}
	flags, err := toInts(raw)
	if err != nil {
		return nil, fmt.Errorf("netcdf %s: %s: %w", r.Path, ColQualityFlags, err)
	}

	p, err := assemble(r.Path, times, cols, flags)
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("swarm: read %d samples from %s", p.Len(), r.Path)
	return p, nil
}

// toFloat64s converts a numeric variable to float64.
func toFloat64s(v interface{}) ([]float64, error) {
	switch vals := v.(type) {
	case []float64:
		return append([]float64(nil), vals...), nil
	case []float32:
		return convert(vals), nil
	case []int8:
		return convert(vals), nil
	case []int16:
		return convert(vals), nil
	case []int32:
		return convert(vals), nil
	case []int64:
		return convert(vals), nil
	case []uint8:
		return convert(vals), nil
	case []uint16:
		return convert(vals), nil
	case []uint32:
		return convert(vals), nil
	case []uint64:
		return convert(vals), nil
	default:
		return nil, fmt.Errorf("unsupported variable type %T", v)
	}
}

// toInts converts an integer or float variable to int. Non-finite values
// and values outside the int32 range become 0, which fails the quality
// threshold.
func toInts(v interface{}) ([]int, error) {
	f, err := toFloat64s(v)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(f))
	for i, x := range f {
		if math.IsNaN(x) || x < math.MinInt32 || x > math.MaxInt32 {
			continue
		}
		out[i] = int(x)
	}
	return out, nil
}

type number interface {
	~float32 | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64
}

func convert[T number](in []T) []float64 {
	out := make([]float64, len(in))
	for i, x := range in {
		out[i] = float64(x)
	}
	return out
}
