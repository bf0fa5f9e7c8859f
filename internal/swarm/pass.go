package swarm

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/spacephys/driftframe/internal/frame"
	"github.com/spacephys/driftframe/internal/geo"
	"github.com/spacephys/driftframe/internal/window"
)

// Column names shared by every reader.
const (
	ColTimestamp    = "Timestamp"
	ColLatitude     = "Latitude"
	ColLongitude    = "Longitude"
	ColRadius       = "Radius"
	ColVsatN        = "VsatN"
	ColVsatE        = "VsatE"
	ColVsatC        = "VsatC"
	ColVixh         = "Vixh"
	ColVixv         = "Vixv"
	ColViy          = "Viy"
	ColViz          = "Viz"
	ColQualityFlags = "Quality_flags"
)

// floatColumns lists the float-valued columns in read order.
var floatColumns = []string{
	ColLatitude, ColLongitude, ColRadius,
	ColVsatN, ColVsatE, ColVsatC,
	ColVixh, ColVixv, ColViy, ColViz,
}

// Pass is one satellite pass: per-sample time and position alongside the
// rotation inputs.
type Pass struct {
	Source string
	Times  []time.Time
	Lat    []float64 // geographic latitude, degrees
	Lon    []float64 // geographic longitude, degrees
	Radius []float64 // geocentric radius, metres
	Batch  frame.SampleBatch
}

// Len returns the number of samples in the pass.
func (p *Pass) Len() int {
	return len(p.Times)
}

// Validate checks that every column matches the timestamp count.
func (p *Pass) Validate() error {
	n := len(p.Times)
	for _, c := range []struct {
		name string
		n    int
	}{
		{ColLatitude, len(p.Lat)},
		{ColLongitude, len(p.Lon)},
		{ColRadius, len(p.Radius)},
		{ColVsatN, p.Batch.Len()},
	} {
		if c.n != n {
			return fmt.Errorf("pass %s: %w", p.Source, &frame.ShapeMismatchError{Field: c.name, Len: c.n, Want: n})
		}
	}
	if err := p.Batch.Validate(); err != nil {
		return fmt.Errorf("pass %s: %w", p.Source, err)
	}
	return nil
}

// AltitudeKm returns the altitude of every sample.
func (p *Pass) AltitudeKm() []float64 {
	out := make([]float64, len(p.Radius))
	for i, r := range p.Radius {
		out[i] = geo.AltitudeKm(r)
	}
	return out
}

// ECEF returns the WGS-84 position of every sample in meters, taking the
// altitude above the mean-radius sphere as the height.
func (p *Pass) ECEF() []r3.Vec {
	out := make([]r3.Vec, len(p.Lat))
	for i := range out {
		out[i] = geo.ToECEF(p.Lat[i], p.Lon[i], geo.AltitudeKm(p.Radius[i])*1000)
	}
	return out
}

// Window returns a copy of the samples between the samples nearest start and
// end, inclusive. Zero bounds leave that side open.
func (p *Pass) Window(start, end time.Time) (*Pass, error) {
	lo, hi, err := window.Select(p.Times, start, end)
	if err != nil {
		return nil, fmt.Errorf("pass %s: %w", p.Source, err)
	}
	hi++
	return &Pass{
		Source: p.Source,
		Times:  append([]time.Time(nil), p.Times[lo:hi]...),
		Lat:    append([]float64(nil), p.Lat[lo:hi]...),
		Lon:    append([]float64(nil), p.Lon[lo:hi]...),
		Radius: append([]float64(nil), p.Radius[lo:hi]...),
		Batch:  p.Batch.Slice(lo, hi),
	}, nil
}

// ApplyQualityMask sets the drift components of flagged samples to NaN and
// returns how many were masked.
func ApplyQualityMask(b *frame.SampleBatch) int {
	return b.MaskFlagged()
}

// Reader loads a pass.
type Reader interface {
	Read() (*Pass, error)
}

// Format names accepted by NewReader.
const (
	FormatNetCDF = "netcdf"
	FormatCSV    = "csv"
)

// NewReader returns the reader for format. An empty format is inferred from
// the file extension: .nc, .nc4 and .netcdf select NetCDF, .csv selects CSV
// and anything else is an error.
func NewReader(path, format string) (Reader, error) {
	if format == "" {
		ext := strings.ToLower(filepath.Ext(path))
		switch ext {
		case ".nc", ".nc4", ".netcdf":
			format = FormatNetCDF
		case ".csv":
			format = FormatCSV
		default:
			return nil, fmt.Errorf("unknown input format for extension %q of %s; set the format explicitly", ext, path)
		}
	}
	switch format {
	case FormatNetCDF:
		return &NetCDFReader{Path: path}, nil
	case FormatCSV:
		return &CSVReader{Path: path}, nil
	default:
		return nil, fmt.Errorf("unknown input format %q", format)
	}
}

// assemble builds a Pass from named float columns, timestamps and flags.
func assemble(source string, times []time.Time, cols map[string][]float64, flags []int) (*Pass, error) {
	p := &Pass{
		Source: source,
		Times:  times,
		Lat:    cols[ColLatitude],
		Lon:    cols[ColLongitude],
		Radius: cols[ColRadius],
		Batch: frame.SampleBatch{
			VsatN:       cols[ColVsatN],
			VsatE:       cols[ColVsatE],
			VsatC:       cols[ColVsatC],
			Vixh:        cols[ColVixh],
			Vixv:        cols[ColVixv],
			Viy:         cols[ColViy],
			Viz:         cols[ColViz],
			QualityFlag: flags,
		},
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
