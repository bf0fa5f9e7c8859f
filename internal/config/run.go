package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spacephys/driftframe/internal/units"
)

// Input formats understood by the dataset readers.
const (
	FormatNetCDF = "netcdf"
	FormatCSV    = "csv"
)

// RunConfig replaces the hardcoded paths, time windows and plot constants of
// one rotation run. Omitted fields fall back to the defaults returned by the
// Get* methods, so partial configs are safe.
type RunConfig struct {
	// Input
	Input  *string `json:"input,omitempty"`
	Format *string `json:"format,omitempty"` // "netcdf" or "csv"; inferred from extension when empty

	// Window, RFC 3339
	Start *string `json:"start,omitempty"`
	End   *string `json:"end,omitempty"`

	// Outputs
	PlotDir    *string `json:"plot_dir,omitempty"`
	HTMLReport *string `json:"html_report,omitempty"`
	DBPath     *string `json:"db_path,omitempty"`
	Units      *string `json:"units,omitempty"`

	// Map rendering
	SpeedMax    *float64 `json:"speed_max,omitempty"`
	QuiverScale *float64 `json:"quiver_scale,omitempty"`
	LonMin      *float64 `json:"lon_min,omitempty"`
	LonMax      *float64 `json:"lon_max,omitempty"`
	LatMin      *float64 `json:"lat_min,omitempty"`
	LatMax      *float64 `json:"lat_max,omitempty"`

	// Rotation
	ChunkSize *int `json:"chunk_size,omitempty"`
	Workers   *int `json:"workers,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRunConfig returns a RunConfig with all fields set to nil.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// LoadRunConfig loads a RunConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadRunConfig(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyRunConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *RunConfig) Validate() error {
	if c.Format != nil && *c.Format != "" && *c.Format != FormatNetCDF && *c.Format != FormatCSV {
		return fmt.Errorf("format must be %q or %q, got %q", FormatNetCDF, FormatCSV, *c.Format)
	}

	var start, end time.Time
	var err error
	if c.Start != nil && *c.Start != "" {
		if start, err = time.Parse(time.RFC3339, *c.Start); err != nil {
			return fmt.Errorf("invalid start '%s': %w", *c.Start, err)
		}
	}
	if c.End != nil && *c.End != "" {
		if end, err = time.Parse(time.RFC3339, *c.End); err != nil {
			return fmt.Errorf("invalid end '%s': %w", *c.End, err)
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("end %s is before start %s", *c.End, *c.Start)
	}

	if c.Units != nil && !units.IsValid(*c.Units) {
		return fmt.Errorf("units must be one of %s, got %q", units.GetValidUnitsString(), *c.Units)
	}

	if c.SpeedMax != nil && *c.SpeedMax <= 0 {
		return fmt.Errorf("speed_max must be positive, got %f", *c.SpeedMax)
	}
	if c.QuiverScale != nil && *c.QuiverScale <= 0 {
		return fmt.Errorf("quiver_scale must be positive, got %f", *c.QuiverScale)
	}
	if c.GetLonMin() >= c.GetLonMax() {
		return fmt.Errorf("lon_min %f must be below lon_max %f", c.GetLonMin(), c.GetLonMax())
	}
	if c.GetLatMin() >= c.GetLatMax() || c.GetLatMin() < -90 || c.GetLatMax() > 90 {
		return fmt.Errorf("latitude extent [%f, %f] is invalid", c.GetLatMin(), c.GetLatMax())
	}

	if c.ChunkSize != nil && *c.ChunkSize < 1 {
		return fmt.Errorf("chunk_size must be positive, got %d", *c.ChunkSize)
	}
	if c.Workers != nil && *c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", *c.Workers)
	}

	return nil
}

// GetInput returns the input path or "".
func (c *RunConfig) GetInput() string {
	if c.Input == nil {
		return ""
	}
	return *c.Input
}

// GetFormat returns the configured format, or one inferred from the input
// extension (.nc/.nc4/.netcdf → netcdf, .csv → csv). Any other extension
// yields "" so the reader reports the unknown format.
func (c *RunConfig) GetFormat() string {
	if c.Format != nil && *c.Format != "" {
		return *c.Format
	}
	switch strings.ToLower(filepath.Ext(c.GetInput())) {
	case ".nc", ".nc4", ".netcdf":
		return FormatNetCDF
	case ".csv":
		return FormatCSV
	default:
		return ""
	}
}

// GetStart parses the window start. The zero time means "first sample".
func (c *RunConfig) GetStart() time.Time {
	return parseOrZero(c.Start)
}

// GetEnd parses the window end. The zero time means "last sample".
func (c *RunConfig) GetEnd() time.Time {
	return parseOrZero(c.End)
}

func parseOrZero(s *string) time.Time {
	if s == nil || *s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, *s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// GetPlotDir returns the plot output directory or the default "plots".
func (c *RunConfig) GetPlotDir() string {
	if c.PlotDir == nil {
		return "plots"
	}
	return *c.PlotDir
}

// GetHTMLReport returns the HTML report path; "" disables the report.
func (c *RunConfig) GetHTMLReport() string {
	if c.HTMLReport == nil {
		return ""
	}
	return *c.HTMLReport
}

// GetDBPath returns the run store path; "" disables persistence.
func (c *RunConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}

// GetUnits returns the report units or the default m/s.
func (c *RunConfig) GetUnits() string {
	if c.Units == nil {
		return units.MPS
	}
	return *c.Units
}

// GetSpeedMax returns the colour scale maximum in m/s.
func (c *RunConfig) GetSpeedMax() float64 {
	if c.SpeedMax == nil {
		return 2000
	}
	return *c.SpeedMax
}

// GetQuiverScale returns the speed in m/s drawn as an arrow spanning the
// full map width.
func (c *RunConfig) GetQuiverScale() float64 {
	if c.QuiverScale == nil {
		return 10000
	}
	return *c.QuiverScale
}

// GetLonMin returns the western map edge in degrees.
func (c *RunConfig) GetLonMin() float64 {
	if c.LonMin == nil {
		return -159
	}
	return *c.LonMin
}

// GetLonMax returns the eastern map edge in degrees.
func (c *RunConfig) GetLonMax() float64 {
	if c.LonMax == nil {
		return -135
	}
	return *c.LonMax
}

// GetLatMin returns the southern map edge in degrees.
func (c *RunConfig) GetLatMin() float64 {
	if c.LatMin == nil {
		return 59
	}
	return *c.LatMin
}

// GetLatMax returns the northern map edge in degrees.
func (c *RunConfig) GetLatMax() float64 {
	if c.LatMax == nil {
		return 71
	}
	return *c.LatMax
}

// GetChunkSize returns the rotation chunk size.
func (c *RunConfig) GetChunkSize() int {
	if c.ChunkSize == nil {
		return 4096
	}
	return *c.ChunkSize
}

// GetWorkers returns the worker count; 0 means GOMAXPROCS.
func (c *RunConfig) GetWorkers() int {
	if c.Workers == nil {
		return 0
	}
	return *c.Workers
}

// Overrides carries CLI flag values. Empty strings and negative numbers mean
// "not set on the command line".
type Overrides struct {
	Input      string
	Format     string
	Start      string
	End        string
	PlotDir    string
	HTMLReport string
	DBPath     string
	Units      string
	ChunkSize  int
	Workers    int
}

// Apply copies every set override into c and re-validates.
func (c *RunConfig) Apply(o Overrides) error {
	setStr := func(dst **string, v string) {
		if v != "" {
			*dst = ptrString(v)
		}
	}
	setStr(&c.Input, o.Input)
	setStr(&c.Format, o.Format)
	setStr(&c.Start, o.Start)
	setStr(&c.End, o.End)
	setStr(&c.PlotDir, o.PlotDir)
	setStr(&c.HTMLReport, o.HTMLReport)
	setStr(&c.DBPath, o.DBPath)
	setStr(&c.Units, o.Units)
	if o.ChunkSize > 0 {
		c.ChunkSize = ptrInt(o.ChunkSize)
	}
	if o.Workers >= 0 {
		c.Workers = ptrInt(o.Workers)
	}
	return c.Validate()
}
