package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyRunConfigDefaults(t *testing.T) {
	cfg := EmptyRunConfig()

	if cfg.GetPlotDir() != "plots" {
		t.Errorf("GetPlotDir() = %q, want plots", cfg.GetPlotDir())
	}
	if cfg.GetUnits() != "mps" {
		t.Errorf("GetUnits() = %q, want mps", cfg.GetUnits())
	}
	if cfg.GetSpeedMax() != 2000 {
		t.Errorf("GetSpeedMax() = %f, want 2000", cfg.GetSpeedMax())
	}
	if cfg.GetQuiverScale() != 10000 {
		t.Errorf("GetQuiverScale() = %f, want 10000", cfg.GetQuiverScale())
	}
	if cfg.GetLonMin() != -159 || cfg.GetLonMax() != -135 {
		t.Errorf("lon extent = [%f, %f], want [-159, -135]", cfg.GetLonMin(), cfg.GetLonMax())
	}
	if cfg.GetLatMin() != 59 || cfg.GetLatMax() != 71 {
		t.Errorf("lat extent = [%f, %f], want [59, 71]", cfg.GetLatMin(), cfg.GetLatMax())
	}
	if cfg.GetChunkSize() != 4096 {
		t.Errorf("GetChunkSize() = %d, want 4096", cfg.GetChunkSize())
	}
	if cfg.GetWorkers() != 0 {
		t.Errorf("GetWorkers() = %d, want 0", cfg.GetWorkers())
	}
	if !cfg.GetStart().IsZero() || !cfg.GetEnd().IsZero() {
		t.Errorf("expected zero window, got %v..%v", cfg.GetStart(), cfg.GetEnd())
	}
	if cfg.GetDBPath() != "" || cfg.GetHTMLReport() != "" {
		t.Errorf("optional outputs should be disabled by default")
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadRunConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "run.json")

	testJSON := `{
  "input": "SW_EXPT_EFIA_TCT16_20160311.nc",
  "start": "2016-03-11T06:47:35Z",
  "end": "2016-03-11T06:49:35Z",
  "plot_dir": "out",
  "units": "kmps",
  "speed_max": 1500,
  "lat_min": 55,
  "workers": 2
}`
	require.NoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadRunConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "SW_EXPT_EFIA_TCT16_20160311.nc", cfg.GetInput())
	assert.Equal(t, FormatNetCDF, cfg.GetFormat())
	assert.Equal(t, time.Date(2016, 3, 11, 6, 47, 35, 0, time.UTC), cfg.GetStart())
	assert.Equal(t, time.Date(2016, 3, 11, 6, 49, 35, 0, time.UTC), cfg.GetEnd())
	assert.Equal(t, "out", cfg.GetPlotDir())
	assert.Equal(t, "kmps", cfg.GetUnits())
	assert.Equal(t, 1500.0, cfg.GetSpeedMax())
	assert.Equal(t, 55.0, cfg.GetLatMin())
	assert.Equal(t, 2, cfg.GetWorkers())

	// Unset fields fall back to defaults.
	assert.Equal(t, 71.0, cfg.GetLatMax())
	assert.Equal(t, 10000.0, cfg.GetQuiverScale())
}

func TestLoadRunConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"wrong extension", "run.yaml", `{}`, ".json extension"},
		{"bad json", "bad.json", `{`, "failed to parse config JSON"},
		{"bad format", "fmt.json", `{"format": "hdf5"}`, "format must be"},
		{"bad start", "start.json", `{"start": "yesterday"}`, "invalid start"},
		{"reversed window", "rev.json", `{"start": "2016-03-11T07:00:00Z", "end": "2016-03-11T06:00:00Z"}`, "is before start"},
		{"bad units", "units.json", `{"units": "furlongs"}`, "mps, kmps, kph"},
		{"negative speed max", "speed.json", `{"speed_max": -1}`, "speed_max must be positive"},
		{"inverted lon", "lon.json", `{"lon_min": 10, "lon_max": 5}`, "lon_min"},
		{"lat out of range", "lat.json", `{"lat_max": 95}`, "latitude extent"},
		{"zero chunk", "chunk.json", `{"chunk_size": 0}`, "chunk_size must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, tt.file)
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			_, err := LoadRunConfig(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadRunConfig(filepath.Join(tmpDir, "nope.json"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to stat")
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(tmpDir, "big.json")
		big := `{"input": "` + strings.Repeat("x", 1024*1024) + `"}`
		require.NoError(t, os.WriteFile(path, []byte(big), 0644))
		_, err := LoadRunConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "too large")
	})
}

func TestGetFormatInference(t *testing.T) {
	tests := []struct {
		input  string
		format *string
		want   string
	}{
		{"pass.nc", nil, FormatNetCDF},
		{"PASS.NC", nil, FormatNetCDF},
		{"pass.csv", nil, FormatCSV},
		{"pass", nil, ""},
		{"SW_EXPT_EFIA_TCT02_20160311.cdf", nil, ""},
		{"pass.nc", ptrString(FormatCSV), FormatCSV},
	}
	for _, tt := range tests {
		cfg := &RunConfig{Input: ptrString(tt.input), Format: tt.format}
		assert.Equal(t, tt.want, cfg.GetFormat(), "input %q", tt.input)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := &RunConfig{
		Input:   ptrString("file.nc"),
		PlotDir: ptrString("from-file"),
		Workers: ptrInt(8),
	}

	err := cfg.Apply(Overrides{
		PlotDir:   "from-flag",
		Units:     "kph",
		ChunkSize: 128,
		Workers:   -1,
	})
	require.NoError(t, err)

	assert.Equal(t, "file.nc", cfg.GetInput(), "unset flag keeps file value")
	assert.Equal(t, "from-flag", cfg.GetPlotDir(), "flag beats file")
	assert.Equal(t, "kph", cfg.GetUnits())
	assert.Equal(t, 128, cfg.GetChunkSize())
	assert.Equal(t, 8, cfg.GetWorkers(), "negative workers means unset")

	err = cfg.Apply(Overrides{Units: "leagues", Workers: -1})
	assert.Error(t, err)
}

func TestValidateSpeedScale(t *testing.T) {
	cfg := &RunConfig{SpeedMax: ptrFloat64(500), QuiverScale: ptrFloat64(0)}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quiver_scale")

	cfg.QuiverScale = ptrFloat64(2500)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 500.0, cfg.GetSpeedMax())
}
