package swarm

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvHeader = "Timestamp,Latitude,Longitude,Radius,VsatN,VsatE,VsatC,Vixh,Vixv,Viy,Viz,Quality_flags\n"

func writeCSV(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pass.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestCSVReader(t *testing.T) {
	path := writeCSV(t, csvHeader+
		"1457678855.5,65.1,-147.4,6831000,-7600,-150,2,100,90,-20,5,1\n"+
		"# comment lines are skipped\n"+
		"2016-03-11T06:47:36Z,65.0,-147.4,6831010,-7600,-150,2,,90,-20,5,0\n")

	p, err := (&CSVReader{Path: path}).Read()
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())

	assert.Equal(t, time.Date(2016, 3, 11, 6, 47, 35, 500_000_000, time.UTC), p.Times[0])
	assert.Equal(t, time.Date(2016, 3, 11, 6, 47, 36, 0, time.UTC), p.Times[1])
	assert.Equal(t, []float64{65.1, 65.0}, p.Lat)
	assert.Equal(t, []float64{6831000, 6831010}, p.Radius)
	assert.Equal(t, []float64{-7600, -7600}, p.Batch.VsatN)
	assert.Equal(t, 100.0, p.Batch.Vixh[0])
	assert.True(t, math.IsNaN(p.Batch.Vixh[1]), "empty cell reads as NaN")
	assert.Equal(t, []int{1, 0}, p.Batch.QualityFlag)
	assert.Equal(t, path, p.Source)
}

func TestCSVReader_ColumnOrderIsFree(t *testing.T) {
	cols := strings.Split(strings.TrimSpace(csvHeader), ",")
	for i, j := 0, len(cols)-1; i < j; i, j = i+1, j-1 {
		cols[i], cols[j] = cols[j], cols[i]
	}
	path := writeCSV(t, strings.Join(cols, ",")+",Extra\n"+
		"1,5,-20,90,100,2,-150,-7600,6831000,-147.4,65.1,1457678855,ignored\n")

	p, err := (&CSVReader{Path: path}).Read()
	require.NoError(t, err)
	assert.Equal(t, 65.1, p.Lat[0])
	assert.Equal(t, 5.0, p.Batch.Viz[0])
	assert.Equal(t, 1, p.Batch.QualityFlag[0])
}

func TestCSVReader_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"empty", "", "missing header"},
		{"missing column", "Timestamp,Latitude\n", "missing column"},
		{"bad timestamp", csvHeader + "soon,1,1,1,1,1,1,1,1,1,1,1\n", "invalid timestamp"},
		{"bad float", csvHeader + "1,x,1,1,1,1,1,1,1,1,1,1\n", "Latitude"},
		{"bad flag", csvHeader + "1,1,1,1,1,1,1,1,1,1,1,good\n", "Quality_flags"},
		{"short row", csvHeader + "1,1,1\n", "wrong number of fields"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := (&CSVReader{Path: writeCSV(t, tt.body)}).Read()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := (&CSVReader{Path: filepath.Join(t.TempDir(), "none.csv")}).Read()
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVReader_HeaderOnly(t *testing.T) {
	p, err := (&CSVReader{Path: writeCSV(t, csvHeader)}).Read()
	require.NoError(t, err)
	assert.Equal(t, 0, p.Len())
}
