// Package testutil provides shared test fixtures: synthetic Swarm passes
// and HTTP request helpers.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// PassCSVHeader is the column header every CSV pass fixture starts with.
const PassCSVHeader = "Timestamp,Latitude,Longitude,Radius,VsatN,VsatE,VsatC,Vixh,Vixv,Viy,Viz,Quality_flags"

// PassStart is the unix time of the first sample in SouthboundPass.
const PassStart = 1457678855.0

// PassRow is one CSV sample.
type PassRow struct {
	Time                float64 // unix seconds
	Lat, Lon, Radius    float64
	VsatN, VsatE, VsatC float64
	Vixh, Vixv, Viy     float64
	Viz                 float64
	Flag                int
}

// SouthboundPass returns n samples at 2 Hz of a southbound pass over
// Alaska with a steady 100 m/s along-track drift and good quality flags.
func SouthboundPass(n int) []PassRow {
	rows := make([]PassRow, n)
	for i := range rows {
		rows[i] = PassRow{
			Time:   PassStart + 0.5*float64(i),
			Lat:    66 - 0.03*float64(i),
			Lon:    -147.4,
			Radius: 6831000,
			VsatN:  -7600,
			Vixh:   100,
			Vixv:   100,
			Flag:   1,
		}
	}
	return rows
}

// FormatPassCSV renders rows with PassCSVHeader.
func FormatPassCSV(rows []PassRow) string {
	var b strings.Builder
	b.WriteString(PassCSVHeader)
	b.WriteByte('\n')
	for _, r := range rows {
		fmt.Fprintf(&b, "%.3f,%g,%g,%g,%g,%g,%g,%g,%g,%g,%g,%d\n",
			r.Time, r.Lat, r.Lon, r.Radius, r.VsatN, r.VsatE, r.VsatC,
			r.Vixh, r.Vixv, r.Viy, r.Viz, r.Flag)
	}
	return b.String()
}

// WritePassCSV writes rows to name inside a fresh temp dir and returns the path.
func WritePassCSV(t *testing.T, name string, rows []PassRow) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(FormatPassCSV(rows)), 0o644); err != nil {
		t.Fatalf("write pass fixture: %v", err)
	}
	return path
}

// Serve runs a request without a body through h and returns the recorder.
func Serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

// AssertStatusCode checks that the response status code matches expected.
func AssertStatusCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("status code = %d, want %d", got, want)
	}
}
