package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/spacephys/driftframe/internal/db"
	"github.com/spacephys/driftframe/internal/httputil"
	"github.com/spacephys/driftframe/internal/monitoring"
	"github.com/spacephys/driftframe/internal/render"
	"github.com/spacephys/driftframe/internal/units"
)

// ANSI escape codes for cyan and reset
const colorCyan = "\033[36m"
const colorReset = "\033[0m"
const colorYellow = "\033[33m"
const colorBoldGreen = "\033[1;32m"
const colorBoldRed = "\033[1;31m"

// Server exposes stored rotation runs over HTTP. Velocities are stored in
// m/s and converted to units on the way out.
type Server struct {
	store    *db.Store
	units    string
	speedMax float64
}

func NewServer(store *db.Store, units string, speedMax float64) *Server {
	return &Server{
		store:    store,
		units:    units,
		speedMax: speedMax,
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func statusCodeColor(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return colorBoldGreen + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 300 && statusCode < 400:
		return colorYellow + strconv.Itoa(statusCode) + colorReset
	case statusCode >= 400:
		return colorBoldRed + strconv.Itoa(statusCode) + colorReset
	default:
		return strconv.Itoa(statusCode)
	}
}

// LoggingMiddleware logs method, path, query, status, and duration
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		lrw := &loggingResponseWriter{w, http.StatusOK}
		next.ServeHTTP(lrw, r)
		monitoring.Logf(
			"[%s] %s %s%s%s %vms",
			statusCodeColor(lrw.statusCode), r.Method,
			colorCyan, r.RequestURI, colorReset,
			float64(time.Since(start).Nanoseconds())/1e6,
		)
	})
}

func (s *Server) ServeMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/runs", s.listRuns)
	mux.HandleFunc("/api/runs/{id}/samples", s.listSamples)
	mux.HandleFunc("/api/config", s.showConfig)
	mux.HandleFunc("/runs/{id}/report", s.showReport)
	return mux
}

type runAPI struct {
	RunID        string    `json:"run_id"`
	Source       string    `json:"source"`
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	SampleCount  int       `json:"sample_count"`
	InvalidCount int       `json:"invalid_count"`
	CreatedAt    time.Time `json:"created_at"`
}

type sampleAPI struct {
	Index           int       `json:"idx"`
	Time            time.Time `json:"t"`
	Lat             *float64  `json:"lat"`
	Lon             *float64  `json:"lon"`
	AltKm           *float64  `json:"alt_km"`
	East            *float64  `json:"v_east"`
	North           *float64  `json:"v_north"`
	Up              *float64  `json:"v_up"`
	HorizontalSpeed *float64  `json:"h_speed"`
	Status          string    `json:"status"`
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	runs, err := s.store.ListRuns(r.Context())
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to list runs: %v", err))
		return
	}

	out := make([]runAPI, len(runs))
	for i, rec := range runs {
		out[i] = runAPI{
			RunID:        rec.RunID,
			Source:       rec.Source,
			WindowStart:  rec.WindowStart,
			WindowEnd:    rec.WindowEnd,
			SampleCount:  rec.SampleCount,
			InvalidCount: rec.InvalidCount,
			CreatedAt:    rec.CreatedAt,
		}
	}
	httputil.WriteJSONOK(w, out)
}

// loadSamples fetches a run's samples, writing the error response itself
// when it fails.
func (s *Server) loadSamples(w http.ResponseWriter, r *http.Request) ([]db.SampleRow, bool) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return nil, false
	}
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		httputil.BadRequest(w, fmt.Sprintf("invalid run id %q", id))
		return nil, false
	}
	samples, err := s.store.LoadSamples(r.Context(), id)
	if errors.Is(err, db.ErrRunNotFound) {
		httputil.NotFound(w, fmt.Sprintf("run %s not found", id))
		return nil, false
	}
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("Failed to load samples: %v", err))
		return nil, false
	}
	return samples, true
}

func (s *Server) listSamples(w http.ResponseWriter, r *http.Request) {
	samples, ok := s.loadSamples(w, r)
	if !ok {
		return
	}

	speed := func(v float64) *float64 { return httputil.Float(units.ConvertSpeed(v, s.units)) }
	out := make([]sampleAPI, len(samples))
	for i, row := range samples {
		out[i] = sampleAPI{
			Index:           row.Index,
			Time:            row.Time,
			Lat:             httputil.Float(row.Lat),
			Lon:             httputil.Float(row.Lon),
			AltKm:           httputil.Float(row.AltKm),
			East:            speed(row.East),
			North:           speed(row.North),
			Up:              speed(row.Up),
			HorizontalSpeed: speed(row.HorizontalSpeed),
			Status:          row.Status,
		}
	}
	httputil.WriteJSONOK(w, out)
}

func (s *Server) showReport(w http.ResponseWriter, r *http.Request) {
	samples, ok := s.loadSamples(w, r)
	if !ok {
		return
	}
	if len(samples) == 0 {
		httputil.NotFound(w, "run has no samples")
		return
	}

	var tr render.Track
	for _, row := range samples {
		tr.Times = append(tr.Times, row.Time)
		tr.Lat = append(tr.Lat, row.Lat)
		tr.Lon = append(tr.Lon, row.Lon)
		tr.East = append(tr.East, row.East)
		tr.North = append(tr.North, row.North)
		tr.Up = append(tr.Up, row.Up)
		tr.Speed = append(tr.Speed, row.HorizontalSpeed)
	}

	var buf bytes.Buffer
	err := render.HTMLReport(&buf, tr, render.ReportOptions{
		Title:    "Rotated ion drift",
		Subtitle: fmt.Sprintf("run=%s samples=%d", r.PathValue("id"), len(samples)),
		Units:    s.units,
		SpeedMax: s.speedMax,
	})
	if err != nil {
		httputil.InternalServerError(w, fmt.Sprintf("render error: %v", err))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) showConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		httputil.MethodNotAllowed(w)
		return
	}

	httputil.WriteJSONOK(w, map[string]interface{}{
		"units":     s.units,
		"speed_max": s.speedMax,
	})
}
