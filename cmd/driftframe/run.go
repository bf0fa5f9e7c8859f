package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spacephys/driftframe/internal/config"
	"github.com/spacephys/driftframe/internal/db"
	"github.com/spacephys/driftframe/internal/frame"
	"github.com/spacephys/driftframe/internal/render"
	"github.com/spacephys/driftframe/internal/swarm"
	"github.com/spacephys/driftframe/internal/units"
)

type runOptions struct {
	Print bool
	Out   io.Writer

	// CompareDrift is a ground-radar ENU drift (m/s) projected onto each
	// sample's cross-track axis and printed next to the measured Viy.
	CompareDrift *[3]float64
}

// runOutput collects what one rotation run produced.
type runOutput struct {
	Pass    *swarm.Pass
	Result  *frame.Result
	Summary frame.Summary
	Files   []string
	RunID   string
}

// run reads the configured pass, rotates it and writes every enabled output.
func run(ctx context.Context, cfg *config.RunConfig, opts runOptions) (*runOutput, error) {
	reader, err := swarm.NewReader(cfg.GetInput(), cfg.GetFormat())
	if err != nil {
		return nil, err
	}
	pass, err := reader.Read()
	if err != nil {
		return nil, err
	}
	w, err := pass.Window(cfg.GetStart(), cfg.GetEnd())
	if err != nil {
		return nil, err
	}
	log.Printf("selected %d of %d samples (%s .. %s)", w.Len(), pass.Len(),
		w.Times[0].Format("2006-01-02T15:04:05.000Z"), w.Times[w.Len()-1].Format("2006-01-02T15:04:05.000Z"))
	if n := swarm.ApplyQualityMask(&w.Batch); n > 0 {
		log.Printf("masked drift of %d samples with quality flag < %d", n, frame.MinQualityFlag)
	}

	res, err := frame.RotateParallel(ctx, &w.Batch, frame.ParallelOptions{
		ChunkSize: cfg.GetChunkSize(),
		Workers:   cfg.GetWorkers(),
	})
	if err != nil {
		return nil, fmt.Errorf("rotate: %w", err)
	}
	sum := frame.Summarize(res)
	unit := cfg.GetUnits()
	log.Printf("rotated %d samples: valid=%d missing=%d degenerate=%d mean|Vh|=%.1f%s max|Vh|=%.1f%s",
		sum.Samples, sum.Valid, sum.Missing, sum.Degenerate,
		units.ConvertSpeed(sum.MeanHorizontalSpeed, unit), units.Label(unit),
		units.ConvertSpeed(sum.MaxHorizontalSpeed, unit), units.Label(unit))
	if sum.Degenerate > 0 {
		log.Printf("first degenerate sample: %v", firstErr(res, frame.ErrDegenerateSample))
	}
	if sum.NonOrthonormal > 0 {
		log.Printf("%d samples have an inclined ram vector; their rotation is not orthonormal", sum.NonOrthonormal)
	}

	out := &runOutput{Pass: w, Result: res, Summary: sum}

	if opts.Print && opts.Out != nil {
		printSamples(opts.Out, w, res, unit)
	}
	if opts.CompareDrift != nil && opts.Out != nil {
		printCrossTrack(opts.Out, w, res, *opts.CompareDrift, unit)
	}

	tr := buildTrack(w, res)
	base := filepath.Base(cfg.GetInput())

	if dir := cfg.GetPlotDir(); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create plot dir: %w", err)
		}
		mapPath := filepath.Join(dir, render.OutputName(cfg.GetInput(), "map", "png"))
		err := render.QuiverMap(mapPath, tr, render.MapOptions{
			Title:       "Swarm Velocity and LOS Vectors",
			LonMin:      cfg.GetLonMin(),
			LonMax:      cfg.GetLonMax(),
			LatMin:      cfg.GetLatMin(),
			LatMax:      cfg.GetLatMax(),
			SpeedMax:    cfg.GetSpeedMax(),
			QuiverScale: cfg.GetQuiverScale(),
		})
		if err != nil {
			return nil, err
		}
		seriesPath := filepath.Join(dir, render.OutputName(cfg.GetInput(), "components", "png"))
		if err := render.ComponentSeries(seriesPath, tr, "Rotated ion drift (ENU)", unit); err != nil {
			return nil, err
		}
		out.Files = append(out.Files, mapPath, seriesPath)
	}

	if path := cfg.GetHTMLReport(); path != "" {
		err := render.WriteHTMLReport(path, tr, render.ReportOptions{
			Title:    "Rotated ion drift: " + base,
			Subtitle: fmt.Sprintf("valid=%d missing=%d degenerate=%d", sum.Valid, sum.Missing, sum.Degenerate),
			Units:    unit,
			SpeedMax: cfg.GetSpeedMax(),
		})
		if err != nil {
			return nil, err
		}
		out.Files = append(out.Files, path)
	}
	for _, f := range out.Files {
		log.Printf("wrote %s", f)
	}

	if path := cfg.GetDBPath(); path != "" {
		store, err := db.Open(path)
		if err != nil {
			return nil, err
		}
		defer store.Close()
		id, err := store.SaveRun(ctx, buildRecord(w, res, sum))
		if err != nil {
			return nil, err
		}
		out.RunID = id
		log.Printf("saved run %s to %s", id, path)
	}
	return out, nil
}

func firstErr(res *frame.Result, target error) error {
	for _, err := range res.Errs() {
		if errors.Is(err, target) {
			return err
		}
	}
	return nil
}

func buildTrack(p *swarm.Pass, res *frame.Result) render.Track {
	n := p.Len()
	tr := render.Track{
		Times:    p.Times,
		Lat:      p.Lat,
		Lon:      p.Lon,
		East:     res.East,
		North:    res.North,
		Up:       res.Up,
		Speed:    res.HorizontalSpeed,
		LOSEast:  make([]float64, n),
		LOSNorth: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		los := p.Batch.LineOfSight(i)
		tr.LOSEast[i], tr.LOSNorth[i] = los[0], los[1]
	}
	return tr
}

func buildRecord(p *swarm.Pass, res *frame.Result, sum frame.Summary) db.RunRecord {
	alt := p.AltitudeKm()
	rec := db.RunRecord{
		Source:       p.Source,
		WindowStart:  p.Times[0],
		WindowEnd:    p.Times[p.Len()-1],
		SampleCount:  sum.Samples,
		InvalidCount: sum.Invalid(),
		Samples:      make([]db.SampleRow, p.Len()),
	}
	for i := range rec.Samples {
		rec.Samples[i] = db.SampleRow{
			Index:           i,
			Time:            p.Times[i],
			Lat:             p.Lat[i],
			Lon:             p.Lon[i],
			AltKm:           alt[i],
			East:            res.East[i],
			North:           res.North[i],
			Up:              res.Up[i],
			HorizontalSpeed: res.HorizontalSpeed[i],
			Status:          res.Status[i].String(),
		}
	}
	return rec
}

// printSamples writes one row per sample in the report units, with the
// satellite ECEF position in km.
func printSamples(w io.Writer, p *swarm.Pass, res *frame.Result, unit string) {
	label := units.Label(unit)
	pos := p.ECEF()
	fmt.Fprintf(w, "%-24s %8s %9s %9s %9s %9s %10s %10s %10s %10s  %s\n",
		"time", "lat", "lon", "x km", "y km", "z km",
		"E "+label, "N "+label, "U "+label, "|Vh| "+label, "status")
	for i := 0; i < p.Len(); i++ {
		fmt.Fprintf(w, "%-24s %8.3f %9.3f %9.1f %9.1f %9.1f %10.2f %10.2f %10.2f %10.2f  %s\n",
			p.Times[i].Format("2006-01-02T15:04:05.000Z"), p.Lat[i], p.Lon[i],
			pos[i].X/1000, pos[i].Y/1000, pos[i].Z/1000,
			units.ConvertSpeed(res.East[i], unit), units.ConvertSpeed(res.North[i], unit),
			units.ConvertSpeed(res.Up[i], unit), units.ConvertSpeed(res.HorizontalSpeed[i], unit),
			res.Status[i])
	}
}

// printCrossTrack writes, per sample, the ground drift projected onto the
// cross-track axis beside the measured cross-track drift Viy.
func printCrossTrack(w io.Writer, p *swarm.Pass, res *frame.Result, drift [3]float64, unit string) {
	label := units.Label(unit)
	fmt.Fprintf(w, "%-24s %12s %12s %12s\n", "time", "ground "+label, "swarm "+label, "diff "+label)
	for i := 0; i < p.Len(); i++ {
		ground := p.Batch.ProjectCrossTrack(i, drift)
		measured := res.Vi[1][i]
		fmt.Fprintf(w, "%-24s %12.2f %12.2f %12.2f\n",
			p.Times[i].Format("2006-01-02T15:04:05.000Z"),
			units.ConvertSpeed(ground, unit), units.ConvertSpeed(measured, unit),
			units.ConvertSpeed(measured-ground, unit))
	}
}

// parseDrift parses "E,N,U" in m/s.
func parseDrift(s string) (*[3]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return nil, fmt.Errorf("drift %q: want E,N,U", s)
	}
	var v [3]float64
	for k, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("drift %q: %w", s, err)
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("drift %q: component %d is not finite", s, k)
		}
		v[k] = f
	}
	return &v, nil
}
