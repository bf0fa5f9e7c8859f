package render

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/spacephys/driftframe/internal/units"
)

// ReportOptions controls the HTML report.
type ReportOptions struct {
	Title    string
	Subtitle string
	Units    string

	// SpeedMax is the top of the track colour scale in m/s.
	SpeedMax float64

	// AssetsHost overrides where the page loads echarts from; empty uses
	// the library default.
	AssetsHost string
}

// HTMLReport renders a self-contained page with the component time series
// and the coloured ground track.
func HTMLReport(w io.Writer, tr Track, o ReportOptions) error {
	if err := tr.validate(); err != nil {
		return err
	}
	label := units.Label(o.Units)

	page := components.NewPage()
	page.PageTitle = o.Title
	if o.AssetsHost != "" {
		page.SetAssetsHost(o.AssetsHost)
	}
	page.AddCharts(componentChart(tr, o, label), trackChart(tr, o, label))

	if err := page.Render(w); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// WriteHTMLReport writes HTMLReport output to path.
func WriteHTMLReport(path string, tr Track, o ReportOptions) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := HTMLReport(f, tr, o); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func componentChart(tr Track, o ReportOptions, label string) *charts.Line {
	x := make([]string, tr.Len())
	for i, t := range tr.Times {
		x[i] = t.UTC().Format("15:04:05.000")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{PageTitle: o.Title, Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: o.Title, Subtitle: o.Subtitle}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Right: "10%"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Time (UTC)", NameLocation: "middle", NameGap: 25}),
		charts.WithYAxisOpts(opts.YAxis{Name: fmt.Sprintf("Velocity (%s)", label), NameLocation: "middle", NameGap: 45}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(x).
		AddSeries("East", lineData(tr.East, o.Units)).
		AddSeries("North", lineData(tr.North, o.Units)).
		AddSeries("Up", lineData(tr.Up, o.Units)).
		AddSeries("|Vh|", lineData(tr.Speed, o.Units))
	return line
}

// lineData converts to unit; non-finite samples become null so the chart
// shows a gap.
func lineData(vals []float64, unit string) []opts.LineData {
	out := make([]opts.LineData, len(vals))
	for i, v := range vals {
		if !finite(v) {
			out[i] = opts.LineData{Value: nil}
			continue
		}
		out[i] = opts.LineData{Value: units.ConvertSpeed(v, unit)}
	}
	return out
}

func trackChart(tr Track, o ReportOptions, label string) *charts.Scatter {
	data := make([]opts.ScatterData, 0, tr.Len())
	for i := 0; i < tr.Len(); i++ {
		if !finite(tr.Lon[i], tr.Lat[i], tr.Speed[i]) {
			continue
		}
		data = append(data, opts.ScatterData{
			Value: []interface{}{tr.Lon[i], tr.Lat[i], units.ConvertSpeed(tr.Speed[i], o.Units), tr.Times[i].UTC().Format(time.RFC3339)},
		})
	}

	speedMax := o.SpeedMax
	if speedMax <= 0 {
		speedMax = 2000
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "700px"}),
		charts.WithTitleOpts(opts.Title{Title: "Ground track", Subtitle: fmt.Sprintf("points=%d colour=|Vh| (%s)", len(data), label)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Longitude (°)", NameLocation: "middle", NameGap: 25, Min: "dataMin", Max: "dataMax"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Latitude (°)", NameLocation: "middle", NameGap: 30, Min: "dataMin", Max: "dataMax"}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Show:       opts.Bool(true),
			Calculable: opts.Bool(true),
			Min:        0,
			Max:        float32(units.ConvertSpeed(speedMax, o.Units)),
			Dimension:  "2",
			InRange:    &opts.VisualMapInRange{Color: coolStops(8)},
		}),
	)
	scatter.AddSeries("track", data, charts.WithScatterChartOpts(opts.ScatterChart{SymbolSize: 6}))
	return scatter
}
