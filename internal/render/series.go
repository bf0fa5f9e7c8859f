package render

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/spacephys/driftframe/internal/units"
)

// ComponentSeries writes a PNG with the rotated east, north and up
// components and the horizontal speed against time, converted to unit.
// Masked samples leave gaps.
func ComponentSeries(path string, tr Track, title, unit string) error {
	if err := tr.validate(); err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (UTC)"
	p.X.Tick.Marker = plot.TimeTicks{Format: "15:04:05"}
	p.Y.Label.Text = fmt.Sprintf("Velocity (%s)", units.Label(unit))
	p.Add(plotter.NewGrid())

	xs := tr.seconds()
	series := []struct {
		name string
		vals []float64
	}{
		{"East", tr.East},
		{"North", tr.North},
		{"Up", tr.Up},
		{"|Vh|", tr.Speed},
	}
	colors := generateColors(len(series))

	for i, s := range series {
		ys := make([]float64, len(s.vals))
		for j, v := range s.vals {
			ys[j] = units.ConvertSpeed(v, unit)
		}
		segs := segments(xs, ys)
		for k, seg := range segs {
			line, err := plotter.NewLine(seg)
			if err != nil {
				return err
			}
			line.Color = colors[i]
			line.Width = vg.Points(1)
			if s.name == "|Vh|" {
				line.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			}
			p.Add(line)
			if k == 0 {
				p.Legend.Add(s.name, line)
			}
		}
	}

	zero := plotter.NewFunction(func(float64) float64 { return 0 })
	zero.Color = color.Gray{Y: 160}
	p.Add(zero)

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save component plot: %w", err)
	}
	return nil
}
