package render

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/spacephys/driftframe/internal/geo"
)

// quiver draws one arrow per sample from (X, Y) to (X+U·k, Y+V·k) in data
// coordinates, where k converts vector units to data units.
type quiver struct {
	X, Y, U, V []float64

	// K is data units per vector unit.
	K float64

	// Color returns the colour of arrow i; nil uses LineStyle.Color.
	Color func(i int) color.Color

	LineStyle draw.LineStyle
	HeadFrac  float64 // head length as a fraction of shaft length
}

var (
	_ plot.Plotter     = (*quiver)(nil)
	_ plot.DataRanger  = (*quiver)(nil)
	_ plot.Thumbnailer = (*quiver)(nil)
)

func newQuiver(x, y, u, v []float64, k float64) *quiver {
	return &quiver{
		X: x, Y: y, U: u, V: v, K: k,
		LineStyle: draw.LineStyle{Color: color.Black, Width: vg.Points(1.5)},
		HeadFrac:  0.3,
	}
}

// Plot implements plot.Plotter. Arrows with a non-finite component are
// skipped.
func (q *quiver) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)
	for i := range q.X {
		if !finite(q.X[i], q.Y[i], q.U[i], q.V[i]) {
			continue
		}
		sty := q.LineStyle
		if q.Color != nil {
			sty.Color = q.Color(i)
		}
		x0, y0 := trX(q.X[i]), trY(q.Y[i])
		x1, y1 := trX(q.X[i]+q.U[i]*q.K), trY(q.Y[i]+q.V[i]*q.K)
		q.arrow(&c, sty, x0, y0, x1, y1)
	}
}

func (q *quiver) arrow(c *draw.Canvas, sty draw.LineStyle, x0, y0, x1, y1 vg.Length) {
	c.StrokeLine2(sty, x0, y0, x1, y1)

	dx, dy := float64(x1-x0), float64(y1-y0)
	shaft := math.Hypot(dx, dy)
	if shaft == 0 {
		return
	}
	head := shaft * q.HeadFrac
	angle := math.Atan2(dy, dx)
	for _, side := range []float64{-1, 1} {
		a := angle + math.Pi - side*math.Pi/7
		hx := x1 + vg.Length(head*math.Cos(a))
		hy := y1 + vg.Length(head*math.Sin(a))
		c.StrokeLine2(sty, x1, y1, hx, hy)
	}
}

// DataRange implements plot.DataRanger over arrow tails and heads.
func (q *quiver) DataRange() (xmin, xmax, ymin, ymax float64) {
	xmin, ymin = math.Inf(1), math.Inf(1)
	xmax, ymax = math.Inf(-1), math.Inf(-1)
	for i := range q.X {
		if !finite(q.X[i], q.Y[i], q.U[i], q.V[i]) {
			continue
		}
		for _, p := range [][2]float64{{q.X[i], q.Y[i]}, {q.X[i] + q.U[i]*q.K, q.Y[i] + q.V[i]*q.K}} {
			xmin, xmax = math.Min(xmin, p[0]), math.Max(xmax, p[0])
			ymin, ymax = math.Min(ymin, p[1]), math.Max(ymax, p[1])
		}
	}
	if math.IsInf(xmin, 1) {
		return 0, 0, 0, 0
	}
	return xmin, xmax, ymin, ymax
}

// Thumbnail implements plot.Thumbnailer with a horizontal arrow.
func (q *quiver) Thumbnail(c *draw.Canvas) {
	y := c.Center().Y
	q.arrow(c, q.LineStyle, c.Min.X, y, c.Max.X, y)
}

// MapOptions controls QuiverMap.
type MapOptions struct {
	Title                          string
	LonMin, LonMax, LatMin, LatMax float64

	// SpeedMax is the top of the colour scale in m/s.
	SpeedMax float64

	// QuiverScale is the speed in m/s drawn as an arrow spanning the full
	// map width.
	QuiverScale float64

	// KeySpeed labels the legend arrow; 0 selects 500 m/s.
	KeySpeed float64

	// LOSScale is the number of unit line-of-sight arrows spanning the map
	// width; 0 selects 20.
	LOSScale float64
}

func (o MapOptions) keySpeed() float64 {
	if o.KeySpeed <= 0 {
		return 500
	}
	return o.KeySpeed
}

func (o MapOptions) losScale() float64 {
	if o.LOSScale <= 0 {
		return 20
	}
	return o.LOSScale
}

// QuiverMap writes a PNG map of horizontal drift along the track to path.
// Arrows are corrected for the longitude convergence of the plate carrée
// projection and coloured by Track.Speed.
func QuiverMap(path string, tr Track, o MapOptions) error {
	if err := tr.validate(); err != nil {
		return err
	}
	if o.LonMax <= o.LonMin || o.LatMax <= o.LatMin {
		return fmt.Errorf("render: invalid map extent lon [%f, %f] lat [%f, %f]", o.LonMin, o.LonMax, o.LatMin, o.LatMax)
	}
	if o.QuiverScale <= 0 || o.SpeedMax <= 0 {
		return fmt.Errorf("render: quiver scale and speed max must be positive")
	}

	p := plot.New()
	p.Title.Text = o.Title
	p.X.Label.Text = "Longitude (°)"
	p.Y.Label.Text = "Latitude (°)"
	p.Add(plotter.NewGrid())

	if err := addTrackLine(p, tr); err != nil {
		return err
	}

	width := o.LonMax - o.LonMin
	n := tr.Len()
	u, v := make([]float64, n), make([]float64, n)
	for i := 0; i < n; i++ {
		u[i], v[i] = geo.ScaleUV(tr.Lat[i], tr.East[i], tr.North[i])
	}
	drift := newQuiver(tr.Lon, tr.Lat, u, v, width/o.QuiverScale)
	drift.Color = func(i int) color.Color { return coolColor(tr.Speed[i], 0, o.SpeedMax) }
	p.Add(drift)

	key := newQuiver(nil, nil, nil, nil, 0)
	p.Legend.Add(fmt.Sprintf("V=%gm/s", o.keySpeed()), key)

	if tr.HasLOS() {
		lu, lv := make([]float64, n), make([]float64, n)
		for i := 0; i < n; i++ {
			lu[i], lv[i] = geo.ScaleUV(tr.Lat[i], tr.LOSEast[i], tr.LOSNorth[i])
		}
		los := newQuiver(tr.Lon, tr.Lat, lu, lv, width/o.losScale())
		los.LineStyle.Color = color.RGBA{R: 255, A: 255}
		los.LineStyle.Width = vg.Points(1)
		p.Add(los)
		p.Legend.Add("LOS", los)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	// Fixed extent; Add widens the axes to fit every arrow.
	p.X.Min, p.X.Max = o.LonMin, o.LonMax
	p.Y.Min, p.Y.Max = o.LatMin, o.LatMax

	if err := p.Save(10*vg.Inch, 8*vg.Inch, path); err != nil {
		return fmt.Errorf("save quiver map: %w", err)
	}
	return nil
}

// addTrackLine draws the ground track, split at non-finite positions.
func addTrackLine(p *plot.Plot, tr Track) error {
	for _, seg := range segments(tr.Lon, tr.Lat) {
		line, err := plotter.NewLine(seg)
		if err != nil {
			return err
		}
		line.Color = color.Gray{Y: 96}
		line.Width = vg.Points(0.75)
		line.Dashes = []vg.Length{vg.Points(3), vg.Points(2)}
		p.Add(line)
	}
	return nil
}

// segments splits (x, y) into runs of finite points.
func segments(x, y []float64) []plotter.XYs {
	var out []plotter.XYs
	var cur plotter.XYs
	for i := range x {
		if !finite(x[i], y[i]) {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, plotter.XY{X: x[i], Y: y[i]})
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}
