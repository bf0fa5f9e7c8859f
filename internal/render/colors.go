package render

import (
	"fmt"
	"image/color"
	"math"
)

// noDataColor marks samples without a finite speed.
var noDataColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// coolColor maps v in [vmin, vmax] onto the cyan-to-magenta "cool" ramp.
// Values outside the range are clamped.
func coolColor(v, vmin, vmax float64) color.Color {
	if !finite(v) || vmax <= vmin {
		return noDataColor
	}
	t := (v - vmin) / (vmax - vmin)
	t = math.Max(0, math.Min(1, t))
	return color.RGBA{R: uint8(math.Round(t * 255)), G: uint8(math.Round((1 - t) * 255)), B: 255, A: 255}
}

// coolStops returns n evenly spaced hex colours of the cool ramp, for chart
// visual maps.
func coolStops(n int) []string {
	if n < 2 {
		n = 2
	}
	out := make([]string, n)
	for i := range out {
		c := coolColor(float64(i), 0, float64(n-1)).(color.RGBA)
		out[i] = fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return out
}

// generateColors creates a palette of n distinct series colours.
func generateColors(n int) []color.Color {
	if n <= 0 {
		return nil
	}

	colors := make([]color.Color, n)
	for i := 0; i < n; i++ {
		hue := float64(i) / float64(n)
		r, g, b := hslToRGB(hue, 0.7, 0.5)
		colors[i] = color.RGBA{R: r, G: g, B: b, A: 255}
	}
	return colors
}

// hslToRGB converts HSL to RGB (0-255 range)
func hslToRGB(h, s, l float64) (r, g, b uint8) {
	var rf, gf, bf float64

	if s == 0 {
		rf, gf, bf = l, l, l
	} else {
		var q float64
		if l < 0.5 {
			q = l * (1 + s)
		} else {
			q = l + s - l*s
		}
		p := 2*l - q
		rf = hueToRGB(p, q, h+1.0/3.0)
		gf = hueToRGB(p, q, h)
		bf = hueToRGB(p, q, h-1.0/3.0)
	}

	return uint8(rf * 255), uint8(gf * 255), uint8(bf * 255)
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t += 1
	}
	if t > 1 {
		t -= 1
	}
	if t < 1.0/6.0 {
		return p + (q-p)*6*t
	}
	if t < 1.0/2.0 {
		return q
	}
	if t < 2.0/3.0 {
		return p + (q-p)*(2.0/3.0-t)*6
	}
	return p
}
