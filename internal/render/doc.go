// Package render draws rotated drift tracks.
//
// Responsibilities:
//   - quiver map PNG of horizontal drift along the satellite track, coloured
//     by horizontal speed, with optional line-of-sight arrows
//   - PNG time series of the rotated east/north/up components
//   - standalone HTML report with interactive ECharts views of the same data
//
// Key types:
//   - Track: per-sample position and rotated velocity in m/s
//   - MapOptions, ReportOptions: extent, colour scale and labelling
package render
