// Package heatmap renders commute samples as a day-of-week × hour-of-day
// matrix.
//
// All presentation constants (labels, thresholds, colors, geometry) live in
// Config, which is passed by value. Bucket selection, cell sizing and
// tooltip text are pure methods on Config so they can be tested without a
// renderer.
package heatmap

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/HatiCode/commutemap/pkg/commute"
)

// Color is an RGB color with a fractional alpha in [0,1].
type Color struct {
	R, G, B uint8
	A       float64
}

// CSS returns the color as an rgba() expression.
func (c Color) CSS() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// RGB returns the opaque part of the color as an rgb() expression.
func (c Color) RGB() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

// NRGBA converts the color for raster drawing.
func (c Color) NRGBA() color.NRGBA {
	a := math.Round(math.Max(0, math.Min(1, c.A)) * 255)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a)}
}

// Margins is the space around the plot area, in pixels.
type Margins struct {
	Top, Right, Bottom, Left int
}

// Config is the immutable presentation configuration of a heatmap.
type Config struct {
	// Title is the dataset label shown above the chart and in the legend.
	Title string

	DayLabels  [commute.DaysPerWeek]string
	HourLabels [commute.HoursPerDay]string
	// RasterDayLabels are used by renderers limited to ASCII bitmap fonts.
	RasterDayLabels [commute.DaysPerWeek]string

	// Thresholds split values into buckets: v < T[0], T[0] <= v < T[1], ...
	Thresholds   [NumBuckets - 1]float64
	Colors       [NumBuckets]Color
	BucketLabels [NumBuckets]string

	BorderColor Color
	BorderWidth float64
	// CellInset is subtracted from each band so neighbouring cells do not touch.
	CellInset float64

	// ValueLabel and Unit compose the tooltip body: "<ValueLabel>: <v> <Unit>".
	ValueLabel string
	Unit       string

	// Width and Height are the canvas size in pixels.
	Width   int
	Height  int
	Margins Margins
}

// DefaultConfig returns the published dashboard configuration.
func DefaultConfig() Config {
	cfg := Config{
		Title:           "平均行車時間 (分鐘)",
		DayLabels:       [commute.DaysPerWeek]string{"週一", "週二", "週三", "週四", "週五", "週六", "週日"},
		RasterDayLabels: [commute.DaysPerWeek]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"},
		Thresholds:      [NumBuckets - 1]float64{25, 35, 45},
		Colors: [NumBuckets]Color{
			{R: 75, G: 192, B: 192, A: 0.6},
			{R: 255, G: 206, B: 86, A: 0.6},
			{R: 255, G: 159, B: 64, A: 0.6},
			{R: 255, G: 99, B: 132, A: 0.6},
		},
		BucketLabels: [NumBuckets]string{"順暢", "略塞", "塞", "很塞"},
		BorderColor:  Color{R: 255, G: 255, B: 255, A: 1},
		BorderWidth:  1,
		CellInset:    1,
		ValueLabel:   "平均時間",
		Unit:         "分鐘",
		Width:        960,
		Height:       420,
		Margins:      Margins{Top: 40, Right: 16, Bottom: 56, Left: 56},
	}
	for h := range cfg.HourLabels {
		cfg.HourLabels[h] = fmt.Sprintf("%d:00", h)
	}
	return cfg
}

// WithSize returns a copy of c with a different canvas size.
// Non-positive dimensions keep the current value.
func (c Config) WithSize(width, height int) Config {
	if width > 0 {
		c.Width = width
	}
	if height > 0 {
		c.Height = height
	}
	return c
}

// DayLabel resolves a day index, or "" when the index is outside the table.
func (c Config) DayLabel(day int) string {
	if day < 0 || day >= len(c.DayLabels) {
		return ""
	}
	return c.DayLabels[day]
}

// HourLabel resolves an hour index, or "" when the index is outside the table.
func (c Config) HourLabel(hour int) string {
	if hour < 0 || hour >= len(c.HourLabels) {
		return ""
	}
	return c.HourLabels[hour]
}

// TooltipTitle is the hover title of a cell, e.g. "週一 8:00".
func (c Config) TooltipTitle(s commute.Sample) string {
	return c.DayLabel(s.Y) + " " + c.HourLabel(s.X)
}

// TooltipLabel is the hover body of a cell, e.g. "平均時間: 20 分鐘".
func (c Config) TooltipLabel(s commute.Sample) string {
	return fmt.Sprintf("%s: %s %s", c.ValueLabel, FormatValue(s.V), c.Unit)
}

// FormatValue prints v in its shortest decimal form ("20", "23.5").
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
