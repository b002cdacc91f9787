package heatmap

import (
	"math"

	"github.com/HatiCode/commutemap/pkg/commute"
)

// Area is a rectangle in canvas pixels.
type Area struct {
	X, Y, W, H float64
}

// Contains reports whether the point lies inside the area.
func (a Area) Contains(x, y float64) bool {
	return x >= a.X && x <= a.X+a.W && y >= a.Y && y <= a.Y+a.H
}

// PlotArea is the part of the canvas left for cells once margins are taken.
func (c Config) PlotArea() Area {
	w := float64(c.Width - c.Margins.Left - c.Margins.Right)
	h := float64(c.Height - c.Margins.Top - c.Margins.Bottom)
	return Area{
		X: float64(c.Margins.Left),
		Y: float64(c.Margins.Top),
		W: math.Max(0, w),
		H: math.Max(0, h),
	}
}

// CellSize tiles the plot area: one band per hour horizontally and one per
// day vertically, each reduced by CellInset. Sizes never go negative.
func (c Config) CellSize(area Area) (w, h float64) {
	w = area.W/commute.HoursPerDay - c.CellInset
	h = area.H/commute.DaysPerWeek - c.CellInset
	return math.Max(0, w), math.Max(0, h)
}

// BandCenter returns the center of the band for hour x and day y.
// Day 0 is the top row. Indices outside the tables map outside the area.
func (c Config) BandCenter(area Area, x, y int) (cx, cy float64) {
	bw := area.W / commute.HoursPerDay
	bh := area.H / commute.DaysPerWeek
	return area.X + (float64(x)+0.5)*bw, area.Y + (float64(y)+0.5)*bh
}

// CellRect returns the rectangle drawn for a sample.
func (c Config) CellRect(area Area, s commute.Sample) Area {
	w, h := c.CellSize(area)
	cx, cy := c.BandCenter(area, s.X, s.Y)
	return Area{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}
