package heatmap

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"

	"github.com/HatiCode/commutemap/pkg/commute"
)

var (
	colorBackground = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	colorText       = color.RGBA{R: 0x33, G: 0x33, B: 0x33, A: 0xff}
	colorAxis       = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// PNGRenderer rasterizes the heatmap. Labels are drawn with a tinyfont
// bitmap font, so they come from Config.RasterDayLabels and the hour table.
type PNGRenderer struct {
	Config Config
	// Font is optional; defaults to tinyfont.TomThumb.
	Font tinyfont.Fonter
}

// NewPNGRenderer creates a PNG renderer for cfg.
func NewPNGRenderer(cfg Config) *PNGRenderer {
	return &PNGRenderer{Config: cfg, Font: &tinyfont.TomThumb}
}

func (r *PNGRenderer) ContentType() string { return "image/png" }

// Render implements Renderer.
func (r *PNGRenderer) Render(w io.Writer, samples []commute.Sample) error {
	return png.Encode(w, r.Image(samples))
}

// Image draws the heatmap into a new RGBA image.
func (r *PNGRenderer) Image(samples []commute.Sample) *image.RGBA {
	cfg := r.Config
	img := image.NewRGBA(image.Rect(0, 0, max(cfg.Width, 1), max(cfg.Height, 1)))
	draw.Draw(img, img.Bounds(), image.NewUniform(colorBackground), image.Point{}, draw.Src)

	area := cfg.PlotArea()
	plot := toRect(area)
	strokeRect(img, plot.Inset(-1), colorAxis)

	border := cfg.BorderColor.NRGBA()
	for _, s := range samples {
		cell := toRect(cfg.CellRect(area, s)).Intersect(plot)
		if cell.Empty() {
			continue
		}
		fill := image.NewUniform(cfg.ColorFor(s.V).NRGBA())
		draw.Draw(img, cell, fill, image.Point{}, draw.Over)
		if cfg.BorderWidth > 0 {
			strokeRect(img, cell, border)
		}
	}

	r.drawLabels(img, area)
	return img
}

func (r *PNGRenderer) drawLabels(img *image.RGBA, area Area) {
	font := r.Font
	if font == nil {
		font = &tinyfont.TomThumb
	}
	d := &rasterDisplay{img: img}
	cfg := r.Config

	for h := 0; h < commute.HoursPerDay; h++ {
		label := cfg.HourLabel(h)
		cx, _ := cfg.BandCenter(area, h, 0)
		_, width := tinyfont.LineWidth(font, label)
		x := int16(math.Round(cx)) - int16(width/2)
		y := int16(math.Round(area.Y+area.H)) + 12
		tinyfont.WriteLine(d, font, x, y, label, colorText)
	}

	for day := 0; day < commute.DaysPerWeek; day++ {
		label := cfg.RasterDayLabels[day]
		_, cy := cfg.BandCenter(area, 0, day)
		_, width := tinyfont.LineWidth(font, label)
		x := int16(math.Round(area.X)) - 6 - int16(width)
		y := int16(math.Round(cy)) + 2
		tinyfont.WriteLine(d, font, x, y, label, colorText)
	}
}

// rasterDisplay lets tinyfont draw into an image.RGBA.
type rasterDisplay struct {
	img *image.RGBA
}

var _ drivers.Displayer = (*rasterDisplay)(nil)

func (d *rasterDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d *rasterDisplay) SetPixel(x, y int16, c color.RGBA) {
	p := image.Pt(int(x), int(y))
	if !p.In(d.img.Bounds()) {
		return
	}
	d.img.SetRGBA(p.X, p.Y, c)
}

func (d *rasterDisplay) Display() error {
	return nil
}

func toRect(a Area) image.Rectangle {
	return image.Rect(
		int(math.Round(a.X)),
		int(math.Round(a.Y)),
		int(math.Round(a.X+a.W)),
		int(math.Round(a.Y+a.H)),
	)
}

func strokeRect(img *image.RGBA, r image.Rectangle, c color.Color) {
	if r.Empty() {
		return
	}
	src := image.NewUniform(c)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(img, e.Intersect(img.Bounds()), src, image.Point{}, draw.Over)
	}
}
