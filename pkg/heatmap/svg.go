package heatmap

import (
	"html/template"
	"io"
	"math"

	"github.com/HatiCode/commutemap/pkg/commute"
)

// Renderer binds a sample set to a chart and writes it to w.
type Renderer interface {
	Render(w io.Writer, samples []commute.Sample) error
	// ContentType is the media type of what Render writes.
	ContentType() string
}

// ChartElementID is the id of the chart element in rendered markup.
const ChartElementID = "heatmap"

// SVGRenderer draws the heatmap as an inline SVG document. Each cell carries
// a <title> with the tooltip text so browsers show it on hover.
type SVGRenderer struct {
	Config Config
}

// NewSVGRenderer creates an SVG renderer for cfg.
func NewSVGRenderer(cfg Config) *SVGRenderer {
	return &SVGRenderer{Config: cfg}
}

func (r *SVGRenderer) ContentType() string { return "image/svg+xml; charset=utf-8" }

type svgTick struct {
	X, Y  float64
	Label string
}

type svgCell struct {
	X, Y, W, H float64
	Fill       string
	Opacity    float64
	Bucket     string
	Title      string
	Label      string
}

type svgLegendItem struct {
	X, Y    float64
	Fill    string
	Opacity float64
	Label   string
}

type svgView struct {
	ID            string
	Width, Height int
	Title         string
	TitleX        float64
	Plot          Area
	XTicks        []svgTick
	YTicks        []svgTick
	Cells         []svgCell
	Legend        []svgLegendItem
	Stroke        string
	StrokeOpacity float64
	StrokeWidth   float64
}

var svgTemplate = template.Must(template.New("svg").Parse(`<svg xmlns="http://www.w3.org/2000/svg" id="{{.ID}}" width="{{.Width}}" height="{{.Height}}" viewBox="0 0 {{.Width}} {{.Height}}" role="img" aria-label="{{.Title}}" font-family="sans-serif" font-size="11">
<defs><clipPath id="{{.ID}}-plot"><rect x="{{.Plot.X}}" y="{{.Plot.Y}}" width="{{.Plot.W}}" height="{{.Plot.H}}"/></clipPath></defs>
<text x="{{.TitleX}}" y="20" text-anchor="middle" font-size="14">{{.Title}}</text>
<g class="x-axis" text-anchor="middle">{{range .XTicks}}
<text x="{{.X}}" y="{{.Y}}">{{.Label}}</text>{{end}}
</g>
<g class="y-axis" text-anchor="end" dominant-baseline="middle">{{range .YTicks}}
<text x="{{.X}}" y="{{.Y}}">{{.Label}}</text>{{end}}
</g>
<g class="cells" clip-path="url(#{{.ID}}-plot)" stroke="{{.Stroke}}" stroke-opacity="{{.StrokeOpacity}}" stroke-width="{{.StrokeWidth}}">{{range .Cells}}
<rect x="{{.X}}" y="{{.Y}}" width="{{.W}}" height="{{.H}}" fill="{{.Fill}}" fill-opacity="{{.Opacity}}" data-bucket="{{.Bucket}}"><title>{{.Title}}
{{.Label}}</title></rect>{{end}}
</g>
<g class="legend">{{range .Legend}}
<rect x="{{.X}}" y="{{.Y}}" width="12" height="12" fill="{{.Fill}}" fill-opacity="{{.Opacity}}"/><text x="{{.X}}" y="{{.Y}}" dx="16" dy="10">{{.Label}}</text>{{end}}
</g>
</svg>
`))

// Render implements Renderer.
func (r *SVGRenderer) Render(w io.Writer, samples []commute.Sample) error {
	return svgTemplate.Execute(w, r.view(samples))
}

func (r *SVGRenderer) view(samples []commute.Sample) svgView {
	cfg := r.Config
	area := cfg.PlotArea()

	v := svgView{
		ID:            ChartElementID,
		Width:         cfg.Width,
		Height:        cfg.Height,
		Title:         cfg.Title,
		TitleX:        round2(float64(cfg.Width) / 2),
		Plot:          roundArea(area),
		Stroke:        cfg.BorderColor.RGB(),
		StrokeOpacity: cfg.BorderColor.A,
		StrokeWidth:   cfg.BorderWidth,
	}

	for h := 0; h < commute.HoursPerDay; h++ {
		cx, _ := cfg.BandCenter(area, h, 0)
		v.XTicks = append(v.XTicks, svgTick{
			X:     round2(cx),
			Y:     round2(area.Y + area.H + 16),
			Label: cfg.HourLabel(h),
		})
	}
	for d := 0; d < commute.DaysPerWeek; d++ {
		_, cy := cfg.BandCenter(area, 0, d)
		v.YTicks = append(v.YTicks, svgTick{
			X:     round2(area.X - 8),
			Y:     round2(cy),
			Label: cfg.DayLabel(d),
		})
	}

	v.Cells = make([]svgCell, 0, len(samples))
	for _, s := range samples {
		rect := cfg.CellRect(area, s)
		bucket := cfg.Classify(s.V)
		c := cfg.Colors[bucket]
		v.Cells = append(v.Cells, svgCell{
			X:       round2(rect.X),
			Y:       round2(rect.Y),
			W:       round2(rect.W),
			H:       round2(rect.H),
			Fill:    c.RGB(),
			Opacity: c.A,
			Bucket:  bucket.String(),
			Title:   cfg.TooltipTitle(s),
			Label:   cfg.TooltipLabel(s),
		})
	}

	legendY := float64(cfg.Height) - 20
	x := area.X
	for i, c := range cfg.Colors {
		v.Legend = append(v.Legend, svgLegendItem{
			X:       round2(x),
			Y:       round2(legendY),
			Fill:    c.RGB(),
			Opacity: c.A,
			Label:   cfg.BucketLabels[i],
		})
		x += 96
	}

	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundArea(a Area) Area {
	return Area{X: round2(a.X), Y: round2(a.Y), W: round2(a.W), H: round2(a.H)}
}
