package heatmap

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/HatiCode/commutemap/pkg/commute"
)

func TestPNGRenderer_Decodes(t *testing.T) {
	cfg := DefaultConfig().WithSize(480, 240)

	var buf bytes.Buffer
	if err := NewPNGRenderer(cfg).Render(&buf, fixtureSamples); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if b := img.Bounds(); b.Dx() != 480 || b.Dy() != 240 {
		t.Errorf("image size = %dx%d, want 480x240", b.Dx(), b.Dy())
	}
}

func TestPNGRenderer_CellColors(t *testing.T) {
	cfg := DefaultConfig()
	r := NewPNGRenderer(cfg)
	img := r.Image(fixtureSamples)
	area := cfg.PlotArea()

	tests := []struct {
		sample commute.Sample
		bucket Bucket
	}{
		{fixtureSamples[0], BucketFree},
		{fixtureSamples[1], BucketMild},
		{fixtureSamples[2], BucketHeavy},
	}

	for _, tt := range tests {
		cx, cy := cfg.BandCenter(area, tt.sample.X, tt.sample.Y)
		got := img.RGBAAt(int(cx), int(cy))
		want := blendOverWhite(cfg.Colors[tt.bucket].NRGBA())
		if !closeRGBA(got, want) {
			t.Errorf("pixel at sample %+v = %+v, want ~%+v", tt.sample, got, want)
		}
	}

	// a band with no sample stays background
	cx, cy := cfg.BandCenter(area, 0, 6)
	if got := img.RGBAAt(int(cx), int(cy)); got != colorBackground {
		t.Errorf("empty band pixel = %+v, want background", got)
	}
}

func TestPNGRenderer_OutOfRangeClipped(t *testing.T) {
	cfg := DefaultConfig().WithSize(300, 200)
	img := NewPNGRenderer(cfg).Image([]commute.Sample{sampleAt(40, 20, 99)})

	area := cfg.PlotArea()
	heavy := blendOverWhite(cfg.Colors[BucketHeavy].NRGBA())
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if area.Contains(float64(x), float64(y)) {
				continue
			}
			if closeRGBA(img.RGBAAt(x, y), heavy) {
				t.Fatalf("pixel (%d,%d) outside the plot area was filled", x, y)
			}
		}
	}
}

func TestRasterDisplay_SetPixelBounds(t *testing.T) {
	img := NewPNGRenderer(DefaultConfig().WithSize(10, 10)).Image(nil)
	d := &rasterDisplay{img: img}

	d.SetPixel(-1, -1, colorText)
	d.SetPixel(100, 100, colorText)
	d.SetPixel(2, 3, colorText)

	if got := img.RGBAAt(2, 3); got != colorText {
		t.Errorf("pixel (2,3) = %+v, want %+v", got, colorText)
	}
	if w, h := d.Size(); w != 10 || h != 10 {
		t.Errorf("Size() = %d,%d, want 10,10", w, h)
	}
}

func blendOverWhite(c color.NRGBA) color.RGBA {
	a := uint32(c.A)
	blend := func(v uint8) uint8 {
		return uint8((uint32(v)*a + 255*(255-a)) / 255)
	}
	return color.RGBA{R: blend(c.R), G: blend(c.G), B: blend(c.B), A: 0xff}
}

func closeRGBA(a, b color.RGBA) bool {
	near := func(x, y uint8) bool {
		d := int(x) - int(y)
		return d >= -2 && d <= 2
	}
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B) && near(a.A, b.A)
}
