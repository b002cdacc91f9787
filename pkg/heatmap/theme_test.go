package heatmap

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "rgba(75,192,192,0.6)", want: Color{R: 75, G: 192, B: 192, A: 0.6}},
		{in: "rgba(255, 99, 132, 0.6)", want: Color{R: 255, G: 99, B: 132, A: 0.6}},
		{in: "rgb(1,2,3)", want: Color{R: 1, G: 2, B: 3, A: 1}},
		{in: "#ffce56", want: Color{R: 0xff, G: 0xce, B: 0x56, A: 1}},
		{in: "  #000000 ", want: Color{A: 1}},
		{in: "rgb(256,0,0)", wantErr: true},
		{in: "rgba(0,0,0,1.5)", wantErr: true},
		{in: "#fff", wantErr: true},
		{in: "red", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseTheme_Overlay(t *testing.T) {
	doc := `
title: Average commute (min)
day_labels: [Mon, Tue, Wed, Thu, Fri, Sat, Sun]
thresholds: [20, 30, 40]
colors: ["#4bc0c0", "rgb(255,206,86)", "rgba(255,159,64,0.6)", "rgba(255,99,132,0.6)"]
value_label: Average
unit: min
width: 1200
margins:
  top: 10
  right: 10
  bottom: 10
  left: 10
`
	cfg, err := ParseTheme([]byte(doc))
	if err != nil {
		t.Fatalf("ParseTheme() error = %v", err)
	}

	if cfg.Title != "Average commute (min)" {
		t.Errorf("Title = %q", cfg.Title)
	}
	if cfg.DayLabels[0] != "Mon" || cfg.DayLabels[6] != "Sun" {
		t.Errorf("DayLabels = %v", cfg.DayLabels)
	}
	if cfg.Thresholds != [3]float64{20, 30, 40} {
		t.Errorf("Thresholds = %v", cfg.Thresholds)
	}
	if cfg.Colors[0] != (Color{R: 0x4b, G: 0xc0, B: 0xc0, A: 1}) {
		t.Errorf("Colors[0] = %+v", cfg.Colors[0])
	}
	if cfg.Width != 1200 || cfg.Height != 420 {
		t.Errorf("size = %dx%d, want 1200x420", cfg.Width, cfg.Height)
	}
	if cfg.Margins != (Margins{Top: 10, Right: 10, Bottom: 10, Left: 10}) {
		t.Errorf("Margins = %+v", cfg.Margins)
	}
	if got := cfg.Classify(25); got != BucketMild {
		t.Errorf("Classify(25) with themed thresholds = %v, want mild", got)
	}

	// untouched fields keep their defaults
	if cfg.HourLabels[8] != "8:00" || cfg.BorderWidth != 1 {
		t.Errorf("defaults lost: hour=%q border=%v", cfg.HourLabels[8], cfg.BorderWidth)
	}
	if got := cfg.TooltipLabel(sampleAt(8, 0, 20)); got != "Average: 20 min" {
		t.Errorf("TooltipLabel = %q", got)
	}
}

func TestParseTheme_Empty(t *testing.T) {
	cfg, err := ParseTheme(nil)
	if err != nil {
		t.Fatalf("ParseTheme(nil) error = %v", err)
	}
	if cfg != DefaultConfig() {
		t.Error("empty theme should yield DefaultConfig")
	}
}

func TestParseTheme_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{name: "short day labels", doc: "day_labels: [a, b]", wantErr: "day_labels"},
		{name: "hour labels", doc: "hour_labels: [a]", wantErr: "hour_labels"},
		{name: "threshold count", doc: "thresholds: [1, 2]", wantErr: "thresholds"},
		{name: "descending thresholds", doc: "thresholds: [30, 20, 40]", wantErr: "ascending"},
		{name: "equal thresholds", doc: "thresholds: [20, 20, 40]", wantErr: "ascending"},
		{name: "color count", doc: `colors: ["#000000"]`, wantErr: "colors"},
		{name: "bad color", doc: `colors: ["#000000", "#000000", "nope", "#000000"]`, wantErr: "colors[2]"},
		{name: "bad border", doc: "border_color: x", wantErr: "border_color"},
		{name: "malformed yaml", doc: "title: [", wantErr: "parse theme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTheme([]byte(tt.doc))
			if err == nil {
				t.Fatal("ParseTheme() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadTheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.yaml")
	if err := os.WriteFile(path, []byte("height: 600\nborder_width: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadTheme(path)
	if err != nil {
		t.Fatalf("LoadTheme() error = %v", err)
	}
	if cfg.Height != 600 || cfg.BorderWidth != 0 {
		t.Errorf("Height=%d BorderWidth=%v, want 600 and 0", cfg.Height, cfg.BorderWidth)
	}

	if _, err := LoadTheme(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("LoadTheme() on missing file expected error")
	}
}
