package heatmap

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Theme is the YAML overlay applied on top of DefaultConfig. Every field is
// optional; omitted fields keep their default.
//
//	title: "Average commute (min)"
//	day_labels: [Mon, Tue, Wed, Thu, Fri, Sat, Sun]
//	thresholds: [20, 30, 40]
//	colors: ["rgba(75,192,192,0.6)", "#ffce56", "rgba(255,159,64,0.6)", "rgba(255,99,132,0.6)"]
type Theme struct {
	Title           string    `yaml:"title"`
	DayLabels       []string  `yaml:"day_labels"`
	HourLabels      []string  `yaml:"hour_labels"`
	RasterDayLabels []string  `yaml:"raster_day_labels"`
	Thresholds      []float64 `yaml:"thresholds"`
	Colors          []string  `yaml:"colors"`
	BucketLabels    []string  `yaml:"bucket_labels"`
	BorderColor     string    `yaml:"border_color"`
	BorderWidth     *float64  `yaml:"border_width"`
	CellInset       *float64  `yaml:"cell_inset"`
	ValueLabel      string    `yaml:"value_label"`
	Unit            string    `yaml:"unit"`
	Width           int       `yaml:"width"`
	Height          int       `yaml:"height"`
	Margins         *struct {
		Top    int `yaml:"top"`
		Right  int `yaml:"right"`
		Bottom int `yaml:"bottom"`
		Left   int `yaml:"left"`
	} `yaml:"margins"`
}

// LoadTheme reads a YAML theme file and applies it to DefaultConfig.
func LoadTheme(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read theme %s: %w", path, err)
	}
	return ParseTheme(data)
}

// ParseTheme applies a YAML theme document to DefaultConfig.
func ParseTheme(data []byte) (Config, error) {
	var th Theme
	if err := yaml.Unmarshal(data, &th); err != nil {
		return Config{}, fmt.Errorf("parse theme: %w", err)
	}
	return th.Apply(DefaultConfig())
}

// Apply overlays the theme on base and validates the result.
func (th Theme) Apply(base Config) (Config, error) {
	cfg := base

	if th.Title != "" {
		cfg.Title = th.Title
	}
	if err := copyLabels(cfg.DayLabels[:], th.DayLabels, "day_labels"); err != nil {
		return Config{}, err
	}
	if err := copyLabels(cfg.HourLabels[:], th.HourLabels, "hour_labels"); err != nil {
		return Config{}, err
	}
	if err := copyLabels(cfg.RasterDayLabels[:], th.RasterDayLabels, "raster_day_labels"); err != nil {
		return Config{}, err
	}
	if err := copyLabels(cfg.BucketLabels[:], th.BucketLabels, "bucket_labels"); err != nil {
		return Config{}, err
	}

	if th.Thresholds != nil {
		if len(th.Thresholds) != len(cfg.Thresholds) {
			return Config{}, fmt.Errorf("thresholds: want %d values, got %d", len(cfg.Thresholds), len(th.Thresholds))
		}
		copy(cfg.Thresholds[:], th.Thresholds)
	}
	for i := 1; i < len(cfg.Thresholds); i++ {
		if cfg.Thresholds[i] <= cfg.Thresholds[i-1] {
			return Config{}, fmt.Errorf("thresholds must be strictly ascending: %v", cfg.Thresholds)
		}
	}

	if th.Colors != nil {
		if len(th.Colors) != NumBuckets {
			return Config{}, fmt.Errorf("colors: want %d values, got %d", NumBuckets, len(th.Colors))
		}
		for i, s := range th.Colors {
			c, err := ParseColor(s)
			if err != nil {
				return Config{}, fmt.Errorf("colors[%d]: %w", i, err)
			}
			cfg.Colors[i] = c
		}
	}
	if th.BorderColor != "" {
		c, err := ParseColor(th.BorderColor)
		if err != nil {
			return Config{}, fmt.Errorf("border_color: %w", err)
		}
		cfg.BorderColor = c
	}
	if th.BorderWidth != nil {
		cfg.BorderWidth = *th.BorderWidth
	}
	if th.CellInset != nil {
		cfg.CellInset = *th.CellInset
	}
	if th.ValueLabel != "" {
		cfg.ValueLabel = th.ValueLabel
	}
	if th.Unit != "" {
		cfg.Unit = th.Unit
	}
	cfg = cfg.WithSize(th.Width, th.Height)
	if th.Margins != nil {
		cfg.Margins = Margins{
			Top:    th.Margins.Top,
			Right:  th.Margins.Right,
			Bottom: th.Margins.Bottom,
			Left:   th.Margins.Left,
		}
	}

	return cfg, nil
}

func copyLabels(dst, src []string, field string) error {
	if src == nil {
		return nil
	}
	if len(src) != len(dst) {
		return fmt.Errorf("%s: want %d labels, got %d", field, len(dst), len(src))
	}
	copy(dst, src)
	return nil
}

// ParseColor accepts "rgba(r, g, b, a)", "rgb(r, g, b)" and "#rrggbb".
func ParseColor(s string) (Color, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	var c Color
	var r, g, b int
	switch {
	case strings.HasPrefix(s, "rgba("):
		if _, err := fmt.Sscanf(s, "rgba(%d,%d,%d,%g)", &r, &g, &b, &c.A); err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
	case strings.HasPrefix(s, "rgb("):
		if _, err := fmt.Sscanf(s, "rgb(%d,%d,%d)", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c.A = 1
	case strings.HasPrefix(s, "#") && len(s) == 7:
		if _, err := fmt.Sscanf(s, "#%2x%2x%2x", &r, &g, &b); err != nil {
			return Color{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		c.A = 1
	default:
		return Color{}, fmt.Errorf("invalid color %q", s)
	}

	for _, v := range []int{r, g, b} {
		if v < 0 || v > 255 {
			return Color{}, fmt.Errorf("invalid color %q: component out of range", s)
		}
	}
	if c.A < 0 || c.A > 1 {
		return Color{}, fmt.Errorf("invalid color %q: alpha out of range", s)
	}
	c.R, c.G, c.B = uint8(r), uint8(g), uint8(b)
	return c, nil
}
