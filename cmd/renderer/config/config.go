// Package config implements the commutemap renderer config.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// DefaultDataURL is the published commute data document.
const DefaultDataURL = "https://storage.googleapis.com/commute-data-public-james/commute_data.json"

const (
	SourceHTTP       = "http"
	SourcePrometheus = "prometheus"
)

// Config holds all renderer configuration.
type Config struct {
	Listen     string
	GRPCListen string

	Source       string
	DataURL      string
	FetchTimeout time.Duration
	PromURL      string
	PromQuery    string
	Window       time.Duration
	Step         time.Duration

	Theme       string
	Timezone    string
	Width       int
	Height      int
	CORSOrigins string

	LogFormat string
	LogLevel  string
}

// ParseFlags parses command-line flags and environment variables into a Config.
// A .env file (ENV_FILE, default ".env") is loaded first when present; it
// never overrides variables already set in the environment.
// Exits with status 1 if the configuration is invalid.
func ParseFlags() *Config {
	if err := LoadEnvFile(getEnv("ENV_FILE", ".env")); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg := &Config{}

	// Servers
	flag.StringVar(&cfg.Listen, "listen", getEnv("LISTEN", ":8080"), "HTTP listen address")
	flag.StringVar(&cfg.GRPCListen, "grpc-listen", getEnv("GRPC_LISTEN", ":50051"), "gRPC listen address (empty disables gRPC)")

	// Data source
	flag.StringVar(&cfg.Source, "source", getEnv("SOURCE", SourceHTTP), "Data source: http or prometheus")
	flag.StringVar(&cfg.DataURL, "data-url", getEnv("DATA_URL", DefaultDataURL), "Commute data JSON URL")
	flag.DurationVar(&cfg.FetchTimeout, "fetch-timeout", getEnvDuration("FETCH_TIMEOUT", 0), "Data fetch timeout (0 = none)")

	// Prometheus
	flag.StringVar(&cfg.PromURL, "prom-url", getEnv("PROM_URL", "http://localhost:9090"), "Prometheus URL")
	flag.StringVar(&cfg.PromQuery, "prom-query", getEnv("PROM_QUERY", ""), "Prometheus query (required with -source=prometheus)")
	flag.DurationVar(&cfg.Window, "window", getEnvDuration("WINDOW", 28*24*time.Hour), "Historical window averaged into the weekly table")
	flag.DurationVar(&cfg.Step, "step", getEnvDuration("STEP", time.Hour), "Prometheus query step")

	// Chart
	flag.StringVar(&cfg.Theme, "theme", getEnv("THEME", ""), "YAML theme file")
	flag.StringVar(&cfg.Timezone, "timezone", getEnv("TIMEZONE", "Asia/Taipei"), "Time zone of the status timestamp")
	flag.IntVar(&cfg.Width, "width", getEnvInt("WIDTH", 960), "Default chart width in pixels")
	flag.IntVar(&cfg.Height, "height", getEnvInt("HEIGHT", 420), "Default chart height in pixels")
	flag.StringVar(&cfg.CORSOrigins, "cors-origins", getEnv("CORS_ORIGINS", "*"), "Comma-separated origins allowed on /api/*")

	// Logging
	flag.StringVar(&cfg.LogFormat, "log-format", getEnv("LOG_FORMAT", "text"), "Log format: text or json")
	flag.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	flag.Parse()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

// Validate reports the first configuration problem.
func (c *Config) Validate() error {
	switch c.Source {
	case SourceHTTP:
		if c.DataURL == "" {
			return errors.New("--data-url is required")
		}
	case SourcePrometheus:
		if c.PromQuery == "" {
			return errors.New("--prom-query is required with --source=prometheus")
		}
		if c.Step <= 0 || c.Window < c.Step {
			return fmt.Errorf("--window (%v) must be at least --step (%v) and step positive", c.Window, c.Step)
		}
	default:
		return fmt.Errorf("--source must be %q or %q, got %q", SourceHTTP, SourcePrometheus, c.Source)
	}
	if c.FetchTimeout < 0 {
		return errors.New("--fetch-timeout must not be negative")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("--width and --height must be positive, got %dx%d", c.Width, c.Height)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("--timezone: %w", err)
	}
	return nil
}

// Location resolves Timezone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// AllowedOrigins splits CORSOrigins.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LoadEnvFile loads path into the environment. A missing file is not an
// error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var i int
		if _, err := fmt.Sscanf(value, "%d", &i); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
