package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/HatiCode/commutemap/pkg/commute"
	"github.com/HatiCode/commutemap/pkg/features"
)

// PrometheusAdapter builds the weekly table from the Prometheus HTTP API.
// It issues a /api/v1/query_range call over the last WindowSeconds and
// averages every returned point into its (weekday, hour) slot.
//
// If multiple series are returned, their points are averaged together.
type PrometheusAdapter struct {
	// ServerURL is the base URL to Prometheus, e.g. http://prometheus.monitoring.svc:9090.
	// A path prefix (http://gateway/prometheus) is kept.
	ServerURL string
	// Query is the PromQL expression to evaluate; it should yield minutes.
	Query string
	// StepSeconds controls the resolution (defaults to 3600s if <= 0).
	StepSeconds int
	// WindowSeconds is how far back to look (defaults to four weeks if <= 0).
	WindowSeconds int
	// Builder aggregates points; if nil a UTC builder is used.
	Builder *features.Builder
	// HTTPClient is optional; if nil a default client with timeout is used.
	HTTPClient *http.Client
}

func (p *PrometheusAdapter) Name() string { return "prometheus" }

// Collect implements Adapter. It respects the provided context for
// cancellation and deadlines. Any failure is reported as ErrAcquire.
func (p *PrometheusAdapter) Collect(ctx context.Context) ([]commute.Record, error) {
	df, err := p.queryRange(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquire, err)
	}

	builder := p.Builder
	if builder == nil {
		builder = features.NewBuilder(time.UTC)
	}

	records, err := builder.BuildWeekTable(*df)
	if err != nil {
		return nil, fmt.Errorf("%w: build week table: %w", ErrAcquire, err)
	}
	return records, nil
}

func (p *PrometheusAdapter) queryRange(ctx context.Context) (*features.Frame, error) {
	if p.ServerURL == "" || p.Query == "" {
		return nil, errors.New("prometheus adapter: ServerURL and Query are required")
	}
	step := p.StepSeconds
	if step <= 0 {
		step = 3600
	}
	window := p.WindowSeconds
	if window <= 0 {
		window = 28 * 24 * 3600
	}
	now := time.Now().UTC().Truncate(time.Second)
	start := now.Add(-time.Duration(window) * time.Second)

	u, err := url.Parse(p.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ServerURL: %w", err)
	}
	u = u.JoinPath("api/v1/query_range")

	q := u.Query()
	q.Set("query", p.Query)
	q.Set("start", fmt.Sprintf("%d", start.Unix()))
	q.Set("end", fmt.Sprintf("%d", now.Unix()))
	q.Set("step", fmt.Sprintf("%d", step))
	u.RawQuery = q.Encode()

	cli := p.HTTPClient
	if cli == nil {
		cli = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := cli.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("prometheus: status %d", resp.StatusCode)
	}

	var pr prometheusRangeResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return nil, fmt.Errorf("decode prometheus response: %w", err)
	}
	if pr.Status != "success" {
		return nil, fmt.Errorf("prometheus status: %s", pr.Status)
	}

	rows, err := flattenRangeResult(pr.Data.Result)
	if err != nil {
		return nil, err
	}
	return &features.Frame{Rows: rows}, nil
}

type prometheusRangeResponse struct {
	Status string              `json:"status"`
	Data   prometheusRangeData `json:"data"`
}

type prometheusRangeData struct {
	ResultType string                 `json:"resultType"`
	Result     []prometheusRangeSerie `json:"result"`
}

type prometheusRangeSerie struct {
	Metric map[string]string `json:"metric"`
	// Values is an array of [ <unix_time_float>, "<value_string>" ]
	Values [][]any `json:"values"`
}

func flattenRangeResult(series []prometheusRangeSerie) ([]features.Row, error) {
	var rows []features.Row
	for _, s := range series {
		for _, pair := range s.Values {
			if len(pair) != 2 {
				return nil, fmt.Errorf("invalid value pair length: %d", len(pair))
			}

			var tsSec int64
			switch v := pair[0].(type) {
			case float64:
				tsSec = int64(v)
			case json.Number:
				f, _ := v.Float64()
				tsSec = int64(f)
			default:
				return nil, fmt.Errorf("unexpected timestamp type %T", v)
			}

			var val float64
			switch vv := pair[1].(type) {
			case string:
				f, err := strconv.ParseFloat(vv, 64)
				if err != nil {
					return nil, fmt.Errorf("parse value: %w", err)
				}
				val = f
			case float64:
				val = vv
			case json.Number:
				f, _ := vv.Float64()
				val = f
			default:
				return nil, fmt.Errorf("unexpected value type %T", vv)
			}

			rows = append(rows, features.Row{
				"ts":    time.Unix(tsSec, 0).UTC(),
				"value": val,
			})
		}
	}
	return rows, nil
}
