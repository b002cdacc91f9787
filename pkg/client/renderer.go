// Package client provides HTTP clients for communicating with commutemap services.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/HatiCode/commutemap/pkg/commute"
)

// ErrUnavailable is returned when the renderer could not acquire its data
// (the chart endpoints answered 502).
var ErrUnavailable = errors.New("commute data unavailable")

// RendererClient is an HTTP client for the renderer service.
// It is safe for concurrent use by multiple goroutines.
type RendererClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRendererClient creates a new client for the renderer service.
// The baseURL should include the scheme and host (e.g., "http://localhost:8080").
// A default timeout of 10 seconds is used for HTTP requests.
func NewRendererClient(baseURL string) *RendererClient {
	return NewRendererClientWithTimeout(baseURL, 10*time.Second)
}

// NewRendererClientWithTimeout creates a new client with a custom timeout.
func NewRendererClientWithTimeout(baseURL string, timeout time.Duration) *RendererClient {
	return &RendererClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// SamplesResponse represents the JSON response from GET /api/samples.
type SamplesResponse struct {
	State   string           `json:"state"`
	Status  string           `json:"status"`
	Samples []commute.Sample `json:"samples"`
}

// Failed reports whether the renderer's refresh failed.
func (r *SamplesResponse) Failed() bool { return r.State == "failed" }

// GetSamples runs a refresh on the renderer and returns its samples and
// status. A failed refresh is not an error; check Failed.
func (c *RendererClient) GetSamples(ctx context.Context) (*SamplesResponse, error) {
	resp, err := c.get(ctx, "/api/samples", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var out SamplesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// Chart is a rendered heatmap.
type Chart struct {
	ContentType string
	Data        []byte
}

// GetChart fetches the chart in format "svg" or "png". Zero width or height
// keeps the renderer default.
func (c *RendererClient) GetChart(ctx context.Context, format string, width, height int) (*Chart, error) {
	if format != "svg" && format != "png" {
		return nil, fmt.Errorf("unsupported chart format %q", format)
	}

	query := url.Values{}
	if width > 0 {
		query.Set("width", strconv.Itoa(width))
	}
	if height > 0 {
		query.Set("height", strconv.Itoa(height))
	}

	resp, err := c.get(ctx, "/heatmap."+format, query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadGateway:
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, e.Error)
	default:
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read chart: %w", err)
	}
	return &Chart{ContentType: resp.Header.Get("Content-Type"), Data: data}, nil
}

func (c *RendererClient) get(ctx context.Context, path string, query url.Values) (*http.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	u.Path = path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}
