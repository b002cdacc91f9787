// Package adapters provides data source connectors that retrieve the weekly
// commute table from external systems.
//
// Each adapter implements the Adapter interface:
//   - HTTPAdapter: fetches the published JSON dataset
//   - PrometheusAdapter: averages a PromQL range query per weekday and hour
//
// Adapters only pull and shape data; flattening and rendering happen in
// the upper layers.
package adapters

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

// CacheBustParam is the query parameter carrying the request time in
// epoch milliseconds, so caches in front of the dataset never answer.
const CacheBustParam = "t"

// HTTPAdapter fetches the weekly table from a JSON document: an array of
// records in the commute.Record wire form.
type HTTPAdapter struct {
	// URL of the JSON document.
	URL string
	// HTTPClient is optional; if nil a client without timeout is used.
	HTTPClient *http.Client
	// Now is optional; it supplies the cache-busting timestamp.
	Now func() time.Time
}

// NewHTTPAdapter creates an adapter for url. A zero timeout means the
// request is bounded only by its context.
func NewHTTPAdapter(url string, timeout time.Duration) *HTTPAdapter {
	return &HTTPAdapter{
		URL:        url,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (h *HTTPAdapter) Name() string { return "http" }

// Collect implements Adapter. Any failure is reported as ErrAcquire.
func (h *HTTPAdapter) Collect(ctx context.Context) ([]commute.Record, error) {
	if h.URL == "" {
		return nil, fmt.Errorf("%w: http adapter: URL is required", ErrAcquire)
	}

	target, err := h.requestURL()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquire, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquire, err)
	}
	req.Header.Set("Accept", "application/json")

	cli := h.HTTPClient
	if cli == nil {
		cli = &http.Client{}
	}

	resp, err := cli.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAcquire, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrAcquire, resp.StatusCode)
	}

	var records []commute.Record
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&records); err != nil {
		return nil, fmt.Errorf("%w: decode dataset: %w", ErrAcquire, err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode dataset: trailing data after JSON array", ErrAcquire)
	}
	if records == nil {
		return nil, fmt.Errorf("%w: dataset is null", ErrAcquire)
	}

	return records, nil
}

// requestURL appends the cache-busting parameter, keeping any query the
// configured URL already carries.
func (h *HTTPAdapter) requestURL() (string, error) {
	u, err := url.Parse(h.URL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	now := time.Now
	if h.Now != nil {
		now = h.Now
	}

	q := u.Query()
	q.Set(CacheBustParam, strconv.FormatInt(now().UnixMilli(), 10))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
