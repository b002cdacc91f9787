package adapters

import (
	"context"
	"errors"

	"github.com/HatiCode/commutemap/pkg/commute"
)

// ErrAcquire is the single failure category for data sources: transport
// errors, HTTP error statuses and undecodable bodies all wrap it.
var ErrAcquire = errors.New("data acquisition or parsing failure")

// Adapter is the interface that all commute data sources must implement.
//
// Adapters fetch raw data from an external system (a published JSON
// document, Prometheus, ...) and shape it into the weekly table.
//
// Collect is synchronous, performs exactly one fetch and must respect
// context cancellation. Errors must wrap ErrAcquire.
type Adapter interface {
	// Collect fetches the current weekly table.
	Collect(ctx context.Context) ([]commute.Record, error)

	// Name returns a short, unique identifier for the adapter.
	// Example: "http", "prometheus".
	Name() string
}
