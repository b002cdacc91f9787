// Package status tracks the outcome of a heatmap refresh and the
// user-facing text that describes it.
package status

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// State is the phase of a single refresh.
type State int

const (
	Idle State = iota
	Fetching
	Rendered
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Rendered:
		return "rendered"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText lets State appear as its name in JSON.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// FailureText is shown when data could not be acquired or rendered.
const FailureText = "資料讀取失敗"

// ErrInvalidTransition is returned when a transition is not allowed from
// the current state.
var ErrInvalidTransition = errors.New("invalid status transition")

// Reporter owns the state machine Idle → Fetching → {Rendered | Failed} and
// the status text. It is safe for concurrent use.
type Reporter struct {
	mu    sync.Mutex
	state State
	text  string
	at    time.Time

	now func() time.Time
	loc *time.Location
}

// NewReporter creates a Reporter that formats timestamps in loc. A nil loc
// means time.Local.
func NewReporter(loc *time.Location) *Reporter {
	return NewReporterWithClock(loc, time.Now)
}

// NewReporterWithClock is NewReporter with an injectable clock.
func NewReporterWithClock(loc *time.Location, now func() time.Time) *Reporter {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Reporter{now: now, loc: loc}
}

// Begin moves Idle → Fetching.
func (r *Reporter) Begin() error {
	return r.transition(Idle, Fetching, func() string { return "" })
}

// Succeed moves Fetching → Rendered and stamps the current time.
func (r *Reporter) Succeed() error {
	return r.transition(Fetching, Rendered, func() string {
		r.at = r.now()
		return FormatTimestamp(r.at, r.loc)
	})
}

// Fail moves Fetching → Failed and sets FailureText.
func (r *Reporter) Fail() error {
	return r.transition(Fetching, Failed, func() string { return FailureText })
}

func (r *Reporter) transition(from, to State, text func() string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != from {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.state, to)
	}
	r.state = to
	r.text = text()
	return nil
}

// State returns the current state.
func (r *Reporter) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Text returns the status text; empty until the refresh completes.
func (r *Reporter) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text
}

// RenderedAt is the time of the successful render, or the zero time.
func (r *Reporter) RenderedAt() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.at
}

// Snapshot is a consistent copy of a Reporter.
type Snapshot struct {
	State State  `json:"state"`
	Text  string `json:"status"`
}

// Snapshot returns state and text read under one lock.
func (r *Reporter) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return Snapshot{State: r.state, Text: r.text}
}
