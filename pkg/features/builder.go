// Package features turns raw time-series points into the weekly commute table.
package features

import (
	"fmt"
	"math"
	"time"

	"github.com/HatiCode/commutemap/pkg/commute"
)

// Row represents a single time-series observation.
// Example: {"ts": "2025-10-25T17:00:00Z", "value": 31.4}
type Row map[string]any

// Frame is a lightweight structure for tabular data returned by adapters.
type Frame struct {
	Rows []Row
}

// Builder aggregates observations into one commute.Record per weekday,
// averaging every value that falls into the same (weekday, hour) slot.
type Builder struct {
	// Location is the zone used to derive weekday and hour. Defaults to UTC.
	Location *time.Location
}

// NewBuilder creates a new builder bucketing timestamps in loc.
func NewBuilder(loc *time.Location) *Builder {
	if loc == nil {
		loc = time.UTC
	}
	return &Builder{Location: loc}
}

type slot struct {
	sum   float64
	count int
}

// BuildWeekTable converts a Frame into weekly records.
//
// Each row needs a "value" and a "ts" field; rows missing either, or with a
// non-finite value (NaN, ±Inf), are skipped.
// Day 0 is Monday. Only days with at least one value produce a record, and
// records are ordered by day. An empty frame yields an empty table.
func (b *Builder) BuildWeekTable(df Frame) ([]commute.Record, error) {
	loc := b.Location
	if loc == nil {
		loc = time.UTC
	}

	var grid [commute.DaysPerWeek][commute.HoursPerDay]slot

	for i, row := range df.Rows {
		valueRaw, hasValue := row["value"]
		if !hasValue {
			continue
		}
		value, ok := toFloat64(valueRaw)
		if !ok || math.IsNaN(value) || math.IsInf(value, 0) {
			continue
		}

		tsRaw, hasTs := row["ts"]
		if !hasTs {
			continue
		}
		ts, err := parseTimestamp(tsRaw)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}

		ts = ts.In(loc)
		day := MondayIndex(ts.Weekday())
		s := &grid[day][ts.Hour()]
		s.sum += value
		s.count++
	}

	records := make([]commute.Record, 0, commute.DaysPerWeek)
	for day := range grid {
		var rec commute.Record
		rec.DayOfWeek = day
		for hour, s := range grid[day] {
			if s.count == 0 {
				continue
			}
			rec.Set(hour, s.sum/float64(s.count))
		}
		if rec.Present() > 0 {
			records = append(records, rec)
		}
	}

	return records, nil
}

// MondayIndex maps a time.Weekday (Sunday=0) onto the table's day index
// (Monday=0, Sunday=6).
func MondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// toFloat64 attempts to convert any numeric type to float64.
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	default:
		return 0, false
	}
}

// parseTimestamp attempts to parse a timestamp from various formats.
// Supports:
//   - RFC3339 strings (e.g., "2023-01-01T12:00:00Z")
//   - Unix timestamps as float64, int, int64
//   - time.Time objects
func parseTimestamp(v any) (time.Time, error) {
	switch val := v.(type) {
	case string:
		t, err := time.Parse(time.RFC3339, val)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp string: %w", err)
		}
		return t, nil

	case float64:
		return time.Unix(int64(val), 0), nil

	case int:
		return time.Unix(int64(val), 0), nil

	case int64:
		return time.Unix(val, 0), nil

	case time.Time:
		return val, nil

	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type: %T", v)
	}
}
