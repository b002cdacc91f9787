// Package commute defines the weekly commute-time table and the flattened
// sample form consumed by the heatmap.
//
// A Record is one day of the week with up to 24 hourly averages (minutes).
// Flatten turns a table of records into (hour, day, value) samples, skipping
// hours with no data.
package commute

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	// HoursPerDay is the number of hourly columns in a Record.
	HoursPerDay = 24
	// DaysPerWeek is the number of rows in a complete weekly table.
	DaysPerWeek = 7
)

// dayOfWeekKey is the JSON key carrying the day index.
const dayOfWeekKey = "DayOfWeek"

// Record is one row of the weekly table.
//
// Hours[h] is nil when no data was collected for hour h.
// DayOfWeek is carried verbatim; 0 is Monday in the published dataset,
// but the value is not range checked.
type Record struct {
	DayOfWeek int
	Hours     [HoursPerDay]*float64
}

// Sample is a single heatmap point: X is the hour, Y the day, V the minutes.
type Sample struct {
	X int     `json:"x"`
	Y int     `json:"y"`
	V float64 `json:"v"`
}

// Set stores v as the value for hour. It panics if hour is outside 0-23.
func (r *Record) Set(hour int, v float64) {
	r.Hours[hour] = &v
}

// Value returns the value for hour and whether it is present.
func (r Record) Value(hour int) (float64, bool) {
	if hour < 0 || hour >= HoursPerDay || r.Hours[hour] == nil {
		return 0, false
	}
	return *r.Hours[hour], true
}

// Present returns the number of hours with a value.
func (r Record) Present() int {
	n := 0
	for _, v := range r.Hours {
		if v != nil {
			n++
		}
	}
	return n
}

// UnmarshalJSON decodes the wire form
//
//	{"DayOfWeek": 0, "0": 20.5, "1": null, ..., "23": 31}
//
// Unknown keys are ignored. A missing DayOfWeek decodes as 0 and a missing
// hour key is treated like null.
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return fmt.Errorf("commute record: expected object, got null")
	}

	var rec Record
	if dow, ok := raw[dayOfWeekKey]; ok && !isNull(dow) {
		if err := json.Unmarshal(dow, &rec.DayOfWeek); err != nil {
			return fmt.Errorf("commute record: %s: %w", dayOfWeekKey, err)
		}
	}

	for h := 0; h < HoursPerDay; h++ {
		msg, ok := raw[strconv.Itoa(h)]
		if !ok || isNull(msg) {
			continue
		}
		var v float64
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("commute record: hour %d: %w", h, err)
		}
		rec.Hours[h] = &v
	}

	*r = rec
	return nil
}

// MarshalJSON encodes the record in the same wire form UnmarshalJSON reads.
// Absent hours are written as null.
func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, HoursPerDay+1)
	out[dayOfWeekKey] = r.DayOfWeek
	for h, v := range r.Hours {
		if v == nil {
			out[strconv.Itoa(h)] = nil
			continue
		}
		out[strconv.Itoa(h)] = *v
	}
	return json.Marshal(out)
}

func isNull(msg json.RawMessage) bool {
	return string(msg) == "null"
}

// Flatten converts records into samples, one per present hour.
//
// Samples follow record order, then ascending hour. Y is the record's
// DayOfWeek unchanged. The result is never nil.
func Flatten(records []Record) []Sample {
	n := 0
	for _, r := range records {
		n += r.Present()
	}

	samples := make([]Sample, 0, n)
	for _, r := range records {
		for hour := 0; hour < HoursPerDay; hour++ {
			if r.Hours[hour] == nil {
				continue
			}
			samples = append(samples, Sample{
				X: hour,
				Y: r.DayOfWeek,
				V: *r.Hours[hour],
			})
		}
	}
	return samples
}
