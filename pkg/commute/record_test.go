package commute

import (
	"encoding/json"
	"strings"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func TestFlatten_KnownFixture(t *testing.T) {
	var day0, day3 Record
	day0.DayOfWeek = 0
	day0.Set(8, 20)
	day0.Set(9, 30)
	day3.DayOfWeek = 3
	day3.Set(18, 50)

	got := Flatten([]Record{day0, day3})

	want := []Sample{
		{X: 8, Y: 0, V: 20},
		{X: 9, Y: 0, V: 30},
		{X: 18, Y: 3, V: 50},
	}
	if len(got) != len(want) {
		t.Fatalf("len(samples) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("samples[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestFlatten_CountMatchesPresentHours(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    int
	}{
		{name: "nil input", records: nil, want: 0},
		{name: "empty record", records: []Record{{DayOfWeek: 2}}, want: 0},
		{
			name: "full day",
			records: func() []Record {
				var r Record
				for h := 0; h < HoursPerDay; h++ {
					r.Set(h, float64(h))
				}
				return []Record{r}
			}(),
			want: 24,
		},
		{
			name: "sparse week",
			records: []Record{
				{DayOfWeek: 0, Hours: [HoursPerDay]*float64{7: ptr(22), 8: ptr(41)}},
				{DayOfWeek: 1},
				{DayOfWeek: 4, Hours: [HoursPerDay]*float64{0: ptr(12), 23: ptr(15), 17: ptr(48)}},
			},
			want: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(tt.records)
			if got == nil {
				t.Fatal("Flatten() returned nil, want empty slice")
			}
			if len(got) != tt.want {
				t.Errorf("len(samples) = %d, want %d", len(got), tt.want)
			}
			sum := 0
			for _, r := range tt.records {
				sum += r.Present()
			}
			if sum != len(got) {
				t.Errorf("sum of present hours = %d, samples = %d", sum, len(got))
			}
		})
	}
}

func TestFlatten_PassesDayThrough(t *testing.T) {
	records := []Record{
		{DayOfWeek: 9, Hours: [HoursPerDay]*float64{5: ptr(-3)}},
		{DayOfWeek: -1, Hours: [HoursPerDay]*float64{23: ptr(60)}},
	}

	got := Flatten(records)
	if len(got) != 2 {
		t.Fatalf("len(samples) = %d, want 2", len(got))
	}
	if got[0].Y != 9 || got[0].X != 5 || got[0].V != -3 {
		t.Errorf("samples[0] = %+v, want {X:5 Y:9 V:-3}", got[0])
	}
	if got[1].Y != -1 || got[1].X != 23 {
		t.Errorf("samples[1] = %+v, want {X:23 Y:-1 V:60}", got[1])
	}
	for _, s := range got {
		if s.X < 0 || s.X > 23 {
			t.Errorf("X = %d out of [0,23]", s.X)
		}
	}
}

func TestFlatten_Deterministic(t *testing.T) {
	records := []Record{
		{DayOfWeek: 6, Hours: [HoursPerDay]*float64{3: ptr(1), 1: ptr(2)}},
		{DayOfWeek: 0, Hours: [HoursPerDay]*float64{2: ptr(3)}},
	}
	a := Flatten(records)
	b := Flatten(records)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Flatten not deterministic at %d: %+v vs %+v", i, a[i], b[i])
		}
	}
	if a[0].X != 1 || a[1].X != 3 || a[2].Y != 0 {
		t.Errorf("unexpected order: %+v", a)
	}
}

func TestRecord_UnmarshalJSON(t *testing.T) {
	body := `[
		{"DayOfWeek": 0, "8": 20, "9": 30.5, "10": null, "note": "ignored"},
		{"DayOfWeek": 3, "18": 50}
	]`

	var records []Record
	if err := json.Unmarshal([]byte(body), &records); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	if v, ok := records[0].Value(8); !ok || v != 20 {
		t.Errorf("records[0].Value(8) = %v, %v; want 20, true", v, ok)
	}
	if v, ok := records[0].Value(9); !ok || v != 30.5 {
		t.Errorf("records[0].Value(9) = %v, %v; want 30.5, true", v, ok)
	}
	if _, ok := records[0].Value(10); ok {
		t.Error("records[0].Value(10) present, want absent for null")
	}
	if _, ok := records[0].Value(11); ok {
		t.Error("records[0].Value(11) present, want absent for missing key")
	}
	if records[1].DayOfWeek != 3 {
		t.Errorf("records[1].DayOfWeek = %d, want 3", records[1].DayOfWeek)
	}
}

func TestRecord_UnmarshalJSON_MissingDay(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"1": 12}`), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.DayOfWeek != 0 {
		t.Errorf("DayOfWeek = %d, want 0", r.DayOfWeek)
	}
	if r.Present() != 1 {
		t.Errorf("Present() = %d, want 1", r.Present())
	}
}

func TestRecord_UnmarshalJSON_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "not an object", body: `42`},
		{name: "null record", body: `null`, want: "expected object"},
		{name: "string hour", body: `{"DayOfWeek": 1, "5": "slow"}`, want: "hour 5"},
		{name: "fractional day", body: `{"DayOfWeek": 1.5}`, want: "DayOfWeek"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Record
			err := json.Unmarshal([]byte(tt.body), &r)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err, tt.want)
			}
		})
	}
}

func TestRecord_MarshalJSON(t *testing.T) {
	var r Record
	r.DayOfWeek = 5
	r.Set(7, 33)

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if raw["DayOfWeek"] != 5.0 {
		t.Errorf("DayOfWeek = %v, want 5", raw["DayOfWeek"])
	}
	if raw["7"] != 33.0 {
		t.Errorf("hour 7 = %v, want 33", raw["7"])
	}
	if v, ok := raw["8"]; !ok || v != nil {
		t.Errorf("hour 8 = %v (present %v), want null", v, ok)
	}
}

func TestSample_JSON(t *testing.T) {
	data, err := json.Marshal(Sample{X: 8, Y: 0, V: 20})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `{"x":8,"y":0,"v":20}` {
		t.Errorf("Marshal() = %s", data)
	}
}
