package control

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

func testSchedule(t *testing.T) FixedTimeSchedule {
	t.Helper()
	fts, err := NewFixedTimeSchedule(map[string][]GreenYellowInterval{
		"sg1": {{StartGreenyellow: 0, EndGreenyellow: 20}, {StartGreenyellow: 40, EndGreenyellow: 55}},
		"sg2": {{StartGreenyellow: 25, EndGreenyellow: 38}},
	}, 60)
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	return fts
}

func TestNewGreenYellowInterval(t *testing.T) {
	if _, err := NewGreenYellowInterval(5, 25); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// end before start wraps the period boundary
	if _, err := NewGreenYellowInterval(50, 10); err != nil {
		t.Fatalf("wrapping interval rejected: %v", err)
	}
	if _, err := NewGreenYellowInterval(-1, 10); err == nil {
		t.Error("negative start accepted")
	}
	if _, err := NewGreenYellowInterval(5, -10); err == nil {
		t.Error("negative end accepted")
	}
}

func TestNewFixedTimeSchedule(t *testing.T) {
	tests := []struct {
		name      string
		intervals map[string][]GreenYellowInterval
		period    float64
		wantErr   bool
	}{
		{
			name: "valid",
			intervals: map[string][]GreenYellowInterval{
				"sg1": {{StartGreenyellow: 0, EndGreenyellow: 20}},
			},
			period: 60,
		},
		{
			name: "wrapping interval",
			intervals: map[string][]GreenYellowInterval{
				"sg1": {{StartGreenyellow: 50, EndGreenyellow: 10}},
			},
			period: 60,
		},
		{
			name: "zero period",
			intervals: map[string][]GreenYellowInterval{
				"sg1": {{StartGreenyellow: 0, EndGreenyellow: 20}},
			},
			period:  0,
			wantErr: true,
		},
		{
			name: "interval exceeds period",
			intervals: map[string][]GreenYellowInterval{
				"sg1": {{StartGreenyellow: 0, EndGreenyellow: 70}},
			},
			period:  60,
			wantErr: true,
		},
		{
			name:      "group without intervals",
			intervals: map[string][]GreenYellowInterval{"sg1": {}},
			period:    60,
			wantErr:   true,
		},
		{
			name: "overlapping intervals",
			intervals: map[string][]GreenYellowInterval{
				"sg1": {{StartGreenyellow: 0, EndGreenyellow: 30}, {StartGreenyellow: 20, EndGreenyellow: 50}},
			},
			period:  60,
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFixedTimeSchedule(tt.intervals, tt.period)
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestFixedTimeScheduleLookups(t *testing.T) {
	fts := testSchedule(t)

	if !fts.IncludesSignalGroup("sg1") || fts.IncludesSignalGroup("sg9") {
		t.Error("IncludesSignalGroup gave wrong answer")
	}

	ivs, err := fts.IntervalsOf("sg1")
	if err != nil || len(ivs) != 2 {
		t.Fatalf("IntervalsOf(sg1) = %v, %v", ivs, err)
	}
	if _, err := fts.IntervalsOf("sg9"); err == nil {
		t.Error("IntervalsOf accepted an unknown id")
	}

	iv, err := fts.IntervalOf("sg1", 1)
	if err != nil || iv.StartGreenyellow != 40 {
		t.Errorf("IntervalOf(sg1, 1) = %v, %v", iv, err)
	}
	if _, err := fts.IntervalOf("sg1", 2); err == nil {
		t.Error("IntervalOf accepted an out-of-range index")
	}
}

func TestFixedTimeScheduleEqual(t *testing.T) {
	a := testSchedule(t)
	b := testSchedule(t)
	if !a.Equal(b) {
		t.Error("identical schedules compare unequal")
	}
	b.GreenyellowIntervals["sg2"] = []GreenYellowInterval{{StartGreenyellow: 26, EndGreenyellow: 38}}
	if a.Equal(b) {
		t.Error("different schedules compare equal")
	}
}

func TestFixedTimeScheduleRoundTrip(t *testing.T) {
	fts := testSchedule(t)
	data, err := json.Marshal(fts.ToJSON())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	got, err := FixedTimeScheduleFromJSON(m)
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if !got.Equal(fts) {
		t.Errorf("round trip changed schedule:\ngot  %v\nwant %v", got, fts)
	}
}

func TestFixedTimeScheduleFromJSONErrors(t *testing.T) {
	_, err := FixedTimeScheduleFromJSON(map[string]any{"period": 60.0})
	var derr *errs.DeserializationError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeserializationError, got %T: %v", err, err)
	}
	if derr.Field != "greenyellow_intervals" {
		t.Errorf("error names field %q, want greenyellow_intervals", derr.Field)
	}

	_, err = FixedTimeScheduleFromJSON(map[string]any{
		"greenyellow_intervals": map[string]any{"sg1": []any{[]any{0.0, 20.0, 30.0}}},
		"period":                60.0,
	})
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeserializationError for malformed pair, got %T: %v", err, err)
	}
}
