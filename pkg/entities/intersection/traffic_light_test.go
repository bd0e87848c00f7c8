package intersection

import (
	"errors"
	"testing"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

func TestNewTrafficLight(t *testing.T) {
	tests := []struct {
		name     string
		capacity float64
		lostTime float64
		wantErr  bool
	}{
		{name: "valid", capacity: 1800, lostTime: 2.2},
		{name: "zero lost time", capacity: 1800, lostTime: 0},
		{name: "zero capacity", capacity: 0, lostTime: 2.2, wantErr: true},
		{name: "negative capacity", capacity: -100, lostTime: 2.2, wantErr: true},
		{name: "negative lost time", capacity: 1800, lostTime: -1, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl, err := NewTrafficLight(tt.capacity, tt.lostTime)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", tl)
				}
				var verr *errs.ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("expected ValidationError, got %T: %v", err, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tl.Weight != 1.0 {
				t.Errorf("default weight = %v, want 1.0", tl.Weight)
			}
			if tl.MaxSaturation != nil {
				t.Errorf("default max saturation = %v, want nil", *tl.MaxSaturation)
			}
		})
	}
}

func TestNewWeightedTrafficLight(t *testing.T) {
	sat := 0.9
	if _, err := NewWeightedTrafficLight(1800, 2.2, 2.0, &sat); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewWeightedTrafficLight(1800, 2.2, -1, nil); err == nil {
		t.Error("negative weight accepted")
	}
	zero := 0.0
	if _, err := NewWeightedTrafficLight(1800, 2.2, 1, &zero); err == nil {
		t.Error("zero max saturation accepted")
	}
}

func TestTrafficLightRoundTrip(t *testing.T) {
	sat := 0.85
	lights := []TrafficLight{
		{Capacity: 1800, LostTime: 2.2, Weight: 1.0},
		{Capacity: 700, LostTime: 0, Weight: 0.5, MaxSaturation: &sat},
	}
	for _, tl := range lights {
		got, err := TrafficLightFromJSON(tl.ToJSON())
		if err != nil {
			t.Fatalf("round trip failed: %v", err)
		}
		if got.Capacity != tl.Capacity || got.LostTime != tl.LostTime || got.Weight != tl.Weight {
			t.Errorf("round trip changed values: got %+v, want %+v", got, tl)
		}
		if (got.MaxSaturation == nil) != (tl.MaxSaturation == nil) {
			t.Errorf("round trip changed max saturation presence")
		} else if tl.MaxSaturation != nil && *got.MaxSaturation != *tl.MaxSaturation {
			t.Errorf("round trip changed max saturation: got %v, want %v",
				*got.MaxSaturation, *tl.MaxSaturation)
		}
	}
}

func TestTrafficLightFromJSONMissingField(t *testing.T) {
	m := map[string]any{"lost_time": 2.2, "weight": 1.0, "max_saturation": nil}
	_, err := TrafficLightFromJSON(m)
	var derr *errs.DeserializationError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeserializationError, got %T: %v", err, err)
	}
	if derr.Field != "capacity" {
		t.Errorf("error names field %q, want %q", derr.Field, "capacity")
	}
	if derr.Kind != errs.MissingField {
		t.Errorf("error kind = %v, want MissingField", derr.Kind)
	}
}

func TestTrafficLightFromJSONWrongType(t *testing.T) {
	m := map[string]any{"capacity": "fast", "lost_time": 2.2, "weight": 1.0}
	_, err := TrafficLightFromJSON(m)
	var derr *errs.DeserializationError
	if !errors.As(err, &derr) {
		t.Fatalf("expected DeserializationError, got %T: %v", err, err)
	}
	if derr.Kind != errs.WrongType {
		t.Errorf("error kind = %v, want WrongType", derr.Kind)
	}
}
