// Package intersection models a signalized intersection: traffic lights
// grouped into signal groups, pairwise relations between signal groups, and
// the Intersection aggregate submitted to the cloud optimizer. All types are
// value objects validated at construction time; the library never mutates
// them afterwards.
package intersection

import (
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// TrafficLight is a single controlled stream for which greenyellow intervals
// are planned. A greenyellow interval generalizes the green interval plus any
// non-red state leading up to or following it (green+yellow in the
// Netherlands, red-yellow+green+yellow in the UK).
type TrafficLight struct {
	// Capacity is the saturation flow in PCE/h (personal car equivalent per
	// hour). The expected departures during a greenyellow interval of gy
	// seconds are (gy - LostTime) * Capacity.
	Capacity float64 `json:"capacity" validate:"gt=0"`
	// LostTime is the time in seconds lost every greenyellow interval to
	// acceleration at the start and early stopping at the end.
	LostTime float64 `json:"lost_time" validate:"gte=0"`
	// Weight is the relative importance of this traffic light; only relevant
	// when minimizing delay.
	Weight float64 `json:"weight" validate:"gte=0"`
	// MaxSaturation bounds the allowed saturation (1.0 is the verge of
	// oversaturation); nil leaves it unbounded.
	MaxSaturation *float64 `json:"max_saturation" validate:"omitempty,gt=0"`
}

// NewTrafficLight creates a TrafficLight with the default weight of 1.0 and
// no saturation bound.
func NewTrafficLight(capacity, lostTime float64) (TrafficLight, error) {
	return NewWeightedTrafficLight(capacity, lostTime, 1.0, nil)
}

// NewWeightedTrafficLight creates a TrafficLight with an explicit weight and
// optional saturation bound.
func NewWeightedTrafficLight(capacity, lostTime, weight float64, maxSaturation *float64) (TrafficLight, error) {
	tl := TrafficLight{Capacity: capacity, LostTime: lostTime, Weight: weight, MaxSaturation: maxSaturation}
	if err := checkStruct(tl); err != nil {
		return TrafficLight{}, err
	}
	return tl, nil
}

// ToJSON returns the wire representation.
func (tl TrafficLight) ToJSON() map[string]any {
	m := map[string]any{
		"capacity":       tl.Capacity,
		"lost_time":      tl.LostTime,
		"weight":         tl.Weight,
		"max_saturation": nil,
	}
	if tl.MaxSaturation != nil {
		m["max_saturation"] = *tl.MaxSaturation
	}
	return m
}

// TrafficLightFromJSON reconstructs a TrafficLight from its wire
// representation.
func TrafficLightFromJSON(m map[string]any) (TrafficLight, error) {
	capacity, err := jsonmap.Float(m, "capacity")
	if err != nil {
		return TrafficLight{}, err
	}
	lostTime, err := jsonmap.Float(m, "lost_time")
	if err != nil {
		return TrafficLight{}, err
	}
	weight, err := jsonmap.Float(m, "weight")
	if err != nil {
		return TrafficLight{}, err
	}
	maxSaturation, err := jsonmap.OptionalFloat(m, "max_saturation")
	if err != nil {
		return TrafficLight{}, err
	}
	tl, err := NewWeightedTrafficLight(capacity, lostTime, weight, maxSaturation)
	if err != nil {
		return TrafficLight{}, errs.NewDeserializationError(errs.InvalidValue, "traffic_lights", "%v", err)
	}
	return tl, nil
}
