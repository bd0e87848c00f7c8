package intersection

import (
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// SignalGroup is a set of traffic lights that always show the same state,
// together with the bounds the optimizer must respect for its greenyellow and
// red intervals.
type SignalGroup struct {
	// ID names the signal group; unique within an Intersection.
	ID string `json:"id" validate:"required"`
	// TrafficLights are the member lights, in a fixed order that arrival
	// rates and queue lengths refer back to by index.
	TrafficLights []TrafficLight `json:"traffic_lights" validate:"required,min=1,dive"`
	// MinGreenyellow and MaxGreenyellow bound the duration in seconds of each
	// greenyellow interval.
	MinGreenyellow float64 `json:"min_greenyellow" validate:"gt=0"`
	MaxGreenyellow float64 `json:"max_greenyellow" validate:"gt=0,gtefield=MinGreenyellow"`
	// MinRed and MaxRed bound the duration in seconds of each red interval.
	MinRed float64 `json:"min_red" validate:"gte=0"`
	MaxRed float64 `json:"max_red" validate:"gte=0,gtefield=MinRed"`
	// MinNr and MaxNr bound how often the group receives green within one
	// period. Lower MaxNr means faster optimization.
	MinNr int `json:"min_nr" validate:"gte=1"`
	MaxNr int `json:"max_nr" validate:"gte=1,gtefield=MinNr"`
}

// NewSignalGroup creates a SignalGroup and validates its bounds.
func NewSignalGroup(id string, trafficLights []TrafficLight, minGreenyellow, maxGreenyellow,
	minRed, maxRed float64, minNr, maxNr int) (SignalGroup, error) {
	sg := SignalGroup{
		ID:             id,
		TrafficLights:  trafficLights,
		MinGreenyellow: minGreenyellow,
		MaxGreenyellow: maxGreenyellow,
		MinRed:         minRed,
		MaxRed:         maxRed,
		MinNr:          minNr,
		MaxNr:          maxNr,
	}
	if err := checkStruct(sg); err != nil {
		return SignalGroup{}, err
	}
	return sg, nil
}

// ToJSON returns the wire representation.
func (sg SignalGroup) ToJSON() map[string]any {
	lights := make([]any, len(sg.TrafficLights))
	for i, tl := range sg.TrafficLights {
		lights[i] = tl.ToJSON()
	}
	return map[string]any{
		"id":              sg.ID,
		"traffic_lights":  lights,
		"min_greenyellow": sg.MinGreenyellow,
		"max_greenyellow": sg.MaxGreenyellow,
		"min_red":         sg.MinRed,
		"max_red":         sg.MaxRed,
		"min_nr":          sg.MinNr,
		"max_nr":          sg.MaxNr,
	}
}

// SignalGroupFromJSON reconstructs a SignalGroup from its wire
// representation.
func SignalGroupFromJSON(m map[string]any) (SignalGroup, error) {
	id, err := jsonmap.String(m, "id")
	if err != nil {
		return SignalGroup{}, err
	}
	rawLights, err := jsonmap.Slice(m, "traffic_lights")
	if err != nil {
		return SignalGroup{}, err
	}
	lights := make([]TrafficLight, len(rawLights))
	for i, raw := range rawLights {
		lightMap, ok := raw.(map[string]any)
		if !ok {
			return SignalGroup{}, errs.NewDeserializationError(errs.WrongType, "traffic_lights",
				"expected array of objects, got %T at index %d", raw, i)
		}
		tl, err := TrafficLightFromJSON(lightMap)
		if err != nil {
			return SignalGroup{}, err
		}
		lights[i] = tl
	}
	minGY, err := jsonmap.Float(m, "min_greenyellow")
	if err != nil {
		return SignalGroup{}, err
	}
	maxGY, err := jsonmap.Float(m, "max_greenyellow")
	if err != nil {
		return SignalGroup{}, err
	}
	minRed, err := jsonmap.Float(m, "min_red")
	if err != nil {
		return SignalGroup{}, err
	}
	maxRed, err := jsonmap.Float(m, "max_red")
	if err != nil {
		return SignalGroup{}, err
	}
	minNr, err := jsonmap.Int(m, "min_nr")
	if err != nil {
		return SignalGroup{}, err
	}
	maxNr, err := jsonmap.Int(m, "max_nr")
	if err != nil {
		return SignalGroup{}, err
	}
	sg, err := NewSignalGroup(id, lights, minGY, maxGY, minRed, maxRed, minNr, maxNr)
	if err != nil {
		return SignalGroup{}, errs.NewDeserializationError(errs.InvalidValue, "signalgroups", "%v", err)
	}
	return sg, nil
}
