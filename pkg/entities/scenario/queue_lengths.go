package scenario

import (
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// QueueLengths maps a signal group id to the traffic (in PCE) initially
// waiting at each of its traffic lights.
type QueueLengths struct {
	IDToLengths map[string][]float64
}

// NewQueueLengths creates a QueueLengths; every length must be non-negative.
func NewQueueLengths(idToLengths map[string][]float64) (QueueLengths, error) {
	for id, lengths := range idToLengths {
		for _, l := range lengths {
			if l < 0 {
				return QueueLengths{}, errs.NewValidationError(errs.NegativeValue, id,
					"queue lengths must be non-negative, got %v", l)
			}
		}
	}
	return QueueLengths{IDToLengths: idToLengths}, nil
}

// SpreadOverHorizon converts the initial queues to the arrival rates that
// model them as traffic arriving evenly during a horizon of the given length
// in hours (queue / horizon per hour).
func (ql QueueLengths) SpreadOverHorizon(horizon float64) (ArrivalRates, error) {
	if horizon <= 0 {
		return ArrivalRates{}, errs.NewValidationError(errs.NegativeValue, "horizon",
			"horizon must be positive, got %v", horizon)
	}
	idToRates := make(map[string][]float64, len(ql.IDToLengths))
	for id, lengths := range ql.IDToLengths {
		rates := make([]float64, len(lengths))
		for i, l := range lengths {
			rates[i] = l / horizon
		}
		idToRates[id] = rates
	}
	return ArrivalRates{IDToRates: idToRates}, nil
}

// ToJSON returns the wire representation: the bare id-to-lengths mapping.
func (ql QueueLengths) ToJSON() map[string]any {
	m := make(map[string]any, len(ql.IDToLengths))
	for id, lengths := range ql.IDToLengths {
		vals := make([]any, len(lengths))
		for i, l := range lengths {
			vals[i] = l
		}
		m[id] = vals
	}
	return m
}

// QueueLengthsFromJSON reconstructs a QueueLengths from its wire
// representation.
func QueueLengthsFromJSON(m map[string]any) (QueueLengths, error) {
	idToLengths := make(map[string][]float64, len(m))
	for id := range m {
		raw, err := jsonmap.Slice(m, id)
		if err != nil {
			return QueueLengths{}, err
		}
		lengths, err := jsonmap.Floats(raw, id)
		if err != nil {
			return QueueLengths{}, err
		}
		idToLengths[id] = lengths
	}
	ql, err := NewQueueLengths(idToLengths)
	if err != nil {
		return QueueLengths{}, errs.NewDeserializationError(errs.InvalidValue, "queue_lengths", "%v", err)
	}
	return ql, nil
}
