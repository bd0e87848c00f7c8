// Package scenario holds the traffic-demand side of an optimization request:
// arrival rates and initial queue lengths, keyed by signal group id with one
// value per traffic light of that group.
package scenario

import (
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// ArrivalRates maps a signal group id to the arrival rates (PCE/h) of its
// traffic lights, in the same order as SignalGroup.TrafficLights. An
// ArrivalRates is constructible independently of an Intersection; ids are
// matched against one when a request is built.
type ArrivalRates struct {
	IDToRates map[string][]float64
}

// NewArrivalRates creates an ArrivalRates; every rate must be non-negative.
func NewArrivalRates(idToRates map[string][]float64) (ArrivalRates, error) {
	for id, rates := range idToRates {
		for _, rate := range rates {
			if rate < 0 {
				return ArrivalRates{}, errs.NewValidationError(errs.NegativeValue, id,
					"arrival rates must be non-negative, got %v", rate)
			}
		}
	}
	return ArrivalRates{IDToRates: idToRates}, nil
}

// Add returns the element-wise sum of two ArrivalRates; both must cover the
// same ids with the same number of rates.
func (ar ArrivalRates) Add(other ArrivalRates) (ArrivalRates, error) {
	if len(ar.IDToRates) != len(other.IDToRates) {
		return ArrivalRates{}, errs.NewValidationError(errs.IncompleteInput, "",
			"cannot add arrival rates covering different signal groups")
	}
	sum := make(map[string][]float64, len(ar.IDToRates))
	for id, rates := range ar.IDToRates {
		otherRates, ok := other.IDToRates[id]
		if !ok || len(otherRates) != len(rates) {
			return ArrivalRates{}, errs.NewValidationError(errs.IncompleteInput, id,
				"cannot add arrival rates with a different shape for signal group '%s'", id)
		}
		summed := make([]float64, len(rates))
		for i, rate := range rates {
			summed[i] = rate + otherRates[i]
		}
		sum[id] = summed
	}
	return ArrivalRates{IDToRates: sum}, nil
}

// Scale returns the rates multiplied by factor.
func (ar ArrivalRates) Scale(factor float64) (ArrivalRates, error) {
	if factor < 0 {
		return ArrivalRates{}, errs.NewValidationError(errs.NegativeValue, "factor",
			"scaling factor must be non-negative, got %v", factor)
	}
	scaled := make(map[string][]float64, len(ar.IDToRates))
	for id, rates := range ar.IDToRates {
		s := make([]float64, len(rates))
		for i, rate := range rates {
			s[i] = rate * factor
		}
		scaled[id] = s
	}
	return ArrivalRates{IDToRates: scaled}, nil
}

// ToJSON returns the wire representation: the bare id-to-rates mapping.
func (ar ArrivalRates) ToJSON() map[string]any {
	m := make(map[string]any, len(ar.IDToRates))
	for id, rates := range ar.IDToRates {
		vals := make([]any, len(rates))
		for i, rate := range rates {
			vals[i] = rate
		}
		m[id] = vals
	}
	return m
}

// ArrivalRatesFromJSON reconstructs an ArrivalRates from its wire
// representation.
func ArrivalRatesFromJSON(m map[string]any) (ArrivalRates, error) {
	idToRates := make(map[string][]float64, len(m))
	for id := range m {
		raw, err := jsonmap.Slice(m, id)
		if err != nil {
			return ArrivalRates{}, err
		}
		rates, err := jsonmap.Floats(raw, id)
		if err != nil {
			return ArrivalRates{}, err
		}
		idToRates[id] = rates
	}
	ar, err := NewArrivalRates(idToRates)
	if err != nil {
		return ArrivalRates{}, errs.NewDeserializationError(errs.InvalidValue, "arrival_rates", "%v", err)
	}
	return ar, nil
}
