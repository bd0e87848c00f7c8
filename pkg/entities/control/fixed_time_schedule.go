// Package control holds the objects the cloud optimizer returns: fixed-time
// schedules, phase diagrams and performance indicators. They are produced by
// the remote service and owned by the caller after deserialization.
package control

import (
	"fmt"
	"sort"
	"strings"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// GreenYellowInterval is one greenyellow interval within a periodic schedule,
// with start and end offsets in seconds from the period start.
type GreenYellowInterval struct {
	StartGreenyellow float64
	EndGreenyellow   float64
}

// NewGreenYellowInterval creates a GreenYellowInterval; both times must be
// non-negative. End may be smaller than start for an interval that wraps
// around the period boundary.
func NewGreenYellowInterval(start, end float64) (GreenYellowInterval, error) {
	if start < 0 {
		return GreenYellowInterval{}, errs.NewValidationError(errs.NegativeValue, "start_greenyellow",
			"must be non-negative, got %v", start)
	}
	if end < 0 {
		return GreenYellowInterval{}, errs.NewValidationError(errs.NegativeValue, "end_greenyellow",
			"must be non-negative, got %v", end)
	}
	return GreenYellowInterval{StartGreenyellow: start, EndGreenyellow: end}, nil
}

// ToJSON returns the wire representation: a two-element [start, end] array.
func (g GreenYellowInterval) ToJSON() []any {
	return []any{g.StartGreenyellow, g.EndGreenyellow}
}

// GreenYellowIntervalFromJSON reconstructs a GreenYellowInterval from its
// wire representation.
func GreenYellowIntervalFromJSON(raw []any) (GreenYellowInterval, error) {
	if len(raw) != 2 {
		return GreenYellowInterval{}, errs.NewDeserializationError(errs.WrongType, "greenyellow_intervals",
			"expected [start, end] pair, got %d elements", len(raw))
	}
	vals, err := jsonmap.Floats(raw, "greenyellow_intervals")
	if err != nil {
		return GreenYellowInterval{}, err
	}
	g, err := NewGreenYellowInterval(vals[0], vals[1])
	if err != nil {
		return GreenYellowInterval{}, errs.NewDeserializationError(errs.InvalidValue, "greenyellow_intervals", "%v", err)
	}
	return g, nil
}

// FixedTimeSchedule is a periodically repeating control plan: for each signal
// group the greenyellow intervals it receives within one period.
type FixedTimeSchedule struct {
	GreenyellowIntervals map[string][]GreenYellowInterval
	Period               float64
}

// NewFixedTimeSchedule creates a FixedTimeSchedule and validates that every
// interval lies within the period and that each group's intervals are in
// periodic order without overlap.
func NewFixedTimeSchedule(intervals map[string][]GreenYellowInterval, period float64) (FixedTimeSchedule, error) {
	if period <= 0 {
		return FixedTimeSchedule{}, errs.NewValidationError(errs.NegativeValue, "period",
			"period must be positive, got %v", period)
	}
	fts := FixedTimeSchedule{GreenyellowIntervals: intervals, Period: period}
	for id, ivs := range intervals {
		if len(ivs) == 0 {
			return FixedTimeSchedule{}, errs.NewValidationError(errs.IncompleteInput, id,
				"signal group '%s' has no greenyellow intervals", id)
		}
		for _, iv := range ivs {
			if iv.StartGreenyellow > period || iv.EndGreenyellow > period {
				return FixedTimeSchedule{}, errs.NewValidationError(errs.InvalidBound, id,
					"greenyellow interval [%v, %v] of '%s' exceeds the period duration %v",
					iv.StartGreenyellow, iv.EndGreenyellow, id, period)
			}
		}
		if err := validatePeriodicOrderAndOverlap(id, ivs); err != nil {
			return FixedTimeSchedule{}, err
		}
	}
	return fts, nil
}

// validatePeriodicOrderAndOverlap rotates the intervals so the earliest start
// comes first, then checks for strictly increasing starts and absence of
// overlap, treating the last interval as possibly wrapping the period.
func validatePeriodicOrderAndOverlap(id string, intervals []GreenYellowInterval) error {
	first := 0
	for i, iv := range intervals {
		if iv.StartGreenyellow < intervals[first].StartGreenyellow {
			first = i
		}
	}
	sorted := make([]GreenYellowInterval, 0, len(intervals))
	sorted = append(sorted, intervals[first:]...)
	sorted = append(sorted, intervals[:first]...)

	prevStart := sorted[0].StartGreenyellow
	for _, iv := range sorted[1:] {
		if iv.StartGreenyellow <= prevStart {
			return errs.NewValidationError(errs.InvalidBound, id,
				"greenyellow intervals of '%s' must be in periodic order", id)
		}
		prevStart = iv.StartGreenyellow
	}

	prev := 0.0
	for k, iv := range sorted {
		if iv.StartGreenyellow < prev {
			return errs.NewValidationError(errs.InvalidBound, id,
				"greenyellow intervals of '%s' must be non-overlapping", id)
		}
		prev = iv.StartGreenyellow
		if (k < len(sorted)-1 || iv.EndGreenyellow >= sorted[0].StartGreenyellow) && iv.EndGreenyellow < prev {
			return errs.NewValidationError(errs.InvalidBound, id,
				"greenyellow intervals of '%s' must be non-overlapping", id)
		}
		prev = iv.EndGreenyellow
	}
	return nil
}

// IncludesSignalGroup reports whether the schedule covers the given id.
func (fts FixedTimeSchedule) IncludesSignalGroup(id string) bool {
	_, ok := fts.GreenyellowIntervals[id]
	return ok
}

// IntervalsOf returns all greenyellow intervals of the signal group.
func (fts FixedTimeSchedule) IntervalsOf(id string) ([]GreenYellowInterval, error) {
	ivs, ok := fts.GreenyellowIntervals[id]
	if !ok {
		return nil, errs.NewValidationError(errs.DanglingReference, "id",
			"schedule has no greenyellow intervals for signal group '%s'", id)
	}
	return ivs, nil
}

// IntervalOf returns the k-th (zero-based) greenyellow interval of the signal
// group.
func (fts FixedTimeSchedule) IntervalOf(id string, k int) (GreenYellowInterval, error) {
	ivs, err := fts.IntervalsOf(id)
	if err != nil {
		return GreenYellowInterval{}, err
	}
	if k < 0 || k >= len(ivs) {
		return GreenYellowInterval{}, errs.NewValidationError(errs.InvalidBound, "k",
			"signal group '%s' has %d greenyellow intervals, index %d requested", id, len(ivs), k)
	}
	return ivs[k], nil
}

// Equal reports value equality with another schedule.
func (fts FixedTimeSchedule) Equal(other FixedTimeSchedule) bool {
	if fts.Period != other.Period || len(fts.GreenyellowIntervals) != len(other.GreenyellowIntervals) {
		return false
	}
	for id, ivs := range fts.GreenyellowIntervals {
		otherIvs, ok := other.GreenyellowIntervals[id]
		if !ok || len(otherIvs) != len(ivs) {
			return false
		}
		for i, iv := range ivs {
			if iv != otherIvs[i] {
				return false
			}
		}
	}
	return true
}

// ToJSON returns the wire representation.
func (fts FixedTimeSchedule) ToJSON() map[string]any {
	intervals := make(map[string]any, len(fts.GreenyellowIntervals))
	for id, ivs := range fts.GreenyellowIntervals {
		list := make([]any, len(ivs))
		for i, iv := range ivs {
			list[i] = iv.ToJSON()
		}
		intervals[id] = list
	}
	return map[string]any{"greenyellow_intervals": intervals, "period": fts.Period}
}

// FixedTimeScheduleFromJSON reconstructs a FixedTimeSchedule from its wire
// representation.
func FixedTimeScheduleFromJSON(m map[string]any) (FixedTimeSchedule, error) {
	rawIntervals, err := jsonmap.Map(m, "greenyellow_intervals")
	if err != nil {
		return FixedTimeSchedule{}, err
	}
	period, err := jsonmap.Float(m, "period")
	if err != nil {
		return FixedTimeSchedule{}, err
	}
	intervals := make(map[string][]GreenYellowInterval, len(rawIntervals))
	for id := range rawIntervals {
		rawList, err := jsonmap.Slice(rawIntervals, id)
		if err != nil {
			return FixedTimeSchedule{}, err
		}
		ivs := make([]GreenYellowInterval, len(rawList))
		for i, raw := range rawList {
			pair, ok := raw.([]any)
			if !ok {
				return FixedTimeSchedule{}, errs.NewDeserializationError(errs.WrongType, id,
					"expected array of [start, end] pairs, got %T at index %d", raw, i)
			}
			iv, err := GreenYellowIntervalFromJSON(pair)
			if err != nil {
				return FixedTimeSchedule{}, err
			}
			ivs[i] = iv
		}
		intervals[id] = ivs
	}
	fts, err := NewFixedTimeSchedule(intervals, period)
	if err != nil {
		return FixedTimeSchedule{}, errs.NewDeserializationError(errs.InvalidValue, "fixed_time_schedule", "%v", err)
	}
	return fts, nil
}

// String renders the schedule with signal groups sorted by name.
func (fts FixedTimeSchedule) String() string {
	ids := make([]string, 0, len(fts.GreenyellowIntervals))
	for id := range fts.GreenyellowIntervals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) < len(ids[j])
		}
		return ids[i] < ids[j]
	})
	var b strings.Builder
	fmt.Fprintf(&b, "fixed time schedule (period %.2fs):", fts.Period)
	for _, id := range ids {
		fmt.Fprintf(&b, "\n  %s:", id)
		for i, iv := range fts.GreenyellowIntervals[id] {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, " [%.2f, %.2f]", iv.StartGreenyellow, iv.EndGreenyellow)
		}
	}
	return b.String()
}
