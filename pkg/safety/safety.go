// Package safety checks a fixed-time schedule against the safety
// restrictions of an intersection: greenyellow and red duration bounds,
// conflict clearance times, inter signal group relations, periodic orders
// and completeness. Schedules produced by the cloud already satisfy these
// restrictions; the checks exist for schedules loaded from disk or edited
// locally before they are sent to a controller.
package safety

import (
	"math"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/control"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/intersection"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// DefaultTolerance is the allowed violation of timing restrictions in
// seconds, absorbing rounding in serialized schedules.
const DefaultTolerance = 1e-2

// epsilon corrects for numeric inaccuracies in strict comparisons.
const epsilon = 1e-6

// ValidateSchedule reports the first safety restriction of the intersection
// that the schedule violates, or nil when the schedule is safe. A
// non-positive tolerance selects DefaultTolerance.
func ValidateSchedule(ix intersection.Intersection, fts control.FixedTimeSchedule, tolerance float64) error {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	if err := validateCompleteness(ix, fts); err != nil {
		return err
	}
	if err := validateBounds(ix, fts, tolerance); err != nil {
		return err
	}
	if err := validateConflicts(ix, fts); err != nil {
		return err
	}
	if err := validateRelations(ix, fts, tolerance); err != nil {
		return err
	}
	return validatePeriodicOrders(ix, fts)
}

// validateCompleteness ensures every signal group has at least one
// greenyellow interval in the schedule.
func validateCompleteness(ix intersection.Intersection, fts control.FixedTimeSchedule) error {
	for _, sg := range ix.SignalGroups {
		intervals, err := fts.IntervalsOf(sg.ID)
		if err != nil || len(intervals) == 0 {
			return errs.NewSafetyViolation("no greenyellow intervals specified for '%s'", sg.ID)
		}
	}
	return nil
}

// validateBounds checks the duration of every greenyellow interval and of
// every red interval between them against the bounds of its signal group.
// Durations are computed modulo the period since intervals may wrap.
func validateBounds(ix intersection.Intersection, fts control.FixedTimeSchedule, tolerance float64) error {
	period := fts.Period
	for _, sg := range ix.SignalGroups {
		intervals, err := fts.IntervalsOf(sg.ID)
		if err != nil {
			return errs.NewSafetyViolation("no greenyellow intervals specified for '%s'", sg.ID)
		}
		prevRedSwitch := intervals[len(intervals)-1].EndGreenyellow
		for _, interval := range intervals {
			redTime := periodicDuration(prevRedSwitch, interval.StartGreenyellow, period, tolerance)
			greenyellowTime := periodicDuration(interval.StartGreenyellow, interval.EndGreenyellow, period, tolerance)

			if redTime < sg.MinRed-tolerance {
				return errs.NewSafetyViolation(
					"red time of sg '%s' too short (%3.1f seconds while min=%3.1f)",
					sg.ID, redTime, sg.MinRed)
			}
			if redTime > sg.MaxRed+tolerance {
				return errs.NewSafetyViolation(
					"red time of sg '%s' too long (%3.1f seconds while max=%3.1f)",
					sg.ID, redTime, sg.MaxRed)
			}
			if greenyellowTime < sg.MinGreenyellow-tolerance {
				return errs.NewSafetyViolation(
					"greenyellow time of sg '%s' too short (%3.1f seconds while min=%3.1f)",
					sg.ID, greenyellowTime, sg.MinGreenyellow)
			}
			if greenyellowTime > sg.MaxGreenyellow+tolerance {
				return errs.NewSafetyViolation(
					"greenyellow time of sg '%s' too long (%3.1f seconds while max=%3.1f)",
					sg.ID, greenyellowTime, sg.MaxGreenyellow)
			}
			prevRedSwitch = interval.EndGreenyellow
		}
	}
	return nil
}

// periodicDuration is the duration from time a to time b on a circle of the
// given period; the tolerance keeps a duration of (almost) zero from being
// read as a full period.
func periodicDuration(a, b, period, tolerance float64) float64 {
	return mod(b-a+tolerance, period) - tolerance
}

// mod is the floored modulo, non-negative for positive m.
func mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
