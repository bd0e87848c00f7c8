package safety

import (
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/control"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/intersection"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// validateConflicts ensures the minimum clearance times between every pair
// of conflicting greenyellow intervals.
func validateConflicts(ix intersection.Intersection, fts control.FixedTimeSchedule) error {
	for _, conflict := range ix.Conflicts {
		intervals1, err := fts.IntervalsOf(conflict.ID1)
		if err != nil {
			return errs.NewSafetyViolation("no greenyellow intervals specified for '%s'", conflict.ID1)
		}
		intervals2, err := fts.IntervalsOf(conflict.ID2)
		if err != nil {
			return errs.NewSafetyViolation("no greenyellow intervals specified for '%s'", conflict.ID2)
		}
		for index1, interval1 := range intervals1 {
			for index2, interval2 := range intervals2 {
				if !conflictSatisfied(interval1, interval2, fts.Period, conflict) {
					return errs.NewSafetyViolation(
						"conflict not satisfied for interval %d of '%s' and interval %d of '%s'",
						index1, conflict.ID1, index2, conflict.ID2)
				}
			}
		}
	}
	return nil
}

// conflictSatisfied checks that interval2 stays clear of the window around
// interval1 widened with the setup times of the conflict.
func conflictSatisfied(interval1, interval2 control.GreenYellowInterval, period float64,
	conflict intersection.Conflict) bool {

	forbidden := periodicInterval{
		start: mod(interval1.StartGreenyellow-conflict.Setup21+1e-3, period),
		end:   mod(interval1.EndGreenyellow+conflict.Setup12-1e-3, period),
	}
	other := periodicInterval{start: interval2.StartGreenyellow, end: interval2.EndGreenyellow}
	return len(overlapOfIntervals(forbidden, other, period)) == 0
}

// periodicInterval is an interval on a circle of length period; start and
// end lie in [0, period) and start > end means the interval wraps.
type periodicInterval struct {
	start, end float64
}

func (p periodicInterval) wraps() bool { return p.start > p.end }

// overlapOfIntervals computes the overlap of two periodic intervals. The
// result may consist of two disjunct intervals.
func overlapOfIntervals(interval1, interval2 periodicInterval, period float64) []periodicInterval {
	// both wrap, so both contain time zero
	if interval1.wraps() && interval2.wraps() {
		return []periodicInterval{{
			start: max(interval1.start, interval2.start),
			end:   min(interval1.end, interval2.end),
		}}
	}

	// at most one interval wraps; make it interval2
	if interval1.wraps() {
		interval1, interval2 = interval2, interval1
	}

	// unroll interval2 onto the real line; a wrapping [s,e] is equivalent
	// to [s-period, e] and [s, e+period]
	var unrolled []periodicInterval
	if !interval2.wraps() {
		unrolled = []periodicInterval{interval2}
	} else {
		unrolled = []periodicInterval{
			{start: interval2.start - period, end: interval2.end},
			{start: interval2.start, end: interval2.end + period},
		}
	}

	var overlaps []periodicInterval
	for _, candidate := range unrolled {
		maxStart := max(interval1.start, candidate.start)
		minEnd := min(interval1.end, candidate.end)
		if maxStart < minEnd {
			overlaps = append(overlaps, periodicInterval{
				start: mod(maxStart, period),
				end:   mod(minEnd, period),
			})
		}
	}
	return overlaps
}
