package safety

import (
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/control"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/intersection"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// timedRelation is the shared view of sync starts, offsets and
// greenyellow-leads: the start of each greenyellow interval of toID must
// follow the matching start of fromID by a time in [minTime, maxTime].
type timedRelation struct {
	label        string
	fromID, toID string
	minTime      float64
	maxTime      float64
}

func timedRelations(ix intersection.Intersection) []timedRelation {
	rels := make([]timedRelation, 0, len(ix.SyncStarts)+len(ix.Offsets)+len(ix.GreenyellowLeads))
	for _, s := range ix.SyncStarts {
		rels = append(rels, timedRelation{label: "sync start", fromID: s.FromID, toID: s.ToID})
	}
	for _, o := range ix.Offsets {
		rels = append(rels, timedRelation{label: "offset", fromID: o.FromID, toID: o.ToID,
			minTime: o.Seconds, maxTime: o.Seconds})
	}
	for _, g := range ix.GreenyellowLeads {
		rels = append(rels, timedRelation{label: "greenyellow-lead", fromID: g.FromID, toID: g.ToID,
			minTime: g.MinSeconds, maxTime: g.MaxSeconds})
	}
	return rels
}

// validateRelations ensures all sync starts, offsets and greenyellow-leads
// are satisfied: for each relation one consistent shift must pair every
// greenyellow interval of the from-group with one of the to-group at the
// required time distance.
func validateRelations(ix intersection.Intersection, fts control.FixedTimeSchedule, tolerance float64) error {
	for _, rel := range timedRelations(ix) {
		if _, err := relationShift(rel, fts, tolerance); err != nil {
			return err
		}
	}
	return nil
}

// relationShift finds the shift k such that the relation holds for every
// pair of greenyellow intervals (fromID, i) and (toID, i+k).
func relationShift(rel timedRelation, fts control.FixedTimeSchedule, tolerance float64) (int, error) {
	intervalsFrom, err := fts.IntervalsOf(rel.fromID)
	if err != nil {
		return 0, errs.NewSafetyViolation("no greenyellow intervals specified for '%s'", rel.fromID)
	}
	intervalsTo, err := fts.IntervalsOf(rel.toID)
	if err != nil {
		return 0, errs.NewSafetyViolation("no greenyellow intervals specified for '%s'", rel.toID)
	}
	if len(intervalsFrom) != len(intervalsTo) {
		return 0, errs.NewSafetyViolation(
			"signal groups in a %s should have the same number of greenyellow intervals; "+
				"not satisfied for '%s' and '%s'", rel.label, rel.fromID, rel.toID)
	}

	n := len(intervalsFrom)
	matches := make([][]bool, n)
	for indexFrom, intervalFrom := range intervalsFrom {
		matches[indexFrom] = relationMatches(rel, intervalFrom, intervalsTo, fts.Period, tolerance)
	}

	shift, ok := shiftOfOneToOneMatch(matches)
	if !ok {
		return 0, errs.NewSafetyViolation(
			"%s between '%s' and '%s' is not satisfied", rel.label, rel.fromID, rel.toID)
	}
	return shift, nil
}

// relationMatches marks the greenyellow intervals of the to-group whose
// start follows intervalFrom's start at the required time distance. minTime
// may be negative; the modulo is taken relative to it so the result lies in
// [minTime, minTime+period).
func relationMatches(rel timedRelation, intervalFrom control.GreenYellowInterval,
	intervalsTo []control.GreenYellowInterval, period, tolerance float64) []bool {

	matches := make([]bool, len(intervalsTo))
	timeFrom := intervalFrom.StartGreenyellow
	for indexTo, intervalTo := range intervalsTo {
		timeBetween := mod(intervalTo.StartGreenyellow-timeFrom-(rel.minTime-tolerance), period) +
			(rel.minTime - tolerance)
		if rel.minTime-tolerance < timeBetween && timeBetween < rel.maxTime+tolerance {
			matches[indexTo] = true
		}
	}
	return matches
}

// shiftOfOneToOneMatch searches an n x n boolean matrix for a cyclic shift k
// such that matches[i][(i+k) % n] holds for every row i.
func shiftOfOneToOneMatch(matches [][]bool) (int, bool) {
	n := len(matches)
	for shift := 0; shift < n; shift++ {
		ok := true
		for row := 0; row < n; row++ {
			if !matches[row][(row+shift)%n] {
				ok = false
				break
			}
		}
		if ok {
			return shift, true
		}
	}
	return 0, false
}
