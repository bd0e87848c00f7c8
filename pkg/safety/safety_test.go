package safety

import (
	"errors"
	"testing"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/control"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/intersection"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

func mustSignalGroup(t *testing.T, id string, minGY, maxGY, minRed, maxRed float64) intersection.SignalGroup {
	t.Helper()
	tl, err := intersection.NewTrafficLight(1800, 2.2)
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	sg, err := intersection.NewSignalGroup(id, []intersection.TrafficLight{tl},
		minGY, maxGY, minRed, maxRed, 1, 2)
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	return sg
}

func mustIntersection(t *testing.T, groups []intersection.SignalGroup, conflicts []intersection.Conflict,
	syncStarts []intersection.SyncStart, offsets []intersection.Offset,
	orders []intersection.PeriodicOrder) intersection.Intersection {
	t.Helper()
	ix, err := intersection.NewIntersection(groups, conflicts, syncStarts, offsets, nil, orders)
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	return ix
}

func mustSchedule(t *testing.T, intervals map[string][]control.GreenYellowInterval, period float64) control.FixedTimeSchedule {
	t.Helper()
	fts, err := control.NewFixedTimeSchedule(intervals, period)
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	return fts
}

func assertViolation(t *testing.T, err error) *errs.SafetyViolationError {
	t.Helper()
	var serr *errs.SafetyViolationError
	if !errors.As(err, &serr) {
		t.Fatalf("expected SafetyViolationError, got %T: %v", err, err)
	}
	return serr
}

func TestValidateScheduleSafe(t *testing.T) {
	ix := mustIntersection(t,
		[]intersection.SignalGroup{
			mustSignalGroup(t, "sg1", 5, 40, 2, 80),
			mustSignalGroup(t, "sg2", 5, 40, 2, 80),
		},
		[]intersection.Conflict{mustConflict(t, "sg1", "sg2", 2, 3)},
		nil, nil, nil)
	fts := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 0, EndGreenyellow: 25}},
		"sg2": {{StartGreenyellow: 30, EndGreenyellow: 55}},
	}, 60)

	if err := ValidateSchedule(ix, fts, 0); err != nil {
		t.Fatalf("safe schedule rejected: %v", err)
	}
}

func mustConflict(t *testing.T, id1, id2 string, setup12, setup21 float64) intersection.Conflict {
	t.Helper()
	c, err := intersection.NewConflict(id1, id2, setup12, setup21)
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	return c
}

func TestValidateScheduleCompleteness(t *testing.T) {
	ix := mustIntersection(t,
		[]intersection.SignalGroup{
			mustSignalGroup(t, "sg1", 5, 40, 2, 80),
			mustSignalGroup(t, "sg2", 5, 40, 2, 80),
		},
		[]intersection.Conflict{mustConflict(t, "sg1", "sg2", 2, 3)},
		nil, nil, nil)
	fts := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 0, EndGreenyellow: 25}},
	}, 60)

	assertViolation(t, ValidateSchedule(ix, fts, 0))
}

func TestValidateScheduleBounds(t *testing.T) {
	tests := []struct {
		name         string
		minGY, maxGY float64
		minRed       float64
		maxRed       float64
		intervals    []control.GreenYellowInterval
	}{
		{
			name: "greenyellow too short", minGY: 10, maxGY: 40, minRed: 2, maxRed: 80,
			intervals: []control.GreenYellowInterval{{StartGreenyellow: 0, EndGreenyellow: 5}},
		},
		{
			name: "greenyellow too long", minGY: 5, maxGY: 20, minRed: 2, maxRed: 80,
			intervals: []control.GreenYellowInterval{{StartGreenyellow: 0, EndGreenyellow: 30}},
		},
		{
			name: "red too short", minGY: 5, maxGY: 40, minRed: 45, maxRed: 80,
			intervals: []control.GreenYellowInterval{{StartGreenyellow: 0, EndGreenyellow: 25}},
		},
		{
			name: "red too long", minGY: 5, maxGY: 40, minRed: 2, maxRed: 10,
			intervals: []control.GreenYellowInterval{{StartGreenyellow: 0, EndGreenyellow: 25}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ix := mustIntersection(t,
				[]intersection.SignalGroup{mustSignalGroup(t, "sg1", tt.minGY, tt.maxGY, tt.minRed, tt.maxRed)},
				nil, nil, nil, nil)
			fts := mustSchedule(t, map[string][]control.GreenYellowInterval{"sg1": tt.intervals}, 60)
			assertViolation(t, ValidateSchedule(ix, fts, 0))
		})
	}
}

func TestValidateScheduleWrappingInterval(t *testing.T) {
	// 50..10 wraps the period boundary: 20 seconds of greenyellow, 40 of red
	ix := mustIntersection(t,
		[]intersection.SignalGroup{mustSignalGroup(t, "sg1", 5, 40, 2, 80)},
		nil, nil, nil, nil)
	fts := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 50, EndGreenyellow: 10}},
	}, 60)

	if err := ValidateSchedule(ix, fts, 0); err != nil {
		t.Fatalf("wrapping schedule rejected: %v", err)
	}
}

func TestValidateScheduleConflicts(t *testing.T) {
	ix := mustIntersection(t,
		[]intersection.SignalGroup{
			mustSignalGroup(t, "sg1", 5, 40, 2, 80),
			mustSignalGroup(t, "sg2", 5, 40, 2, 80),
		},
		[]intersection.Conflict{mustConflict(t, "sg1", "sg2", 2, 3)},
		nil, nil, nil)

	// overlapping greenyellow intervals of conflicting groups
	overlapping := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 0, EndGreenyellow: 25}},
		"sg2": {{StartGreenyellow: 20, EndGreenyellow: 45}},
	}, 60)
	assertViolation(t, ValidateSchedule(ix, overlapping, 0))

	// disjoint but the 2-second setup after sg1 is not respected
	tooTight := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 0, EndGreenyellow: 25}},
		"sg2": {{StartGreenyellow: 26, EndGreenyellow: 50}},
	}, 60)
	assertViolation(t, ValidateSchedule(ix, tooTight, 0))

	// setups respected on both sides
	safe := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 0, EndGreenyellow: 25}},
		"sg2": {{StartGreenyellow: 28, EndGreenyellow: 55}},
	}, 60)
	if err := ValidateSchedule(ix, safe, 0); err != nil {
		t.Fatalf("safe schedule rejected: %v", err)
	}
}

func TestValidateScheduleSyncStart(t *testing.T) {
	syncStart, err := intersection.NewSyncStart("sg1", "sg2")
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	ix := mustIntersection(t,
		[]intersection.SignalGroup{
			mustSignalGroup(t, "sg1", 5, 40, 0, 80),
			mustSignalGroup(t, "sg2", 5, 40, 0, 80),
		},
		nil, []intersection.SyncStart{syncStart}, nil, nil)

	synced := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 10, EndGreenyellow: 30}},
		"sg2": {{StartGreenyellow: 10, EndGreenyellow: 35}},
	}, 60)
	if err := ValidateSchedule(ix, synced, 0); err != nil {
		t.Fatalf("synchronous schedule rejected: %v", err)
	}

	shifted := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 10, EndGreenyellow: 30}},
		"sg2": {{StartGreenyellow: 15, EndGreenyellow: 35}},
	}, 60)
	assertViolation(t, ValidateSchedule(ix, shifted, 0))
}

func TestValidateScheduleOffset(t *testing.T) {
	offset, err := intersection.NewOffset("sg1", "sg2", 10)
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	ix := mustIntersection(t,
		[]intersection.SignalGroup{
			mustSignalGroup(t, "sg1", 5, 40, 0, 80),
			mustSignalGroup(t, "sg2", 5, 40, 0, 80),
		},
		nil, nil, []intersection.Offset{offset}, nil)

	aligned := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 5, EndGreenyellow: 25}},
		"sg2": {{StartGreenyellow: 15, EndGreenyellow: 35}},
	}, 60)
	if err := ValidateSchedule(ix, aligned, 0); err != nil {
		t.Fatalf("offset schedule rejected: %v", err)
	}

	misaligned := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 5, EndGreenyellow: 25}},
		"sg2": {{StartGreenyellow: 20, EndGreenyellow: 40}},
	}, 60)
	assertViolation(t, ValidateSchedule(ix, misaligned, 0))
}

func TestValidateScheduleRelationIntervalCountMismatch(t *testing.T) {
	syncStart, err := intersection.NewSyncStart("sg1", "sg2")
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	ix := mustIntersection(t,
		[]intersection.SignalGroup{
			mustSignalGroup(t, "sg1", 5, 40, 0, 80),
			mustSignalGroup(t, "sg2", 5, 40, 0, 80),
		},
		nil, []intersection.SyncStart{syncStart}, nil, nil)

	fts := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 0, EndGreenyellow: 10}, {StartGreenyellow: 30, EndGreenyellow: 40}},
		"sg2": {{StartGreenyellow: 0, EndGreenyellow: 10}},
	}, 60)
	assertViolation(t, ValidateSchedule(ix, fts, 0))
}

func TestValidateSchedulePeriodicOrder(t *testing.T) {
	order, err := intersection.NewPeriodicOrder([]string{"sg1", "sg2"})
	if err != nil {
		t.Fatalf("test fixture: %v", err)
	}
	groups := []intersection.SignalGroup{
		mustSignalGroup(t, "sg1", 5, 40, 2, 80),
		mustSignalGroup(t, "sg2", 5, 40, 2, 80),
	}
	conflicts := []intersection.Conflict{mustConflict(t, "sg1", "sg2", 2, 3)}
	ix := mustIntersection(t, groups, conflicts, nil, nil, []intersection.PeriodicOrder{order})

	ordered := mustSchedule(t, map[string][]control.GreenYellowInterval{
		"sg1": {{StartGreenyellow: 0, EndGreenyellow: 25}},
		"sg2": {{StartGreenyellow: 30, EndGreenyellow: 55}},
	}, 60)
	if err := ValidateSchedule(ix, ordered, 0); err != nil {
		t.Fatalf("ordered schedule rejected: %v", err)
	}
}

func TestShiftOfOneToOneMatch(t *testing.T) {
	shift, ok := shiftOfOneToOneMatch([][]bool{
		{false, true, false},
		{false, false, true},
		{true, false, false},
	})
	if !ok || shift != 1 {
		t.Errorf("shift = %d, %v; want 1, true", shift, ok)
	}

	_, ok = shiftOfOneToOneMatch([][]bool{
		{false, true},
		{false, true},
	})
	if ok {
		t.Error("found a shift in a matrix without one")
	}
}

func TestOverlapOfIntervals(t *testing.T) {
	tests := []struct {
		name     string
		a, b     periodicInterval
		wantsAny bool
	}{
		{name: "plain overlap", a: periodicInterval{10, 30}, b: periodicInterval{20, 40}, wantsAny: true},
		{name: "disjoint", a: periodicInterval{10, 20}, b: periodicInterval{30, 40}, wantsAny: false},
		{name: "wrapping vs plain overlapping", a: periodicInterval{50, 10}, b: periodicInterval{5, 20}, wantsAny: true},
		{name: "wrapping vs plain disjoint", a: periodicInterval{50, 10}, b: periodicInterval{20, 40}, wantsAny: false},
		{name: "both wrapping", a: periodicInterval{50, 10}, b: periodicInterval{55, 5}, wantsAny: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := overlapOfIntervals(tt.a, tt.b, 60)
			if (len(got) > 0) != tt.wantsAny {
				t.Errorf("overlap = %v, wantsAny = %v", got, tt.wantsAny)
			}
		})
	}
}
