package intersection

import (
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// Relations between signal groups reference the groups by id only; lookups
// resolve against the owning Intersection when it is assembled. SyncStart,
// Offset and GreenyellowLead share one wire envelope ("other relations") that
// records which interval edges the relation ties together:
//
//	{from_id, from_start_gy, to_id, to_start_gy, min_time, max_time, same_start_phase}
//
// A sync start is min=max=0, an offset min=max!=0, a greenyellow-lead
// min<max. IntersectionFromJSON demultiplexes on those rules.

// Conflict marks two signal groups whose greenyellow intervals may never
// overlap, with directional setup (clearance) times between them.
type Conflict struct {
	ID1 string `json:"id1" validate:"required"`
	ID2 string `json:"id2" validate:"required,nefield=ID1"`
	// Setup12 is the minimum time in seconds from the end of a greenyellow
	// interval of ID1 to the start of one of ID2; Setup21 the reverse.
	Setup12 float64 `json:"setup12"`
	Setup21 float64 `json:"setup21"`
}

// NewConflict creates a Conflict. Individual setup times may be negative
// (overlap of clearance), but their sum must be non-negative.
func NewConflict(id1, id2 string, setup12, setup21 float64) (Conflict, error) {
	c := Conflict{ID1: id1, ID2: id2, Setup12: setup12, Setup21: setup21}
	if err := checkStruct(c); err != nil {
		return Conflict{}, err
	}
	if setup12+setup21 < 0 {
		return Conflict{}, errs.NewValidationError(errs.NegativeValue, "setup12",
			"setup12+setup21 must be non-negative, got %v", setup12+setup21)
	}
	return c, nil
}

// ToJSON returns the wire representation.
func (c Conflict) ToJSON() map[string]any {
	return map[string]any{"id1": c.ID1, "id2": c.ID2, "setup12": c.Setup12, "setup21": c.Setup21}
}

// ConflictFromJSON reconstructs a Conflict from its wire representation.
func ConflictFromJSON(m map[string]any) (Conflict, error) {
	id1, err := jsonmap.String(m, "id1")
	if err != nil {
		return Conflict{}, err
	}
	id2, err := jsonmap.String(m, "id2")
	if err != nil {
		return Conflict{}, err
	}
	setup12, err := jsonmap.Float(m, "setup12")
	if err != nil {
		return Conflict{}, err
	}
	setup21, err := jsonmap.Float(m, "setup21")
	if err != nil {
		return Conflict{}, err
	}
	c, err := NewConflict(id1, id2, setup12, setup21)
	if err != nil {
		return Conflict{}, errs.NewDeserializationError(errs.InvalidValue, "conflicts", "%v", err)
	}
	return c, nil
}

// SyncStart forces two signal groups to start each greenyellow interval
// simultaneously. This also forces both groups to have the same number of
// greenyellow intervals per period.
type SyncStart struct {
	FromID string `json:"from_id" validate:"required"`
	ToID   string `json:"to_id" validate:"required,nefield=FromID"`
}

// NewSyncStart creates a SyncStart. The pair is stored in a canonical order
// so equal relations compare equal regardless of argument order.
func NewSyncStart(fromID, toID string) (SyncStart, error) {
	s := SyncStart{FromID: fromID, ToID: toID}
	if s.FromID < s.ToID {
		s.FromID, s.ToID = s.ToID, s.FromID
	}
	if err := checkStruct(s); err != nil {
		return SyncStart{}, err
	}
	return s, nil
}

// ToJSON returns the shared other-relation envelope.
func (s SyncStart) ToJSON() map[string]any {
	return map[string]any{
		"from_id": s.FromID, "from_start_gy": true,
		"to_id": s.ToID, "to_start_gy": true,
		"min_time": 0.0, "max_time": 0.0, "same_start_phase": true,
	}
}

// SyncStartFromJSON reconstructs a SyncStart from the other-relation
// envelope; min_time and max_time must both be zero.
func SyncStartFromJSON(m map[string]any) (SyncStart, error) {
	fromID, toID, minTime, maxTime, err := otherRelationFields(m)
	if err != nil {
		return SyncStart{}, err
	}
	if minTime != 0 || maxTime != 0 {
		return SyncStart{}, errs.NewDeserializationError(errs.InvalidValue, "min_time",
			"not a synchronous start: min_time and max_time must be zero")
	}
	s, err := NewSyncStart(fromID, toID)
	if err != nil {
		return SyncStart{}, errs.NewDeserializationError(errs.InvalidValue, "other_relations", "%v", err)
	}
	return s, nil
}

// Offset fixes the time difference in seconds between the greenyellow starts
// of two signal groups; used for green-wave coordination.
type Offset struct {
	FromID string `json:"from_id" validate:"required"`
	ToID   string `json:"to_id" validate:"required,nefield=FromID"`
	// Seconds is the exact time from the start of a greenyellow interval of
	// FromID to the start of one of ToID.
	Seconds float64 `json:"seconds"`
}

// NewOffset creates an Offset.
func NewOffset(fromID, toID string, seconds float64) (Offset, error) {
	o := Offset{FromID: fromID, ToID: toID, Seconds: seconds}
	if err := checkStruct(o); err != nil {
		return Offset{}, err
	}
	return o, nil
}

// ToJSON returns the shared other-relation envelope.
func (o Offset) ToJSON() map[string]any {
	return map[string]any{
		"from_id": o.FromID, "from_start_gy": true,
		"to_id": o.ToID, "to_start_gy": true,
		"min_time": o.Seconds, "max_time": o.Seconds, "same_start_phase": false,
	}
}

// OffsetFromJSON reconstructs an Offset from the other-relation envelope;
// min_time and max_time must be equal.
func OffsetFromJSON(m map[string]any) (Offset, error) {
	fromID, toID, minTime, maxTime, err := otherRelationFields(m)
	if err != nil {
		return Offset{}, err
	}
	if minTime != maxTime {
		return Offset{}, errs.NewDeserializationError(errs.InvalidValue, "min_time",
			"not an offset: min_time and max_time must be equal")
	}
	o, err := NewOffset(fromID, toID, minTime)
	if err != nil {
		return Offset{}, errs.NewDeserializationError(errs.InvalidValue, "other_relations", "%v", err)
	}
	return o, nil
}

// GreenyellowLead bounds how much earlier FromID starts its greenyellow
// interval relative to ToID. MinSeconds may be negative to express a lag.
type GreenyellowLead struct {
	FromID     string  `json:"from_id" validate:"required"`
	ToID       string  `json:"to_id" validate:"required,nefield=FromID"`
	MinSeconds float64 `json:"min_seconds"`
	MaxSeconds float64 `json:"max_seconds" validate:"gtefield=MinSeconds"`
}

// NewGreenyellowLead creates a GreenyellowLead.
func NewGreenyellowLead(fromID, toID string, minSeconds, maxSeconds float64) (GreenyellowLead, error) {
	g := GreenyellowLead{FromID: fromID, ToID: toID, MinSeconds: minSeconds, MaxSeconds: maxSeconds}
	if err := checkStruct(g); err != nil {
		return GreenyellowLead{}, err
	}
	return g, nil
}

// ToJSON returns the shared other-relation envelope.
func (g GreenyellowLead) ToJSON() map[string]any {
	return map[string]any{
		"from_id": g.FromID, "from_start_gy": true,
		"to_id": g.ToID, "to_start_gy": true,
		"min_time": g.MinSeconds, "max_time": g.MaxSeconds, "same_start_phase": true,
	}
}

// GreenyellowLeadFromJSON reconstructs a GreenyellowLead from the
// other-relation envelope.
func GreenyellowLeadFromJSON(m map[string]any) (GreenyellowLead, error) {
	fromID, toID, minTime, maxTime, err := otherRelationFields(m)
	if err != nil {
		return GreenyellowLead{}, err
	}
	g, err := NewGreenyellowLead(fromID, toID, minTime, maxTime)
	if err != nil {
		return GreenyellowLead{}, errs.NewDeserializationError(errs.InvalidValue, "other_relations", "%v", err)
	}
	return g, nil
}

// otherRelationFields extracts the fields common to the other-relation
// envelope and checks that the relation ties greenyellow starts together,
// the only edge combination the cloud api supports.
func otherRelationFields(m map[string]any) (fromID, toID string, minTime, maxTime float64, err error) {
	fromID, err = jsonmap.String(m, "from_id")
	if err != nil {
		return "", "", 0, 0, err
	}
	toID, err = jsonmap.String(m, "to_id")
	if err != nil {
		return "", "", 0, 0, err
	}
	fromStartGY, err := jsonmap.Bool(m, "from_start_gy")
	if err != nil {
		return "", "", 0, 0, err
	}
	toStartGY, err := jsonmap.Bool(m, "to_start_gy")
	if err != nil {
		return "", "", 0, 0, err
	}
	if !fromStartGY || !toStartGY {
		return "", "", 0, 0, errs.NewDeserializationError(errs.InvalidValue, "from_start_gy",
			"only relations between greenyellow starts are supported")
	}
	minTime, err = jsonmap.Float(m, "min_time")
	if err != nil {
		return "", "", 0, 0, err
	}
	maxTime, err = jsonmap.Float(m, "max_time")
	if err != nil {
		return "", "", 0, 0, err
	}
	return fromID, toID, minTime, maxTime, nil
}
