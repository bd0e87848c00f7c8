package intersection

import (
	"fmt"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// Intersection aggregates the signal groups of one controller with all
// relations between them. Two physical intersections driven by a single
// controller are modeled as one Intersection (one namespace of ids).
type Intersection struct {
	SignalGroups     []SignalGroup
	Conflicts        []Conflict
	SyncStarts       []SyncStart
	Offsets          []Offset
	GreenyellowLeads []GreenyellowLead
	PeriodicOrders   []PeriodicOrder

	idToSignalGroup map[string]SignalGroup
}

// NewIntersection assembles an Intersection and validates the cross-entity
// invariants: unique signal group ids, no dangling relation ids, no duplicate
// conflict pairs, at most one start relation per directed pair, and setup
// times that leave room for the minimum greenyellow durations. Relation
// slices may be nil.
func NewIntersection(signalGroups []SignalGroup, conflicts []Conflict, syncStarts []SyncStart,
	offsets []Offset, greenyellowLeads []GreenyellowLead, periodicOrders []PeriodicOrder) (Intersection, error) {
	ix := Intersection{
		SignalGroups:     signalGroups,
		Conflicts:        conflicts,
		SyncStarts:       syncStarts,
		Offsets:          offsets,
		GreenyellowLeads: greenyellowLeads,
		PeriodicOrders:   periodicOrders,
		idToSignalGroup:  make(map[string]SignalGroup, len(signalGroups)),
	}
	if len(signalGroups) == 0 {
		return Intersection{}, errs.NewValidationError(errs.IncompleteInput, "signalgroups",
			"an intersection needs at least one signal group")
	}
	for _, sg := range signalGroups {
		if _, exists := ix.idToSignalGroup[sg.ID]; exists {
			return Intersection{}, errs.NewValidationError(errs.DuplicateID, "signalgroups",
				"signal group id '%s' is used more than once", sg.ID)
		}
		ix.idToSignalGroup[sg.ID] = sg
	}
	if err := ix.validateReferences(); err != nil {
		return Intersection{}, err
	}
	if err := ix.validateRelationPairs(); err != nil {
		return Intersection{}, err
	}
	if err := ix.validateSetupTimes(); err != nil {
		return Intersection{}, err
	}
	if err := ix.validatePeriodicOrders(); err != nil {
		return Intersection{}, err
	}
	return ix, nil
}

// SignalGroupByID resolves a signal group id.
func (ix Intersection) SignalGroupByID(id string) (SignalGroup, error) {
	sg, ok := ix.idToSignalGroup[id]
	if !ok {
		return SignalGroup{}, errs.NewValidationError(errs.DanglingReference, "id",
			"signal group with id '%s' does not exist", id)
	}
	return sg, nil
}

// startRelation is the view shared by sync starts, offsets and
// greenyellow-leads: a directed pair of greenyellow starts.
type startRelation struct {
	fromID, toID string
	kind         string
}

func (ix Intersection) startRelations() []startRelation {
	rels := make([]startRelation, 0, len(ix.SyncStarts)+len(ix.Offsets)+len(ix.GreenyellowLeads))
	for _, s := range ix.SyncStarts {
		rels = append(rels, startRelation{s.FromID, s.ToID, "sync start"})
	}
	for _, o := range ix.Offsets {
		rels = append(rels, startRelation{o.FromID, o.ToID, "offset"})
	}
	for _, g := range ix.GreenyellowLeads {
		rels = append(rels, startRelation{g.FromID, g.ToID, "greenyellow-lead"})
	}
	return rels
}

func (ix Intersection) validateReferences() error {
	for _, c := range ix.Conflicts {
		for _, id := range []string{c.ID1, c.ID2} {
			if _, ok := ix.idToSignalGroup[id]; !ok {
				return errs.NewValidationError(errs.DanglingReference, "conflicts",
					"unknown signal group id '%s' used in conflict", id)
			}
		}
	}
	for _, rel := range ix.startRelations() {
		for _, id := range []string{rel.fromID, rel.toID} {
			if _, ok := ix.idToSignalGroup[id]; !ok {
				return errs.NewValidationError(errs.DanglingReference, "other_relations",
					"unknown signal group id '%s' used in %s", id, rel.kind)
			}
		}
	}
	return nil
}

func (ix Intersection) validateRelationPairs() error {
	seenConflicts := make(map[[2]string]bool, len(ix.Conflicts))
	for _, c := range ix.Conflicts {
		key := pairKey(c.ID1, c.ID2)
		if seenConflicts[key] {
			return errs.NewValidationError(errs.DuplicateID, "conflicts",
				"duplicate conflict between '%s' and '%s'", c.ID1, c.ID2)
		}
		seenConflicts[key] = true
	}
	seenStarts := make(map[[2]string]string)
	for _, rel := range ix.startRelations() {
		key := pairKey(rel.fromID, rel.toID)
		if prev, ok := seenStarts[key]; ok {
			return errs.NewValidationError(errs.DuplicateID, "other_relations",
				"multiple relations (%s, %s) between the greenyellow starts of '%s' and '%s'",
				prev, rel.kind, rel.fromID, rel.toID)
		}
		seenStarts[key] = rel.kind
	}
	return nil
}

func (ix Intersection) validateSetupTimes() error {
	for _, c := range ix.Conflicts {
		sg1 := ix.idToSignalGroup[c.ID1]
		sg2 := ix.idToSignalGroup[c.ID2]
		if sg1.MinGreenyellow+c.Setup12 <= 0 {
			return errs.NewValidationError(errs.InvalidBound, "setup12",
				"setup12 plus min_greenyellow of '%s' must be strictly positive (conflict '%s'/'%s')",
				c.ID1, c.ID1, c.ID2)
		}
		if sg2.MinGreenyellow+c.Setup21 <= 0 {
			return errs.NewValidationError(errs.InvalidBound, "setup21",
				"setup21 plus min_greenyellow of '%s' must be strictly positive (conflict '%s'/'%s')",
				c.ID2, c.ID1, c.ID2)
		}
	}
	return nil
}

func (ix Intersection) validatePeriodicOrders() error {
	conflictPairs := make(map[[2]string]bool, len(ix.Conflicts))
	for _, c := range ix.Conflicts {
		conflictPairs[pairKey(c.ID1, c.ID2)] = true
	}
	for _, po := range ix.PeriodicOrders {
		prev := po.Order[len(po.Order)-1]
		for _, id := range po.Order {
			if _, ok := ix.idToSignalGroup[id]; !ok {
				return errs.NewValidationError(errs.DanglingReference, "periodic_orders",
					"unknown signal group id '%s' used in periodic order %v", id, po.Order)
			}
			if !conflictPairs[pairKey(prev, id)] {
				return errs.NewValidationError(errs.InvalidBound, "periodic_orders",
					"subsequent signal groups in a periodic order must conflict; '%s' and '%s' do not (order %v)",
					prev, id, po.Order)
			}
			prev = id
		}
	}
	return nil
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

// ToJSON returns the wire representation. Sync starts, offsets and
// greenyellow-leads serialize into the shared other_relations array.
func (ix Intersection) ToJSON() map[string]any {
	groups := make([]any, len(ix.SignalGroups))
	for i, sg := range ix.SignalGroups {
		groups[i] = sg.ToJSON()
	}
	conflicts := make([]any, len(ix.Conflicts))
	for i, c := range ix.Conflicts {
		conflicts[i] = c.ToJSON()
	}
	others := make([]any, 0, len(ix.SyncStarts)+len(ix.Offsets)+len(ix.GreenyellowLeads))
	for _, s := range ix.SyncStarts {
		others = append(others, s.ToJSON())
	}
	for _, o := range ix.Offsets {
		others = append(others, o.ToJSON())
	}
	for _, g := range ix.GreenyellowLeads {
		others = append(others, g.ToJSON())
	}
	orders := make([]any, len(ix.PeriodicOrders))
	for i, po := range ix.PeriodicOrders {
		orders[i] = po.ToJSON()
	}
	return map[string]any{
		"signalgroups":    groups,
		"conflicts":       conflicts,
		"other_relations": others,
		"periodic_orders": orders,
	}
}

// IntersectionFromJSON reconstructs an Intersection from its wire
// representation, demultiplexing the other_relations array by the min/max
// time rules documented on the relation types.
func IntersectionFromJSON(m map[string]any) (Intersection, error) {
	rawGroups, err := jsonmap.Slice(m, "signalgroups")
	if err != nil {
		return Intersection{}, err
	}
	groups := make([]SignalGroup, len(rawGroups))
	for i, raw := range rawGroups {
		gm, ok := raw.(map[string]any)
		if !ok {
			return Intersection{}, errs.NewDeserializationError(errs.WrongType, "signalgroups",
				"expected array of objects, got %T at index %d", raw, i)
		}
		sg, err := SignalGroupFromJSON(gm)
		if err != nil {
			return Intersection{}, err
		}
		groups[i] = sg
	}

	rawConflicts, err := jsonmap.Slice(m, "conflicts")
	if err != nil {
		return Intersection{}, err
	}
	conflicts := make([]Conflict, len(rawConflicts))
	for i, raw := range rawConflicts {
		cm, ok := raw.(map[string]any)
		if !ok {
			return Intersection{}, errs.NewDeserializationError(errs.WrongType, "conflicts",
				"expected array of objects, got %T at index %d", raw, i)
		}
		c, err := ConflictFromJSON(cm)
		if err != nil {
			return Intersection{}, err
		}
		conflicts[i] = c
	}

	rawOthers, err := jsonmap.Slice(m, "other_relations")
	if err != nil {
		return Intersection{}, err
	}
	var (
		syncStarts []SyncStart
		offsets    []Offset
		leads      []GreenyellowLead
	)
	for i, raw := range rawOthers {
		om, ok := raw.(map[string]any)
		if !ok {
			return Intersection{}, errs.NewDeserializationError(errs.WrongType, "other_relations",
				"expected array of objects, got %T at index %d", raw, i)
		}
		_, _, minTime, maxTime, err := otherRelationFields(om)
		if err != nil {
			return Intersection{}, err
		}
		switch {
		case minTime == 0 && maxTime == 0:
			s, err := SyncStartFromJSON(om)
			if err != nil {
				return Intersection{}, err
			}
			syncStarts = append(syncStarts, s)
		case minTime == maxTime:
			o, err := OffsetFromJSON(om)
			if err != nil {
				return Intersection{}, err
			}
			offsets = append(offsets, o)
		default:
			g, err := GreenyellowLeadFromJSON(om)
			if err != nil {
				return Intersection{}, err
			}
			leads = append(leads, g)
		}
	}

	var orders []PeriodicOrder
	rawOrders, err := jsonmap.OptionalSlice(m, "periodic_orders")
	if err != nil {
		return Intersection{}, err
	}
	for i, raw := range rawOrders {
		om, ok := raw.(map[string]any)
		if !ok {
			return Intersection{}, errs.NewDeserializationError(errs.WrongType, "periodic_orders",
				"expected array of objects, got %T at index %d", raw, i)
		}
		po, err := PeriodicOrderFromJSON(om)
		if err != nil {
			return Intersection{}, err
		}
		orders = append(orders, po)
	}

	ix, err := NewIntersection(groups, conflicts, syncStarts, offsets, leads, orders)
	if err != nil {
		return Intersection{}, errs.NewDeserializationError(errs.InvalidValue, "intersection", "%v", err)
	}
	return ix, nil
}

// String summarizes the intersection for logs.
func (ix Intersection) String() string {
	return fmt.Sprintf("intersection{%d signal groups, %d conflicts}", len(ix.SignalGroups), len(ix.Conflicts))
}
