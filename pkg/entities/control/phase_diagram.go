package control

import (
	"fmt"
	"strings"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// GreenYellowPhase refers to the (IntervalIndex+1)-th greenyellow interval of
// the signal group with the given id.
type GreenYellowPhase struct {
	SignalGroupID string
	IntervalIndex int
}

// ToJSON returns the wire representation: an [id, index] pair.
func (g GreenYellowPhase) ToJSON() []any {
	return []any{g.SignalGroupID, g.IntervalIndex}
}

// GreenYellowPhaseFromJSON reconstructs a GreenYellowPhase from its wire
// representation.
func GreenYellowPhaseFromJSON(raw []any) (GreenYellowPhase, error) {
	if len(raw) != 2 {
		return GreenYellowPhase{}, errs.NewDeserializationError(errs.WrongType, "phase_diagram",
			"expected [id, index] pair, got %d elements", len(raw))
	}
	id, ok := raw[0].(string)
	if !ok {
		return GreenYellowPhase{}, errs.NewDeserializationError(errs.WrongType, "phase_diagram",
			"expected signal group id string, got %T", raw[0])
	}
	idx, ok := raw[1].(float64)
	if !ok || idx != float64(int(idx)) || idx < 0 {
		return GreenYellowPhase{}, errs.NewDeserializationError(errs.WrongType, "phase_diagram",
			"expected non-negative interval index, got %v", raw[1])
	}
	return GreenYellowPhase{SignalGroupID: id, IntervalIndex: int(idx)}, nil
}

// Phase is a set of greenyellow intervals that are (partially) concurrent.
type Phase struct {
	GreenyellowPhases []GreenYellowPhase
}

// ToJSON returns the wire representation.
func (p Phase) ToJSON() []any {
	out := make([]any, len(p.GreenyellowPhases))
	for i, g := range p.GreenyellowPhases {
		out[i] = g.ToJSON()
	}
	return out
}

// PhaseFromJSON reconstructs a Phase from its wire representation.
func PhaseFromJSON(raw []any) (Phase, error) {
	phases := make([]GreenYellowPhase, len(raw))
	for i, r := range raw {
		pair, ok := r.([]any)
		if !ok {
			return Phase{}, errs.NewDeserializationError(errs.WrongType, "phase_diagram",
				"expected array of [id, index] pairs, got %T at index %d", r, i)
		}
		g, err := GreenYellowPhaseFromJSON(pair)
		if err != nil {
			return Phase{}, err
		}
		phases[i] = g
	}
	return Phase{GreenyellowPhases: phases}, nil
}

// PhaseDiagram is the derived representation of a fixed-time schedule as an
// ordered sequence of phases.
type PhaseDiagram struct {
	Phases []Phase
}

// ToJSON returns the wire representation: a nested array of phases.
func (pd PhaseDiagram) ToJSON() []any {
	out := make([]any, len(pd.Phases))
	for i, p := range pd.Phases {
		out[i] = p.ToJSON()
	}
	return out
}

// PhaseDiagramFromJSON reconstructs a PhaseDiagram from its wire
// representation.
func PhaseDiagramFromJSON(raw []any) (PhaseDiagram, error) {
	phases := make([]Phase, len(raw))
	for i, r := range raw {
		list, ok := r.([]any)
		if !ok {
			return PhaseDiagram{}, errs.NewDeserializationError(errs.WrongType, "phase_diagram",
				"expected array of phases, got %T at index %d", r, i)
		}
		p, err := PhaseFromJSON(list)
		if err != nil {
			return PhaseDiagram{}, err
		}
		phases[i] = p
	}
	return PhaseDiagram{Phases: phases}, nil
}

// String renders the diagram one phase per line.
func (pd PhaseDiagram) String() string {
	var b strings.Builder
	b.WriteString("phase diagram:")
	for _, p := range pd.Phases {
		b.WriteString("\n  [")
		for i, g := range p.GreenyellowPhases {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "(id=%s, k=%d)", g.SignalGroupID, g.IntervalIndex)
		}
		b.WriteString("]")
	}
	return b.String()
}
