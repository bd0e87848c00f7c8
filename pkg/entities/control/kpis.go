package control

import (
	"fmt"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// KPIs are the performance indicators the cloud computes when evaluating a
// fixed-time schedule against a traffic scenario.
type KPIs struct {
	// Delay is the expected delay in seconds experienced at the intersection.
	Delay float64
	// Capacity is the largest uniform traffic increase the intersection can
	// sustain; 1.1 means 10% headroom, 0.9 means already oversaturated.
	Capacity float64
}

// ToJSON returns the wire representation.
func (k KPIs) ToJSON() map[string]any {
	return map[string]any{"delay": k.Delay, "capacity": k.Capacity}
}

// KPIsFromJSON reconstructs KPIs from the wire representation.
func KPIsFromJSON(m map[string]any) (KPIs, error) {
	delay, err := jsonmap.Float(m, "delay")
	if err != nil {
		return KPIs{}, err
	}
	capacity, err := jsonmap.Float(m, "capacity")
	if err != nil {
		return KPIs{}, err
	}
	return KPIs{Delay: delay, Capacity: capacity}, nil
}

func (k KPIs) String() string {
	return fmt.Sprintf("KPIs: delay=%.2fs, capacity=%.3f", k.Delay, k.Capacity)
}
