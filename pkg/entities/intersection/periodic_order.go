package intersection

import (
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// PeriodicOrder fixes the cyclic order in which the named signal groups must
// receive one of their greenyellow intervals. Consecutive groups in the order
// (including the wrap-around pair) must be conflicting; the Intersection
// checks that at assembly.
type PeriodicOrder struct {
	Order []string `json:"order" validate:"required,min=2,unique"`
}

// NewPeriodicOrder creates a PeriodicOrder of unique signal group ids.
func NewPeriodicOrder(order []string) (PeriodicOrder, error) {
	po := PeriodicOrder{Order: order}
	if err := checkStruct(po); err != nil {
		return PeriodicOrder{}, err
	}
	return po, nil
}

// ToJSON returns the wire representation.
func (po PeriodicOrder) ToJSON() map[string]any {
	order := make([]any, len(po.Order))
	for i, id := range po.Order {
		order[i] = id
	}
	return map[string]any{"order": order}
}

// PeriodicOrderFromJSON reconstructs a PeriodicOrder from its wire
// representation.
func PeriodicOrderFromJSON(m map[string]any) (PeriodicOrder, error) {
	raw, err := jsonmap.Slice(m, "order")
	if err != nil {
		return PeriodicOrder{}, err
	}
	order, err := jsonmap.Strings(raw, "order")
	if err != nil {
		return PeriodicOrder{}, err
	}
	po, err := NewPeriodicOrder(order)
	if err != nil {
		return PeriodicOrder{}, errs.NewDeserializationError(errs.InvalidValue, "periodic_orders", "%v", err)
	}
	return po, nil
}
