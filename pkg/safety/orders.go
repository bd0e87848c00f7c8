package safety

import (
	"strings"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/control"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/intersection"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
)

// validatePeriodicOrders ensures the schedule respects every fixed periodic
// order: shifted so the first greenyellow interval of the first group in the
// order starts at time zero, the interval starts must be non-decreasing when
// walking the order.
func validatePeriodicOrders(ix intersection.Intersection, fts control.FixedTimeSchedule) error {
	for _, order := range ix.PeriodicOrders {
		if err := validatePeriodicOrder(fts, order); err != nil {
			return err
		}
	}
	return nil
}

func validatePeriodicOrder(fts control.FixedTimeSchedule, order intersection.PeriodicOrder) error {
	firstInterval, err := fts.IntervalOf(order.Order[0], 0)
	if err != nil {
		return errs.NewSafetyViolation("no greenyellow intervals specified for '%s'", order.Order[0])
	}
	firstStart := firstInterval.StartGreenyellow

	prevSwitch := 0.0
	for _, id := range order.Order {
		intervals, err := fts.IntervalsOf(id)
		if err != nil {
			return errs.NewSafetyViolation("no greenyellow intervals specified for '%s'", id)
		}
		for _, interval := range intervals {
			switchTime := mod(interval.StartGreenyellow-firstStart+epsilon, fts.Period) - epsilon
			if switchTime < prevSwitch {
				return errs.NewSafetyViolation(
					"periodic order %s is violated", strings.Join(order.Order, " -> "))
			}
			prevSwitch = switchTime
		}
	}
	return nil
}
