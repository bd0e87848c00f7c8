package client

import "github.com/stijnfleuren/SwiftCloudApi/pkg/errs"

// Objective selects the kpi the cloud optimizes. It is a closed enumeration;
// unsupported values are rejected locally before any network cost.
type Objective string

const (
	// ObjectiveMinDelay minimizes the delay experienced by road users
	// arriving during the horizon. Initially waiting traffic is modeled by
	// raising the arrival rates with queue/horizon.
	ObjectiveMinDelay Objective = "min delay"
	// ObjectiveMinPeriod searches for the schedule with the smallest period
	// for which all traffic lights are stable.
	ObjectiveMinPeriod Objective = "min period duration"
	// ObjectiveMaxCapacity searches for the schedule sustaining the largest
	// percentual traffic increase for which all lights remain stable.
	ObjectiveMaxCapacity Objective = "max capacity"
)

// Validate rejects values outside the closed enumeration.
func (o Objective) Validate() error {
	switch o {
	case ObjectiveMinDelay, ObjectiveMinPeriod, ObjectiveMaxCapacity:
		return nil
	default:
		return errs.NewValidationError(errs.IncompleteInput, "objective",
			"unknown objective '%s'", string(o))
	}
}
