package client

import (
	"context"

	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/control"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/intersection"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/entities/scenario"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/errs"
	"github.com/stijnfleuren/SwiftCloudApi/pkg/jsonmap"
)

// OptimizeOptions tune an optimization or tuning call. The zero value
// selects the defaults.
type OptimizeOptions struct {
	// Objective selects the optimization criterion; default min delay.
	Objective Objective
	// InitialQueueLengths is the traffic initially waiting per signal group;
	// nil or missing ids default to zero queues. The queues are folded into
	// the arrival rates as queue/horizon before sending.
	InitialQueueLengths *scenario.QueueLengths
	// Horizon is the time period of interest in hours; default 2.0, must be
	// at least one hour.
	Horizon float64
	// MinPeriodDuration and MaxPeriodDuration bound the schedule period in
	// seconds; defaults 0 and 180.
	MinPeriodDuration float64
	MaxPeriodDuration float64
}

func (o OptimizeOptions) withDefaults() (OptimizeOptions, error) {
	if o.Objective == "" {
		o.Objective = ObjectiveMinDelay
	}
	if err := o.Objective.Validate(); err != nil {
		return OptimizeOptions{}, err
	}
	if o.Horizon == 0 {
		o.Horizon = 2.0
	}
	if o.Horizon < 1 {
		return OptimizeOptions{}, errs.NewValidationError(errs.InvalidBound, "horizon",
			"horizon should be at least one hour, got %v", o.Horizon)
	}
	if o.MaxPeriodDuration == 0 {
		o.MaxPeriodDuration = 180
	}
	if o.MinPeriodDuration < 0 || o.MaxPeriodDuration < o.MinPeriodDuration {
		return OptimizeOptions{}, errs.NewValidationError(errs.InvalidBound, "min_period_duration",
			"period duration bounds must satisfy 0 <= min <= max")
	}
	return o, nil
}

// EvaluateOptions tune an evaluation call. The zero value selects the
// defaults.
type EvaluateOptions struct {
	// InitialQueueLengths as in OptimizeOptions.
	InitialQueueLengths *scenario.QueueLengths
	// Horizon as in OptimizeOptions.
	Horizon float64
}

func (o EvaluateOptions) withDefaults() (EvaluateOptions, error) {
	if o.Horizon == 0 {
		o.Horizon = 2.0
	}
	if o.Horizon < 1 {
		return EvaluateOptions{}, errs.NewValidationError(errs.InvalidBound, "horizon",
			"horizon should be at least one hour, got %v", o.Horizon)
	}
	return o, nil
}

// GetOptimizedFTS asks the cloud for the fixed-time schedule optimizing the
// chosen objective for the given intersection and traffic scenario. It
// returns the schedule, its phase diagram and the objective value (minimized
// delay in seconds, minimized period in seconds, or the sustainable traffic
// increase divided by 100 for max capacity).
func (c *Client) GetOptimizedFTS(ctx context.Context, ix intersection.Intersection,
	arrivalRates scenario.ArrivalRates, opts OptimizeOptions) (
	control.FixedTimeSchedule, control.PhaseDiagram, float64, error) {

	opts, err := opts.withDefaults()
	if err != nil {
		return control.FixedTimeSchedule{}, control.PhaseDiagram{}, 0, err
	}
	corrected, err := demandForRequest(ix, arrivalRates, opts.InitialQueueLengths, opts.Horizon)
	if err != nil {
		return control.FixedTimeSchedule{}, control.PhaseDiagram{}, 0, err
	}

	out, err := c.post(ctx, "get_optimized_fts", pathOptimization, map[string]any{
		"intersection":        ix.ToJSON(),
		"arrival_rates":       corrected.ToJSON(),
		"min_period_duration": opts.MinPeriodDuration,
		"max_period_duration": opts.MaxPeriodDuration,
		"objective":           string(opts.Objective),
	})
	if err != nil {
		return control.FixedTimeSchedule{}, control.PhaseDiagram{}, 0, err
	}

	objValue, err := jsonmap.Float(out, "obj_value")
	if err != nil {
		return control.FixedTimeSchedule{}, control.PhaseDiagram{}, 0, err
	}
	ftsMap, err := jsonmap.Map(out, "fixed_time_schedule")
	if err != nil {
		return control.FixedTimeSchedule{}, control.PhaseDiagram{}, 0, err
	}
	fts, err := control.FixedTimeScheduleFromJSON(ftsMap)
	if err != nil {
		return control.FixedTimeSchedule{}, control.PhaseDiagram{}, 0, err
	}
	pdRaw, err := jsonmap.Slice(out, "phase_diagram")
	if err != nil {
		return control.FixedTimeSchedule{}, control.PhaseDiagram{}, 0, err
	}
	pd, err := control.PhaseDiagramFromJSON(pdRaw)
	if err != nil {
		return control.FixedTimeSchedule{}, control.PhaseDiagram{}, 0, err
	}
	return fts, pd, objValue, nil
}

// GetPhaseDiagram derives the phase diagram of an existing fixed-time
// schedule. Pure derivation; nothing is re-optimized.
func (c *Client) GetPhaseDiagram(ctx context.Context, ix intersection.Intersection,
	fts control.FixedTimeSchedule) (control.PhaseDiagram, error) {

	ftsJSON := fts.ToJSON()
	out, err := c.post(ctx, "get_phase_diagram", pathPhaseDiagram, map[string]any{
		"intersection":          ix.ToJSON(),
		"greenyellow_intervals": ftsJSON["greenyellow_intervals"],
		"period":                ftsJSON["period"],
	})
	if err != nil {
		return control.PhaseDiagram{}, err
	}
	pdRaw, err := jsonmap.Slice(out, "phase_diagram")
	if err != nil {
		return control.PhaseDiagram{}, err
	}
	return control.PhaseDiagramFromJSON(pdRaw)
}

// GetTunedFTS adjusts the green times of an existing schedule to a new
// traffic situation without altering its cycle structure or ordering.
func (c *Client) GetTunedFTS(ctx context.Context, ix intersection.Intersection,
	fts control.FixedTimeSchedule, arrivalRates scenario.ArrivalRates, opts OptimizeOptions) (
	control.FixedTimeSchedule, float64, error) {

	opts, err := opts.withDefaults()
	if err != nil {
		return control.FixedTimeSchedule{}, 0, err
	}
	corrected, err := demandForRequest(ix, arrivalRates, opts.InitialQueueLengths, opts.Horizon)
	if err != nil {
		return control.FixedTimeSchedule{}, 0, err
	}

	out, err := c.post(ctx, "get_tuned_fts", pathTuning, map[string]any{
		"intersection":        ix.ToJSON(),
		"fixed_time_schedule": fts.ToJSON(),
		"arrival_rates":       corrected.ToJSON(),
		"min_period_duration": opts.MinPeriodDuration,
		"max_period_duration": opts.MaxPeriodDuration,
		"objective":           string(opts.Objective),
	})
	if err != nil {
		return control.FixedTimeSchedule{}, 0, err
	}

	objValue, err := jsonmap.Float(out, "obj_value")
	if err != nil {
		return control.FixedTimeSchedule{}, 0, err
	}
	ftsMap, err := jsonmap.Map(out, "fixed_time_schedule")
	if err != nil {
		return control.FixedTimeSchedule{}, 0, err
	}
	tuned, err := control.FixedTimeScheduleFromJSON(ftsMap)
	if err != nil {
		return control.FixedTimeSchedule{}, 0, err
	}
	return tuned, objValue, nil
}

// EvaluateFTS computes the performance indicators of a schedule for a
// traffic scenario. Read-only; no optimization is performed, so identical
// inputs yield identical results.
func (c *Client) EvaluateFTS(ctx context.Context, ix intersection.Intersection,
	fts control.FixedTimeSchedule, arrivalRates scenario.ArrivalRates, opts EvaluateOptions) (
	control.KPIs, error) {

	opts, err := opts.withDefaults()
	if err != nil {
		return control.KPIs{}, err
	}
	corrected, err := demandForRequest(ix, arrivalRates, opts.InitialQueueLengths, opts.Horizon)
	if err != nil {
		return control.KPIs{}, err
	}

	out, err := c.post(ctx, "evaluate_fts", pathEvaluation, map[string]any{
		"intersection":        ix.ToJSON(),
		"fixed_time_schedule": fts.ToJSON(),
		"arrival_rates":       corrected.ToJSON(),
		"horizon":             opts.Horizon,
	})
	if err != nil {
		return control.KPIs{}, err
	}
	kpisMap, err := jsonmap.Map(out, "kpis")
	if err != nil {
		return control.KPIs{}, err
	}
	return control.KPIsFromJSON(kpisMap)
}

// demandForRequest checks that the arrival rates (and queue lengths, when
// given) cover every signal group with one value per traffic light, then
// folds the initial queues into the rates as traffic arriving evenly during
// the horizon. Unspecified queues default to zero.
func demandForRequest(ix intersection.Intersection, rates scenario.ArrivalRates,
	queues *scenario.QueueLengths, horizon float64) (scenario.ArrivalRates, error) {

	for _, sg := range ix.SignalGroups {
		sgRates, ok := rates.IDToRates[sg.ID]
		if !ok {
			return scenario.ArrivalRates{}, errs.NewValidationError(errs.IncompleteInput, sg.ID,
				"arrival rates must be specified for signal group '%s'", sg.ID)
		}
		if len(sgRates) != len(sg.TrafficLights) {
			return scenario.ArrivalRates{}, errs.NewValidationError(errs.IncompleteInput, sg.ID,
				"arrival rates must be specified for all %d traffic lights of signal group '%s', got %d",
				len(sg.TrafficLights), sg.ID, len(sgRates))
		}
		if queues != nil {
			if lengths, ok := queues.IDToLengths[sg.ID]; ok && len(lengths) != len(sg.TrafficLights) {
				return scenario.ArrivalRates{}, errs.NewValidationError(errs.IncompleteInput, sg.ID,
					"initial queue lengths must be specified for all %d traffic lights of signal group '%s', got %d",
					len(sg.TrafficLights), sg.ID, len(lengths))
			}
		}
	}
	if queues == nil {
		return rates, nil
	}

	corrected := make(map[string][]float64, len(rates.IDToRates))
	for id, sgRates := range rates.IDToRates {
		summed := make([]float64, len(sgRates))
		copy(summed, sgRates)
		if lengths, ok := queues.IDToLengths[id]; ok {
			for i := range summed {
				summed[i] += lengths[i] / horizon
			}
		}
		corrected[id] = summed
	}
	return scenario.ArrivalRates{IDToRates: corrected}, nil
}
