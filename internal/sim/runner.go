// Package sim drives the full interpreter core against scripted responses:
// no HTTP, just the extract/transition/gate loop a real load host runs,
// with one privately owned FlowState per simulated user.
package sim

import (
	"fmt"

	"github.com/trekload/trek/internal/extract"
	"github.com/trekload/trek/internal/flow"
	"github.com/trekload/trek/internal/interp"
	"github.com/trekload/trek/internal/profile"
	"github.com/trekload/trek/internal/stats"
)

// DefaultMaxSteps bounds a single simulated user's run so cyclic journeys
// terminate.
const DefaultMaxSteps = 100

// Runner executes simulated users over one journey and a scripted response
// set. The Runner itself is immutable after construction; each Run call owns
// its state, so concurrent Runs are safe.
type Runner struct {
	engine    *flow.Engine
	responses *ScriptedResponses
	recorder  *stats.Recorder
	maxSteps  int
}

// NewRunner builds a runner. recorder may be nil when no aggregation is
// wanted; maxSteps <= 0 selects DefaultMaxSteps.
func NewRunner(engine *flow.Engine, responses *ScriptedResponses, recorder *stats.Recorder, maxSteps int) *Runner {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	return &Runner{
		engine:    engine,
		responses: responses,
		recorder:  recorder,
		maxSteps:  maxSteps,
	}
}

// TrailStep records one executed step of a simulated user.
type TrailStep struct {
	// StepID is the executed step
	StepID string

	// StatusCode is the scripted response's status
	StatusCode int

	// Bound are the variables this step's extractions produced
	Bound map[string]interface{}

	// SoftErrors are extraction failures (omitted variables), never fatal
	SoftErrors []string

	// NextStepID is what the transition selected ("" = end)
	NextStepID string

	// Reason tags which fallback rule selected the next step
	Reason flow.TransitionReason
}

// Trail is the full record of one simulated user's run.
type Trail struct {
	// ProfileName is the synthetic user's cohort ("" when run without one)
	ProfileName string

	// Steps are the executed steps in order
	Steps []TrailStep

	// Completed is true when the journey ended on its own rather than
	// hitting the step bound
	Completed bool

	// Variables is the final merged interpolation namespace
	Variables map[string]interface{}
}

// Run simulates one user. user may be nil to run the journey without
// profile data.
func (r *Runner) Run(user *profile.UserContext) (*Trail, error) {
	state := flow.NewFlowState()
	trail := &Trail{}
	if user != nil {
		trail.ProfileName = user.ProfileName
	}

	stepID := r.engine.FirstStepID()
	for stepID != "" {
		if len(trail.Steps) >= r.maxSteps {
			// Truncated runs still report what they bound.
			trail.Variables = interp.Build(r.engine.Journey(), user, state.Variables)
			return trail, nil
		}
		if !r.engine.ShouldExecuteStep(stepID, state) {
			return trail, fmt.Errorf("flow state refused step %q (next=%q)", stepID, state.NextStepID)
		}

		step, err := r.engine.StepByID(stepID)
		if err != nil {
			return trail, err
		}

		resp := r.responses.For(stepID)
		bound, softErrors := extract.ExtractAll(step.Extract, resp)
		transition := r.engine.EvaluateTransition(step, resp, state)
		state.RecordStep(stepID, bound, transition.NextStepID)

		if r.recorder != nil {
			r.recorder.Record(stepID, resp.ResponseTimeMs, resp.IsSuccess())
		}

		trail.Steps = append(trail.Steps, TrailStep{
			StepID:     stepID,
			StatusCode: resp.StatusCode,
			Bound:      bound,
			SoftErrors: softErrors,
			NextStepID: transition.NextStepID,
			Reason:     transition.Reason,
		})

		stepID = transition.NextStepID
	}

	trail.Completed = true
	trail.Variables = interp.Build(r.engine.Journey(), user, state.Variables)
	return trail, nil
}
