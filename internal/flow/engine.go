package flow

import (
	"fmt"

	"github.com/trekload/trek/internal/journey"
)

// Engine evaluates transitions for one journey. It holds only immutable
// journey structure and is safe for concurrent use by any number of virtual
// users.
type Engine struct {
	journey *journey.Journey
	index   map[string]int
}

// NewEngine builds an engine for a journey. The journey must satisfy its
// construction-time invariants (non-empty steps, unique step ids).
func NewEngine(j *journey.Journey) (*Engine, error) {
	if err := j.CheckInvariants(); err != nil {
		return nil, err
	}
	index := make(map[string]int, len(j.Steps))
	for i := range j.Steps {
		index[j.Steps[i].ID] = i
	}
	return &Engine{journey: j, index: index}, nil
}

// Journey returns the journey this engine evaluates.
func (e *Engine) Journey() *journey.Journey { return e.journey }

// FirstStepID returns the id of the journey's first step.
func (e *Engine) FirstStepID() string { return e.journey.Steps[0].ID }

// TransitionReason tags which rule in the fallback chain selected the next
// step. The chain is ordered: branches, then onSuccess/onFailure, then the
// sequential successor, then end-of-journey.
type TransitionReason string

const (
	// ReasonBranch means a branch condition matched.
	ReasonBranch TransitionReason = "branch"
	// ReasonOnSuccess means the 2xx fallback edge was taken.
	ReasonOnSuccess TransitionReason = "onSuccess"
	// ReasonOnFailure means the non-2xx fallback edge was taken.
	ReasonOnFailure TransitionReason = "onFailure"
	// ReasonSequential means the declared next step was selected.
	ReasonSequential TransitionReason = "sequential"
	// ReasonEnd means the journey has no further step.
	ReasonEnd TransitionReason = "end"
)

// Transition is the outcome of evaluating a step's response.
type Transition struct {
	// Matched reports whether a branch condition matched
	Matched bool

	// NextStepID is the selected next step; "" ends the journey
	NextStepID string

	// MatchedBranch is the winning branch, when Reason is ReasonBranch
	MatchedBranch *journey.Branch

	// Reason tags which fallback rule decided
	Reason TransitionReason
}

// resolver is one stage of the transition fallback chain. It returns a
// transition and whether it decided.
type resolver func(step *journey.Step, resp *journey.StepResponse) (Transition, bool)

// EvaluateTransition decides the next step id after a step's response is
// known. Branch conditions are evaluated in declared order and the first
// match wins; otherwise the onSuccess/onFailure edge for the response
// outcome applies; otherwise the step declared immediately after this one;
// otherwise the journey ends.
func (e *Engine) EvaluateTransition(step *journey.Step, resp *journey.StepResponse, state *FlowState) Transition {
	chain := []resolver{
		e.resolveBranches,
		e.resolveOutcome,
		e.resolveSequential,
	}
	for _, resolve := range chain {
		if tr, ok := resolve(step, resp); ok {
			return tr
		}
	}
	return Transition{Reason: ReasonEnd}
}

// resolveBranches applies the step's branches in declared order.
func (e *Engine) resolveBranches(step *journey.Step, resp *journey.StepResponse) (Transition, bool) {
	for i := range step.Branches {
		b := &step.Branches[i]
		if EvaluateCondition(&b.Condition, resp) {
			return Transition{
				Matched:       true,
				NextStepID:    b.Goto,
				MatchedBranch: b,
				Reason:        ReasonBranch,
			}, true
		}
	}
	return Transition{}, false
}

// resolveOutcome applies the onSuccess/onFailure edge for the response
// outcome, when configured.
func (e *Engine) resolveOutcome(step *journey.Step, resp *journey.StepResponse) (Transition, bool) {
	if resp.IsSuccess() {
		if step.OnSuccess != "" {
			return Transition{NextStepID: step.OnSuccess, Reason: ReasonOnSuccess}, true
		}
		return Transition{}, false
	}
	if step.OnFailure != "" {
		return Transition{NextStepID: step.OnFailure, Reason: ReasonOnFailure}, true
	}
	return Transition{}, false
}

// resolveSequential falls back to the step declared immediately after this
// one in the journey's step order.
func (e *Engine) resolveSequential(step *journey.Step, _ *journey.StepResponse) (Transition, bool) {
	next := e.journey.StepAfter(step.ID)
	if next == "" {
		return Transition{}, false
	}
	return Transition{NextStepID: next, Reason: ReasonSequential}, true
}

// ShouldExecuteStep reports whether the given step should run now, given a
// virtual user's state. It reads nothing but its arguments, so it is safe to
// evaluate concurrently, once per virtual user, with no coordination.
//
// Rules: the journey's first step runs when nothing has executed yet; a step
// already in ExecutedSteps never runs again; otherwise only the step the
// last transition selected runs.
func (e *Engine) ShouldExecuteStep(stepID string, state *FlowState) bool {
	if len(state.ExecutedSteps) == 0 {
		return stepID == e.FirstStepID()
	}
	if state.Executed(stepID) {
		return false
	}
	return stepID == state.NextStepID
}

// StepByID returns the step with the given id or an error naming it.
func (e *Engine) StepByID(id string) (*journey.Step, error) {
	i, ok := e.index[id]
	if !ok {
		return nil, fmt.Errorf("unknown step id %q", id)
	}
	return &e.journey.Steps[i], nil
}
