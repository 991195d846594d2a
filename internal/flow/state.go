// Package flow decides, after each step's response is known, which step a
// virtual user executes next. It also validates journey structure and
// enumerates the possible paths through a journey graph.
//
// All operations are pure functions over caller-owned state: a FlowState is
// allocated per virtual user, passed explicitly through calls, and never
// shared. The Engine itself is immutable after construction, so one Engine
// can serve any number of concurrent virtual users.
package flow

// FlowState is the per-virtual-user record of execution progress. It is
// created at the start of a virtual user's run, mutated after every step,
// and discarded at run end. It must be exclusively owned by one virtual-user
// execution context; no two virtual users may share an instance.
type FlowState struct {
	// CurrentStepID is the step that executed most recently
	CurrentStepID string

	// Variables holds the bindings accumulated from extraction
	Variables map[string]interface{}

	// ExecutedSteps lists already-executed step ids in order
	ExecutedSteps []string

	// NextStepID is the step the last transition selected; "" means the
	// journey ended
	NextStepID string
}

// NewFlowState returns a fresh state for one virtual user.
func NewFlowState() *FlowState {
	return &FlowState{
		Variables: make(map[string]interface{}),
	}
}

// RecordStep marks a step as executed, merges its extracted bindings, and
// stores the transition's choice of next step.
func (s *FlowState) RecordStep(stepID string, bindings map[string]interface{}, nextStepID string) {
	s.CurrentStepID = stepID
	s.ExecutedSteps = append(s.ExecutedSteps, stepID)
	s.NextStepID = nextStepID
	for k, v := range bindings {
		s.Variables[k] = v
	}
}

// Executed reports whether the given step id has already run.
func (s *FlowState) Executed(stepID string) bool {
	for _, id := range s.ExecutedSteps {
		if id == stepID {
			return true
		}
	}
	return false
}
