package flow

import "fmt"

// Severity classifies a validation issue.
type Severity string

const (
	// SeverityError marks issues that must be fixed before any virtual user runs.
	SeverityError Severity = "error"
	// SeverityWarning marks suspicious but runnable structure.
	SeverityWarning Severity = "warning"
)

// Issue is one structural validation finding.
type Issue struct {
	Severity Severity
	StepID   string
	Field    string
	Message  string
}

func (i Issue) String() string {
	if i.StepID != "" {
		return fmt.Sprintf("[%s] step %q %s: %s", i.Severity, i.StepID, i.Field, i.Message)
	}
	return fmt.Sprintf("[%s] %s", i.Severity, i.Message)
}

// Validate checks the journey's reference structure. Errors are dangling
// branch goto / onSuccess / onFailure targets; warnings are steps unreachable
// from the first step over the union of branch, onSuccess, onFailure, and
// sequential-next edges. A journey with zero error-severity issues is safe
// to execute.
func (e *Engine) Validate() []Issue {
	var issues []Issue

	for i := range e.journey.Steps {
		step := &e.journey.Steps[i]
		for bi := range step.Branches {
			target := step.Branches[bi].Goto
			if _, ok := e.index[target]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityError,
					StepID:   step.ID,
					Field:    fmt.Sprintf("branches[%d].goto", bi),
					Message:  fmt.Sprintf("references non-existent step %q", target),
				})
			}
		}
		if step.OnSuccess != "" {
			if _, ok := e.index[step.OnSuccess]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityError,
					StepID:   step.ID,
					Field:    "onSuccess",
					Message:  fmt.Sprintf("references non-existent step %q", step.OnSuccess),
				})
			}
		}
		if step.OnFailure != "" {
			if _, ok := e.index[step.OnFailure]; !ok {
				issues = append(issues, Issue{
					Severity: SeverityError,
					StepID:   step.ID,
					Field:    "onFailure",
					Message:  fmt.Sprintf("references non-existent step %q", step.OnFailure),
				})
			}
		}
	}

	for _, id := range e.unreachableSteps() {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			StepID:   id,
			Message:  "unreachable from the first step",
		})
	}

	return issues
}

// Errors filters issues down to error severity.
func Errors(issues []Issue) []Issue {
	var errs []Issue
	for _, issue := range issues {
		if issue.Severity == SeverityError {
			errs = append(errs, issue)
		}
	}
	return errs
}

// unreachableSteps runs a DFS from the first step over all outgoing edges
// and returns the ids of steps never visited, in declaration order.
func (e *Engine) unreachableSteps() []string {
	visited := make(map[string]bool, len(e.journey.Steps))
	stack := []string{e.FirstStepID()}

	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			continue
		}
		visited[id] = true

		i, ok := e.index[id]
		if !ok {
			continue
		}
		for _, next := range e.outgoingEdges(&e.journey.Steps[i]) {
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}

	var unreachable []string
	for i := range e.journey.Steps {
		if !visited[e.journey.Steps[i].ID] {
			unreachable = append(unreachable, e.journey.Steps[i].ID)
		}
	}
	return unreachable
}
