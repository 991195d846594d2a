package flow

import "github.com/trekload/trek/internal/journey"

// Path is one possible route through a journey graph. Because branch
// outcomes are not known statically, a step can have several possible next
// steps; every combination contributes a path.
type Path struct {
	// Steps is the ordered list of step ids on this path
	Steps []string

	// HasCycle is set when the path revisits a step already on it; the
	// search stops extending such paths, which is what keeps enumeration
	// finite on cyclic graphs
	HasCycle bool

	// IsComplete is set when the path ends at a step with no outgoing edges
	IsComplete bool
}

// EnumeratePaths explores every possible route from the first step across
// the union of branch, onSuccess, onFailure, and sequential-next edges. The
// result is finite even for cyclic journeys: a step reappearing on the
// current DFS stack marks the path cyclic and stops it there.
func (e *Engine) EnumeratePaths() []Path {
	var paths []Path
	onStack := make(map[string]bool, len(e.journey.Steps))
	e.walk(e.FirstStepID(), nil, onStack, &paths)
	return paths
}

func (e *Engine) walk(id string, trail []string, onStack map[string]bool, paths *[]Path) {
	trail = append(trail, id)

	if onStack[id] {
		*paths = append(*paths, Path{Steps: snapshot(trail), HasCycle: true})
		return
	}

	i, ok := e.index[id]
	if !ok {
		// Dangling reference; Validate reports it, enumeration just ends here.
		*paths = append(*paths, Path{Steps: snapshot(trail)})
		return
	}

	edges := e.outgoingEdges(&e.journey.Steps[i])
	if len(edges) == 0 {
		*paths = append(*paths, Path{Steps: snapshot(trail), IsComplete: true})
		return
	}

	onStack[id] = true
	for _, next := range edges {
		e.walk(next, trail, onStack, paths)
	}
	onStack[id] = false
}

// outgoingEdges returns a step's possible next steps in evaluation order:
// branch targets, then onSuccess, then onFailure, then the sequential
// successor. The sequential edge only exists when an outcome edge is
// missing: with both onSuccess and onFailure set, one of them always
// decides and fallthrough can never be taken. Duplicate targets are
// collapsed, preserving first position.
func (e *Engine) outgoingEdges(step *journey.Step) []string {
	var edges []string
	seen := make(map[string]bool)

	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			edges = append(edges, id)
		}
	}

	for i := range step.Branches {
		add(step.Branches[i].Goto)
	}
	add(step.OnSuccess)
	add(step.OnFailure)
	if step.OnSuccess == "" || step.OnFailure == "" {
		add(e.journey.StepAfter(step.ID))
	}

	return edges
}

func snapshot(trail []string) []string {
	out := make([]string, len(trail))
	copy(out, trail)
	return out
}
