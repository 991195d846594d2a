// Package journey defines the declarative journey document model: ordered
// API steps with conditional branching, response extraction rules, and the
// response interchange type the host feeds back after each request.
package journey

import "fmt"

// Journey is a declarative ordered sequence of API steps with optional
// conditional branching between them.
type Journey struct {
	// ID uniquely identifies the journey
	ID string `json:"id" yaml:"id"`

	// Name is a human-readable name (used in output)
	Name string `json:"name" yaml:"name"`

	// Description of the journey (optional)
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Headers are default headers applied to every step
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Timeout is the default per-step timeout
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`

	// ThinkTime is the default wait between steps
	ThinkTime Duration `json:"thinkTime,omitempty" yaml:"thinkTime,omitempty"`

	// Variables are static variables available to every step's templates
	Variables map[string]string `json:"variables,omitempty" yaml:"variables,omitempty"`

	// Steps are executed starting from the first; step ids must be unique
	// and the list must be non-empty
	Steps []Step `json:"steps" yaml:"steps"`
}

// Step is one API call plus its extraction and branching rules. The request
// template fields (method, url, headers, body) are opaque to the flow engine
// beyond being interpolation targets for the host.
type Step struct {
	// ID uniquely identifies the step within its journey
	ID string `json:"id" yaml:"id"`

	// Name is an optional human-readable label
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Method is the HTTP method template
	Method string `json:"method" yaml:"method"`

	// URL is the request URL template
	URL string `json:"url" yaml:"url"`

	// Headers are request-specific header templates
	Headers map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Body is the request body template
	Body string `json:"body,omitempty" yaml:"body,omitempty"`

	// ThinkTime overrides the journey default wait after this step
	ThinkTime Duration `json:"thinkTime,omitempty" yaml:"thinkTime,omitempty"`

	// Extract defines variables to pull out of this step's response
	Extract []Extraction `json:"extract,omitempty" yaml:"extract,omitempty"`

	// Branches are conditional edges evaluated in declared order after the
	// response is known; the first matching branch wins
	Branches []Branch `json:"branches,omitempty" yaml:"branches,omitempty"`

	// OnSuccess is the step to go to on a 2xx response when no branch matched
	OnSuccess string `json:"onSuccess,omitempty" yaml:"onSuccess,omitempty"`

	// OnFailure is the step to go to on a non-2xx response when no branch matched
	OnFailure string `json:"onFailure,omitempty" yaml:"onFailure,omitempty"`
}

// Branch is a conditional edge from one step to a target step id.
type Branch struct {
	// Condition decides whether this edge is taken
	Condition Condition `json:"condition" yaml:"condition"`

	// Goto is the target step id
	Goto string `json:"goto" yaml:"goto"`
}

// Condition pairs a value source with exactly one comparison operator.
//
// Value source precedence: Field (JSONPath into the response body), then
// Status (exact numeric match, short-circuits all operators), then Header
// (case-insensitive lookup). A condition with none of the three is
// unevaluable and always false.
//
// When multiple operator keys are set, the first present one in declaration
// order below is applied and the rest are ignored.
type Condition struct {
	// Field is a JSONPath expression evaluated against the response body
	Field string `json:"field,omitempty" yaml:"field,omitempty"`

	// Status matches the response status code exactly
	Status *int `json:"status,omitempty" yaml:"status,omitempty"`

	// Header names a response header to read (case-insensitive)
	Header string `json:"header,omitempty" yaml:"header,omitempty"`

	// Eq tests equality (numbers compare numerically across int/float)
	Eq interface{} `json:"eq,omitempty" yaml:"eq,omitempty"`

	// Ne tests inequality
	Ne interface{} `json:"ne,omitempty" yaml:"ne,omitempty"`

	// Gt, Gte, Lt, Lte compare numerically; non-numeric values are false
	Gt  *float64 `json:"gt,omitempty" yaml:"gt,omitempty"`
	Gte *float64 `json:"gte,omitempty" yaml:"gte,omitempty"`
	Lt  *float64 `json:"lt,omitempty" yaml:"lt,omitempty"`
	Lte *float64 `json:"lte,omitempty" yaml:"lte,omitempty"`

	// Contains tests substring membership on string values
	Contains *string `json:"contains,omitempty" yaml:"contains,omitempty"`

	// Matches tests the value against a regular expression
	Matches *string `json:"matches,omitempty" yaml:"matches,omitempty"`

	// Exists tests presence (non-null); Exists=false inverts
	Exists *bool `json:"exists,omitempty" yaml:"exists,omitempty"`

	// In tests membership in a fixed list using strict equality
	In []interface{} `json:"in,omitempty" yaml:"in,omitempty"`
}

// ExtractionType identifies an extraction strategy. The set is closed:
// loaders reject anything else at load time so downstream switches can be
// exhaustive.
type ExtractionType string

const (
	// ExtractJSONPath evaluates a JSONPath expression against the body (the default).
	ExtractJSONPath ExtractionType = "jsonpath"
	// ExtractHeader reads a response header, case-insensitively.
	ExtractHeader ExtractionType = "header"
	// ExtractRegex applies a regular expression to the body as a string.
	ExtractRegex ExtractionType = "regex"
	// ExtractStatus yields the numeric status code.
	ExtractStatus ExtractionType = "status"
)

// Valid reports whether t is a known extraction type.
func (t ExtractionType) Valid() bool {
	switch t {
	case ExtractJSONPath, ExtractHeader, ExtractRegex, ExtractStatus:
		return true
	}
	return false
}

// Extraction is a rule pulling a value out of a step response into a named
// variable.
type Extraction struct {
	// Type selects the extraction strategy; empty defaults to jsonpath
	Type ExtractionType `json:"type,omitempty" yaml:"type,omitempty"`

	// Path is the JSONPath expression, header name, or regex pattern.
	// Regex patterns accept "<pattern>" or "<pattern>|<groupIndex>".
	Path string `json:"path" yaml:"path"`

	// As is the destination variable name
	As string `json:"as" yaml:"as"`

	// Default overrides a failed extraction with a fixed value
	Default interface{} `json:"default,omitempty" yaml:"default,omitempty"`

	// Transform is an expression applied to the extracted value; it can read
	// only the value itself (bound as "value")
	Transform string `json:"transform,omitempty" yaml:"transform,omitempty"`
}

// StepByID returns the step with the given id, or nil.
func (j *Journey) StepByID(id string) *Step {
	for i := range j.Steps {
		if j.Steps[i].ID == id {
			return &j.Steps[i]
		}
	}
	return nil
}

// StepAfter returns the id of the step declared immediately after the given
// one, or "" if it is the last step (or unknown).
func (j *Journey) StepAfter(id string) string {
	for i := range j.Steps {
		if j.Steps[i].ID == id && i+1 < len(j.Steps) {
			return j.Steps[i+1].ID
		}
	}
	return ""
}

// CheckInvariants verifies the construction-time invariants: steps non-empty
// and step ids unique. Reference targets are checked by flow.Validate, not
// here.
func (j *Journey) CheckInvariants() error {
	if len(j.Steps) == 0 {
		return fmt.Errorf("journey %q has no steps", j.ID)
	}
	seen := make(map[string]bool, len(j.Steps))
	for _, s := range j.Steps {
		if s.ID == "" {
			return fmt.Errorf("journey %q contains a step without an id", j.ID)
		}
		if seen[s.ID] {
			return fmt.Errorf("journey %q has duplicate step id %q", j.ID, s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}
