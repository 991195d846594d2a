// Package extract pulls named values out of step responses. Extraction
// failures are never fatal: a failed rule either falls back to its default
// or is omitted, and the soft error is reported alongside the successful
// bindings.
package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/trekload/trek/internal/journey"
	"github.com/trekload/trek/pkg/jsonpath"
)

// Result is the outcome of one extraction.
type Result struct {
	// Success reports whether a value was produced
	Success bool

	// Value is the extracted (and possibly transformed or defaulted) value
	Value interface{}

	// Err describes the failure when Success is false
	Err error
}

// Extract applies one extraction rule to a response.
//
// After the strategy runs, two adjustments apply in order: a configured
// default converts failure into success with the default value, and a
// configured transform rewrites a successful value, with a transform
// failure demoting the result back to failure rather than propagating.
func Extract(ex journey.Extraction, resp *journey.StepResponse) Result {
	result := extractRaw(ex, resp)

	if !result.Success && ex.Default != nil {
		result = Result{Success: true, Value: ex.Default}
	}

	if result.Success && ex.Transform != "" {
		transformed, err := Transform(ex.Transform, result.Value)
		if err != nil {
			return Result{Err: fmt.Errorf("transform %q: %w", ex.Transform, err)}
		}
		result.Value = transformed
	}

	return result
}

func extractRaw(ex journey.Extraction, resp *journey.StepResponse) Result {
	switch ex.Type {
	case journey.ExtractJSONPath, "":
		return extractJSONPath(ex.Path, resp)
	case journey.ExtractHeader:
		return extractHeader(ex.Path, resp)
	case journey.ExtractRegex:
		return extractRegex(ex.Path, resp)
	case journey.ExtractStatus:
		return Result{Success: true, Value: resp.StatusCode}
	}
	return Result{Err: fmt.Errorf("unknown extraction type %q", ex.Type)}
}

// extractJSONPath evaluates a JSONPath expression against the body. A body
// that does not parse as JSON and an empty match are both failures. A
// single-element wildcard match collapses to a scalar; multi-element matches
// stay arrays.
func extractJSONPath(path string, resp *journey.StepResponse) Result {
	value, ok := jsonpath.Lookup(resp.BodyString(), path)
	if !ok {
		return Result{Err: fmt.Errorf("jsonpath %q matched nothing", path)}
	}
	return Result{Success: true, Value: value}
}

// extractHeader looks up a header case-insensitively; absence is failure.
func extractHeader(name string, resp *journey.StepResponse) Result {
	v, ok := resp.HeaderValue(name)
	if !ok {
		return Result{Err: fmt.Errorf("header %q not present", name)}
	}
	return Result{Success: true, Value: v}
}

// extractRegex applies a pattern to the body coerced to a string. The path
// syntax is "<pattern>" or "<pattern>|<groupIndex>"; the group defaults to 0
// (the whole match). No match is failure, as is an invalid pattern or a
// group index the pattern does not have.
func extractRegex(spec string, resp *journey.StepResponse) Result {
	pattern, group := splitRegexSpec(spec)

	re, err := regexp.Compile(pattern)
	if err != nil {
		return Result{Err: fmt.Errorf("invalid pattern %q: %w", pattern, err)}
	}

	matches := re.FindStringSubmatch(resp.BodyString())
	if matches == nil {
		return Result{Err: fmt.Errorf("pattern %q matched nothing", pattern)}
	}
	if group < 0 || group >= len(matches) {
		return Result{Err: fmt.Errorf("pattern %q has no group %d", pattern, group)}
	}
	return Result{Success: true, Value: matches[group]}
}

// splitRegexSpec splits "<pattern>|<groupIndex>" on the last pipe, but only
// when the suffix is a plain integer; a pipe inside the pattern itself
// (alternation) stays part of the pattern.
func splitRegexSpec(spec string) (string, int) {
	idx := strings.LastIndex(spec, "|")
	if idx < 0 {
		return spec, 0
	}
	group, err := strconv.Atoi(spec[idx+1:])
	if err != nil {
		return spec, 0
	}
	return spec[:idx], group
}

// ExtractAll applies every extraction independently. Successful rules
// populate the returned variable map under their As name; failed rules
// without a default are recorded as human-readable errors and simply
// omitted.
func ExtractAll(extractions []journey.Extraction, resp *journey.StepResponse) (map[string]interface{}, []string) {
	variables := make(map[string]interface{}, len(extractions))
	var errors []string

	for _, ex := range extractions {
		result := Extract(ex, resp)
		if result.Success {
			variables[ex.As] = result.Value
			continue
		}
		errors = append(errors, fmt.Sprintf("%s: %v", ex.As, result.Err))
	}

	return variables, errors
}
