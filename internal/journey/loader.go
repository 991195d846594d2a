package journey

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/trekload/trek/pkg/jsonschema"
)

// Load reads a journey document from a JSON or YAML file, checks it against
// the journey schema, applies defaults, and verifies construction-time
// invariants. Reference-level validation (dangling targets, unreachable
// steps) is the flow engine's job.
func Load(path string) (*Journey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading journey file: %w", err)
	}
	return Parse(data, path)
}

// Parse parses journey document bytes. The filename selects the input
// syntax: .yaml/.yml parse as YAML, everything else as JSON. YAML documents
// are normalized to JSON before decoding, so both syntaxes produce identical
// value types (numbers are always float64); condition evaluation depends on
// that canonical form.
func Parse(data []byte, filename string) (*Journey, error) {
	normalized, err := normalizeDocument(data, filename)
	if err != nil {
		return nil, err
	}

	if errs := compiledJourneySchema.ValidateJSON(normalized); errs != nil {
		return nil, fmt.Errorf("journey document invalid: %w", errs)
	}

	var j Journey
	if err := json.Unmarshal(normalized, &j); err != nil {
		return nil, fmt.Errorf("error parsing journey file: %w", err)
	}

	applyDefaults(&j)

	if err := j.CheckInvariants(); err != nil {
		return nil, err
	}
	return &j, nil
}

// applyDefaults fills derived fields: extraction type defaults to jsonpath,
// step think time inherits the journey default, method upper-cases.
func applyDefaults(j *Journey) {
	for i := range j.Steps {
		step := &j.Steps[i]
		step.Method = strings.ToUpper(step.Method)
		if step.ThinkTime == 0 {
			step.ThinkTime = j.ThinkTime
		}
		for e := range step.Extract {
			if step.Extract[e].Type == "" {
				step.Extract[e].Type = ExtractJSONPath
			}
		}
	}
}

// normalizeDocument converts file bytes into canonical JSON bytes. JSON
// input passes through untouched; YAML goes through a JSON round-trip so
// one codec decodes every document.
func normalizeDocument(data []byte, filename string) ([]byte, error) {
	if !isYAML(filename) {
		return data, nil
	}
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing YAML: %w", err)
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("error normalizing YAML document: %w", err)
	}
	return encoded, nil
}

func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ValidateDocument runs only the schema check on raw document bytes and
// returns the individual schema violations. Used by the CLI to report shape
// problems without attempting to decode further.
func ValidateDocument(data []byte, filename string) jsonschema.ValidationErrors {
	normalized, err := normalizeDocument(data, filename)
	if err != nil {
		return jsonschema.ValidationErrors{err}
	}
	return compiledJourneySchema.ValidateJSON(normalized)
}
