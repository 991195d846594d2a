package sim

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/trekload/trek/internal/journey"
)

// DefaultKey scripts the response used for any step without its own entry.
const DefaultKey = "*"

// ScriptedResponses maps step ids to the response each step should receive
// during simulation. Steps without an entry get the "*" default, or a plain
// 200 when no default is scripted either.
type ScriptedResponses struct {
	byStep map[string]*journey.StepResponse
}

// NewScriptedResponses builds a response script from a step-id keyed map.
func NewScriptedResponses(responses map[string]*journey.StepResponse) *ScriptedResponses {
	if responses == nil {
		responses = make(map[string]*journey.StepResponse)
	}
	return &ScriptedResponses{byStep: responses}
}

// LoadScript reads a response script from a JSON or YAML file: an object
// keyed by step id (plus optional "*") whose values are StepResponse
// documents.
func LoadScript(path string) (*ScriptedResponses, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading response script: %w", err)
	}

	byStep := make(map[string]*journey.StepResponse)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &byStep); err != nil {
			return nil, fmt.Errorf("error parsing response script: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &byStep); err != nil {
			return nil, fmt.Errorf("error parsing response script: %w", err)
		}
	}
	return NewScriptedResponses(byStep), nil
}

// For returns the scripted response for a step.
func (s *ScriptedResponses) For(stepID string) *journey.StepResponse {
	if resp, ok := s.byStep[stepID]; ok {
		return resp
	}
	if resp, ok := s.byStep[DefaultKey]; ok {
		return resp
	}
	return &journey.StepResponse{StatusCode: 200}
}
