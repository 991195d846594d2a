package profile

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/trekload/trek/pkg/jsonschema"
)

const profileSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["profiles"],
  "properties": {
    "profiles": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["name", "weight"],
        "properties": {
          "name": {"type": "string", "minLength": 1},
          "weight": {"type": "number", "exclusiveMinimum": 0},
          "dataSource": {"type": "string"},
          "data": {"type": "array", "items": {"type": "object"}},
          "variables": {"type": "object", "additionalProperties": {"type": "string"}},
          "generators": {
            "type": "object",
            "additionalProperties": {
              "type": "object",
              "required": ["type"],
              "properties": {
                "type": {"type": "string", "enum": ["uuid", "timestamp", "random", "sequence", "faker"]},
                "charset": {"type": "string"},
                "length": {"type": "integer", "minimum": 1},
                "min": {"type": "integer"},
                "max": {"type": "integer"},
                "start": {"type": "integer"},
                "step": {"type": "integer"},
                "method": {"type": "string"},
                "args": {"type": "array"}
              }
            }
          }
        }
      }
    }
  }
}`

var compiledProfileSchema = jsonschema.MustCompile(profileSchema)

// LoadConfig reads a profile configuration from a JSON or YAML file and
// checks it against the profile schema. Generator option validation happens
// at Distributor construction.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading profile config: %w", err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses profile configuration bytes; the filename selects JSON
// or YAML input. YAML is normalized to JSON before decoding so both
// syntaxes yield identical value types in inline data rows.
func ParseConfig(data []byte, filename string) (*Config, error) {
	normalized := data
	if isYAML(filename) {
		var raw interface{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("error parsing YAML: %w", err)
		}
		encoded, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("error normalizing YAML document: %w", err)
		}
		normalized = encoded
	}

	if errs := compiledProfileSchema.ValidateJSON(normalized); errs != nil {
		return nil, fmt.Errorf("profile config invalid: %w", errs)
	}

	var cfg Config
	if err := json.Unmarshal(normalized, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing profile config: %w", err)
	}
	return &cfg, nil
}

func isYAML(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
