package journey

import "github.com/trekload/trek/pkg/jsonschema"

// journeySchema is the JSON Schema every journey document must satisfy
// before structural validation runs. It catches shape errors (missing ids,
// wrong types, unknown extraction kinds) with precise locations; semantic
// checks like dangling step references belong to flow.Validate.
const journeySchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["id", "steps"],
  "properties": {
    "id": {"type": "string", "minLength": 1},
    "name": {"type": "string"},
    "description": {"type": "string"},
    "headers": {"type": "object", "additionalProperties": {"type": "string"}},
    "timeout": {"type": ["string", "integer"]},
    "thinkTime": {"type": ["string", "integer"]},
    "variables": {"type": "object", "additionalProperties": {"type": "string"}},
    "steps": {
      "type": "array",
      "minItems": 1,
      "items": {"$ref": "#/$defs/step"}
    }
  },
  "$defs": {
    "step": {
      "type": "object",
      "required": ["id", "method", "url"],
      "properties": {
        "id": {"type": "string", "minLength": 1},
        "name": {"type": "string"},
        "method": {"type": "string", "pattern": "^(?i)(GET|POST|PUT|DELETE|PATCH|HEAD|OPTIONS)$"},
        "url": {"type": "string", "minLength": 1},
        "headers": {"type": "object", "additionalProperties": {"type": "string"}},
        "body": {"type": "string"},
        "thinkTime": {"type": ["string", "integer"]},
        "extract": {"type": "array", "items": {"$ref": "#/$defs/extraction"}},
        "branches": {"type": "array", "items": {"$ref": "#/$defs/branch"}},
        "onSuccess": {"type": "string"},
        "onFailure": {"type": "string"}
      }
    },
    "branch": {
      "type": "object",
      "required": ["condition", "goto"],
      "properties": {
        "condition": {"$ref": "#/$defs/condition"},
        "goto": {"type": "string", "minLength": 1}
      }
    },
    "condition": {
      "type": "object",
      "properties": {
        "field": {"type": "string"},
        "status": {"type": "integer"},
        "header": {"type": "string"},
        "eq": {},
        "ne": {},
        "gt": {"type": "number"},
        "gte": {"type": "number"},
        "lt": {"type": "number"},
        "lte": {"type": "number"},
        "contains": {"type": "string"},
        "matches": {"type": "string"},
        "exists": {"type": "boolean"},
        "in": {"type": "array"}
      }
    },
    "extraction": {
      "type": "object",
      "required": ["as"],
      "properties": {
        "type": {"type": "string", "enum": ["jsonpath", "header", "regex", "status"]},
        "path": {"type": "string"},
        "as": {"type": "string", "minLength": 1},
        "default": {},
        "transform": {"type": "string"}
      }
    }
  }
}`

var compiledJourneySchema = jsonschema.MustCompile(journeySchema)
