package journey

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const journeyJSON = `{
	"id": "login-flow",
	"name": "Login and fetch profile",
	"thinkTime": "2s",
	"variables": {"baseUrl": "https://api.example.com"},
	"steps": [
		{
			"id": "login",
			"method": "post",
			"url": "{{baseUrl}}/login",
			"body": "{\"user\": \"{{username}}\"}",
			"extract": [
				{"path": "$.token", "as": "token"},
				{"type": "header", "path": "X-Session", "as": "session"}
			],
			"branches": [
				{"condition": {"status": 429}, "goto": "login"}
			],
			"onFailure": "login"
		},
		{
			"id": "profile",
			"method": "GET",
			"url": "{{baseUrl}}/me",
			"thinkTime": "500ms"
		}
	]
}`

func TestParseJSON(t *testing.T) {
	j, err := Parse([]byte(journeyJSON), "journey.json")
	if err != nil {
		t.Fatalf("Error parsing journey: %v", err)
	}

	if j.ID != "login-flow" {
		t.Errorf("Expected id login-flow, got %q", j.ID)
	}
	if len(j.Steps) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(j.Steps))
	}

	login := j.Steps[0]
	// Method is upper-cased during defaulting
	if login.Method != "POST" {
		t.Errorf("Expected method POST, got %q", login.Method)
	}
	// Extraction type defaults to jsonpath
	if login.Extract[0].Type != ExtractJSONPath {
		t.Errorf("Expected default extraction type jsonpath, got %q", login.Extract[0].Type)
	}
	if login.Extract[1].Type != ExtractHeader {
		t.Errorf("Expected header extraction type, got %q", login.Extract[1].Type)
	}
	if len(login.Branches) != 1 || login.Branches[0].Goto != "login" {
		t.Errorf("Unexpected branches: %+v", login.Branches)
	}
	if login.Branches[0].Condition.Status == nil || *login.Branches[0].Condition.Status != 429 {
		t.Errorf("Unexpected branch condition: %+v", login.Branches[0].Condition)
	}

	// Step think time inherits the journey default unless overridden
	if login.ThinkTime.GetDuration(0) != 2*time.Second {
		t.Errorf("Expected inherited think time 2s, got %s", login.ThinkTime)
	}
	if j.Steps[1].ThinkTime.GetDuration(0) != 500*time.Millisecond {
		t.Errorf("Expected overridden think time 500ms, got %s", j.Steps[1].ThinkTime)
	}
}

func TestParseYAML(t *testing.T) {
	doc := `
id: search-flow
name: Search
steps:
  - id: search
    method: GET
    url: /search?q={{term}}
    extract:
      - path: $.results[0].id
        as: firstId
        default: "none"
  - id: open
    method: GET
    url: /items/{{firstId}}
`
	j, err := Parse([]byte(doc), "journey.yaml")
	if err != nil {
		t.Fatalf("Error parsing YAML journey: %v", err)
	}
	if j.ID != "search-flow" || len(j.Steps) != 2 {
		t.Errorf("Unexpected journey: id=%q steps=%d", j.ID, len(j.Steps))
	}
	if j.Steps[0].Extract[0].Default != "none" {
		t.Errorf("Expected default none, got %v", j.Steps[0].Extract[0].Default)
	}
}

func TestParseYAMLCanonicalTypes(t *testing.T) {
	// YAML documents decode through the JSON codec, so condition values
	// carry the same dynamic types a JSON document would produce.
	doc := `
id: typed
steps:
  - id: a
    method: GET
    url: /
    branches:
      - condition:
          field: $.n
          eq: 3
        goto: a
      - condition:
          field: $.code
          in: [5, 10]
        goto: a
`
	j, err := Parse([]byte(doc), "typed.yaml")
	if err != nil {
		t.Fatalf("Error parsing YAML journey: %v", err)
	}

	eq := j.Steps[0].Branches[0].Condition.Eq
	if _, ok := eq.(float64); !ok {
		t.Errorf("Expected eq value to decode as float64, got %T", eq)
	}
	for i, member := range j.Steps[0].Branches[1].Condition.In {
		if _, ok := member.(float64); !ok {
			t.Errorf("Expected in[%d] to decode as float64, got %T", i, member)
		}
	}
}

func TestParseSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing id", `{"steps": [{"id": "a", "method": "GET", "url": "/"}]}`},
		{"empty steps", `{"id": "x", "steps": []}`},
		{"step without url", `{"id": "x", "steps": [{"id": "a", "method": "GET"}]}`},
		{"bad method", `{"id": "x", "steps": [{"id": "a", "method": "FETCH", "url": "/"}]}`},
		{"bad extraction type", `{"id": "x", "steps": [{"id": "a", "method": "GET", "url": "/",
			"extract": [{"type": "xpath", "path": "//a", "as": "v"}]}]}`},
		{"branch without goto", `{"id": "x", "steps": [{"id": "a", "method": "GET", "url": "/",
			"branches": [{"condition": {"status": 200}}]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.doc), "j.json"); err == nil {
				t.Errorf("Expected schema violation for %s", tt.name)
			}
		})
	}
}

func TestParseDuplicateStepIDs(t *testing.T) {
	doc := `{"id": "x", "steps": [
		{"id": "a", "method": "GET", "url": "/"},
		{"id": "a", "method": "GET", "url": "/"}
	]}`
	if _, err := Parse([]byte(doc), "j.json"); err == nil {
		t.Error("Expected error for duplicate step ids")
	}
}

func TestLoadFromFile(t *testing.T) {
	tempDir := t.TempDir()
	path := filepath.Join(tempDir, "journey.json")
	if err := os.WriteFile(path, []byte(journeyJSON), 0644); err != nil {
		t.Fatalf("Error writing journey file: %v", err)
	}

	j, err := Load(path)
	if err != nil {
		t.Fatalf("Error loading journey: %v", err)
	}
	if j.ID != "login-flow" {
		t.Errorf("Expected id login-flow, got %q", j.ID)
	}

	if _, err := Load(filepath.Join(tempDir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestValidateDocument(t *testing.T) {
	errs := ValidateDocument([]byte(`{"steps": []}`), "j.json")
	if len(errs) == 0 {
		t.Error("Expected schema violations")
	}

	errs = ValidateDocument([]byte(`{not json`), "j.json")
	if len(errs) != 1 {
		t.Errorf("Expected a single parse error, got %v", errs)
	}
}

func TestStepHelpers(t *testing.T) {
	j, err := Parse([]byte(journeyJSON), "journey.json")
	if err != nil {
		t.Fatalf("Error parsing journey: %v", err)
	}

	if s := j.StepByID("profile"); s == nil || s.ID != "profile" {
		t.Errorf("StepByID(profile) = %+v", s)
	}
	if s := j.StepByID("nope"); s != nil {
		t.Errorf("Expected nil for unknown id, got %+v", s)
	}
	if next := j.StepAfter("login"); next != "profile" {
		t.Errorf("StepAfter(login) = %q", next)
	}
	if next := j.StepAfter("profile"); next != "" {
		t.Errorf("StepAfter(profile) = %q, want empty", next)
	}
}
