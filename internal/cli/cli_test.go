package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const testJourney = `{
	"id": "smoke",
	"name": "Smoke journey",
	"steps": [
		{
			"id": "login",
			"method": "POST",
			"url": "/login",
			"extract": [{"path": "$.token", "as": "token"}],
			"onSuccess": "home",
			"onFailure": "home"
		},
		{"id": "home", "method": "GET", "url": "/home"}
	]
}`

const testProfiles = `{
	"profiles": [
		{"name": "reader", "weight": 80},
		{"name": "writer", "weight": 20}
	]
}`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Error writing %s: %v", name, err)
	}
	return path
}

// runCommand executes the root command with the given args and returns its
// combined output.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	RootCmd.SetOut(&out)
	RootCmd.SetErr(&out)
	RootCmd.SetArgs(args)
	err := RootCmd.Execute()
	RootCmd.SetArgs(nil)
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	path := writeTemp(t, "journey.json", testJourney)

	out, err := runCommand(t, "validate", path, "--no-color")
	if err != nil {
		t.Fatalf("Error running validate: %v\n%s", err, out)
	}
	if !strings.Contains(out, `journey "smoke"`) || !strings.Contains(out, "OK") {
		t.Errorf("Unexpected validate output: %s", out)
	}
}

func TestValidateCommandStructuralError(t *testing.T) {
	broken := `{"id": "x", "steps": [
		{"id": "a", "method": "GET", "url": "/", "onSuccess": "ghost", "onFailure": "ghost"}
	]}`
	path := writeTemp(t, "broken.json", broken)

	out, err := runCommand(t, "validate", path, "--no-color")
	if err == nil {
		t.Fatalf("Expected validate to fail, got output: %s", out)
	}
	if !strings.Contains(out, "ghost") {
		t.Errorf("Expected dangling target named in output: %s", out)
	}
}

func TestValidateCommandSchemaViolation(t *testing.T) {
	path := writeTemp(t, "bad.json", `{"steps": [{"id": "a", "method": "GET", "url": "/"}]}`)

	out, err := runCommand(t, "validate", path, "--no-color")
	if err == nil {
		t.Fatalf("Expected validate to fail on schema violation, got: %s", out)
	}
	if !strings.Contains(err.Error(), "schema violation") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestPathsCommand(t *testing.T) {
	path := writeTemp(t, "journey.json", testJourney)

	out, err := runCommand(t, "paths", path, "--no-color")
	if err != nil {
		t.Fatalf("Error running paths: %v\n%s", err, out)
	}
	if !strings.Contains(out, "login -> home") {
		t.Errorf("Expected enumerated path in output: %s", out)
	}
}

func TestSampleCommand(t *testing.T) {
	path := writeTemp(t, "profiles.json", testProfiles)

	out, err := runCommand(t, "sample", path, "--draws", "2000", "--seed", "7", "--no-color")
	if err != nil {
		t.Fatalf("Error running sample: %v\n%s", err, out)
	}
	for _, want := range []string{"reader", "writer", "target  80.00%"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in sample output: %s", want, out)
		}
	}
}

func TestSimulateCommand(t *testing.T) {
	journeyPath := writeTemp(t, "journey.json", testJourney)
	script := `{
		"login": {"statusCode": 200, "body": "{\"token\": \"tok-1\"}", "responseTimeMs": 12},
		"*": {"statusCode": 200, "responseTimeMs": 3}
	}`
	scriptPath := writeTemp(t, "responses.json", script)

	out, err := runCommand(t, "simulate", journeyPath,
		"--responses", scriptPath, "--show-vars", "--no-color")
	if err != nil {
		t.Fatalf("Error running simulate: %v\n%s", err, out)
	}
	for _, want := range []string{"login", "completed", "token", "per-step latency"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in simulate output: %s", want, out)
		}
	}
}
