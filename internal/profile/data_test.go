package profile

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Error writing %s: %v", name, err)
	}
	return path
}

func TestLoadRowsCSV(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "users.csv", "username,password,region\nu1,p1,eu\nu2,p2,us\n")

	p := &Profile{Name: "csv", DataSource: "users.csv"}
	rows, err := loadRows(p, tempDir)
	if err != nil {
		t.Fatalf("Error loading CSV rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	if rows[0]["username"] != "u1" || rows[0]["region"] != "eu" {
		t.Errorf("Unexpected first row: %v", rows[0])
	}
	// CSV values are strings
	if _, ok := rows[1]["password"].(string); !ok {
		t.Errorf("Expected string values, got %T", rows[1]["password"])
	}
}

func TestLoadRowsCSVRagged(t *testing.T) {
	tempDir := t.TempDir()
	// csv.Reader rejects records with mismatched field counts
	writeFile(t, tempDir, "bad.csv", "a,b\n1,2\n3\n")

	p := &Profile{Name: "csv", DataSource: "bad.csv"}
	if _, err := loadRows(p, tempDir); err == nil {
		t.Error("Expected error for ragged CSV")
	}
}

func TestLoadRowsCSVHeaderOnly(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "empty.csv", "a,b\n")

	p := &Profile{Name: "csv", DataSource: "empty.csv"}
	if _, err := loadRows(p, tempDir); err == nil {
		t.Error("Expected error for CSV with no data rows")
	}
}

func TestLoadRowsJSON(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "users.json", `[
		{"username": "u1", "age": 30},
		{"username": "u2", "age": 41}
	]`)

	p := &Profile{Name: "json", DataSource: "users.json"}
	rows, err := loadRows(p, tempDir)
	if err != nil {
		t.Fatalf("Error loading JSON rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(rows))
	}
	// JSON values keep their decoded types
	if rows[0]["age"] != float64(30) {
		t.Errorf("Expected numeric age, got %v (%T)", rows[0]["age"], rows[0]["age"])
	}
}

func TestLoadRowsJSONNotAnArray(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "obj.json", `{"username": "u1"}`)

	p := &Profile{Name: "json", DataSource: "obj.json"}
	if _, err := loadRows(p, tempDir); err == nil {
		t.Error("Expected error for non-array JSON data source")
	}
}

func TestLoadRowsUnsupportedExtension(t *testing.T) {
	p := &Profile{Name: "x", DataSource: "users.xml"}
	if _, err := loadRows(p, ""); err == nil {
		t.Error("Expected error for unsupported data source extension")
	}
}

func TestLoadRowsMissingFile(t *testing.T) {
	p := &Profile{Name: "x", DataSource: "nope.csv"}
	if _, err := loadRows(p, t.TempDir()); err == nil {
		t.Error("Expected error for missing data source")
	}
}

func TestLoadRowsInlineData(t *testing.T) {
	p := &Profile{
		Name: "inline",
		Data: []map[string]interface{}{{"k": "v"}},
	}
	rows, err := loadRows(p, "")
	if err != nil {
		t.Fatalf("Error loading inline rows: %v", err)
	}
	if len(rows) != 1 || rows[0]["k"] != "v" {
		t.Errorf("Unexpected rows: %v", rows)
	}
}

func TestLoadRowsPlaceholder(t *testing.T) {
	rows, err := loadRows(&Profile{Name: "bare"}, "")
	if err != nil {
		t.Fatalf("Error loading placeholder rows: %v", err)
	}
	if len(rows) != 1 || len(rows[0]) != 0 {
		t.Errorf("Expected a single empty placeholder row, got %v", rows)
	}
}

func TestParseConfigYAML(t *testing.T) {
	doc := `
profiles:
  - name: shopper
    weight: 70
    variables:
      tier: standard
    generators:
      requestId:
        type: uuid
      orderId:
        type: sequence
        start: 500
  - name: admin
    weight: 30
`
	cfg, err := ParseConfig([]byte(doc), "profiles.yaml")
	if err != nil {
		t.Fatalf("Error parsing config: %v", err)
	}
	if len(cfg.Profiles) != 2 {
		t.Fatalf("Expected 2 profiles, got %d", len(cfg.Profiles))
	}
	p := cfg.Profiles[0]
	if p.Name != "shopper" || p.Weight != 70 {
		t.Errorf("Unexpected profile: %+v", p)
	}
	if p.Generators["orderId"].Start == nil || *p.Generators["orderId"].Start != 500 {
		t.Errorf("Unexpected sequence start: %+v", p.Generators["orderId"])
	}
}

func TestParseConfigSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"no profiles key", `{}`},
		{"empty profiles", `{"profiles": []}`},
		{"missing weight", `{"profiles": [{"name": "a"}]}`},
		{"zero weight", `{"profiles": [{"name": "a", "weight": 0}]}`},
		{"bad generator type", `{"profiles": [{"name": "a", "weight": 1,
			"generators": {"x": {"type": "dice"}}}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.doc), "p.json"); err == nil {
				t.Errorf("Expected schema violation for %s", tt.name)
			}
		})
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	tempDir := t.TempDir()
	path := writeFile(t, tempDir, "profiles.json", `{"profiles": [{"name": "a", "weight": 1}]}`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Error loading config: %v", err)
	}
	if len(cfg.Profiles) != 1 || cfg.Profiles[0].Name != "a" {
		t.Errorf("Unexpected config: %+v", cfg)
	}

	if _, err := LoadConfig(filepath.Join(tempDir, "missing.json")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestDistributorLoadsDataSourceRelativeToBaseDir(t *testing.T) {
	tempDir := t.TempDir()
	writeFile(t, tempDir, "users.csv", "username\nu1\n")

	cfg := &Config{Profiles: []Profile{{Name: "csv", Weight: 1, DataSource: "users.csv"}}}
	d := mustDistributor(t, cfg, WithBaseDir(tempDir))

	user, err := d.NextUser()
	if err != nil {
		t.Fatalf("Error drawing user: %v", err)
	}
	if user.UserData["username"] != "u1" {
		t.Errorf("Expected row from CSV, got %v", user.UserData)
	}
}
