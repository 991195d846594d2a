package profile

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// loadRows resolves a profile's row source into an ordered in-memory list:
// a CSV file (header row defines column names), a JSON array-of-objects
// file, inline data rows, or a single empty placeholder record when nothing
// is configured. Rows load once, upfront, before any virtual user runs.
func loadRows(p *Profile, baseDir string) ([]map[string]interface{}, error) {
	if p.DataSource != "" {
		return loadRowsFromFile(p, baseDir)
	}
	if len(p.Data) > 0 {
		rows := make([]map[string]interface{}, len(p.Data))
		copy(rows, p.Data)
		return rows, nil
	}
	// No row source: one empty record keeps the round-robin cursor trivial.
	return []map[string]interface{}{{}}, nil
}

func loadRowsFromFile(p *Profile, baseDir string) ([]map[string]interface{}, error) {
	path := p.DataSource
	if !filepath.IsAbs(path) && baseDir != "" {
		path = filepath.Join(baseDir, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSVRows(p.Name, path)
	case ".json":
		return loadJSONRows(p.Name, path)
	}
	return nil, fmt.Errorf("profile %q: unsupported data source %q (want .csv or .json)", p.Name, p.DataSource)
}

// loadCSVRows reads a CSV file whose header row defines column names; each
// subsequent row becomes one record with string values.
func loadCSVRows(profileName, path string) ([]map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("profile %q: opening data source: %w", profileName, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("profile %q: reading CSV: %w", profileName, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("profile %q: CSV data source %q is empty", profileName, path)
	}

	header := records[0]
	rows := make([]map[string]interface{}, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]interface{}, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("profile %q: CSV data source %q has a header but no rows", profileName, path)
	}
	return rows, nil
}

// loadJSONRows reads a JSON array-of-objects file.
func loadJSONRows(profileName, path string) ([]map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("profile %q: reading data source: %w", profileName, err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("profile %q: data source %q must be a JSON array of objects: %w", profileName, path, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("profile %q: data source %q is empty", profileName, path)
	}
	return rows, nil
}
