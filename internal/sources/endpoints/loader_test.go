package endpoints

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoaderLoad(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "endpoints.yaml")

	yamlContent := `---
endpoints:
  admin/reports: analytics/reports/
  admin/smart-bins: iot/bins/
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	file, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(file.Endpoints) != 2 {
		t.Fatalf("Load() returned %d endpoints, want 2", len(file.Endpoints))
	}
	if got := file.Endpoints["admin/reports"]; got != "analytics/reports/" {
		t.Errorf("admin/reports = %q, want analytics/reports/", got)
	}
}

func TestLoaderLoadWithTemplateVariables(t *testing.T) {
	tmpDir := t.TempDir()
	yamlPath := filepath.Join(tmpDir, "endpoints.yaml")

	yamlContent := `endpoints:
  admin/smart-bins: "{{ IOT_HOST }}/bins/"
`

	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	loader := NewLoader(yamlPath)
	loader.lookup = func(name string) string {
		if name == "IOT_HOST" {
			return "https://iot.internal"
		}
		return ""
	}

	file, err := loader.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := file.Endpoints["admin/smart-bins"]; got != "https://iot.internal/bins/" {
		t.Errorf("admin/smart-bins = %q, want https://iot.internal/bins/", got)
	}
}

func TestLoaderLoadFileNotFound(t *testing.T) {
	loader := NewLoader("/nonexistent/path/endpoints.yaml")
	if _, err := loader.Load(); err == nil {
		t.Error("Load() with non-existent file should return error")
	}
}

func TestLoaderLoadInvalidYAML(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "endpoints.yaml")
	if err := os.WriteFile(yamlPath, []byte("endpoints: [unclosed"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	if _, err := NewLoader(yamlPath).Load(); err == nil {
		t.Error("Load() with broken yaml should return error")
	}
}

func TestExpandTemplateVariables(t *testing.T) {
	lookup := func(name string) string {
		if name == "HOST" {
			return "example.com"
		}
		return ""
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "single variable", input: "url: {{HOST}}", expected: "url: example.com"},
		{name: "spaces inside braces", input: "url: {{ HOST }}", expected: "url: example.com"},
		{name: "unknown variable", input: "url: {{MISSING}}", expected: "url: "},
		{name: "no variables", input: "plain text", expected: "plain text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := expandTemplateVariables([]byte(tt.input), lookup)
			if string(result) != tt.expected {
				t.Errorf("expandTemplateVariables() = %q, want %q", string(result), tt.expected)
			}
		})
	}
}

func TestLoaderLoadDuplicateKeysLastWins(t *testing.T) {
	yamlPath := filepath.Join(t.TempDir(), "endpoints.yaml")
	yamlContent := `endpoints:
  admin/reports: a/
  admin/settings: settings/v2/
  admin/reports: b/
`
	if err := os.WriteFile(yamlPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}

	file, err := NewLoader(yamlPath).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := file.Endpoints["admin/reports"]; got != "b/" {
		t.Errorf("admin/reports = %q, want b/", got)
	}
	if len(file.Replaced) != 1 || file.Replaced[0] != "admin/reports" {
		t.Errorf("Replaced = %v, want [admin/reports]", file.Replaced)
	}

	overrides, skipped := NewMapper().MapOverrides(file)
	if got := overrides["admin/reports"]; got != "b/" {
		t.Errorf("override admin/reports = %q, want b/", got)
	}
	if len(skipped) != 1 || skipped[0].Key != "admin/reports" {
		t.Errorf("skipped = %v, want one entry for admin/reports", skipped)
	}
}

func TestLoaderLoadEmptyAndNonMapping(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.yaml")
	if err := os.WriteFile(empty, []byte("endpoints:\n"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	file, err := NewLoader(empty).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(file.Endpoints) != 0 {
		t.Errorf("Endpoints = %v, want empty", file.Endpoints)
	}

	list := filepath.Join(dir, "list.yaml")
	if err := os.WriteFile(list, []byte("endpoints:\n  - admin/reports\n"), 0o644); err != nil {
		t.Fatalf("Failed to create test YAML file: %v", err)
	}
	if _, err := NewLoader(list).Load(); err == nil {
		t.Error("Load() with a list of endpoints should return error")
	}
}
