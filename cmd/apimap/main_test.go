package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/apimap/internal/harness"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	apiURL, endpointFile, logLevel, format = "", "", "error", "table"
	transformHint, transformResource = "", ""
	t.Setenv("APIMAP_LOG_LEVEL", "error")
	t.Setenv("VITE_API_URL", "http://localhost:8000/api")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestResolveTable(t *testing.T) {
	out, err := execute(t, "", "resolve", "admin/smart-bins", "users/42", "nope/at/all")
	require.NoError(t, err)

	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "http://localhost:8000/api/smart-bins/")
	assert.Contains(t, out, "rewritten")
	assert.Contains(t, out, "fallback")
}

func TestResolveJSONWithAPIURLFlag(t *testing.T) {
	out, err := execute(t, "", "resolve", "--format", "json", "--api-url", "https://api.example.com/v1", "admin/users")
	require.NoError(t, err)

	var got []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "https://api.example.com/v1/auth/users/", got[0]["url"])
	assert.Equal(t, "mapped", got[0]["kind"])
	assert.Equal(t, "users", got[0]["resource"])
}

func TestEndpointsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "endpoints.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoints:\n  admin/reports: analytics/reports/\n"), 0o644))

	out, err := execute(t, "", "endpoints", "-f", "yaml", "--endpoints", path)
	require.NoError(t, err)

	var entries []struct {
		Key string `yaml:"key"`
		URL string `yaml:"url"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &entries))

	found := false
	for _, e := range entries {
		if e.Key == "admin/reports" {
			found = true
			assert.Equal(t, "http://localhost:8000/api/analytics/reports/", e.URL)
		}
	}
	assert.True(t, found, "override should be listed")
}

func TestTransformFromStdin(t *testing.T) {
	out, err := execute(t, `{"id":1,"fill_level":75,"battery_level":85,"status":"active"}`,
		"transform", "--hint", "admin/smart-bins")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, float64(75), got["fillLevel"])
	assert.Equal(t, float64(85), got["batteryLevel"])
}

func TestTransformRejectsInvalidJSON(t *testing.T) {
	_, err := execute(t, `{broken`, "transform", "--hint", "admin/smart-bins")
	assert.Error(t, err)
}

func TestTransformYAMLKeepsJSONNames(t *testing.T) {
	out, err := execute(t, `{"id":1,"fill_level":75,"battery_level":85}`,
		"transform", "--hint", "admin/smart-bins", "-f", "yaml")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, 75, got["fillLevel"])
	assert.Equal(t, 85, got["batteryLevel"])
	assert.NotContains(t, got, "filllevel")
}

func TestRenderReportYAML(t *testing.T) {
	format = "yaml"
	t.Cleanup(func() { format = "table" })

	report := harness.Report{RunID: uuid.MustParse("6f1c2d3e-4a5b-4c6d-8e7f-001122334455"), StartedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	var out bytes.Buffer
	require.NoError(t, render(&out, report))

	var got map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &got))
	assert.Equal(t, "6f1c2d3e-4a5b-4c6d-8e7f-001122334455", got["runId"])
	assert.Contains(t, got, "startedAt")
	assert.NotContains(t, got, "runid")
}

func TestTransformResourceFlag(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "alias", args: []string{"--resource", "bins"}},
		{name: "canonical name", args: []string{"--resource", "Smart-Bins"}},
		{name: "unknown", args: []string{"--resource", "trucks"}, wantErr: `unknown resource "trucks"`},
		{name: "neither", args: nil, wantErr: "one of --hint or --resource is required"},
		{name: "both", args: []string{"--resource", "bins", "--hint", "admin/smart-bins"}, wantErr: "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"transform"}, tt.args...)
			out, err := execute(t, `{"id":1,"fill_level":75}`, args...)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			var got map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, float64(75), got["fillLevel"])
		})
	}
}

func TestTransformRejectsTrailingData(t *testing.T) {
	_, err := execute(t, `{"id":1} junk`, "transform", "--hint", "admin/smart-bins")
	assert.Error(t, err)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := execute(t, "", "endpoints", "-f", "csv")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "apimap dev"), out)
}
