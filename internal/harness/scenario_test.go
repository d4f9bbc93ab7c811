package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeScenario writes content to dir/test.yaml next to an empty model file.
func writeScenario(t *testing.T, dir, content string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "model.cue"), []byte("accounts: []\n"), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario_ValidFile(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: test_scenario
description: "Test scenario for validation"
models:
  - model.cue
years: 2
assertions:
  - type: cell
    account: sales
    year: 2001
    value: 110
    tolerance: 0.5
  - type: cash_flow
    year: 2001
    expect: { cfo: 10 }
  - type: error
    code: CYCLIC_DEPENDENCY
`)

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "test_scenario", scenario.Name)
	assert.Equal(t, 2, scenario.Years)
	assert.Equal(t, []string{filepath.Join(dir, "model.cue")}, scenario.Models, "models resolve against the scenario directory")
	require.Len(t, scenario.Assertions, 3)
	assert.Equal(t, 110.0, *scenario.Assertions[0].Value)
	assert.Equal(t, 0.5, scenario.Assertions[0].Tolerance)
	assert.Equal(t, map[string]float64{"cfo": 10}, scenario.Assertions[1].Expect)
	assert.Equal(t, "CYCLIC_DEPENDENCY", scenario.Assertions[2].Code)
}

func TestLoadScenarioWithBasePath(t *testing.T) {
	dir := t.TempDir()
	models := filepath.Join(dir, "models")
	require.NoError(t, os.MkdirAll(models, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(models, "m.cue"), []byte("accounts: []\n"), 0644))

	path := filepath.Join(dir, "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: based
description: "Model paths resolve against the given base"
models: [m.cue]
assertions:
  - type: error
    code: X
`), 0644))

	scenario, err := LoadScenarioWithBasePath(path, models)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(models, "m.cue"), scenario.Models[0])
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario("/nonexistent/scenario.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_UnknownField(t *testing.T) {
	dir := t.TempDir()
	path := writeScenario(t, dir, `
name: typo
description: "Misspelled key"
models: [model.cue]
assertion:
  - type: error
    code: X
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing name",
			body:    "description: d\nmodels: [model.cue]\nassertions: [{type: error, code: X}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			body:    "name: n\nmodels: [model.cue]\nassertions: [{type: error, code: X}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing models",
			body:    "name: n\ndescription: d\nassertions: [{type: error, code: X}]\n",
			wantErr: "models list is required",
		},
		{
			name:    "model not found",
			body:    "name: n\ndescription: d\nmodels: [nope.cue]\nassertions: [{type: error, code: X}]\n",
			wantErr: "model path not found",
		},
		{
			name:    "negative years",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nyears: -1\nassertions: [{type: error, code: X}]\n",
			wantErr: "years must be non-negative",
		},
		{
			name:    "no assertions",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\n",
			wantErr: "assertions list is required",
		},
		{
			name:    "missing type",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nassertions: [{code: X}]\n",
			wantErr: "assertions[0]: type is required",
		},
		{
			name:    "unknown type",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nassertions: [{type: margin}]\n",
			wantErr: `unknown assertion type "margin"`,
		},
		{
			name:    "cell without account",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nassertions: [{type: cell, year: 2001, value: 1}]\n",
			wantErr: "account is required for cell",
		},
		{
			name:    "cell without year",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nassertions: [{type: cell, account: a, value: 1}]\n",
			wantErr: "year is required for cell",
		},
		{
			name:    "cell without value",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nassertions: [{type: cell, account: a, year: 2001}]\n",
			wantErr: "value is required for cell",
		},
		{
			name:    "negative tolerance",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nassertions: [{type: cell, account: a, year: 2001, value: 1, tolerance: -1}]\n",
			wantErr: "tolerance must be non-negative",
		},
		{
			name:    "cash flow without expect",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nassertions: [{type: cash_flow, year: 2001}]\n",
			wantErr: "expect is required for cash_flow",
		},
		{
			name:    "cash flow unknown key",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nassertions: [{type: cash_flow, year: 2001, expect: {ebitda: 1}}]\n",
			wantErr: `unknown cash_flow key "ebitda"`,
		},
		{
			name:    "error without code",
			body:    "name: n\ndescription: d\nmodels: [model.cue]\nassertions: [{type: error}]\n",
			wantErr: "code is required for error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeScenario(t, t.TempDir(), tt.body)
			_, err := LoadScenario(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
