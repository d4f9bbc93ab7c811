package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines a conformance test scenario: one model, an optional
// horizon override and the assertions the saved run must satisfy.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Models lists CUE model files or directories, unified in order.
	// Paths are relative to the scenario file location.
	Models []string `yaml:"models"`

	// Years overrides the model's compute.years when positive.
	Years int `yaml:"years,omitempty"`

	// Assertions validate the saved run.
	// Supported types: cell, cash_flow, error
	Assertions []Assertion `yaml:"assertions"`
}

// Assertion validates one aspect of the saved run.
type Assertion struct {
	// Type specifies the assertion type:
	// - "cell": check the value of (year, account)
	// - "cash_flow": check the cash-flow summary of a year
	// - "error": check the engine error code
	Type string `yaml:"type"`

	// Account is the account id (used by cell).
	Account string `yaml:"account,omitempty"`

	// Year is the fiscal year (used by cell and cash_flow).
	Year int `yaml:"year,omitempty"`

	// Value is the expected cell value (used by cell).
	Value *float64 `yaml:"value,omitempty"`

	// Tolerance is the allowed absolute difference. Zero means DefaultTolerance.
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Expect maps cfo, cfi, cff and total to expected amounts (used by cash_flow).
	// Subset match - only specified keys are validated.
	Expect map[string]float64 `yaml:"expect,omitempty"`

	// Code is the expected engine error code (used by error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertCell     = "cell"
	AssertCashFlow = "cash_flow"
	AssertError    = "error"
)

// DefaultTolerance is used when an assertion gives none.
const DefaultTolerance = 1e-6

var cashFlowKeys = map[string]bool{"cfo": true, "cfi": true, "cff": true, "total": true}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
// Model paths are resolved relative to the scenario file.
func LoadScenario(path string) (*Scenario, error) {
	return LoadScenarioWithBasePath(path, filepath.Dir(path))
}

// LoadScenarioWithBasePath reads and parses a scenario YAML file,
// resolving relative model paths against basePath.
func LoadScenarioWithBasePath(path, basePath string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Reject unknown fields (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	for i, modelPath := range scenario.Models {
		if !filepath.IsAbs(modelPath) && basePath != "" {
			scenario.Models[i] = filepath.Join(basePath, modelPath)
		}
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Models) == 0 {
		return fmt.Errorf("models list is required and must be non-empty")
	}

	if s.Years < 0 {
		return fmt.Errorf("years must be non-negative, got %d", s.Years)
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for _, modelPath := range s.Models {
		if _, err := os.Stat(modelPath); os.IsNotExist(err) {
			return fmt.Errorf("model path not found: %s", modelPath)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Tolerance < 0 {
		return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
	}

	switch a.Type {
	case AssertCell:
		if a.Account == "" {
			return fmt.Errorf("assertions[%d]: account is required for cell", index)
		}
		if a.Year == 0 {
			return fmt.Errorf("assertions[%d]: year is required for cell", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for cell", index)
		}
	case AssertCashFlow:
		if a.Year == 0 {
			return fmt.Errorf("assertions[%d]: year is required for cash_flow", index)
		}
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for cash_flow", index)
		}
		for key := range a.Expect {
			if !cashFlowKeys[key] {
				return fmt.Errorf("assertions[%d]: unknown cash_flow key %q", index, key)
			}
		}
	case AssertError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
