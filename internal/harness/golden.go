package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/fsproj/internal/engine"
	"github.com/roach88/fsproj/internal/ir"
)

// TableSnapshot captures the statement tables of a scenario execution.
// All fields use canonical JSON serialization for deterministic comparison.
type TableSnapshot struct {
	ScenarioName string                      `json:"scenario_name"`
	Tables       map[ir.Section]engine.Table `json:"statements"`
	ErrorCode    string                      `json:"error,omitempty"`
}

// toCanonicalMap converts a TableSnapshot to a map[string]any for canonical
// JSON serialization. Rows are reduced to account ids.
func (s *TableSnapshot) toCanonicalMap() map[string]any {
	statements := make(map[string]any, len(s.Tables))
	for section, table := range s.Tables {
		rows := make([]string, len(table.Rows))
		for i, row := range table.Rows {
			rows[i] = row.ID
		}
		columns := table.Columns
		if columns == nil {
			columns = []string{}
		}
		data := table.Data
		if data == nil {
			data = [][]int64{}
		}
		statements[string(section)] = map[string]any{
			"columns": columns,
			"rows":    rows,
			"data":    data,
		}
	}

	result := map[string]any{
		"scenario_name": s.ScenarioName,
		"statements":    statements,
	}
	if s.ErrorCode != "" {
		result["error"] = s.ErrorCode
	}
	return result
}

// MarshalSnapshot renders the canonical golden bytes of a result.
func MarshalSnapshot(scenarioName string, result *Result) ([]byte, error) {
	snapshot := TableSnapshot{
		ScenarioName: scenarioName,
		Tables:       result.Tables,
		ErrorCode:    result.ErrorCode(),
	}
	return ir.MarshalCanonical(snapshot.toCanonicalMap())
}

// RunWithGolden executes a scenario and compares its tables against a
// golden file stored in testdata/golden/{scenario.Name}.golden
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
// Test failure (via goldie) occurs if the tables don't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an already computed result against a golden file
// without re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := MarshalSnapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
