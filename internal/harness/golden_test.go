package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsproj/internal/engine"
	"github.com/roach88/fsproj/internal/ir"
)

// To regenerate golden files:
//
//	go test ./internal/harness -run TestRunWithGolden -update
func TestRunWithGolden_Growth(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadTestScenario(t, "growth")))
}

func TestRunWithGolden_Cycle(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadTestScenario(t, "cycle")))
}

func TestAssertGolden_ReusesResult(t *testing.T) {
	scenario := loadTestScenario(t, "growth")
	result, err := Run(scenario)
	require.NoError(t, err)
	require.NoError(t, AssertGolden(t, "growth", result))
}

func TestMarshalSnapshot(t *testing.T) {
	r := NewResult()
	r.Tables[ir.SectionPL] = engine.Table{
		Rows:    []engine.AccountView{{ID: "sales", Name: "Net sales", Section: ir.SectionPL}},
		Columns: []string{"FY2024A"},
		Data:    [][]int64{{100}},
	}
	r.Tables[ir.SectionBS] = engine.Table{}

	data, err := MarshalSnapshot("tiny", r)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"tiny","statements":{"BS":{"columns":[],"data":[],"rows":[]},"PL":{"columns":["FY2024A"],"data":[[100]],"rows":["sales"]}}}`,
		string(data))
}
