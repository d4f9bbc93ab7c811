package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/fsproj/internal/ir"
	"github.com/roach88/fsproj/internal/testutil"
)

// setup imports a model and applies its rules and balance changes.
func setup(t *testing.T, m *ir.Model) *Projection {
	t.Helper()
	p := New()
	require.NoError(t, p.ImportActuals(m.Actuals, m.Accounts, m.Import))
	require.NoError(t, p.SetRules(m.Rules))
	require.NoError(t, p.SetBalanceChanges(m.BalanceChanges))
	return p
}

// compute sets up m and runs Compute with its options.
func compute(t *testing.T, m *ir.Model) *Projection {
	t.Helper()
	p := setup(t, m)
	require.NoError(t, p.Compute(m.Compute))
	return p
}

func value(t *testing.T, p *Projection, year int, id string) float64 {
	t.Helper()
	v, ok := p.Value(year, id)
	require.True(t, ok, "no value for %s@%d", id, year)
	return v
}

// bsModel is the PPE / retained earnings / cash fixture with net income and
// depreciation fixed at zero unless a test overrides them.
func bsModel() *ir.Model {
	m := testutil.BalanceSheetModel()
	m.Rules = map[string]ir.Rule{
		testutil.NetIncome: ir.FixedValueRule{Value: 0},
	}
	return m
}
