package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsproj/internal/ir"
	tu "github.com/roach88/fsproj/internal/testutil"
)

func TestNewRunRecord(t *testing.T) {
	m := bsModel()
	m.Rules[tu.NetIncome] = ir.FixedValueRule{Value: 25}
	m.Compute.Years = 2
	p := compute(t, m)

	run := NewRunRecord(p, m.Compute, NewFixedGenerator("run-1"), 1700000000, "hash")

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, "hash", run.ModelHash)
	assert.Equal(t, tu.NetIncome, run.BaseProfit)
	assert.Equal(t, ir.CategoryCash, run.CashAccount)
	assert.Equal(t, ir.EngineVersion, run.EngineVersion)
	assert.Equal(t, int64(1700000000), run.CreatedAt)
	assert.Len(t, run.Years, 4)
	assert.Equal(t, p.Cells(), run.Cells)

	require.Len(t, run.CashFlows, 2, "one summary per forecast year")
	assert.Equal(t, ir.CashFlowRecord{Year: 2025, CFO: 25, Total: 25}, run.CashFlows[0])
	assert.Equal(t, 2026, run.CashFlows[1].Year)
}

func TestNewRunRecordBeforeCompute(t *testing.T) {
	p := New()
	require.NoError(t, p.ImportActuals(nil, nil, ir.ImportOptions{}))

	run := NewRunRecord(p, ir.ComputeOptions{}, UUIDv7Generator{}, 0, "")
	assert.NotEmpty(t, run.ID)
	assert.NotNil(t, run.Cells)
	assert.Empty(t, run.CashFlows)
}
