package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsproj/internal/ir"
)

func TestTableForwardFill(t *testing.T) {
	m := &ir.Model{
		Accounts: []ir.Account{
			{ID: "sales", Name: "Sales", Section: ir.SectionPL},
			{ID: "legacy", Name: "Legacy line", Section: ir.SectionPL},
			{ID: "future", Name: "Future line", Section: ir.SectionPL},
		},
		Actuals: []ir.Snapshot{{"sales": 10, "legacy": 7}, {"sales": 11}},
		Rules:   map[string]ir.Rule{"sales": ir.FixedValueRule{Value: 12}},
		Compute: ir.ComputeOptions{Years: 1},
	}
	p := compute(t, m)

	table, err := p.Table(TableOptions{Section: ir.SectionPL})
	require.NoError(t, err)

	assert.Equal(t, []string{"FY2000A", "FY2001A", "FY2002F"}, table.Columns)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, "legacy", table.Rows[1].ID)
	assert.Equal(t, "Legacy line", table.Rows[1].Name)
	assert.Equal(t, [][]int64{
		{10, 11, 12},
		{7, 7, 7},
		{0, 0, 0},
	}, table.Data)
}

func TestTableYearFilter(t *testing.T) {
	p := compute(t, bsModel())

	table, err := p.Table(TableOptions{Section: ir.SectionBS, Years: []int{2025, 2023}})
	require.NoError(t, err)
	assert.Equal(t, []string{"FY2025F", "FY2023A"}, table.Columns)

	_, err = p.Table(TableOptions{Section: ir.SectionBS, Years: []int{1999}})
	assert.True(t, IsCode(err, ErrCodeInvalidOptions))
}

func TestTableRejectsUnknownSection(t *testing.T) {
	p := compute(t, bsModel())
	_, err := p.Table(TableOptions{Section: "XX"})
	assert.True(t, IsCode(err, ErrCodeInvalidOptions))
}

func TestTableCashFlowSection(t *testing.T) {
	p := compute(t, bsModel())

	table, err := p.Table(TableOptions{Section: ir.SectionCF})
	require.NoError(t, err)

	ids := make([]string, len(table.Rows))
	for i, r := range table.Rows {
		ids[i] = r.ID
	}
	assert.Contains(t, ids, LineCFO)
	assert.Contains(t, ids, LineEndingCash)
}

func TestRound(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{2.5, 3},
		{-2.5, -3},
		{2.4999, 2},
		{110.00000000000001, 110},
		{0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Round(tt.in), "Round(%v)", tt.in)
	}
}

func TestSnapshotLatestActual(t *testing.T) {
	p := compute(t, bsModel())

	fy, values, err := p.SnapshotLatestActual(ir.SectionBS)
	require.NoError(t, err)
	assert.Equal(t, ir.FiscalYear{Year: 2024, Actual: true}, fy)
	assert.Equal(t, map[string]float64{"ppe": 1000, "retained_earnings": 500, "cash": 100}, values)

	_, values, err = p.SnapshotLatestActual(ir.SectionPL)
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestSnapshotLatestActualWithoutActuals(t *testing.T) {
	p := New()
	require.NoError(t, p.ImportActuals(nil, nil, ir.ImportOptions{}))

	_, _, err := p.SnapshotLatestActual(ir.SectionBS)
	assert.True(t, IsCode(err, ErrCodeNoPriorActuals))
}
