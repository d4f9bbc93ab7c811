package store

import (
	"path/filepath"
	"testing"

	"github.com/roach88/fsproj/internal/ir"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with two years of one BS account and a
// cash-flow summary for the forecast year.
func createTestRun(id string, createdAt int64) ir.RunRecord {
	return ir.RunRecord{
		ID:            id,
		ModelHash:     "test-hash",
		BaseProfit:    "net_income",
		CashAccount:   "cash",
		Years:         []ir.FiscalYear{{Year: 2024, Actual: true}, {Year: 2025}},
		EngineVersion: "0.1.0",
		CreatedAt:     createdAt,
		Cells: []ir.CellRecord{
			createTestCell(ir.SectionBS, 2024, "cash", 100),
			createTestCell(ir.SectionPL, 2025, "net_income", 40),
			createTestCell(ir.SectionBS, 2025, "cash", 140),
		},
		CashFlows: []ir.CashFlowRecord{{Year: 2025, CFO: 40, Total: 40}},
	}
}

func createTestCell(section ir.Section, year int, account string, v float64) ir.CellRecord {
	return ir.CellRecord{
		Key:       ir.CellID(section, year, account),
		Section:   section,
		Year:      year,
		AccountID: account,
		Value:     v,
	}
}
