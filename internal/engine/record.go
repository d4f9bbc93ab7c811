package engine

import "github.com/roach88/fsproj/internal/ir"

// NewRunRecord snapshots a projection for storage: every table cell plus
// the cash-flow summary of each forecast year. opts are the options the
// projection was computed with; they are recorded as given.
func NewRunRecord(p *Projection, opts ir.ComputeOptions, gen RunIDGenerator, createdAt int64, modelHash string) ir.RunRecord {
	run := ir.RunRecord{
		ID:            gen.Generate(),
		ModelHash:     modelHash,
		BaseProfit:    opts.BaseProfitAccount,
		CashAccount:   opts.CashAccount,
		Years:         p.Years(),
		EngineVersion: ir.EngineVersion,
		CreatedAt:     createdAt,
		Cells:         p.Cells(),
		CashFlows:     []ir.CashFlowRecord{},
	}
	if run.Cells == nil {
		run.Cells = []ir.CellRecord{}
	}
	for _, fy := range run.Years {
		if fy.Actual {
			continue
		}
		cf := p.CashFlow(fy.Year)
		run.CashFlows = append(run.CashFlows, ir.CashFlowRecord{
			Year:  fy.Year,
			CFO:   cf.CFO,
			CFI:   cf.CFI,
			CFF:   cf.CFF,
			Total: cf.Total,
		})
	}
	return run
}
