package engine

import "github.com/roach88/fsproj/internal/ir"

// Cash-flow statement accounts written for every computed year.
const (
	LineCFO            = "CF_CFO"
	LineCFI            = "CF_CFI"
	LineCFF            = "CF_CFF"
	LineNetChange      = "CF_NET_CHANGE"
	LineBeginningCash  = "CF_BEGINNING_CASH"
	LineEndingCash     = "CF_ENDING_CASH"
	LineDA             = "CF_DA"
	LineChgReceivables = "CF_CHG_RECEIVABLES"
	LineChgInventory   = "CF_CHG_INVENTORY"
	LineChgPayables    = "CF_CHG_PAYABLES"
)

var cashFlowLines = []ir.Account{
	{ID: LineCFO, Name: "Cash flow from operating activities"},
	{ID: LineDA, Name: "Depreciation and amortization"},
	{ID: LineChgReceivables, Name: "Change in receivables"},
	{ID: LineChgInventory, Name: "Change in inventory"},
	{ID: LineChgPayables, Name: "Change in payables"},
	{ID: LineCFI, Name: "Cash flow from investing activities"},
	{ID: LineCFF, Name: "Cash flow from financing activities"},
	{ID: LineNetChange, Name: "Net increase (decrease) in cash"},
	{ID: LineBeginningCash, Name: "Cash at beginning of year"},
	{ID: LineEndingCash, Name: "Cash at end of year"},
}

// nonCashLines maps a driver category to its add-back detail line.
var nonCashLines = map[string]string{
	ir.CategoryDepreciation: LineDA,
	ir.CategoryAmortization: LineDA,
}

// workingCapitalLines maps a BS category to its working-capital detail line.
var workingCapitalLines = map[string]string{
	ir.CategoryReceivables: LineChgReceivables,
	ir.CategoryInventory:   LineChgInventory,
	ir.CategoryPayables:    LineChgPayables,
}

// ensureCashFlowAccounts registers the statement lines the master lacks.
func (p *Projection) ensureCashFlowAccounts() {
	for _, line := range cashFlowLines {
		if _, ok := p.accounts[line.ID]; ok {
			continue
		}
		line.Section = ir.SectionCF
		p.register(line)
	}
}

// calculateCFO derives operating cash flow: base profit, plus PL drivers of
// balance changes as non-cash charges, minus gain on sale, plus
// working-capital movements of BS accounts not explained by an instruction.
// Detail line amounts are returned alongside.
func (p *Projection) calculateCFO(year int, excluded map[string]bool) (float64, map[string]float64) {
	lines := map[string]float64{LineDA: 0, LineChgReceivables: 0, LineChgInventory: 0, LineChgPayables: 0}

	var cfo float64
	if p.run.baseProfit != "" {
		cfo = p.valueOrZero(year, p.run.baseProfit)
	}

	// One add-back per instruction: a driver shared by two instructions
	// moved two balances.
	for _, bc := range p.changes {
		driver, ok := p.resolve(bc.Driver)
		if !ok || p.accounts[driver].Section != ir.SectionPL {
			continue
		}
		v := p.valueOrZero(year, driver)
		cfo += v
		if line, ok := nonCashLines[p.accounts[driver].Category]; ok {
			lines[line] += v
		}
	}

	cfo -= p.categoryValue(year, ir.CategoryGainOnSale)

	for _, id := range p.order {
		a := p.accounts[id]
		if a.Section != ir.SectionBS || id == p.run.cash || excluded[id] {
			continue
		}
		if a.Category == ir.CategoryRetainedEarnings || a.Category == ir.CategoryCapitalStock || a.Category == ir.CategoryCash {
			continue
		}
		delta := p.valueOrZero(year, id) - p.valueOrZero(year-1, id)
		if !a.Credit() {
			delta = -delta
		}
		cfo += delta
		if line, ok := workingCapitalLines[a.Category]; ok {
			lines[line] += delta
		}
	}
	return cfo, lines
}

// storeCashFlow combines CFO with the instruction-driven CFI and CFF, rolls
// the cash account forward and writes the statement lines for year.
func (p *Projection) storeCashFlow(year int, bc balanceChangeResult) CashFlowSummary {
	cfo, lines := p.calculateCFO(year, bc.adjusted)
	total := cfo + bc.CFI + bc.CFF

	var beginning float64
	if p.run.cash != "" {
		beginning = p.valueOrZero(year-1, p.run.cash)
		p.write(year, p.run.cash, beginning+total)
	}

	lines[LineCFO] = cfo
	lines[LineCFI] = bc.CFI
	lines[LineCFF] = bc.CFF
	lines[LineNetChange] = total
	lines[LineBeginningCash] = beginning
	lines[LineEndingCash] = beginning + total
	for _, line := range cashFlowLines {
		p.write(year, line.ID, lines[line.ID])
	}

	return CashFlowSummary{CFO: cfo, CFI: bc.CFI, CFF: bc.CFF, Total: total}
}
