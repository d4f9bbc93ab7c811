package engine

import (
	"math"
	"sort"

	"github.com/roach88/fsproj/internal/compiler"
	"github.com/roach88/fsproj/internal/graph"
	"github.com/roach88/fsproj/internal/ir"
)

// yearRun is the configuration of the forecast year being computed.
type yearRun struct {
	year       int
	cash       string
	baseProfit string
	built      int
}

// Compute forecasts lastActualYear+1 .. lastActualYear+opts.Years.
//
// Years that an earlier Compute already built are kept as they are; only the
// missing tail is computed. Validation runs first and fails without touching
// any state. A failure inside a year leaves every earlier year intact.
func (p *Projection) Compute(opts ir.ComputeOptions) error {
	if p.state == StateUninitialized {
		return errorf(ErrCodeInvalidState, "Compute called before ImportActuals")
	}

	horizon := opts.Years
	if horizon <= 0 {
		horizon = ir.DefaultForecastYears
	}

	cash, err := p.resolveCash(opts.CashAccount)
	if err != nil {
		return err
	}
	var baseProfit string
	if opts.BaseProfitAccount != "" {
		var ok bool
		if baseProfit, ok = p.resolve(opts.BaseProfitAccount); !ok {
			return &Error{Code: ErrCodeUnresolvedReference, Message: "base profit account not found", AccountID: opts.BaseProfitAccount}
		}
	}
	if err := p.validate(); err != nil {
		return err
	}

	p.synthesizeRuleAccounts()
	p.ensureCashFlowAccounts()

	anchor := p.startYear - 1
	if last, ok := p.lastActualYear(); ok {
		anchor = last
	}
	for year := p.lastYear() + 1; year <= anchor+horizon; year++ {
		if err := p.computeYear(year, cash, baseProfit); err != nil {
			return err
		}
	}

	p.state = StateComputed
	return nil
}

// resolveCash maps the configured cash account onto an account in the CASH
// category. An empty name selects the category's primary account, or no cash
// account at all when the master has none.
func (p *Projection) resolveCash(name string) (string, error) {
	if name == "" {
		return p.primary[ir.CategoryCash], nil
	}
	id, ok := p.resolve(name)
	if !ok {
		return "", &Error{Code: ErrCodeInvalidCashAccount, Message: "cash account not found", AccountID: name, Category: ir.CategoryCash}
	}
	if p.accounts[id].Category != ir.CategoryCash {
		return "", &Error{Code: ErrCodeInvalidCashAccount, Message: "cash account must be in the CASH category", AccountID: id, Category: p.accounts[id].Category}
	}
	return id, nil
}

// Validate checks the configured rules and balance changes against the
// imported account master. It never changes state.
func (p *Projection) Validate() []compiler.ValidationError {
	cat := catalog{p}
	errs := compiler.ValidateRules(p.rules, cat)
	return append(errs, compiler.ValidateBalanceChanges(p.changes, cat)...)
}

func (p *Projection) validate() error {
	errs := p.Validate()
	if len(errs) == 0 {
		return nil
	}

	verrs := compiler.ValidationErrors(errs)
	return &Error{
		Code:    validationCode(errs[0].Code),
		Message: verrs.Error(),
		Details: map[string]string{"field": errs[0].Field, "validation_code": errs[0].Code},
		Err:     verrs,
	}
}

func validationCode(code string) ErrorCode {
	switch code {
	case compiler.ErrInvalidNumber:
		return ErrCodeInvalidNumericValue
	case compiler.ErrNoPriorActuals:
		return ErrCodeNoPriorActuals
	case compiler.ErrUnresolvedRef, compiler.ErrMissingRef, compiler.ErrUnresolvedTarget:
		return ErrCodeUnresolvedReference
	default:
		return ErrCodeInvalidOptions
	}
}

// synthesizeRuleAccounts registers a PL placeholder for every rule whose
// account id is not in the master.
func (p *Projection) synthesizeRuleAccounts() {
	var missing []string
	for id := range p.rules {
		if _, ok := p.accounts[id]; !ok {
			missing = append(missing, id)
		}
	}
	sort.Strings(missing)
	for _, id := range missing {
		p.register(ir.Account{ID: id, Name: id, Section: ir.SectionPL})
	}
}

// ruleAccounts lists rule accounts in registration order.
func (p *Projection) ruleAccounts() []string {
	ids := make([]string, 0, len(p.rules))
	for _, id := range p.order {
		if _, ok := p.rules[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func (p *Projection) computeYear(year int, cash, baseProfit string) error {
	p.run = &yearRun{year: year, cash: cash, baseProfit: baseProfit}
	defer func() { p.run = nil }()

	ids := p.ruleAccounts()
	roots := make([]graph.NodeID, len(ids))
	for i, id := range ids {
		root, err := p.ensureCell(year, id)
		if err != nil {
			p.discardYear(year)
			return err
		}
		roots[i] = root
	}

	values := graph.Evaluate(p.nodes, roots)
	for i, id := range ids {
		if v, ok := values[roots[i]]; ok {
			p.write(year, id, v)
		}
	}

	rolled := p.rollForward(year)
	bc := p.applyBalanceChanges(year)
	summary := p.storeCashFlow(year, bc)
	if err := p.checkFinite(year); err != nil {
		p.discardYear(year)
		return err
	}
	p.settle(year)

	p.years = append(p.years, ir.FiscalYear{Year: year})
	p.flows[year] = summary
	p.logger.Info("year computed",
		"year", year,
		"cells", p.run.built,
		"rolled_forward", rolled,
		"cfo", summary.CFO,
		"cfi", summary.CFI,
		"cff", summary.CFF,
	)
	return nil
}

// checkFinite fails the year when arithmetic overflowed into an infinite or
// NaN table value. The first offending account in registration order is
// reported.
func (p *Projection) checkFinite(year int) error {
	for _, id := range p.order {
		v, ok := p.grid[gridKey{Section: p.accounts[id].Section, Year: year, AccountID: id}]
		if !ok || !(math.IsInf(v, 0) || math.IsNaN(v)) {
			continue
		}
		return &Error{Code: ErrCodeInvalidNumericValue, Message: "computed value is not finite", AccountID: id, Year: year}
	}
	return nil
}

// discardYear drops every root and table value of a failed year.
func (p *Projection) discardYear(year int) {
	for key := range p.roots {
		if key.Year == year {
			delete(p.roots, key)
		}
	}
	for key := range p.grid {
		if key.Year == year {
			delete(p.grid, key)
		}
	}
}

// settle replaces the year's roots with leaves holding final table values,
// so PREV references from later years read post-adjustment balances.
func (p *Projection) settle(year int) {
	for _, id := range p.order {
		v, ok := p.Value(year, id)
		if !ok {
			continue
		}
		p.roots[cellKey{Year: year, AccountID: id}] = p.nodes.AddLeaf(v, "SETTLED "+cellKey{Year: year, AccountID: id}.String(), &graph.Provenance{
			AccountID: id,
			Year:      year,
			Label:     "settled",
		})
	}
}
