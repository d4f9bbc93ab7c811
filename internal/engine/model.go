package engine

import "github.com/roach88/fsproj/internal/ir"

// ProjectModel runs a compiled model end to end: import, rules, balance
// changes and Compute with the model's options.
//
// The projection is returned even when a step fails, so callers can still
// read the years computed before the failure.
func ProjectModel(m *ir.Model, opts ...Option) (*Projection, error) {
	p := New(opts...)
	if err := p.ImportActuals(m.Actuals, m.Accounts, m.Import); err != nil {
		return p, err
	}
	if err := p.SetRules(m.Rules); err != nil {
		return p, err
	}
	if err := p.SetBalanceChanges(m.BalanceChanges); err != nil {
		return p, err
	}
	return p, p.Compute(m.Compute)
}
