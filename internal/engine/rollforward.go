package engine

import "github.com/roach88/fsproj/internal/ir"

// rollForward carries every rule-less BS account (other than cash) into
// year: the prior balance, default 0. Retained earnings also accumulate the
// year's base profit. Returns the number of accounts written.
func (p *Projection) rollForward(year int) int {
	n := 0
	for _, id := range p.order {
		if !p.rollsForward(id) {
			continue
		}
		v := p.valueOrZero(year-1, id)
		if p.accounts[id].Category == ir.CategoryRetainedEarnings && p.run.baseProfit != "" {
			v += p.valueOrZero(year, p.run.baseProfit)
		}
		p.write(year, id, v)
		n++
	}
	return n
}
