package engine

import "github.com/roach88/fsproj/internal/ir"

// balanceChangeResult is the cash impact of one year's instructions.
type balanceChangeResult struct {
	CFI float64
	CFF float64

	// adjusted holds accounts whose movement is already explained by an
	// instruction; working capital skips them.
	adjusted map[string]bool
}

// applyBalanceChanges runs every instruction for year, in list order.
//
// The target moves by sign×amount. A counter of the same polarity moves the
// opposite way, one of opposite polarity the same way. When the counter is
// the cash account the movement is booked to CFI or CFF instead of the cash
// balance, which the cash-flow step rolls forward.
func (p *Projection) applyBalanceChanges(year int) balanceChangeResult {
	res := balanceChangeResult{adjusted: make(map[string]bool)}
	gainOnSale := p.categoryValue(year, ir.CategoryGainOnSale)

	for i, bc := range p.changes {
		target, _ := p.resolve(bc.Target)
		amount := p.changeAmount(year, bc)
		s := bc.Sign.Multiplier()

		p.write(year, target, p.currentOrPrior(year, target)+s*amount)
		excludeTarget := true

		if bc.Counter != "" {
			counter, _ := p.resolve(bc.Counter)
			targetCredit := p.accounts[target].Credit()
			if bc.IsCredit != nil {
				targetCredit = *bc.IsCredit
			}
			cs := s
			if targetCredit == p.accounts[counter].Credit() {
				cs = -s
			}

			if counter == p.run.cash {
				switch bc.CFCategory {
				case ir.CFInvesting:
					if bc.Sign == ir.SignMinus {
						// Disposal proceeds: book value relieved plus the recognised gain.
						res.CFI += amount + gainOnSale
					} else {
						res.CFI += cs * amount
					}
				case ir.CFFinancing:
					res.CFF += cs * amount
				default:
					// Operating: the target delta flows through working capital.
					excludeTarget = false
				}
			} else {
				p.write(year, counter, p.currentOrPrior(year, counter)+cs*amount)
				res.adjusted[counter] = true
			}
		}
		if excludeTarget {
			res.adjusted[target] = true
		}

		p.logger.Debug("balance change applied",
			"index", i,
			"year", year,
			"target", target,
			"counter", bc.Counter,
			"amount", amount,
		)
	}
	return res
}

// changeAmount is the explicit value, else the driver's current value, else
// its prior value, else 0.
func (p *Projection) changeAmount(year int, bc ir.BalanceChange) float64 {
	if bc.Value != nil {
		return *bc.Value
	}
	driver, ok := p.resolve(bc.Driver)
	if !ok {
		return 0
	}
	if v, ok := p.Value(year, driver); ok {
		return v
	}
	return p.valueOrZero(year-1, driver)
}

func (p *Projection) currentOrPrior(year int, accountID string) float64 {
	if v, ok := p.Value(year, accountID); ok {
		return v
	}
	return p.valueOrZero(year-1, accountID)
}

// categoryValue reads the year's value of a category's primary account.
func (p *Projection) categoryValue(year int, category string) float64 {
	id, ok := p.primary[category]
	if !ok {
		return 0
	}
	return p.valueOrZero(year, id)
}
