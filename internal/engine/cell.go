package engine

import (
	"github.com/roach88/fsproj/internal/graph"
	"github.com/roach88/fsproj/internal/ir"
)

// ensureCell returns the root node of (year, accountID), building it from
// the account's rule when it does not exist yet.
//
// Actual years are never rule-built. A forecast cell without a rule is only
// buildable for a roll-forward balance-sheet account, whose provisional root
// carries the prior balance forward until the year is settled.
func (p *Projection) ensureCell(year int, accountID string) (graph.NodeID, error) {
	key := cellKey{Year: year, AccountID: accountID}
	if id, ok := p.roots[key]; ok {
		return id, nil
	}
	if p.actual[year] {
		return 0, &Error{Code: ErrCodeMissingActualCell, Message: "no imported value for actual year", AccountID: accountID, Year: year}
	}
	if p.run == nil || year != p.run.year {
		return 0, &Error{Code: ErrCodeMissingRule, Message: "no value was computed for this year", AccountID: accountID, Year: year}
	}

	rule, hasRule := p.rules[accountID]
	if !hasRule && !p.rollsForward(accountID) {
		return 0, &Error{Code: ErrCodeMissingRule, Message: "no forecast rule", AccountID: accountID, Year: year}
	}
	if hasRule && rule == nil {
		return 0, &Error{Code: ErrCodeMissingRule, Message: "forecast rule is nil", AccountID: accountID, Year: year}
	}

	release, err := p.guard.Enter(key)
	if err != nil {
		return 0, err
	}
	defer release()

	var id graph.NodeID
	if hasRule {
		b := &cellBuilder{p: p, year: year, self: accountID, kind: rule.Kind()}
		if err := rule.Accept(b); err != nil {
			return 0, err
		}
		id = b.node
	} else {
		id, err = p.provisionalBalance(year, accountID)
		if err != nil {
			return 0, err
		}
	}

	p.roots[key] = id
	p.run.built++
	p.logger.Debug("cell built", "account", accountID, "year", year, "node", id)
	return id, nil
}

// rollsForward reports whether a forecast cell without a rule takes the
// prior balance: BS accounts other than the cash account.
func (p *Projection) rollsForward(accountID string) bool {
	a, ok := p.accounts[accountID]
	if !ok || a.Section != ir.SectionBS {
		return false
	}
	if _, hasRule := p.rules[accountID]; hasRule {
		return false
	}
	return p.run == nil || accountID != p.run.cash
}

// provisionalBalance is the roll-forward expression as a node: the settled
// prior balance, plus base profit for retained earnings.
func (p *Projection) provisionalBalance(year int, accountID string) (graph.NodeID, error) {
	prov := &graph.Provenance{AccountID: accountID, Year: year, Label: "roll_forward"}
	prior := p.nodes.AddLeaf(p.valueOrZero(year-1, accountID), "ROLL_FORWARD "+cellKey{year - 1, accountID}.String(), prov)
	if p.accounts[accountID].Category != ir.CategoryRetainedEarnings || p.run.baseProfit == "" {
		return prior, nil
	}

	var profit graph.NodeID
	if _, hasRule := p.rules[p.run.baseProfit]; hasRule {
		var err error
		if profit, err = p.ensureCell(year, p.run.baseProfit); err != nil {
			return 0, err
		}
	} else {
		profit = p.nodes.AddLeaf(0, "BASE_PROFIT", prov)
	}
	return p.binary(prior, profit, graph.OpAdd, "RETAINED_EARNINGS", prov)
}

// binary adds an operation node, mapping store failures onto NOT_FOUND.
func (p *Projection) binary(l, r graph.NodeID, op graph.Op, label string, prov *graph.Provenance) (graph.NodeID, error) {
	id, err := p.nodes.AddBinary(l, r, op, label, prov)
	if err != nil {
		e := &Error{Code: ErrCodeNotFound, Message: err.Error(), Err: err}
		if prov != nil {
			e.AccountID, e.Year = prov.AccountID, prov.Year
		}
		return 0, e
	}
	return id, nil
}
