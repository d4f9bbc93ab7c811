package engine

import (
	"math"
	"sort"

	"github.com/roach88/fsproj/internal/graph"
	"github.com/roach88/fsproj/internal/ir"
)

// ImportActuals registers the account master and the historical snapshots.
//
// snapshots are ordered oldest first. Ids that appear only in snapshots are
// synthesized as PL accounts unless opts.Strict is set. Each imported value
// becomes a leaf root for its (year, account) cell. ImportActuals may be
// called once per Projection; every check runs before any state changes.
func (p *Projection) ImportActuals(snapshots []ir.Snapshot, accounts []ir.Account, opts ir.ImportOptions) error {
	if p.state != StateUninitialized {
		return errorf(ErrCodeInvalidState, "actuals already imported (state %s)", p.state)
	}

	years, err := actualYears(len(snapshots), opts)
	if err != nil {
		return err
	}

	known := make(map[string]bool, len(accounts))
	for _, a := range accounts {
		if a.ID == "" {
			return errorf(ErrCodeInvalidOptions, "account with empty id")
		}
		if known[a.ID] {
			return &Error{Code: ErrCodeInvalidOptions, Message: "duplicate account id", AccountID: a.ID}
		}
		if a.Section != "" && !a.Section.Valid() {
			return &Error{Code: ErrCodeInvalidOptions, Message: "section must be PL, BS or CF, got " + string(a.Section), AccountID: a.ID}
		}
		known[a.ID] = true
	}

	var synthesized []string
	for i, snap := range snapshots {
		for _, id := range sortedIDs(snap) {
			if v := snap[id]; math.IsNaN(v) || math.IsInf(v, 0) {
				return &Error{Code: ErrCodeInvalidNumericValue, Message: "actual value must be finite", AccountID: id, Year: years[i]}
			}
			if known[id] {
				continue
			}
			if opts.Strict {
				return &Error{Code: ErrCodeUnresolvedReference, Message: "snapshot references an unknown account", AccountID: id, Year: years[i]}
			}
			known[id] = true
			synthesized = append(synthesized, id)
		}
	}

	for _, a := range accounts {
		p.register(a)
	}
	for _, id := range synthesized {
		p.register(ir.Account{ID: id, Name: id, Section: ir.SectionPL})
	}
	p.assignPrimaries()

	p.startYear = opts.StartYear
	if p.startYear == 0 {
		p.startYear = ir.DefaultStartYear
	}

	for i, snap := range snapshots {
		year := years[i]
		for _, id := range sortedIDs(snap) {
			v := snap[id]
			p.write(year, id, v)
			p.roots[cellKey{Year: year, AccountID: id}] = p.nodes.AddLeaf(v, "ACTUAL", &graph.Provenance{
				AccountID: id,
				Year:      year,
				Label:     "actual",
			})
		}
		p.years = append(p.years, ir.FiscalYear{Year: year, Actual: true})
		p.actual[year] = true
	}

	p.state = StateActualsImported
	p.logger.Info("actuals imported",
		"accounts", len(p.order),
		"synthesized", len(synthesized),
		"years", len(years),
	)
	return nil
}

// actualYears maps snapshot positions onto calendar years.
func actualYears(n int, opts ir.ImportOptions) ([]int, error) {
	if len(opts.ActualYears) > 0 {
		if len(opts.ActualYears) != n {
			return nil, errorf(ErrCodeInvalidOptions, "actual_years has %d entries for %d snapshots", len(opts.ActualYears), n)
		}
		for i := 1; i < n; i++ {
			if opts.ActualYears[i] != opts.ActualYears[i-1]+1 {
				return nil, errorf(ErrCodeInvalidOptions, "actual_years must be contiguous and ascending, got %v", opts.ActualYears)
			}
		}
		return append([]int(nil), opts.ActualYears...), nil
	}

	start := opts.StartYear
	if start == 0 {
		start = ir.DefaultStartYear
	}
	years := make([]int, n)
	for i := range years {
		years[i] = start + i
	}
	return years, nil
}

// assignPrimaries picks the account each category id resolves to: the first
// account flagged Primary, else the first PL account, else the first seen.
func (p *Projection) assignPrimaries() {
	flagged := make(map[string]string)
	firstPL := make(map[string]string)
	first := make(map[string]string)
	for _, id := range p.order {
		a := p.accounts[id]
		if a.Category == "" {
			continue
		}
		if _, ok := first[a.Category]; !ok {
			first[a.Category] = id
		}
		if _, ok := firstPL[a.Category]; !ok && a.Section == ir.SectionPL {
			firstPL[a.Category] = id
		}
		if _, ok := flagged[a.Category]; !ok && a.Primary {
			flagged[a.Category] = id
		}
	}
	for cat, id := range first {
		switch {
		case flagged[cat] != "":
			p.primary[cat] = flagged[cat]
		case firstPL[cat] != "":
			p.primary[cat] = firstPL[cat]
		default:
			p.primary[cat] = id
		}
	}
}

func sortedIDs(snap ir.Snapshot) []string {
	ids := make([]string, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
