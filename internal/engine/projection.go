package engine

import (
	"io"
	"log/slog"
	"slices"

	"github.com/roach88/fsproj/internal/graph"
	"github.com/roach88/fsproj/internal/ir"
)

// State is the lifecycle position of a Projection.
type State int

const (
	StateUninitialized State = iota
	StateActualsImported
	StateConfigured
	StateComputed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateActualsImported:
		return "ActualsImported"
	case StateConfigured:
		return "Configured"
	case StateComputed:
		return "Computed"
	default:
		return "Unknown"
	}
}

// gridKey addresses one value in the table.
type gridKey struct {
	Section   ir.Section
	Year      int
	AccountID string
}

// CashFlowSummary is the per-year cash-flow result.
type CashFlowSummary struct {
	CFO   float64 `json:"cfo"`
	CFI   float64 `json:"cfi"`
	CFF   float64 `json:"cff"`
	Total float64 `json:"total"`
}

// Projection is one projection run: imported actuals, forecast
// configuration and every computed year.
type Projection struct {
	logger *slog.Logger
	state  State

	nodes  *graph.Store
	roots  map[cellKey]graph.NodeID
	guard  *cellGuard
	grid   map[gridKey]float64
	flows  map[int]CashFlowSummary
	years  []ir.FiscalYear
	actual map[int]bool

	accounts  map[string]ir.Account
	order     []string // account ids in registration order
	primary   map[string]string
	children  map[string][]string
	startYear int

	rules   map[string]ir.Rule
	changes []ir.BalanceChange

	// run is set for the duration of one forecast year.
	run *yearRun
}

// Option configures a Projection.
type Option func(*Projection)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(p *Projection) {
		if l != nil {
			p.logger = l
		}
	}
}

// New creates an empty projection in the Uninitialized state.
func New(opts ...Option) *Projection {
	p := &Projection{
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		nodes:    graph.NewStore(),
		roots:    make(map[cellKey]graph.NodeID),
		guard:    newCellGuard(),
		grid:     make(map[gridKey]float64),
		flows:    make(map[int]CashFlowSummary),
		actual:   make(map[int]bool),
		accounts: make(map[string]ir.Account),
		primary:  make(map[string]string),
		children: make(map[string][]string),
		rules:    make(map[string]ir.Rule),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the current lifecycle state.
func (p *Projection) State() State {
	return p.state
}

// SetRules replaces the forecast rule set wholesale.
func (p *Projection) SetRules(rules map[string]ir.Rule) error {
	if p.state == StateUninitialized {
		return errorf(ErrCodeInvalidState, "SetRules called before ImportActuals")
	}
	p.rules = make(map[string]ir.Rule, len(rules))
	for id, r := range rules {
		p.rules[id] = ir.Value(r)
	}
	if p.state == StateActualsImported {
		p.state = StateConfigured
	}
	return nil
}

// SetBalanceChanges replaces the Balance & Change instructions wholesale.
func (p *Projection) SetBalanceChanges(changes []ir.BalanceChange) error {
	if p.state == StateUninitialized {
		return errorf(ErrCodeInvalidState, "SetBalanceChanges called before ImportActuals")
	}
	p.changes = slices.Clone(changes)
	if p.state == StateActualsImported {
		p.state = StateConfigured
	}
	return nil
}

// Years returns every actual and computed forecast year in order.
func (p *Projection) Years() []ir.FiscalYear {
	return slices.Clone(p.years)
}

// Accounts returns the account master in registration order, including
// synthesized placeholder and cash-flow statement accounts.
func (p *Projection) Accounts() []ir.Account {
	out := make([]ir.Account, len(p.order))
	for i, id := range p.order {
		out[i] = p.accounts[id]
	}
	return out
}

// Account looks up one registered account.
func (p *Projection) Account(id string) (ir.Account, bool) {
	a, ok := p.accounts[id]
	return a, ok
}

// Value returns the unrounded table value of one cell, without forward-fill.
func (p *Projection) Value(year int, accountID string) (float64, bool) {
	a, ok := p.accounts[accountID]
	if !ok {
		return 0, false
	}
	v, ok := p.grid[gridKey{Section: a.Section, Year: year, AccountID: accountID}]
	return v, ok
}

// CashFlow returns the cash-flow summary of a year. Years that were never
// computed report all zeros.
func (p *Projection) CashFlow(year int) CashFlowSummary {
	return p.flows[year]
}

// NodeCount returns the number of graph nodes built so far.
func (p *Projection) NodeCount() int {
	return p.nodes.Len()
}

// Cells exports every table value with its stable cell key, ordered by
// year, then section, then account registration order.
func (p *Projection) Cells() []ir.CellRecord {
	var out []ir.CellRecord
	for _, fy := range p.years {
		for _, section := range []ir.Section{ir.SectionPL, ir.SectionBS, ir.SectionCF} {
			for _, id := range p.order {
				a := p.accounts[id]
				if a.Section != section {
					continue
				}
				v, ok := p.grid[gridKey{Section: section, Year: fy.Year, AccountID: id}]
				if !ok {
					continue
				}
				out = append(out, ir.CellRecord{
					Key:       ir.CellID(section, fy.Year, id),
					Section:   section,
					Year:      fy.Year,
					AccountID: id,
					Value:     v,
				})
			}
		}
	}
	return out
}

func (p *Projection) register(a ir.Account) {
	if a.Section == "" {
		a.Section = ir.SectionPL
	}
	p.accounts[a.ID] = a
	p.order = append(p.order, a.ID)
	if a.ParentID != "" {
		p.children[a.ParentID] = append(p.children[a.ParentID], a.ID)
	}
}

// resolve maps an account id or a category id to a concrete account id.
// Account ids win over category ids.
func (p *Projection) resolve(idOrCategory string) (string, bool) {
	if idOrCategory == "" {
		return "", false
	}
	if _, ok := p.accounts[idOrCategory]; ok {
		return idOrCategory, true
	}
	id, ok := p.primary[idOrCategory]
	return id, ok
}

// lastYear is the latest year with data, or startYear-1 before any.
func (p *Projection) lastYear() int {
	if len(p.years) == 0 {
		return p.startYear - 1
	}
	return p.years[len(p.years)-1].Year
}

func (p *Projection) lastActualYear() (int, bool) {
	for i := len(p.years) - 1; i >= 0; i-- {
		if p.years[i].Actual {
			return p.years[i].Year, true
		}
	}
	return 0, false
}

// valueOrZero reads a cell, defaulting to 0.
func (p *Projection) valueOrZero(year int, accountID string) float64 {
	v, _ := p.Value(year, accountID)
	return v
}

func (p *Projection) write(year int, accountID string, v float64) {
	a := p.accounts[accountID]
	p.grid[gridKey{Section: a.Section, Year: year, AccountID: accountID}] = v
}

// catalog adapts the projection to compiler.Catalog.
type catalog struct{ p *Projection }

func (c catalog) HasAccount(id string) bool {
	_, ok := c.p.accounts[id]
	return ok
}

func (c catalog) Resolve(idOrCategory string) (string, bool) {
	return c.p.resolve(idOrCategory)
}

func (c catalog) ActualYearCount() int {
	n := 0
	for _, fy := range c.p.years {
		if fy.Actual {
			n++
		}
	}
	return n
}
