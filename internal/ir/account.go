package ir

// Section identifies the financial statement an account belongs to.
type Section string

const (
	SectionPL Section = "PL" // income statement
	SectionBS Section = "BS" // balance sheet
	SectionCF Section = "CF" // cash-flow statement
)

// Valid reports whether s is one of the three statement sections.
func (s Section) Valid() bool {
	return s == SectionPL || s == SectionBS || s == SectionCF
}

// Global categories that the engine treats specially. Any other category id
// is allowed and simply groups accounts.
const (
	CategoryCash             = "CASH"
	CategoryRetainedEarnings = "RETAINED_EARNINGS"
	CategoryCapitalStock     = "CAPITAL_STOCK"
	CategoryGainOnSale       = "GAIN_ON_SALE"
	CategoryDepreciation     = "DEPRECIATION"
	CategoryAmortization     = "AMORTIZATION"
	CategoryReceivables      = "ACCOUNTS_RECEIVABLE"
	CategoryInventory        = "INVENTORY"
	CategoryPayables         = "ACCOUNTS_PAYABLE"
)

// Account is one row of the account master.
//
// ID is the identity. Two accounts may share a Category; they still occupy
// distinct rows and cells.
type Account struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Section  Section `json:"section"`
	Category string  `json:"category,omitempty"`
	IsCredit *bool   `json:"is_credit,omitempty"`
	ParentID string  `json:"parent_id,omitempty"`

	// Primary marks the account that a category id resolves to.
	Primary bool `json:"primary,omitempty"`
}

// Credit reports the account polarity. Unknown polarity counts as debit.
func (a Account) Credit() bool {
	return a.IsCredit != nil && *a.IsCredit
}

// Bool returns a pointer to b.
func Bool(b bool) *bool {
	return &b
}

// Float returns a pointer to f.
func Float(f float64) *float64 {
	return &f
}
