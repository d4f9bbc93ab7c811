package ir

// CFCategory classifies the cash effect of a balance change.
type CFCategory string

const (
	CFOperating CFCategory = "CFO"
	CFInvesting CFCategory = "CFI"
	CFFinancing CFCategory = "CFF"
)

// BalanceChange is one Balance & Change instruction.
//
// Target, Counter and Driver accept an account id or a category id; a
// category resolves to that category's primary account. Value, when set,
// overrides the driver amount.
type BalanceChange struct {
	Target     string     `json:"target"`
	Counter    string     `json:"counter,omitempty"`
	Sign       Sign       `json:"sign"`
	Driver     string     `json:"driver,omitempty"`
	Value      *float64   `json:"value,omitempty"`
	CFCategory CFCategory `json:"cf_category,omitempty"`

	// IsCredit overrides the target account polarity for the counter sign.
	IsCredit *bool `json:"is_credit,omitempty"`
}
