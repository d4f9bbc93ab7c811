package ir

// NOTE: These are store-layer records for saved runs, not engine state.

// RunRecord is one saved projection run.
type RunRecord struct {
	ID            string           `json:"id"`
	ModelHash     string           `json:"model_hash"`
	BaseProfit    string           `json:"base_profit"`
	CashAccount   string           `json:"cash"`
	Years         []FiscalYear     `json:"years"`
	EngineVersion string           `json:"engine_version"`
	CreatedAt     int64            `json:"created_at"` // unix seconds
	Cells         []CellRecord     `json:"cells"`
	CashFlows     []CashFlowRecord `json:"cash_flows"`
}

// CellRecord is one computed (section, year, account) value.
type CellRecord struct {
	Key       string  `json:"key"` // CellID
	Section   Section `json:"section"`
	Year      int     `json:"year"`
	AccountID string  `json:"account_id"`
	Value     float64 `json:"value"`
}

// CashFlowRecord is the per-year cash-flow summary.
type CashFlowRecord struct {
	Year  int     `json:"year"`
	CFO   float64 `json:"cfo"`
	CFI   float64 `json:"cfi"`
	CFF   float64 `json:"cff"`
	Total float64 `json:"total"`
}
