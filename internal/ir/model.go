package ir

// Snapshot is one historical year of account values.
type Snapshot map[string]float64

// ImportOptions fixes the calendar mapping of imported snapshots.
type ImportOptions struct {
	// ActualYears, when set, must have one entry per snapshot.
	ActualYears []int `json:"actual_years,omitempty"`

	// StartYear is used when ActualYears is empty. Zero means DefaultStartYear.
	StartYear int `json:"start_year,omitempty"`

	// Strict rejects snapshot ids missing from the account master instead of
	// synthesizing placeholder PL accounts.
	Strict bool `json:"strict,omitempty"`
}

// DefaultStartYear is the first actual year when nothing else is given.
const DefaultStartYear = 2000

// DefaultForecastYears is the horizon used when ComputeOptions.Years <= 0.
const DefaultForecastYears = 5

// ComputeOptions configures one forecast run.
type ComputeOptions struct {
	Years             int    `json:"years,omitempty"`
	BaseProfitAccount string `json:"base_profit,omitempty"`
	CashAccount       string `json:"cash,omitempty"`
}

// Model is a complete projection input, as authored in a model directory.
type Model struct {
	Accounts       []Account       `json:"accounts"`
	Actuals        []Snapshot      `json:"actuals"`
	Import         ImportOptions   `json:"import"`
	Rules          map[string]Rule `json:"-"`
	BalanceChanges []BalanceChange `json:"balance_changes"`
	Compute        ComputeOptions  `json:"compute"`
}
