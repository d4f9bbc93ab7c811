package harness

import (
	"errors"

	"github.com/roach88/fsproj/internal/engine"
	"github.com/roach88/fsproj/internal/ir"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every assertion holds.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Err is the projection error, if ImportActuals or Compute failed.
	// Years computed before the failure are still saved in Run.
	Err error `json:"-"`

	// Run is the saved run as read back from the store.
	Run ir.RunRecord `json:"run"`

	// Tables holds the statement tables of every section.
	Tables map[ir.Section]engine.Table `json:"tables"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
		Tables: make(map[ir.Section]engine.Table),
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Cell returns the saved value of one (year, account) cell.
func (r *Result) Cell(year int, accountID string) (float64, bool) {
	for _, c := range r.Run.Cells {
		if c.Year == year && c.AccountID == accountID {
			return c.Value, true
		}
	}
	return 0, false
}

// CashFlow returns the saved cash-flow summary of a forecast year.
func (r *Result) CashFlow(year int) (ir.CashFlowRecord, bool) {
	for _, cf := range r.Run.CashFlows {
		if cf.Year == year {
			return cf, true
		}
	}
	return ir.CashFlowRecord{}, false
}

// ErrorCode returns the engine error code of Err, or "" when the projection
// succeeded or failed with an error that carries no code.
func (r *Result) ErrorCode() string {
	var e *engine.Error
	if r.Err != nil && errors.As(r.Err, &e) {
		return string(e.Code)
	}
	return ""
}
