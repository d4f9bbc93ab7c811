package harness

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/roach88/fsproj/internal/ir"
)

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Years    []ir.FiscalYear
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Years) > 0 {
		labels := make([]string, len(e.Years))
		for i, fy := range e.Years {
			labels[i] = fy.Label()
		}
		fmt.Fprintf(&buf, "\nSaved years: %s\n", strings.Join(labels, " "))
	}

	return buf.String()
}

// EvaluateAssertions checks all assertions against the result.
// Returns one message per failed assertion.
//
// A projection error with no error assertion in the list is itself a
// failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	expectsError := false
	for _, a := range assertions {
		if a.Type == AssertError {
			expectsError = true
		}
	}
	if result.Err != nil && !expectsError {
		errors = append(errors, fmt.Sprintf("unexpected projection error: %v", result.Err))
	}

	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertCell:
			err = assertCell(result, a)
		case AssertCashFlow:
			err = assertCashFlow(result, a)
		case AssertError:
			err = assertError(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errors = append(errors, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}

	return errors
}

func tolerance(a Assertion) float64 {
	if a.Tolerance > 0 {
		return a.Tolerance
	}
	return DefaultTolerance
}

// assertCell checks the saved value of one (year, account) cell.
func assertCell(result *Result, a Assertion) error {
	got, ok := result.Cell(a.Year, a.Account)
	if !ok {
		return &AssertionError{
			Type:     AssertCell,
			Expected: fmt.Sprintf("%s@%d = %g", a.Account, a.Year, *a.Value),
			Actual:   "cell not saved",
			Years:    result.Run.Years,
		}
	}
	if math.Abs(got-*a.Value) > tolerance(a) {
		return &AssertionError{
			Type:     AssertCell,
			Expected: fmt.Sprintf("%s@%d = %g", a.Account, a.Year, *a.Value),
			Actual:   fmt.Sprintf("%g", got),
			Years:    result.Run.Years,
		}
	}
	return nil
}

// assertCashFlow checks the saved cash-flow summary of a year using subset
// semantics: only the keys present in Expect are compared.
func assertCashFlow(result *Result, a Assertion) error {
	cf, ok := result.CashFlow(a.Year)
	if !ok {
		return &AssertionError{
			Type:     AssertCashFlow,
			Expected: fmt.Sprintf("cash flow for %d", a.Year),
			Actual:   "no cash flow saved",
			Years:    result.Run.Years,
		}
	}

	actual := map[string]float64{"cfo": cf.CFO, "cfi": cf.CFI, "cff": cf.CFF, "total": cf.Total}
	keys := make([]string, 0, len(a.Expect))
	for k := range a.Expect {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var mismatches []string
	for _, k := range keys {
		if math.Abs(actual[k]-a.Expect[k]) > tolerance(a) {
			mismatches = append(mismatches, fmt.Sprintf("%s: expected %g, got %g", k, a.Expect[k], actual[k]))
		}
	}
	if len(mismatches) > 0 {
		return &AssertionError{
			Type:     AssertCashFlow,
			Expected: fmt.Sprintf("cash flow for %d matches %v", a.Year, a.Expect),
			Actual:   strings.Join(mismatches, "; "),
			Years:    result.Run.Years,
		}
	}
	return nil
}

// assertError checks the projection failed with the expected code.
func assertError(result *Result, a Assertion) error {
	if result.Err == nil {
		return &AssertionError{
			Type:     AssertError,
			Expected: "error " + a.Code,
			Actual:   "projection succeeded",
		}
	}
	if code := result.ErrorCode(); code != a.Code {
		return &AssertionError{
			Type:     AssertError,
			Expected: "error " + a.Code,
			Actual:   fmt.Sprintf("error %q: %v", code, result.Err),
		}
	}
	return nil
}
