package engine

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes engine errors.
type ErrorCode string

const (
	// ErrCodeMissingActualCell indicates an actual year/account has no imported leaf.
	ErrCodeMissingActualCell ErrorCode = "MISSING_ACTUAL_CELL"

	// ErrCodeMissingRule indicates a forecast cell has no rule and cannot roll forward.
	ErrCodeMissingRule ErrorCode = "MISSING_RULE"

	// ErrCodeCyclicDependency indicates a cell build revisited itself.
	ErrCodeCyclicDependency ErrorCode = "CYCLIC_DEPENDENCY"

	// ErrCodeUnresolvedReference indicates an unknown account or category.
	ErrCodeUnresolvedReference ErrorCode = "UNRESOLVED_REFERENCE"

	// ErrCodeInvalidNumericValue indicates a NaN or infinite value.
	ErrCodeInvalidNumericValue ErrorCode = "INVALID_NUMERIC_VALUE"

	// ErrCodeNoPriorActuals indicates a PREV reference with no actual years.
	ErrCodeNoPriorActuals ErrorCode = "NO_PRIOR_ACTUALS"

	// ErrCodeInvalidCashAccount indicates the cash account is not in the CASH category.
	ErrCodeInvalidCashAccount ErrorCode = "INVALID_CASH_ACCOUNT"

	// ErrCodeNotFound indicates a graph node id is missing from the store.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeInvalidState indicates an operation called in the wrong lifecycle state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"

	// ErrCodeInvalidOptions indicates malformed import options or account master.
	ErrCodeInvalidOptions ErrorCode = "INVALID_OPTIONS"
)

// Error is a fatal engine error. It names the offending account, year or
// category when one is known.
type Error struct {
	Code      ErrorCode
	Message   string
	AccountID string
	Year      int
	Category  string

	// Details contains additional context.
	Details map[string]string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	switch {
	case e.AccountID != "" && e.Year != 0:
		return fmt.Sprintf("%s: %s (account=%s, year=%d)", e.Code, e.Message, e.AccountID, e.Year)
	case e.AccountID != "":
		return fmt.Sprintf("%s: %s (account=%s)", e.Code, e.Message, e.AccountID)
	case e.Category != "":
		return fmt.Sprintf("%s: %s (category=%s)", e.Code, e.Message, e.Category)
	default:
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is an engine Error with the given code.
// Uses errors.As to handle wrapped errors.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// IsCycleError returns true if the error is a cyclic dependency error.
func IsCycleError(err error) bool {
	return IsCode(err, ErrCodeCyclicDependency)
}

// NewCycleError creates an Error for a cell that revisited itself.
func NewCycleError(accountID string, year int, path []string) *Error {
	e := &Error{
		Code:      ErrCodeCyclicDependency,
		Message:   "cell depends on itself",
		AccountID: accountID,
		Year:      year,
	}
	if len(path) > 0 {
		e.Details = map[string]string{"path": fmt.Sprint(path)}
	}
	return e
}

func errorf(code ErrorCode, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
