package compiler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/roach88/fsproj/internal/ir"
)

// Validation error codes (E200-E299)
const (
	// Rule errors (E200-E209)
	ErrRuleMissing      = "E200" // rule entry is nil
	ErrInvalidNumber    = "E201" // NaN or infinite numeric field
	ErrUnresolvedRef    = "E202" // reference names no account and no rule
	ErrMissingRef       = "E203" // rule kind requires at least one reference
	ErrNoPriorActuals   = "E204" // PREV reference with zero actual years
	ErrInvalidPeriod    = "E205" // period is not SAME or PREV
	ErrInvalidSign      = "E206" // sign is not PLUS or MINUS
	ErrUnknownRuleKind  = "E207" // rule kind not recognised
	ErrEmptyAccountID   = "E208" // empty account id used as a rule key

	// Balance change errors (E210-E219)
	ErrUnresolvedTarget  = "E210" // target, counter or driver cannot be resolved
	ErrMissingAmount     = "E211" // neither driver nor value present
	ErrInvalidCFCategory = "E212" // cf_category is not CFO, CFI or CFF
	ErrSameTargetCounter = "E213" // target and counter resolve to one account
)

// ValidationError represents a rule or balance change validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is a non-empty list of validation errors.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Catalog answers the account questions validation needs. The engine's
// projection implements it over its imported account master.
type Catalog interface {
	// HasAccount reports whether id is a registered account.
	HasAccount(id string) bool

	// Resolve maps an account id or a category id to a concrete account.
	Resolve(idOrCategory string) (string, bool)

	// ActualYearCount is the number of imported actual years.
	ActualYearCount() int
}

// ValidateRules checks every rule before any graph is built.
// Returns all errors found (does not fail-fast), ordered by account id.
func ValidateRules(rules map[string]ir.Rule, cat Catalog) []ValidationError {
	ids := make([]string, 0, len(rules))
	for id := range rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var errs []ValidationError
	for _, id := range ids {
		field := fmt.Sprintf("rules.%s", id)
		if id == "" {
			errs = append(errs, ValidationError{Field: field, Message: "rule key must be a non-empty account id", Code: ErrEmptyAccountID})
			continue
		}
		rule := ir.Value(rules[id])
		if rule == nil {
			errs = append(errs, ValidationError{Field: field, Message: "rule is nil", Code: ErrRuleMissing})
			continue
		}
		v := &ruleValidator{field: field}
		if err := rule.Accept(v); err != nil {
			errs = append(errs, ValidationError{Field: field, Message: err.Error(), Code: ErrUnknownRuleKind})
			continue
		}
		errs = append(errs, v.errs...)

		for i, ref := range ir.References(id, rule) {
			refField := fmt.Sprintf("%s.refs[%d]", field, i)
			if ref.Period != "" && ref.Period != ir.PeriodSame && ref.Period != ir.PeriodPrev {
				errs = append(errs, ValidationError{
					Field:   refField,
					Message: fmt.Sprintf("period must be SAME or PREV, got %q", ref.Period),
					Code:    ErrInvalidPeriod,
				})
			}
			if _, isRule := rules[ref.Account]; !isRule && !cat.HasAccount(ref.Account) {
				errs = append(errs, ValidationError{
					Field:   refField,
					Message: fmt.Sprintf("unresolved reference %q", ref.Account),
					Code:    ErrUnresolvedRef,
				})
			}
			if ref.Period == ir.PeriodPrev && cat.ActualYearCount() == 0 {
				errs = append(errs, ValidationError{
					Field:   refField,
					Message: fmt.Sprintf("previous-period reference to %q needs at least one actual year", ref.Account),
					Code:    ErrNoPriorActuals,
				})
			}
		}
	}
	return errs
}

// ruleValidator checks the per-variant shape of one rule.
type ruleValidator struct {
	field string
	errs  []ValidationError
}

func (v *ruleValidator) finite(name string, f float64) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		v.errs = append(v.errs, ValidationError{
			Field:   v.field + "." + name,
			Message: fmt.Sprintf("must be a finite number, got %v", f),
			Code:    ErrInvalidNumber,
		})
	}
}

func (v *ruleValidator) needRef(kind ir.RuleKind, n int) {
	if n == 0 {
		v.errs = append(v.errs, ValidationError{
			Field:   v.field + ".refs",
			Message: fmt.Sprintf("%s requires at least one reference", kind),
			Code:    ErrMissingRef,
		})
	}
}

func (v *ruleValidator) VisitInput(r ir.InputRule) error {
	v.finite("value", r.Value)
	return nil
}

func (v *ruleValidator) VisitFixedValue(r ir.FixedValueRule) error {
	v.finite("value", r.Value)
	return nil
}

func (v *ruleValidator) VisitReference(r ir.ReferenceRule) error {
	if r.Ref.Account == "" {
		v.needRef(ir.KindReference, 0)
	}
	return nil
}

func (v *ruleValidator) VisitGrowthRate(r ir.GrowthRateRule) error {
	v.finite("value", r.Rate)
	v.needRef(ir.KindGrowthRate, len(r.Refs))
	return nil
}

func (v *ruleValidator) VisitPercentage(r ir.PercentageRule) error {
	v.finite("value", r.Rate)
	n := 0
	if r.Ref != nil {
		n = 1
	}
	v.needRef(ir.KindPercentage, n)
	return nil
}

func (v *ruleValidator) VisitProportionate(r ir.ProportionateRule) error {
	if r.Coeff != nil {
		v.finite("coeff", *r.Coeff)
	}
	return nil
}

func (v *ruleValidator) VisitChildrenSum(ir.ChildrenSumRule) error {
	return nil
}

func (v *ruleValidator) VisitCalculation(r ir.CalculationRule) error {
	v.needRef(ir.KindCalculation, len(r.Terms))
	for i, t := range r.Terms {
		if t.Sign != "" && t.Sign != ir.SignPlus && t.Sign != ir.SignMinus {
			v.errs = append(v.errs, ValidationError{
				Field:   fmt.Sprintf("%s.refs[%d].sign", v.field, i),
				Message: fmt.Sprintf("sign must be PLUS or MINUS, got %q", t.Sign),
				Code:    ErrInvalidSign,
			})
		}
	}
	return nil
}

// ValidateBalanceChanges checks that every instruction resolves and carries
// an amount. Returns all errors found, in instruction order.
func ValidateBalanceChanges(changes []ir.BalanceChange, cat Catalog) []ValidationError {
	var errs []ValidationError
	for i, bc := range changes {
		field := fmt.Sprintf("balance_changes[%d]", i)

		target, ok := cat.Resolve(bc.Target)
		if !ok {
			errs = append(errs, unresolved(field+".target", bc.Target))
		}
		if bc.Counter != "" {
			counter, ok := cat.Resolve(bc.Counter)
			switch {
			case !ok:
				errs = append(errs, unresolved(field+".counter", bc.Counter))
			case counter == target:
				errs = append(errs, ValidationError{
					Field:   field + ".counter",
					Message: fmt.Sprintf("counter %q resolves to the target account", bc.Counter),
					Code:    ErrSameTargetCounter,
				})
			}
		}
		if bc.Driver != "" {
			if _, ok := cat.Resolve(bc.Driver); !ok {
				errs = append(errs, unresolved(field+".driver", bc.Driver))
			}
		}
		if bc.Driver == "" && bc.Value == nil {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "either driver or value is required",
				Code:    ErrMissingAmount,
			})
		}
		if bc.Value != nil && (math.IsNaN(*bc.Value) || math.IsInf(*bc.Value, 0)) {
			errs = append(errs, ValidationError{
				Field:   field + ".value",
				Message: fmt.Sprintf("must be a finite number, got %v", *bc.Value),
				Code:    ErrInvalidNumber,
			})
		}
		if bc.Sign != ir.SignPlus && bc.Sign != ir.SignMinus {
			errs = append(errs, ValidationError{
				Field:   field + ".sign",
				Message: fmt.Sprintf("sign must be PLUS or MINUS, got %q", bc.Sign),
				Code:    ErrInvalidSign,
			})
		}
		switch bc.CFCategory {
		case "", ir.CFOperating, ir.CFInvesting, ir.CFFinancing:
		default:
			errs = append(errs, ValidationError{
				Field:   field + ".cf_category",
				Message: fmt.Sprintf("cf_category must be CFO, CFI or CFF, got %q", bc.CFCategory),
				Code:    ErrInvalidCFCategory,
			})
		}
	}
	return errs
}

func unresolved(field, name string) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("%q is neither an account id nor a category with a primary account", name),
		Code:    ErrUnresolvedTarget,
	}
}
