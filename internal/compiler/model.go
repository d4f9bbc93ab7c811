package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/fsproj/internal/ir"
)

// CompileModel parses a CUE value into a projection model.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The value is the unified model package, e.g.:
//
//	accounts: [{id: "sales", name: "Net sales", section: "PL"}]
//	actuals: [{sales: 100}]
//	rules: sales: {kind: "GROWTH_RATE", value: 0.05, refs: [{account: "sales", period: "PREV"}]}
//	import_options: {start_year: 2024}
//	compute: {years: 3}
//
// Only the shape is checked here. Reference resolution and numeric checks
// happen in ValidateRules and ValidateBalanceChanges once the account
// master is known.
func CompileModel(v cue.Value) (*ir.Model, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &ir.Model{Rules: make(map[string]ir.Rule)}

	accountsVal := v.LookupPath(cue.ParsePath("accounts"))
	if !accountsVal.Exists() {
		return nil, &CompileError{
			Field:   "accounts",
			Message: "accounts are required",
			Pos:     v.Pos(),
		}
	}
	if err := accountsVal.Decode(&m.Accounts); err != nil {
		return nil, formatCUEError(err)
	}

	if err := decodeOptional(v, "actuals", &m.Actuals); err != nil {
		return nil, err
	}
	if err := decodeOptional(v, "import_options", &m.Import); err != nil {
		return nil, err
	}
	if err := decodeOptional(v, "balance_changes", &m.BalanceChanges); err != nil {
		return nil, err
	}
	if err := decodeOptional(v, "compute", &m.Compute); err != nil {
		return nil, err
	}

	rulesVal := v.LookupPath(cue.ParsePath("rules"))
	if rulesVal.Exists() {
		iter, err := rulesVal.Fields()
		if err != nil {
			return nil, formatCUEError(err)
		}
		for iter.Next() {
			id := iter.Selector().Unquoted()
			rule, err := CompileRule(id, iter.Value())
			if err != nil {
				return nil, err
			}
			m.Rules[id] = rule
		}
	}

	return m, nil
}

func decodeOptional(v cue.Value, path string, into any) error {
	field := v.LookupPath(cue.ParsePath(path))
	if !field.Exists() {
		return nil
	}
	if err := field.Decode(into); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// CompileRule parses one forecast rule. The "kind" field selects the
// variant; the remaining fields follow the variant's JSON shape.
func CompileRule(id string, v cue.Value) (ir.Rule, error) {
	field := "rules." + id

	kindVal := v.LookupPath(cue.ParsePath("kind"))
	if !kindVal.Exists() {
		return nil, &CompileError{Field: field + ".kind", Message: "rule kind is required", Pos: v.Pos()}
	}
	kind, err := kindVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	switch ir.RuleKind(kind) {
	case ir.KindInput:
		value, err := requiredNumber(v, field, "value")
		if err != nil {
			return nil, err
		}
		return ir.InputRule{Value: value}, nil

	case ir.KindFixedValue:
		value, err := requiredNumber(v, field, "value")
		if err != nil {
			return nil, err
		}
		return ir.FixedValueRule{Value: value}, nil

	case ir.KindReference:
		refVal := v.LookupPath(cue.ParsePath("ref"))
		if !refVal.Exists() {
			return nil, &CompileError{Field: field + ".ref", Message: "REFERENCE requires ref", Pos: v.Pos()}
		}
		ref, err := compileRef(refVal)
		if err != nil {
			return nil, err
		}
		return ir.ReferenceRule{Ref: ref}, nil

	case ir.KindGrowthRate:
		rate, err := requiredNumber(v, field, "value")
		if err != nil {
			return nil, err
		}
		refs, err := compileRefs(v.LookupPath(cue.ParsePath("refs")))
		if err != nil {
			return nil, err
		}
		return ir.GrowthRateRule{Rate: rate, Refs: refs}, nil

	case ir.KindPercentage:
		rate, err := requiredNumber(v, field, "value")
		if err != nil {
			return nil, err
		}
		ref, err := optionalRef(v, "ref")
		if err != nil {
			return nil, err
		}
		return ir.PercentageRule{Rate: rate, Ref: ref}, nil

	case ir.KindProportionate:
		base, err := optionalRef(v, "base")
		if err != nil {
			return nil, err
		}
		r := ir.ProportionateRule{Base: base}
		if coeffVal := v.LookupPath(cue.ParsePath("coeff")); coeffVal.Exists() {
			coeff, err := coeffVal.Float64()
			if err != nil {
				return nil, formatCUEError(err)
			}
			r.Coeff = &coeff
		}
		return r, nil

	case ir.KindChildrenSum:
		return ir.ChildrenSumRule{}, nil

	case ir.KindCalculation:
		refsVal := v.LookupPath(cue.ParsePath("refs"))
		var terms []ir.Term
		if refsVal.Exists() {
			iter, err := refsVal.List()
			if err != nil {
				return nil, formatCUEError(err)
			}
			for iter.Next() {
				ref, err := compileRef(iter.Value())
				if err != nil {
					return nil, err
				}
				term := ir.Term{Ref: ref}
				if signVal := iter.Value().LookupPath(cue.ParsePath("sign")); signVal.Exists() {
					sign, err := signVal.String()
					if err != nil {
						return nil, formatCUEError(err)
					}
					term.Sign = ir.Sign(sign)
				}
				terms = append(terms, term)
			}
		}
		return ir.CalculationRule{Terms: terms}, nil

	default:
		return nil, &CompileError{
			Field:   field + ".kind",
			Message: fmt.Sprintf("unknown rule kind %q", kind),
			Pos:     kindVal.Pos(),
		}
	}
}

func requiredNumber(v cue.Value, field, name string) (float64, error) {
	n := v.LookupPath(cue.ParsePath(name))
	if !n.Exists() {
		return 0, &CompileError{Field: field + "." + name, Message: name + " is required", Pos: v.Pos()}
	}
	f, err := n.Float64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	return f, nil
}

func optionalRef(v cue.Value, name string) (*ir.Ref, error) {
	refVal := v.LookupPath(cue.ParsePath(name))
	if !refVal.Exists() {
		return nil, nil
	}
	ref, err := compileRef(refVal)
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func compileRefs(v cue.Value) ([]ir.Ref, error) {
	if !v.Exists() {
		return nil, nil
	}
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var refs []ir.Ref
	for iter.Next() {
		ref, err := compileRef(iter.Value())
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// compileRef reads {account, period}. A missing period means SAME.
func compileRef(v cue.Value) (ir.Ref, error) {
	accountVal := v.LookupPath(cue.ParsePath("account"))
	if !accountVal.Exists() {
		return ir.Ref{}, &CompileError{Field: "ref.account", Message: "reference account is required", Pos: v.Pos()}
	}
	account, err := accountVal.String()
	if err != nil {
		return ir.Ref{}, formatCUEError(err)
	}

	ref := ir.Ref{Account: account, Period: ir.PeriodSame}
	if periodVal := v.LookupPath(cue.ParsePath("period")); periodVal.Exists() {
		period, err := periodVal.String()
		if err != nil {
			return ir.Ref{}, formatCUEError(err)
		}
		ref.Period = ir.PeriodRef(period)
	}
	return ref, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	// Return first error with position info
	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
