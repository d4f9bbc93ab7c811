package ir

// RuleKind is the tag of a forecasting rule.
type RuleKind string

const (
	KindInput         RuleKind = "INPUT"
	KindFixedValue    RuleKind = "FIXED_VALUE"
	KindReference     RuleKind = "REFERENCE"
	KindGrowthRate    RuleKind = "GROWTH_RATE"
	KindPercentage    RuleKind = "PERCENTAGE"
	KindProportionate RuleKind = "PROPORTIONATE"
	KindChildrenSum   RuleKind = "CHILDREN_SUM"
	KindCalculation   RuleKind = "CALCULATION"
)

// Sign is the direction of a calculation term or balance change.
type Sign string

const (
	SignPlus  Sign = "PLUS"
	SignMinus Sign = "MINUS"
)

// Multiplier returns -1 for MINUS and +1 otherwise (an empty sign is PLUS).
func (s Sign) Multiplier() float64 {
	if s == SignMinus {
		return -1
	}
	return 1
}

// Ref points at another account's cell, in the same or the previous year.
type Ref struct {
	Account string    `json:"account"`
	Period  PeriodRef `json:"period"`
}

// Term is one signed operand of a CALCULATION rule.
type Term struct {
	Ref
	Sign Sign `json:"sign"`
}

// Rule is a sealed sum type: only the variants in this file implement it.
//
// Callers dispatch with Accept. Adding a variant means adding a method to
// RuleVisitor, which breaks every visitor until it handles the new kind.
type Rule interface {
	Kind() RuleKind
	Accept(v RuleVisitor) error
	rule()
}

// RuleVisitor has one method per rule variant.
type RuleVisitor interface {
	VisitInput(r InputRule) error
	VisitFixedValue(r FixedValueRule) error
	VisitReference(r ReferenceRule) error
	VisitGrowthRate(r GrowthRateRule) error
	VisitPercentage(r PercentageRule) error
	VisitProportionate(r ProportionateRule) error
	VisitChildrenSum(r ChildrenSumRule) error
	VisitCalculation(r CalculationRule) error
}

// InputRule is a user-entered constant.
type InputRule struct {
	Value float64 `json:"value"`
}

// FixedValueRule is a constant set by the model.
type FixedValueRule struct {
	Value float64 `json:"value"`
}

// ReferenceRule copies another cell.
type ReferenceRule struct {
	Ref Ref `json:"ref"`
}

// GrowthRateRule computes Refs[0] × (1 + Rate). Refs[0] is usually the
// account itself, previous period.
type GrowthRateRule struct {
	Rate float64 `json:"value"`
	Refs []Ref   `json:"refs"`
}

// PercentageRule computes Ref × Rate.
type PercentageRule struct {
	Rate float64 `json:"value"`
	Ref  *Ref    `json:"ref,omitempty"`
}

// ProportionateRule computes Base × ratio [× Coeff].
//
// An absent Base means the account itself, previous period. The ratio factor
// is the literal 1 until product defines it; only Coeff scales the result.
type ProportionateRule struct {
	Base  *Ref     `json:"base,omitempty"`
	Coeff *float64 `json:"coeff,omitempty"`
}

// ChildrenSumRule sums every account whose ParentID is this account, same year.
type ChildrenSumRule struct{}

// CalculationRule is a signed sum of references.
type CalculationRule struct {
	Terms []Term `json:"refs"`
}

func (InputRule) Kind() RuleKind         { return KindInput }
func (FixedValueRule) Kind() RuleKind    { return KindFixedValue }
func (ReferenceRule) Kind() RuleKind     { return KindReference }
func (GrowthRateRule) Kind() RuleKind    { return KindGrowthRate }
func (PercentageRule) Kind() RuleKind    { return KindPercentage }
func (ProportionateRule) Kind() RuleKind { return KindProportionate }
func (ChildrenSumRule) Kind() RuleKind   { return KindChildrenSum }
func (CalculationRule) Kind() RuleKind   { return KindCalculation }

func (r InputRule) Accept(v RuleVisitor) error         { return v.VisitInput(r) }
func (r FixedValueRule) Accept(v RuleVisitor) error    { return v.VisitFixedValue(r) }
func (r ReferenceRule) Accept(v RuleVisitor) error     { return v.VisitReference(r) }
func (r GrowthRateRule) Accept(v RuleVisitor) error    { return v.VisitGrowthRate(r) }
func (r PercentageRule) Accept(v RuleVisitor) error    { return v.VisitPercentage(r) }
func (r ProportionateRule) Accept(v RuleVisitor) error { return v.VisitProportionate(r) }
func (r ChildrenSumRule) Accept(v RuleVisitor) error   { return v.VisitChildrenSum(r) }
func (r CalculationRule) Accept(v RuleVisitor) error   { return v.VisitCalculation(r) }

func (InputRule) rule()         {}
func (FixedValueRule) rule()    {}
func (ReferenceRule) rule()     {}
func (GrowthRateRule) rule()    {}
func (PercentageRule) rule()    {}
func (ProportionateRule) rule() {}
func (ChildrenSumRule) rule()   {}
func (CalculationRule) rule()   {}

// BaseRef returns the effective base reference for the account self.
func (r ProportionateRule) BaseRef(self string) Ref {
	if r.Base != nil {
		return *r.Base
	}
	return Ref{Account: self, Period: PeriodPrev}
}

// Value returns the value form of a rule held by pointer. A nil pointer
// yields nil.
func Value(r Rule) Rule {
	switch rule := r.(type) {
	case *InputRule:
		if rule != nil {
			return *rule
		}
	case *FixedValueRule:
		if rule != nil {
			return *rule
		}
	case *ReferenceRule:
		if rule != nil {
			return *rule
		}
	case *GrowthRateRule:
		if rule != nil {
			return *rule
		}
	case *PercentageRule:
		if rule != nil {
			return *rule
		}
	case *ProportionateRule:
		if rule != nil {
			return *rule
		}
	case *ChildrenSumRule:
		if rule != nil {
			return *rule
		}
	case *CalculationRule:
		if rule != nil {
			return *rule
		}
	default:
		return r
	}
	return nil
}

// References lists every explicit or implicit reference of a rule owned by
// account self. CHILDREN_SUM dependencies come from the account master and
// are not included.
func References(self string, r Rule) []Ref {
	switch rule := Value(r).(type) {
	case ReferenceRule:
		return []Ref{rule.Ref}
	case GrowthRateRule:
		return rule.Refs
	case PercentageRule:
		if rule.Ref == nil {
			return nil
		}
		return []Ref{*rule.Ref}
	case ProportionateRule:
		return []Ref{rule.BaseRef(self)}
	case CalculationRule:
		refs := make([]Ref, len(rule.Terms))
		for i, t := range rule.Terms {
			refs[i] = t.Ref
		}
		return refs
	}
	return nil
}
