package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Domain prefixes for derived identifiers. The version suffix allows the
// algorithm to change without old ids colliding with new ones.
const (
	DomainNode  = "fsproj/node/v1"
	DomainCell  = "fsproj/cell/v1"
	DomainModel = "fsproj/model/v1"
)

// StableIDLength is the number of hex characters kept by StableID.
const StableIDLength = 16

// partSeparator joins key parts so ("a", "bc") and ("ab", "c") differ.
const partSeparator = 0x1f

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StableID hashes human-readable key parts into a short ASCII identifier.
// Parts are NFC normalized, so visually identical ids map to the same key.
func StableID(domain string, parts ...string) string {
	var b strings.Builder
	for i, p := range parts {
		if i > 0 {
			b.WriteByte(partSeparator)
		}
		b.WriteString(norm.NFC.String(p))
	}
	return hashWithDomain(domain, []byte(b.String()))[:StableIDLength]
}

// CellID is the table key of one (section, year, account) cell.
func CellID(section Section, year int, accountID string) string {
	return StableID(DomainCell, string(section), strconv.Itoa(year), accountID)
}

// ModelHash fingerprints a model: the same accounts, actuals, rules, balance
// changes and options always hash to the same 64-character hex string.
func ModelHash(m *Model) (string, error) {
	obj, err := canonicalModel(m)
	if err != nil {
		return "", err
	}
	data, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("ModelHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainModel, data), nil
}

// formatNumber renders a float losslessly for canonical JSON.
func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func canonicalModel(m *Model) (map[string]any, error) {
	accounts := make([]any, len(m.Accounts))
	for i, a := range m.Accounts {
		acc := map[string]any{
			"id":       a.ID,
			"name":     a.Name,
			"section":  string(a.Section),
			"category": a.Category,
			"parent":   a.ParentID,
			"primary":  a.Primary,
		}
		if a.IsCredit != nil {
			acc["is_credit"] = *a.IsCredit
		}
		accounts[i] = acc
	}

	actuals := make([]any, len(m.Actuals))
	for i, snap := range m.Actuals {
		obj := make(map[string]any, len(snap))
		for id, v := range snap {
			obj[id] = formatNumber(v)
		}
		actuals[i] = obj
	}

	years := make([]any, len(m.Import.ActualYears))
	for i, y := range m.Import.ActualYears {
		years[i] = y
	}

	ids := make([]string, 0, len(m.Rules))
	for id := range m.Rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	rules := make(map[string]any, len(ids))
	for _, id := range ids {
		rule := Value(m.Rules[id])
		if rule == nil {
			return nil, fmt.Errorf("rule %q is nil", id)
		}
		enc := &ruleEncoder{}
		if err := rule.Accept(enc); err != nil {
			return nil, fmt.Errorf("rule %q: %w", id, err)
		}
		rules[id] = enc.out
	}

	changes := make([]any, len(m.BalanceChanges))
	for i, bc := range m.BalanceChanges {
		obj := map[string]any{
			"target":      bc.Target,
			"counter":     bc.Counter,
			"sign":        string(bc.Sign),
			"driver":      bc.Driver,
			"cf_category": string(bc.CFCategory),
		}
		if bc.Value != nil {
			obj["value"] = formatNumber(*bc.Value)
		}
		if bc.IsCredit != nil {
			obj["is_credit"] = *bc.IsCredit
		}
		changes[i] = obj
	}

	return map[string]any{
		"version":         ModelVersion,
		"accounts":        accounts,
		"actuals":         actuals,
		"actual_years":    years,
		"start_year":      m.Import.StartYear,
		"strict":          m.Import.Strict,
		"rules":           rules,
		"balance_changes": changes,
		"compute": map[string]any{
			"years":       m.Compute.Years,
			"base_profit": m.Compute.BaseProfitAccount,
			"cash":        m.Compute.CashAccount,
		},
	}, nil
}

// ruleEncoder renders a rule as a canonical JSON object.
type ruleEncoder struct {
	out map[string]any
}

func refValue(r Ref) map[string]any {
	return map[string]any{"account": r.Account, "period": string(r.Period)}
}

func refList(refs []Ref) []any {
	out := make([]any, len(refs))
	for i, r := range refs {
		out[i] = refValue(r)
	}
	return out
}

func (e *ruleEncoder) VisitInput(r InputRule) error {
	e.out = map[string]any{"type": string(KindInput), "value": formatNumber(r.Value)}
	return nil
}

func (e *ruleEncoder) VisitFixedValue(r FixedValueRule) error {
	e.out = map[string]any{"type": string(KindFixedValue), "value": formatNumber(r.Value)}
	return nil
}

func (e *ruleEncoder) VisitReference(r ReferenceRule) error {
	e.out = map[string]any{"type": string(KindReference), "ref": refValue(r.Ref)}
	return nil
}

func (e *ruleEncoder) VisitGrowthRate(r GrowthRateRule) error {
	e.out = map[string]any{
		"type":  string(KindGrowthRate),
		"value": formatNumber(r.Rate),
		"refs":  refList(r.Refs),
	}
	return nil
}

func (e *ruleEncoder) VisitPercentage(r PercentageRule) error {
	e.out = map[string]any{"type": string(KindPercentage), "value": formatNumber(r.Rate)}
	if r.Ref != nil {
		e.out["ref"] = refValue(*r.Ref)
	}
	return nil
}

func (e *ruleEncoder) VisitProportionate(r ProportionateRule) error {
	e.out = map[string]any{"type": string(KindProportionate)}
	if r.Base != nil {
		e.out["base"] = refValue(*r.Base)
	}
	if r.Coeff != nil {
		e.out["coeff"] = formatNumber(*r.Coeff)
	}
	return nil
}

func (e *ruleEncoder) VisitChildrenSum(ChildrenSumRule) error {
	e.out = map[string]any{"type": string(KindChildrenSum)}
	return nil
}

func (e *ruleEncoder) VisitCalculation(r CalculationRule) error {
	terms := make([]any, len(r.Terms))
	for i, t := range r.Terms {
		term := refValue(t.Ref)
		term["sign"] = string(t.Sign)
		terms[i] = term
	}
	e.out = map[string]any{"type": string(KindCalculation), "refs": terms}
	return nil
}
