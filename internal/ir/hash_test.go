package ir

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexID = regexp.MustCompile(`^[0-9a-f]+$`)

func TestStableIDDeterminism(t *testing.T) {
	id1 := StableID(DomainNode, "GROWTH_RATE", "sales", "2025")
	id2 := StableID(DomainNode, "GROWTH_RATE", "sales", "2025")

	assert.Equal(t, id1, id2)
	assert.Len(t, id1, StableIDLength)
	assert.Regexp(t, hexID, id1)
}

func TestStableIDPartBoundaries(t *testing.T) {
	assert.NotEqual(t, StableID(DomainCell, "a", "bc"), StableID(DomainCell, "ab", "c"))
}

func TestStableIDDomainSeparation(t *testing.T) {
	assert.NotEqual(t, StableID(DomainNode, "x"), StableID(DomainCell, "x"))
}

func TestStableIDNormalizesUnicode(t *testing.T) {
	assert.Equal(t, StableID(DomainCell, "Caf\u00e9"), StableID(DomainCell, "Cafe\u0301"))
}

func TestCellIDDistinguishesAccounts(t *testing.T) {
	a := CellID(SectionPL, 2024, "sales_domestic")
	b := CellID(SectionPL, 2024, "sales_export")
	c := CellID(SectionPL, 2025, "sales_domestic")

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
}

func testModel() *Model {
	return &Model{
		Accounts: []Account{
			{ID: "sales", Name: "Net Sales", Section: SectionPL},
			{ID: "cash", Name: "Cash", Section: SectionBS, Category: CategoryCash},
		},
		Actuals: []Snapshot{{"sales": 100, "cash": 10}},
		Rules: map[string]Rule{
			"sales": GrowthRateRule{Rate: 0.1, Refs: []Ref{{Account: "sales", Period: PeriodPrev}}},
		},
		BalanceChanges: []BalanceChange{
			{Target: "cash", Sign: SignPlus, Value: Float(5)},
		},
		Compute: ComputeOptions{Years: 3, CashAccount: CategoryCash},
	}
}

func TestModelHashDeterminism(t *testing.T) {
	h1, err := ModelHash(testModel())
	require.NoError(t, err)
	h2, err := ModelHash(testModel())
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
}

func TestModelHashChangesWithRules(t *testing.T) {
	base, err := ModelHash(testModel())
	require.NoError(t, err)

	m := testModel()
	m.Rules["sales"] = GrowthRateRule{Rate: 0.2, Refs: []Ref{{Account: "sales", Period: PeriodPrev}}}
	changed, err := ModelHash(m)
	require.NoError(t, err)

	assert.NotEqual(t, base, changed)
}

func TestModelHashCoversEveryRuleKind(t *testing.T) {
	m := testModel()
	self := Ref{Account: "sales", Period: PeriodPrev}
	m.Rules = map[string]Rule{
		"a": InputRule{Value: 1},
		"b": FixedValueRule{Value: 2},
		"c": ReferenceRule{Ref: self},
		"d": PercentageRule{Rate: 0.5, Ref: &self},
		"e": ProportionateRule{Coeff: Float(2)},
		"f": ChildrenSumRule{},
		"g": CalculationRule{Terms: []Term{{Ref: self, Sign: SignMinus}}},
	}

	_, err := ModelHash(m)
	require.NoError(t, err)
}
