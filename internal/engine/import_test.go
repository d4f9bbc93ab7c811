package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsproj/internal/ir"
)

func TestImportSynthesizesUnknownAccounts(t *testing.T) {
	p := New()
	err := p.ImportActuals(
		[]ir.Snapshot{{"sales": 10, "mystery": 5}},
		[]ir.Account{{ID: "sales", Name: "Sales", Section: ir.SectionPL}},
		ir.ImportOptions{},
	)
	require.NoError(t, err)

	a, ok := p.Account("mystery")
	require.True(t, ok)
	assert.Equal(t, ir.SectionPL, a.Section)
	assert.Equal(t, "mystery", a.Name)

	v, ok := p.Value(2000, "mystery")
	assert.True(t, ok)
	assert.Equal(t, 5.0, v)
	assert.Equal(t, StateActualsImported, p.State())
}

func TestImportStrictRejectsUnknownAccounts(t *testing.T) {
	p := New()
	err := p.ImportActuals(
		[]ir.Snapshot{{"sales": 10, "mystery": 5}},
		[]ir.Account{{ID: "sales", Section: ir.SectionPL}},
		ir.ImportOptions{Strict: true},
	)
	require.True(t, IsCode(err, ErrCodeUnresolvedReference), "got %v", err)
	assert.Equal(t, StateUninitialized, p.State())
	assert.Empty(t, p.Accounts(), "failed import leaves no state")
}

func TestImportYearMapping(t *testing.T) {
	snaps := []ir.Snapshot{{"x": 1}, {"x": 2}}

	tests := []struct {
		name string
		opts ir.ImportOptions
		want []ir.FiscalYear
	}{
		{"default start", ir.ImportOptions{}, []ir.FiscalYear{{Year: 2000, Actual: true}, {Year: 2001, Actual: true}}},
		{"start year", ir.ImportOptions{StartYear: 2019}, []ir.FiscalYear{{Year: 2019, Actual: true}, {Year: 2020, Actual: true}}},
		{"explicit years", ir.ImportOptions{ActualYears: []int{2023, 2024}, StartYear: 1990}, []ir.FiscalYear{{Year: 2023, Actual: true}, {Year: 2024, Actual: true}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			require.NoError(t, p.ImportActuals(snaps, nil, tt.opts))
			assert.Equal(t, tt.want, p.Years())
		})
	}
}

func TestImportRejectsBadOptions(t *testing.T) {
	tests := []struct {
		name     string
		snaps    []ir.Snapshot
		accounts []ir.Account
		opts     ir.ImportOptions
		code     ErrorCode
	}{
		{"year count mismatch", []ir.Snapshot{{}, {}}, nil, ir.ImportOptions{ActualYears: []int{2020}}, ErrCodeInvalidOptions},
		{"non-contiguous years", []ir.Snapshot{{}, {}}, nil, ir.ImportOptions{ActualYears: []int{2020, 2022}}, ErrCodeInvalidOptions},
		{"duplicate account", nil, []ir.Account{{ID: "a"}, {ID: "a"}}, ir.ImportOptions{}, ErrCodeInvalidOptions},
		{"bad section", nil, []ir.Account{{ID: "a", Section: "XX"}}, ir.ImportOptions{}, ErrCodeInvalidOptions},
		{"NaN actual", []ir.Snapshot{{"a": math.NaN()}}, nil, ir.ImportOptions{}, ErrCodeInvalidNumericValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New().ImportActuals(tt.snaps, tt.accounts, tt.opts)
			assert.True(t, IsCode(err, tt.code), "got %v", err)
		})
	}
}

func TestImportOnlyOnce(t *testing.T) {
	p := New()
	require.NoError(t, p.ImportActuals(nil, nil, ir.ImportOptions{}))

	err := p.ImportActuals(nil, nil, ir.ImportOptions{})
	assert.True(t, IsCode(err, ErrCodeInvalidState))
}

func TestPrimaryAccountSelection(t *testing.T) {
	accounts := []ir.Account{
		{ID: "cash_bs", Section: ir.SectionBS, Category: ir.CategoryCash},
		{ID: "cash_main", Section: ir.SectionBS, Category: ir.CategoryCash, Primary: true},
		{ID: "dep_bs", Section: ir.SectionBS, Category: ir.CategoryDepreciation},
		{ID: "dep_pl", Section: ir.SectionPL, Category: ir.CategoryDepreciation},
		{ID: "re_a", Section: ir.SectionBS, Category: ir.CategoryRetainedEarnings},
		{ID: "re_b", Section: ir.SectionBS, Category: ir.CategoryRetainedEarnings},
	}
	p := New()
	require.NoError(t, p.ImportActuals(nil, accounts, ir.ImportOptions{}))

	tests := map[string]string{
		ir.CategoryCash:             "cash_main", // explicit flag
		ir.CategoryDepreciation:     "dep_pl",    // first PL account
		ir.CategoryRetainedEarnings: "re_a",      // first seen
	}
	for category, want := range tests {
		got, ok := p.resolve(category)
		require.True(t, ok, category)
		assert.Equal(t, want, got, category)
	}

	got, ok := p.resolve("re_b")
	assert.True(t, ok)
	assert.Equal(t, "re_b", got, "account ids resolve to themselves")
}

func TestConfigureBeforeImport(t *testing.T) {
	p := New()
	assert.True(t, IsCode(p.SetRules(nil), ErrCodeInvalidState))
	assert.True(t, IsCode(p.SetBalanceChanges(nil), ErrCodeInvalidState))
	assert.True(t, IsCode(p.Compute(ir.ComputeOptions{}), ErrCodeInvalidState))

	_, err := p.Table(TableOptions{Section: ir.SectionPL})
	assert.True(t, IsCode(err, ErrCodeInvalidState))
}

func TestSetRulesCopiesInput(t *testing.T) {
	p := New()
	require.NoError(t, p.ImportActuals(nil, nil, ir.ImportOptions{}))

	rules := map[string]ir.Rule{"a": ir.FixedValueRule{Value: 1}}
	require.NoError(t, p.SetRules(rules))
	rules["b"] = ir.FixedValueRule{Value: 2}

	assert.Len(t, p.rules, 1)
	assert.Equal(t, StateConfigured, p.State())
}
