package testutil

import "github.com/roach88/fsproj/internal/ir"

// Account ids used by the fixtures.
const (
	PPE              = "ppe"
	RetainedEarnings = "retained_earnings"
	Cash             = "cash"
	Depreciation     = "depreciation"
	NetIncome        = "net_income"
	GainOnSale       = "gain_on_sale"
)

// BalanceSheetAccounts is a minimal master: PPE (asset), retained earnings
// (equity), cash, depreciation, net income and gain on sale.
func BalanceSheetAccounts() []ir.Account {
	return []ir.Account{
		{ID: PPE, Name: "Property, plant and equipment", Section: ir.SectionBS, IsCredit: ir.Bool(false)},
		{ID: RetainedEarnings, Name: "Retained earnings", Section: ir.SectionBS, Category: ir.CategoryRetainedEarnings, IsCredit: ir.Bool(true)},
		{ID: Cash, Name: "Cash and equivalents", Section: ir.SectionBS, Category: ir.CategoryCash, IsCredit: ir.Bool(false)},
		{ID: Depreciation, Name: "Depreciation", Section: ir.SectionPL, Category: ir.CategoryDepreciation},
		{ID: NetIncome, Name: "Net income", Section: ir.SectionPL},
		{ID: GainOnSale, Name: "Gain on sale of non-current assets", Section: ir.SectionPL, Category: ir.CategoryGainOnSale},
	}
}

// BalanceSheetActuals is two identical actual years: PPE 1000, retained
// earnings 500, cash 100.
func BalanceSheetActuals() []ir.Snapshot {
	snap := func() ir.Snapshot {
		return ir.Snapshot{PPE: 1000, RetainedEarnings: 500, Cash: 100}
	}
	return []ir.Snapshot{snap(), snap()}
}

// BalanceSheetModel bundles the accounts and actuals with actual years
// 2023 and 2024 and a one-year horizon.
func BalanceSheetModel() *ir.Model {
	return &ir.Model{
		Accounts: BalanceSheetAccounts(),
		Actuals:  BalanceSheetActuals(),
		Import:   ir.ImportOptions{ActualYears: []int{2023, 2024}},
		Rules:    map[string]ir.Rule{},
		Compute: ir.ComputeOptions{
			Years:             1,
			BaseProfitAccount: NetIncome,
			CashAccount:       ir.CategoryCash,
		},
	}
}

// SelfPrev is a reference to the account's own previous-year cell.
func SelfPrev(id string) ir.Ref {
	return ir.Ref{Account: id, Period: ir.PeriodPrev}
}
