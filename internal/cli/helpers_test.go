package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const growthModel = `package model

accounts: [
	{id: "sales", name: "Net sales", section: "PL"},
	{id: "cogs", name: "Cost of sales", section: "PL"},
	{id: "gross", name: "Gross profit", section: "PL"},
]

actuals: [{sales: 1000000, cogs: 600000, gross: 400000}]

rules: {
	sales: {kind: "GROWTH_RATE", value: 0.1, refs: [{account: "sales", period: "PREV"}]}
	cogs: {kind: "PERCENTAGE", value: 0.6, ref: {account: "sales"}}
	gross: {
		kind: "CALCULATION"
		refs: [
			{account: "sales", sign: "PLUS"},
			{account: "cogs", sign: "MINUS"},
		]
	}
}

compute: years: 2
`

const cycleModel = `package model

accounts: [
	{id: "a", name: "A", section: "PL"},
	{id: "b", name: "B", section: "PL"},
]

actuals: [{a: 1, b: 2}]

rules: {
	a: {kind: "REFERENCE", ref: {account: "b"}}
	b: {kind: "REFERENCE", ref: {account: "a"}}
}

compute: years: 1
`

const ghostRefModel = `package model

accounts: [
	{id: "sales", name: "Net sales", section: "PL"},
]

actuals: [{sales: 100}]

rules: {
	sales: {kind: "REFERENCE", ref: {account: "nowhere"}}
}
`

const fixedModel = `package model

accounts: [{id: "rent", name: "Rent", section: "PL"}]
actuals: [{rent: 12}]
rules: rent: {kind: "FIXED_VALUE", value: 12}
`

// writeModel writes src as model.cue in a fresh directory.
func writeModel(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "model.cue"), []byte(src), 0644))
	return dir
}

// execute runs cmd with args and returns stdout and stderr.
func execute(cmd *cobra.Command, args ...string) (string, string, error) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}
