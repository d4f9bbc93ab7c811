package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/roach88/fsproj/internal/engine"
	"github.com/roach88/fsproj/internal/ir"
)

var amountPrinter = message.NewPrinter(language.English)

var sectionTitles = map[ir.Section]string{
	ir.SectionPL: "Income statement",
	ir.SectionBS: "Balance sheet",
	ir.SectionCF: "Cash-flow statement",
}

// formatAmount renders a rounded table value with thousands separators.
func formatAmount(v int64) string {
	return amountPrinter.Sprintf("%d", v)
}

// formatMoney renders an unrounded amount with two decimals.
func formatMoney(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// parseSections maps the --section flag onto statement sections.
func parseSections(flag string) ([]ir.Section, error) {
	if flag == "" || strings.EqualFold(flag, "all") {
		return []ir.Section{ir.SectionPL, ir.SectionBS, ir.SectionCF}, nil
	}
	var out []ir.Section
	for _, part := range strings.Split(flag, ",") {
		s := ir.Section(strings.ToUpper(strings.TrimSpace(part)))
		if !s.Valid() {
			return nil, fmt.Errorf("invalid section %q: must be PL, BS, CF or all", part)
		}
		out = append(out, s)
	}
	return out, nil
}

// writeTable prints one statement with the account column left aligned and
// the year columns right aligned.
func writeTable(w io.Writer, section ir.Section, t engine.Table) {
	fmt.Fprintln(w, sectionTitles[section])

	first := len("account")
	for _, row := range t.Rows {
		first = max(first, len(row.ID))
	}
	widths := make([]int, len(t.Columns))
	cells := make([][]string, len(t.Data))
	for j, col := range t.Columns {
		widths[j] = len(col)
	}
	for i, row := range t.Data {
		cells[i] = make([]string, len(row))
		for j, v := range row {
			cells[i][j] = formatAmount(v)
			widths[j] = max(widths[j], len(cells[i][j]))
		}
	}

	fmt.Fprintf(w, "  %-*s", first, "account")
	for j, col := range t.Columns {
		fmt.Fprintf(w, "  %*s", widths[j], col)
	}
	fmt.Fprintln(w)
	for i, row := range t.Rows {
		fmt.Fprintf(w, "  %-*s", first, row.ID)
		for j := range t.Columns {
			fmt.Fprintf(w, "  %*s", widths[j], cells[i][j])
		}
		fmt.Fprintln(w)
	}
}

// writeCashFlows prints the per-year cash-flow summaries.
func writeCashFlows(w io.Writer, flows []ir.CashFlowRecord) {
	if len(flows) == 0 {
		return
	}
	fmt.Fprintln(w, "Cash-flow summary")
	for _, cf := range flows {
		fmt.Fprintf(w, "  %d  CFO %s  CFI %s  CFF %s  total %s\n",
			cf.Year, formatMoney(cf.CFO), formatMoney(cf.CFI), formatMoney(cf.CFF), formatMoney(cf.Total))
	}
}
