package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fsproj/internal/ir"
	"github.com/roach88/fsproj/internal/store"
)

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	*RootOptions
	Database string
	RunID    string // empty means the latest run
	Account  string // print one account's history instead of the summary
	Section  string // print the run's cells of one statement
	Year     int    // print the run's cells of one year
	List     bool
}

// RunSummary is the JSON payload of a shown run: the header plus its
// cash-flow summaries, without cells.
type RunSummary struct {
	ID            string              `json:"id"`
	ModelHash     string              `json:"model_hash"`
	BaseProfit    string              `json:"base_profit,omitempty"`
	CashAccount   string              `json:"cash,omitempty"`
	Years         []ir.FiscalYear     `json:"years"`
	EngineVersion string              `json:"engine_version"`
	CreatedAt     int64               `json:"created_at"`
	CellCount     int                 `json:"cell_count"`
	CashFlows     []ir.CashFlowRecord `json:"cash_flows,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show saved projection runs",
		Long: `Read projection runs saved by "fsproj compute --save".

Without flags the latest run is summarized. --list prints every run
header, oldest first. --account, --section and --year print the stored
cells of the run matching every filter given.

Example:
  fsproj show --db ./runs.db
  fsproj show --db ./runs.db --list
  fsproj show --db ./runs.db --run 0190c2e4-... --account cash
  fsproj show --db ./runs.db --section BS --year 2026`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the saved-run SQLite database (default: FSPROJ_DB)")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id (default: latest)")
	cmd.Flags().StringVar(&opts.Account, "account", "", "print the history of one account")
	cmd.Flags().StringVar(&opts.Section, "section", "", "print the cells of one statement (PL, BS or CF)")
	cmd.Flags().IntVar(&opts.Year, "year", 0, "print the cells of one year")
	cmd.Flags().BoolVar(&opts.List, "list", false, "list all saved runs")

	return cmd
}

func runShow(opts *ShowOptions, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	path := opts.Database
	if path == "" {
		path = opts.Config.DB
	}
	if path == "" {
		_ = formatter.Error(ErrCodeNotFound, "no database given: use --db or FSPROJ_DB", nil)
		return NewExitError(ExitCommandError, "no database given")
	}
	// store.Open creates missing files; show only reads existing ones.
	if _, err := os.Stat(path); os.IsNotExist(err) {
		_ = formatter.Error(ErrCodeNotFound, fmt.Sprintf("database not found: %s", path), nil)
		return NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}

	st, err := store.Open(path)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.List {
		return showList(ctx, st, formatter)
	}

	var run ir.RunRecord
	if opts.RunID != "" {
		run, err = st.ReadRun(ctx, opts.RunID)
	} else {
		run, err = st.LatestRun(ctx)
	}
	if errors.Is(err, store.ErrRunNotFound) {
		_ = formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitFailure, "run not found", err)
	}
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	if opts.Account != "" || opts.Section != "" || opts.Year != 0 {
		q := store.CellQuery{
			RunID:     run.ID,
			Section:   ir.Section(strings.ToUpper(opts.Section)),
			Year:      opts.Year,
			AccountID: opts.Account,
		}
		return showCells(ctx, st, formatter, q)
	}
	return showRun(formatter, run)
}

func summarize(run ir.RunRecord) RunSummary {
	return RunSummary{
		ID:            run.ID,
		ModelHash:     run.ModelHash,
		BaseProfit:    run.BaseProfit,
		CashAccount:   run.CashAccount,
		Years:         run.Years,
		EngineVersion: run.EngineVersion,
		CreatedAt:     run.CreatedAt,
		CellCount:     len(run.Cells),
		CashFlows:     run.CashFlows,
	}
}

func yearLabels(years []ir.FiscalYear) string {
	labels := make([]string, len(years))
	for i, fy := range years {
		labels[i] = fy.Label()
	}
	return strings.Join(labels, " ")
}

func showRun(formatter *OutputFormatter, run ir.RunRecord) error {
	summary := summarize(run)
	if formatter.Format == "json" {
		return formatter.Success(summary)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s\n", run.ID)
	fmt.Fprintf(w, "  model    %s\n", run.ModelHash)
	fmt.Fprintf(w, "  engine   %s\n", run.EngineVersion)
	fmt.Fprintf(w, "  created  %d\n", run.CreatedAt)
	fmt.Fprintf(w, "  years    %s\n", yearLabels(run.Years))
	fmt.Fprintf(w, "  cells    %d\n", len(run.Cells))
	if len(run.CashFlows) > 0 {
		fmt.Fprintln(w)
		writeCashFlows(w, run.CashFlows)
	}
	return nil
}

func showList(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	summaries := make([]RunSummary, len(runs))
	for i, run := range runs {
		summaries[i] = summarize(run)
	}
	if formatter.Format == "json" {
		return formatter.Success(summaries)
	}

	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No saved runs.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(formatter.Writer, "%s  %d  %s\n", s.ID, s.CreatedAt, yearLabels(s.Years))
	}
	return nil
}

func showCells(ctx context.Context, st *store.Store, formatter *OutputFormatter, q store.CellQuery) error {
	if q.Section != "" && !q.Section.Valid() {
		msg := fmt.Sprintf("invalid section %q: must be PL, BS or CF", q.Section)
		_ = formatter.Error(ErrCodeGeneric, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	cells, err := st.QueryCells(ctx, q)
	if err != nil {
		_ = formatter.Error(ErrCodeStore, err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to read cells", err)
	}
	if len(cells) == 0 {
		msg := fmt.Sprintf("no saved cells in run %s match the filters", q.RunID)
		if q.AccountID != "" {
			msg = fmt.Sprintf("account %q has no saved cells in run %s", q.AccountID, q.RunID)
		}
		_ = formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitFailure, msg)
	}

	if formatter.Format == "json" {
		return formatter.Success(cells)
	}

	w := formatter.Writer
	if q.AccountID != "" {
		fmt.Fprintf(w, "%s (%s)\n", q.AccountID, cells[0].Section)
		for _, c := range cells {
			fmt.Fprintf(w, "  %d  %s\n", c.Year, formatMoney(c.Value))
		}
		return nil
	}
	for _, c := range cells {
		fmt.Fprintf(w, "  %d  %s  %s  %s\n", c.Year, c.Section, c.AccountID, formatMoney(c.Value))
	}
	return nil
}
