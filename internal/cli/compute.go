package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/fsproj/internal/engine"
	"github.com/roach88/fsproj/internal/ir"
	"github.com/roach88/fsproj/internal/store"
)

// ComputeOptions holds flags for the compute command.
type ComputeOptions struct {
	*RootOptions
	Years      int
	BaseProfit string
	Cash       string
	Section    string
	Database   string
	Save       bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	RunIDs engine.RunIDGenerator

	// Now allows overriding the clock (for testing).
	// If nil, defaults to the wall clock in unix seconds.
	Now func() int64
}

// ComputeResult is the JSON payload of a successful compute.
type ComputeResult struct {
	ModelHash string                  `json:"model_hash"`
	Years     []ir.FiscalYear         `json:"years"`
	Tables    map[string]engine.Table `json:"tables"`
	CashFlows []ir.CashFlowRecord     `json:"cash_flows"`
}

// NewComputeCommand creates the compute command.
func NewComputeCommand(rootOpts *RootOptions) *cobra.Command {
	return newComputeCommand(&ComputeOptions{RootOptions: rootOpts})
}

func newComputeCommand(opts *ComputeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute <model>...",
		Short: "Compute a projection and print the statements",
		Long: `Compile a CUE model, forecast it and print the statement tables.

Each argument is a CUE file or a directory holding one CUE package; all of
them are unified into a single model. Flags override the model's compute
options. With --save the run is written to the saved-run database.

Example:
  fsproj compute ./models/acme
  fsproj compute ./models/acme --years 3 --section PL,BS
  fsproj compute ./models/acme overrides.cue --save --db ./runs.db`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompute(opts, args, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Years, "years", 0, "forecast horizon in years (default: model, then FSPROJ_YEARS, then 5)")
	cmd.Flags().StringVar(&opts.BaseProfit, "base-profit", "", "account or category id of the base profit")
	cmd.Flags().StringVar(&opts.Cash, "cash", "", "account or category id of the cash account")
	cmd.Flags().StringVar(&opts.Section, "section", "all", "statements to print (PL, BS, CF, comma separated, or all)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the saved-run SQLite database (default: FSPROJ_DB)")
	cmd.Flags().BoolVar(&opts.Save, "save", false, "save the computed run")

	return cmd
}

// newLogger configures logging based on the verbose flag.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
	}))
}

func runCompute(opts *ComputeOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
	logger := newLogger(cmd.ErrOrStderr(), opts.Verbose)

	sections, err := parseSections(opts.Section)
	if err != nil {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
		return WrapExitError(ExitCommandError, "invalid flags", err)
	}

	loaded, err := LoadModel(paths)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	logger.Info("model loaded", "files", loaded.FileCount, "accounts", len(loaded.Model.Accounts), "rules", len(loaded.Model.Rules))

	m := loaded.Model
	applyComputeFlags(opts, &m.Compute)

	p, err := engine.ProjectModel(m, engine.WithLogger(logger))
	if err != nil {
		return outputProjectionError(formatter, err)
	}

	hash, err := ir.ModelHash(m)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to hash model", err)
	}

	result := ComputeResult{
		ModelHash: hash,
		Years:     p.Years(),
		Tables:    make(map[string]engine.Table, len(sections)),
	}
	for _, section := range sections {
		t, err := p.Table(engine.TableOptions{Section: section})
		if err != nil {
			return WrapExitError(ExitFailure, "failed to build table", err)
		}
		result.Tables[string(section)] = t
	}

	run := engine.NewRunRecord(p, m.Compute, opts.runIDs(), opts.now(), hash)
	result.CashFlows = run.CashFlows

	var savedID string
	if opts.Save {
		if err := saveRun(cmd, opts, run, logger); err != nil {
			_ = formatter.Error(ErrCodeStore, err.Error(), nil)
			return err
		}
		savedID = run.ID
	}

	if opts.Format == "json" {
		return formatter.Respond(CLIResponse{Status: "ok", Data: result, RunID: savedID})
	}

	w := formatter.Writer
	for i, section := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeTable(w, section, result.Tables[string(section)])
	}
	if len(result.CashFlows) > 0 {
		fmt.Fprintln(w)
		writeCashFlows(w, result.CashFlows)
	}
	if savedID != "" {
		fmt.Fprintf(w, "\nSaved run %s\n", savedID)
	}
	return nil
}

// applyComputeFlags layers flags over the model's compute options. The
// horizon falls back to FSPROJ_YEARS only when the model sets none.
func applyComputeFlags(opts *ComputeOptions, c *ir.ComputeOptions) {
	switch {
	case opts.Years > 0:
		c.Years = opts.Years
	case c.Years <= 0 && opts.Config.Years > 0:
		c.Years = opts.Config.Years
	}
	if opts.BaseProfit != "" {
		c.BaseProfitAccount = opts.BaseProfit
	}
	if opts.Cash != "" {
		c.CashAccount = opts.Cash
	}
}

func (o *ComputeOptions) database() string {
	if o.Database != "" {
		return o.Database
	}
	return o.Config.DB
}

func (o *ComputeOptions) runIDs() engine.RunIDGenerator {
	if o.RunIDs != nil {
		return o.RunIDs
	}
	return engine.UUIDv7Generator{}
}

func (o *ComputeOptions) now() int64 {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now().Unix()
}

func saveRun(cmd *cobra.Command, opts *ComputeOptions, run ir.RunRecord, logger *slog.Logger) error {
	path := opts.database()
	if path == "" {
		return NewExitError(ExitCommandError, "--save requires --db or FSPROJ_DB")
	}

	st, err := store.Open(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	inserted, err := st.WriteRun(ctx, run)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to save run", err)
	}
	logger.Info("run saved", "id", run.ID, "db", path, "inserted", inserted, "cells", len(run.Cells))
	return nil
}

// outputLoadError reports a model that could not be loaded (exit code 2).
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to load model", err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "failed to load model", err)
}

// outputProjectionError reports an engine failure (exit code 1).
func outputProjectionError(formatter *OutputFormatter, err error) error {
	var engErr *engine.Error
	if errors.As(err, &engErr) {
		details := map[string]any{}
		if engErr.AccountID != "" {
			details["account_id"] = engErr.AccountID
		}
		if engErr.Year != 0 {
			details["year"] = engErr.Year
		}
		for k, v := range engErr.Details {
			details[k] = v
		}
		_ = formatter.Error(string(engErr.Code), engErr.Error(), details)
	} else {
		_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	}
	return WrapExitError(ExitFailure, "projection failed", err)
}
