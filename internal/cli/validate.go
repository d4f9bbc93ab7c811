package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/fsproj/internal/compiler"
	"github.com/roach88/fsproj/internal/engine"
	"github.com/roach88/fsproj/internal/ir"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid          bool                       `json:"valid"`
	Accounts       int                        `json:"accounts"`
	Rules          int                        `json:"rules"`
	BalanceChanges int                        `json:"balance_changes"`
	Errors         []compiler.ValidationError `json:"errors,omitempty"`
	Warnings       []compiler.CycleWarning    `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <model>...",
		Short: "Validate a model without computing it",
		Long: `Validate a CUE projection model without computing any year.

Compiles the model, imports its actuals and checks every rule and
Balance & Change instruction against the account master. Same-year
reference cycles are reported as warnings; compute rejects them.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, paths []string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
	}

	loaded, err := LoadModel(paths)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Found %d CUE file(s) in %s", loaded.FileCount, strings.Join(paths, ", "))

	m := loaded.Model
	result, err := ValidateModel(m)
	if err != nil {
		return outputProjectionError(formatter, err)
	}
	for _, w := range result.Warnings {
		formatter.VerboseLog("cycle: %s", strings.Join(w.Path, " -> "))
	}

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// ValidateModel checks a compiled model without computing it. The returned
// error reports an account master or actuals that cannot be imported.
func ValidateModel(m *ir.Model) (ValidationResult, error) {
	p := engine.New()
	if err := p.ImportActuals(m.Actuals, m.Accounts, m.Import); err != nil {
		return ValidationResult{}, err
	}
	if err := p.SetRules(m.Rules); err != nil {
		return ValidationResult{}, err
	}
	if err := p.SetBalanceChanges(m.BalanceChanges); err != nil {
		return ValidationResult{}, err
	}

	children := make(map[string][]string)
	for _, a := range m.Accounts {
		if a.ParentID != "" {
			children[a.ParentID] = append(children[a.ParentID], a.ID)
		}
	}

	errs := p.Validate()
	return ValidationResult{
		Valid:          len(errs) == 0,
		Accounts:       len(m.Accounts),
		Rules:          len(m.Rules),
		BalanceChanges: len(m.BalanceChanges),
		Errors:         errs,
		Warnings:       compiler.AnalyzeCycles(m.Rules, children),
	}, nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	fmt.Fprintf(formatter.Writer, "✓ Model valid (%d accounts, %d rules, %d balance changes)\n",
		result.Accounts, result.Rules, result.BalanceChanges)
	writeWarnings(formatter, result.Warnings)
	return nil
}

func writeWarnings(formatter *OutputFormatter, warnings []compiler.CycleWarning) {
	for _, w := range warnings {
		fmt.Fprintf(formatter.Writer, "⚠ %s\n", w.Message)
	}
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.Format == "json" {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.Respond(response); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	// Text format
	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n", err.Code, err.Field, err.Message)
	}
	writeWarnings(formatter, result.Warnings)

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
