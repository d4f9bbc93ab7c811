package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/fsproj/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// EnvFile is the .env file read for FSPROJ_* defaults.
	EnvFile string

	// Config holds the environment defaults resolved before each command.
	Config config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the fsproj CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "fsproj",
		Short: "fsproj - financial statement projections",
		Long: `Project income statement, balance sheet and cash-flow statement
forward from historical actuals using declarative forecast rules and
Balance & Change instructions authored in CUE.

Flag defaults may come from FSPROJ_DB, FSPROJ_YEARS and FSPROJ_FORMAT,
read from the environment or a .env file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.EnvFile)
			if err != nil {
				return WrapExitError(ExitCommandError, "invalid configuration", err)
			}
			opts.Config = cfg
			if !cmd.Flags().Changed("format") {
				opts.Format = cfg.Format
			}

			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", config.DefaultFormat, "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "file with FSPROJ_* defaults")

	// Add subcommands
	cmd.AddCommand(NewComputeCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
