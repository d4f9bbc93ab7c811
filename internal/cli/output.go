package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Process exit codes. Scripts distinguish a model that computed but failed
// (ExitFailure) from a command that never got that far (ExitCommandError).
const (
	ExitSuccess      = 0
	ExitFailure      = 1 // projection, validation or scenario failure
	ExitCommandError = 2 // bad flags or paths, unreadable model, database errors
)

// ExitError carries the process exit code out of a command's RunE.
// main maps it with GetExitCode after cobra returns.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError returns an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError returns an ExitError whose cause is err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode returns the code of the first ExitError in err's chain, or
// ExitFailure for any other error.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter writes command results either as a JSON envelope or as
// plain text. Diagnostics never go to Writer when ErrWriter is set, so
// --format json output stays parseable with --verbose.
type OutputFormatter struct {
	Format    string // "json" or "text"
	Writer    io.Writer
	ErrWriter io.Writer // nil falls back to Writer
	Verbose   bool
}

// CLIResponse is the JSON envelope every command prints in json format.
type CLIResponse struct {
	Status string    `json:"status"` // "ok" or "error"
	Data   any       `json:"data,omitempty"`
	Error  *CLIError `json:"error,omitempty"`
	RunID  string    `json:"run_id,omitempty"` // set when compute --save wrote a run
}

// CLIError is the error member of a CLIResponse. Code is a validation code
// such as "E202" or an engine code such as "CYCLIC_DEPENDENCY".
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (f *OutputFormatter) isJSON() bool { return f.Format == "json" }

func (f *OutputFormatter) diag() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}

// Success prints data wrapped in an "ok" envelope, or data's default
// formatting in text mode.
func (f *OutputFormatter) Success(data any) error {
	if f.isJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Error prints an "error" envelope. In text mode details are shown only
// with --verbose, one line per entry when details is a []string.
func (f *OutputFormatter) Error(code, message string, details any) error {
	if f.isJSON() {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Details: details},
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", code, message)
	if !f.Verbose || details == nil {
		return nil
	}
	if lines, ok := details.([]string); ok {
		for _, line := range lines {
			fmt.Fprintf(f.Writer, "  %s\n", line)
		}
		return nil
	}
	fmt.Fprintf(f.Writer, "Details: %v\n", details)
	return nil
}

// VerboseLog prints a diagnostic line when --verbose is set.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if f.Verbose {
		fmt.Fprintf(f.diag(), format+"\n", args...)
	}
}

// Respond prints resp as indented JSON. validate and test use it to report
// failures that still carry a data payload.
func (f *OutputFormatter) Respond(resp CLIResponse) error {
	encoder := json.NewEncoder(f.Writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(resp)
}
