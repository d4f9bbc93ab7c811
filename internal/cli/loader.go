package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue/token"

	"github.com/roach88/fsproj/internal/compiler"
	"github.com/roach88/fsproj/internal/ir"
)

// LoadResult contains a compiled model and what it was loaded from.
type LoadResult struct {
	Model     *ir.Model
	FileCount int // Number of CUE files found
}

// LoadError represents an error that occurred during model loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadModel loads and compiles a model from CUE files or directories.
// Every path must exist and together they must contain at least one CUE
// file. All errors are *LoadError.
func LoadModel(paths []string) (*LoadResult, error) {
	if len(paths) == 0 {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: "no model path given"}
	}

	count := 0
	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("model path not found: %s", path)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing model path: %v", err)}
		}
		if !info.IsDir() {
			count++
			continue
		}
		files, err := FindCUEFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		count += len(files)
	}
	if count == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %v", paths)}
	}

	m, err := compiler.LoadModel(paths...)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return &LoadResult{Model: m, FileCount: count}, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Field + ": " + compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeLoadFailed,
		Message: err.Error(),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build or decode failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStore       = "E008" // Saved-run database error

	// Model shape errors
	ErrCodeNoAccounts  = "E101" // accounts missing
	ErrCodeInvalidRule = "E102" // malformed rule entry
	ErrCodeInvalidRef  = "E103" // malformed reference
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "accounts":
		return ErrCodeNoAccounts
	case field == "cue":
		return ErrCodeBuildFailed
	case field == "ref.account":
		return ErrCodeInvalidRef
	case strings.HasPrefix(field, "rules."):
		return ErrCodeInvalidRule
	default:
		return ErrCodeGeneric
	}
}
