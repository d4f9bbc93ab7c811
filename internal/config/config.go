// Package config resolves CLI defaults from the environment.
//
// Flags always win. A flag left at its zero value falls back to the
// matching FSPROJ_* variable, which may come from a .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDB     = "FSPROJ_DB"
	EnvYears  = "FSPROJ_YEARS"
	EnvFormat = "FSPROJ_FORMAT"
)

// DefaultFormat is used when neither a flag nor FSPROJ_FORMAT sets one.
const DefaultFormat = "text"

// Config holds environment-derived defaults.
type Config struct {
	DB     string // saved-run database path; empty disables saving
	Years  int    // forecast horizon; 0 means the engine default
	Format string // "text" or "json"
}

// Load reads envFiles (missing files are skipped) and then the process
// environment. Variables already set in the environment are not
// overridden by the files.
func Load(envFiles ...string) (Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		DB:     os.Getenv(EnvDB),
		Format: os.Getenv(EnvFormat),
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if v := os.Getenv(EnvYears); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("%s must be a non-negative integer, got %q", EnvYears, v)
		}
		cfg.Years = n
	}
	return cfg, nil
}
