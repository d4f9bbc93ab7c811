package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvYears, "")
	t.Setenv(EnvFormat, "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{Format: DefaultFormat}, cfg)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv(EnvDB, "/tmp/runs.db")
	t.Setenv(EnvYears, "7")
	t.Setenv(EnvFormat, "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{DB: "/tmp/runs.db", Years: 7, Format: "json"}, cfg)
}

func TestLoadInvalidYears(t *testing.T) {
	for _, v := range []string{"five", "-1"} {
		t.Setenv(EnvYears, v)
		_, err := Load()
		assert.Error(t, err, v)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Setenv(EnvDB, "")
	t.Setenv(EnvYears, "")
	t.Setenv(EnvFormat, "text")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FSPROJ_DB=from-file.db\nFSPROJ_YEARS=3\nFSPROJ_FORMAT=json\n"), 0o600))

	// godotenv.Load does not override variables that are already set,
	// and t.Setenv("") counts as set.
	os.Unsetenv(EnvDB)
	os.Unsetenv(EnvYears)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-file.db", cfg.DB)
	assert.Equal(t, 3, cfg.Years)
	assert.Equal(t, "text", cfg.Format, "environment wins over the file")
}

func TestLoadMissingEnvFileIsSkipped(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}
