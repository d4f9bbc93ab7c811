package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fsproj/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "fsproj", cmd.Use)
	assert.Contains(t, cmd.Long, "Balance & Change")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compute", "validate", "test", "show"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	envFlag := cmd.PersistentFlags().Lookup("env-file")
	require.NotNil(t, envFlag)
	assert.Equal(t, ".env", envFlag.DefValue)
}

func TestComputeCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	computeCmd, _, err := cmd.Find([]string{"compute"})
	require.NoError(t, err)

	for _, name := range []string{"years", "base-profit", "cash", "db", "save"} {
		assert.NotNil(t, computeCmd.Flags().Lookup(name), "missing flag --%s", name)
	}
	assert.Equal(t, "all", computeCmd.Flags().Lookup("section").DefValue)
	assert.Equal(t, "0", computeCmd.Flags().Lookup("years").DefValue)
}

func TestShowCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	showCmd, _, err := cmd.Find([]string{"show"})
	require.NoError(t, err)

	for _, name := range []string{"db", "run", "account", "list"} {
		assert.NotNil(t, showCmd.Flags().Lookup(name), "missing flag --%s", name)
	}
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
}

func TestFormatValidation(t *testing.T) {
	// Test valid formats
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	// Test invalid formats
	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--format", "invalid", "--env-file", filepath.Join(t.TempDir(), ".env"), "validate", "."})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestFormatFromEnvironment(t *testing.T) {
	t.Setenv(config.EnvFormat, "json")
	dir := writeModel(t, growthModel)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--env-file", filepath.Join(t.TempDir(), ".env"), "validate", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"status":"ok"`)
}

func TestFormatFlagBeatsEnvironment(t *testing.T) {
	t.Setenv(config.EnvFormat, "json")
	dir := writeModel(t, growthModel)

	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--format", "text", "--env-file", filepath.Join(t.TempDir(), ".env"), "validate", dir})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ Model valid")
}

func TestInvalidEnvironmentIsCommandError(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(config.EnvYears+"=soon\n"), 0644))
	// godotenv.Load does not override variables already set.
	t.Setenv(config.EnvYears, "")
	require.NoError(t, os.Unsetenv(config.EnvYears))

	cmd := NewRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--env-file", envFile, "validate", "."})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "invalid configuration")
}
