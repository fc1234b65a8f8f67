package cli

import (
	"io"
	"log/slog"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "crit", cmd.Use)
	assert.Contains(t, cmd.Long, "parameterized SQL")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"render", "validate", "test", "exec"}

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

	for _, name := range []string{"config", "dialect", "schema"} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}
}

func TestStatementFlags(t *testing.T) {
	cmd := NewRootCommand()

	for _, name := range []string{"render", "exec"} {
		t.Run(name, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{name})
			require.NoError(t, err)

			statementFlag := subCmd.Flags().Lookup("statement")
			require.NotNil(t, statementFlag)
			assert.Equal(t, "select", statementFlag.DefValue)
		})
	}

	execCmd, _, err := cmd.Find([]string{"exec"})
	require.NoError(t, err)
	require.NotNil(t, execCmd.Flags().Lookup("dsn"))
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

	goldenFlag := testCmd.Flags().Lookup("golden")
	require.NotNil(t, goldenFlag)
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
	_, _, err := runCLI(t, memFs(t), "--format", "invalid", "render", "/work/query.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestVerboseLowersLogLevel(t *testing.T) {
	_, _, err := runCLI(t, memFs(t), "render", "/work/query.yaml", "-v")
	require.NoError(t, err)
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))

	_, _, err = runCLI(t, memFs(t), "render", "/work/query.yaml")
	require.NoError(t, err)
	assert.False(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}

func TestConfigFileSettings(t *testing.T) {
	fs := memFs(t)
	cfg := "dialect: mysql\nlog_level: warn\n"
	require.NoError(t, afero.WriteFile(fs, "/cfg/crit.yaml", []byte(cfg), 0o644))

	opts := &RootOptions{Fs: fs}
	cmd := NewRootCommandWithOptions(opts)
	cmd.SetArgs([]string{"render", "/work/query.yaml", "--config", "/cfg/crit.yaml", "--format", "json"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.NoError(t, cmd.Execute())

	require.NotNil(t, opts.Config)
	assert.Equal(t, "mysql", opts.Config.Dialect)
	assert.Equal(t, "/cfg/crit.yaml", opts.Config.File)
	assert.Equal(t, slog.LevelWarn, opts.Config.SlogLevel())
}

func TestFlagsOverrideConfigFile(t *testing.T) {
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "/cfg/crit.yaml", []byte("dialect: mysql\n"), 0o644))

	opts := &RootOptions{Fs: fs}
	cmd := NewRootCommandWithOptions(opts)
	cmd.SetArgs([]string{"render", "/work/query.yaml", "--config", "/cfg/crit.yaml", "--dialect", "pgsql"})
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "pgsql", opts.Config.Dialect)
}

func TestMissingConfigFile(t *testing.T) {
	_, _, err := runCLI(t, memFs(t), "render", "/work/query.yaml", "--config", "/nope.yaml")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.False(t, IsReported(err))
	assert.Contains(t, err.Error(), "failed to load config")
}
