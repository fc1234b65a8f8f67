package cli

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passingScenario = `name: cheap_items
description: "Items over ten"
schema: ../schema.yaml
query:
  table: item
  select: [item.name]
  filters:
    - {column: item.price, op: ">", value: 10}
expect:
  sql: "SELECT item.name FROM item WHERE item.price>:p1"
  params: [10]
`

const failingScenario = `name: wrong_sql
description: "Expectation that does not match"
schema: ../schema.yaml
query:
  table: item
expect:
  sql: "SELECT * FROM item"
`

// scenarioFs holds the item schema and the given scenarios under
// /work/scenarios.
func scenarioFs(t *testing.T, scenarios map[string]string) afero.Fs {
	t.Helper()
	fs := memFs(t)
	require.NoError(t, fs.MkdirAll("/work/scenarios", 0o755))
	for name, content := range scenarios {
		require.NoError(t, afero.WriteFile(fs, "/work/scenarios/"+name, []byte(content), 0o644))
	}
	return fs
}

func TestTestCommandMissingArgs(t *testing.T) {
	_, _, err := runCLI(t, afero.NewMemMapFs(), "test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg")
}

func TestTestCommandNonExistentScenariosDir(t *testing.T) {
	out, _, err := runCLI(t, afero.NewMemMapFs(), "test", "/nonexistent/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "scenarios directory not found")
}

func TestTestCommandEmptyDir(t *testing.T) {
	out, _, err := runCLI(t, scenarioFs(t, nil), "test", "/work/scenarios")
	require.NoError(t, err)
	assert.Contains(t, out, "No scenarios found.")
}

func TestTestCommandFixtures(t *testing.T) {
	out, _, err := runCLI(t, afero.NewOsFs(),
		"test", "../harness/testdata/scenarios",
		"--golden", "../harness/testdata/golden",
		"--format", "json")
	require.NoError(t, err, "output: %s", out)

	resp, result := decodeResponse[TestResult](t, out)
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, testTraceID, resp.TraceID)
	assert.Equal(t, 16, result.Total)
	assert.Equal(t, 16, result.Passed)
	assert.Zero(t, result.Failed)
}

func TestTestCommandFilter(t *testing.T) {
	out, _, err := runCLI(t, afero.NewOsFs(),
		"test", "../harness/testdata/scenarios",
		"--golden", "../harness/testdata/golden",
		"--filter", "*_pgsql",
		"--format", "json")
	require.NoError(t, err)

	_, result := decodeResponse[TestResult](t, out)
	assert.Equal(t, 4, result.Total)
	for _, s := range result.Scenarios {
		assert.Contains(t, s.Name, "pgsql")
		assert.Len(t, s.Fingerprint, 64)
	}
}

func TestTestCommandInvalidFilter(t *testing.T) {
	fs := scenarioFs(t, map[string]string{"cheap.yaml": passingScenario})
	out, _, err := runCLI(t, fs, "test", "/work/scenarios", "--filter", "[")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "invalid filter pattern")
}

func TestTestCommandFailure(t *testing.T) {
	fs := scenarioFs(t, map[string]string{
		"cheap.yaml": passingScenario,
		"wrong.yaml": failingScenario,
	})

	out, _, err := runCLI(t, fs, "test", "/work/scenarios", "--format", "json")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp, result := decodeResponse[TestResult](t, out)
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeTestFailed, resp.Error.Code)
	assert.Equal(t, 1, result.Passed)
	assert.Equal(t, 1, result.Failed)

	require.Len(t, result.Scenarios, 2)
	assert.Equal(t, "cheap_items", result.Scenarios[0].Name)
	assert.Equal(t, "wrong_sql", result.Scenarios[1].Name)
	require.NotEmpty(t, result.Scenarios[1].Errors)
	assert.Contains(t, result.Scenarios[1].Errors[0], "sql mismatch")
}

func TestTestCommandFailureText(t *testing.T) {
	fs := scenarioFs(t, map[string]string{"wrong.yaml": failingScenario})

	out, _, err := runCLI(t, fs, "test", "/work/scenarios")
	require.Error(t, err)
	assert.True(t, IsReported(err))
	assert.Contains(t, out, "✗ wrong_sql")
	assert.Contains(t, out, "sql mismatch")
	assert.Contains(t, out, "Test Summary: 0 passed, 1 failed, 1 total")
}

func TestTestCommandLoadError(t *testing.T) {
	fs := scenarioFs(t, map[string]string{"broken.yaml": "name: broken\n"})

	out, _, err := runCLI(t, fs, "test", "/work/scenarios", "--format", "json")
	require.Error(t, err)

	_, result := decodeResponse[TestResult](t, out)
	require.Len(t, result.Scenarios, 1)
	assert.Equal(t, "broken.yaml", result.Scenarios[0].Name)
	assert.Contains(t, result.Scenarios[0].Errors[0], "failed to load scenario")
}

func TestTestCommandGoldenUpdateAndCompare(t *testing.T) {
	fs := scenarioFs(t, map[string]string{"cheap.yaml": passingScenario})
	goldenPath := "/work/scenarios/golden/cheap_items.golden"

	// First run writes the golden file.
	out, _, err := runCLI(t, fs, "test", "/work/scenarios", "--update")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ cheap_items (golden updated)")

	golden, err := afero.ReadFile(fs, goldenPath)
	require.NoError(t, err)
	assert.Contains(t, string(golden), `"scenario":"cheap_items"`)
	assert.Contains(t, string(golden), `"sql":"SELECT item.name FROM item WHERE item.price>:p1"`)

	// Second run compares against it.
	_, _, err = runCLI(t, fs, "test", "/work/scenarios")
	require.NoError(t, err)

	// A stale snapshot fails.
	require.NoError(t, afero.WriteFile(fs, goldenPath, []byte(`{"sql":"stale"}`), 0o644))
	out, _, err = runCLI(t, fs, "test", "/work/scenarios")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "does not match golden file")
}
