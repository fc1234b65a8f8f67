package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/criteria/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Update    bool   // regenerate golden files
	Filter    string // scenario filter (glob pattern)
	GoldenDir string // defaults to <scenarios-dir>/golden
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name        string   `json:"name"`
	Pass        bool     `json:"pass"`
	Fingerprint string   `json:"fingerprint,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run rendering scenarios",
		Long: `Run scenario files and compare rendered SQL with their expectations.

Each scenario's render is also compared with its golden snapshot when one
exists. Scenarios that expect an error have no snapshot.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  crit test ./scenarios
  crit test ./scenarios --filter "book_*"
  crit test ./scenarios --update
  crit test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.GoldenDir, "golden", "", "golden file directory (default <scenarios-dir>/golden)")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	formatter := opts.formatter(cmd)

	// Validate directory
	if ok, _ := afero.DirExists(opts.Fs, scenariosDir); !ok {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("scenarios directory not found: %s", scenariosDir), nil)
	}
	goldenDir := opts.GoldenDir
	if goldenDir == "" {
		goldenDir = filepath.Join(scenariosDir, "golden")
	}

	// Find scenario files
	scenarioFiles, err := findScenarioFiles(opts.Fs, scenariosDir, opts.Filter)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to find scenarios", err)
	}

	if len(scenarioFiles) == 0 {
		if formatter.IsJSON() {
			return formatter.Success(TestResult{Scenarios: []ScenarioResult{}})
		}
		fmt.Fprintln(formatter.Writer, "No scenarios found.")
		return nil
	}

	// Run scenarios
	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}

	for _, scenarioFile := range scenarioFiles {
		scenResult := runScenario(opts, scenarioFile, goldenDir)
		if !formatter.IsJSON() {
			printScenarioResult(formatter, scenResult, opts.Update)
		}
		result.Scenarios = append(result.Scenarios, scenResult)

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	// Output results
	if formatter.IsJSON() {
		return outputTestJSON(formatter, result)
	}
	return outputTestText(formatter, result)
}

// findScenarioFiles finds all YAML scenario files under dir.
func findScenarioFiles(fs afero.Fs, dir string, filter string) ([]string, error) {
	var files []string

	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		// Only process .yaml and .yml files
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		// Apply filter if specified
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScenario executes a single scenario and checks its golden snapshot.
func runScenario(opts *TestOptions, scenarioFile, goldenDir string) ScenarioResult {
	scenario, err := harness.LoadScenario(opts.Fs, scenarioFile)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(scenarioFile),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	result, err := harness.Run(opts.Fs, scenario)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	scenResult := ScenarioResult{
		Name:        scenario.Name,
		Pass:        result.Pass,
		Fingerprint: result.Fingerprint,
		Warnings:    result.Warnings,
		Errors:      result.Errors,
	}
	if !result.Pass || scenario.Expect.Error != "" {
		return scenResult
	}

	snapshot := harness.NewSnapshot(scenario.Name, scenario.Dialect, result)
	data, err := snapshot.Marshal()
	if err != nil {
		return fail(scenResult, fmt.Sprintf("failed to marshal snapshot: %v", err))
	}
	goldenPath := filepath.Join(goldenDir, scenario.Name+".golden")

	// Handle golden file comparison
	if opts.Update {
		if err := updateGoldenFile(opts.Fs, goldenPath, data); err != nil {
			return fail(scenResult, fmt.Sprintf("failed to update golden file: %v", err))
		}
		return scenResult
	}

	golden, err := afero.ReadFile(opts.Fs, goldenPath)
	if err != nil {
		if os.IsNotExist(err) {
			// No golden file - use expectations only
			return scenResult
		}
		return fail(scenResult, fmt.Sprintf("failed to read golden file: %v", err))
	}
	if !bytes.Equal(golden, data) {
		return fail(scenResult, "render does not match golden file (run with --update to regenerate)")
	}
	return scenResult
}

func fail(r ScenarioResult, msg string) ScenarioResult {
	r.Pass = false
	r.Errors = append(r.Errors, msg)
	return r
}

// updateGoldenFile writes the current snapshot as the golden file.
func updateGoldenFile(fs afero.Fs, goldenPath string, data []byte) error {
	// Ensure golden directory exists
	if err := fs.MkdirAll(filepath.Dir(goldenPath), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := afero.WriteFile(fs, goldenPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

func printScenarioResult(formatter *OutputFormatter, r ScenarioResult, updated bool) {
	if !r.Pass {
		formatter.Bad("%s", r.Name)
		for _, e := range r.Errors {
			fmt.Fprintf(formatter.Writer, "  %s\n", e)
		}
		return
	}
	if updated && r.Fingerprint != "" {
		formatter.OK("%s (golden updated)", r.Name)
	} else {
		formatter.OK("%s", r.Name)
	}
	for _, w := range r.Warnings {
		formatter.Warn("%s: %s", r.Name, w)
	}
	formatter.VerboseLog("  fingerprint %s", r.Fingerprint)
}

// outputTestJSON outputs the test result as JSON.
func outputTestJSON(formatter *OutputFormatter, result TestResult) error {
	var cliErr *CLIError
	if result.Failed > 0 {
		cliErr = &CLIError{
			Code:    ErrCodeTestFailed,
			Message: fmt.Sprintf("%d scenario(s) failed", result.Failed),
		}
	}
	if err := formatter.Respond(result, cliErr); err != nil {
		return err
	}

	if result.Failed > 0 {
		// Test failures = exit code 1
		return &ExitError{Code: ExitFailure, Message: cliErr.Message, Reported: true}
	}
	return nil
}

// outputTestText outputs the test result as text.
func outputTestText(formatter *OutputFormatter, result TestResult) error {
	w := formatter.Writer

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Test Summary: %d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)

	if result.Failed > 0 {
		// Test failures = exit code 1
		return &ExitError{
			Code:     ExitFailure,
			Message:  fmt.Sprintf("%d scenario(s) failed", result.Failed),
			Reported: true,
		}
	}

	formatter.OK("All scenarios passed")
	return nil
}
