package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/criteria/internal/schema"
)

// ValidationIssue is one schema definition problem.
type ValidationIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// TableSummary describes a loaded table.
type TableSummary struct {
	Name        string   `json:"name"`
	Columns     int      `json:"columns"`
	PrimaryKeys []string `json:"primary_keys,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Database string            `json:"database,omitempty"`
	Tables   []TableSummary    `json:"tables,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
	Errors   []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [schema]",
		Short: "Validate a schema definition",
		Long: `Load a YAML or CUE schema and report definition errors.

The schema argument defaults to --schema or the config file's schema.
Unsupported column types are reported as warnings; they do not fail
validation.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runValidate(rootOpts, path, cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	formatter := opts.formatter(cmd)

	if path == "" {
		path = opts.Config.Schema
	}
	if path == "" {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "no schema given (pass a path or set --schema)", nil)
	}
	if ok, _ := afero.Exists(opts.Fs, path); !ok {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("schema file not found: %s", path), nil)
	}

	formatter.VerboseLog("Loading schema %s", path)
	db, err := schema.Load(opts.Fs, path)
	if err != nil {
		var loadErr *schema.LoadError
		if errors.As(err, &loadErr) {
			return outputValidationErrors(formatter, []ValidationIssue{issueFromLoadError(loadErr)})
		}
		return outputValidationErrors(formatter, []ValidationIssue{{
			Field:   "schema",
			Message: err.Error(),
			Code:    ErrCodeSchema,
		}})
	}

	return outputValidateSuccess(formatter, summarize(db))
}

// issueFromLoadError converts a schema load error, keeping the CUE line
// when there is one.
func issueFromLoadError(err *schema.LoadError) ValidationIssue {
	issue := ValidationIssue{
		Field:   err.Field,
		Message: err.Message,
		Code:    ErrCodeSchemaFields,
	}
	if err.Pos.IsValid() {
		issue.Line = err.Pos.Line()
	}
	return issue
}

func summarize(db *schema.DatabaseMap) ValidationResult {
	result := ValidationResult{Valid: true, Database: db.Name}
	for _, t := range db.Tables() {
		summary := TableSummary{Name: t.Name, Columns: len(t.Columns())}
		for _, pk := range t.PrimaryKeys() {
			summary.PrimaryKeys = append(summary.PrimaryKeys, pk.Name)
		}
		result.Tables = append(result.Tables, summary)
	}
	for _, w := range db.Warnings() {
		result.Warnings = append(result.Warnings, w.String())
	}
	return result
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	for _, t := range result.Tables {
		formatter.VerboseLog("table %s: %d column(s), primary key %v", t.Name, t.Columns, t.PrimaryKeys)
	}
	for _, w := range result.Warnings {
		formatter.Warn("%s", w)
	}
	formatter.OK("Schema %s valid (%d table(s))", result.Database, len(result.Tables))
	return nil
}

// outputValidationErrors outputs schema definition errors.
func outputValidationErrors(formatter *OutputFormatter, errs []ValidationIssue) error {
	exitErr := &ExitError{
		Code:     ExitFailure, // Validation failures = exit code 1
		Message:  fmt.Sprintf("validation failed with %d error(s)", len(errs)),
		Reported: true,
	}

	if formatter.IsJSON() {
		result := ValidationResult{Valid: false, Errors: errs}
		if err := formatter.Respond(result, &CLIError{Code: errs[0].Code, Message: errs[0].Message}); err != nil {
			return err
		}
		return exitErr
	}

	// Text format
	formatter.Bad("Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return exitErr
}
