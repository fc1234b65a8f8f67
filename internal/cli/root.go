package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/roach88/criteria/internal/config"
	"github.com/roach88/criteria/internal/dialect"
)

// TraceGenerator hands out the trace id attached to JSON responses.
type TraceGenerator interface {
	Generate() string
}

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigFile string
	Dialect    string
	Schema     string

	// Fs is the filesystem for config, schemas and query documents.
	Fs afero.Fs

	// TraceIDs defaults to UUIDv7 ids.
	TraceIDs TraceGenerator

	// Config is loaded before any subcommand runs.
	Config *config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the crit CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts. Tests
// use it to inject a filesystem and a fixed trace generator.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	opts.setDefaults()

	cmd := &cobra.Command{
		Use:   "crit",
		Short: "crit - schema-aware SQL query specifications",
		Long: `crit renders YAML query documents into dialect-correct, parameterized SQL.

Query documents describe filters, joins, projections, grouping, ordering and
locking against a schema. crit renders them for SQLite, PostgreSQL or MySQL,
checks them against scenario expectations, and executes them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return loadConfig(cmd, opts)
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigFile, "config", "", "config file (default ./crit.yaml)")
	cmd.PersistentFlags().StringVar(&opts.Dialect, "dialect", "", "SQL dialect (sqlite|pgsql|mysql)")
	cmd.PersistentFlags().StringVar(&opts.Schema, "schema", "", "schema file (.yaml, .yml or .cue)")

	// Add subcommands
	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewExecCommand(opts))

	return cmd
}

func (opts *RootOptions) setDefaults() {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.TraceIDs == nil {
		opts.TraceIDs = dialect.UUIDv7Generator{}
	}
}

// prepare makes a subcommand runnable on its own: defaults are filled in
// and config is loaded if the root did not already do it.
func (opts *RootOptions) prepare(cmd *cobra.Command) error {
	opts.setDefaults()
	if opts.Config != nil {
		return nil
	}
	return loadConfig(cmd, opts)
}

// loadConfig resolves configuration with changed flags as overrides and
// installs the default logger.
func loadConfig(cmd *cobra.Command, opts *RootOptions) error {
	overrides := map[string]any{}
	flags := cmd.Flags()
	if flags.Changed("dialect") {
		overrides["dialect"] = opts.Dialect
	}
	if flags.Changed("schema") {
		overrides["schema"] = opts.Schema
	}
	if flags.Changed("dsn") {
		dsn, _ := flags.GetString("dsn")
		overrides["dsn"] = dsn
	}
	if opts.Verbose {
		overrides["log_level"] = "debug"
	}

	cfg, err := config.Load(config.Options{
		Fs:         opts.Fs,
		ConfigFile: opts.ConfigFile,
		Overrides:  overrides,
	})
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}
	opts.Config = cfg

	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))
	return nil
}

// formatter builds the output formatter for one command invocation.
func (opts *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   opts.Verbose,
		TraceID:   opts.TraceIDs.Generate(),
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
