package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/dialect"
	"github.com/roach88/criteria/internal/harness"
	"github.com/roach88/criteria/internal/querysql"
	"github.com/roach88/criteria/internal/schema"
)

// RenderOptions holds flags for the render command.
type RenderOptions struct {
	*RootOptions
	Statement string
}

// RenderResult is the payload of a successful render.
type RenderResult struct {
	Statement   string       `json:"statement"`
	Dialect     string       `json:"dialect"`
	SQL         string       `json:"sql"`
	BoundSQL    string       `json:"bound_sql"`
	Params      []bind.Param `json:"params"`
	Fingerprint string       `json:"fingerprint"`
	Warnings    []string     `json:"warnings,omitempty"`
}

// NewRenderCommand creates the render command.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RenderOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "render <query.yaml>",
		Short: "Render a query document to SQL",
		Long: `Render a YAML query document into SQL for the configured dialect.

The schema comes from --schema or the config file. Without a schema every
column reference is rendered literally.

Examples:
  crit render query.yaml --schema bookstore.yaml
  crit render query.yaml --dialect pgsql --statement count
  crit render query.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Statement, "statement", "select", "statement to render (select|count|insert|update|delete|delete_all)")

	return cmd
}

func runRender(opts *RenderOptions, path string, cmd *cobra.Command) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	formatter := opts.formatter(cmd)

	st, err := harness.ParseStatement(opts.Statement)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "invalid --statement", err)
	}

	adapter, err := opts.Config.Adapter()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid dialect", err)
	}

	c, exitErr := opts.buildCriteria(formatter, path)
	if exitErr != nil {
		return exitErr
	}

	sql, params, err := harness.Compile(querysql.NewCompiler(adapter), st, c)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRender, "failed to render query", err)
	}

	fp, err := bind.Fingerprint(sql, params)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeRender, "failed to fingerprint statement", err)
	}

	result := RenderResult{
		Statement:   string(st),
		Dialect:     adapter.Name(),
		SQL:         sql,
		BoundSQL:    adapter.BindPlaceholders(sql),
		Params:      params,
		Fingerprint: fp,
		Warnings:    warningStrings(c),
	}
	if result.Params == nil {
		result.Params = []bind.Param{}
	}
	slog.Debug("rendered statement", "statement", st, "dialect", adapter.Name(), "fingerprint", fp)

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	outputRenderText(formatter, result)
	return nil
}

// buildCriteria loads the configured schema and the query document at
// path, then applies config-level quoting and case defaults. Failures are
// reported through formatter.
func (opts *RootOptions) buildCriteria(formatter *OutputFormatter, path string) (*criteria.Criteria, error) {
	m, err := opts.loadSchema()
	if err != nil {
		code := ErrCodeSchema
		if schema.IsLoadError(err) {
			code = ErrCodeSchemaFields
		}
		return nil, formatter.Fail(ExitCommandError, code, "failed to load schema", err)
	}

	q, err := harness.LoadQuery(opts.Fs, path)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeQuery, "failed to load query", err)
	}

	c, err := harness.Build(q, m)
	if err != nil {
		return nil, formatter.Fail(ExitCommandError, ErrCodeQuery, "invalid query", err)
	}

	if q.Quoting == nil && opts.Config.IdentifierQuoting {
		c.SetIdentifierQuoting(true)
	}
	if !q.IgnoreCase && opts.Config.IgnoreCase {
		c.SetIgnoreCase(true)
	}
	return c, nil
}

// loadSchema returns nil when no schema is configured.
func (opts *RootOptions) loadSchema() (schema.Map, error) {
	if opts.Config.Schema == "" {
		return nil, nil
	}
	db, err := schema.Load(opts.Fs, opts.Config.Schema)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func warningStrings(c *criteria.Criteria) []string {
	var out []string
	for _, w := range c.Warnings() {
		out = append(out, w.String())
	}
	return out
}

func outputRenderText(formatter *OutputFormatter, result RenderResult) {
	w := formatter.Writer
	fmt.Fprintln(w, result.BoundSQL)

	if len(result.Params) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Params:")
		for i, p := range result.Params {
			fmt.Fprintf(w, "  %s  %s\n", placeholderLabel(result.Dialect, i+1), describeParam(p))
		}
	}

	formatter.VerboseLog("dialect: %s", result.Dialect)
	formatter.VerboseLog("fingerprint: %s", result.Fingerprint)
	for _, warning := range result.Warnings {
		formatter.Warn("%s", warning)
	}
}

// placeholderLabel shows the bound placeholder for parameter n.
func placeholderLabel(dialectName string, n int) string {
	adapter, err := dialect.Lookup(dialectName)
	if err != nil {
		return fmt.Sprintf(":p%d", n)
	}
	return adapter.BindPlaceholders(fmt.Sprintf(":p%d", n))
}

func describeParam(p bind.Param) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v", p.Value)

	var meta []string
	if p.Table != "" {
		meta = append(meta, p.Table+"."+p.Column)
	} else if p.Column != "" {
		meta = append(meta, p.Column)
	}
	if p.Type != "" {
		meta = append(meta, string(p.Type))
	}
	if len(meta) > 0 {
		fmt.Fprintf(&b, " (%s)", strings.Join(meta, ", "))
	}
	return b.String()
}
