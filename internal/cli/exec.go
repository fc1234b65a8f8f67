package cli

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/harness"
	"github.com/roach88/criteria/internal/store"
)

// ExecOptions holds flags for the exec command.
type ExecOptions struct {
	*RootOptions
	Statement string
	DSN       string
}

// ExecResult is the payload of an executed statement. Only the field for
// the statement kind is set: Rows, Count, ID or Affected.
type ExecResult struct {
	Statement   string           `json:"statement"`
	Dialect     string           `json:"dialect"`
	SQL         string           `json:"sql,omitempty"`
	Params      []bind.Param     `json:"params,omitempty"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	Rows        []map[string]any `json:"rows,omitempty"`
	Count       *int64           `json:"count,omitempty"`
	ID          any              `json:"id,omitempty"`
	Affected    *int64           `json:"affected,omitempty"`
}

// NewExecCommand creates the exec command.
func NewExecCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExecOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "exec <query.yaml>",
		Short: "Execute a query document against a database",
		Long: `Render a query document and run it against the configured database.

select prints the matching rows, count prints the row count, insert prints
the new primary key, and update, delete and delete_all print the number of
affected rows.

Examples:
  crit exec query.yaml --dsn ./books.db --schema bookstore.yaml
  crit exec insert.yaml --statement insert --dialect pgsql --dsn postgres://localhost/books`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Statement, "statement", "select", "statement to execute (select|count|insert|update|delete|delete_all)")
	cmd.Flags().StringVar(&opts.DSN, "dsn", "", "database DSN (overrides config)")

	return cmd
}

func runExec(opts *ExecOptions, path string, cmd *cobra.Command) error {
	if err := opts.prepare(cmd); err != nil {
		return err
	}
	formatter := opts.formatter(cmd)

	st, err := harness.ParseStatement(opts.Statement)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "invalid --statement", err)
	}
	if opts.Config.DSN == "" {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "no dsn configured (set --dsn, CRIT_DSN or dsn in the config file)", nil)
	}
	adapter, err := opts.Config.Adapter()
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeConfig, "invalid dialect", err)
	}

	c, exitErr := opts.buildCriteria(formatter, path)
	if exitErr != nil {
		return exitErr
	}

	s, err := store.Open(adapter, opts.Config.DSN)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", err)
	}
	defer s.Close()

	result := ExecResult{Statement: string(st), Dialect: adapter.Name()}

	// Insert renders inside the store, after key generation.
	if st != harness.StatementInsert {
		sql, params, err := harness.Compile(s.Compiler(), st, c)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeRender, "failed to render query", err)
		}
		fp, err := bind.Fingerprint(sql, params)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeRender, "failed to fingerprint statement", err)
		}
		result.SQL = adapter.BindPlaceholders(sql)
		result.Params = params
		result.Fingerprint = fp
	}

	ctx := cmd.Context()
	switch st {
	case harness.StatementSelect:
		result.Rows, err = s.SelectMaps(ctx, c)
	case harness.StatementCount:
		var n int64
		n, err = s.Count(ctx, c)
		result.Count = &n
	case harness.StatementInsert:
		result.ID, err = s.Insert(ctx, c)
	case harness.StatementUpdate:
		result.Affected, err = affected(s.Update(ctx, c))
	case harness.StatementDelete:
		result.Affected, err = affected(s.Delete(ctx, c))
	case harness.StatementDeleteAll:
		result.Affected, err = affected(s.DeleteAll(ctx, c.PrimaryTable()))
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeDatabase, fmt.Sprintf("%s failed", st), err)
	}
	slog.Debug("executed statement", "statement", st, "dialect", adapter.Name(), "fingerprint", result.Fingerprint)

	if formatter.IsJSON() {
		if result.Rows == nil && st == harness.StatementSelect {
			result.Rows = []map[string]any{}
		}
		return formatter.Success(result)
	}
	return outputExecText(formatter, result)
}

func affected(n int64, err error) (*int64, error) {
	return &n, err
}

func outputExecText(formatter *OutputFormatter, result ExecResult) error {
	formatter.VerboseLog("%s", result.SQL)

	switch {
	case result.Count != nil:
		fmt.Fprintf(formatter.Writer, "count: %d\n", *result.Count)
	case result.Affected != nil:
		formatter.OK("%d row(s) affected", *result.Affected)
	case result.Statement == string(harness.StatementInsert):
		formatter.OK("inserted id %v", result.ID)
	default:
		return renderRows(formatter, result.Rows)
	}
	return nil
}

// renderRows prints rows as a table with columns in name order.
func renderRows(formatter *OutputFormatter, rows []map[string]any) error {
	if len(rows) == 0 {
		fmt.Fprintln(formatter.Writer, "No rows.")
		return nil
	}

	var columns []string
	for _, row := range rows {
		for name := range row {
			if !slices.Contains(columns, name) {
				columns = append(columns, name)
			}
		}
	}
	slices.Sort(columns)

	data := pterm.TableData{columns}
	for _, row := range rows {
		line := make([]string, len(columns))
		for i, name := range columns {
			if v := row[name]; v != nil {
				line[i] = fmt.Sprint(v)
			} else {
				line[i] = "NULL"
			}
		}
		data = append(data, line)
	}

	if color.NoColor {
		pterm.DisableStyling()
	}
	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return err
	}
	fmt.Fprintln(formatter.Writer, table)
	fmt.Fprintf(formatter.Writer, "(%d row(s))\n", len(rows))
	return nil
}
