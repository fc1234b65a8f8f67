package harness

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/afero"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/dialect"
	"github.com/roach88/criteria/internal/querysql"
	"github.com/roach88/criteria/internal/schema"
)

// Statement names a SQL builder.
type Statement string

const (
	StatementSelect    Statement = "select"
	StatementCount     Statement = "count"
	StatementInsert    Statement = "insert"
	StatementUpdate    Statement = "update"
	StatementDelete    Statement = "delete"
	StatementDeleteAll Statement = "delete_all"
)

// ParseStatement accepts a statement name in any case. Empty means select.
func ParseStatement(s string) (Statement, error) {
	switch st := Statement(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return StatementSelect, nil
	case StatementSelect, StatementCount, StatementInsert, StatementUpdate, StatementDelete, StatementDeleteAll:
		return st, nil
	}
	return "", fmt.Errorf("unknown statement %q", s)
}

// Compile renders c with the builder for st.
func Compile(comp *querysql.Compiler, st Statement, c *criteria.Criteria) (string, []bind.Param, error) {
	switch st {
	case StatementSelect, "":
		return comp.Select(c)
	case StatementCount:
		return comp.Count(c)
	case StatementInsert:
		return comp.Insert(c)
	case StatementUpdate:
		return comp.Update(c)
	case StatementDelete:
		return comp.Delete(c)
	case StatementDeleteAll:
		return comp.DeleteAll(c.PrimaryTable())
	}
	return "", nil, fmt.Errorf("unknown statement %q", st)
}

// Run renders a scenario and compares the output with its expectations.
//
// Setup failures (unreadable schema, invalid query document) are returned
// as errors. Mismatches are reported on the Result.
func Run(fs afero.Fs, scenario *Scenario) (*Result, error) {
	adapter, err := dialect.Lookup(scenario.Dialect)
	if err != nil {
		return nil, err
	}

	var m schema.Map
	if scenario.Schema != "" {
		db, err := schema.Load(fs, scenario.Schema)
		if err != nil {
			return nil, fmt.Errorf("failed to load schema: %w", err)
		}
		m = db
	}

	c, err := Build(&scenario.Query, m)
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	result := NewResult(scenario.Name)
	for _, w := range c.Warnings() {
		result.Warnings = append(result.Warnings, w.String())
	}

	sql, params, err := Compile(querysql.NewCompiler(adapter), scenario.Statement, c)
	if err != nil {
		switch {
		case scenario.Expect.Error == "":
			result.AddError(fmt.Sprintf("unexpected error: %v", err))
		case !strings.Contains(err.Error(), scenario.Expect.Error):
			result.AddError(fmt.Sprintf("error mismatch:\n  expected: %s\n  actual:   %v", scenario.Expect.Error, err))
		}
		return result, nil
	}

	result.SQL = sql
	result.Params = params
	fp, err := bind.Fingerprint(sql, params)
	if err != nil {
		return nil, err
	}
	result.Fingerprint = fp

	if scenario.Expect.Error != "" {
		result.AddError(fmt.Sprintf("expected error containing %q, got SQL: %s", scenario.Expect.Error, sql))
		return result, nil
	}
	if sql != scenario.Expect.SQL {
		result.AddError(fmt.Sprintf("sql mismatch:\n  expected: %s\n  actual:   %s", scenario.Expect.SQL, sql))
	}
	if err := compareParams(scenario.Expect.Params, params); err != nil {
		result.AddError(err.Error())
	}
	return result, nil
}

// compareParams compares values by their canonical JSON so that YAML
// integers match int64 and float64 bindings of the same number.
func compareParams(expected []any, params []bind.Param) error {
	actual := make([]any, len(params))
	for i, p := range params {
		actual[i] = p.Value
	}
	if expected == nil {
		expected = []any{}
	}

	want, err := bind.MarshalCanonical(expected)
	if err != nil {
		return fmt.Errorf("expect.params: %w", err)
	}
	got, err := bind.MarshalCanonical(actual)
	if err != nil {
		return fmt.Errorf("params: %w", err)
	}
	if !bytes.Equal(want, got) {
		return fmt.Errorf("params mismatch:\n  expected: %s\n  actual:   %s", want, got)
	}
	return nil
}
