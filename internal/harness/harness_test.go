package harness

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/dialect"
	"github.com/roach88/criteria/internal/querysql"
	"github.com/roach88/criteria/internal/testutil"
)

func itemScenario(expect Expect) *Scenario {
	return &Scenario{
		Name:        "item",
		Description: "item lookup",
		Schema:      "/work/schema.yaml",
		Dialect:     "sqlite",
		Statement:   StatementSelect,
		Query: Query{
			Table:   "item",
			Select:  []string{"item.name"},
			Filters: []FilterDoc{{Column: "item.id", Value: 7}},
		},
		Expect: expect,
	}
}

func TestRun_Pass(t *testing.T) {
	result, err := Run(memFs(t), itemScenario(Expect{
		SQL:    "SELECT item.name FROM item WHERE item.id=:p1",
		Params: []any{7},
	}))
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "SELECT item.name FROM item WHERE item.id=:p1", result.SQL)
	assert.Equal(t, []bind.Param{{Table: "item", Column: "id", Type: bind.TypeInteger, Value: 7}}, result.Params)
	assert.Equal(t, bind.MustFingerprint(result.SQL, result.Params), result.Fingerprint)
}

func TestRun_ParamsCompareByValue(t *testing.T) {
	s := itemScenario(Expect{SQL: "SELECT item.name FROM item WHERE item.id=:p1", Params: []any{int64(7)}})

	result, err := Run(memFs(t), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_Mismatches(t *testing.T) {
	tests := []struct {
		name    string
		expect  Expect
		wantErr string
	}{
		{
			name:    "sql",
			expect:  Expect{SQL: "SELECT 1", Params: []any{7}},
			wantErr: "sql mismatch",
		},
		{
			name:    "params",
			expect:  Expect{SQL: "SELECT item.name FROM item WHERE item.id=:p1", Params: []any{8}},
			wantErr: "params mismatch",
		},
		{
			name:    "missing params",
			expect:  Expect{SQL: "SELECT item.name FROM item WHERE item.id=:p1"},
			wantErr: "params mismatch",
		},
		{
			name:    "error expected",
			expect:  Expect{Error: "boom"},
			wantErr: `expected error containing "boom"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Run(memFs(t), itemScenario(tt.expect))
			require.NoError(t, err)

			assert.False(t, result.Pass)
			require.Len(t, result.Errors, 1)
			assert.Contains(t, result.Errors[0], tt.wantErr)
		})
	}
}

func TestRun_ExpectedError(t *testing.T) {
	s := itemScenario(Expect{Error: "delete requires at least one filter"})
	s.Statement = StatementDelete
	s.Query.Filters = nil

	result, err := Run(memFs(t), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Empty(t, result.SQL)
}

func TestRun_ErrorMismatch(t *testing.T) {
	s := itemScenario(Expect{Error: "no update values"})
	s.Statement = StatementDelete
	s.Query.Filters = nil

	result, err := Run(memFs(t), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "error mismatch")
}

func TestRun_UnexpectedError(t *testing.T) {
	s := itemScenario(Expect{SQL: "INSERT"})
	s.Statement = StatementInsert

	result, err := Run(memFs(t), s)
	require.NoError(t, err)
	assert.False(t, result.Pass)
	assert.Contains(t, result.Errors[0], "unexpected error")
	assert.Contains(t, result.Errors[0], querysql.ErrNoUpdateValues.Error())
}

func TestRun_SetupErrors(t *testing.T) {
	t.Run("schema", func(t *testing.T) {
		s := itemScenario(Expect{SQL: "x"})
		s.Schema = "/work/missing.yaml"
		_, err := Run(memFs(t), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to load schema")
	})

	t.Run("query", func(t *testing.T) {
		s := itemScenario(Expect{SQL: "x"})
		s.Query.Filters = []FilterDoc{{Column: "item.id", Op: "~~"}}
		_, err := Run(memFs(t), s)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to build query")
	})

	t.Run("dialect", func(t *testing.T) {
		s := itemScenario(Expect{SQL: "x"})
		s.Dialect = "oracle"
		_, err := Run(memFs(t), s)
		require.Error(t, err)
	})
}

func TestRun_WithoutSchema(t *testing.T) {
	s := &Scenario{
		Name:        "literal",
		Description: "no schema",
		Dialect:     "sqlite",
		Query:       Query{Table: "t", Select: []string{"t.a"}, Filters: []FilterDoc{{Column: "t.b", Value: "x"}}},
		Expect:      Expect{SQL: "SELECT t.a FROM t WHERE t.b=:p1", Params: []any{"x"}},
	}

	result, err := Run(afero.NewMemMapFs(), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
}

func TestRun_RecordsWarnings(t *testing.T) {
	s := itemScenario(Expect{SQL: "SELECT item.name FROM item WHERE LOWER(item.name) = 'x'"})
	s.Query.Filters = []FilterDoc{{Column: "LOWER(item.name)", Op: "custom", Value: "LOWER(item.name) = 'x'"}}

	result, err := Run(memFs(t), s)
	require.NoError(t, err)
	assert.True(t, result.Pass, "errors: %v", result.Errors)
	assert.Equal(t, []string{`unresolvable column reference "LOWER(item.name)", rendered as literal`}, result.Warnings)
}

func TestParseStatement(t *testing.T) {
	tests := []struct {
		in      string
		want    Statement
		wantErr bool
	}{
		{"", StatementSelect, false},
		{"SELECT", StatementSelect, false},
		{"count", StatementCount, false},
		{" insert ", StatementInsert, false},
		{"update", StatementUpdate, false},
		{"delete", StatementDelete, false},
		{"delete_all", StatementDeleteAll, false},
		{"merge", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStatement(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompile_Statements(t *testing.T) {
	comp := querysql.NewCompiler(dialect.SQLite{})
	build := func() *criteria.Criteria {
		return criteria.New(testutil.Bookstore(), "book").
			SetUpdateValue("book.title", "Emma", "").
			AddFilter("book.id", 1, criteria.Equal)
	}

	tests := []struct {
		st   Statement
		want string
	}{
		{StatementSelect, "SELECT  FROM book WHERE book.id=:p1"},
		{StatementCount, "SELECT COUNT(*) FROM book WHERE book.id=:p1"},
		{StatementInsert, "INSERT INTO book (title) VALUES (:p1)"},
		{StatementUpdate, "UPDATE book SET title=:p1 WHERE book.id=:p2"},
		{StatementDelete, "DELETE FROM book WHERE book.id=:p1"},
		{StatementDeleteAll, "DELETE FROM book"},
	}

	for _, tt := range tests {
		t.Run(string(tt.st), func(t *testing.T) {
			sql, _, err := Compile(comp, tt.st, build())
			require.NoError(t, err)
			assert.Equal(t, tt.want, sql)
		})
	}

	_, _, err := Compile(comp, "merge", build())
	require.Error(t, err)
}
