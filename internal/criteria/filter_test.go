package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/dialect"
)

func TestComparisonRender(t *testing.T) {
	tests := []struct {
		name       string
		column     string
		op         Operator
		value      any
		wantSQL    string
		wantValues []any
	}{
		{"equal", "book.title", Equal, "Emma", "book.title=:p1", []any{"Emma"}},
		{"default operator", "book.title", "", "Emma", "book.title=:p1", []any{"Emma"}},
		{"greater equal", "book.price", GreaterEqual, 10, "book.price>=:p1", []any{10}},
		{"not equal", "book.price", NotEqual, 10, "book.price<>:p1", []any{10}},
		{"like", "book.title", Like, "%Don%", "book.title LIKE :p1", []any{"%Don%"}},
		{"not like", "book.title", NotLike, "%Don%", "book.title NOT LIKE :p1", []any{"%Don%"}},
		{"nil equal", "book.isbn", Equal, nil, "book.isbn IS NULL", nil},
		{"nil not equal", "book.isbn", NotEqual, nil, "book.isbn IS NOT NULL", nil},
		{"nil alt not equal", "book.isbn", AltNotEqual, nil, "book.isbn IS NOT NULL", nil},
		{"is null", "book.isbn", IsNull, nil, "book.isbn IS NULL", nil},
		{"is not null", "book.isbn", IsNotNull, "ignored", "book.isbn IS NOT NULL", nil},
		{"in", "book.id", In, []int{1, 2, 3}, "book.id IN (:p1,:p2,:p3)", []any{1, 2, 3}},
		{"in any slice", "book.id", In, []any{1, "x"}, "book.id IN (:p1,:p2)", []any{1, "x"}},
		{"in scalar", "book.id", In, 7, "book.id IN (:p1)", []any{7}},
		{"not in", "book.id", NotIn, []string{"a"}, "book.id NOT IN (:p1)", []any{"a"}},
		{"empty in", "book.id", In, []int{}, "1<>1", nil},
		{"nil in", "book.id", In, nil, "1<>1", nil},
		{"empty not in", "book.id", NotIn, []int{}, "1=1", nil},
		{"current date", "review.review_date", Equal, CurrentDate, "review.review_date=CURRENT_DATE", nil},
		{"current time", "review.review_date", LessThan, CurrentTime, "review.review_date<CURRENT_TIME", nil},
		{"custom", "book.title", Custom, "book.title = 'x'", "book.title = 'x'", nil},
		{"binary and", "book.id", BinaryAnd, 4, "book.id&:p1", []any{4}},
		{"literal column", "COUNT(book.id)", GreaterThan, 2, "COUNT(book.id)>:p1", []any{2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := bookstore()
			sql, params := renderFilter(t, dialect.SQLite{}, c, c.NewFilter(tt.column, tt.value, tt.op))
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantValues == nil {
				assert.Empty(t, params)
			} else {
				assert.Equal(t, tt.wantValues, values(params))
			}
		})
	}
}

func TestComparisonParamCarriesColumn(t *testing.T) {
	c := bookstore()
	_, params := renderFilter(t, dialect.SQLite{}, c, c.NewFilter("book.title", "%Don%", Like))

	require.Len(t, params, 1)
	assert.Equal(t, bind.Param{Table: "book", Column: "title", Type: bind.TypeVarchar, Value: "%Don%"}, params[0])
}

func TestComparisonCustomRequiresString(t *testing.T) {
	c := bookstore()
	rc := NewRenderContext(dialect.SQLite{}, c, nil)
	_, err := c.NewFilter("book.title", 3, Custom).Render(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be a string")
}

func TestComparisonIgnoreCase(t *testing.T) {
	tests := []struct {
		name     string
		adapter  dialect.Adapter
		op       Operator
		value    any
		caseMode CaseMode
		global   bool
		want     string
	}{
		{"sqlite like", dialect.SQLite{}, Like, "%a%", CaseFold, false, "UPPER(book.title) LIKE UPPER(:p1)"},
		{"mysql like", dialect.MySQL{}, Like, "%a%", CaseFold, false, "UPPER(book.title) LIKE UPPER(:p1)"},
		{"pgsql like", dialect.Postgres{}, Like, "%a%", CaseFold, false, "book.title ILIKE :p1"},
		{"pgsql not like", dialect.Postgres{}, NotLike, "%a%", CaseFold, false, "book.title NOT ILIKE :p1"},
		{"pgsql equal", dialect.Postgres{}, Equal, "a", CaseFold, false, "UPPER(book.title)=UPPER(:p1)"},
		{"inherited", dialect.SQLite{}, Equal, "a", CaseInherit, true, "UPPER(book.title)=UPPER(:p1)"},
		{"sensitive overrides", dialect.SQLite{}, Equal, "a", CaseSensitive, true, "book.title=:p1"},
		{"non-string value", dialect.SQLite{}, Equal, 3, CaseFold, false, "book.title=:p1"},
		{"in list", dialect.SQLite{}, In, []string{"a", "b"}, CaseFold, false, "UPPER(book.title) IN (UPPER(:p1),UPPER(:p2))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := bookstore().SetIgnoreCase(tt.global)
			f := &Comparison{Column: c.Resolve("book.title"), Operator: tt.op, Value: tt.value, CaseMode: tt.caseMode}
			sql, _ := renderFilter(t, tt.adapter, c, f)
			assert.Equal(t, tt.want, sql)
		})
	}
}

func TestQuotedColumns(t *testing.T) {
	c := bookstore().SetIdentifierQuoting(true)
	sql, _ := renderFilter(t, dialect.MySQL{}, c, c.NewFilter("book.title", "x", Equal))
	assert.Equal(t, "`book`.`title`=:p1", sql)

	// publisher enables quoting at table level
	c = bookstore()
	sql, _ = renderFilter(t, dialect.Postgres{}, c, c.NewFilter("publisher.name", "x", Equal))
	assert.Equal(t, `"publisher"."name"=:p1`, sql)

	// an explicit off wins over the table setting
	c = bookstore().SetIdentifierQuoting(false)
	sql, _ = renderFilter(t, dialect.Postgres{}, c, c.NewFilter("publisher.name", "x", Equal))
	assert.Equal(t, "publisher.name=:p1", sql)

	// literals are never quoted
	c = bookstore().SetIdentifierQuoting(true)
	sql, _ = renderFilter(t, dialect.Postgres{}, c, c.NewFilter("COUNT(*)", 1, GreaterThan))
	assert.Equal(t, "COUNT(*)>:p1", sql)
}

func TestRawRender(t *testing.T) {
	c := bookstore()
	f := c.newRaw("book.price BETWEEN ? AND ?", bind.TypeFloat, []any{1.5, 9.5})

	sql, params := renderFilter(t, dialect.SQLite{}, c, f)
	assert.Equal(t, "book.price BETWEEN :p1 AND :p2", sql)
	assert.Equal(t, []bind.Param{
		{Type: bind.TypeFloat, Value: 1.5},
		{Type: bind.TypeFloat, Value: 9.5},
	}, params)
	assert.Equal(t, "book", f.Column.Table)
	assert.Equal(t, "price", f.Column.Column)
}

func TestRawRenderPlaceholderMismatch(t *testing.T) {
	c := bookstore()
	rc := NewRenderContext(dialect.SQLite{}, c, nil)
	_, err := c.newRaw("book.id = ?", "", nil).Render(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 placeholders for 0 values")
}

func TestRawRenderSkipsQuotedQuestionMarks(t *testing.T) {
	c := bookstore()

	sql, params := renderFilter(t, dialect.SQLite{}, c, c.newRaw("book.title <> 'Who?'", "", nil))
	assert.Equal(t, "book.title <> 'Who?'", sql)
	assert.Empty(t, params)

	f := c.newRaw(`book.title IN ('Why?', ?) AND "odd?col" = ?`, bind.TypeVarchar, []any{"Emma", "x"})
	sql, params = renderFilter(t, dialect.SQLite{}, c, f)
	assert.Equal(t, `book.title IN ('Why?', :p1) AND "odd?col" = :p2`, sql)
	assert.Equal(t, []any{"Emma", "x"}, values(params))
}

func TestRawWithoutLeadingColumn(t *testing.T) {
	c := bookstore()
	f := c.newRaw("1=1", "", nil)
	assert.Empty(t, f.Columns())

	sql, params := renderFilter(t, dialect.SQLite{}, c, f)
	assert.Equal(t, "1=1", sql)
	assert.Empty(t, params)
}

func TestCombinedRender(t *testing.T) {
	c := bookstore()
	a := c.NewFilter("book.title", "a", Equal)
	b := c.NewFilter("book.isbn", "b", Equal)

	sql, params := renderFilter(t, dialect.SQLite{}, c, &Combined{Operator: Or})
	assert.Equal(t, "", sql)
	assert.Empty(t, params)

	sql, _ = renderFilter(t, dialect.SQLite{}, c, &Combined{Operator: Or, Children: []Filter{a}})
	assert.Equal(t, "book.title=:p1", sql)

	sql, params = renderFilter(t, dialect.SQLite{}, c, &Combined{Operator: Or, Children: []Filter{a, b}})
	assert.Equal(t, "(book.title=:p1 OR book.isbn=:p2)", sql)
	assert.Equal(t, []any{"a", "b"}, values(params))

	// empty children are skipped before deciding on parentheses
	sql, _ = renderFilter(t, dialect.SQLite{}, c, &Combined{Children: []Filter{&Combined{}, b}})
	assert.Equal(t, "book.isbn=:p1", sql)
}

func TestExistsRender(t *testing.T) {
	c := bookstore()
	sub := New(c.Schema(), "review").AddFilter("review.recommended", true, Equal)
	c.AddFilter("book.title", "Emma", Equal).Exists(sub)

	sql, params := where(t, dialect.SQLite{}, c)
	assert.Equal(t, "book.title=:p1 AND EXISTS (SELECT * FROM review WHERE review.recommended=:p2)", sql)
	assert.Equal(t, []any{"Emma", true}, values(params))

	c = bookstore().NotExists(sub)
	sql, _ = where(t, dialect.SQLite{}, c)
	assert.Equal(t, "NOT EXISTS (SELECT * FROM review WHERE review.recommended=:p1)", sql)
}

func TestExistsWithoutRenderer(t *testing.T) {
	c := bookstore().Exists(New(nil, "review"))
	rc := NewRenderContext(dialect.SQLite{}, c, nil)
	_, err := c.Filters()[0].Render(rc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sub-query rendering is not available")
}

func TestFilterEqualAndClone(t *testing.T) {
	c := bookstore()
	a := c.NewFilter("book.id", []int{1, 2}, In)
	b := c.NewFilter("book.id", []int{1, 2}, In)
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c.NewFilter("book.id", []int{1, 3}, In)))
	assert.False(t, a.Equal(c.newRaw("book.id IN (1,2)", "", nil)))

	clone := a.Clone().(*Comparison)
	clone.Value.([]int)[0] = 99
	assert.Equal(t, []int{1, 2}, a.(*Comparison).Value)

	comb := &Combined{Operator: And, Children: []Filter{a, c.newRaw("book.price > ?", "", []any{3})}}
	combClone := comb.Clone()
	assert.True(t, comb.Equal(combClone))
	combClone.(*Combined).Children[1].(*Raw).Values[0] = 4
	assert.False(t, comb.Equal(combClone))

	assert.True(t, (&Raw{Clause: "1=1"}).Equal(&Raw{Clause: "1=1", Values: []any{}}))
}

func TestParseOperator(t *testing.T) {
	tests := map[string]Operator{
		"":            Equal,
		"=":           Equal,
		"like":        Like,
		"not  like":   NotLike,
		"in":          In,
		"is not null": IsNotNull,
		">=":          GreaterEqual,
		"custom":      Custom,
	}
	for in, want := range tests {
		got, err := ParseOperator(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOperator("between")
	assert.Error(t, err)
}

func TestParseJoinTypeAndLogicalOp(t *testing.T) {
	jt, err := ParseJoinType("left")
	require.NoError(t, err)
	assert.Equal(t, LeftJoin, jt)

	jt, err = ParseJoinType("RIGHT JOIN")
	require.NoError(t, err)
	assert.Equal(t, RightJoin, jt)

	jt, err = ParseJoinType("")
	require.NoError(t, err)
	assert.Equal(t, InnerJoin, jt)

	_, err = ParseJoinType("cross")
	assert.Error(t, err)

	op, err := ParseLogicalOp("or")
	require.NoError(t, err)
	assert.Equal(t, Or, op)

	_, err = ParseLogicalOp("xor")
	assert.Error(t, err)
}
