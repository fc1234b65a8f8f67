package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/criteria/internal/dialect"
)

func renderJoins(t *testing.T, adapter dialect.Adapter, c *Criteria) ([]string, []any) {
	t.Helper()
	rc := NewRenderContext(adapter, c, stubSubquery)
	var out []string
	for _, j := range c.Joins() {
		s, err := j.Render(rc)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out, values(rc.Params())
}

func TestJoinRender(t *testing.T) {
	tests := []struct {
		name    string
		build   func(*Criteria) *Criteria
		adapter dialect.Adapter
		want    string
		values  []any
	}{
		{
			name:  "left",
			build: func(c *Criteria) *Criteria { return c.AddJoin("book.id", "review.book_id", LeftJoin) },
			want:  "LEFT JOIN review ON (book.id=review.book_id)",
		},
		{
			name:  "default type",
			build: func(c *Criteria) *Criteria { return c.AddJoin("book.author_id", "author.id", "") },
			want:  "INNER JOIN author ON (book.author_id=author.id)",
		},
		{
			name: "multiple with literal",
			build: func(c *Criteria) *Criteria {
				return c.AddMultipleJoin([]JoinPair{
					{Left: "book.author_id", Right: "author.id"},
					{Left: "author.id", Right: "3", Operator: GreaterEqual},
				}, "")
			},
			want: "INNER JOIN author ON (book.author_id=author.id AND author.id>=3)",
		},
		{
			name: "condition",
			build: func(c *Criteria) *Criteria {
				return c.AddJoinWithCondition("book.id", "review.book_id", LeftJoin,
					c.NewFilter("review.recommended", true, Equal))
			},
			want:   "LEFT JOIN review ON (book.id=review.book_id AND review.recommended=:p1)",
			values: []any{true},
		},
		{
			name: "aliased right table",
			build: func(c *Criteria) *Criteria {
				return c.AddAlias("r", "review").AddJoin("book.id", "r.book_id", RightJoin)
			},
			want: "RIGHT JOIN review r ON (book.id=r.book_id)",
		},
		{
			name:    "quoted table",
			build:   func(c *Criteria) *Criteria { return c.AddJoin("book.publisher_id", "publisher.id", LeftJoin) },
			adapter: dialect.Postgres{},
			want:    `LEFT JOIN "publisher" ON (book.publisher_id="publisher"."id")`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := tt.adapter
			if adapter == nil {
				adapter = dialect.SQLite{}
			}
			joins, vals := renderJoins(t, adapter, tt.build(bookstore()))
			require.Len(t, joins, 1)
			assert.Equal(t, tt.want, joins[0])
			assert.Equal(t, tt.values, vals)
		})
	}
}

func TestJoinTables(t *testing.T) {
	c := bookstore().AddAlias("r", "review").AddJoin("book.id", "r.book_id", LeftJoin)
	j := c.Joins()[0]
	assert.Equal(t, "book", j.LeftTable())
	assert.Equal(t, "review r", j.RightTable())

	rc := NewRenderContext(dialect.SQLite{}, c, nil)
	on, err := j.OnClause(rc)
	require.NoError(t, err)
	assert.Equal(t, "(book.id=r.book_id)", on)
}

func TestJoinDeduplication(t *testing.T) {
	c := bookstore()

	c.AddJoin("book.id", "review.book_id", LeftJoin).
		AddJoin("book.id", "review.book_id", LeftJoin)
	assert.Len(t, c.Joins(), 1)

	c.AddJoin("book.id", "review.book_id", RightJoin)
	assert.Len(t, c.Joins(), 2)

	c.AddJoin("book.id", "review.book_id", InnerJoin)
	assert.Len(t, c.Joins(), 3)

	c.AddJoin("book.author_id", "author.id", InnerJoin)
	assert.Len(t, c.Joins(), 4)

	// the condition does not make a join distinct
	c.AddJoinWithCondition("book.id", "review.book_id", LeftJoin, c.NewFilter("review.id", 1, Equal))
	assert.Len(t, c.Joins(), 4)
	assert.Nil(t, c.Joins()[0].Condition)

	// neither does an explicit Equal operator
	c.AddMultipleJoin([]JoinPair{{Left: "book.author_id", Right: "author.id", Operator: Equal}}, InnerJoin)
	assert.Len(t, c.Joins(), 4)

	// a different operator does
	c.AddMultipleJoin([]JoinPair{{Left: "book.author_id", Right: "author.id", Operator: GreaterThan}}, InnerJoin)
	assert.Len(t, c.Joins(), 5)
}

func TestAddJoinColumns(t *testing.T) {
	c := bookstore()
	err := c.AddJoinColumns(
		[]string{"book.id", "book.author_id"},
		[]string{"review.book_id", "review.reviewed_by"},
		LeftJoin,
	)
	require.NoError(t, err)

	joins, _ := renderJoins(t, dialect.SQLite{}, c)
	assert.Equal(t, []string{"LEFT JOIN review ON (book.id=review.book_id AND book.author_id=review.reviewed_by)"}, joins)
}

func TestAddJoinColumnsMalformed(t *testing.T) {
	tests := []struct {
		name        string
		left, right []string
		want        string
	}{
		{"more left", []string{"book.id", "book.author_id"}, []string{"review.book_id"},
			"MALFORMED_JOIN: join has 2 left columns but 1 right columns"},
		{"more right", []string{"book.id"}, []string{"review.book_id", "review.id"},
			"MALFORMED_JOIN: join has 1 left columns but 2 right columns"},
		{"empty", nil, nil,
			"MALFORMED_JOIN: join has 0 left columns but 0 right columns"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := bookstore().AddJoin("book.author_id", "author.id", InnerJoin)
			err := c.AddJoinColumns(tt.left, tt.right, LeftJoin)
			require.Error(t, err)
			assert.True(t, IsMalformedJoinError(err))
			assert.EqualError(t, err, tt.want)
			assert.Len(t, c.Joins(), 1)
		})
	}
}

func TestJoinEqualAndClone(t *testing.T) {
	c := bookstore().AddJoinWithCondition("book.id", "review.book_id", LeftJoin, New(nil, "").NewFilter("review.id", 1, Equal))
	j := c.Joins()[0]

	clone := j.Clone()
	assert.True(t, j.Equal(clone))

	clone.Condition.(*Comparison).Value = 2
	assert.True(t, j.SameAs(clone))
	assert.False(t, j.Equal(clone))
	assert.Equal(t, 1, j.Condition.(*Comparison).Value)

	clone.Condition = nil
	assert.False(t, j.Equal(clone))
}

func TestParseJoinType(t *testing.T) {
	tests := []struct {
		in      string
		want    JoinType
		wantErr bool
	}{
		{"", InnerJoin, false},
		{"inner", InnerJoin, false},
		{"left", LeftJoin, false},
		{"LEFT JOIN", LeftJoin, false},
		{" right ", RightJoin, false},
		{"cross", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseJoinType(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
