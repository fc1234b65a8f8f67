package criteria

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/dialect"
	"github.com/roach88/criteria/internal/testutil"
)

func bookstore() *Criteria {
	return New(testutil.Bookstore(), "book")
}

// stubSubquery renders a sub-query as "SELECT * FROM <table> WHERE ...".
func stubSubquery(rc *RenderContext, sub *Criteria) (string, error) {
	where, err := renderWhere(rc, sub)
	if err != nil {
		return "", err
	}
	sql := "SELECT * FROM " + sub.PrimaryTable()
	if where != "" {
		sql += " WHERE " + where
	}
	return sql, nil
}

func renderWhere(rc *RenderContext, c *Criteria) (string, error) {
	var parts []string
	for _, f := range c.Filters() {
		s, err := f.Render(rc)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " AND "), nil
}

// where renders c's WHERE clause with adapter.
func where(t *testing.T, adapter dialect.Adapter, c *Criteria) (string, []bind.Param) {
	t.Helper()
	rc := NewRenderContext(adapter, c, stubSubquery)
	sql, err := renderWhere(rc, c)
	require.NoError(t, err)
	return sql, rc.Params()
}

func renderFilter(t *testing.T, adapter dialect.Adapter, c *Criteria, f Filter) (string, []bind.Param) {
	t.Helper()
	rc := NewRenderContext(adapter, c, stubSubquery)
	sql, err := f.Render(rc)
	require.NoError(t, err)
	return sql, rc.Params()
}

// values returns the bound Go values, nil when nothing was bound.
func values(params []bind.Param) []any {
	var out []any
	for _, p := range params {
		out = append(out, p.Value)
	}
	return out
}
