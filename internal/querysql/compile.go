// Package querysql renders criteria.Criteria values into parameterized
// SQL for a dialect.
//
// Every builder returns (sql, params, error). Placeholders are ":p1" ...
// ":pN" in textual order and params[i] binds ":p{i+1}". Use the dialect's
// BindPlaceholders to rewrite them for a driver.
package querysql

import (
	"errors"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/dialect"
)

var (
	// ErrNoUpdateValues is returned for INSERT or UPDATE without values.
	ErrNoUpdateValues = errors.New("no update values")

	// ErrNoTargetTable is returned when no table can be inferred.
	ErrNoTargetTable = errors.New("cannot determine target table")

	// ErrMissingCondition is returned for DELETE without filters.
	// Use DeleteAll to empty a table.
	ErrMissingCondition = errors.New("delete requires at least one filter")

	// ErrJoinNotSupported is returned when the dialect has no joined
	// form of the statement.
	ErrJoinNotSupported = errors.New("dialect does not support joins in this statement")
)

// Compiler renders Criteria for one dialect. A Compiler holds no mutable
// state and is safe for concurrent use.
type Compiler struct {
	Adapter dialect.Adapter
}

// NewCompiler creates a compiler for adapter.
func NewCompiler(adapter dialect.Adapter) *Compiler {
	return &Compiler{Adapter: adapter}
}

func (c *Compiler) context(crit *criteria.Criteria) *criteria.RenderContext {
	return criteria.NewRenderContext(c.Adapter, crit, c.renderSubquery)
}

func (c *Compiler) renderSubquery(rc *criteria.RenderContext, sub *criteria.Criteria) (string, error) {
	return c.selectSQL(rc, sub, selectOptions{})
}

// Select renders a SELECT statement.
func (c *Compiler) Select(crit *criteria.Criteria) (string, []bind.Param, error) {
	rc := c.context(crit)
	sql, err := c.selectSQL(rc, crit, selectOptions{})
	if err != nil {
		return "", nil, err
	}
	return sql, rc.Params(), nil
}

// Count renders a statement returning the number of rows Select would
// return. Criteria whose row count depends on DISTINCT, grouping or
// limits are wrapped in a derived table, with the select list aliased when
// column names repeat.
func (c *Compiler) Count(crit *criteria.Criteria) (string, []bind.Param, error) {
	rc := c.context(crit)

	if needsCountWrap(crit) {
		var opts selectOptions
		if crit.NeedsSelectAliases() {
			opts.aliased = crit.Clone().TurnSelectColumnsToAliases().AsColumns()
		}
		sql, err := c.selectSQL(rc, crit, opts)
		if err != nil {
			return "", nil, err
		}
		return "SELECT COUNT(*) FROM (" + sql + ") AS count_query", rc.Params(), nil
	}

	sql, err := c.selectSQL(rc, crit, selectOptions{
		columns:   []string{"COUNT(*)"},
		noOrderBy: true,
		noLock:    true,
	})
	if err != nil {
		return "", nil, err
	}
	return sql, rc.Params(), nil
}

func needsCountWrap(crit *criteria.Criteria) bool {
	return crit.HasSelectModifier(criteria.Distinct) ||
		len(crit.GroupByColumns()) > 0 ||
		crit.Having() != nil ||
		crit.Limit() >= 0 ||
		crit.Offset() > 0
}
