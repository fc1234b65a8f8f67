package querysql

import (
	"strings"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/dialect"
)

// Delete renders a DELETE from the target table. Select columns,
// grouping and HAVING are ignored. At least one filter is required.
func (c *Compiler) Delete(crit *criteria.Criteria) (string, []bind.Param, error) {
	if len(crit.Filters()) == 0 {
		return "", nil, ErrMissingCondition
	}
	table := targetTable(crit)
	if table == "" {
		return "", nil, ErrNoTargetTable
	}

	rc := c.context(crit)
	joins := crit.Joins()

	var b strings.Builder
	var conds []string

	switch {
	case len(joins) == 0:
		b.WriteString("DELETE FROM " + rc.Table(table))

	case c.Adapter.JoinedWriteStyle() == dialect.JoinedWriteInline:
		t := rc.Table(table)
		b.WriteString("DELETE " + t + " FROM " + t)
		for _, j := range joins {
			clause, err := j.Render(rc)
			if err != nil {
				return "", nil, err
			}
			b.WriteString(" " + clause)
		}

	case c.Adapter.JoinedWriteStyle() == dialect.JoinedWriteUsing:
		using, on, err := detachedJoins(rc, joins)
		if err != nil {
			return "", nil, err
		}
		b.WriteString("DELETE FROM " + rc.Table(table) + " USING " + using)
		conds = append(conds, on...)

	default:
		return "", nil, ErrJoinNotSupported
	}

	where, err := whereClause(rc, crit.Filters())
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		conds = append(conds, where)
	}
	if len(conds) > 0 {
		b.WriteString(" WHERE " + strings.Join(conds, " AND "))
	}

	return b.String(), rc.Params(), nil
}

// DeleteAll renders an unconditional DELETE of table.
func (c *Compiler) DeleteAll(table string) (string, []bind.Param, error) {
	if table == "" {
		return "", nil, ErrNoTargetTable
	}
	rc := criteria.NewRenderContext(c.Adapter, nil, nil)
	return "DELETE FROM " + rc.Table(table), nil, nil
}
