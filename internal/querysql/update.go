package querysql

import (
	"strings"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/dialect"
)

// Update renders an UPDATE of the target table using the Criteria's
// update values and filters. Joins use the dialect's joined form.
func (c *Compiler) Update(crit *criteria.Criteria) (string, []bind.Param, error) {
	table := targetTable(crit)
	if table == "" {
		return "", nil, ErrNoTargetTable
	}
	values := assignments(crit, table)
	if len(values) == 0 {
		return "", nil, ErrNoUpdateValues
	}

	rc := c.context(crit)
	joins := crit.Joins()
	inline := len(joins) > 0 && c.Adapter.JoinedWriteStyle() == dialect.JoinedWriteInline

	var b strings.Builder
	b.WriteString("UPDATE " + rc.Table(table))

	if inline {
		for _, j := range joins {
			clause, err := j.Render(rc)
			if err != nil {
				return "", nil, err
			}
			b.WriteString(" " + clause)
		}
	}

	sets := make([]string, len(values))
	for i, u := range values {
		col := rc.Identifier(table, u.Column.Column)
		if inline && !u.Column.IsLiteral() {
			col = rc.Column(u.Column)
		}
		val, err := bindValue(rc, table, u)
		if err != nil {
			return "", nil, err
		}
		sets[i] = col + "=" + val
	}
	b.WriteString(" SET " + strings.Join(sets, ", "))

	var conds []string
	if len(joins) > 0 && !inline {
		from, on, err := detachedJoins(rc, joins)
		if err != nil {
			return "", nil, err
		}
		b.WriteString(" FROM " + from)
		conds = append(conds, on...)
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

// detachedJoins renders joined tables as a FROM/USING list plus their ON
// conditions for the WHERE clause.
func detachedJoins(rc *criteria.RenderContext, joins []*criteria.Join) (string, []string, error) {
	tables := make([]string, 0, len(joins))
	conds := make([]string, 0, len(joins))
	for _, j := range joins {
		tables = append(tables, rc.Table(j.RightTable()))
		on, err := j.OnClause(rc)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, on)
	}
	return strings.Join(tables, ", "), conds, nil
}
