package querysql

import (
	"fmt"
	"strings"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
)

// targetTable picks the table a write statement applies to: the primary
// table, else the first update column's table, else the first filter
// column's table.
func targetTable(crit *criteria.Criteria) string {
	if pt := crit.PrimaryTable(); pt != "" {
		if real, ok := crit.TableForAlias(pt); ok {
			return real
		}
		return pt
	}
	for _, u := range crit.UpdateValues() {
		if u.Column.Table != "" {
			return u.Column.Table
		}
	}
	for _, f := range crit.Filters() {
		for _, col := range f.Columns() {
			if col.Table != "" {
				return col.Table
			}
		}
	}
	return ""
}

// assignments returns the update values belonging to table. Literal
// columns are kept.
func assignments(crit *criteria.Criteria, table string) []*criteria.UpdateColumn {
	var out []*criteria.UpdateColumn
	for _, u := range crit.UpdateValues() {
		if u.Column.Table == "" || u.Column.Table == table {
			out = append(out, u)
		}
	}
	return out
}

// bindValue renders the value side of an assignment.
func bindValue(rc *criteria.RenderContext, table string, u *criteria.UpdateColumn) (string, error) {
	if u.Raw != "" {
		raw := &criteria.Raw{Clause: u.Raw, Values: u.Values, Type: u.BindType()}
		s, err := raw.Render(rc)
		if err != nil {
			return "", fmt.Errorf("update expression for %s: %w", u.Expression, err)
		}
		return s, nil
	}
	return rc.Bind(bind.Param{
		Table:  table,
		Column: u.Column.Column,
		Type:   u.BindType(),
		Value:  u.Value,
	}), nil
}

// Insert renders an INSERT of the Criteria's update values.
func (c *Compiler) Insert(crit *criteria.Criteria) (string, []bind.Param, error) {
	table := targetTable(crit)
	if table == "" {
		return "", nil, ErrNoTargetTable
	}
	values := assignments(crit, table)
	if len(values) == 0 {
		return "", nil, ErrNoUpdateValues
	}

	rc := c.context(crit)
	cols := make([]string, len(values))
	phs := make([]string, len(values))
	for i, u := range values {
		cols[i] = rc.Identifier(table, u.Column.Column)
		ph, err := bindValue(rc, table, u)
		if err != nil {
			return "", nil, err
		}
		phs[i] = ph
	}

	sql := "INSERT INTO " + rc.Table(table) +
		" (" + strings.Join(cols, ",") + ") VALUES (" + strings.Join(phs, ",") + ")"
	return sql, rc.Params(), nil
}
