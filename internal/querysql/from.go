package querysql

import (
	"slices"

	"github.com/roach88/criteria/internal/criteria"
)

// fromTables infers FROM entries ("table" or "table alias") in first-seen
// order: select columns, filters, HAVING, then ORDER BY. Join targets are
// removed and join sources added. The primary table is the fallback.
func fromTables(crit *criteria.Criteria) []string {
	var tables []string
	add := func(entry string) {
		if entry != "" && !slices.Contains(tables, entry) {
			tables = append(tables, entry)
		}
	}
	addColumns := func(cols []criteria.ResolvedColumn) {
		for _, col := range cols {
			if !col.IsLiteral() {
				add(col.FromEntry())
			}
		}
	}

	subAliases := make(map[string]bool, len(crit.Subqueries()))
	for _, s := range crit.Subqueries() {
		subAliases[s.Alias] = true
	}

	resolver := crit.Resolver()
	for _, expr := range crit.SelectColumns() {
		t := criteria.SelectTable(expr)
		if t == "" || subAliases[t] {
			continue
		}
		if real, ok := crit.TableForAlias(t); ok {
			add(real + " " + t)
			continue
		}
		add(t)
	}
	for _, f := range crit.Filters() {
		addColumns(f.Columns())
	}
	if h := crit.Having(); h != nil {
		addColumns(h.Columns())
	}
	for _, o := range crit.OrderByColumns() {
		col := resolver.Resolve(o.Column)
		if !col.IsEmpty() && !subAliases[col.TableRef()] {
			addColumns([]criteria.ResolvedColumn{col})
		}
	}

	joins := crit.Joins()
	rights := make(map[string]bool, len(joins))
	for _, j := range joins {
		rights[j.RightTable()] = true
	}
	for _, j := range joins {
		if left := j.LeftTable(); !rights[left] {
			add(left)
		}
	}
	tables = slices.DeleteFunc(tables, func(t string) bool {
		return rights[t] || subAliases[t]
	})

	if len(tables) == 0 && len(crit.Subqueries()) == 0 && crit.PrimaryTable() != "" {
		tables = append(tables, primaryEntry(crit))
	}
	return tables
}

// primaryEntry renders the primary table, expanding an alias.
func primaryEntry(crit *criteria.Criteria) string {
	pt := crit.PrimaryTable()
	if real, ok := crit.TableForAlias(pt); ok {
		return real + " " + pt
	}
	return pt
}
