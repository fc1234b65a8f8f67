package querysql

import (
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/criteria/internal/criteria"
)

// selectOptions adjusts selectSQL for derived statements.
type selectOptions struct {
	columns   []string            // replaces the select list when non-nil
	aliased   []criteria.AsColumn // replaces select and as-columns when non-nil
	noOrderBy bool
	noLock    bool
}

// selectSQL renders crit as a SELECT into rc. Fragments are rendered in
// textual order so placeholder numbers increase left to right.
func (c *Compiler) selectSQL(rc *criteria.RenderContext, crit *criteria.Criteria, opts selectOptions) (string, error) {
	orderBy, orderColumns := c.orderByClause(rc, crit)

	columns := opts.columns
	if columns == nil {
		columns = c.selectList(rc, crit, opts.aliased, orderColumns)
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	if comment := crit.Comment(); comment != "" {
		b.WriteString("/* " + comment + " */ ")
	}
	if mods := crit.SelectModifiers(); len(mods) > 0 {
		b.WriteString(strings.Join(mods, " ") + " ")
	}
	b.WriteString(strings.Join(columns, ", "))

	from, err := c.fromClause(rc, crit)
	if err != nil {
		return "", err
	}
	if from != "" {
		b.WriteString(" FROM " + from)
	}

	where, err := whereClause(rc, crit.Filters())
	if err != nil {
		return "", err
	}
	if where != "" {
		b.WriteString(" WHERE " + where)
	}

	if groups := crit.GroupByColumns(); len(groups) > 0 {
		resolver := crit.Resolver()
		parts := make([]string, len(groups))
		for i, g := range groups {
			parts[i] = renderReference(rc, resolver, g)
		}
		b.WriteString(" GROUP BY " + strings.Join(parts, ","))
	}

	if h := crit.Having(); h != nil {
		having, err := h.Render(rc)
		if err != nil {
			return "", fmt.Errorf("having: %w", err)
		}
		if having != "" {
			b.WriteString(" HAVING " + having)
		}
	}

	if !opts.noOrderBy && len(orderBy) > 0 {
		b.WriteString(" ORDER BY " + strings.Join(orderBy, ", "))
	}

	if limit := c.Adapter.LimitClause(crit.Offset(), crit.Limit()); limit != "" {
		b.WriteString(" " + limit)
	}

	if lock := crit.Lock(); lock != nil && !opts.noLock {
		if clause := c.Adapter.LockClause(lock.IsExclusive(), lock.TableNames, lock.NoWait); clause != "" {
			b.WriteString(" " + clause)
		}
	}

	return b.String(), nil
}

// selectList renders select columns, then as-columns, then the case-folded
// ORDER BY expressions. Repeated expressions get unique aliases. A non-nil
// aliased list stands in for both select and as-columns.
func (c *Compiler) selectList(rc *criteria.RenderContext, crit *criteria.Criteria, aliased []criteria.AsColumn, extra []string) []string {
	resolver := crit.Resolver()

	var out []string
	if aliased != nil {
		for _, a := range aliased {
			out = append(out, renderReference(rc, resolver, a.Expression)+" AS "+a.Alias)
		}
	} else {
		out = projection(rc, crit, resolver)
	}

	for _, e := range extra {
		if !slices.Contains(out, e) {
			out = append(out, e)
		}
	}
	return out
}

// projection renders the select columns and as-columns.
func projection(rc *criteria.RenderContext, crit *criteria.Criteria, resolver criteria.ColumnResolver) []string {
	used := make(map[string]bool)
	for _, a := range crit.AsColumns() {
		used[a.Alias] = true
	}

	var out []string
	seen := make(map[string]bool)
	for _, expr := range crit.SelectColumns() {
		text := renderReference(rc, resolver, expr)
		if !seen[text] {
			seen[text] = true
			out = append(out, text)
			continue
		}
		alias := criteria.UniqueAlias(criteria.ColumnAlias(expr), used)
		used[alias] = true
		out = append(out, text+" AS "+alias)
	}

	for _, a := range crit.AsColumns() {
		out = append(out, renderReference(rc, resolver, a.Expression)+" AS "+a.Alias)
	}
	return out
}

// orderByClause renders ORDER BY entries. Text columns of an ignore-case
// Criteria are wrapped in the dialect's case folding; those expressions
// are also returned so they can be selected.
func (c *Compiler) orderByClause(rc *criteria.RenderContext, crit *criteria.Criteria) (entries, folded []string) {
	resolver := crit.Resolver()
	for _, o := range crit.OrderByColumns() {
		col := resolver.Resolve(o.Column)
		text := renderReference(rc, resolver, o.Column)
		if rc.IgnoreCase && col.IsText() {
			text = rc.Adapter.IgnoreCase(text)
			folded = append(folded, text)
		}
		entries = append(entries, text+" "+string(o.Direction))
	}
	return entries, folded
}

// fromClause renders inferred tables, FROM sub-queries and joins.
func (c *Compiler) fromClause(rc *criteria.RenderContext, crit *criteria.Criteria) (string, error) {
	var sources []string
	for _, t := range fromTables(crit) {
		sources = append(sources, rc.Table(t))
	}
	for _, s := range crit.Subqueries() {
		sub, err := rc.Subquery(s.Criteria)
		if err != nil {
			return "", fmt.Errorf("sub-query %s: %w", s.Alias, err)
		}
		sources = append(sources, "("+sub+") AS "+s.Alias)
	}

	from := strings.Join(sources, ", ")
	for _, j := range crit.Joins() {
		clause, err := j.Render(rc)
		if err != nil {
			return "", fmt.Errorf("join %s: %w", j.RightTable(), err)
		}
		from += " " + clause
	}
	return from, nil
}

// whereClause ANDs rendered top-level filters, skipping empty ones.
func whereClause(rc *criteria.RenderContext, filters []criteria.Filter) (string, error) {
	parts := make([]string, 0, len(filters))
	for _, f := range filters {
		s, err := f.Render(rc)
		if err != nil {
			return "", fmt.Errorf("where: %w", err)
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " AND "), nil
}

// renderReference renders a select, group or order expression: column
// references are resolved and quoted as needed, anything else is kept.
func renderReference(rc *criteria.RenderContext, resolver criteria.ColumnResolver, expr string) string {
	col := resolver.Resolve(expr)
	if col.IsEmpty() {
		return strings.TrimSpace(expr)
	}
	return rc.Column(col)
}
