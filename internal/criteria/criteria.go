package criteria

import (
	"log/slog"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/schema"
)

// AsColumn is a select-list expression with an alias.
type AsColumn struct {
	Alias      string
	Expression string
}

// OrderBy is one ORDER BY entry. Column is kept as given and resolved
// at render time.
type OrderBy struct {
	Column    string
	Direction Direction
}

// Subquery is a Criteria used as a FROM source.
type Subquery struct {
	Alias    string
	Criteria *Criteria
}

// JoinPair is one column pair of a batch join.
type JoinPair struct {
	Left     string
	Right    string
	Operator Operator
}

// Criteria is a mutable query description. Mutators change the receiver
// in place and return it. A Criteria is not safe for concurrent use.
type Criteria struct {
	schema       schema.Map
	primaryTable string

	selectColumns []string
	asColumns     []AsColumn
	aliases       map[string]string

	filters []Filter
	named   map[string]Filter
	joins   JoinRegistry

	groupBy []string
	having  Filter
	orderBy []OrderBy

	modifiers  []string
	updates    UpdateValues
	subqueries []Subquery

	limit   int64
	offset  int64
	lock    *Lock
	comment string

	quoting    quoting
	ignoreCase bool

	warnings []UnresolvableColumnWarning
}

// New creates an empty Criteria. m may be nil; table may be empty.
func New(m schema.Map, table string) *Criteria {
	return &Criteria{
		schema:       m,
		primaryTable: table,
		limit:        -1,
	}
}

// Schema returns the schema map the Criteria resolves against.
func (c *Criteria) Schema() schema.Map { return c.schema }

func (c *Criteria) SetPrimaryTable(table string) *Criteria {
	c.primaryTable = table
	return c
}

func (c *Criteria) PrimaryTable() string { return c.primaryTable }

// Resolver returns a ColumnResolver over the current aliases.
func (c *Criteria) Resolver() ColumnResolver {
	var as map[string]bool
	if len(c.asColumns) > 0 {
		as = make(map[string]bool, len(c.asColumns))
		for _, a := range c.asColumns {
			as[a.Alias] = true
		}
	}
	return ColumnResolver{
		Aliases:      c.aliases,
		AsColumns:    as,
		PrimaryTable: c.primaryTable,
		Schema:       c.schema,
	}
}

// Resolve resolves reference, falling back to a literal column and
// recording an UnresolvableColumnWarning when nothing matches.
func (c *Criteria) Resolve(reference string) ResolvedColumn {
	rc := c.Resolver().Resolve(reference)
	if !rc.IsEmpty() {
		return rc
	}
	ref := strings.TrimSpace(reference)
	slog.Warn("unresolvable column reference", "reference", ref)
	c.warnings = append(c.warnings, UnresolvableColumnWarning{Reference: ref})
	return ResolvedColumn{Column: ref}
}

// resolveQuiet resolves without recording a warning.
func (c *Criteria) resolveQuiet(reference string) ResolvedColumn {
	rc := c.Resolver().Resolve(reference)
	if rc.IsEmpty() {
		return ResolvedColumn{Column: strings.TrimSpace(reference)}
	}
	return rc
}

// Warnings returns references that could not be resolved.
func (c *Criteria) Warnings() []UnresolvableColumnWarning {
	return c.warnings
}

// Filters

// NewFilter builds a comparison without adding it.
func (c *Criteria) NewFilter(column string, value any, op Operator) Filter {
	return &Comparison{Column: c.Resolve(column), Operator: op, Value: value}
}

// AddFilter adds column op value, merging with an existing filter on the
// same column into one AND group.
func (c *Criteria) AddFilter(column string, value any, op Operator) *Criteria {
	return c.AddAndNode(c.NewFilter(column, value, op))
}

// AddAnd is AddFilter.
func (c *Criteria) AddAnd(column string, value any, op Operator) *Criteria {
	return c.AddAndNode(c.NewFilter(column, value, op))
}

// AddOr ORs a comparison into the filter on the same column, or into the
// last filter.
func (c *Criteria) AddOr(column string, value any, op Operator) *Criteria {
	return c.AddOrNode(c.NewFilter(column, value, op))
}

// AddFilterNode is AddAndNode.
func (c *Criteria) AddFilterNode(f Filter) *Criteria {
	return c.AddAndNode(f)
}

// AddAndNode merges f into the top-level filter whose first column is f's
// first column, or appends it as a new top-level clause.
func (c *Criteria) AddAndNode(f Filter) *Criteria {
	if col, ok := firstColumn(f); ok {
		for i, existing := range c.filters {
			ec, ok := firstColumn(existing)
			if !ok || !ec.Same(col) {
				continue
			}
			if comb, ok := existing.(*Combined); ok && comb.Operator == And {
				comb.Children = append(comb.Children, f)
			} else {
				c.filters[i] = &Combined{Operator: And, Children: []Filter{existing, f}}
			}
			return c
		}
	}
	c.filters = append(c.filters, f)
	return c
}

// AddOrNode folds f as an OR group into the top-level filter whose first
// column is f's first column, or into the last filter when none matches.
func (c *Criteria) AddOrNode(f Filter) *Criteria {
	n := len(c.filters)
	if n == 0 {
		c.filters = append(c.filters, f)
		return c
	}

	target := n - 1
	if col, ok := firstColumn(f); ok {
		for i, existing := range c.filters {
			if ec, ok := firstColumn(existing); ok && ec.Same(col) {
				target = i
				break
			}
		}
	}

	existing := c.filters[target]
	if comb, ok := existing.(*Combined); ok && comb.Operator == Or {
		comb.Children = append(comb.Children, f)
	} else {
		c.filters[target] = &Combined{Operator: Or, Children: []Filter{existing, f}}
	}
	return c
}

// AddRawFilter appends a SQL fragment whose "?" placeholders bind values
// with type typ.
func (c *Criteria) AddRawFilter(clause string, typ bind.SqlType, values ...any) *Criteria {
	c.filters = append(c.filters, c.newRaw(clause, typ, values))
	return c
}

// NewRawFilter builds a raw fragment without adding it.
func (c *Criteria) NewRawFilter(clause string, typ bind.SqlType, values ...any) Filter {
	return c.newRaw(clause, typ, values)
}

func (c *Criteria) newRaw(clause string, typ bind.SqlType, values []any) *Raw {
	return &Raw{
		Clause: clause,
		Values: values,
		Type:   typ,
		Column: c.leadingColumn(clause),
	}
}

// leadingColumn detects a clause starting with "table.column".
func (c *Criteria) leadingColumn(clause string) ResolvedColumn {
	s := strings.TrimLeft(clause, " (")
	end := strings.IndexFunc(s, func(r rune) bool {
		return !(r == '_' || r == '.' || r == '$' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
	})
	if end >= 0 {
		s = s[:end]
	}
	if !strings.Contains(s, ".") {
		return ResolvedColumn{}
	}
	return c.Resolver().Resolve(s)
}

// Filters returns the top-level filters, joined with AND when rendered.
func (c *Criteria) Filters() []Filter { return c.filters }

// FilterFor returns the top-level filter whose first column is column.
func (c *Criteria) FilterFor(column string) (Filter, bool) {
	col := c.resolveQuiet(column)
	for _, f := range c.filters {
		if fc, ok := firstColumn(f); ok && fc.Same(col) {
			return f, true
		}
	}
	return nil, false
}

// LastFilter returns the most recently added top-level filter.
func (c *Criteria) LastFilter() (Filter, bool) {
	if len(c.filters) == 0 {
		return nil, false
	}
	return c.filters[len(c.filters)-1], true
}

// RemoveFilter drops the top-level filter whose first column is column
// and returns it.
func (c *Criteria) RemoveFilter(column string) (Filter, bool) {
	col := c.resolveQuiet(column)
	for i, f := range c.filters {
		if fc, ok := firstColumn(f); ok && fc.Same(col) {
			c.filters = slices.Delete(c.filters, i, i+1)
			return f, true
		}
	}
	return nil, false
}

func (c *Criteria) ClearFilters() *Criteria {
	c.filters = nil
	return c
}

// Named conditions

// AddCond registers a comparison under name for a later Combine.
func (c *Criteria) AddCond(name, column string, value any, op Operator) *Criteria {
	return c.addNamed(name, c.NewFilter(column, value, op))
}

// Condition registers a raw clause under name for a later Combine.
func (c *Criteria) Condition(name, clause string, values ...any) *Criteria {
	return c.addNamed(name, c.newRaw(clause, "", values))
}

func (c *Criteria) addNamed(name string, f Filter) *Criteria {
	if c.named == nil {
		c.named = make(map[string]Filter)
	}
	c.named[name] = f
	return c
}

// HasCond reports whether a named condition is pending.
func (c *Criteria) HasCond(name string) bool {
	_, ok := c.named[name]
	return ok
}

// Cond returns a pending named condition without consuming it.
func (c *Criteria) Cond(name string) (Filter, bool) {
	f, ok := c.named[name]
	return f, ok
}

// Combine removes the named conditions and joins them with op. With a
// name, the result is registered for further combination; otherwise it
// is added as a filter. Nothing changes if any name is unknown or listed
// twice.
func (c *Criteria) Combine(names []string, op LogicalOp, name string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if !c.HasCond(n) {
			return &UnknownFilterNameError{Name: n}
		}
		if seen[n] {
			return &DuplicateFilterNameError{Name: n}
		}
		seen[n] = true
	}

	combined := &Combined{Operator: op, Children: make([]Filter, 0, len(names))}
	for _, n := range names {
		combined.Children = append(combined.Children, c.named[n])
		delete(c.named, n)
	}

	if name != "" {
		c.addNamed(name, combined)
		return nil
	}
	c.AddAndNode(combined)
	return nil
}

// Update values

// SetUpdateValue assigns value to column for INSERT or UPDATE. typ may be
// empty to use the schema type.
func (c *Criteria) SetUpdateValue(column string, value any, typ bind.SqlType) *Criteria {
	col := c.Resolve(column)
	c.updates.set(&UpdateColumn{Expression: col.Key(), Column: col, Value: value, Type: typ})
	return c
}

// SetUpdateExpression assigns a SQL expression, e.g. "stock + ?".
func (c *Criteria) SetUpdateExpression(column, expr string, values ...any) *Criteria {
	col := c.Resolve(column)
	c.updates.set(&UpdateColumn{Expression: col.Key(), Column: col, Raw: expr, Values: values})
	return c
}

func (c *Criteria) RemoveUpdateValue(column string) bool {
	return c.updates.remove(c.resolveQuiet(column).Key())
}

func (c *Criteria) HasUpdateValue(column string) bool {
	_, ok := c.updates.get(c.resolveQuiet(column).Key())
	return ok
}

func (c *Criteria) UpdateValue(column string) (*UpdateColumn, bool) {
	return c.updates.get(c.resolveQuiet(column).Key())
}

// UpdateValues returns assignments in first-set order.
func (c *Criteria) UpdateValues() []*UpdateColumn {
	return c.updates.Columns()
}

// Joins

// AddJoin joins on left=right.
func (c *Criteria) AddJoin(left, right string, typ JoinType) *Criteria {
	c.addJoin(c.newJoin([]JoinPair{{Left: left, Right: right}}, typ))
	return c
}

// AddJoinColumns joins on pairs of left and right columns. The lists must
// have the same length.
func (c *Criteria) AddJoinColumns(left, right []string, typ JoinType) error {
	if len(left) != len(right) || len(left) == 0 {
		return &MalformedJoinError{Left: len(left), Right: len(right)}
	}
	pairs := make([]JoinPair, len(left))
	for i := range left {
		pairs[i] = JoinPair{Left: left[i], Right: right[i]}
	}
	c.addJoin(c.newJoin(pairs, typ))
	return nil
}

// AddJoinWithCondition joins on left=right AND cond.
func (c *Criteria) AddJoinWithCondition(left, right string, typ JoinType, cond Filter) *Criteria {
	j := c.newJoin([]JoinPair{{Left: left, Right: right}}, typ)
	j.Condition = cond
	c.addJoin(j)
	return c
}

// AddMultipleJoin joins on all pairs. Missing operators default to
// Equal and a missing type to InnerJoin.
func (c *Criteria) AddMultipleJoin(pairs []JoinPair, typ JoinType) *Criteria {
	if len(pairs) == 0 {
		return c
	}
	c.addJoin(c.newJoin(pairs, typ))
	return c
}

func (c *Criteria) newJoin(pairs []JoinPair, typ JoinType) *Join {
	j := &Join{Type: typ.orDefault()}
	for _, p := range pairs {
		op := p.Operator
		if op == "" {
			op = Equal
		}
		j.Left = append(j.Left, c.Resolve(p.Left))
		// The right side may be a literal such as 3.
		j.Right = append(j.Right, c.resolveQuiet(p.Right))
		j.Operators = append(j.Operators, op)
	}
	return j
}

func (c *Criteria) addJoin(j *Join) {
	if !c.joins.Add(j) {
		slog.Debug("duplicate join ignored", "left", j.LeftTable(), "right", j.RightTable(), "type", j.Type)
	}
}

// Joins returns joins in insertion order.
func (c *Criteria) Joins() []*Join { return c.joins.Joins() }

// Projection

func (c *Criteria) AddSelectColumn(columns ...string) *Criteria {
	c.selectColumns = append(c.selectColumns, columns...)
	return c
}

func (c *Criteria) ClearSelectColumns() *Criteria {
	c.selectColumns = nil
	c.asColumns = nil
	return c
}

func (c *Criteria) SelectColumns() []string { return c.selectColumns }

// AddAsColumn selects expr AS alias. Re-adding an alias replaces its
// expression in place.
func (c *Criteria) AddAsColumn(alias, expr string) *Criteria {
	for i := range c.asColumns {
		if c.asColumns[i].Alias == alias {
			c.asColumns[i].Expression = expr
			return c
		}
	}
	c.asColumns = append(c.asColumns, AsColumn{Alias: alias, Expression: expr})
	return c
}

func (c *Criteria) AsColumns() []AsColumn { return c.asColumns }

// SetAsColumns replaces the as-columns wholesale.
func (c *Criteria) SetAsColumns(cols []AsColumn) *Criteria {
	c.asColumns = cols
	return c
}

// SetSelectColumns replaces the select columns wholesale.
func (c *Criteria) SetSelectColumns(cols []string) *Criteria {
	c.selectColumns = cols
	return c
}

func (c *Criteria) HasSelectClause() bool {
	return len(c.selectColumns) > 0 || len(c.asColumns) > 0
}

// AddAlias registers alias for table.
func (c *Criteria) AddAlias(alias, table string) *Criteria {
	if c.aliases == nil {
		c.aliases = make(map[string]string)
	}
	c.aliases[alias] = table
	return c
}

func (c *Criteria) TableForAlias(alias string) (string, bool) {
	t, ok := c.aliases[alias]
	return t, ok
}

// Grouping and ordering

func (c *Criteria) AddGroupByColumn(column string) *Criteria {
	c.groupBy = append(c.groupBy, column)
	return c
}

func (c *Criteria) GroupByColumns() []string { return c.groupBy }

func (c *Criteria) SetHaving(f Filter) *Criteria {
	c.having = f
	return c
}

// AddHaving ANDs a comparison into HAVING.
func (c *Criteria) AddHaving(column string, value any, op Operator) *Criteria {
	return c.andHaving(c.NewFilter(column, value, op))
}

// AddHavingRaw ANDs a raw clause into HAVING.
func (c *Criteria) AddHavingRaw(clause string, typ bind.SqlType, values ...any) *Criteria {
	return c.andHaving(c.newRaw(clause, typ, values))
}

func (c *Criteria) andHaving(f Filter) *Criteria {
	switch h := c.having.(type) {
	case nil:
		c.having = f
	case *Combined:
		if h.Operator == And {
			h.Children = append(h.Children, f)
			return c
		}
		c.having = &Combined{Operator: And, Children: []Filter{h, f}}
	default:
		c.having = &Combined{Operator: And, Children: []Filter{h, f}}
	}
	return c
}

func (c *Criteria) Having() Filter { return c.having }

func (c *Criteria) AddAscendingOrderByColumn(column string) *Criteria {
	c.orderBy = append(c.orderBy, OrderBy{Column: column, Direction: Ascending})
	return c
}

func (c *Criteria) AddDescendingOrderByColumn(column string) *Criteria {
	c.orderBy = append(c.orderBy, OrderBy{Column: column, Direction: Descending})
	return c
}

func (c *Criteria) ClearOrderByColumns() *Criteria {
	c.orderBy = nil
	return c
}

func (c *Criteria) OrderByColumns() []OrderBy { return c.orderBy }

// Select modifiers

// SetDistinct adds DISTINCT, replacing ALL in place.
func (c *Criteria) SetDistinct() *Criteria {
	return c.swapModifier(All, Distinct)
}

// SetAll adds ALL, replacing DISTINCT in place.
func (c *Criteria) SetAll() *Criteria {
	return c.swapModifier(Distinct, All)
}

func (c *Criteria) swapModifier(from, to string) *Criteria {
	if i := slices.Index(c.modifiers, from); i >= 0 {
		c.modifiers[i] = to
		return c
	}
	if !c.HasSelectModifier(to) {
		c.modifiers = append(c.modifiers, to)
	}
	return c
}

// AddSelectModifier adds a modifier once.
func (c *Criteria) AddSelectModifier(m string) *Criteria {
	switch strings.ToUpper(m) {
	case Distinct:
		return c.SetDistinct()
	case All:
		return c.SetAll()
	}
	if !c.HasSelectModifier(m) {
		c.modifiers = append(c.modifiers, m)
	}
	return c
}

func (c *Criteria) RemoveSelectModifier(m string) *Criteria {
	c.modifiers = slices.DeleteFunc(c.modifiers, func(s string) bool { return s == m })
	return c
}

func (c *Criteria) HasSelectModifier(m string) bool {
	return slices.Contains(c.modifiers, m)
}

func (c *Criteria) SelectModifiers() []string { return c.modifiers }

// Scalars

// SetLimit sets the row limit; negative means unbounded.
func (c *Criteria) SetLimit(n int64) *Criteria {
	c.limit = n
	return c
}

func (c *Criteria) Limit() int64 { return c.limit }

// SetOffset sets the row offset; zero or negative means none.
func (c *Criteria) SetOffset(n int64) *Criteria {
	c.offset = n
	return c
}

func (c *Criteria) Offset() int64 { return c.offset }

// LockForShare requests a shared row lock.
func (c *Criteria) LockForShare(tables ...string) *Criteria {
	c.lock = &Lock{Type: LockShared, TableNames: tables}
	return c
}

// LockForUpdate requests an exclusive row lock.
func (c *Criteria) LockForUpdate(tables []string, noWait bool) *Criteria {
	c.lock = &Lock{Type: LockExclusive, TableNames: tables, NoWait: noWait}
	return c
}

func (c *Criteria) WithoutLock() *Criteria {
	c.lock = nil
	return c
}

// Lock returns the requested lock, or nil.
func (c *Criteria) Lock() *Lock { return c.lock }

// SetComment sets a comment rendered after SELECT; "" removes it.
func (c *Criteria) SetComment(comment string) *Criteria {
	c.comment = comment
	return c
}

func (c *Criteria) Comment() string { return c.comment }

// SetIdentifierQuoting forces identifier quoting on or off, overriding
// table settings.
func (c *Criteria) SetIdentifierQuoting(on bool) *Criteria {
	if on {
		c.quoting = quotingOn
	} else {
		c.quoting = quotingOff
	}
	return c
}

func (c *Criteria) IsIdentifierQuotingEnabled() bool {
	return c.quoting == quotingOn
}

// SetIgnoreCase makes string comparisons case-insensitive by default.
func (c *Criteria) SetIgnoreCase(on bool) *Criteria {
	c.ignoreCase = on
	return c
}

func (c *Criteria) IsIgnoreCase() bool { return c.ignoreCase }

// Sub-queries

// AddSubquery uses sub as a FROM source. An empty alias becomes alias_N.
func (c *Criteria) AddSubquery(sub *Criteria, alias string) *Criteria {
	if alias == "" {
		alias = "alias_" + strconv.Itoa(len(c.subqueries)+1)
	}
	c.subqueries = append(c.subqueries, Subquery{Alias: alias, Criteria: sub})
	return c
}

func (c *Criteria) Subqueries() []Subquery { return c.subqueries }

// Exists adds EXISTS (sub).
func (c *Criteria) Exists(sub *Criteria) *Criteria {
	return c.AddAndNode(&Exists{Subquery: sub})
}

// NotExists adds NOT EXISTS (sub).
func (c *Criteria) NotExists(sub *Criteria) *Criteria {
	return c.AddAndNode(&Exists{Subquery: sub, Negate: true})
}

// Lifecycle

// Clear resets everything except the schema and primary table.
func (c *Criteria) Clear() *Criteria {
	*c = Criteria{
		schema:       c.schema,
		primaryTable: c.primaryTable,
		limit:        -1,
	}
	return c
}

// Clone returns a deep copy. Filters, joins, update values and
// sub-queries of the copy share nothing with c.
func (c *Criteria) Clone() *Criteria {
	if c == nil {
		return nil
	}
	out := &Criteria{
		schema:        c.schema,
		primaryTable:  c.primaryTable,
		selectColumns: slices.Clone(c.selectColumns),
		asColumns:     slices.Clone(c.asColumns),
		aliases:       maps.Clone(c.aliases),
		joins:         c.joins.clone(),
		groupBy:       slices.Clone(c.groupBy),
		orderBy:       slices.Clone(c.orderBy),
		modifiers:     slices.Clone(c.modifiers),
		updates:       c.updates.clone(),
		limit:         c.limit,
		offset:        c.offset,
		lock:          c.lock.Clone(),
		comment:       c.comment,
		quoting:       c.quoting,
		ignoreCase:    c.ignoreCase,
		warnings:      slices.Clone(c.warnings),
	}
	if c.filters != nil {
		out.filters = make([]Filter, len(c.filters))
		for i, f := range c.filters {
			out.filters[i] = f.Clone()
		}
	}
	if c.named != nil {
		out.named = make(map[string]Filter, len(c.named))
		for k, f := range c.named {
			out.named[k] = f.Clone()
		}
	}
	if c.having != nil {
		out.having = c.having.Clone()
	}
	for _, s := range c.subqueries {
		out.subqueries = append(out.subqueries, Subquery{Alias: s.Alias, Criteria: s.Criteria.Clone()})
	}
	return out
}

// Equal reports structural equality. Top-level filters and joins compare
// as sets; everything order-sensitive in SQL compares in order. Warnings
// and the schema are not compared.
func (c *Criteria) Equal(o *Criteria) bool {
	if c == nil || o == nil {
		return c == nil && o == nil
	}
	if c == o {
		return true
	}
	return c.primaryTable == o.primaryTable &&
		slices.Equal(c.selectColumns, o.selectColumns) &&
		slices.Equal(c.asColumns, o.asColumns) &&
		maps.Equal(c.aliases, o.aliases) &&
		sameFilterSet(c.filters, o.filters) &&
		sameNamed(c.named, o.named) &&
		c.joins.equal(&o.joins) &&
		slices.Equal(c.groupBy, o.groupBy) &&
		equalFilter(c.having, o.having) &&
		slices.Equal(c.orderBy, o.orderBy) &&
		slices.Equal(c.modifiers, o.modifiers) &&
		c.updates.equal(&o.updates) &&
		slices.EqualFunc(c.subqueries, o.subqueries, func(a, b Subquery) bool {
			return a.Alias == b.Alias && a.Criteria.Equal(b.Criteria)
		}) &&
		c.limit == o.limit &&
		c.offset == o.offset &&
		c.lock.Equal(o.lock) &&
		c.comment == o.comment &&
		c.quoting == o.quoting &&
		c.ignoreCase == o.ignoreCase
}

func equalFilter(a, b Filter) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

func sameFilterSet(a, b []Filter) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, f := range a {
		found := false
		for i, g := range b {
			if !used[i] && f.Equal(g) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func sameNamed(a, b map[string]Filter) bool {
	if len(a) != len(b) {
		return false
	}
	for k, f := range a {
		g, ok := b[k]
		if !ok || !f.Equal(g) {
			return false
		}
	}
	return true
}

// NeedsSelectAliases reports whether two select columns, or a select
// column and an as-column, project the same column name, as "book.id" and
// "author.id" do. Such a select list is invalid as a derived table.
func (c *Criteria) NeedsSelectAliases() bool {
	seen := make(map[string]bool, len(c.asColumns)+len(c.selectColumns))
	for _, a := range c.asColumns {
		seen[strings.ToLower(a.Alias)] = true
	}
	for _, expr := range c.selectColumns {
		name := strings.TrimSpace(expr)
		if isIdentifierPath(name) {
			name = name[strings.LastIndexByte(name, '.')+1:]
		}
		name = strings.ToLower(name)
		if seen[name] {
			return true
		}
		seen[name] = true
	}
	return false
}

// TurnSelectColumnsToAliases moves every select column into the as-columns
// under an alias derived from its text. Aliases that collide with existing
// ones get a numeric suffix. Moved columns precede existing as-columns.
func (c *Criteria) TurnSelectColumnsToAliases() *Criteria {
	used := make(map[string]bool, len(c.asColumns)+len(c.selectColumns))
	for _, a := range c.asColumns {
		used[a.Alias] = true
	}

	moved := make([]AsColumn, 0, len(c.selectColumns)+len(c.asColumns))
	for _, expr := range c.selectColumns {
		alias := uniqueAlias(ColumnAlias(expr), used)
		used[alias] = true
		moved = append(moved, AsColumn{Alias: alias, Expression: expr})
	}

	c.asColumns = append(moved, c.asColumns...)
	c.selectColumns = nil
	return c
}

// uniqueAlias returns base, or base_N with the smallest free N.
func uniqueAlias(base string, used map[string]bool) string {
	if !used[base] {
		return base
	}
	return UniqueAlias(base, used)
}

// UniqueAlias returns base_N with the smallest N >= 1 not in used.
func UniqueAlias(base string, used map[string]bool) string {
	for i := 1; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if !used[candidate] {
			return candidate
		}
	}
}
