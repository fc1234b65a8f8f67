package harness

import (
	"bytes"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/schema"
)

// Query is a declarative description of a Criteria.
type Query struct {
	// Table is the primary table. It may be empty when Subqueries
	// provide the FROM sources.
	Table string `yaml:"table"`

	Select  []string          `yaml:"select,omitempty"`
	As      []AsColumn        `yaml:"as,omitempty"`
	Aliases map[string]string `yaml:"aliases,omitempty"`

	Distinct  bool     `yaml:"distinct,omitempty"`
	Modifiers []string `yaml:"modifiers,omitempty"`

	Subqueries []SubqueryDoc `yaml:"subqueries,omitempty"`
	Joins      []JoinDoc     `yaml:"joins,omitempty"`
	Filters    []FilterDoc   `yaml:"filters,omitempty"`

	// Conditions are named filters consumed by Combine.
	Conditions []ConditionDoc `yaml:"conditions,omitempty"`
	Combine    []CombineDoc   `yaml:"combine,omitempty"`

	GroupBy []string    `yaml:"group_by,omitempty"`
	Having  []FilterDoc `yaml:"having,omitempty"`

	// OrderBy entries are "column" or "column ASC|DESC".
	OrderBy []string `yaml:"order_by,omitempty"`

	Limit  *int64   `yaml:"limit,omitempty"`
	Offset int64    `yaml:"offset,omitempty"`
	Lock   *LockDoc `yaml:"lock,omitempty"`

	Comment    string `yaml:"comment,omitempty"`
	Quoting    *bool  `yaml:"quoting,omitempty"`
	IgnoreCase bool   `yaml:"ignore_case,omitempty"`

	// Values are INSERT/UPDATE assignments.
	Values []ValueDoc `yaml:"values,omitempty"`
}

// AsColumn is an aliased select expression.
type AsColumn struct {
	Alias string `yaml:"alias"`
	Expr  string `yaml:"expr"`
}

// SubqueryDoc is a FROM sub-select.
type SubqueryDoc struct {
	Alias string `yaml:"alias,omitempty"`
	Query Query  `yaml:"query"`
}

// JoinDoc describes one join. Use Left/Right for a single column pair or
// LeftColumns/RightColumns for a composite key.
type JoinDoc struct {
	Left         string     `yaml:"left,omitempty"`
	Right        string     `yaml:"right,omitempty"`
	LeftColumns  []string   `yaml:"left_columns,omitempty"`
	RightColumns []string   `yaml:"right_columns,omitempty"`
	Type         string     `yaml:"type,omitempty"`
	Condition    *FilterDoc `yaml:"condition,omitempty"`
}

// FilterDoc is one filter. Exactly one of Column, Raw, Exists or
// NotExists is set.
type FilterDoc struct {
	Column  string `yaml:"column,omitempty"`
	Op      string `yaml:"op,omitempty"`
	Value   any    `yaml:"value,omitempty"`
	Keyword string `yaml:"keyword,omitempty"`

	// IgnoreCase overrides the query's ignore_case for this filter.
	IgnoreCase *bool `yaml:"ignore_case,omitempty"`

	Raw    string `yaml:"raw,omitempty"`
	Type   string `yaml:"type,omitempty"`
	Values []any  `yaml:"values,omitempty"`

	Exists    *Query `yaml:"exists,omitempty"`
	NotExists *Query `yaml:"not_exists,omitempty"`

	// Or folds the filter with OR into the filter on the same column, or
	// into the previous one.
	Or bool `yaml:"or,omitempty"`
}

// ConditionDoc is a named filter.
type ConditionDoc struct {
	Name      string `yaml:"name"`
	FilterDoc `yaml:",inline"`
}

// CombineDoc merges named conditions. An empty Name adds the result as
// a filter.
type CombineDoc struct {
	Names []string `yaml:"names"`
	Op    string   `yaml:"op,omitempty"`
	Name  string   `yaml:"name,omitempty"`
}

// LockDoc requests a row lock.
type LockDoc struct {
	// Type is "share" or "update".
	Type   string   `yaml:"type"`
	Tables []string `yaml:"tables,omitempty"`
	NoWait bool     `yaml:"no_wait,omitempty"`
}

// ValueDoc is one column assignment. Expr, when set, is a SQL
// expression whose "?" placeholders bind Values.
type ValueDoc struct {
	Column string `yaml:"column"`
	Value  any    `yaml:"value,omitempty"`
	Type   string `yaml:"type,omitempty"`
	Expr   string `yaml:"expr,omitempty"`
	Values []any  `yaml:"values,omitempty"`
}

// ParseQuery decodes a query document. Unknown fields are rejected.
func ParseQuery(data []byte) (*Query, error) {
	var q Query
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&q); err != nil {
		return nil, fmt.Errorf("failed to parse query: %w", err)
	}
	return &q, nil
}

// LoadQuery reads and decodes a query document.
func LoadQuery(fs afero.Fs, path string) (*Query, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read query file: %w", err)
	}
	return ParseQuery(data)
}

// Build turns q into a Criteria against m.
func Build(q *Query, m schema.Map) (*criteria.Criteria, error) {
	if q.Table == "" && len(q.Subqueries) == 0 {
		return nil, fmt.Errorf("table is required")
	}

	c := criteria.New(m, q.Table)

	aliases := make([]string, 0, len(q.Aliases))
	for alias := range q.Aliases {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)
	for _, alias := range aliases {
		c.AddAlias(alias, q.Aliases[alias])
	}

	for i, sq := range q.Subqueries {
		sub, err := Build(&sq.Query, m)
		if err != nil {
			return nil, fmt.Errorf("subqueries[%d]: %w", i, err)
		}
		c.AddSubquery(sub, sq.Alias)
	}

	c.AddSelectColumn(q.Select...)
	for _, as := range q.As {
		c.AddAsColumn(as.Alias, as.Expr)
	}
	for _, mod := range q.Modifiers {
		c.AddSelectModifier(mod)
	}
	if q.Distinct {
		c.SetDistinct()
	}

	for i, j := range q.Joins {
		if err := addJoin(c, j); err != nil {
			return nil, fmt.Errorf("joins[%d]: %w", i, err)
		}
	}

	for i, fd := range q.Filters {
		if err := addFilter(c, fd, m); err != nil {
			return nil, fmt.Errorf("filters[%d]: %w", i, err)
		}
	}

	for i, cd := range q.Conditions {
		if cd.Name == "" {
			return nil, fmt.Errorf("conditions[%d]: name is required", i)
		}
		if err := addCondition(c, cd); err != nil {
			return nil, fmt.Errorf("conditions[%d]: %w", i, err)
		}
	}
	for i, cb := range q.Combine {
		op, err := criteria.ParseLogicalOp(cb.Op)
		if err != nil {
			return nil, fmt.Errorf("combine[%d]: %w", i, err)
		}
		if err := c.Combine(cb.Names, op, cb.Name); err != nil {
			return nil, fmt.Errorf("combine[%d]: %w", i, err)
		}
	}

	for _, col := range q.GroupBy {
		c.AddGroupByColumn(col)
	}
	for i, fd := range q.Having {
		if err := addHaving(c, fd); err != nil {
			return nil, fmt.Errorf("having[%d]: %w", i, err)
		}
	}

	for _, entry := range q.OrderBy {
		col, dir := splitOrder(entry)
		if dir == criteria.Descending {
			c.AddDescendingOrderByColumn(col)
		} else {
			c.AddAscendingOrderByColumn(col)
		}
	}

	if q.Limit != nil {
		c.SetLimit(*q.Limit)
	}
	c.SetOffset(q.Offset)

	if q.Lock != nil {
		switch strings.ToLower(q.Lock.Type) {
		case "share":
			c.LockForShare(q.Lock.Tables...)
		case "update":
			c.LockForUpdate(q.Lock.Tables, q.Lock.NoWait)
		default:
			return nil, fmt.Errorf("lock: unknown type %q (want share or update)", q.Lock.Type)
		}
	}

	c.SetComment(q.Comment)
	if q.Quoting != nil {
		c.SetIdentifierQuoting(*q.Quoting)
	}
	c.SetIgnoreCase(q.IgnoreCase)

	for i, v := range q.Values {
		if v.Column == "" {
			return nil, fmt.Errorf("values[%d]: column is required", i)
		}
		if v.Expr != "" {
			c.SetUpdateExpression(v.Column, v.Expr, v.Values...)
			continue
		}
		typ, err := sqlType(v.Type)
		if err != nil {
			return nil, fmt.Errorf("values[%d]: %w", i, err)
		}
		c.SetUpdateValue(v.Column, v.Value, typ)
	}

	return c, nil
}

func addJoin(c *criteria.Criteria, j JoinDoc) error {
	typ, err := criteria.ParseJoinType(j.Type)
	if err != nil {
		return err
	}

	if len(j.LeftColumns) > 0 || len(j.RightColumns) > 0 {
		if j.Condition != nil {
			return fmt.Errorf("condition is only supported with left/right")
		}
		return c.AddJoinColumns(j.LeftColumns, j.RightColumns, typ)
	}
	if j.Left == "" || j.Right == "" {
		return fmt.Errorf("left and right are required")
	}

	if j.Condition == nil {
		c.AddJoin(j.Left, j.Right, typ)
		return nil
	}
	cond, err := comparison(c, *j.Condition)
	if err != nil {
		return fmt.Errorf("condition: %w", err)
	}
	c.AddJoinWithCondition(j.Left, j.Right, typ, cond)
	return nil
}

func addFilter(c *criteria.Criteria, fd FilterDoc, m schema.Map) error {
	var f criteria.Filter
	switch {
	case fd.Exists != nil || fd.NotExists != nil:
		if fd.Exists != nil && fd.NotExists != nil {
			return fmt.Errorf("exists and not_exists are mutually exclusive")
		}
		doc, negate := fd.Exists, false
		if doc == nil {
			doc, negate = fd.NotExists, true
		}
		sub, err := Build(doc, m)
		if err != nil {
			return fmt.Errorf("subquery: %w", err)
		}
		f = &criteria.Exists{Subquery: sub, Negate: negate}

	case fd.Raw != "":
		typ, err := sqlType(fd.Type)
		if err != nil {
			return err
		}
		if !fd.Or {
			c.AddRawFilter(fd.Raw, typ, fd.Values...)
			return nil
		}
		f = c.NewRawFilter(fd.Raw, typ, fd.Values...)

	default:
		var err error
		if f, err = comparison(c, fd); err != nil {
			return err
		}
	}

	if fd.Or {
		c.AddOrNode(f)
	} else {
		c.AddAndNode(f)
	}
	return nil
}

func addCondition(c *criteria.Criteria, cd ConditionDoc) error {
	if cd.Raw != "" {
		c.Condition(cd.Name, cd.Raw, cd.Values...)
		return nil
	}
	if cd.Column == "" {
		return fmt.Errorf("column or raw is required")
	}
	op, err := criteria.ParseOperator(cd.Op)
	if err != nil {
		return err
	}
	c.AddCond(cd.Name, cd.Column, filterValue(cd.FilterDoc), op)
	return nil
}

func addHaving(c *criteria.Criteria, fd FilterDoc) error {
	if fd.Raw != "" {
		typ, err := sqlType(fd.Type)
		if err != nil {
			return err
		}
		c.AddHavingRaw(fd.Raw, typ, fd.Values...)
		return nil
	}
	if fd.Column == "" {
		return fmt.Errorf("column or raw is required")
	}
	op, err := criteria.ParseOperator(fd.Op)
	if err != nil {
		return err
	}
	c.AddHaving(fd.Column, filterValue(fd), op)
	return nil
}

func comparison(c *criteria.Criteria, fd FilterDoc) (criteria.Filter, error) {
	if fd.Column == "" {
		return nil, fmt.Errorf("column is required")
	}
	op, err := criteria.ParseOperator(fd.Op)
	if err != nil {
		return nil, err
	}
	f := c.NewFilter(fd.Column, filterValue(fd), op)
	if fd.IgnoreCase != nil {
		cmp := f.(*criteria.Comparison)
		if *fd.IgnoreCase {
			cmp.CaseMode = criteria.CaseFold
		} else {
			cmp.CaseMode = criteria.CaseSensitive
		}
	}
	return f, nil
}

func filterValue(fd FilterDoc) any {
	if fd.Keyword != "" {
		return criteria.Keyword(strings.ToUpper(fd.Keyword))
	}
	return fd.Value
}

func sqlType(name string) (bind.SqlType, error) {
	if name == "" {
		return "", nil
	}
	typ, ok := bind.ParseSqlType(name)
	if !ok {
		return "", fmt.Errorf("unknown sql type %q", name)
	}
	return typ, nil
}

// splitOrder separates a trailing ASC or DESC from an order_by entry.
func splitOrder(entry string) (string, criteria.Direction) {
	fields := strings.Fields(entry)
	if len(fields) >= 2 {
		switch dir := criteria.Direction(strings.ToUpper(fields[len(fields)-1])); dir {
		case criteria.Ascending, criteria.Descending:
			return strings.Join(fields[:len(fields)-1], " "), dir
		}
	}
	return strings.TrimSpace(entry), criteria.Ascending
}
