package criteria

import (
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/roach88/criteria/internal/bind"
)

// Filter is a node of a WHERE or HAVING expression tree.
type Filter interface {
	// Render writes the node's SQL, binding values into rc.
	Render(rc *RenderContext) (string, error)

	// Clone returns a deep copy.
	Clone() Filter

	// Equal reports structural equality.
	Equal(other Filter) bool

	// Columns lists the columns the node references, in order.
	Columns() []ResolvedColumn

	filter()
}

// Comparison compares one column to a value.
type Comparison struct {
	Column   ResolvedColumn
	Operator Operator
	Value    any
	CaseMode CaseMode
}

func (*Comparison) filter() {}

func (f *Comparison) Render(rc *RenderContext) (string, error) {
	lhs := rc.Column(f.Column)
	op := f.Operator
	if op == "" {
		op = Equal
	}

	switch op {
	case Custom:
		clause, ok := f.Value.(string)
		if !ok {
			return "", fmt.Errorf("custom filter on %s: value must be a string, got %T", f.Column, f.Value)
		}
		return clause, nil
	case IsNull, IsNotNull:
		return lhs + " " + string(op), nil
	case In, NotIn:
		return f.renderIn(rc, lhs, op)
	}

	if f.Value == nil {
		switch op {
		case Equal:
			return lhs + " IS NULL", nil
		case NotEqual, AltNotEqual:
			return lhs + " IS NOT NULL", nil
		}
	}

	if kw, ok := f.Value.(Keyword); ok {
		return lhs + op.sql() + string(kw), nil
	}

	if _, isString := f.Value.(string); isString && f.foldsCase(rc) {
		if native, ok := rc.nativeIgnoreCase(op); ok {
			return lhs + native.sql() + f.bind(rc, f.Value), nil
		}
		return rc.upper(lhs) + op.sql() + rc.upper(f.bind(rc, f.Value)), nil
	}

	return lhs + op.sql() + f.bind(rc, f.Value), nil
}

func (f *Comparison) renderIn(rc *RenderContext, lhs string, op Operator) (string, error) {
	values, err := expandValues(f.Value)
	if err != nil {
		return "", fmt.Errorf("%s filter on %s: %w", op, f.Column, err)
	}
	if len(values) == 0 {
		if op == In {
			return "1<>1", nil
		}
		return "1=1", nil
	}

	fold := f.foldsCase(rc) && allStrings(values)
	placeholders := make([]string, len(values))
	for i, v := range values {
		ph := f.bind(rc, v)
		if fold {
			ph = rc.upper(ph)
		}
		placeholders[i] = ph
	}
	if fold {
		lhs = rc.upper(lhs)
	}
	return lhs + op.sql() + "(" + strings.Join(placeholders, ",") + ")", nil
}

func (f *Comparison) bind(rc *RenderContext, v any) string {
	p := bind.Param{Table: f.Column.Table, Column: f.Column.Column, Value: v}
	if f.Column.Map != nil {
		p.Type = f.Column.Map.Type
	}
	return rc.Bind(p)
}

func (f *Comparison) foldsCase(rc *RenderContext) bool {
	switch f.CaseMode {
	case CaseFold:
		return true
	case CaseSensitive:
		return false
	}
	return rc.IgnoreCase
}

func (f *Comparison) Clone() Filter {
	c := *f
	c.Value = cloneValue(f.Value)
	return &c
}

func (f *Comparison) Equal(other Filter) bool {
	o, ok := other.(*Comparison)
	if !ok {
		return false
	}
	return f.Column.Same(o.Column) &&
		f.Operator == o.Operator &&
		f.CaseMode == o.CaseMode &&
		reflect.DeepEqual(f.Value, o.Value)
}

func (f *Comparison) Columns() []ResolvedColumn {
	return []ResolvedColumn{f.Column}
}

// Raw is a SQL fragment with "?" placeholders.
type Raw struct {
	Clause string
	Values []any
	Type   bind.SqlType

	// Column is the leading column of the clause, if it starts with one.
	Column ResolvedColumn
}

func (*Raw) filter() {}

func (f *Raw) Render(rc *RenderContext) (string, error) {
	marks := rawPlaceholders(f.Clause)
	if len(marks) != len(f.Values) {
		return "", fmt.Errorf("raw filter %q: %d placeholders for %d values", f.Clause, len(marks), len(f.Values))
	}
	if len(marks) == 0 {
		return f.Clause, nil
	}

	var b strings.Builder
	prev := 0
	for i, at := range marks {
		b.WriteString(f.Clause[prev:at])
		b.WriteString(rc.Bind(bind.Param{Type: f.Type, Value: f.Values[i]}))
		prev = at + 1
	}
	b.WriteString(f.Clause[prev:])
	return b.String(), nil
}

// rawPlaceholders returns the offsets of "?" outside string literals and
// quoted identifiers.
func rawPlaceholders(clause string) []int {
	var marks []int
	var quote byte
	for i := 0; i < len(clause); i++ {
		c := clause[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '?':
			marks = append(marks, i)
		}
	}
	return marks
}

func (f *Raw) Clone() Filter {
	c := *f
	c.Values = make([]any, len(f.Values))
	for i, v := range f.Values {
		c.Values[i] = cloneValue(v)
	}
	return &c
}

func (f *Raw) Equal(other Filter) bool {
	o, ok := other.(*Raw)
	if !ok {
		return false
	}
	return f.Clause == o.Clause &&
		f.Type == o.Type &&
		f.Column.Same(o.Column) &&
		len(f.Values) == len(o.Values) &&
		(len(f.Values) == 0 || reflect.DeepEqual(f.Values, o.Values))
}

func (f *Raw) Columns() []ResolvedColumn {
	if f.Column.IsEmpty() {
		return nil
	}
	return []ResolvedColumn{f.Column}
}

// Combined joins child filters with AND or OR.
type Combined struct {
	Operator LogicalOp
	Children []Filter
}

func (*Combined) filter() {}

// Render joins the non-empty children. No children render "", a single
// child renders unchanged, more are wrapped in parentheses.
func (f *Combined) Render(rc *RenderContext) (string, error) {
	op := f.Operator
	if op == "" {
		op = And
	}

	parts := make([]string, 0, len(f.Children))
	for _, child := range f.Children {
		s, err := child.Render(rc)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}

	switch len(parts) {
	case 0:
		return "", nil
	case 1:
		return parts[0], nil
	}
	return "(" + strings.Join(parts, " "+string(op)+" ") + ")", nil
}

func (f *Combined) Clone() Filter {
	c := &Combined{Operator: f.Operator, Children: make([]Filter, len(f.Children))}
	for i, child := range f.Children {
		c.Children[i] = child.Clone()
	}
	return c
}

func (f *Combined) Equal(other Filter) bool {
	o, ok := other.(*Combined)
	if !ok || f.Operator != o.Operator {
		return false
	}
	return slices.EqualFunc(f.Children, o.Children, func(a, b Filter) bool { return a.Equal(b) })
}

func (f *Combined) Columns() []ResolvedColumn {
	var cols []ResolvedColumn
	for _, child := range f.Children {
		for _, c := range child.Columns() {
			if !slices.Contains(cols, c) {
				cols = append(cols, c)
			}
		}
	}
	return cols
}

// Exists tests for rows of a sub-query.
type Exists struct {
	Subquery *Criteria
	Negate   bool
}

func (*Exists) filter() {}

func (f *Exists) Render(rc *RenderContext) (string, error) {
	sub, err := rc.Subquery(f.Subquery)
	if err != nil {
		return "", fmt.Errorf("exists sub-query: %w", err)
	}
	if f.Negate {
		return "NOT EXISTS (" + sub + ")", nil
	}
	return "EXISTS (" + sub + ")", nil
}

func (f *Exists) Clone() Filter {
	return &Exists{Subquery: f.Subquery.Clone(), Negate: f.Negate}
}

func (f *Exists) Equal(other Filter) bool {
	o, ok := other.(*Exists)
	return ok && f.Negate == o.Negate && f.Subquery.Equal(o.Subquery)
}

// Columns is empty: the sub-query's tables stay inside the sub-query.
func (f *Exists) Columns() []ResolvedColumn {
	return nil
}

// firstColumn returns the first column a filter references.
func firstColumn(f Filter) (ResolvedColumn, bool) {
	cols := f.Columns()
	if len(cols) == 0 {
		return ResolvedColumn{}, false
	}
	return cols[0], true
}

func (rc *RenderContext) nativeIgnoreCase(op Operator) (Operator, bool) {
	if rc.Adapter == nil {
		return "", false
	}
	native, ok := rc.Adapter.IgnoreCaseOperator(string(op))
	return Operator(native), ok
}

// expandValues flattens a slice or array value for IN comparisons.
func expandValues(v any) ([]any, error) {
	switch vs := v.(type) {
	case nil:
		return nil, nil
	case []any:
		return vs, nil
	case []byte:
		return nil, fmt.Errorf("value must be a list, got %T", v)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return []any{v}, nil
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

func allStrings(values []any) bool {
	for _, v := range values {
		if _, ok := v.(string); !ok {
			return false
		}
	}
	return true
}

// cloneValue copies slice values so clones never share backing arrays.
func cloneValue(v any) any {
	switch vs := v.(type) {
	case []any:
		return slices.Clone(vs)
	case []string:
		return slices.Clone(vs)
	case []int:
		return slices.Clone(vs)
	case []int64:
		return slices.Clone(vs)
	case []byte:
		return slices.Clone(vs)
	}
	return v
}
