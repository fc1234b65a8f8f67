package criteria

import (
	"slices"
	"strings"
)

// Join relates a left table to a right table through column pairs.
type Join struct {
	Left      []ResolvedColumn
	Right     []ResolvedColumn
	Operators []Operator
	Type      JoinType

	// Condition is ANDed after the column pairs inside ON (...).
	Condition Filter
}

// LeftTable is the FROM entry of the first left column.
func (j *Join) LeftTable() string {
	return firstTable(j.Left)
}

// RightTable is the FROM entry of the first right column that has a table.
func (j *Join) RightTable() string {
	return firstTable(j.Right)
}

func firstTable(cols []ResolvedColumn) string {
	for _, c := range cols {
		if !c.IsLiteral() {
			return c.FromEntry()
		}
	}
	return ""
}

func (j *Join) operator(i int) Operator {
	if i < len(j.Operators) && j.Operators[i] != "" {
		return j.Operators[i]
	}
	return Equal
}

// SameAs reports structural equality of column pairs, operators and type.
// The custom condition is not compared.
func (j *Join) SameAs(o *Join) bool {
	if j.Type.orDefault() != o.Type.orDefault() ||
		!slices.EqualFunc(j.Left, o.Left, ResolvedColumn.Same) ||
		!slices.EqualFunc(j.Right, o.Right, ResolvedColumn.Same) {
		return false
	}
	for i := range j.Left {
		if j.operator(i) != o.operator(i) {
			return false
		}
	}
	return true
}

// Equal is SameAs plus an equal condition.
func (j *Join) Equal(o *Join) bool {
	if !j.SameAs(o) {
		return false
	}
	if j.Condition == nil || o.Condition == nil {
		return j.Condition == nil && o.Condition == nil
	}
	return j.Condition.Equal(o.Condition)
}

func (j *Join) Clone() *Join {
	c := &Join{
		Left:      slices.Clone(j.Left),
		Right:     slices.Clone(j.Right),
		Operators: slices.Clone(j.Operators),
		Type:      j.Type,
	}
	if j.Condition != nil {
		c.Condition = j.Condition.Clone()
	}
	return c
}

// Render writes "TYPE right ON (l1=r1 AND l2=r2)".
func (j *Join) Render(rc *RenderContext) (string, error) {
	conds := make([]string, 0, len(j.Left)+1)
	for i := range j.Left {
		conds = append(conds, rc.Column(j.Left[i])+j.operator(i).sql()+rc.Column(j.Right[i]))
	}
	if j.Condition != nil {
		s, err := j.Condition.Render(rc)
		if err != nil {
			return "", err
		}
		if s != "" {
			conds = append(conds, s)
		}
	}
	return string(j.Type.orDefault()) + " " + rc.Table(j.RightTable()) +
		" ON (" + strings.Join(conds, " AND ") + ")", nil
}

// OnClause renders only the join condition, for dialects that move joined
// tables out of the JOIN syntax.
func (j *Join) OnClause(rc *RenderContext) (string, error) {
	s, err := j.Render(rc)
	if err != nil {
		return "", err
	}
	return s[strings.Index(s, " ON ")+4:], nil
}

// JoinRegistry is an ordered list of structurally distinct joins.
type JoinRegistry struct {
	joins []*Join
}

// Add appends j unless a structurally identical join exists.
func (r *JoinRegistry) Add(j *Join) bool {
	for _, existing := range r.joins {
		if existing.SameAs(j) {
			return false
		}
	}
	r.joins = append(r.joins, j)
	return true
}

// Joins returns joins in insertion order.
func (r *JoinRegistry) Joins() []*Join {
	return r.joins
}

func (r *JoinRegistry) Len() int {
	return len(r.joins)
}

func (r *JoinRegistry) clone() JoinRegistry {
	out := JoinRegistry{joins: make([]*Join, len(r.joins))}
	for i, j := range r.joins {
		out.joins[i] = j.Clone()
	}
	return out
}

// equal compares registries as sets.
func (r *JoinRegistry) equal(o *JoinRegistry) bool {
	if len(r.joins) != len(o.joins) {
		return false
	}
	for _, j := range r.joins {
		if !slices.ContainsFunc(o.joins, j.Equal) {
			return false
		}
	}
	return true
}
