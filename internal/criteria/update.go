package criteria

import (
	"reflect"
	"slices"

	"github.com/roach88/criteria/internal/bind"
)

// UpdateColumn is one column assignment for INSERT or UPDATE.
type UpdateColumn struct {
	// Expression keys the assignment: "table.column" or a literal.
	Expression string
	Column     ResolvedColumn
	Value      any
	Type       bind.SqlType

	// Raw, when set, replaces the bound value with a SQL expression whose
	// "?" placeholders bind Values, e.g. "stock + ?".
	Raw    string
	Values []any
}

// BindType returns the declared type, else the schema column type.
func (u *UpdateColumn) BindType() bind.SqlType {
	if u.Type != "" {
		return u.Type
	}
	if u.Column.Map != nil {
		return u.Column.Map.Type
	}
	return ""
}

func (u *UpdateColumn) equal(o *UpdateColumn) bool {
	return u.Expression == o.Expression &&
		u.Column.Same(o.Column) &&
		u.Type == o.Type &&
		u.Raw == o.Raw &&
		reflect.DeepEqual(u.Value, o.Value) &&
		reflect.DeepEqual(u.Values, o.Values)
}

// UpdateValues is an insertion-ordered map of assignments. Setting an
// existing key replaces its value but keeps its position.
type UpdateValues struct {
	keys  []string
	byKey map[string]*UpdateColumn
}

func (u *UpdateValues) set(col *UpdateColumn) {
	if u.byKey == nil {
		u.byKey = make(map[string]*UpdateColumn)
	}
	if _, ok := u.byKey[col.Expression]; !ok {
		u.keys = append(u.keys, col.Expression)
	}
	u.byKey[col.Expression] = col
}

func (u *UpdateValues) get(key string) (*UpdateColumn, bool) {
	col, ok := u.byKey[key]
	return col, ok
}

func (u *UpdateValues) remove(key string) bool {
	if _, ok := u.byKey[key]; !ok {
		return false
	}
	delete(u.byKey, key)
	u.keys = slices.DeleteFunc(u.keys, func(k string) bool { return k == key })
	return true
}

// Columns returns assignments in first-set order.
func (u *UpdateValues) Columns() []*UpdateColumn {
	out := make([]*UpdateColumn, len(u.keys))
	for i, k := range u.keys {
		out[i] = u.byKey[k]
	}
	return out
}

func (u *UpdateValues) Len() int {
	return len(u.keys)
}

func (u *UpdateValues) clone() UpdateValues {
	out := UpdateValues{keys: slices.Clone(u.keys)}
	if u.byKey != nil {
		out.byKey = make(map[string]*UpdateColumn, len(u.byKey))
		for k, v := range u.byKey {
			c := *v
			c.Value = cloneValue(v.Value)
			c.Values = slices.Clone(v.Values)
			out.byKey[k] = &c
		}
	}
	return out
}

func (u *UpdateValues) equal(o *UpdateValues) bool {
	if !slices.Equal(u.keys, o.keys) {
		return false
	}
	for _, k := range u.keys {
		if !u.byKey[k].equal(o.byKey[k]) {
			return false
		}
	}
	return true
}
