package bind

import (
	"fmt"
	"log/slog"
	"time"
)

// Param is one bound value of a rendered statement.
//
// Column filters fill Table and Column. Raw SQL fragments leave Table empty
// and carry the declared Type instead.
type Param struct {
	Table  string  `json:"table,omitempty"`
	Column string  `json:"column,omitempty"`
	Type   SqlType `json:"type,omitempty"`
	Value  any     `json:"value"`
}

// String renders the parameter for diagnostics.
func (p Param) String() string {
	if p.Table != "" {
		return fmt.Sprintf("%s.%s=%v", p.Table, p.Column, p.Value)
	}
	if p.Column != "" {
		return fmt.Sprintf("%s=%v", p.Column, p.Value)
	}
	return fmt.Sprintf("%v", p.Value)
}

// ResolvedType returns the declared type, falling back to inference.
// A value whose type cannot be inferred degrades to TypeOther with a warning.
func (p Param) ResolvedType() SqlType {
	if p.Type != "" {
		return p.Type
	}
	t, ok := InferType(p.Value)
	if !ok {
		slog.Warn("unsupported bind value type",
			"table", p.Table, "column", p.Column, "go_type", fmt.Sprintf("%T", p.Value))
	}
	return t
}

// DriverValue converts the value to something database/sql drivers accept.
func (p Param) DriverValue() any {
	switch v := p.Value.(type) {
	case nil, bool, int64, float64, string, []byte, time.Time:
		return v
	case int:
		return int64(v)
	case int8:
		return int64(v)
	case int16:
		return int64(v)
	case int32:
		return int64(v)
	case uint8:
		return int64(v)
	case uint16:
		return int64(v)
	case uint32:
		return int64(v)
	case float32:
		return float64(v)
	case fmt.Stringer:
		return v.String()
	}
	if p.ResolvedType() == TypeOther {
		return fmt.Sprintf("%v", p.Value)
	}
	return p.Value
}

// Values returns the driver values of params in order.
func Values(params []Param) []any {
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p.DriverValue()
	}
	return out
}
