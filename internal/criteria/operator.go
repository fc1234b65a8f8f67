package criteria

import (
	"fmt"
	"strings"
)

// Operator is a comparison operator.
type Operator string

const (
	Equal        Operator = "="
	NotEqual     Operator = "<>"
	AltNotEqual  Operator = "!="
	GreaterThan  Operator = ">"
	LessThan     Operator = "<"
	GreaterEqual Operator = ">="
	LessEqual    Operator = "<="
	Like         Operator = "LIKE"
	NotLike      Operator = "NOT LIKE"
	ILike        Operator = "ILIKE"
	NotILike     Operator = "NOT ILIKE"
	In           Operator = "IN"
	NotIn        Operator = "NOT IN"
	IsNull       Operator = "IS NULL"
	IsNotNull    Operator = "IS NOT NULL"
	BinaryAnd    Operator = "&"
	BinaryOr     Operator = "|"

	// Custom uses the comparison value, a string, as the whole clause.
	Custom Operator = "CUSTOM"
)

var operators = map[string]Operator{
	"=":           Equal,
	"==":          Equal,
	"<>":          NotEqual,
	"!=":          AltNotEqual,
	">":           GreaterThan,
	"<":           LessThan,
	">=":          GreaterEqual,
	"<=":          LessEqual,
	"LIKE":        Like,
	"NOT LIKE":    NotLike,
	"ILIKE":       ILike,
	"NOT ILIKE":   NotILike,
	"IN":          In,
	"NOT IN":      NotIn,
	"IS NULL":     IsNull,
	"ISNULL":      IsNull,
	"IS NOT NULL": IsNotNull,
	"ISNOTNULL":   IsNotNull,
	"&":           BinaryAnd,
	"|":           BinaryOr,
	"CUSTOM":      Custom,
}

// ParseOperator accepts operator spellings case-insensitively.
func ParseOperator(s string) (Operator, error) {
	key := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if key == "" {
		return Equal, nil
	}
	if op, ok := operators[key]; ok {
		return op, nil
	}
	return "", fmt.Errorf("unknown operator %q", s)
}

// sql returns the operator as it appears between operands. Keyword
// operators carry surrounding spaces, symbols do not.
func (o Operator) sql() string {
	if o == "" {
		return string(Equal)
	}
	if o.isWord() {
		return " " + string(o) + " "
	}
	return string(o)
}

func (o Operator) isWord() bool {
	return o != "" && o[0] >= 'A' && o[0] <= 'Z'
}

// LogicalOp joins filters.
type LogicalOp string

const (
	And LogicalOp = "AND"
	Or  LogicalOp = "OR"
)

// ParseLogicalOp accepts "and"/"or" in any case.
func ParseLogicalOp(s string) (LogicalOp, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "AND":
		return And, nil
	case "OR":
		return Or, nil
	}
	return "", fmt.Errorf("unknown logical operator %q", s)
}

// JoinType is the SQL join keyword.
type JoinType string

const (
	InnerJoin JoinType = "INNER JOIN"
	LeftJoin  JoinType = "LEFT JOIN"
	RightJoin JoinType = "RIGHT JOIN"
)

// ParseJoinType accepts "inner", "left", "right" or the full keyword.
func ParseJoinType(s string) (JoinType, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	key = strings.TrimSuffix(key, " JOIN")
	switch key {
	case "", "INNER":
		return InnerJoin, nil
	case "LEFT":
		return LeftJoin, nil
	case "RIGHT":
		return RightJoin, nil
	}
	return "", fmt.Errorf("unknown join type %q", s)
}

func (t JoinType) orDefault() JoinType {
	if t == "" {
		return InnerJoin
	}
	return t
}

// Keyword is a SQL value rendered verbatim instead of bound.
type Keyword string

const (
	CurrentDate      Keyword = "CURRENT_DATE"
	CurrentTime      Keyword = "CURRENT_TIME"
	CurrentTimestamp Keyword = "CURRENT_TIMESTAMP"
)

// CaseMode controls case-insensitive comparison for a single filter.
type CaseMode int

const (
	// CaseInherit follows the Criteria's ignore-case flag.
	CaseInherit CaseMode = iota
	CaseFold
	CaseSensitive
)

// Direction is an ORDER BY direction.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// Select modifiers.
const (
	Distinct = "DISTINCT"
	All      = "ALL"
)
