package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Querier runs single-row queries. *sql.DB, *sql.Conn and *sql.Tx satisfy it.
type Querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// JoinedWriteStyle selects how UPDATE and DELETE statements express joins.
type JoinedWriteStyle int

const (
	// JoinedWriteInline puts joins between the target and SET/WHERE:
	// UPDATE a INNER JOIN b ON (...) SET ... and DELETE a FROM a INNER JOIN b ON (...).
	JoinedWriteInline JoinedWriteStyle = iota

	// JoinedWriteUsing moves joined tables into UPDATE ... FROM b and
	// DELETE FROM a USING b, with join conditions in WHERE.
	JoinedWriteUsing

	// JoinedWriteUpdateFrom supports UPDATE ... FROM but no joined DELETE.
	JoinedWriteUpdateFrom
)

func (s JoinedWriteStyle) String() string {
	switch s {
	case JoinedWriteInline:
		return "inline"
	case JoinedWriteUsing:
		return "using"
	case JoinedWriteUpdateFrom:
		return "update-from"
	default:
		return fmt.Sprintf("JoinedWriteStyle(%d)", int(s))
	}
}

// Adapter is the per-database strategy consumed by the SQL builders and
// the store.
type Adapter interface {
	// Name is the canonical dialect name: sqlite, pgsql or mysql.
	Name() string

	// DriverName is the database/sql driver registered for this dialect.
	DriverName() string

	// QuoteIdentifier quotes a single identifier.
	QuoteIdentifier(name string) string

	// QuoteIdentifierTable quotes a table reference. Dotted schema names
	// are quoted per part and a trailing " alias" is quoted separately.
	QuoteIdentifierTable(name string) string

	// IgnoreCase wraps an expression for case-insensitive comparison.
	IgnoreCase(expr string) string

	// IgnoreCaseOperator returns a native case-insensitive replacement
	// for a pattern operator, if the dialect has one.
	IgnoreCaseOperator(op string) (string, bool)

	// LimitClause renders the LIMIT/OFFSET tail. A negative limit means
	// no limit. Returns "" when neither applies.
	LimitClause(offset, limit int64) string

	// LockClause renders a row lock clause, or "" if unsupported.
	LockClause(exclusive bool, tables []string, noWait bool) string

	JoinedWriteStyle() JoinedWriteStyle

	// BindPlaceholders rewrites ":pN" placeholders to the driver syntax.
	BindPlaceholders(query string) string

	// IsGetIDBeforeInsert reports whether keys are fetched before INSERT.
	IsGetIDBeforeInsert() bool

	// IsGetIDAfterInsert reports whether keys are fetched after INSERT.
	IsGetIDAfterInsert() bool

	// GetID fetches a generated key. info is the table's id-method
	// setting, typically a sequence name.
	GetID(ctx context.Context, q Querier, info string) (any, error)

	// LastInsertID returns the key generated by the most recent INSERT
	// on the same connection.
	LastInsertID(ctx context.Context, q Querier) (any, error)
}

// quoteTable applies quote to each dotted part of a table name and to an
// optional " alias" suffix.
func quoteTable(name string, quote func(string) string) string {
	table, alias, hasAlias := strings.Cut(strings.TrimSpace(name), " ")
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	out := strings.Join(parts, ".")
	if hasAlias {
		out += " " + quote(strings.TrimSpace(alias))
	}
	return out
}

// scanID runs a single-value id query.
func scanID(ctx context.Context, q Querier, query string) (any, error) {
	var id int64
	if err := q.QueryRowContext(ctx, query).Scan(&id); err != nil {
		return nil, err
	}
	return id, nil
}
