package dialect

import (
	"context"
	"strconv"
	"strings"
)

// SQLite renders for github.com/mattn/go-sqlite3.
type SQLite struct{}

var _ Adapter = SQLite{}

func (SQLite) Name() string       { return "sqlite" }
func (SQLite) DriverName() string { return "sqlite3" }

func (SQLite) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (a SQLite) QuoteIdentifierTable(name string) string {
	return quoteTable(name, a.QuoteIdentifier)
}

func (SQLite) IgnoreCase(expr string) string { return "UPPER(" + expr + ")" }

func (SQLite) IgnoreCaseOperator(string) (string, bool) { return "", false }

// LimitClause uses LIMIT -1 when only an offset is set.
func (SQLite) LimitClause(offset, limit int64) string {
	switch {
	case limit >= 0 && offset > 0:
		return "LIMIT " + strconv.FormatInt(limit, 10) + " OFFSET " + strconv.FormatInt(offset, 10)
	case limit >= 0:
		return "LIMIT " + strconv.FormatInt(limit, 10)
	case offset > 0:
		return "LIMIT -1 OFFSET " + strconv.FormatInt(offset, 10)
	}
	return ""
}

// LockClause is empty: SQLite locks whole databases, not rows.
func (SQLite) LockClause(bool, []string, bool) string { return "" }

func (SQLite) JoinedWriteStyle() JoinedWriteStyle { return JoinedWriteUpdateFrom }

func (SQLite) BindPlaceholders(query string) string {
	return rewritePlaceholders(query, numberedQuestionPlaceholder)
}

func (SQLite) IsGetIDBeforeInsert() bool { return false }
func (SQLite) IsGetIDAfterInsert() bool  { return true }

func (a SQLite) GetID(ctx context.Context, q Querier, _ string) (any, error) {
	return a.LastInsertID(ctx, q)
}

func (SQLite) LastInsertID(ctx context.Context, q Querier) (any, error) {
	return scanID(ctx, q, "SELECT last_insert_rowid()")
}
