package dialect

import (
	"context"
	"strconv"
	"strings"
)

// mysqlMaxRows stands in for "no limit" when only an offset is set.
const mysqlMaxRows = "18446744073709551615"

// MySQL renders for github.com/go-sql-driver/mysql.
type MySQL struct{}

var _ Adapter = MySQL{}

func (MySQL) Name() string       { return "mysql" }
func (MySQL) DriverName() string { return "mysql" }

func (MySQL) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (a MySQL) QuoteIdentifierTable(name string) string {
	return quoteTable(name, a.QuoteIdentifier)
}

func (MySQL) IgnoreCase(expr string) string { return "UPPER(" + expr + ")" }

func (MySQL) IgnoreCaseOperator(string) (string, bool) { return "", false }

func (MySQL) LimitClause(offset, limit int64) string {
	switch {
	case limit >= 0 && offset > 0:
		return "LIMIT " + strconv.FormatInt(offset, 10) + ", " + strconv.FormatInt(limit, 10)
	case limit >= 0:
		return "LIMIT " + strconv.FormatInt(limit, 10)
	case offset > 0:
		return "LIMIT " + strconv.FormatInt(offset, 10) + ", " + mysqlMaxRows
	}
	return ""
}

func (MySQL) LockClause(exclusive bool, tables []string, noWait bool) string {
	switch {
	case exclusive && noWait:
		return "FOR UPDATE NOWAIT"
	case exclusive:
		return "FOR UPDATE"
	case noWait:
		return "FOR SHARE NOWAIT"
	}
	return "LOCK IN SHARE MODE"
}

func (MySQL) JoinedWriteStyle() JoinedWriteStyle { return JoinedWriteInline }

func (MySQL) BindPlaceholders(query string) string {
	return rewritePlaceholders(query, questionPlaceholder)
}

func (MySQL) IsGetIDBeforeInsert() bool { return false }
func (MySQL) IsGetIDAfterInsert() bool  { return true }

func (a MySQL) GetID(ctx context.Context, q Querier, _ string) (any, error) {
	return a.LastInsertID(ctx, q)
}

func (MySQL) LastInsertID(ctx context.Context, q Querier) (any, error) {
	return scanID(ctx, q, "SELECT LAST_INSERT_ID()")
}
