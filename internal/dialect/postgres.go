package dialect

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/lib/pq"
)

// ErrNoSequence is returned when a sequence-backed id is requested for a
// table without a sequence name.
var ErrNoSequence = errors.New("no sequence name configured")

// Postgres renders for github.com/lib/pq.
type Postgres struct{}

var _ Adapter = Postgres{}

func (Postgres) Name() string       { return "pgsql" }
func (Postgres) DriverName() string { return "postgres" }

func (Postgres) QuoteIdentifier(name string) string {
	return pq.QuoteIdentifier(name)
}

func (a Postgres) QuoteIdentifierTable(name string) string {
	return quoteTable(name, a.QuoteIdentifier)
}

func (Postgres) IgnoreCase(expr string) string { return "UPPER(" + expr + ")" }

func (Postgres) IgnoreCaseOperator(op string) (string, bool) {
	switch strings.ToUpper(op) {
	case "LIKE":
		return "ILIKE", true
	case "NOT LIKE":
		return "NOT ILIKE", true
	}
	return "", false
}

func (Postgres) LimitClause(offset, limit int64) string {
	var parts []string
	if limit >= 0 {
		parts = append(parts, "LIMIT "+strconv.FormatInt(limit, 10))
	}
	if offset > 0 {
		parts = append(parts, "OFFSET "+strconv.FormatInt(offset, 10))
	}
	return strings.Join(parts, " ")
}

func (Postgres) LockClause(exclusive bool, tables []string, noWait bool) string {
	clause := "FOR SHARE"
	if exclusive {
		clause = "FOR UPDATE"
	}
	if len(tables) > 0 {
		clause += " OF " + strings.Join(tables, ", ")
	}
	if noWait {
		clause += " NOWAIT"
	}
	return clause
}

func (Postgres) JoinedWriteStyle() JoinedWriteStyle { return JoinedWriteUsing }

func (Postgres) BindPlaceholders(query string) string {
	return rewritePlaceholders(query, dollarPlaceholder)
}

func (Postgres) IsGetIDBeforeInsert() bool { return true }
func (Postgres) IsGetIDAfterInsert() bool  { return false }

// GetID draws the next value from the sequence named by info.
func (Postgres) GetID(ctx context.Context, q Querier, info string) (any, error) {
	if info == "" {
		return nil, ErrNoSequence
	}
	return scanID(ctx, q, "SELECT nextval("+pq.QuoteLiteral(info)+")")
}

func (Postgres) LastInsertID(ctx context.Context, q Querier) (any, error) {
	return scanID(ctx, q, "SELECT lastval()")
}
