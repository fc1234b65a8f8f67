package criteria

import (
	"errors"
	"strconv"
	"strings"

	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/dialect"
	"github.com/roach88/criteria/internal/schema"
)

// SubqueryRenderer renders a nested Criteria as a SELECT inside rc, binding
// its parameters into rc's shared list.
type SubqueryRenderer func(rc *RenderContext, sub *Criteria) (string, error)

// RenderContext carries the state shared by every fragment of one statement.
type RenderContext struct {
	Adapter    dialect.Adapter
	Schema     schema.Map
	IgnoreCase bool

	quoting  quoting
	subquery SubqueryRenderer
	params   *[]bind.Param
}

// NewRenderContext creates a context for rendering c with adapter.
// sub renders EXISTS and FROM sub-queries; it may be nil when c has none.
func NewRenderContext(adapter dialect.Adapter, c *Criteria, sub SubqueryRenderer) *RenderContext {
	params := make([]bind.Param, 0, 8)
	rc := &RenderContext{
		Adapter:  adapter,
		subquery: sub,
		params:   &params,
	}
	if c != nil {
		rc.Schema = c.schema
		rc.IgnoreCase = c.ignoreCase
		rc.quoting = c.quoting
	}
	return rc
}

// For returns a context rendering c that shares rc's parameter list.
func (rc *RenderContext) For(c *Criteria) *RenderContext {
	child := *rc
	child.Schema = c.schema
	child.IgnoreCase = c.ignoreCase
	child.quoting = c.quoting
	if child.Schema == nil {
		child.Schema = rc.Schema
	}
	return &child
}

// Params returns the parameters bound so far, in placeholder order.
func (rc *RenderContext) Params() []bind.Param {
	return *rc.params
}

// Bind appends p and returns its placeholder.
func (rc *RenderContext) Bind(p bind.Param) string {
	*rc.params = append(*rc.params, p)
	return ":p" + strconv.Itoa(len(*rc.params))
}

// Subquery renders sub inline, continuing the placeholder numbering.
func (rc *RenderContext) Subquery(sub *Criteria) (string, error) {
	if rc.subquery == nil {
		return "", errors.New("sub-query rendering is not available in this context")
	}
	return rc.subquery(rc.For(sub), sub)
}

// Quoted reports whether identifiers of table must be quoted. An explicit
// Criteria setting wins; otherwise the table map decides. table may carry
// a trailing " alias".
func (rc *RenderContext) Quoted(table string) bool {
	switch rc.quoting {
	case quotingOn:
		return true
	case quotingOff:
		return false
	}
	if rc.Schema == nil || table == "" {
		return false
	}
	if i := strings.LastIndexByte(table, ' '); i >= 0 {
		table = table[:i]
	}
	tm, ok := rc.Schema.Table(table)
	return ok && tm.IdentifierQuoting
}

// Column renders a resolved column. Literals are never quoted.
func (rc *RenderContext) Column(c ResolvedColumn) string {
	if c.IsLiteral() {
		return c.Column
	}
	if rc.Adapter != nil && rc.Quoted(c.Table) {
		return rc.Adapter.QuoteIdentifierTable(c.TableRef()) + "." + rc.Adapter.QuoteIdentifier(c.Column)
	}
	return c.TableRef() + "." + c.Column
}

// Table renders a FROM entry, "table" or "table alias".
func (rc *RenderContext) Table(entry string) string {
	if rc.Adapter != nil && rc.Quoted(entry) {
		return rc.Adapter.QuoteIdentifierTable(entry)
	}
	return entry
}

// Identifier renders a bare identifier belonging to table.
func (rc *RenderContext) Identifier(table, name string) string {
	if rc.Adapter != nil && rc.Quoted(table) {
		return rc.Adapter.QuoteIdentifier(name)
	}
	return name
}

func (rc *RenderContext) upper(expr string) string {
	if rc.Adapter == nil {
		return "UPPER(" + expr + ")"
	}
	return rc.Adapter.IgnoreCase(expr)
}

// quoting is the Criteria-level identifier quoting override.
type quoting uint8

const (
	quotingDefault quoting = iota
	quotingOn
	quotingOff
)
