package criteria

import (
	"strings"

	"github.com/roach88/criteria/internal/schema"
)

// ResolvedColumn is a column reference normalized to its physical table,
// column and the alias it was referenced through. The zero value is the
// empty column. ResolvedColumn values are comparable with ==.
type ResolvedColumn struct {
	// Column is the physical column name or a literal SQL fragment.
	Column string

	// Table is the physical table name, empty for literals.
	Table string

	// Alias is the table alias used in the reference, if any.
	Alias string

	// Map is the schema column, when known.
	Map *schema.ColumnMap
}

// IsEmpty reports whether the column failed to resolve.
func (c ResolvedColumn) IsEmpty() bool {
	return c.Column == ""
}

// IsLiteral reports whether the column has no table.
func (c ResolvedColumn) IsLiteral() bool {
	return c.Table == ""
}

// TableRef is the name the column is qualified with in SQL: the alias if
// present, the table otherwise.
func (c ResolvedColumn) TableRef() string {
	if c.Alias != "" {
		return c.Alias
	}
	return c.Table
}

// FromEntry is the FROM clause entry for the column's table:
// "table" or "table alias".
func (c ResolvedColumn) FromEntry() string {
	if c.Alias != "" {
		return c.Table + " " + c.Alias
	}
	return c.Table
}

// Key is the unaliased "table.column" form, used to key update values.
func (c ResolvedColumn) Key() string {
	if c.Table == "" {
		return c.Column
	}
	return c.Table + "." + c.Column
}

// Same compares table, column and alias, ignoring the schema map.
func (c ResolvedColumn) Same(o ResolvedColumn) bool {
	return c.Column == o.Column && c.Table == o.Table && c.Alias == o.Alias
}

func (c ResolvedColumn) String() string {
	if c.IsLiteral() {
		return c.Column
	}
	return c.TableRef() + "." + c.Column
}

// IsText reports whether the schema declares the column as character data.
func (c ResolvedColumn) IsText() bool {
	return c.Map != nil && c.Map.IsText()
}

// ColumnResolver maps textual column references to ResolvedColumn values.
type ColumnResolver struct {
	// Aliases maps table aliases to physical table names.
	Aliases map[string]string

	// AsColumns holds select-list aliases, which resolve to themselves.
	AsColumns map[string]bool

	// PrimaryTable qualifies bare column names.
	PrimaryTable string

	// Schema attaches column maps; may be nil.
	Schema schema.Map
}

// Resolve normalizes reference. It returns the empty column when a bare
// name is not a column of the primary table, or when the reference is an
// expression rather than a column.
func (r ColumnResolver) Resolve(reference string) ResolvedColumn {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return ResolvedColumn{}
	}
	if r.AsColumns[ref] {
		return ResolvedColumn{Column: ref}
	}
	if !isIdentifierPath(ref) {
		return ResolvedColumn{}
	}

	dot := strings.LastIndexByte(ref, '.')
	if dot < 0 {
		return r.resolveBare(ref)
	}

	tablePart, column := ref[:dot], ref[dot+1:]
	rc := ResolvedColumn{Column: column, Table: tablePart}
	if real, ok := r.Aliases[tablePart]; ok {
		rc.Table = real
		rc.Alias = tablePart
	}
	rc.Map = r.columnMap(rc.Table, column)
	return rc
}

func (r ColumnResolver) resolveBare(column string) ResolvedColumn {
	if r.PrimaryTable == "" {
		return ResolvedColumn{}
	}
	table := r.PrimaryTable
	alias := ""
	if real, ok := r.Aliases[table]; ok {
		table, alias = real, r.PrimaryTable
	}
	cm := r.columnMap(table, column)
	if cm == nil {
		return ResolvedColumn{}
	}
	return ResolvedColumn{Column: cm.Name, Table: table, Alias: alias, Map: cm}
}

func (r ColumnResolver) columnMap(table, column string) *schema.ColumnMap {
	if r.Schema == nil {
		return nil
	}
	tm, ok := r.Schema.Table(table)
	if !ok {
		return nil
	}
	cm, ok := tm.Column(column)
	if !ok {
		return nil
	}
	return cm
}

// isIdentifierPath reports whether s looks like ident(.ident)*.
func isIdentifierPath(s string) bool {
	if s == "" || s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || c == '.' || c == '$':
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		default:
			return false
		}
		if c == '.' && s[i-1] == '.' {
			return false
		}
	}
	c := s[0]
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// SelectTable extracts the table part of a select-list expression such as
// "book.title", "COUNT(book.id)" or "DISTINCT b.id".
func SelectTable(expr string) string {
	s := strings.TrimSpace(expr)
	if i := strings.LastIndexByte(s, '('); i >= 0 {
		s = s[i+1:]
		if j := strings.IndexAny(s, "),"); j >= 0 {
			s = s[:j]
		}
	}
	if i := strings.LastIndexByte(s, ' '); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSpace(s)
	dot := strings.LastIndexByte(s, '.')
	if dot <= 0 || !isIdentifierPath(s) {
		return ""
	}
	return s[:dot]
}

// ColumnAlias derives a select-list alias from an expression:
// "book.id" gives "book_id", "COUNT(book.id)" gives "COUNT_book_id".
func ColumnAlias(expr string) string {
	var b strings.Builder
	underscore := false
	for _, r := range strings.TrimSpace(expr) {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			underscore = r == '_'
			continue
		}
		if !underscore && b.Len() > 0 {
			b.WriteByte('_')
			underscore = true
		}
	}
	return strings.TrimRight(b.String(), "_")
}
