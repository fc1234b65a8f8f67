package schema

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/criteria/internal/bind"
)

// Map is the schema lookup consumed by the query engine.
type Map interface {
	// Table returns the table map for a physical table name.
	Table(name string) (*TableMap, bool)
}

// ColumnMap describes one physical column.
type ColumnMap struct {
	Name       string
	Table      string
	Type       bind.SqlType
	PrimaryKey bool
	Lazy       bool
	Required   bool
}

// FullyQualifiedName returns "table.column".
func (c *ColumnMap) FullyQualifiedName() string {
	return c.Table + "." + c.Name
}

// IsText reports whether the column holds character data.
func (c *ColumnMap) IsText() bool {
	return c.Type.IsText()
}

// TableMap describes one physical table.
type TableMap struct {
	Name string

	// IdentifierQuoting forces quoting of this table's identifiers.
	IdentifierQuoting bool

	// UseIDGenerator marks tables whose primary key comes from the
	// database (sequence or auto-increment).
	UseIDGenerator bool

	// IDMethodInfo is passed to the adapter's id lookup, e.g. a sequence name.
	IDMethodInfo string

	columns []*ColumnMap
	byName  map[string]*ColumnMap
}

// NewTableMap creates an empty table map.
func NewTableMap(name string) *TableMap {
	return &TableMap{
		Name:   name,
		byName: make(map[string]*ColumnMap),
	}
}

// AddColumn appends a column, replacing an existing one of the same name.
func (t *TableMap) AddColumn(c *ColumnMap) *ColumnMap {
	c.Table = t.Name
	key := strings.ToLower(c.Name)
	if existing, ok := t.byName[key]; ok {
		*existing = *c
		return existing
	}
	t.columns = append(t.columns, c)
	t.byName[key] = c
	return c
}

// Columns returns columns in declaration order.
func (t *TableMap) Columns() []*ColumnMap {
	return t.columns
}

// Column looks a column up by name, case-insensitively.
func (t *TableMap) Column(name string) (*ColumnMap, bool) {
	c, ok := t.byName[strings.ToLower(name)]
	return c, ok
}

// HasColumn reports whether the table declares the column.
func (t *TableMap) HasColumn(name string) bool {
	_, ok := t.Column(name)
	return ok
}

// PrimaryKeys returns primary-key columns in declaration order.
func (t *TableMap) PrimaryKeys() []*ColumnMap {
	var pks []*ColumnMap
	for _, c := range t.columns {
		if c.PrimaryKey {
			pks = append(pks, c)
		}
	}
	return pks
}

// UnsupportedColumnTypeWarning records a declared type with no mapping.
// The column was kept with type bind.TypeOther.
type UnsupportedColumnTypeWarning struct {
	Table  string
	Column string
	Type   string
}

func (w UnsupportedColumnTypeWarning) String() string {
	return fmt.Sprintf("%s.%s: unsupported column type %q, using %s",
		w.Table, w.Column, w.Type, bind.TypeOther)
}

// DatabaseMap is an ordered collection of tables.
type DatabaseMap struct {
	Name string

	tables   []*TableMap
	byName   map[string]*TableMap
	warnings []UnsupportedColumnTypeWarning
}

// NewDatabaseMap creates an empty database map.
func NewDatabaseMap(name string) *DatabaseMap {
	return &DatabaseMap{
		Name:   name,
		byName: make(map[string]*TableMap),
	}
}

// AddTable registers a table, replacing any table with the same name.
func (d *DatabaseMap) AddTable(t *TableMap) {
	if _, ok := d.byName[t.Name]; !ok {
		d.tables = append(d.tables, t)
	} else {
		for i, existing := range d.tables {
			if existing.Name == t.Name {
				d.tables[i] = t
			}
		}
	}
	d.byName[t.Name] = t
}

// Table implements Map.
func (d *DatabaseMap) Table(name string) (*TableMap, bool) {
	if d == nil {
		return nil, false
	}
	t, ok := d.byName[name]
	return t, ok
}

// HasTable reports whether the table exists.
func (d *DatabaseMap) HasTable(name string) bool {
	_, ok := d.Table(name)
	return ok
}

// Tables returns tables in registration order.
func (d *DatabaseMap) Tables() []*TableMap {
	return d.tables
}

// Column resolves a "table.column" name. Schema-qualified table names
// ("schema.table.column") split on the last dot.
func (d *DatabaseMap) Column(qualified string) (*ColumnMap, bool) {
	dot := strings.LastIndexByte(qualified, '.')
	if dot < 0 {
		return nil, false
	}
	t, ok := d.Table(qualified[:dot])
	if !ok {
		return nil, false
	}
	return t.Column(qualified[dot+1:])
}

// Warnings returns the type-mapping warnings collected while loading.
func (d *DatabaseMap) Warnings() []UnsupportedColumnTypeWarning {
	return d.warnings
}

// columnType maps a declared type, recording a warning when unmapped.
// An empty declaration is treated as VARCHAR.
func (d *DatabaseMap) columnType(table, column, declared string) bind.SqlType {
	if strings.TrimSpace(declared) == "" {
		return bind.TypeVarchar
	}
	t, ok := bind.ParseSqlType(declared)
	if !ok {
		w := UnsupportedColumnTypeWarning{Table: table, Column: column, Type: declared}
		d.warnings = append(d.warnings, w)
		slog.Warn("unsupported column type", "table", table, "column", column, "type", declared)
	}
	return t
}
