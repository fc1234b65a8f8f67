// Package schema describes the physical data model the query engine
// resolves columns against: databases, tables, columns, primary keys,
// identifier quoting and id-generation settings.
//
// Schemas are loaded from YAML or CUE. Declared column types are mapped to
// bind.SqlType; types with no mapping degrade to bind.TypeOther and are
// reported as UnsupportedColumnTypeWarning values instead of errors.
package schema
