package bind

import (
	"strings"
	"time"
)

// SqlType is the abstract column type used for bind-type decisions.
type SqlType string

const (
	TypeBoolean     SqlType = "BOOLEAN"
	TypeSmallInt    SqlType = "SMALLINT"
	TypeInteger     SqlType = "INTEGER"
	TypeBigInt      SqlType = "BIGINT"
	TypeReal        SqlType = "REAL"
	TypeFloat       SqlType = "FLOAT"
	TypeDecimal     SqlType = "DECIMAL"
	TypeDouble      SqlType = "DOUBLE"
	TypeChar        SqlType = "CHAR"
	TypeVarchar     SqlType = "VARCHAR"
	TypeLongVarchar SqlType = "LONGVARCHAR"
	TypeDate        SqlType = "DATE"
	TypeTime        SqlType = "TIME"
	TypeTimestamp   SqlType = "TIMESTAMP"
	TypeBlob        SqlType = "BLOB"
	TypeJSON        SqlType = "JSON"
	TypeUUID        SqlType = "UUID"

	// TypeOther is the opaque fallback for types with no mapping.
	TypeOther SqlType = "OTHER"
)

// typeNames maps lower-cased declared type names to abstract types.
// Covers the abstract names themselves plus PostgreSQL spellings.
var typeNames = map[string]SqlType{
	"bool":                        TypeBoolean,
	"boolean":                     TypeBoolean,
	"int2":                        TypeSmallInt,
	"smallint":                    TypeSmallInt,
	"int":                         TypeInteger,
	"int4":                        TypeInteger,
	"integer":                     TypeInteger,
	"serial":                      TypeInteger,
	"serial4":                     TypeInteger,
	"int8":                        TypeBigInt,
	"bigint":                      TypeBigInt,
	"bigserial":                   TypeBigInt,
	"serial8":                     TypeBigInt,
	"real":                        TypeReal,
	"float4":                      TypeReal,
	"float":                       TypeFloat,
	"decimal":                     TypeDecimal,
	"numeric":                     TypeDecimal,
	"double":                      TypeDouble,
	"float8":                      TypeDouble,
	"double precision":            TypeDouble,
	"char":                        TypeChar,
	"character":                   TypeChar,
	"bpchar":                      TypeChar,
	"varchar":                     TypeVarchar,
	"character varying":           TypeVarchar,
	"text":                        TypeLongVarchar,
	"longvarchar":                 TypeLongVarchar,
	"date":                        TypeDate,
	"time":                        TypeTime,
	"timetz":                      TypeTime,
	"time without time zone":      TypeTime,
	"time with time zone":         TypeTime,
	"timestamp":                   TypeTimestamp,
	"timestamptz":                 TypeTimestamp,
	"timestamp without time zone": TypeTimestamp,
	"timestamp with time zone":    TypeTimestamp,
	"datetime":                    TypeTimestamp,
	"bytea":                       TypeBlob,
	"blob":                        TypeBlob,
	"json":                        TypeJSON,
	"jsonb":                       TypeJSON,
	"uuid":                        TypeUUID,
	"other":                       TypeOther,
}

// ParseSqlType maps a declared type name to an abstract type.
// Length suffixes such as "varchar(255)" are ignored.
// Returns (TypeOther, false) when the name has no mapping.
func ParseSqlType(name string) (SqlType, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexByte(n, '('); i >= 0 {
		n = strings.TrimSpace(n[:i])
	}
	if t, ok := typeNames[n]; ok {
		return t, true
	}
	return TypeOther, false
}

// IsText reports whether values of this type compare as strings.
func (t SqlType) IsText() bool {
	switch t {
	case TypeChar, TypeVarchar, TypeLongVarchar:
		return true
	}
	return false
}

// InferType derives an abstract type from a Go value.
// Returns (TypeOther, false) for kinds with no natural mapping.
func InferType(v any) (SqlType, bool) {
	switch v.(type) {
	case nil:
		return TypeOther, true
	case bool:
		return TypeBoolean, true
	case int8, int16, uint8:
		return TypeSmallInt, true
	case int32, uint16:
		return TypeInteger, true
	case int, int64, uint, uint32, uint64:
		return TypeBigInt, true
	case float32:
		return TypeReal, true
	case float64:
		return TypeDouble, true
	case string:
		return TypeVarchar, true
	case []byte:
		return TypeBlob, true
	case time.Time:
		return TypeTimestamp, true
	default:
		return TypeOther, false
	}
}
