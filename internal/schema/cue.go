package schema

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/afero"
)

// LoadCUE reads a CUE schema from fs.
func LoadCUE(fs afero.Fs, path string) (*DatabaseMap, error) {
	src, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	return ParseCUE(path, src)
}

// ParseCUE compiles CUE source and extracts the schema from its root value.
func ParseCUE(filename string, src []byte) (*DatabaseMap, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	return CompileCUE(v)
}

// CompileCUE extracts a schema from a CUE value of the form:
//
//	database: "bookstore"
//	table: book: {
//		id_method: "native"
//		sequence:  "book_id_seq"
//		column: id:    {type: "INTEGER", primary_key: true}
//		column: title: {type: "VARCHAR"}
//	}
//
// Tables and columns keep their declaration order.
func CompileCUE(v cue.Value) (*DatabaseMap, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var def databaseDef
	if dbVal := v.LookupPath(cue.ParsePath("database")); dbVal.Exists() {
		name, err := dbVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		def.Database = name
	}

	tablesVal := v.LookupPath(cue.ParsePath("table"))
	if !tablesVal.Exists() {
		return nil, &LoadError{
			Field:   "table",
			Message: "at least one table is required",
			Pos:     v.Pos(),
		}
	}

	iter, err := tablesVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		td, err := parseTable(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		def.Tables = append(def.Tables, td)
	}

	return def.build()
}

func parseTable(name string, v cue.Value) (tableDef, error) {
	td := tableDef{Name: name}
	var err error

	if td.IdentifierQuoting, err = optionalBool(v, "identifier_quoting"); err != nil {
		return td, err
	}
	if td.IDMethod, err = optionalString(v, "id_method"); err != nil {
		return td, err
	}
	if td.Sequence, err = optionalString(v, "sequence"); err != nil {
		return td, err
	}

	colsVal := v.LookupPath(cue.ParsePath("column"))
	if !colsVal.Exists() {
		return td, &LoadError{
			Field:   "table." + name + ".column",
			Message: "at least one column is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := colsVal.Fields()
	if err != nil {
		return td, formatCUEError(err)
	}
	for iter.Next() {
		cd, err := parseColumn(iter.Label(), iter.Value())
		if err != nil {
			return td, err
		}
		td.Columns = append(td.Columns, cd)
	}
	return td, nil
}

func parseColumn(name string, v cue.Value) (columnDef, error) {
	cd := columnDef{Name: name}
	var err error

	// A bare string is shorthand for {type: "..."}.
	if s, serr := v.String(); serr == nil {
		cd.Type = s
		return cd, nil
	}

	if cd.Type, err = optionalString(v, "type"); err != nil {
		return cd, err
	}
	if cd.PrimaryKey, err = optionalBool(v, "primary_key"); err != nil {
		return cd, err
	}
	if cd.Lazy, err = optionalBool(v, "lazy"); err != nil {
		return cd, err
	}
	if cd.Required, err = optionalBool(v, "required"); err != nil {
		return cd, err
	}
	return cd, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return "", nil
	}
	s, err := f.String()
	if err != nil {
		return "", &LoadError{Field: field, Message: "must be a string", Pos: f.Pos()}
	}
	return s, nil
}

func optionalBool(v cue.Value, field string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(field))
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, &LoadError{Field: field, Message: "must be a boolean", Pos: f.Pos()}
	}
	return b, nil
}
