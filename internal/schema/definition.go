package schema

import "strings"

// idMethodNative marks tables whose keys come from the database.
const idMethodNative = "native"

// tableDef is the source-neutral shape shared by the YAML and CUE loaders.
type tableDef struct {
	Name              string      `yaml:"name"`
	IdentifierQuoting bool        `yaml:"identifier_quoting"`
	IDMethod          string      `yaml:"id_method"`
	Sequence          string      `yaml:"sequence"`
	Columns           []columnDef `yaml:"columns"`
}

type columnDef struct {
	Name       string `yaml:"name"`
	Type       string `yaml:"type"`
	PrimaryKey bool   `yaml:"primary_key"`
	Lazy       bool   `yaml:"lazy"`
	Required   bool   `yaml:"required"`
}

type databaseDef struct {
	Database string     `yaml:"database"`
	Tables   []tableDef `yaml:"tables"`
}

// build validates definitions and assembles the DatabaseMap.
func (def *databaseDef) build() (*DatabaseMap, error) {
	db := NewDatabaseMap(def.Database)
	seen := make(map[string]bool, len(def.Tables))

	for i, td := range def.Tables {
		if strings.TrimSpace(td.Name) == "" {
			return nil, &LoadError{Field: "tables", Message: "table " + itoa(i) + " has no name"}
		}
		if seen[td.Name] {
			return nil, &LoadError{Field: "tables." + td.Name, Message: "duplicate table"}
		}
		seen[td.Name] = true

		switch td.IDMethod {
		case "", "none", idMethodNative:
		default:
			return nil, &LoadError{
				Field:   "tables." + td.Name + ".id_method",
				Message: "must be one of: none, native",
			}
		}

		tm := NewTableMap(td.Name)
		tm.IdentifierQuoting = td.IdentifierQuoting
		tm.UseIDGenerator = td.IDMethod == idMethodNative
		tm.IDMethodInfo = td.Sequence

		cols := make(map[string]bool, len(td.Columns))
		for j, cd := range td.Columns {
			if strings.TrimSpace(cd.Name) == "" {
				return nil, &LoadError{
					Field:   "tables." + td.Name + ".columns",
					Message: "column " + itoa(j) + " has no name",
				}
			}
			key := strings.ToLower(cd.Name)
			if cols[key] {
				return nil, &LoadError{
					Field:   "tables." + td.Name + ".columns." + cd.Name,
					Message: "duplicate column",
				}
			}
			cols[key] = true

			tm.AddColumn(&ColumnMap{
				Name:       cd.Name,
				Type:       db.columnType(td.Name, cd.Name, cd.Type),
				PrimaryKey: cd.PrimaryKey,
				Lazy:       cd.Lazy,
				Required:   cd.Required || cd.PrimaryKey,
			})
		}
		db.AddTable(tm)
	}
	return db, nil
}
