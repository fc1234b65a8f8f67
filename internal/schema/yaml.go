package schema

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// LoadYAML reads a YAML schema from fs.
func LoadYAML(fs afero.Fs, path string) (*DatabaseMap, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	db, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return db, nil
}

// ParseYAML decodes a YAML schema document:
//
//	database: bookstore
//	tables:
//	  - name: book
//	    id_method: native
//	    sequence: book_id_seq
//	    columns:
//	      - {name: id, type: INTEGER, primary_key: true}
//	      - {name: title, type: VARCHAR}
//
// Unknown keys are rejected.
func ParseYAML(data []byte) (*DatabaseMap, error) {
	var def databaseDef
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("parse schema YAML: %w", err)
	}
	return def.build()
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
