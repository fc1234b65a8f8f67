package schema

import (
	"os"
	"testing"

	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/criteria/internal/bind"
)

func assertBookstore(t *testing.T, db *DatabaseMap) {
	t.Helper()

	assert.Equal(t, "bookstore", db.Name)
	require.Len(t, db.Tables(), 3)
	assert.Equal(t, "book", db.Tables()[0].Name)
	assert.Equal(t, "author", db.Tables()[1].Name)
	assert.Equal(t, "review", db.Tables()[2].Name)

	book, ok := db.Table("book")
	require.True(t, ok)
	assert.True(t, book.UseIDGenerator)
	assert.Equal(t, "book_id_seq", book.IDMethodInfo)
	assert.False(t, book.IdentifierQuoting)

	var names []string
	for _, c := range book.Columns() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"id", "title", "isbn", "price", "publisher_id", "author_id"}, names)

	title, _ := book.Column("title")
	assert.Equal(t, bind.TypeVarchar, title.Type)
	assert.True(t, title.Required)

	price, _ := book.Column("price")
	assert.Equal(t, bind.TypeFloat, price.Type)

	review, _ := db.Table("review")
	date, _ := review.Column("review_date")
	assert.Equal(t, bind.TypeDate, date.Type)

	assert.Empty(t, db.Warnings())
}

func TestLoadYAMLFile(t *testing.T) {
	db, err := Load(afero.NewOsFs(), "testdata/bookstore.yaml")
	require.NoError(t, err)
	assertBookstore(t, db)
}

func TestLoadCUEFile(t *testing.T) {
	db, err := Load(afero.NewOsFs(), "testdata/bookstore.cue")
	require.NoError(t, err)
	assertBookstore(t, db)
}

func TestLoadFromMemFs(t *testing.T) {
	data, err := os.ReadFile("testdata/bookstore.yaml")
	require.NoError(t, err)

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/schemas/bookstore.yml", data, 0o644))

	db, err := Load(fs, "/schemas/bookstore.yml")
	require.NoError(t, err)
	assertBookstore(t, db)
}

func TestLoadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "schema.json", []byte(`{}`), 0o644))

	_, err := Load(fs, "schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported extension")

	_, err = Load(fs, "missing.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read schema missing.yaml")
}

func TestParseYAMLValidation(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "unknown field",
			input:   "database: x\ntables:\n  - name: a\n    colums: []\n",
			wantErr: "field colums not found",
		},
		{
			name:    "missing table name",
			input:   "tables:\n  - columns: [{name: id}]\n",
			wantErr: "table 0 has no name",
		},
		{
			name:    "duplicate table",
			input:   "tables:\n  - name: a\n  - name: a\n",
			wantErr: "duplicate table",
		},
		{
			name:    "duplicate column",
			input:   "tables:\n  - name: a\n    columns: [{name: id}, {name: ID}]\n",
			wantErr: "duplicate column",
		},
		{
			name:    "bad id method",
			input:   "tables:\n  - name: a\n    id_method: uuid\n",
			wantErr: "must be one of: none, native",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseYAML([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCompileCUEMissingTables(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`database: "empty"`)
	require.NoError(t, v.Err())

	_, err := CompileCUE(v)
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.Contains(t, err.Error(), "at least one table is required")
}

func TestCompileCUEMissingColumns(t *testing.T) {
	_, err := ParseCUE("schema.cue", []byte(`table: book: {id_method: "native"}`))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "table.book.column", le.Field)
}

func TestCompileCUEWrongFieldType(t *testing.T) {
	_, err := ParseCUE("schema.cue", []byte(`table: book: {
	identifier_quoting: "yes"
	column: id: "INTEGER"
}`))
	require.Error(t, err)

	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "identifier_quoting", le.Field)
	assert.Equal(t, "must be a boolean", le.Message)
	assert.True(t, le.Pos.IsValid())
}

func TestCompileCUESyntaxError(t *testing.T) {
	_, err := ParseCUE("broken.cue", []byte(`table: book: {`))
	require.Error(t, err)
	assert.True(t, IsLoadError(err))
	assert.Contains(t, err.Error(), "broken.cue")
}

func TestLoadErrorFormat(t *testing.T) {
	err := &LoadError{Field: "tables", Message: "bad"}
	assert.Equal(t, "tables: bad", err.Error())
}
