package testutil

import (
	"github.com/roach88/criteria/internal/bind"
	"github.com/roach88/criteria/internal/schema"
)

// Bookstore builds the schema used across package tests: book, author,
// publisher and review, all with native ids.
func Bookstore() *schema.DatabaseMap {
	db := schema.NewDatabaseMap("bookstore")

	book := schema.NewTableMap("book")
	book.UseIDGenerator = true
	book.IDMethodInfo = "book_id_seq"
	book.AddColumn(&schema.ColumnMap{Name: "id", Type: bind.TypeInteger, PrimaryKey: true, Required: true})
	book.AddColumn(&schema.ColumnMap{Name: "title", Type: bind.TypeVarchar, Required: true})
	book.AddColumn(&schema.ColumnMap{Name: "isbn", Type: bind.TypeVarchar})
	book.AddColumn(&schema.ColumnMap{Name: "price", Type: bind.TypeFloat})
	book.AddColumn(&schema.ColumnMap{Name: "publisher_id", Type: bind.TypeInteger})
	book.AddColumn(&schema.ColumnMap{Name: "author_id", Type: bind.TypeInteger})
	db.AddTable(book)

	author := schema.NewTableMap("author")
	author.UseIDGenerator = true
	author.IDMethodInfo = "author_id_seq"
	author.AddColumn(&schema.ColumnMap{Name: "id", Type: bind.TypeInteger, PrimaryKey: true, Required: true})
	author.AddColumn(&schema.ColumnMap{Name: "first_name", Type: bind.TypeVarchar})
	author.AddColumn(&schema.ColumnMap{Name: "last_name", Type: bind.TypeVarchar})
	db.AddTable(author)

	publisher := schema.NewTableMap("publisher")
	publisher.UseIDGenerator = true
	publisher.IDMethodInfo = "publisher_id_seq"
	publisher.IdentifierQuoting = true
	publisher.AddColumn(&schema.ColumnMap{Name: "id", Type: bind.TypeInteger, PrimaryKey: true, Required: true})
	publisher.AddColumn(&schema.ColumnMap{Name: "name", Type: bind.TypeVarchar})
	db.AddTable(publisher)

	review := schema.NewTableMap("review")
	review.UseIDGenerator = true
	review.IDMethodInfo = "review_id_seq"
	review.AddColumn(&schema.ColumnMap{Name: "id", Type: bind.TypeInteger, PrimaryKey: true, Required: true})
	review.AddColumn(&schema.ColumnMap{Name: "reviewed_by", Type: bind.TypeVarchar})
	review.AddColumn(&schema.ColumnMap{Name: "review_date", Type: bind.TypeDate})
	review.AddColumn(&schema.ColumnMap{Name: "recommended", Type: bind.TypeBoolean})
	review.AddColumn(&schema.ColumnMap{Name: "book_id", Type: bind.TypeInteger})
	db.AddTable(review)

	return db
}

// BookstoreDDL creates the Bookstore tables in SQLite.
const BookstoreDDL = `
CREATE TABLE book (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	isbn TEXT,
	price REAL,
	publisher_id INTEGER,
	author_id INTEGER
);
CREATE TABLE author (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	first_name TEXT,
	last_name TEXT
);
CREATE TABLE publisher (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT
);
CREATE TABLE review (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	reviewed_by TEXT,
	review_date TEXT,
	recommended INTEGER,
	book_id INTEGER REFERENCES book(id)
);
`
