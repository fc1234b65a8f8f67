package store

import (
	"testing"

	"github.com/roach88/criteria/internal/criteria"
	"github.com/roach88/criteria/internal/dialect"
	"github.com/roach88/criteria/internal/testutil"
)

// createTestStore opens an in-memory SQLite store with the bookstore tables.
func createTestStore(t *testing.T, adapter dialect.Adapter) *Store {
	t.Helper()
	s, err := Open(adapter, ":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	if _, err := s.DB().Exec(testutil.BookstoreDDL); err != nil {
		t.Fatalf("create tables: %v", err)
	}
	return s
}

// newBook builds an insert for a book.
func newBook(title string, price float64) *criteria.Criteria {
	return criteria.New(testutil.Bookstore(), "book").
		SetUpdateValue("book.title", title, "").
		SetUpdateValue("book.price", price, "")
}
