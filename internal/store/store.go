// ABOUTME: BookStore interface and shared errors for the bookstore catalog
// ABOUTME: Defines the persistence contract implemented by SQLiteStore and MockStore

package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a requested book does not exist
var ErrNotFound = errors.New("not found")

// TableName is the single catalog table
const TableName = "ebookstore"

// FirstBookID is the id handed out when the catalog is empty.
// It matches the first seed row.
const FirstBookID int64 = 7001

// IDAllocator hands out the next free book id
type IDAllocator interface {
	NextID(ctx context.Context) (int64, error)
}

// BookStore defines the interface for catalog persistence
type BookStore interface {
	IDAllocator

	// EnsureSchema creates and seeds the catalog table if it is missing
	EnsureSchema(ctx context.Context) error

	// Books
	ListBooks(ctx context.Context) ([]*Book, error)
	AddBook(ctx context.Context, book *Book) error
	UpdateBook(ctx context.Context, book *Book) error
	DeleteBook(ctx context.Context, book *Book) error
	CountBooks(ctx context.Context) (int, error)

	// FindBook reports ok=false when nothing matches; absence is not an error
	FindBook(ctx context.Context, title, author string) (*Book, bool, error)

	// Close releases any resources held by the store
	Close() error
}

// SeedBooks are inserted the first time the catalog table is created
var SeedBooks = []Book{
	{ID: 7001, Title: "A Tale of Two Cities", Author: "Charles Dickens", Quantity: 30},
	{ID: 7002, Title: "Adventures of Tom Sawyer", Author: "J.K. Rowling", Quantity: 40},
	{ID: 7003, Title: "The Merchant of Venice", Author: "Shakespeare", Quantity: 25},
	{ID: 7004, Title: "The Lord of the Rings", Author: "J.R.R. Tolkien", Quantity: 37},
	{ID: 7005, Title: "Alice in Wonderland", Author: "Lewis Carroll", Quantity: 12},
}

// findFirst returns the first book whose title/author pair matches the query.
// Shared by the SQLite and mock stores so both search the same way.
func findFirst(books []*Book, title, author string) (*Book, bool) {
	want := NewMatchKey(title, author)
	for _, b := range books {
		if NewMatchKey(b.Title, b.Author).Matches(want) {
			return b, true
		}
	}
	return nil, false
}
