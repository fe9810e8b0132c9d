// ABOUTME: Mock BookStore implementation for testing
// ABOUTME: Allows inventory and console tests to run without SQLite

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// MockStore is an in-memory BookStore implementation for testing.
// Set Err to make every call fail with that error.
type MockStore struct {
	mu    sync.RWMutex
	books map[int64]*Book // keyed by book ID
	ready bool

	Err error
}

// NewMockStore creates a new MockStore holding the seed books.
func NewMockStore() *MockStore {
	m := &MockStore{
		books: make(map[int64]*Book),
	}
	_ = m.EnsureSchema(context.Background())
	return m
}

// NewEmptyMockStore creates a MockStore whose catalog has no rows.
func NewEmptyMockStore() *MockStore {
	return &MockStore{
		books: make(map[int64]*Book),
		ready: true,
	}
}

// EnsureSchema seeds the catalog the first time it is called.
func (m *MockStore) EnsureSchema(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if m.ready {
		return nil
	}
	for i := range SeedBooks {
		b := SeedBooks[i]
		m.books[b.ID] = &b
	}
	m.ready = true
	return nil
}

// ListBooks returns copies of all books ordered by id.
func (m *MockStore) ListBooks(ctx context.Context) ([]*Book, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, m.Err
	}
	return m.sorted(), nil
}

func (m *MockStore) sorted() []*Book {
	books := make([]*Book, 0, len(m.books))
	for _, b := range m.books {
		// Return a copy
		c := *b
		books = append(books, &c)
	}
	sort.Slice(books, func(i, j int) bool {
		return books[i].ID < books[j].ID
	})
	return books
}

// AddBook stores a copy of the book. A colliding id fails like SQLite does.
func (m *MockStore) AddBook(ctx context.Context, book *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.books[book.ID]; exists {
		return fmt.Errorf("inserting book %d: UNIQUE constraint failed: %s.id", book.ID, TableName)
	}

	// Make a copy to avoid external modification
	b := *book
	m.books[b.ID] = &b
	return nil
}

// UpdateBook overwrites the stored book with the same id, if any.
func (m *MockStore) UpdateBook(ctx context.Context, book *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.books[book.ID]; !exists {
		return nil
	}
	b := *book
	m.books[b.ID] = &b
	return nil
}

// DeleteBook removes the book with the same id, if any.
func (m *MockStore) DeleteBook(ctx context.Context, book *Book) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	delete(m.books, book.ID)
	return nil
}

// FindBook searches the same way SQLiteStore does.
func (m *MockStore) FindBook(ctx context.Context, title, author string) (*Book, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return nil, false, m.Err
	}
	b, ok := findFirst(m.sorted(), title, author)
	return b, ok, nil
}

// NextID returns max(id)+1, or FirstBookID when empty.
func (m *MockStore) NextID(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return 0, m.Err
	}
	if len(m.books) == 0 {
		return FirstBookID, nil
	}
	var maxID int64
	for id := range m.books {
		if id > maxID {
			maxID = id
		}
	}
	return maxID + 1, nil
}

// CountBooks returns the number of stored books.
func (m *MockStore) CountBooks(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.Err != nil {
		return 0, m.Err
	}
	return len(m.books), nil
}

// Close is a no-op.
func (m *MockStore) Close() error {
	return nil
}

// Ensure MockStore implements BookStore interface
var _ BookStore = (*MockStore)(nil)
