// ABOUTME: Inventory service implementing the operator workflows over the catalog store
// ABOUTME: Handles add-or-restock, duplicate-aware updates, deletes and searches

package inventory

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/2389/bookstore/internal/store"
)

// ErrInvalidQuantity is returned when a stock quantity is negative
var ErrInvalidQuantity = errors.New("quantity must not be negative")

// ErrBlankField is returned when a title or author is empty
var ErrBlankField = errors.New("title and author are required")

// Service wraps a BookStore with the rules the console relies on
type Service struct {
	store  store.BookStore
	logger *slog.Logger
}

// New creates a new inventory Service
func New(s store.BookStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:  s,
		logger: logger.With("component", "inventory"),
	}
}

// List returns every book in the catalog
func (s *Service) List(ctx context.Context) ([]*store.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}
	return books, nil
}

// Search looks up a book by title and author. found is false when nothing matches.
func (s *Service) Search(ctx context.Context, title, author string) (*store.Book, bool, error) {
	book, found, err := s.store.FindBook(ctx, title, author)
	if err != nil {
		return nil, false, fmt.Errorf("searching books: %w", err)
	}
	return book, found, nil
}

// Add creates a new book with the next free id. If the catalog already holds
// a matching title/author the existing book is returned with existed=true and
// nothing is written; callers usually offer a Restock instead.
func (s *Service) Add(ctx context.Context, title, author string, qty int) (book *store.Book, existed bool, err error) {
	if err := validate(title, author, qty); err != nil {
		return nil, false, err
	}

	existing, found, err := s.Search(ctx, title, author)
	if err != nil {
		return nil, false, err
	}
	if found {
		s.logger.Debug("add matched existing book", "id", existing.ID)
		return existing, true, nil
	}

	book, err = store.NewBook(ctx, s.store, title, author, qty)
	if err != nil {
		return nil, false, err
	}

	if err := s.store.AddBook(ctx, book); err != nil {
		return nil, false, fmt.Errorf("adding book: %w", err)
	}

	s.logger.Debug("added book", "id", book.ID, "title", book.Title)
	return book, false, nil
}

// Restock sets a book's quantity and persists it
func (s *Service) Restock(ctx context.Context, book *store.Book, qty int) error {
	if qty < 0 {
		return ErrInvalidQuantity
	}

	book.SetFields(store.BookUpdate{Quantity: &qty})
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return fmt.Errorf("restocking book: %w", err)
	}

	s.logger.Debug("restocked book", "id", book.ID, "qty", qty)
	return nil
}

// Update applies u to book and persists it. When the new title/author would
// match a different stored book, that book is returned as dup and nothing is
// written.
func (s *Service) Update(ctx context.Context, book *store.Book, u store.BookUpdate) (dup *store.Book, err error) {
	next := *book
	next.SetFields(u)

	if err := validate(next.Title, next.Author, next.Quantity); err != nil {
		return nil, err
	}

	other, found, err := s.Search(ctx, next.Title, next.Author)
	if err != nil {
		return nil, err
	}
	if found && other.ID != book.ID {
		s.logger.Debug("update collides with existing book", "id", book.ID, "other", other.ID)
		return other, nil
	}

	if err := s.store.UpdateBook(ctx, &next); err != nil {
		return nil, fmt.Errorf("updating book: %w", err)
	}

	*book = next
	s.logger.Debug("updated book", "id", book.ID)
	return nil, nil
}

// Delete removes the book matching title and author. found is false when
// nothing matches.
func (s *Service) Delete(ctx context.Context, title, author string) (book *store.Book, found bool, err error) {
	book, found, err = s.Search(ctx, title, author)
	if err != nil || !found {
		return nil, false, err
	}

	if err := s.store.DeleteBook(ctx, book); err != nil {
		return nil, false, fmt.Errorf("deleting book: %w", err)
	}

	s.logger.Debug("deleted book", "id", book.ID)
	return book, true, nil
}

func validate(title, author string, qty int) error {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(author) == "" {
		return ErrBlankField
	}
	if qty < 0 {
		return ErrInvalidQuantity
	}
	return nil
}
