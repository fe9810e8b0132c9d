// ABOUTME: Book record type with id assignment, field selection and partial updates
// ABOUTME: Books are disconnected copies; changes must be persisted through a BookStore

package store

import (
	"context"
	"fmt"
	"strings"
)

// Book is one catalog entry
type Book struct {
	ID       int64
	Title    string
	Author   string
	Quantity int
}

// Field names a single Book attribute
type Field int

// Field constants in default column order
const (
	FieldID Field = iota
	FieldTitle
	FieldAuthor
	FieldQuantity
)

// AllFields is the default selection: (id, title, author, qty)
var AllFields = []Field{FieldID, FieldTitle, FieldAuthor, FieldQuantity}

// String returns the column name for the field
func (f Field) String() string {
	switch f {
	case FieldID:
		return "id"
	case FieldTitle:
		return "title"
	case FieldAuthor:
		return "author"
	case FieldQuantity:
		return "qty"
	default:
		return fmt.Sprintf("field(%d)", int(f))
	}
}

// ParseField maps a column name to a Field.
// "quantity" is accepted as an alias for "qty".
func ParseField(name string) (Field, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "id":
		return FieldID, nil
	case "title":
		return FieldTitle, nil
	case "author":
		return FieldAuthor, nil
	case "qty", "quantity":
		return FieldQuantity, nil
	default:
		return 0, fmt.Errorf("unknown book field %q", name)
	}
}

// ParseFields parses a list of column names, preserving order
func ParseFields(names []string) ([]Field, error) {
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		f, err := ParseField(n)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

// BookOption configures NewBook
type BookOption func(*Book)

// WithID uses an explicit id instead of allocating one
func WithID(id int64) BookOption {
	return func(b *Book) {
		b.ID = id
	}
}

// NewBook builds a Book. Without WithID the id is allocated from ids as
// max(existing id) + 1.
func NewBook(ctx context.Context, ids IDAllocator, title, author string, qty int, opts ...BookOption) (*Book, error) {
	b := &Book{
		Title:    title,
		Author:   author,
		Quantity: qty,
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.ID == 0 {
		id, err := ids.NextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("allocating book id: %w", err)
		}
		b.ID = id
	}

	return b, nil
}

// Fields returns the requested attributes in order.
// With no arguments it returns (id, title, author, qty).
func (b *Book) Fields(fields ...Field) []any {
	if len(fields) == 0 {
		fields = AllFields
	}

	out := make([]any, 0, len(fields))
	for _, f := range fields {
		out = append(out, b.field(f))
	}
	return out
}

func (b *Book) field(f Field) any {
	switch f {
	case FieldID:
		return b.ID
	case FieldTitle:
		return b.Title
	case FieldAuthor:
		return b.Author
	case FieldQuantity:
		return b.Quantity
	default:
		return nil
	}
}

// BookUpdate holds a partial update; nil fields are left unchanged
type BookUpdate struct {
	Title    *string
	Author   *string
	Quantity *int
}

// SetFields applies a partial update in place. It does not touch the store.
func (b *Book) SetFields(u BookUpdate) {
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.Quantity != nil {
		b.Quantity = *u.Quantity
	}
}

// String formats the book on a single line
func (b *Book) String() string {
	return fmt.Sprintf("#%d %q by %s (qty %d)", b.ID, b.Title, b.Author, b.Quantity)
}
