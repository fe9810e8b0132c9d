// ABOUTME: Tests for the inventory service
// ABOUTME: Uses MockStore to cover add-or-restock, duplicate-aware updates and deletes

package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/bookstore/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.MockStore) {
	t.Helper()
	m := store.NewMockStore()
	return New(m, nil), m
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestService_AddNewBook(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	book, existed, err := svc.Add(ctx, "Dune", "Frank Herbert", 10)
	require.NoError(t, err)
	assert.False(t, existed)
	assert.Equal(t, int64(7006), book.ID)

	n, _ := m.CountBooks(ctx)
	assert.Equal(t, 6, n)
}

func TestService_AddExistingReturnsMatch(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	book, existed, err := svc.Add(ctx, "alice in wonderland", "LEWIS CARROLL", 3)
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Equal(t, int64(7005), book.ID)
	assert.Equal(t, 12, book.Quantity, "existing stock must not change")

	n, _ := m.CountBooks(ctx)
	assert.Equal(t, 5, n)
}

func TestService_AddValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, _, err := svc.Add(ctx, "Dune", "Frank Herbert", -1)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, _, err = svc.Add(ctx, "  ", "Frank Herbert", 1)
	assert.ErrorIs(t, err, ErrBlankField)
}

func TestService_AddIntoEmptyCatalog(t *testing.T) {
	svc := New(store.NewEmptyMockStore(), nil)

	book, _, err := svc.Add(context.Background(), "Dune", "Frank Herbert", 1)
	require.NoError(t, err)
	assert.Equal(t, store.FirstBookID, book.ID)
}

func TestService_Restock(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	book, found, err := svc.Search(ctx, "The Lord of the Rings", "J.R.R. Tolkien")
	require.NoError(t, err)
	require.True(t, found)

	require.NoError(t, svc.Restock(ctx, book, 50))

	stored, _, _ := m.FindBook(ctx, "The Lord of the Rings", "J.R.R. Tolkien")
	assert.Equal(t, 50, stored.Quantity)

	assert.ErrorIs(t, svc.Restock(ctx, book, -5), ErrInvalidQuantity)
}

func TestService_Update(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	book, _, err := svc.Search(ctx, "Adventures of Tom Sawyer", "J.K. Rowling")
	require.NoError(t, err)

	dup, err := svc.Update(ctx, book, store.BookUpdate{Author: strPtr("Mark Twain")})
	require.NoError(t, err)
	assert.Nil(t, dup)
	assert.Equal(t, "Mark Twain", book.Author)

	stored, found, _ := m.FindBook(ctx, "Adventures of Tom Sawyer", "Mark Twain")
	require.True(t, found)
	assert.Equal(t, int64(7002), stored.ID)
	assert.Equal(t, 40, stored.Quantity)
}

func TestService_UpdateSameTitleAuthorIsNotDuplicate(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	book, _, err := svc.Search(ctx, "Alice in Wonderland", "Lewis Carroll")
	require.NoError(t, err)

	dup, err := svc.Update(ctx, book, store.BookUpdate{
		Title:    strPtr("Alice in Wonderland"),
		Author:   strPtr("Lewis Carroll"),
		Quantity: intPtr(20),
	})
	require.NoError(t, err)
	assert.Nil(t, dup)
	assert.Equal(t, 20, book.Quantity)
}

func TestService_UpdateCollision(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	book, _, err := svc.Search(ctx, "Alice in Wonderland", "Lewis Carroll")
	require.NoError(t, err)

	dup, err := svc.Update(ctx, book, store.BookUpdate{
		Title:  strPtr("A Tale of Two Cities"),
		Author: strPtr("Charles Dickens"),
	})
	require.NoError(t, err)
	require.NotNil(t, dup)
	assert.Equal(t, int64(7001), dup.ID)

	// Nothing written, in memory or in the store
	assert.Equal(t, "Alice in Wonderland", book.Title)
	_, found, _ := m.FindBook(ctx, "Alice in Wonderland", "Lewis Carroll")
	assert.True(t, found)
}

func TestService_Delete(t *testing.T) {
	svc, m := newTestService(t)
	ctx := context.Background()

	book, found, err := svc.Delete(ctx, "the merchant of venice", "shakespeare")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(7003), book.ID)

	n, _ := m.CountBooks(ctx)
	assert.Equal(t, 4, n)

	_, found, err = svc.Delete(ctx, "the merchant of venice", "shakespeare")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestService_StoreErrorsPropagate(t *testing.T) {
	svc, m := newTestService(t)
	boom := errors.New("disk I/O error")
	m.Err = boom
	ctx := context.Background()

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, boom)

	_, _, err = svc.Search(ctx, "a", "b")
	assert.ErrorIs(t, err, boom)

	_, _, err = svc.Add(ctx, "a", "b", 1)
	assert.ErrorIs(t, err, boom)

	_, _, err = svc.Delete(ctx, "a", "b")
	assert.ErrorIs(t, err, boom)
}
