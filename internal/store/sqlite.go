// ABOUTME: SQLite implementation of the BookStore interface
// ABOUTME: Owns the catalog connection, seeds the table and runs every write in a transaction

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"
	_ "modernc.org/sqlite"
)

// Registered database/sql driver names
const (
	// DriverSQLite is the pure-Go modernc.org/sqlite driver
	DriverSQLite = "sqlite"
	// DriverSQLite3 is the cgo github.com/mattn/go-sqlite3 driver
	DriverSQLite3 = "sqlite3"
)

// SQLiteStore implements BookStore using a single-file SQLite database
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens the catalog at path with the pure-Go driver.
// The table is created and seeded if it doesn't exist.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	return OpenSQLiteStore(DriverSQLite, path)
}

// OpenSQLiteStore opens the catalog at path with the named driver.
// Parent directories are created if needed.
func OpenSQLiteStore(driver, path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	switch driver {
	case "":
		driver = DriverSQLite
	case DriverSQLite, DriverSQLite3:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open(driver, path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// One connection: the catalog has a single writer, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensuring schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path, "driver", driver)
	return s, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	s.logger.Info("closing SQLite store")
	return s.db.Close()
}

// withTx runs fn inside a transaction. It commits when fn returns nil and
// rolls back otherwise, returning fn's error unchanged. A panic in fn also
// rolls back before propagating.
func (s *SQLiteStore) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			s.logger.Warn("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Exec runs one parameterized statement in its own transaction and
// returns the number of rows it affected.
func (s *SQLiteStore) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	var affected int64
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	return affected, err
}

// ExecBatch runs the same statement once per parameter tuple, all in one
// transaction. Either every row is applied or none is.
func (s *SQLiteStore) ExecBatch(ctx context.Context, query string, rows [][]any) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		return execBatch(ctx, tx, query, rows)
	})
}

func execBatch(ctx context.Context, tx *sql.Tx, query string, rows [][]any) error {
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, args := range rows {
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return err
		}
	}
	return nil
}

// EnsureSchema creates the catalog table and inserts the seed rows if the
// table doesn't exist yet. Safe to call on every startup.
func (s *SQLiteStore) EnsureSchema(ctx context.Context) error {
	exists, err := s.tableExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Debug("catalog table present", "table", TableName)
		return nil
	}

	schema := `
		CREATE TABLE IF NOT EXISTS ebookstore (
			id     INTEGER PRIMARY KEY,
			title  TEXT,
			author TEXT,
			qty    INTEGER
		)
	`

	seed := make([][]any, 0, len(SeedBooks))
	for i := range SeedBooks {
		seed = append(seed, SeedBooks[i].Fields())
	}

	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, schema); err != nil {
			return err
		}
		return execBatch(ctx, tx, `INSERT INTO ebookstore (id, title, author, qty) VALUES (?, ?, ?, ?)`, seed)
	})
	if err != nil {
		return fmt.Errorf("creating catalog table: %w", err)
	}

	s.logger.Info("created catalog table", "table", TableName, "seed_rows", len(seed))
	return nil
}

// tableExists checks sqlite_master for the catalog table
func (s *SQLiteStore) tableExists(ctx context.Context) (bool, error) {
	var name string
	err := s.db.QueryRowContext(ctx,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, TableName,
	).Scan(&name)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking for catalog table: %w", err)
	}
	return true, nil
}

// ListBooks returns every row in table storage order
func (s *SQLiteStore) ListBooks(ctx context.Context) ([]*Book, error) {
	query := `
		SELECT id, title, author, qty
		FROM ebookstore
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying books: %w", err)
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		var title, author sql.NullString
		var qty sql.NullInt64

		if err := rows.Scan(&b.ID, &title, &author, &qty); err != nil {
			return nil, fmt.Errorf("scanning book row: %w", err)
		}

		b.Title = title.String
		b.Author = author.String
		b.Quantity = int(qty.Int64)
		books = append(books, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating book rows: %w", err)
	}

	return books, nil
}

// AddBook inserts a new row from the book's (id, title, author, qty).
// A colliding id fails with the driver's constraint error; see IsDuplicate.
func (s *SQLiteStore) AddBook(ctx context.Context, book *Book) error {
	query := `INSERT INTO ebookstore (id, title, author, qty) VALUES (?, ?, ?, ?)`

	if _, err := s.Exec(ctx, query, book.Fields()...); err != nil {
		return fmt.Errorf("inserting book %d: %w", book.ID, err)
	}

	s.logger.Debug("added book", "id", book.ID, "title", book.Title)
	return nil
}

// UpdateBook writes title, author and qty for the row with the book's id.
// It is a no-op when no row has that id.
func (s *SQLiteStore) UpdateBook(ctx context.Context, book *Book) error {
	query := `
		UPDATE ebookstore
		SET title = ?, author = ?, qty = ?
		WHERE id = ?
	`

	affected, err := s.Exec(ctx, query, book.Fields(FieldTitle, FieldAuthor, FieldQuantity, FieldID)...)
	if err != nil {
		return fmt.Errorf("updating book %d: %w", book.ID, err)
	}

	s.logger.Debug("updated book", "id", book.ID, "rows", affected)
	return nil
}

// DeleteBook removes the row with the book's id. It is a no-op when absent.
func (s *SQLiteStore) DeleteBook(ctx context.Context, book *Book) error {
	affected, err := s.Exec(ctx, `DELETE FROM ebookstore WHERE id = ?`, book.Fields(FieldID)...)
	if err != nil {
		return fmt.Errorf("deleting book %d: %w", book.ID, err)
	}

	s.logger.Debug("deleted book", "id", book.ID, "rows", affected)
	return nil
}

// FindBook returns the first book, in storage order, whose normalized
// {title, author} pair equals the query's. ok is false when none matches.
func (s *SQLiteStore) FindBook(ctx context.Context, title, author string) (*Book, bool, error) {
	books, err := s.ListBooks(ctx)
	if err != nil {
		return nil, false, err
	}

	b, ok := findFirst(books, title, author)
	return b, ok, nil
}

// NextID returns max(id)+1, or FirstBookID when the table is empty
func (s *SQLiteStore) NextID(ctx context.Context) (int64, error) {
	var maxID sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(id) FROM ebookstore`).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("querying max book id: %w", err)
	}
	if !maxID.Valid {
		return FirstBookID, nil
	}
	return maxID.Int64 + 1, nil
}

// CountBooks returns the number of rows in the catalog
func (s *SQLiteStore) CountBooks(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ebookstore`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting books: %w", err)
	}
	return n, nil
}

// IsDuplicate reports whether err comes from a primary key or UNIQUE collision
func IsDuplicate(err error) bool {
	return isConstraintViolation(err)
}

// isConstraintViolation checks if the error is a SQLite UNIQUE constraint violation
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") ||
		strings.Contains(errStr, "PRIMARY KEY must be unique")
}

// Ensure SQLiteStore implements BookStore interface
var _ BookStore = (*SQLiteStore)(nil)
