// Package store provides persistent storage for the bookstore catalog using SQLite.
//
// # Architecture
//
// BookStore is the persistence contract. Two implementations exist:
//
//   - SQLiteStore: the real catalog, one file-backed SQLite database
//   - MockStore: an in-memory copy for unit tests of higher layers
//
// # Data Model
//
// One table holds the whole catalog:
//
//	ebookstore (
//	    id     INTEGER PRIMARY KEY,
//	    title  TEXT,
//	    author TEXT,
//	    qty    INTEGER
//	)
//
// Book is the in-memory row. It is a disconnected copy: change it with
// SetFields, then persist it with UpdateBook. A Book built by NewBook without
// WithID gets max(id)+1 from the store, or FirstBookID on an empty table.
//
// # Schema and Seed Data
//
// EnsureSchema runs on every open. When the table is missing it is created
// and the five SeedBooks (ids 7001-7005) are inserted in one transaction.
// When the table exists nothing happens, so seed rows are never duplicated.
//
// # Transactions
//
// Every write goes through withTx: begin, run, commit on success, roll back
// and return the original error otherwise. Exec runs one statement and
// ExecBatch runs one statement per parameter tuple, both in one transaction.
// Nothing is retried.
//
// # Search
//
// FindBook compares the unordered pair {title, author} after Normalize
// (punctuation stripped, trimmed, upper-cased). A second reading treats each
// punctuation rune as a word break, so "lewis,carroll" finds "Lewis Carroll"
// while "JRR Tolkien" still finds "J.R.R. Tolkien". Words run together never
// match. A swapped title and author still match. The first match in id
// order wins. Not found is reported through the ok result, not an error.
//
// # Drivers
//
// DriverSQLite (modernc.org/sqlite, pure Go) is the default.
// DriverSQLite3 (github.com/mattn/go-sqlite3) needs cgo.
//
// # Error Handling
//
//   - Write failures are wrapped with %w; the driver error stays reachable.
//   - IsDuplicate reports primary key collisions from AddBook.
//   - ErrNotFound is available to callers that treat absence as an error.
//
// # Testing
//
// Use NewMockStore() for unit tests:
//
//	store := store.NewMockStore()
//	// seeded with SeedBooks, implements BookStore
//
// Use NewSQLiteStore(filepath.Join(t.TempDir(), "test.db")) for integration
// tests with real SQLite.
package store
