// Package sqlite implements store.Store as a JSON document store on SQLite.
//
// WHY SQLITE FOR A DOCUMENT API?
// Production runs on MongoDB, but a document collection maps cleanly onto a
// table of (id, doc) rows where doc is the JSON body. SQLite's JSON functions
// (json_extract, json_type) are enough for the exact-match filters the API
// uses. That gives local development and the test suite a real store with
// no database server to run.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite and needs no CGo.
//
// Every collection is one table:
//
//	id   TEXT PRIMARY KEY   the 24-char hex form of model.ID
//	doc  TEXT NOT NULL      the document without its "_id" key, as JSON
//
// Rows are returned in insertion (rowid) order, which matches what MongoDB
// returns for an unsorted find on a fresh collection.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sakif/trippila/internal/store"

	// BLANK IMPORT:
	// The sqlite package's init() registers itself with database/sql as the
	// driver named "sqlite". After this import, sql.Open("sqlite", ...) works.
	_ "modernc.org/sqlite"
)

// compile-time check that *DB implements store.Store
var _ store.Store = (*DB)(nil)

// DB wraps a sql.DB connection pool and hands out collections.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
//
// dbPath examples:
//   - "data/trippila.db" → file-based database (persistent)
//   - ":memory:"         → in-memory database (tests; lost on close)
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate, empty database, so the
	// pool must never open a second one.
	if dbPath == ":memory:" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode lets readers proceed while a write is in progress.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Writers wait for each other instead of failing with SQLITE_BUSY.
	if _, err := conn.Exec("PRAGMA busy_timeout=5000"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting busy timeout: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Collection returns the named collection. Names outside store.Collections
// return a collection whose every operation fails with store.ErrUnknownCollection.
func (db *DB) Collection(name string) store.Collection {
	if !store.IsKnownCollection(name) {
		return store.UnknownCollection(name)
	}
	return &collection{db: db.conn, table: name}
}

// Ping verifies the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the connection pool.
func (db *DB) Close(_ context.Context) error {
	return db.conn.Close()
}

// migrate creates one table per collection plus the expression indexes the
// lookups rely on. CREATE ... IF NOT EXISTS keeps it safe to run on every start.
func (db *DB) migrate() error {
	for _, name := range store.Collections {
		_, err := db.conn.Exec(fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id         TEXT PRIMARY KEY,
				doc        TEXT NOT NULL CHECK (json_valid(doc)),
				created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
			);
		`, name))
		if err != nil {
			return fmt.Errorf("creating %s table: %w", name, err)
		}
	}

	// Login and duplicate checks look users up by email; participant
	// records are looked up by event_id.
	_, err := db.conn.Exec(`
		CREATE INDEX IF NOT EXISTS idx_users_email ON users(json_extract(doc, '$.email'));
		CREATE INDEX IF NOT EXISTS idx_participants_event_id ON participants(json_extract(doc, '$.event_id'));
	`)
	if err != nil {
		return fmt.Errorf("creating indexes: %w", err)
	}

	return nil
}
