// Package sqlite provides the SQLite-backed storage.Storage.
//
// SQLite stores everything in a single file on disk. There is no
// network, no separate server process, and no installation beyond the
// driver. The blank import below registers the "sqlite3" driver with
// database/sql; sqlx sits on top of it.
package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	// Blank import: side-effect only (registers the "sqlite3" driver).
	_ "github.com/mattn/go-sqlite3"

	"github.com/aanand-mishra/student-records-api/internal/storage/sqlstore"
)

// Dialect is the SQLite flavour of the student statements.
//
// Schema:
//
//	id          — caller-supplied primary key (no AUTOINCREMENT)
//	subjects    — SubjectMarks as JSON text
//	fees_paid   — BOOLEAN, stored by SQLite as 0/1
//
// INSERT OR REPLACE deletes the conflicting row and inserts the new one,
// so no column of the previous version survives.
var Dialect = sqlstore.Dialect{
	Name: "sqlite",
	CreateTable: `
		CREATE TABLE IF NOT EXISTS students (
			id         INTEGER PRIMARY KEY,
			name       TEXT,
			branch     TEXT,
			year       TEXT,
			attendance INTEGER,
			subjects   TEXT,
			fees_paid  BOOLEAN
		)`,
	Upsert: `
		INSERT OR REPLACE INTO students (id, name, branch, year, attendance, subjects, fees_paid)
		VALUES (:id, :name, :branch, :year, :attendance, :subjects, :fees_paid)`,
}

// New opens the SQLite database at path and returns a ready-to-use store.
// The schema is not touched here; call EnsureSchema once at startup.
//
// The pool is capped at a single connection. All requests share it and
// database/sql queues them, which serialises access the same way a single
// shared connection would. It also keeps ":memory:" databases alive, as
// every new connection to ":memory:" would otherwise be a fresh, empty DB.
func New(path string) (*sqlstore.Store, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: ping: %w", err)
	}

	return sqlstore.New(db, Dialect), nil
}
