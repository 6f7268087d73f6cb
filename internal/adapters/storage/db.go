package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SlotTable holds one serialized collection per row.
const SlotTable = "slot"

// InitDB initializes the SQLite schema.
// PRE: db is a valid SQLite connection
// POST: slot table exists, WAL mode enabled
func InitDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS slot (
		key TEXT PRIMARY KEY,
		value BLOB NOT NULL,
		updated_at TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// OpenSQLite opens a SQLite database at path and applies the schema.
// PRE: path is a file path or ":memory:"
// POST: Returns an initialised connection; caller closes it
func OpenSQLite(path string) (*sql.DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// A single writer avoids SQLITE_BUSY under concurrent slot writes.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
