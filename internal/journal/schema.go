// Package journal provides the SQLite-backed log of observed activity events.
package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Stamps are stored as epoch milliseconds so ordering and aggregation stay
// plain integer operations.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS activity_events (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	path           TEXT NOT NULL,
	source         TEXT NOT NULL,
	observed_at_ms INTEGER NOT NULL,
	recorded_at_ms INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_activity_events_observed ON activity_events(observed_at_ms);
CREATE INDEX IF NOT EXISTS idx_activity_events_path ON activity_events(path);
`

// DB wraps a sql.DB with journal operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the journal database and applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// OpenReadOnly opens an existing journal without touching the schema. The
// MCP server uses this; schema creation belongs to the service.
func OpenReadOnly(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", "file:"+path+"?mode=ro&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
