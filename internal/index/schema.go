// Package index persists a snapshot of the connected vault model in SQLite,
// with optional FTS5 full-text search over note text. The vault is rebuilt
// from disk as one batch, so writes happen as whole-snapshot replacements
// rather than per-file upserts.
package index

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const coreSchemaSQL = `
CREATE TABLE IF NOT EXISTS files (
	name          TEXT PRIMARY KEY,
	kind          TEXT NOT NULL,
	rel_path      TEXT NOT NULL DEFAULT '',
	file_exists   INTEGER NOT NULL DEFAULT 0,
	n_backlinks   INTEGER,
	n_wikilinks   INTEGER,
	n_tags        INTEGER,
	n_embedded    INTEGER,
	tags          TEXT NOT NULL DEFAULT '[]',
	source_text   TEXT NOT NULL DEFAULT '',
	modified_time DATETIME
);

CREATE TABLE IF NOT EXISTS links (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	ord    INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// DB wraps a sql.DB with snapshot-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(coreSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply core schema: %w", err)
	}
	if err := initFTS(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply fts schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
