// Package export persists a parsed graph into a SQLite property-graph
// database: node tables for pages and blocks, relation tables for
// membership, links, tags, properties, and resources.
package export

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS pages (
	name           TEXT PRIMARY KEY,
	is_placeholder INTEGER NOT NULL DEFAULT 0,
	is_public      INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS blocks (
	uuid       TEXT PRIMARY KEY,
	content    TEXT NOT NULL DEFAULT '',
	is_heading INTEGER NOT NULL DEFAULT 0,
	directive  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS in_page (
	block    TEXT NOT NULL,
	page     TEXT NOT NULL,
	position INTEGER NOT NULL,
	depth    INTEGER NOT NULL,
	UNIQUE(block, page)
);

CREATE TABLE IF NOT EXISTS block_branches (
	uuid     TEXT NOT NULL,
	parent   TEXT NOT NULL,
	position INTEGER NOT NULL,
	depth    INTEGER NOT NULL,
	UNIQUE(uuid, parent)
);

CREATE TABLE IF NOT EXISTS links (
	source TEXT NOT NULL,
	target TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS in_namespace (
	page      TEXT NOT NULL,
	namespace TEXT NOT NULL,
	UNIQUE(page, namespace)
);

CREATE TABLE IF NOT EXISTS page_is_tagged (
	page TEXT NOT NULL,
	tag  TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS page_has_property (
	page     TEXT NOT NULL,
	property TEXT NOT NULL,
	value    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS block_has_property (
	block    TEXT NOT NULL,
	property TEXT NOT NULL,
	value    TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS block_links (
	source TEXT NOT NULL,
	target TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS tag_links (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	as_tag INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS resources (
	path     TEXT PRIMARY KEY,
	is_asset INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS resource_links (
	source TEXT NOT NULL,
	target TEXT NOT NULL,
	label  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_in_page_page ON in_page(page);
CREATE INDEX IF NOT EXISTS idx_links_source ON links(source);
CREATE INDEX IF NOT EXISTS idx_links_target ON links(target);
CREATE INDEX IF NOT EXISTS idx_branches_parent ON block_branches(parent);
`

// tables lists every table in rebuild order; Write clears them in
// reverse before repopulating.
var tables = []string{
	"pages",
	"blocks",
	"in_page",
	"block_branches",
	"links",
	"in_namespace",
	"page_is_tagged",
	"page_has_property",
	"block_has_property",
	"block_links",
	"tag_links",
	"resources",
	"resource_links",
}

// DB wraps a sql.DB with export-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("export: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("export: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
