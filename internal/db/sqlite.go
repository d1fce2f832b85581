package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// MemoryPath keeps the session table in memory only
const MemoryPath = ":memory:"

// DB wraps the SQLite connection holding a session's snapshots
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the session database and initializes the schema
func New(dbPath string) (*DB, error) {
	if dbPath == "" {
		dbPath = MemoryPath
	}

	if dbPath != MemoryPath {
		// Ensure the directory exists
		dir := filepath.Dir(dbPath)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// Every pooled connection to :memory: would get its own empty database
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(createSnapshotsTable); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create snapshots schema: %w", err)
	}

	return &DB{conn: conn}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}
