package storage

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const documentsSchemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	name       TEXT PRIMARY KEY,
	body       BLOB NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite implements Provider with one row per collection in a documents
// table. Each Save is a single-statement transaction, which gives the same
// whole-document atomicity as the file provider.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: ping: %w", err)
	}
	if _, err := conn.Exec(documentsSchemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("storage: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Load reads the collection document row.
func (s *SQLite) Load(c Collection) ([]byte, error) {
	var body []byte
	err := s.conn.QueryRow(`SELECT body FROM documents WHERE name = ?`, string(c)).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoCollection
	}
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", c, err)
	}
	return body, nil
}

// Save upserts the collection document row.
func (s *SQLite) Save(c Collection, data []byte) error {
	_, err := s.conn.Exec(`
		INSERT INTO documents (name, body, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		string(c), data)
	if err != nil {
		return fmt.Errorf("storage: write %s: %w", c, err)
	}
	return nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
