package storage

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the durable Store implementation. It keeps every table
// document as one row of a single key/value relation inside a SQLite file,
// which gives atomic whole-document replacement without any file juggling.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// OpenSQLite opens (or creates) the document store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", path, err)
	}
	// Single writer, single reader: the engine is a one-session system.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		name TEXT PRIMARY KEY,
		doc  BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("init store %q: %w", path, err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

// Keys returns all document keys in insertion order.
func (s *SQLiteStore) Keys() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM documents ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list keys: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Get returns the document stored under name.
func (s *SQLiteStore) Get(name string) ([]byte, error) {
	var doc []byte
	err := s.db.QueryRow(`SELECT doc FROM documents WHERE name = ?`, name).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", name, err)
	}
	return doc, nil
}

// Put stores doc under name, replacing any previous document.
func (s *SQLiteStore) Put(name string, doc []byte) error {
	_, err := s.db.Exec(`INSERT INTO documents (name, doc) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET doc = excluded.doc`, name, doc)
	if err != nil {
		return fmt.Errorf("put %q: %w", name, err)
	}
	return nil
}

// Delete removes the document stored under name.
func (s *SQLiteStore) Delete(name string) error {
	if _, err := s.db.Exec(`DELETE FROM documents WHERE name = ?`, name); err != nil {
		return fmt.Errorf("delete %q: %w", name, err)
	}
	return nil
}

// Vacuum compacts the underlying SQLite file. Dropped tables leave free
// pages behind; a periodic vacuum reclaims them.
func (s *SQLiteStore) Vacuum() error {
	if _, err := s.db.Exec(`VACUUM`); err != nil {
		return fmt.Errorf("vacuum %q: %w", s.path, err)
	}
	return nil
}

// Close releases the SQLite handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
