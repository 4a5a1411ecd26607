// Package storage provides the document layer for tinyrel.
//
// What: A byte-keyed store of serialized table documents, one document per
// table, plus the JSON codec for the document format. Two implementations
// are provided: a durable store backed by SQLite (pure Go driver) and an
// in-memory store for tests and throwaway sessions.
// How: The Store interface mirrors the four operations the engine needs
// (list keys, get, put, delete). Documents are opaque bytes at this level;
// the codec in document.go gives them shape. The engine always reads and
// writes whole documents, so the store never has to understand rows.
// Why: Keeping persistence behind a four-method interface lets the engine
// stay storage-agnostic and makes every engine test runnable against the
// in-memory store.
package storage

import "errors"

// ErrNotFound is returned by Get when no document exists under the key.
var ErrNotFound = errors.New("storage: document not found")

// Store is the byte-keyed document store the engine persists tables in.
// Keys are UTF-8 table names; values are whole serialized table documents.
type Store interface {
	// Keys returns all document keys in insertion order.
	Keys() ([]string, error)
	// Get returns the document stored under name, or ErrNotFound.
	Get(name string) ([]byte, error)
	// Put stores doc under name, replacing any previous document.
	Put(name string, doc []byte) error
	// Delete removes the document stored under name. Deleting a missing
	// key is not an error.
	Delete(name string) error
	// Close releases the underlying resources. The store must not be
	// used afterwards.
	Close() error
}
