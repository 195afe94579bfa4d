// Package kvstore provides the durable key-value storage that the session
// store persists into. Backends are interchangeable: a directory of files,
// an embedded SQLite database, a Redis server, or process memory.
package kvstore

import "context"

// Entry is a stored key and its raw value.
type Entry struct {
	Key   string
	Value []byte
}

// Store reads and writes whole values by key. Implementations hold no cache:
// every call performs I/O against the backend.
type Store interface {
	// List returns all keys present in the store, sorted.
	List(ctx context.Context) ([]string, error)
	// Load retrieves entries for the specified keys. A missing key fails the
	// whole call with ErrKeyNotFound.
	Load(ctx context.Context, keys ...string) ([]Entry, error)
	// Save writes entries, replacing any previous value.
	Save(ctx context.Context, entries ...Entry) error
	// Delete removes entries. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
