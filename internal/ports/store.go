package ports

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrVersionConflict is returned when a conditional write lost a race.
	ErrVersionConflict = errors.New("document version conflict")
)

// VersionCreateOnly guards a write that must not overwrite an existing document.
const VersionCreateOnly = "*"

// Document is a stored JSON value and its opaque version token.
type Document struct {
	Collection string
	Key        string
	Value      []byte
	Version    string
}

// Write stores a document. Version is empty for an unconditional write,
// VersionCreateOnly for a create, or the version that must still be current.
type Write struct {
	Collection string
	Key        string
	Value      []byte
	Version    string
}

// Delete removes a document, guarded by Version when set.
type Delete struct {
	Collection string
	Key        string
	Version    string
}

// DocumentStore is the persistence port for game and lobby aggregates.
type DocumentStore interface {
	// Get reads one document. Returns ErrNotFound when it does not exist.
	Get(ctx context.Context, collection, key string) (*Document, error)

	// Commit applies all writes and deletes atomically.
	// Returns ErrVersionConflict if any guard fails, in which case nothing is applied.
	Commit(ctx context.Context, writes []Write, deletes []Delete) error

	// List pages through a collection. An empty returned cursor means the end.
	List(ctx context.Context, collection string, limit int, cursor string) ([]*Document, string, error)
}
