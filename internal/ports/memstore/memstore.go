// Package memstore is an in-memory versioned DocumentStore for tests and local runs.
package memstore

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"fish/internal/ports"
)

type entry struct {
	value   []byte
	version string
}

// Store keeps documents per collection and bumps a version on every write.
type Store struct {
	mu   sync.RWMutex
	docs map[string]map[string]entry
	seq  uint64
}

var _ ports.DocumentStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{docs: make(map[string]map[string]entry)}
}

// Get retrieves a copy of a document.
func (s *Store) Get(_ context.Context, collection, key string) (*ports.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.docs[collection][key]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return &ports.Document{Collection: collection, Key: key, Value: append([]byte(nil), e.value...), Version: e.version}, nil
}

func (s *Store) guard(collection, key, version string) error {
	e, exists := s.docs[collection][key]
	switch {
	case version == "":
		return nil
	case version == ports.VersionCreateOnly:
		if exists {
			return ports.ErrVersionConflict
		}
	case !exists || e.version != version:
		return ports.ErrVersionConflict
	}
	return nil
}

// Commit checks every guard before applying anything.
func (s *Store) Commit(_ context.Context, writes []ports.Write, deletes []ports.Delete) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if err := s.guard(w.Collection, w.Key, w.Version); err != nil {
			return err
		}
	}
	for _, d := range deletes {
		if err := s.guard(d.Collection, d.Key, d.Version); err != nil {
			return err
		}
	}

	for _, d := range deletes {
		delete(s.docs[d.Collection], d.Key)
	}
	for _, w := range writes {
		if s.docs[w.Collection] == nil {
			s.docs[w.Collection] = make(map[string]entry)
		}
		s.seq++
		s.docs[w.Collection][w.Key] = entry{
			value:   append([]byte(nil), w.Value...),
			version: strconv.FormatUint(s.seq, 10),
		}
	}
	return nil
}

// List pages through a collection in key order. The cursor is the last key returned.
func (s *Store) List(_ context.Context, collection string, limit int, cursor string) ([]*ports.Document, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.docs[collection]))
	for k := range s.docs[collection] {
		if k > cursor {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	next := ""
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
		next = keys[limit-1]
	}
	out := make([]*ports.Document, 0, len(keys))
	for _, k := range keys {
		e := s.docs[collection][k]
		out = append(out, &ports.Document{Collection: collection, Key: k, Value: append([]byte(nil), e.value...), Version: e.version})
	}
	return out, next, nil
}

// Len returns the number of documents in a collection.
func (s *Store) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs[collection])
}
