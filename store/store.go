// Package store holds the document storage collaborators. A store only
// understands section-blind document bodies keyed by variant and name; merge
// semantics belong to the vault package.
package store

import (
	"context"
	"sync"

	"advault/directory"
)

// Ref identifies one object's document: a variant-scoped path plus the
// sanitized display name.
type Ref struct {
	Class directory.Class
	Name  string
}

// DocumentStore is the contract the pipeline writes through. Read reports
// ok=false when no document exists for the ref. Implementations serialize
// concurrent writes to the same ref.
type DocumentStore interface {
	Read(ctx context.Context, ref Ref) (body string, ok bool, err error)
	Write(ctx context.Context, ref Ref, body string) error
}

// MemStore is an in-memory DocumentStore, used in tests and dry runs.
type MemStore struct {
	mu   sync.Mutex
	docs map[Ref]string
}

func NewMemStore() *MemStore {
	return &MemStore{docs: make(map[Ref]string)}
}

func (s *MemStore) Read(_ context.Context, ref Ref) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	body, ok := s.docs[ref]
	return body, ok, nil
}

func (s *MemStore) Write(_ context.Context, ref Ref, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[ref] = body
	return nil
}

// Len reports the number of stored documents.
func (s *MemStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}
