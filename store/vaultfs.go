package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"advault/directory"
)

// Subdirectory per variant, mirroring how analysts organize the vault.
func classDir(c directory.Class) string {
	switch c {
	case directory.ClassGroup:
		return "GROUPS"
	case directory.ClassComputer:
		return "COMPUTERS"
	default:
		return "USERS"
	}
}

// VaultStore keeps documents as markdown files under a vault directory,
// one subdirectory per variant. Writes targeting the same path are
// serialized with per-path locks so concurrent merges cannot lose updates.
type VaultStore struct {
	base string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewVaultStore(base string) *VaultStore {
	return &VaultStore{
		base:  base,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *VaultStore) path(ref Ref) string {
	return filepath.Join(s.base, classDir(ref.Class), ref.Name+".md")
}

func (s *VaultStore) pathLock(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[path]
	if !ok {
		l = &sync.Mutex{}
		s.locks[path] = l
	}
	return l
}

func (s *VaultStore) Read(_ context.Context, ref Ref) (string, bool, error) {
	body, err := os.ReadFile(s.path(ref))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading document %s: %w", s.path(ref), err)
	}
	return string(body), true, nil
}

func (s *VaultStore) Write(_ context.Context, ref Ref, body string) error {
	path := s.path(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating vault directory: %w", err)
	}

	l := s.pathLock(path)
	l.Lock()
	defer l.Unlock()

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("writing document %s: %w", path, err)
	}
	return nil
}
