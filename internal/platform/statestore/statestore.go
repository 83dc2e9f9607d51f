// Package statestore provides the dashboard's persisted key-value state:
// the active session profile and the cached risk predictions. Values are
// opaque JSON blobs; interpretation is left to the owning component.
package statestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store is a minimal persistent key-value store. Get reports a miss with
// found=false rather than an error so callers can treat absence as a normal
// outcome.
type Store interface {
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ---------------------------------------------------------------------------
// FileStore
// ---------------------------------------------------------------------------

// FileStore keeps all keys in a single JSON document on disk. The whole
// document is held in memory and rewritten atomically on every mutation,
// which is fine at this scale (two logical keys).
type FileStore struct {
	path    string
	mu      sync.Mutex
	entries map[string]json.RawMessage
}

// NewFileStore opens (or creates) the store at path. A missing file starts
// the store empty. An unreadable or corrupt file also starts the store
// empty: persisted state is a mirror, not a source of truth, so corruption
// is healed by discarding rather than surfaced as a startup failure.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("state file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create state dir: %w", err)
		}
	}

	s := &FileStore{path: path, entries: make(map[string]json.RawMessage)}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, nil
	}
	if err := json.Unmarshal(data, &s.entries); err != nil {
		s.entries = make(map[string]json.RawMessage)
	}
	return s, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (s *FileStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = json.RawMessage(append([]byte(nil), value...))
	return s.flush()
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[key]; !ok {
		return nil
	}
	delete(s.entries, key)
	return s.flush()
}

// flush writes the document via a temp file and rename so a crash mid-write
// never leaves a truncated store behind. Caller must hold s.mu.
func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
