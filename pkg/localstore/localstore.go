package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
)

// Store persists named JSON blobs under a base directory. It backs the
// offline data snapshot and the pending attendance queue, which must survive
// process restarts.
type Store struct {
	baseDir string
}

// New ensures the base directory exists and returns a handle.
func New(baseDir string) (*Store, error) {
	if baseDir == "" {
		baseDir = "./data"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create local store directory: %w", err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Read loads the blob stored under key into dest. A missing blob yields
// ErrCacheMiss; an unparsable one yields ErrCacheCorrupt and is left in
// place for inspection.
func (s *Store) Read(key string, dest interface{}) error {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return appErrors.ErrCacheMiss
		}
		return fmt.Errorf("read blob %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return appErrors.Wrap(err, appErrors.ErrCacheCorrupt.Code, appErrors.ErrCacheCorrupt.Status, fmt.Sprintf("blob %s is not valid JSON", key))
	}
	return nil
}

// Write marshals value and replaces the blob stored under key. The write goes
// through a temp file and rename so a crash never leaves a half-written blob.
func (s *Store) Write(key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal blob %s: %w", key, err)
	}

	path := s.path(key)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return fmt.Errorf("write blob %s: %w", key, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace blob %s: %w", key, err)
	}
	return nil
}

// Delete removes the blob if present.
func (s *Store) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete blob %s: %w", key, err)
	}
	return nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.baseDir, key+".json")
}
