package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore keeps the whole session mirror in one JSON document on disk,
// the closest durable analogue to browser-local storage.
type FileStore struct {
	path string

	mu sync.Mutex
}

// NewFileStore creates the parent directory and validates that an existing
// file is readable JSON. A missing file is fine; a corrupt one is truncated.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("session file path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating session dir: %w", err)
		}
	}
	store := &FileStore{path: path}
	if _, err := store.read(); err != nil {
		if writeErr := store.write(map[Key]string{}); writeErr != nil {
			return nil, writeErr
		}
	}
	return store, nil
}

func (f *FileStore) Get(ctx context.Context, key Key) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return "", err
	}
	value, ok := entries[key]
	if !ok {
		return "", ErrNotFound
	}
	return value, nil
}

func (f *FileStore) Set(ctx context.Context, key Key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	entries[key] = value
	return f.write(entries)
}

func (f *FileStore) Del(ctx context.Context, keys ...Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := f.read()
	if err != nil {
		return err
	}
	for _, key := range keys {
		delete(entries, key)
	}
	return f.write(entries)
}

func (f *FileStore) read() (map[Key]string, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[Key]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading session file: %w", err)
	}
	entries := map[Key]string{}
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding session file: %w", err)
	}
	return entries, nil
}

// write lands the document via temp file and rename so a crash mid-write
// never leaves a half-written session behind.
func (f *FileStore) write(entries map[Key]string) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session file: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	return nil
}
