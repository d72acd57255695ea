package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/adrg/xdg"
)

const fileExt = ".json"

// FileStore keeps one file per key inside a directory. Writes go through a
// temporary file and a rename so a crash never leaves a torn value.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	closed bool
}

// DefaultFileDir returns $XDG_STATE_HOME/webtop.
func DefaultFileDir() (string, error) {
	p, err := xdg.StateFile(filepath.Join("webtop", "state"))
	if err != nil {
		return "", fmt.Errorf("file store: resolve state dir: %w", err)
	}
	return filepath.Dir(p), nil
}

// NewFileStore creates the directory if needed and returns a store over it.
func NewFileStore(dir string) (*FileStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("file store: dir cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("file store: create dir: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string { return s.dir }

// Path returns the file that holds key.
func (s *FileStore) Path(key string) string {
	return filepath.Join(s.dir, key+fileExt)
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	data, err := os.ReadFile(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("file store: read %s: %w", key, err)
	}
	return data, nil
}

func (s *FileStore) Put(_ context.Context, key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("file store: create temp: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: close %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.Path(key)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("file store: rename %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}

	err := os.Remove(s.Path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("file store: delete %s: %w", key, err)
	}
	return nil
}

func (s *FileStore) Keys(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrClosed
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("file store: list: %w", err)
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(name, fileExt))
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *FileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
