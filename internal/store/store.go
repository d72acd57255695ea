// Package store provides the durable key/value backends that hold the
// window registry snapshot and other per-widget blobs.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound indicates that no value is stored under the key.
	ErrNotFound = errors.New("key not found")
	// ErrInvalidKey indicates an empty or malformed key.
	ErrInvalidKey = errors.New("invalid key")
	// ErrClosed indicates the store has already been closed.
	ErrClosed = errors.New("store closed")
	// ErrUnknownBackend indicates an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")
)

// Store is a durable key/value store. Values are opaque blobs.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists the stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)
	// Close releases the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Open constructs the backend named by backend rooted at path. An empty path
// selects the backend's default XDG location.
func Open(backend, path string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendFile:
		if path == "" {
			dir, err := DefaultFileDir()
			if err != nil {
				return nil, err
			}
			path = dir
		}
		return NewFileStore(path)
	case BackendSQLite:
		if path == "" {
			p, err := DefaultSQLitePath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return NewSQLiteStore(path)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
