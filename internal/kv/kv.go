// Package kv defines the string key-value persistence primitives the
// transaction store and preferences are written through.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by GetItem when the key has never been written
// or has been removed.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal string key-value persistence layer.
type Store interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// Closer is implemented by backends holding connections or files.
type Closer interface {
	Close() error
}

// Close closes s if it holds resources.
func Close(s Store) error {
	if c, ok := s.(Closer); ok {
		return c.Close()
	}
	return nil
}
