// Package kvstore provides byte-valued key-value stores with atomic
// read-modify-write, used for carts that do not live in PostgreSQL.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key holds no value.
var ErrNotFound = errors.New("kvstore: key not found")

// UpdateFunc receives the current value (nil when absent) and returns the
// value to store. Returning nil deletes the key.
type UpdateFunc func(current []byte) ([]byte, error)

// Store is a key-value store with atomic per-key updates.
type Store interface {
	// Get returns the value at key or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Update applies fn to the value at key atomically with respect to other
	// Update and Take calls on the same key. An error from fn aborts the
	// update and is returned unchanged.
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Take removes the value at key and returns it. Returns nil, nil when
	// the key was empty.
	Take(ctx context.Context, key string) ([]byte, error)
}
