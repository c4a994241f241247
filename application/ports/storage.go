package ports

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when no value exists for the key
var ErrKeyNotFound = errors.New("key not found")

// KeyValueStore is the persistence boundary of the application: a
// synchronous get/put-by-key contract over string keys with whole-value
// semantics. Each collection is stored as one JSON blob under a
// well-known key; there are no partial or range reads.
type KeyValueStore interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes the value under key. Deleting an absent key is not
	// an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the store.
	Close() error
}
