// Package slot stores opaque named blobs. Each collection occupies exactly one slot,
// written whole on every mutation.
package slot

import (
	"context"
	"errors"
)

// ErrInvalidKey is returned for keys a backend cannot store.
var ErrInvalidKey = errors.New("slot key must be 1-64 characters of [a-z0-9_-]")

// Store is the contract every slot backend satisfies.
type Store interface {
	// Get returns the blob stored under key. found is false when the slot is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Put replaces the whole slot in one call.
	Put(ctx context.Context, key string, value []byte) error
	// Delete removes the slot; deleting an absent slot is not an error.
	Delete(ctx context.Context, key string) error
	// Keys lists every populated slot in ascending order.
	Keys(ctx context.Context) ([]string, error)
}

// ValidKey reports whether key is safe for every backend (file names, SQL parameters).
func ValidKey(key string) bool {
	if len(key) == 0 || len(key) > 64 {
		return false
	}
	for _, r := range key {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}
