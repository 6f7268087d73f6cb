// Package collection persists homogeneous record lists, one JSON array per slot.
package collection

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"komunitas/internal/adapters/storage/slot"
)

// Slot keys
const (
	KeyActivities  = "activities"
	KeyCashflow    = "cashflow"
	KeyDonations   = "donations"
	KeyVolunteers  = "volunteers"
	KeySubmissions = "submissions"
	KeyAuditLog    = "audit_log"
	KeyAccounts    = "accounts"
)

// MutateFunc transforms a snapshot of the collection.
// Returning changed=false skips the write; a non-nil error aborts it.
type MutateFunc[T any] func(items []T) (next []T, changed bool, err error)

// Collection is a named list of T persisted as a single JSON array.
// An absent or undecodable slot reads as the defaults and is never written back by Read.
type Collection[T any] struct {
	store    slot.Store
	key      string
	defaults func() []T

	// mu serialises read-modify-write cycles within this process.
	mu sync.Mutex
}

// New creates a collection over key.
// PRE: store is non-nil; defaults returns a fresh slice on every call (may be nil)
func New[T any](store slot.Store, key string, defaults func() []T) *Collection[T] {
	if defaults == nil {
		defaults = func() []T { return nil }
	}
	return &Collection[T]{store: store, key: key, defaults: defaults}
}

// Key returns the slot key this collection occupies.
func (c *Collection[T]) Key() string {
	return c.key
}

// Read returns the stored list, or the defaults when the slot is absent or corrupt.
// PRE: none
// POST: the slot is not modified
// Backend I/O failures are returned; decode failures are not.
func (c *Collection[T]) Read(ctx context.Context) ([]T, error) {
	raw, found, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}
	if !found {
		return c.defaults(), nil
	}
	var items []T
	if err := json.Unmarshal(raw, &items); err != nil {
		slog.Warn("collection_corrupt", "key", c.key, "error", err)
		return c.defaults(), nil
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Write serialises items and replaces the slot in one call.
// POST: a subsequent Read returns a value deep-equal to items
func (c *Collection[T]) Write(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(ctx, items)
}

func (c *Collection[T]) write(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err := c.store.Put(ctx, c.key, raw); err != nil {
		return fmt.Errorf("write %s: %w", c.key, err)
	}
	return nil
}

// Update reads the list, applies fn and writes the result back when fn reports a change.
// Concurrent Updates on the same Collection run one at a time.
// PRE: fn does not retain items after returning
// POST: on error nothing is written
func (c *Collection[T]) Update(ctx context.Context, fn MutateFunc[T]) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, err := c.Read(ctx)
	if err != nil {
		return err
	}
	next, changed, err := fn(items)
	if err != nil || !changed {
		return err
	}
	return c.write(ctx, next)
}

// Reset removes the slot so subsequent reads return the defaults.
func (c *Collection[T]) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.store.Delete(ctx, c.key); err != nil {
		return fmt.Errorf("reset %s: %w", c.key, err)
	}
	return nil
}
