package slot

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore keeps each slot in its own file under a base directory.
type DiskvStore struct {
	d *diskv.Diskv
}

// Compile-time check that *DiskvStore satisfies Store.
var _ Store = (*DiskvStore)(nil)

// NewDiskvStore creates a file-backed store rooted at basePath.
// Writes go through a sibling temp directory and are renamed into place.
// PRE: basePath is writable
func NewDiskvStore(basePath string) *DiskvStore {
	basePath = filepath.Clean(basePath)
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		TempDir:      basePath + ".tmp",
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 1024 * 1024,
	})}
}

// Get reads the file for key.
func (s *DiskvStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	if !ValidKey(key) || !s.d.Has(key) {
		return nil, false, nil
	}
	v, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read slot %s: %w", key, err)
	}
	return v, true, nil
}

// Put writes the file for key.
func (s *DiskvStore) Put(_ context.Context, key string, value []byte) error {
	if !ValidKey(key) {
		return ErrInvalidKey
	}
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("write slot %s: %w", key, err)
	}
	return nil
}

// Delete erases the file for key if present.
func (s *DiskvStore) Delete(_ context.Context, key string) error {
	if !ValidKey(key) || !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("erase slot %s: %w", key, err)
	}
	return nil
}

// Keys lists populated slots in ascending order.
func (s *DiskvStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	for k := range s.d.Keys(ctx.Done()) {
		keys = append(keys, k)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	slices.Sort(keys)
	return keys, nil
}
