package slot

import (
	"context"
	"fmt"
	"log/slog"

	"komunitas/internal/adapters/http/perf"
	"komunitas/internal/adapters/storage"
)

// Backend names accepted by Open.
const (
	BackendSQLite   = "sqlite"
	BackendDiskv    = "diskv"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// OpenOptions selects and locates a backend.
type OpenOptions struct {
	Backend     string
	SQLitePath  string
	DiskvPath   string
	PostgresURL string
	Collector   *perf.Collector // optional
	SlowMs      int
}

// Open builds the configured backend with timing instrumentation.
// POST: the returned close func releases the backend's connections; it is never nil
func Open(ctx context.Context, opts OpenOptions) (Store, func() error, error) {
	noop := func() error { return nil }
	switch opts.Backend {
	case BackendSQLite:
		db, err := storage.OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, noop, err
		}
		slog.Info("store_opened", "backend", opts.Backend, "path", opts.SQLitePath)
		return NewSQLiteStore(storage.NewTimedDB(db, opts.Collector, opts.SlowMs)), db.Close, nil
	case BackendDiskv:
		slog.Info("store_opened", "backend", opts.Backend, "path", opts.DiskvPath)
		return NewTimedStore(NewDiskvStore(opts.DiskvPath), opts.Backend, opts.Collector, opts.SlowMs), noop, nil
	case BackendPostgres:
		pool, err := OpenPostgres(ctx, opts.PostgresURL)
		if err != nil {
			return nil, noop, err
		}
		pg, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, noop, err
		}
		slog.Info("store_opened", "backend", opts.Backend)
		return NewTimedStore(pg, opts.Backend, opts.Collector, opts.SlowMs), func() error { pool.Close(); return nil }, nil
	case BackendMemory:
		slog.Warn("store_opened", "backend", opts.Backend, "note", "data is lost on exit")
		return NewTimedStore(NewMemoryStore(), opts.Backend, opts.Collector, opts.SlowMs), noop, nil
	}
	return nil, noop, fmt.Errorf("unknown slot backend %q", opts.Backend)
}
