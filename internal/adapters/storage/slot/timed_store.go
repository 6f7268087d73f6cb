package slot

import (
	"context"
	"log/slog"
	"time"

	"komunitas/internal/adapters/http/perf"
)

// TimedStore wraps a Store to log slow slot operations and record them to a collector.
// The SQLite backend is timed by storage.TimedDB instead.
type TimedStore struct {
	next      Store
	backend   string
	collector *perf.Collector
	threshold float64
}

// Compile-time check that *TimedStore satisfies Store.
var _ Store = (*TimedStore)(nil)

// NewTimedStore wraps next; backend names it in logs and perf entries.
// PRE: next is non-nil; collector may be nil
func NewTimedStore(next Store, backend string, collector *perf.Collector, slowMs int) *TimedStore {
	if slowMs <= 0 {
		slowMs = 50
	}
	return &TimedStore{next: next, backend: backend, collector: collector, threshold: float64(slowMs)}
}

func (t *TimedStore) observe(op, key string, start time.Time) {
	ms := t.collector.Observe(perf.KindStorage, t.backend+"."+op, 0, start)
	if ms >= t.threshold {
		slog.Warn("slow_slot_op", "backend", t.backend, "op", op, "key", key, "duration_ms", ms)
	}
}

// Get delegates to the wrapped store.
func (t *TimedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	defer t.observe("get", key, time.Now())
	return t.next.Get(ctx, key)
}

// Put delegates to the wrapped store.
func (t *TimedStore) Put(ctx context.Context, key string, value []byte) error {
	defer t.observe("put", key, time.Now())
	return t.next.Put(ctx, key, value)
}

// Delete delegates to the wrapped store.
func (t *TimedStore) Delete(ctx context.Context, key string) error {
	defer t.observe("delete", key, time.Now())
	return t.next.Delete(ctx, key)
}

// Keys delegates to the wrapped store.
func (t *TimedStore) Keys(ctx context.Context) ([]string, error) {
	defer t.observe("keys", "", time.Now())
	return t.next.Keys(ctx)
}
