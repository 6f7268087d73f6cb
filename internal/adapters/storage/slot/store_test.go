package slot

import (
	"context"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"komunitas/internal/adapters/http/perf"
	"komunitas/internal/adapters/storage"
)

// --- Fake Postgres executor ---

// fakePg is an in-memory stand-in for a pgx pool, understanding only the slot statements.
type fakePg struct {
	mu    sync.Mutex
	slots map[string][]byte
}

func newFakePg() *fakePg { return &fakePg{slots: map[string][]byte{}} }

// Exec handles schema, upsert and delete statements.
// PRE: sql is one of the statements issued by PostgresStore
// POST: slots reflects the statement
func (f *fakePg) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.Contains(sql, "INSERT INTO slot"):
		f.slots[args[0].(string)] = slices.Clone(args[1].([]byte))
	case strings.Contains(sql, "DELETE FROM slot"):
		delete(f.slots, args[0].(string))
	}
	return pgconn.CommandTag{}, nil
}

// QueryRow handles value lookup and key listing.
// PRE: sql is one of the statements issued by PostgresStore
// POST: returns a row that scans the matching value, or pgx.ErrNoRows
func (f *fakePg) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.Contains(sql, "array_agg") {
		keys := make([]string, 0, len(f.slots))
		for k := range f.slots {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return fakeRow{scan: func(dest ...any) error {
			*dest[0].(*[]string) = keys
			return nil
		}}
	}
	v, ok := f.slots[args[0].(string)]
	if !ok {
		return fakeRow{scan: func(...any) error { return pgx.ErrNoRows }}
	}
	v = slices.Clone(v)
	return fakeRow{scan: func(dest ...any) error {
		*dest[0].(*[]byte) = v
		return nil
	}}
}

type fakeRow struct {
	scan func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error { return r.scan(dest...) }

// --- Conformance suite ---

func backends(t *testing.T) map[string]Store {
	t.Helper()

	db, err := storage.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	pg, err := NewPostgresStore(context.Background(), newFakePg())
	if err != nil {
		t.Fatalf("postgres store: %v", err)
	}

	return map[string]Store{
		"memory":   NewMemoryStore(),
		"sqlite":   NewSQLiteStore(storage.NewTimedDB(db, nil, 0)),
		"diskv":    NewDiskvStore(filepath.Join(t.TempDir(), "slots")),
		"postgres": pg,
		"timed":    NewTimedStore(NewMemoryStore(), "memory", perf.NewCollector(10), 0),
	}
}

func TestStore_Conformance(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if _, found, err := s.Get(ctx, "activities"); err != nil || found {
				t.Fatalf("Get on empty store = found %v, err %v", found, err)
			}

			if err := s.Put(ctx, "activities", []byte(`[{"id":"1"}]`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			v, found, err := s.Get(ctx, "activities")
			if err != nil || !found || string(v) != `[{"id":"1"}]` {
				t.Fatalf("Get after Put = %q, %v, %v", v, found, err)
			}

			if err := s.Put(ctx, "activities", []byte(`[]`)); err != nil {
				t.Fatalf("overwrite: %v", err)
			}
			v, _, _ = s.Get(ctx, "activities")
			if string(v) != `[]` {
				t.Errorf("overwrite kept %q", v)
			}

			if err := s.Put(ctx, "cashflow", []byte(`[]`)); err != nil {
				t.Fatalf("Put cashflow: %v", err)
			}
			keys, err := s.Keys(ctx)
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			if !slices.Equal(keys, []string{"activities", "cashflow"}) {
				t.Errorf("Keys = %v", keys)
			}

			if err := s.Delete(ctx, "activities"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := s.Delete(ctx, "activities"); err != nil {
				t.Errorf("Delete of absent slot should be nil, got %v", err)
			}
			if _, found, _ := s.Get(ctx, "activities"); found {
				t.Error("slot still present after Delete")
			}
		})
	}
}

func TestStore_RejectsInvalidKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.Put(ctx, "../etc/passwd", []byte("x")); err != ErrInvalidKey {
				t.Errorf("Put invalid key err = %v, want ErrInvalidKey", err)
			}
		})
	}
}

func TestDiskvStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "slots")

	if err := NewDiskvStore(dir).Put(ctx, "donations", []byte(`[1]`)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, found, err := NewDiskvStore(dir).Get(ctx, "donations")
	if err != nil || !found || string(v) != `[1]` {
		t.Errorf("reopened Get = %q, %v, %v", v, found, err)
	}
}

func TestTimedStore_Records(t *testing.T) {
	c := perf.NewCollector(10)
	s := NewTimedStore(NewMemoryStore(), "memory", c, 0)
	_, _, _ = s.Get(context.Background(), "x")
	_ = s.Put(context.Background(), "x", nil)
	if c.TotalRecorded() != 2 {
		t.Errorf("TotalRecorded = %d, want 2", c.TotalRecorded())
	}
}

func TestValidKey(t *testing.T) {
	for _, k := range []string{"activities", "audit_log", "a-1"} {
		if !ValidKey(k) {
			t.Errorf("ValidKey(%q) = false", k)
		}
	}
	for _, k := range []string{"", "Activities", "a/b", strings.Repeat("a", 65)} {
		if ValidKey(k) {
			t.Errorf("ValidKey(%q) = true", k)
		}
	}
}

func TestOpen_Backends(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	collector := perf.NewCollector(10)

	for _, backend := range []string{BackendSQLite, BackendDiskv, BackendMemory} {
		t.Run(backend, func(t *testing.T) {
			s, closeFn, err := Open(ctx, OpenOptions{
				Backend:    backend,
				SQLitePath: filepath.Join(dir, "komunitas.db"),
				DiskvPath:  filepath.Join(dir, "slots"),
				Collector:  collector,
			})
			if err != nil {
				t.Fatalf("Open: %v", err)
			}
			defer closeFn()
			if err := s.Put(ctx, "cashflow", []byte(`[]`)); err != nil {
				t.Fatalf("Put: %v", err)
			}
			if _, found, err := s.Get(ctx, "cashflow"); err != nil || !found {
				t.Errorf("Get = found %v, err %v", found, err)
			}
		})
	}

	if _, closeFn, err := Open(ctx, OpenOptions{Backend: "mongo"}); err == nil || closeFn == nil {
		t.Errorf("unknown backend err = %v", err)
	}
}
