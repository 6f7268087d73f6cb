package collection

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"

	"komunitas/internal/adapters/storage/slot"
	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/volunteer"
)

// --- Mock slot store ---

// failingSlots is a slot.Store whose calls fail on demand.
type failingSlots struct {
	*slot.MemoryStore
	getErr error
	putErr error
	puts   int
}

// Get returns getErr when set, otherwise delegates.
// PRE: none
// POST: returns getErr or the stored blob
func (f *failingSlots) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	return f.MemoryStore.Get(ctx, key)
}

// Put counts calls and returns putErr when set.
// PRE: none
// POST: puts incremented; value stored only when putErr is nil
func (f *failingSlots) Put(ctx context.Context, key string, value []byte) error {
	f.puts++
	if f.putErr != nil {
		return f.putErr
	}
	return f.MemoryStore.Put(ctx, key, value)
}

func newFailing() *failingSlots {
	return &failingSlots{MemoryStore: slot.NewMemoryStore()}
}

// --- Tests ---

func TestRead_AbsentReturnsDefaultsWithoutWriting(t *testing.T) {
	s := newFailing()
	c := New(s, KeyActivities, activity.DefaultActivities)

	got, err := c.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, activity.DefaultActivities()) {
		t.Error("absent slot should read as defaults")
	}
	if s.puts != 0 {
		t.Errorf("Read wrote %d times, want 0", s.puts)
	}
	if _, found, _ := s.MemoryStore.Get(context.Background(), KeyActivities); found {
		t.Error("defaults must not be written back")
	}
}

func TestRead_CorruptReturnsDefaults(t *testing.T) {
	s := slot.NewMemoryStore()
	_ = s.Put(context.Background(), KeyActivities, []byte(`{not json`))
	c := New(s, KeyActivities, activity.DefaultActivities)

	got, err := c.Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(got) != len(activity.DefaultActivities()) {
		t.Errorf("corrupt slot len = %d, want defaults", len(got))
	}
	raw, _, _ := s.Get(context.Background(), KeyActivities)
	if string(raw) != `{not json` {
		t.Error("corrupt slot must be left untouched")
	}
}

func TestRead_ShapeMismatchReturnsDefaults(t *testing.T) {
	s := slot.NewMemoryStore()
	_ = s.Put(context.Background(), KeyVolunteers, []byte(`[{"skills":"not-a-list"}]`))
	c := New(s, KeyVolunteers, volunteer.DefaultRequests)

	got, _ := c.Read(context.Background())
	if len(got) != 1 || got[0].ID != "vol-1" {
		t.Errorf("shape mismatch should read as defaults, got %+v", got)
	}
}

func TestRead_BackendErrorPropagates(t *testing.T) {
	s := newFailing()
	s.getErr = errors.New("disk gone")
	c := New(s, KeyActivities, activity.DefaultActivities)
	if _, err := c.Read(context.Background()); err == nil {
		t.Error("backend failure should be returned")
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := New(slot.NewMemoryStore(), KeyActivities, activity.DefaultActivities)

	want := []activity.Activity{
		{ID: "a", Title: "Kerja Bakti", Status: activity.StatusOngoing, Participants: 12, CreatedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)},
		{ID: "b", Title: "Santunan", Location: "-6.2, 106.8", Status: activity.StatusUpcoming, CreatedAt: time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC)},
	}
	if err := c.Write(ctx, want); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := c.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestWrite_EmptyListStaysEmpty(t *testing.T) {
	ctx := context.Background()
	c := New(slot.NewMemoryStore(), KeyActivities, activity.DefaultActivities)
	if err := c.Write(ctx, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, _ := c.Read(ctx)
	if got == nil || len(got) != 0 {
		t.Errorf("written empty list read back as %v, want []", got)
	}
}

func TestUpdate_UnchangedSkipsWrite(t *testing.T) {
	s := newFailing()
	c := New(s, KeyActivities, activity.DefaultActivities)
	err := c.Update(context.Background(), func(items []activity.Activity) ([]activity.Activity, bool, error) {
		return items, false, nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if s.puts != 0 {
		t.Errorf("unchanged Update wrote %d times", s.puts)
	}
}

func TestUpdate_WriteFailurePropagates(t *testing.T) {
	s := newFailing()
	s.putErr = errors.New("quota exceeded")
	c := New(s, KeyActivities, activity.DefaultActivities)
	err := c.Update(context.Background(), func(items []activity.Activity) ([]activity.Activity, bool, error) {
		return items[:1], true, nil
	})
	if err == nil || !errors.Is(err, s.putErr) {
		t.Errorf("err = %v, want wrapped quota error", err)
	}
}

func TestUpdate_SerialisesConcurrentMutations(t *testing.T) {
	ctx := context.Background()
	c := New[activity.Activity](slot.NewMemoryStore(), KeyActivities, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = c.Update(ctx, func(items []activity.Activity) ([]activity.Activity, bool, error) {
				return append([]activity.Activity{{ID: fmt.Sprint(n)}}, items...), true, nil
			})
		}(i)
	}
	wg.Wait()

	got, _ := c.Read(ctx)
	if len(got) != 50 {
		t.Errorf("len = %d, want 50 (lost updates)", len(got))
	}
}

func TestReset_RestoresDefaults(t *testing.T) {
	ctx := context.Background()
	c := New(slot.NewMemoryStore(), KeyActivities, activity.DefaultActivities)
	_ = c.Write(ctx, []activity.Activity{})
	if err := c.Reset(ctx); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	got, _ := c.Read(ctx)
	if len(got) != len(activity.DefaultActivities()) {
		t.Errorf("after reset len = %d, want defaults", len(got))
	}
}

func TestNewStores_DistinctKeys(t *testing.T) {
	s := NewStores(slot.NewMemoryStore())
	keys := []string{
		s.Activities.Key(), s.Cashflow.Key(), s.Donations.Key(), s.Volunteers.Key(),
		s.Submissions.Key(), s.AuditLog.Key(), s.Accounts.Key(),
	}
	seen := map[string]bool{}
	for _, k := range keys {
		if seen[k] {
			t.Errorf("duplicate key %q", k)
		}
		seen[k] = true
		if !slot.ValidKey(k) {
			t.Errorf("invalid key %q", k)
		}
	}
}
