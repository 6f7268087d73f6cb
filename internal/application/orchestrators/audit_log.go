package orchestrators

import (
	"context"
	"log/slog"
	"time"

	"komunitas/internal/adapters/storage/collection"
	"komunitas/internal/domain/audit"
)

// Updater is the read-modify-write side of a persisted collection.
type Updater[T any] interface {
	Read(ctx context.Context) ([]T, error)
	Update(ctx context.Context, fn collection.MutateFunc[T]) error
}

// AuditLogForOrchestrator defines the store interface used to append mutation log entries.
type AuditLogForOrchestrator interface {
	Update(ctx context.Context, fn collection.MutateFunc[audit.Event]) error
}

// AuditDeps is embedded by every mutating orchestrator's deps.
type AuditDeps struct {
	AuditLog   AuditLogForOrchestrator // optional: nil disables the mutation log
	GenerateID func() string
	Now        func() time.Time
}

// now returns the mutation time in UTC.
func (d AuditDeps) now() time.Time {
	if d.Now == nil {
		return time.Now().UTC()
	}
	return d.Now().UTC()
}

// record appends e to the mutation log.
// A failed append is logged and swallowed: the mutation it describes has already been persisted.
func (d AuditDeps) record(ctx context.Context, e audit.Event) {
	if d.AuditLog == nil {
		return
	}
	err := d.AuditLog.Update(ctx, func(log []audit.Event) ([]audit.Event, bool, error) {
		return audit.Prepend(log, e), true, nil
	})
	if err != nil {
		slog.Warn("audit_write_failed", "collection", e.Collection, "action", e.Action, "resource_id", e.ResourceID, "error", err)
	}
}

// event starts an audit entry stamped with a fresh id and the current time.
func (d AuditDeps) event(c audit.Collection, a audit.Action, resourceID, actor string) audit.Event {
	return audit.NewEvent(d.GenerateID(), d.now(), c, a).WithResource(resourceID).WithActor(actor)
}

// indexOf returns the position of the first element whose id matches, or -1.
func indexOf[T any](items []T, id string, idOf func(T) string) int {
	for i, it := range items {
		if idOf(it) == id {
			return i
		}
	}
	return -1
}

// without returns a copy of items with position i removed.
func without[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// prepend returns a copy of items with it at the head.
func prepend[T any](items []T, it T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, it)
	return append(out, items...)
}
