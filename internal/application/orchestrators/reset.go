package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"komunitas/internal/domain/audit"
)

// Resettable is a collection whose slot can be cleared back to its seed list.
type Resettable interface {
	Key() string
	Reset(ctx context.Context) error
}

// ResetInput carries input for the reset orchestrator.
type ResetInput struct {
	Actor string
}

// ResetDeps holds dependencies for ExecuteResetData.
type ResetDeps struct {
	Collections []Resettable // cleared in order
	AuditDeps
}

// ExecuteResetData clears every configured slot so reads return the defaults again.
// PRE: Collections is non-empty
// POST: On error, earlier collections stay cleared and later ones untouched
func ExecuteResetData(ctx context.Context, input ResetInput, deps ResetDeps) ([]string, error) {
	cleared := make([]string, 0, len(deps.Collections))
	for _, c := range deps.Collections {
		if err := c.Reset(ctx); err != nil {
			return cleared, err
		}
		cleared = append(cleared, c.Key())
	}

	deps.record(ctx, deps.event(audit.CollectionSystem, audit.ActionReset, "", input.Actor).WithDescription(strings.Join(cleared, ",")))
	slog.Info("system_event", "event", "data_reset", "slots", cleared, "actor", input.Actor)
	return cleared, nil
}

