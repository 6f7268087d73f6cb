package orchestrators

import (
	"context"
	"log/slog"

	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/audit"
)

// ActivityDeps holds dependencies for the activity orchestrators.
type ActivityDeps struct {
	Activities Updater[activity.Activity]
	AuditDeps
}

func activityID(a activity.Activity) string { return a.ID }

// --- Create Activity ---

// CreateActivityInput carries input for the create activity orchestrator.
type CreateActivityInput struct {
	Draft activity.Draft
	Actor string // account email, empty for anonymous callers
}

// ExecuteCreateActivity records a new activity at the head of the collection.
// PRE: GenerateID returns a unique id
// POST: Activity prepended with a fresh ID and UTC CreatedAt; nothing written on validation error
func ExecuteCreateActivity(ctx context.Context, input CreateActivityInput, deps ActivityDeps) (activity.Activity, error) {
	if err := input.Draft.Validate(); err != nil {
		return activity.Activity{}, err
	}

	a := activity.Activity{ID: deps.GenerateID(), CreatedAt: deps.now()}
	a.Apply(input.Draft)

	err := deps.Activities.Update(ctx, func(items []activity.Activity) ([]activity.Activity, bool, error) {
		return prepend(items, a), true, nil
	})
	if err != nil {
		return activity.Activity{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionActivities, audit.ActionCreate, a.ID, input.Actor).WithDescription(a.Title))
	slog.Info("activity_event", "event", "activity_created", "activity_id", a.ID, "status", a.Status)
	return a, nil
}

// --- Update Activity ---

// UpdateActivityInput carries input for the update activity orchestrator.
type UpdateActivityInput struct {
	ID    string
	Draft activity.Draft
	Actor string
}

// ExecuteUpdateActivity replaces every mutable field of an existing activity.
// PRE: ID is non-empty
// POST: On success the activity keeps its position, ID and CreatedAt
// POST: Returns activity.ErrNotFound without writing when ID is absent
func ExecuteUpdateActivity(ctx context.Context, input UpdateActivityInput, deps ActivityDeps) (activity.Activity, error) {
	if err := input.Draft.Validate(); err != nil {
		return activity.Activity{}, err
	}

	var updated activity.Activity
	err := deps.Activities.Update(ctx, func(items []activity.Activity) ([]activity.Activity, bool, error) {
		i := indexOf(items, input.ID, activityID)
		if i < 0 {
			return nil, false, activity.ErrNotFound
		}
		items[i].Apply(input.Draft)
		updated = items[i]
		return items, true, nil
	})
	if err != nil {
		return activity.Activity{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionActivities, audit.ActionUpdate, updated.ID, input.Actor).WithDescription(updated.Title))
	slog.Info("activity_event", "event", "activity_updated", "activity_id", updated.ID, "status", updated.Status)
	return updated, nil
}

// --- Delete Activity ---

// DeleteActivityInput carries input for the delete activity orchestrator.
type DeleteActivityInput struct {
	ID    string
	Actor string
}

// ExecuteDeleteActivity removes an activity.
// POST: Absent IDs are a no-op; nothing is written and deleted is false
func ExecuteDeleteActivity(ctx context.Context, input DeleteActivityInput, deps ActivityDeps) (deleted bool, err error) {
	err = deps.Activities.Update(ctx, func(items []activity.Activity) ([]activity.Activity, bool, error) {
		i := indexOf(items, input.ID, activityID)
		if i < 0 {
			return nil, false, nil
		}
		deleted = true
		return without(items, i), true, nil
	})
	if err != nil || !deleted {
		return false, err
	}

	deps.record(ctx, deps.event(audit.CollectionActivities, audit.ActionDelete, input.ID, input.Actor))
	slog.Info("activity_event", "event", "activity_deleted", "activity_id", input.ID)
	return true, nil
}
