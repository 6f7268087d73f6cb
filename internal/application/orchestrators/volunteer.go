package orchestrators

import (
	"context"
	"log/slog"

	"komunitas/internal/domain/audit"
	"komunitas/internal/domain/review"
	"komunitas/internal/domain/volunteer"
)

// VolunteerDeps holds dependencies for the volunteer request orchestrators.
type VolunteerDeps struct {
	Volunteers Updater[volunteer.Request]
	AuditDeps
	NotifyDeps
}

func volunteerID(r volunteer.Request) string { return r.ID }

func volunteerStatus(r *volunteer.Request) *review.Status { return &r.Status }

// ExecuteCreateVolunteer files a new pending volunteer application.
// POST: Request prepended with status pending and blank skills dropped
func ExecuteCreateVolunteer(ctx context.Context, draft volunteer.Draft, deps VolunteerDeps) (volunteer.Request, error) {
	if err := draft.Validate(); err != nil {
		return volunteer.Request{}, err
	}
	r := volunteer.NewRequest(deps.GenerateID(), draft, deps.now())

	err := deps.Volunteers.Update(ctx, func(items []volunteer.Request) ([]volunteer.Request, bool, error) {
		return prepend(items, r), true, nil
	})
	if err != nil {
		return volunteer.Request{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionVolunteers, audit.ActionCreate, r.ID, r.Email))
	slog.Info("volunteer_event", "event", "volunteer_applied", "request_id", r.ID, "skills", len(r.Skills))
	return r, nil
}

// ExecuteSetVolunteerStatus approves or rejects a pending volunteer application.
// POST: Same semantics as ExecuteSetDonationStatus
func ExecuteSetVolunteerStatus(ctx context.Context, input SetStatusInput, deps VolunteerDeps) (r volunteer.Request, changed bool, err error) {
	err = deps.Volunteers.Update(ctx, func(items []volunteer.Request) ([]volunteer.Request, bool, error) {
		i := indexOf(items, input.ID, volunteerID)
		if i < 0 {
			return nil, false, volunteer.ErrNotFound
		}
		c, err := decide(items, i, volunteerStatus, input.Status)
		r = items[i]
		changed = c
		return items, c, err
	})
	if err != nil {
		return volunteer.Request{}, false, err
	}
	if !changed {
		return r, false, nil
	}

	deps.record(ctx, deps.event(audit.CollectionVolunteers, audit.ActionStatus, r.ID, input.Actor).WithDescription(string(r.Status)))
	slog.Info("volunteer_event", "event", "volunteer_decided", "request_id", r.ID, "status", r.Status)
	deps.notifyDecision(ctx, "relawan", r.Name, r.Email, r.Status)
	return r, true, nil
}

// ExecuteDeleteVolunteer removes a volunteer application.
// POST: Absent IDs are a no-op
func ExecuteDeleteVolunteer(ctx context.Context, input DeleteRequestInput, deps VolunteerDeps) (deleted bool, err error) {
	err = deps.Volunteers.Update(ctx, func(items []volunteer.Request) ([]volunteer.Request, bool, error) {
		i := indexOf(items, input.ID, volunteerID)
		if i < 0 {
			return nil, false, nil
		}
		deleted = true
		return without(items, i), true, nil
	})
	if err != nil || !deleted {
		return false, err
	}

	deps.record(ctx, deps.event(audit.CollectionVolunteers, audit.ActionDelete, input.ID, input.Actor))
	slog.Info("volunteer_event", "event", "volunteer_deleted", "request_id", input.ID)
	return true, nil
}
