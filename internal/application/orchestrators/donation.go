package orchestrators

import (
	"context"
	"log/slog"

	"komunitas/internal/domain/audit"
	"komunitas/internal/domain/donation"
	"komunitas/internal/domain/review"
)

// DonationDeps holds dependencies for the donation request orchestrators.
type DonationDeps struct {
	Donations Updater[donation.Request]
	AuditDeps
	NotifyDeps
}

func donationID(r donation.Request) string { return r.ID }

func donationStatus(r *donation.Request) *review.Status { return &r.Status }

// ExecuteCreateDonation files a new pending donation pledge.
// POST: Request prepended with status pending
func ExecuteCreateDonation(ctx context.Context, draft donation.Draft, deps DonationDeps) (donation.Request, error) {
	if err := draft.Validate(); err != nil {
		return donation.Request{}, err
	}
	r := donation.NewRequest(deps.GenerateID(), draft, deps.now())

	err := deps.Donations.Update(ctx, func(items []donation.Request) ([]donation.Request, bool, error) {
		return prepend(items, r), true, nil
	})
	if err != nil {
		return donation.Request{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionDonations, audit.ActionCreate, r.ID, r.Email))
	slog.Info("donation_event", "event", "donation_requested", "request_id", r.ID, "amount", r.Amount)
	return r, nil
}

// SetStatusInput carries input for a review decision.
type SetStatusInput struct {
	ID     string
	Status review.Status
	Actor  string
}

// ExecuteSetDonationStatus approves or rejects a pending donation pledge.
// PRE: Status is a review status
// POST: Repeating the current status is a no-op returning the record with changed=false
// POST: Returns review.ErrAlreadyResolved when flipping a decided request; donation.ErrNotFound when absent
func ExecuteSetDonationStatus(ctx context.Context, input SetStatusInput, deps DonationDeps) (r donation.Request, changed bool, err error) {
	err = deps.Donations.Update(ctx, func(items []donation.Request) ([]donation.Request, bool, error) {
		i := indexOf(items, input.ID, donationID)
		if i < 0 {
			return nil, false, donation.ErrNotFound
		}
		c, err := decide(items, i, donationStatus, input.Status)
		r = items[i]
		changed = c
		return items, c, err
	})
	if err != nil {
		return donation.Request{}, false, err
	}
	if !changed {
		return r, false, nil
	}

	deps.record(ctx, deps.event(audit.CollectionDonations, audit.ActionStatus, r.ID, input.Actor).WithDescription(string(r.Status)))
	slog.Info("donation_event", "event", "donation_decided", "request_id", r.ID, "status", r.Status)
	deps.notifyDecision(ctx, "donasi", r.Name, r.Email, r.Status)
	return r, true, nil
}

// DeleteRequestInput carries input for deleting a donation or volunteer request.
type DeleteRequestInput struct {
	ID    string
	Actor string
}

// ExecuteDeleteDonation removes a donation request.
// POST: Absent IDs are a no-op
func ExecuteDeleteDonation(ctx context.Context, input DeleteRequestInput, deps DonationDeps) (deleted bool, err error) {
	err = deps.Donations.Update(ctx, func(items []donation.Request) ([]donation.Request, bool, error) {
		i := indexOf(items, input.ID, donationID)
		if i < 0 {
			return nil, false, nil
		}
		deleted = true
		return without(items, i), true, nil
	})
	if err != nil || !deleted {
		return false, err
	}

	deps.record(ctx, deps.event(audit.CollectionDonations, audit.ActionDelete, input.ID, input.Actor))
	slog.Info("donation_event", "event", "donation_deleted", "request_id", input.ID)
	return true, nil
}
