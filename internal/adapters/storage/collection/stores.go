package collection

import (
	"komunitas/internal/adapters/storage/slot"
	"komunitas/internal/domain/account"
	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/audit"
	"komunitas/internal/domain/cashflow"
	"komunitas/internal/domain/donation"
	"komunitas/internal/domain/submission"
	"komunitas/internal/domain/volunteer"
)

// Stores is the full set of collections, built once at startup and passed to every handler.
type Stores struct {
	Slots       slot.Store
	Activities  *Collection[activity.Activity]
	Cashflow    *Collection[cashflow.Item]
	Donations   *Collection[donation.Request]
	Volunteers  *Collection[volunteer.Request]
	Submissions *Collection[submission.Submission]
	AuditLog    *Collection[audit.Event]
	Accounts    *Collection[account.Account]
}

// NewStores binds every collection to its slot in s.
// PRE: s is non-nil
// POST: each collection reads its seed list until first written
func NewStores(s slot.Store) *Stores {
	return &Stores{
		Slots:       s,
		Activities:  New(s, KeyActivities, activity.DefaultActivities),
		Cashflow:    New(s, KeyCashflow, cashflow.DefaultItems),
		Donations:   New(s, KeyDonations, donation.DefaultRequests),
		Volunteers:  New(s, KeyVolunteers, volunteer.DefaultRequests),
		Submissions: New(s, KeySubmissions, submission.DefaultSubmissions),
		AuditLog:    New[audit.Event](s, KeyAuditLog, nil),
		Accounts:    New[account.Account](s, KeyAccounts, nil),
	}
}
