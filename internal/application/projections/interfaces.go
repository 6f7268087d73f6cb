package projections

import (
	"context"

	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/audit"
	"komunitas/internal/domain/cashflow"
	"komunitas/internal/domain/donation"
	"komunitas/internal/domain/submission"
	"komunitas/internal/domain/volunteer"
)

// Reader is the read side of a persisted collection.
type Reader[T any] interface {
	Read(ctx context.Context) ([]T, error)
}

// ActivityReader reads the activities collection.
type ActivityReader = Reader[activity.Activity]

// CashflowReader reads the cashflow collection.
type CashflowReader = Reader[cashflow.Item]

// DonationReader reads the donation requests collection.
type DonationReader = Reader[donation.Request]

// VolunteerReader reads the volunteer requests collection.
type VolunteerReader = Reader[volunteer.Request]

// SubmissionReader reads the pending submissions queue.
type SubmissionReader = Reader[submission.Submission]

// AuditReader reads the mutation log.
type AuditReader = Reader[audit.Event]
