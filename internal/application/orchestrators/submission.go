package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"komunitas/internal/domain/audit"
	"komunitas/internal/domain/review"
	"komunitas/internal/domain/submission"
)

// SubmissionDeps holds dependencies for the approval panel orchestrators.
type SubmissionDeps struct {
	Submissions Updater[submission.Submission]
	Activity    ActivityDeps
	Cashflow    CashflowDeps
	AuditDeps
}

func submissionID(s submission.Submission) string { return s.ID }

// ExecuteCreateSubmission queues a member proposal for admin review.
// POST: Submission prepended with a fresh ID, status pending
func ExecuteCreateSubmission(ctx context.Context, input submission.Submission, deps SubmissionDeps) (submission.Submission, error) {
	s := input
	s.ID = deps.GenerateID()
	s.SubmittedAt = deps.now()
	s.Status = review.StatusPending
	s.Title = strings.TrimSpace(s.Title)
	s.SubmittedBy = strings.TrimSpace(s.SubmittedBy)
	if err := s.Validate(); err != nil {
		return submission.Submission{}, err
	}

	err := deps.Submissions.Update(ctx, func(items []submission.Submission) ([]submission.Submission, bool, error) {
		return prepend(items, s), true, nil
	})
	if err != nil {
		return submission.Submission{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionSubmissions, audit.ActionCreate, s.ID, s.SubmittedBy).WithDescription(s.Title))
	slog.Info("submission_event", "event", "submission_created", "submission_id", s.ID, "type", s.Type)
	return s, nil
}

// DecideSubmissionInput carries input for approving or rejecting a submission.
type DecideSubmissionInput struct {
	ID    string
	Actor string
}

// ApproveResult names the record an approval created.
type ApproveResult struct {
	Submission submission.Submission `json:"submission"`
	Kind       submission.Kind       `json:"type"`
	RecordID   string                `json:"recordId"`
}

// ExecuteApproveSubmission turns a pending submission into an activity or cashflow item.
// PRE: Activity and Cashflow deps are wired
// POST: The new record is created before the submission leaves the queue
// POST: Returns submission.ErrNotFound when ID is absent; the queue is untouched on any error
// POST: When the queue write fails after the record was created, the record stays and the
// submission stays pending; approving it again creates a second record. Nothing is rolled back.
func ExecuteApproveSubmission(ctx context.Context, input DecideSubmissionInput, deps SubmissionDeps) (ApproveResult, error) {
	var result ApproveResult
	err := deps.Submissions.Update(ctx, func(items []submission.Submission) ([]submission.Submission, bool, error) {
		i := indexOf(items, input.ID, submissionID)
		if i < 0 {
			return nil, false, submission.ErrNotFound
		}
		s := items[i]

		switch s.Type {
		case submission.KindActivity:
			a, err := ExecuteCreateActivity(ctx, CreateActivityInput{Draft: s.ActivityDraft(), Actor: input.Actor}, deps.Activity)
			if err != nil {
				return nil, false, err
			}
			result.RecordID = a.ID
		case submission.KindCashflow:
			it, err := ExecuteCreateCashflow(ctx, CreateCashflowInput{Draft: s.CashflowDraft(deps.now()), Actor: input.Actor}, deps.Cashflow)
			if err != nil {
				return nil, false, err
			}
			result.RecordID = it.ID
		default:
			return nil, false, submission.ErrInvalidKind
		}

		s.Status = review.StatusApproved
		result.Submission = s
		result.Kind = s.Type
		return without(items, i), true, nil
	})
	if err != nil {
		return ApproveResult{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionSubmissions, audit.ActionApprove, input.ID, input.Actor).WithDescription(result.Submission.Title))
	slog.Info("submission_event", "event", "submission_approved", "submission_id", input.ID, "type", result.Kind, "record_id", result.RecordID)
	return result, nil
}

// ExecuteRejectSubmission drops a submission from the queue.
// POST: Returns submission.ErrNotFound when ID is absent
func ExecuteRejectSubmission(ctx context.Context, input DecideSubmissionInput, deps SubmissionDeps) (submission.Submission, error) {
	var rejected submission.Submission
	err := deps.Submissions.Update(ctx, func(items []submission.Submission) ([]submission.Submission, bool, error) {
		i := indexOf(items, input.ID, submissionID)
		if i < 0 {
			return nil, false, submission.ErrNotFound
		}
		rejected = items[i]
		rejected.Status = review.StatusRejected
		return without(items, i), true, nil
	})
	if err != nil {
		return submission.Submission{}, err
	}

	deps.record(ctx, deps.event(audit.CollectionSubmissions, audit.ActionReject, input.ID, input.Actor).WithDescription(rejected.Title))
	slog.Info("submission_event", "event", "submission_rejected", "submission_id", input.ID, "type", rejected.Type)
	return rejected, nil
}
