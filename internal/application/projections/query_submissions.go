package projections

import (
	"context"

	"komunitas/internal/application/listutil"
	"komunitas/internal/domain/audit"
	"komunitas/internal/domain/review"
	"komunitas/internal/domain/submission"
)

// SubmissionFilterKeys lists the accepted submission filter parameters.
var SubmissionFilterKeys = []string{"type"}

// SubmissionListQuery carries query parameters for the approval panel.
type SubmissionListQuery struct {
	Search  string // matched against title, description, submitter
	Type    string // activity, cashflow or "all"
	Page    int
	PerPage int
}

// SubmissionListResult carries the approval panel.
type SubmissionListResult struct {
	Submissions []submission.Submission `json:"submissions"`
	Page        listutil.PageInfo       `json:"page"`
	Pending     int                     `json:"pending"`
}

// SubmissionListDeps holds dependencies for QuerySubmissionList.
type SubmissionListDeps struct {
	Submissions SubmissionReader
}

// QuerySubmissionList lists the pending queue in collection order.
// POST: Pending counts the whole queue regardless of filters
func QuerySubmissionList(ctx context.Context, query SubmissionListQuery, deps SubmissionListDeps) (SubmissionListResult, error) {
	all, err := deps.Submissions.Read(ctx)
	if err != nil {
		return SubmissionListResult{}, err
	}

	pending := 0
	for _, s := range all {
		if s.Status == review.StatusPending {
			pending++
		}
	}

	matched := listutil.Filter(all, func(s submission.Submission) bool {
		if !listutil.IsAll(query.Type) && string(s.Type) != query.Type {
			return false
		}
		return listutil.MatchQuery(query.Search, s.Title, s.Description, s.SubmittedBy)
	})
	page, info := listutil.Paginate(matched, query.Page, query.PerPage)
	return SubmissionListResult{Submissions: page, Page: info, Pending: pending}, nil
}

// AuditFilterKeys lists the accepted audit log filter parameters.
var AuditFilterKeys = []string{"collection", "action"}

// AuditListQuery carries query parameters for the mutation log.
type AuditListQuery struct {
	Collection string
	Action     string
	Page       int
	PerPage    int
}

// AuditListResult carries one page of the mutation log, newest first.
type AuditListResult struct {
	Events []audit.Event     `json:"events"`
	Page   listutil.PageInfo `json:"page"`
}

// AuditListDeps holds dependencies for QueryAuditList.
type AuditListDeps struct {
	AuditLog AuditReader
}

// QueryAuditList pages through the mutation log.
func QueryAuditList(ctx context.Context, query AuditListQuery, deps AuditListDeps) (AuditListResult, error) {
	all, err := deps.AuditLog.Read(ctx)
	if err != nil {
		return AuditListResult{}, err
	}
	matched := listutil.Filter(all, func(e audit.Event) bool {
		if !listutil.IsAll(query.Collection) && string(e.Collection) != query.Collection {
			return false
		}
		return listutil.IsAll(query.Action) || string(e.Action) == query.Action
	})
	page, info := listutil.Paginate(matched, query.Page, query.PerPage)
	return AuditListResult{Events: page, Page: info}, nil
}
