package projections

import (
	"context"

	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/cashflow"
	"komunitas/internal/domain/review"
)

// DashboardPreviewSize is how many upcoming activities and cashflow items the dashboard shows.
const DashboardPreviewSize = 3

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	Activities  ActivityReader
	Cashflow    CashflowReader
	Donations   DonationReader   // optional: nil skips donation counts
	Volunteers  VolunteerReader  // optional: nil skips volunteer counts
	Submissions SubmissionReader // optional: nil skips the pending queue size
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	ActiveActivities int                 `json:"activeActivities"`
	Totals           Totals              `json:"totals"`
	Upcoming         []activity.Activity `json:"upcoming"`
	RecentCashflow   []cashflow.Item     `json:"recentCashflow"`

	PendingDonations   int `json:"pendingDonations"`
	PendingVolunteers  int `json:"pendingVolunteers"`
	PendingSubmissions int `json:"pendingSubmissions"`
}

// QueryGetDashboard builds the admin overview.
// PRE: Activities and Cashflow are non-nil
// POST: Upcoming holds the first upcoming activities in collection order; RecentCashflow the first cashflow items
func QueryGetDashboard(ctx context.Context, deps GetDashboardDeps) (DashboardResult, error) {
	var result DashboardResult

	activities, err := deps.Activities.Read(ctx)
	if err != nil {
		return DashboardResult{}, err
	}
	result.Upcoming = make([]activity.Activity, 0, DashboardPreviewSize)
	for _, a := range activities {
		if a.IsActive() {
			result.ActiveActivities++
		}
		if a.Status == activity.StatusUpcoming && len(result.Upcoming) < DashboardPreviewSize {
			result.Upcoming = append(result.Upcoming, a)
		}
	}

	items, err := deps.Cashflow.Read(ctx)
	if err != nil {
		return DashboardResult{}, err
	}
	result.Totals = SumTotals(items)
	result.RecentCashflow = items[:min(DashboardPreviewSize, len(items))]

	if deps.Donations != nil {
		donations, err := deps.Donations.Read(ctx)
		if err != nil {
			return DashboardResult{}, err
		}
		var c review.Counts
		for _, d := range donations {
			c.Add(d.Status)
		}
		result.PendingDonations = c.Pending
	}

	if deps.Volunteers != nil {
		volunteers, err := deps.Volunteers.Read(ctx)
		if err != nil {
			return DashboardResult{}, err
		}
		var c review.Counts
		for _, v := range volunteers {
			c.Add(v.Status)
		}
		result.PendingVolunteers = c.Pending
	}

	if deps.Submissions != nil {
		subs, err := deps.Submissions.Read(ctx)
		if err != nil {
			return DashboardResult{}, err
		}
		for _, s := range subs {
			if s.Status == review.StatusPending {
				result.PendingSubmissions++
			}
		}
	}

	return result, nil
}
