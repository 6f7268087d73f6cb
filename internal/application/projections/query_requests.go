package projections

import (
	"context"
	"strings"

	"komunitas/internal/application/listutil"
	"komunitas/internal/domain/donation"
	"komunitas/internal/domain/review"
	"komunitas/internal/domain/volunteer"
)

// Request sort keys
const (
	RequestSortAmount  = "amount"
	RequestSortDate    = "date"
	RequestSortCreated = "created"
)

// DonationSortKeys lists the accepted donation sort keys.
var DonationSortKeys = []string{RequestSortAmount, RequestSortDate}

// VolunteerSortKeys lists the accepted volunteer sort keys.
var VolunteerSortKeys = []string{RequestSortDate, RequestSortCreated}

// RequestFilterKeys lists the accepted request filter parameters.
var RequestFilterKeys = []string{"status"}

// RequestListQuery carries query parameters for the donation and volunteer lists.
type RequestListQuery struct {
	Search  string
	Status  string
	Sort    string
	Dir     string
	Page    int
	PerPage int
}

// DonationListResult carries one page of donation requests and status counts.
type DonationListResult struct {
	Donations []donation.Request `json:"donations"`
	Page      listutil.PageInfo  `json:"page"`
	Counts    review.Counts      `json:"counts"`
	Pledged   int64              `json:"pledged"` // sum over approved requests
}

// DonationListDeps holds dependencies for QueryDonationList.
type DonationListDeps struct {
	Donations DonationReader
}

// QueryDonationList filters, sorts and paginates donation requests.
// POST: Counts and Pledged cover the whole collection
func QueryDonationList(ctx context.Context, query RequestListQuery, deps DonationListDeps) (DonationListResult, error) {
	all, err := deps.Donations.Read(ctx)
	if err != nil {
		return DonationListResult{}, err
	}

	var counts review.Counts
	var pledged int64
	for _, d := range all {
		counts.Add(d.Status)
		if d.Status == review.StatusApproved {
			pledged += d.Amount
		}
	}

	matched := listutil.Filter(all, func(d donation.Request) bool {
		if !listutil.IsAll(query.Status) && string(d.Status) != query.Status {
			return false
		}
		return listutil.MatchQuery(query.Search, d.Name, d.Email)
	})
	switch query.Sort {
	case RequestSortAmount:
		listutil.SortStable(matched, func(d donation.Request) int64 { return d.Amount }, query.Dir)
	case RequestSortDate, RequestSortCreated:
		listutil.SortStable(matched, func(d donation.Request) int64 { return d.CreatedAt.UnixNano() }, query.Dir)
	}

	page, info := listutil.Paginate(matched, query.Page, query.PerPage)
	return DonationListResult{Donations: page, Page: info, Counts: counts, Pledged: pledged}, nil
}

// VolunteerListResult carries one page of volunteer requests and status counts.
type VolunteerListResult struct {
	Volunteers []volunteer.Request `json:"volunteers"`
	Page       listutil.PageInfo   `json:"page"`
	Counts     review.Counts       `json:"counts"`
}

// VolunteerListDeps holds dependencies for QueryVolunteerList.
type VolunteerListDeps struct {
	Volunteers VolunteerReader
}

// QueryVolunteerList filters, sorts and paginates volunteer requests.
// Without an explicit sort the newest application comes first.
// POST: Counts cover the whole collection
func QueryVolunteerList(ctx context.Context, query RequestListQuery, deps VolunteerListDeps) (VolunteerListResult, error) {
	all, err := deps.Volunteers.Read(ctx)
	if err != nil {
		return VolunteerListResult{}, err
	}

	var counts review.Counts
	for _, v := range all {
		counts.Add(v.Status)
	}

	matched := listutil.Filter(all, func(v volunteer.Request) bool {
		if !listutil.IsAll(query.Status) && string(v.Status) != query.Status {
			return false
		}
		return listutil.MatchQuery(query.Search, v.Name, v.Email, strings.Join(v.Skills, " "))
	})

	dir := query.Dir
	if query.Sort == "" {
		dir = listutil.DirDesc
	}
	listutil.SortStable(matched, func(v volunteer.Request) int64 { return v.CreatedAt.UnixNano() }, dir)

	page, info := listutil.Paginate(matched, query.Page, query.PerPage)
	return VolunteerListResult{Volunteers: page, Page: info, Counts: counts}, nil
}
