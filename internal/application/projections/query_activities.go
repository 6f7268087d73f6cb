package projections

import (
	"context"

	"komunitas/internal/application/listutil"
	"komunitas/internal/domain/activity"
)

// Activity sort keys
const (
	ActivitySortDate         = "date"
	ActivitySortParticipants = "participants"
	ActivitySortCreated      = "created"
)

// ActivitySortKeys lists the accepted activity sort keys.
var ActivitySortKeys = []string{ActivitySortDate, ActivitySortParticipants, ActivitySortCreated}

// ActivityFilterKeys lists the accepted activity filter parameters.
var ActivityFilterKeys = []string{"status", "category"}

// ActivityListQuery carries query parameters for the admin activity list.
type ActivityListQuery struct {
	Search   string // matched against title, description, location
	Status   string // "" or "all" disables
	Category string // "" or "all" disables
	Sort     string
	Dir      string
	Page     int
	PerPage  int
}

// ActivityListResult carries one page of activities.
type ActivityListResult struct {
	Activities []activity.Activity `json:"activities"`
	Page       listutil.PageInfo   `json:"page"`
	Active     int                 `json:"active"` // across the whole collection
}

// ActivityListDeps holds dependencies for QueryActivityList.
type ActivityListDeps struct {
	Activities ActivityReader
}

// QueryActivityList filters, sorts and paginates the activities collection.
// PRE: Status, when set, is a valid activity status or "all"
// POST: Activities is a page of a subsequence of the collection; Page is clamped
func QueryActivityList(ctx context.Context, query ActivityListQuery, deps ActivityListDeps) (ActivityListResult, error) {
	all, err := deps.Activities.Read(ctx)
	if err != nil {
		return ActivityListResult{}, err
	}

	active := 0
	for i := range all {
		if all[i].IsActive() {
			active++
		}
	}

	matched := listutil.Filter(all, func(a activity.Activity) bool {
		if !listutil.IsAll(query.Status) && string(a.Status) != query.Status {
			return false
		}
		if !listutil.IsAll(query.Category) && a.Category != query.Category {
			return false
		}
		return listutil.MatchQuery(query.Search, a.Title, a.Description, a.Location)
	})
	sortActivities(matched, query.Sort, query.Dir)

	page, info := listutil.Paginate(matched, query.Page, query.PerPage)
	return ActivityListResult{Activities: page, Page: info, Active: active}, nil
}

func sortActivities(items []activity.Activity, key, dir string) {
	switch key {
	case ActivitySortDate:
		listutil.SortStable(items, func(a activity.Activity) string { return a.Date }, dir)
	case ActivitySortParticipants:
		listutil.SortStable(items, func(a activity.Activity) int { return a.Participants }, dir)
	case ActivitySortCreated:
		listutil.SortStable(items, func(a activity.Activity) int64 { return a.CreatedAt.UnixNano() }, dir)
	}
}

// GetActivityDeps holds dependencies for QueryGetActivity.
type GetActivityDeps struct {
	Activities ActivityReader
}

// QueryGetActivity returns a single activity by id.
// POST: Returns activity.ErrNotFound when id is absent
func QueryGetActivity(ctx context.Context, id string, deps GetActivityDeps) (activity.Activity, error) {
	all, err := deps.Activities.Read(ctx)
	if err != nil {
		return activity.Activity{}, err
	}
	for _, a := range all {
		if a.ID == id {
			return a, nil
		}
	}
	return activity.Activity{}, activity.ErrNotFound
}

// Public listing tabs
const (
	PublicTabUpcoming  = "upcoming"
	PublicTabCompleted = "completed"
)

// PublicActivityQuery carries parameters for the public activity listing.
type PublicActivityQuery struct {
	Search   string // matched against title and description only
	Category string
	Tab      string // upcoming (default) or completed
}

// PublicActivityResult carries the public listing.
type PublicActivityResult struct {
	Activities []activity.Activity `json:"activities"`
	Categories []string            `json:"categories"`
}

// QueryPublicActivities lists activities for the public agenda page.
// The upcoming tab shows upcoming and ongoing activities; the completed tab shows the rest.
// POST: Categories is the suggestion list, independent of the data
func QueryPublicActivities(ctx context.Context, query PublicActivityQuery, deps ActivityListDeps) (PublicActivityResult, error) {
	all, err := deps.Activities.Read(ctx)
	if err != nil {
		return PublicActivityResult{}, err
	}
	wantActive := query.Tab != PublicTabCompleted

	matched := listutil.Filter(all, func(a activity.Activity) bool {
		if a.IsActive() != wantActive {
			return false
		}
		if !listutil.IsAll(query.Category) && a.Category != query.Category {
			return false
		}
		return listutil.MatchQuery(query.Search, a.Title, a.Description)
	})
	return PublicActivityResult{Activities: matched, Categories: activity.SuggestedCategories}, nil
}

// MapPin is an activity with a resolvable coordinate.
type MapPin struct {
	ID       string          `json:"id"`
	Title    string          `json:"title"`
	Date     string          `json:"date"`
	Status   activity.Status `json:"status"`
	Lat      float64         `json:"lat"`
	Lng      float64         `json:"lng"`
	Location string          `json:"location"`
}

// QueryActivityMap returns a pin for every activity whose location is a "lat, lng" pair.
// POST: activities with free-text locations are omitted; order follows the collection
func QueryActivityMap(ctx context.Context, deps ActivityListDeps) ([]MapPin, error) {
	all, err := deps.Activities.Read(ctx)
	if err != nil {
		return nil, err
	}
	pins := make([]MapPin, 0, len(all))
	for _, a := range all {
		lat, lng, ok := a.Coordinates()
		if !ok {
			continue
		}
		pins = append(pins, MapPin{ID: a.ID, Title: a.Title, Date: a.Date, Status: a.Status, Lat: lat, Lng: lng, Location: a.Location})
	}
	return pins, nil
}
