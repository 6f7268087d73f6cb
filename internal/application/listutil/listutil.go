package listutil

import (
	"cmp"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

// Sort directions
const (
	DirAsc  = "asc"
	DirDesc = "desc"
)

// AllSentinel disables the filter it is given to.
const AllSentinel = "all"

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number, not yet clamped to the result size
	PerPage int // rows per page
}

// SortParams carries sorting parameters parsed from a request.
type SortParams struct {
	Sort string // sort key, "" for collection order
	Dir  string // "asc" or "desc"
}

// FilterParams carries search and filter parameters.
type FilterParams struct {
	Search  string            // free-text search query
	Filters map[string]string // exact-match filters (e.g. status=upcoming)
}

// PageInfo carries pagination metadata for rendering.
type PageInfo struct {
	Page       int `json:"page"`       // current page (1-indexed)
	PerPage    int `json:"perPage"`    // rows per page
	Total      int `json:"total"`      // total matching rows
	TotalPages int `json:"totalPages"` // max(1, ceil(Total / PerPage))
}

// ListParams combines all list view parameters.
type ListParams struct {
	PageParams
	SortParams
	FilterParams
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 10

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{5, 10, 20, 50, 100}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: defaultPerPage is one of PerPageOptions
// POST: returns PageParams with Page >= 1 and PerPage from PerPageOptions
func ParsePageParams(q url.Values, defaultPerPage int) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !slices.Contains(PerPageOptions, perPage) {
		perPage = defaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseSortParams extracts sort and dir from URL query values.
// POST: Sort is "" or one of allowedKeys; Dir is always "asc" or "desc"
func ParseSortParams(q url.Values, allowedKeys []string) SortParams {
	sort := q.Get("sort")
	dir := q.Get("dir")

	if !slices.Contains(allowedKeys, sort) {
		sort = ""
	}
	if dir != DirAsc && dir != DirDesc {
		dir = DirAsc
	}
	return SortParams{Sort: sort, Dir: dir}
}

// ParseFilterParams extracts search and named filters from URL query values.
// PRE: filterKeys lists the allowed filter parameter names
// POST: returns FilterParams with only recognised keys; "all" values are dropped
func ParseFilterParams(q url.Values, filterKeys []string) FilterParams {
	fp := FilterParams{
		Search:  strings.TrimSpace(q.Get("q")),
		Filters: make(map[string]string),
	}
	for _, key := range filterKeys {
		if v := strings.TrimSpace(q.Get(key)); !IsAll(v) {
			fp.Filters[key] = v
		}
	}
	return fp
}

// ParseListParams parses all list parameters from URL query values.
func ParseListParams(q url.Values, defaultPerPage int, allowedSortKeys, filterKeys []string) ListParams {
	return ListParams{
		PageParams:   ParsePageParams(q, defaultPerPage),
		SortParams:   ParseSortParams(q, allowedSortKeys),
		FilterParams: ParseFilterParams(q, filterKeys),
	}
}

// IsAll reports whether a filter value disables its filter.
func IsAll(v string) bool {
	return v == "" || strings.EqualFold(v, AllSentinel)
}

// MatchQuery reports whether query occurs case-insensitively in any of fields.
// An empty query matches everything.
func MatchQuery(query string, fields ...string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// Filter returns the items satisfying keep, in their original order.
// POST: result is a subsequence of items
// INVARIANT: items is not mutated
func Filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// SortStable orders items in place by key. Equal keys keep their original relative
// order in both directions.
// PRE: dir is "asc" or "desc"
func SortStable[T any, K cmp.Ordered](items []T, key func(T) K, dir string) {
	slices.SortStableFunc(items, func(a, b T) int {
		c := cmp.Compare(key(a), key(b))
		if dir == DirDesc {
			return -c
		}
		return c
	})
}

// Paginate slices one page out of items, clamping the requested page into range.
// POST: returned page is within [1, TotalPages]; the slice aliases items
func Paginate[T any](items []T, page, perPage int) ([]T, PageInfo) {
	info := NewPageInfo(page, perPage, len(items))
	start := min(info.Offset(), len(items))
	end := min(start+info.PerPage, len(items))
	return items[start:end], info
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages computed; Page clamped to [1, TotalPages]
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
// POST: Returns (Page-1) * PerPage
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// StartRow returns the 1-indexed first row number on the current page.
// POST: Returns 0 if Total is 0, otherwise Offset+1
func (p PageInfo) StartRow() int {
	if p.Total == 0 {
		return 0
	}
	return p.Offset() + 1
}

// EndRow returns the 1-indexed last row number on the current page.
// POST: Returns min(Offset+PerPage, Total)
func (p PageInfo) EndRow() int {
	return min(p.Offset()+p.PerPage, p.Total)
}
