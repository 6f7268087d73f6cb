package projections

import (
	"context"
	"slices"

	"komunitas/internal/application/listutil"
	"komunitas/internal/domain/cashflow"
)

// Cashflow sort keys
const (
	CashflowSortAmount = "amount"
	CashflowSortDate   = "date"
)

// CashflowSortKeys lists the accepted cashflow sort keys.
var CashflowSortKeys = []string{CashflowSortAmount, CashflowSortDate}

// CashflowFilterKeys lists the accepted cashflow filter parameters.
var CashflowFilterKeys = []string{"type", "category"}

// CashflowDefaultPerPage is the page size of the cashflow ledger.
const CashflowDefaultPerPage = 5

// Totals is the income/expense reduction of a cashflow collection.
type Totals struct {
	Income  int64 `json:"income"`
	Expense int64 `json:"expense"`
	Balance int64 `json:"balance"`
}

// Add folds one item into the totals.
func (t *Totals) Add(it cashflow.Item) {
	switch it.Type {
	case cashflow.TypeIncome:
		t.Income += it.Amount
	case cashflow.TypeExpense:
		t.Expense += it.Amount
	}
	t.Balance = t.Income - t.Expense
}

// SumTotals reduces items in a single pass.
func SumTotals(items []cashflow.Item) Totals {
	var t Totals
	for _, it := range items {
		t.Add(it)
	}
	return t
}

// CashflowListQuery carries query parameters for the cashflow ledger.
type CashflowListQuery struct {
	Search   string // matched against title and description
	Type     string
	Category string
	Sort     string
	Dir      string
	Page     int
	PerPage  int
}

// CashflowListResult carries one page of the ledger and whole-collection totals.
type CashflowListResult struct {
	Items  []cashflow.Item   `json:"items"`
	Page   listutil.PageInfo `json:"page"`
	Totals Totals            `json:"totals"`
}

// CashflowListDeps holds dependencies for cashflow queries.
type CashflowListDeps struct {
	Cashflow CashflowReader
}

// QueryCashflowList filters, sorts and paginates the cashflow collection.
// POST: Totals cover the full collection regardless of filters
func QueryCashflowList(ctx context.Context, query CashflowListQuery, deps CashflowListDeps) (CashflowListResult, error) {
	all, err := deps.Cashflow.Read(ctx)
	if err != nil {
		return CashflowListResult{}, err
	}

	matched := listutil.Filter(all, func(it cashflow.Item) bool {
		if !listutil.IsAll(query.Type) && string(it.Type) != query.Type {
			return false
		}
		if !listutil.IsAll(query.Category) && it.Category != query.Category {
			return false
		}
		return listutil.MatchQuery(query.Search, it.Title, it.Description)
	})
	switch query.Sort {
	case CashflowSortAmount:
		listutil.SortStable(matched, func(it cashflow.Item) int64 { return it.Amount }, query.Dir)
	case CashflowSortDate:
		listutil.SortStable(matched, func(it cashflow.Item) string { return it.Date }, query.Dir)
	}

	perPage := query.PerPage
	if perPage == 0 {
		perPage = CashflowDefaultPerPage
	}
	page, info := listutil.Paginate(matched, query.Page, perPage)
	return CashflowListResult{Items: page, Page: info, Totals: SumTotals(all)}, nil
}

// QueryGetCashflowItem returns a single cashflow item by id.
// POST: Returns cashflow.ErrNotFound when id is absent
func QueryGetCashflowItem(ctx context.Context, id string, deps CashflowListDeps) (cashflow.Item, error) {
	all, err := deps.Cashflow.Read(ctx)
	if err != nil {
		return cashflow.Item{}, err
	}
	for _, it := range all {
		if it.ID == id {
			return it, nil
		}
	}
	return cashflow.Item{}, cashflow.ErrNotFound
}

// CategoryShare is one slice of the expense breakdown.
type CategoryShare struct {
	Category string  `json:"category"`
	Amount   int64   `json:"amount"`
	Percent  float64 `json:"percent"` // of total expense, 0 when there is none
}

// MonthTotals is one bar of the monthly series.
type MonthTotals struct {
	Month   string `json:"month"` // YYYY-MM
	Income  int64  `json:"income"`
	Expense int64  `json:"expense"`
}

// CashflowSummary carries the report view of the cashflow collection.
type CashflowSummary struct {
	Totals            Totals          `json:"totals"`
	ExpenseCategories []CategoryShare `json:"expenseCategories"`
	Monthly           []MonthTotals   `json:"monthly"`
	Count             int             `json:"count"`
}

// QueryCashflowSummary reduces the whole collection into totals, an expense breakdown and a monthly series.
// POST: ExpenseCategories ordered by first appearance; Monthly ascending by month, undated items excluded
func QueryCashflowSummary(ctx context.Context, deps CashflowListDeps) (CashflowSummary, error) {
	all, err := deps.Cashflow.Read(ctx)
	if err != nil {
		return CashflowSummary{}, err
	}

	var totals Totals
	var categories []CategoryShare
	catIndex := make(map[string]int)
	monthIndex := make(map[string]int)
	var months []MonthTotals

	for _, it := range all {
		totals.Add(it)

		if it.Type == cashflow.TypeExpense {
			name := it.Category
			if name == "" {
				name = cashflow.CategoryOther
			}
			i, ok := catIndex[name]
			if !ok {
				i = len(categories)
				catIndex[name] = i
				categories = append(categories, CategoryShare{Category: name})
			}
			categories[i].Amount += it.Amount
		}

		if m := it.Month(); m != "" {
			i, ok := monthIndex[m]
			if !ok {
				i = len(months)
				monthIndex[m] = i
				months = append(months, MonthTotals{Month: m})
			}
			switch it.Type {
			case cashflow.TypeIncome:
				months[i].Income += it.Amount
			case cashflow.TypeExpense:
				months[i].Expense += it.Amount
			}
		}
	}

	if totals.Expense > 0 {
		for i := range categories {
			categories[i].Percent = float64(categories[i].Amount) * 100 / float64(totals.Expense)
		}
	}
	slices.SortFunc(months, func(a, b MonthTotals) int {
		switch {
		case a.Month < b.Month:
			return -1
		case a.Month > b.Month:
			return 1
		}
		return 0
	})

	if categories == nil {
		categories = []CategoryShare{}
	}
	if months == nil {
		months = []MonthTotals{}
	}
	return CashflowSummary{Totals: totals, ExpenseCategories: categories, Monthly: months, Count: len(all)}, nil
}
