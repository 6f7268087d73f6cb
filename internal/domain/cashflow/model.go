package cashflow

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
	MaxCategoryLength    = 60
)

// Type distinguishes money coming in from money going out.
type Type string

// Cashflow types
const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// ValidTypes contains all valid cashflow types.
var ValidTypes = []Type{TypeIncome, TypeExpense}

// Category suggestions
const (
	CategoryDonation    = "Donasi"
	CategoryOperational = "Operasional"
	CategoryTransport   = "Transport"
	CategorySupplies    = "Perlengkapan"
	CategoryOther       = "Lainnya"
)

// SuggestedCategories is the fixed list offered when recording a cashflow item.
// Category stays free text; this list is a hint, not a constraint.
var SuggestedCategories = []string{CategoryDonation, CategoryOperational, CategoryTransport, CategorySupplies, CategoryOther}

// DateLayout is the calendar date format used for Item.Date.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrEmptyTitle         = errors.New("cashflow title cannot be empty")
	ErrTitleTooLong       = errors.New("cashflow title cannot exceed 200 characters")
	ErrDescriptionTooLong = errors.New("cashflow description cannot exceed 2000 characters")
	ErrCategoryTooLong    = errors.New("cashflow category cannot exceed 60 characters")
	ErrInvalidType        = errors.New("cashflow type must be one of: income, expense")
	ErrNegativeAmount     = errors.New("cashflow amount cannot be negative")
	ErrInvalidDate        = errors.New("cashflow date must be formatted YYYY-MM-DD")
	ErrNotFound           = errors.New("cashflow item not found")
)

// Item is one recorded income or expense.
// Amount is in whole rupiah; IDR has no minor unit.
type Item struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Type        Type      `json:"type"`
	Category    string    `json:"category"`
	Date        string    `json:"date"` // YYYY-MM-DD
	CreatedAt   time.Time `json:"createdAt"`
}

// Draft holds the mutable fields of an Item before it is committed.
type Draft struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Type        Type   `json:"type"`
	Category    string `json:"category"`
	Date        string `json:"date"`
}

// NewDraft returns the defaults a blank cashflow form starts from.
// POST: Type is income, Category is Donasi, Date is today in now's location
func NewDraft(now time.Time) Draft {
	return Draft{
		Type:     TypeIncome,
		Category: CategoryDonation,
		Date:     now.Format(DateLayout),
	}
}

// ParseType converts a raw string into a Type.
// POST: Returns ErrInvalidType for anything outside ValidTypes
func ParseType(s string) (Type, error) {
	for _, v := range ValidTypes {
		if string(v) == s {
			return v, nil
		}
	}
	return "", ErrInvalidType
}

// Validate checks if the Draft has valid data.
// PRE: Draft struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Draft) Validate() error {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return ErrEmptyTitle
	}
	if len(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if len(d.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	if len(d.Category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}
	if _, err := ParseType(string(d.Type)); err != nil {
		return err
	}
	if d.Amount < 0 {
		return ErrNegativeAmount
	}
	if d.Date != "" {
		if _, err := time.Parse(DateLayout, d.Date); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// DraftOf copies the mutable fields of it into a Draft.
func DraftOf(it Item) Draft {
	return Draft{
		Title:       it.Title,
		Description: it.Description,
		Amount:      it.Amount,
		Type:        it.Type,
		Category:    it.Category,
		Date:        it.Date,
	}
}

// Apply replaces every mutable field of the Item with the draft's values.
// PRE: d has been validated
// POST: ID and CreatedAt are unchanged
func (it *Item) Apply(d Draft) {
	it.Title = strings.TrimSpace(d.Title)
	it.Description = d.Description
	it.Amount = d.Amount
	it.Type = d.Type
	it.Category = strings.TrimSpace(d.Category)
	it.Date = d.Date
}

// Signed returns the amount as a balance contribution: positive for income, negative for expense.
// INVARIANT: Item fields are not mutated
func (it *Item) Signed() int64 {
	switch it.Type {
	case TypeIncome:
		return it.Amount
	case TypeExpense:
		return -it.Amount
	}
	return 0
}

// Month returns the YYYY-MM bucket of the item's date, or "" when undated.
func (it *Item) Month() string {
	if len(it.Date) < 7 {
		return ""
	}
	return it.Date[:7]
}
