package submission

import (
	"errors"
	"strings"
	"time"

	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/cashflow"
	"komunitas/internal/domain/review"
)

// Kind says which collection an approved submission lands in.
type Kind string

// Submission kinds
const (
	KindActivity Kind = "activity"
	KindCashflow Kind = "cashflow"
)

// ValidKinds contains all valid submission kinds.
var ValidKinds = []Kind{KindActivity, KindCashflow}

// Domain errors
var (
	ErrEmptyTitle      = errors.New("submission title cannot be empty")
	ErrEmptySubmitter  = errors.New("submission must name who submitted it")
	ErrInvalidKind     = errors.New("submission type must be one of: activity, cashflow")
	ErrNegativeAmount  = errors.New("submission amount cannot be negative")
	ErrInvalidCashType = errors.New("cashflow submission type must be one of: income, expense")
	ErrNotFound        = errors.New("submission not found")
)

// Submission is a member-proposed activity or cashflow entry waiting in the admin queue.
// Only pending submissions are kept; a decision removes the entry.
type Submission struct {
	ID           string        `json:"id"`
	Type         Kind          `json:"type"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	SubmittedBy  string        `json:"submittedBy"`
	SubmittedAt  time.Time     `json:"submittedAt"`
	Date         string        `json:"date,omitempty"`
	Location     string        `json:"location,omitempty"`
	Category     string        `json:"category,omitempty"`
	Amount       int64         `json:"amount,omitempty"`
	CashflowType cashflow.Type `json:"cashflowType,omitempty"`
	Status       review.Status `json:"status"`
}

// ParseKind converts a raw string into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range ValidKinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrInvalidKind
}

// Validate checks if the Submission has valid data.
// PRE: Submission struct is populated
// POST: Returns nil if valid, error otherwise
func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if strings.TrimSpace(s.SubmittedBy) == "" {
		return ErrEmptySubmitter
	}
	if _, err := ParseKind(string(s.Type)); err != nil {
		return err
	}
	if s.Amount < 0 {
		return ErrNegativeAmount
	}
	if s.Type == KindCashflow && s.CashflowType != "" {
		if _, err := cashflow.ParseType(string(s.CashflowType)); err != nil {
			return ErrInvalidCashType
		}
	}
	return nil
}

// ActivityDraft converts an activity submission into the draft an approval commits.
// PRE: s.Type is activity
// POST: Status is upcoming
func (s *Submission) ActivityDraft() activity.Draft {
	d := activity.NewDraft()
	d.Title = s.Title
	d.Description = s.Description
	d.Date = s.Date
	d.Location = s.Location
	d.Category = s.Category
	return d
}

// CashflowDraft converts a cashflow submission into the draft an approval commits.
// Missing type and category fall back to the blank-form defaults.
// PRE: s.Type is cashflow
func (s *Submission) CashflowDraft(now time.Time) cashflow.Draft {
	d := cashflow.NewDraft(now)
	d.Title = s.Title
	d.Description = s.Description
	d.Amount = s.Amount
	if s.CashflowType != "" {
		d.Type = s.CashflowType
	}
	if s.Category != "" {
		d.Category = s.Category
	}
	if s.Date != "" {
		d.Date = s.Date
	}
	return d
}

// DefaultSubmissions returns the queue served when the submissions slot is absent or unreadable.
func DefaultSubmissions() []Submission {
	base := time.Date(2024, time.March, 14, 12, 0, 0, 0, time.UTC)
	return []Submission{
		{ID: "sub-1", Type: KindActivity, Title: "Bagi-bagi Takjil di Stasiun", Description: "Kegiatan pembagian takjil untuk penumpang KRL di stasiun Sudirman.", SubmittedBy: "Ahmad Fauzi", SubmittedAt: base.Add(-2 * time.Hour), Date: "2024-03-20", Location: "Stasiun Sudirman, Jakarta", Category: "Ramadhan", Status: review.StatusPending},
		{ID: "sub-2", Type: KindActivity, Title: "Pengobatan Gratis Lansia", Description: "Program pemeriksaan kesehatan dan pemberian obat gratis untuk lansia.", SubmittedBy: "Dr. Siti Aminah", SubmittedAt: base.Add(-5 * time.Hour), Date: "2024-03-25", Location: "Puskesmas Menteng", Category: "Kesehatan", Status: review.StatusPending},
		{ID: "sub-3", Type: KindCashflow, Title: "Donasi Anggota Baru", Description: "Pemasukan dari donasi anggota baru bulan Maret.", SubmittedBy: "Treasurer Team", SubmittedAt: base.Add(-24 * time.Hour), Amount: 2500000, CashflowType: cashflow.TypeIncome, Category: cashflow.CategoryDonation, Status: review.StatusPending},
		{ID: "sub-4", Type: KindActivity, Title: "Workshop Kewirausahaan", Description: "Workshop pelatihan kewirausahaan untuk pemuda setempat.", SubmittedBy: "Rizki Pratama", SubmittedAt: base.Add(-48 * time.Hour), Date: "2024-04-01", Status: review.StatusPending},
	}
}
