package donation

import (
	"errors"
	"strings"
	"time"

	"komunitas/internal/domain/review"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength    = 120
	MaxEmailLength   = 254
	MaxPhoneLength   = 30
	MaxMessageLength = 1000
)

// Domain errors
var (
	ErrEmptyName      = errors.New("donor name cannot be empty")
	ErrNameTooLong    = errors.New("donor name cannot exceed 120 characters")
	ErrInvalidEmail   = errors.New("email must contain '@'")
	ErrEmailTooLong   = errors.New("email cannot exceed 254 characters")
	ErrPhoneTooLong   = errors.New("phone cannot exceed 30 characters")
	ErrMessageTooLong = errors.New("message cannot exceed 1000 characters")
	ErrNegativeAmount = errors.New("donation amount cannot be negative")
	ErrNotFound       = errors.New("donation request not found")
)

// Request is a pledge awaiting review by an admin.
type Request struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email"`
	Phone     string        `json:"phone"`
	Amount    int64         `json:"amount"`
	Message   string        `json:"message,omitempty"`
	Status    review.Status `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
}

// Draft holds the donor-supplied fields of a Request.
type Draft struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Amount  int64  `json:"amount"`
	Message string `json:"message"`
}

// Validate checks if the Draft has valid data.
// PRE: Draft struct is populated
// POST: Returns nil if valid, error otherwise
func (d *Draft) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ErrEmptyName
	}
	if len(name) > MaxNameLength {
		return ErrNameTooLong
	}
	if len(d.Email) > MaxEmailLength {
		return ErrEmailTooLong
	}
	if !strings.Contains(d.Email, "@") {
		return ErrInvalidEmail
	}
	if len(d.Phone) > MaxPhoneLength {
		return ErrPhoneTooLong
	}
	if len(d.Message) > MaxMessageLength {
		return ErrMessageTooLong
	}
	if d.Amount < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// NewRequest builds a pending Request from a validated draft.
// PRE: d has been validated
// POST: Status is pending
func NewRequest(id string, d Draft, now time.Time) Request {
	return Request{
		ID:        id,
		Name:      strings.TrimSpace(d.Name),
		Email:     strings.TrimSpace(d.Email),
		Phone:     strings.TrimSpace(d.Phone),
		Amount:    d.Amount,
		Message:   strings.TrimSpace(d.Message),
		Status:    review.StatusPending,
		CreatedAt: now,
	}
}

// DefaultRequests returns the list served when the donations slot is absent or unreadable.
func DefaultRequests() []Request {
	seeded := time.Date(2024, time.March, 1, 9, 0, 0, 0, time.UTC)
	return []Request{
		{ID: "don-1", Name: "Ahmad Fauzi", Email: "ahmad@mail.com", Phone: "08123456789", Amount: 250000, Message: "Semoga bermanfaat", Status: review.StatusPending, CreatedAt: seeded},
		{ID: "don-2", Name: "Siti Aminah", Email: "siti@mail.com", Phone: "08987654321", Amount: 500000, Status: review.StatusApproved, CreatedAt: seeded},
	}
}
