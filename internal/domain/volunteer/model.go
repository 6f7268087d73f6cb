package volunteer

import (
	"errors"
	"strings"
	"time"

	"komunitas/internal/domain/review"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength       = 120
	MaxEmailLength      = 254
	MaxPhoneLength      = 30
	MaxMotivationLength = 2000
	MaxSkills           = 20
	MaxSkillLength      = 50
)

// Domain errors
var (
	ErrEmptyName         = errors.New("volunteer name cannot be empty")
	ErrNameTooLong       = errors.New("volunteer name cannot exceed 120 characters")
	ErrInvalidEmail      = errors.New("email must contain '@'")
	ErrEmailTooLong      = errors.New("email cannot exceed 254 characters")
	ErrPhoneTooLong      = errors.New("phone cannot exceed 30 characters")
	ErrMotivationTooLong = errors.New("motivation cannot exceed 2000 characters")
	ErrTooManySkills     = errors.New("at most 20 skills may be listed")
	ErrSkillTooLong      = errors.New("a skill cannot exceed 50 characters")
	ErrNotFound          = errors.New("volunteer request not found")
)

// Request is an offer to volunteer awaiting review by an admin.
type Request struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Phone      string        `json:"phone"`
	Skills     []string      `json:"skills"`
	Motivation string        `json:"motivation"`
	Status     review.Status `json:"status"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// Draft holds the applicant-supplied fields of a Request.
type Draft struct {
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Skills     []string `json:"skills"`
	Motivation string   `json:"motivation"`
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
	if len(d.Motivation) > MaxMotivationLength {
		return ErrMotivationTooLong
	}
	if len(d.Skills) > MaxSkills {
		return ErrTooManySkills
	}
	for _, s := range d.Skills {
		if len(s) > MaxSkillLength {
			return ErrSkillTooLong
		}
	}
	return nil
}

// NewRequest builds a pending Request from a validated draft.
// Blank skill tags are dropped; order is preserved.
// PRE: d has been validated
// POST: Status is pending
func NewRequest(id string, d Draft, now time.Time) Request {
	skills := make([]string, 0, len(d.Skills))
	for _, s := range d.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	return Request{
		ID:         id,
		Name:       strings.TrimSpace(d.Name),
		Email:      strings.TrimSpace(d.Email),
		Phone:      strings.TrimSpace(d.Phone),
		Skills:     skills,
		Motivation: strings.TrimSpace(d.Motivation),
		Status:     review.StatusPending,
		CreatedAt:  now,
	}
}

// DefaultRequests returns the list served when the volunteers slot is absent or unreadable.
func DefaultRequests() []Request {
	return []Request{
		{
			ID:         "vol-1",
			Name:       "Andi Pratama",
			Email:      "andi@mail.com",
			Phone:      "08123456789",
			Skills:     []string{"Logistik", "Event"},
			Motivation: "Ingin membantu kegiatan sosial",
			Status:     review.StatusPending,
			CreatedAt:  time.Date(2024, time.March, 2, 10, 0, 0, 0, time.UTC),
		},
	}
}
