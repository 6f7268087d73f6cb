package activity

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 5000
	MaxLocationLength    = 300
)

// Status is the lifecycle stage of an activity.
type Status string

// Activity statuses
const (
	StatusUpcoming  Status = "upcoming"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
)

// ValidStatuses contains all valid activity statuses.
var ValidStatuses = []Status{StatusUpcoming, StatusOngoing, StatusCompleted}

// SuggestedCategories is the fixed list offered when tagging an activity.
var SuggestedCategories = []string{"Ramadhan", "Santunan", "Baksos", "Pengajian", "Kesehatan", "Lingkungan"}

// DateLayout is the calendar date format used for Activity.Date.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrEmptyTitle           = errors.New("activity title cannot be empty")
	ErrTitleTooLong         = errors.New("activity title cannot exceed 200 characters")
	ErrDescriptionTooLong   = errors.New("activity description cannot exceed 5000 characters")
	ErrLocationTooLong      = errors.New("activity location cannot exceed 300 characters")
	ErrInvalidStatus        = errors.New("activity status must be one of: upcoming, ongoing, completed")
	ErrNegativeParticipants = errors.New("activity participants cannot be negative")
	ErrInvalidDate          = errors.New("activity date must be formatted YYYY-MM-DD")
	ErrNotFound             = errors.New("activity not found")
)

// Activity is a community event tracked by the organisation.
type Activity struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"` // Markdown content
	Date         string    `json:"date"`        // YYYY-MM-DD, empty when unscheduled
	Location     string    `json:"location"`    // free text or "lat, lng"
	Category     string    `json:"category,omitempty"`
	Status       Status    `json:"status"`
	Participants int       `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Draft holds the mutable fields of an Activity before it is committed.
type Draft struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Date         string `json:"date"`
	Location     string `json:"location"`
	Category     string `json:"category"`
	Status       Status `json:"status"`
	Participants int    `json:"participants"`
}

// NewDraft returns the defaults a blank activity form starts from.
// POST: Status is upcoming, Participants is 0
func NewDraft() Draft {
	return Draft{Status: StatusUpcoming}
}

// ParseStatus converts a raw string into a Status.
// PRE: none
// POST: Returns ErrInvalidStatus for anything outside ValidStatuses
func ParseStatus(s string) (Status, error) {
	for _, v := range ValidStatuses {
		if string(v) == s {
			return v, nil
		}
	}
	return "", ErrInvalidStatus
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
	if len(d.Location) > MaxLocationLength {
		return ErrLocationTooLong
	}
	if _, err := ParseStatus(string(d.Status)); err != nil {
		return err
	}
	if d.Participants < 0 {
		return ErrNegativeParticipants
	}
	if d.Date != "" {
		if _, err := time.Parse(DateLayout, d.Date); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// DraftOf copies the mutable fields of a into a Draft.
// INVARIANT: a is not mutated
func DraftOf(a Activity) Draft {
	return Draft{
		Title:        a.Title,
		Description:  a.Description,
		Date:         a.Date,
		Location:     a.Location,
		Category:     a.Category,
		Status:       a.Status,
		Participants: a.Participants,
	}
}

// Apply replaces every mutable field of the Activity with the draft's values.
// PRE: d has been validated
// POST: ID and CreatedAt are unchanged
func (a *Activity) Apply(d Draft) {
	a.Title = strings.TrimSpace(d.Title)
	a.Description = d.Description
	a.Date = d.Date
	a.Location = strings.TrimSpace(d.Location)
	a.Category = strings.TrimSpace(d.Category)
	a.Status = d.Status
	a.Participants = d.Participants
}

// IsActive reports whether the activity still needs attention.
// INVARIANT: Activity fields are not mutated
func (a *Activity) IsActive() bool {
	switch a.Status {
	case StatusUpcoming, StatusOngoing:
		return true
	case StatusCompleted:
		return false
	}
	return false
}

// Coordinates parses Location as a "lat, lng" pair.
// POST: ok is false when Location is not a coordinate pair or is out of range
func (a *Activity) Coordinates() (lat, lng float64, ok bool) {
	return ParseCoordinates(a.Location)
}

// ParseCoordinates parses a "lat, lng" string as produced by FormatCoordinates.
func ParseCoordinates(s string) (lat, lng float64, ok bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	if !(lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180) {
		return 0, 0, false
	}
	return lat, lng, true
}

// FormatCoordinates renders a coordinate pair into the location field format.
func FormatCoordinates(lat, lng float64) string {
	return strconv.FormatFloat(lat, 'f', -1, 64) + ", " + strconv.FormatFloat(lng, 'f', -1, 64)
}
