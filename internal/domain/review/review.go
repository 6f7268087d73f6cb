package review

import "errors"

// Status is the review state of a request awaiting an admin decision.
type Status string

// Review statuses
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ValidStatuses contains all valid review statuses.
var ValidStatuses = []Status{StatusPending, StatusApproved, StatusRejected}

// Domain errors
var (
	ErrInvalidStatus   = errors.New("status must be one of: pending, approved, rejected")
	ErrAlreadyResolved = errors.New("request has already been resolved")
)

// ParseStatus converts a raw string into a Status.
// POST: Returns ErrInvalidStatus for anything outside ValidStatuses
func ParseStatus(s string) (Status, error) {
	for _, v := range ValidStatuses {
		if string(v) == s {
			return v, nil
		}
	}
	return "", ErrInvalidStatus
}

// IsResolved reports whether a decision has been made.
func (s Status) IsResolved() bool {
	switch s {
	case StatusApproved, StatusRejected:
		return true
	case StatusPending:
		return false
	}
	return false
}

// Transition decides whether moving from current to next is allowed.
// A repeat of the current status is an idempotent no-op. Leaving pending is
// one-shot: once resolved, any different status is refused.
// PRE: none
// POST: changed is true only when the caller must persist next
func Transition(current, next Status) (changed bool, err error) {
	if _, err := ParseStatus(string(next)); err != nil {
		return false, err
	}
	if current == next {
		return false, nil
	}
	if current.IsResolved() {
		return false, ErrAlreadyResolved
	}
	return true, nil
}

// Counts tallies statuses across a collection.
type Counts struct {
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}

// Add records one status in the tally.
func (c *Counts) Add(s Status) {
	switch s {
	case StatusPending:
		c.Pending++
	case StatusApproved:
		c.Approved++
	case StatusRejected:
		c.Rejected++
	}
}
