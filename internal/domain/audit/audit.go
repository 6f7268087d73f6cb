package audit

import (
	"time"
)

// MaxEvents is how many entries the mutation log retains; older entries fall off.
const MaxEvents = 500

// Collection names the record set a mutation touched.
type Collection string

const (
	CollectionActivities  Collection = "activities"
	CollectionCashflow    Collection = "cashflow"
	CollectionDonations   Collection = "donations"
	CollectionVolunteers  Collection = "volunteers"
	CollectionSubmissions Collection = "submissions"
	CollectionAccounts    Collection = "accounts"
	CollectionSystem      Collection = "system"
)

// Action represents the mutation that occurred.
type Action string

const (
	ActionCreate  Action = "create"
	ActionUpdate  Action = "update"
	ActionDelete  Action = "delete"
	ActionStatus  Action = "status"
	ActionApprove Action = "approve"
	ActionReject  Action = "reject"
	ActionReset   Action = "reset"
	ActionLogin   Action = "login"
)

// Event is a single entry in the mutation log.
type Event struct {
	ID          string     `json:"id"`
	Timestamp   time.Time  `json:"timestamp"`
	Collection  Collection `json:"collection"`
	Action      Action     `json:"action"`
	ResourceID  string     `json:"resourceId,omitempty"`
	Actor       string     `json:"actor,omitempty"`
	Description string     `json:"description,omitempty"`
}

// NewEvent creates a log entry for one mutation.
// PRE: id is unique, now is the mutation time
// POST: Returns an Event with the provided fields
func NewEvent(id string, now time.Time, collection Collection, action Action) Event {
	return Event{
		ID:         id,
		Timestamp:  now,
		Collection: collection,
		Action:     action,
	}
}

// WithResource sets the id of the record the mutation touched.
func (e Event) WithResource(resourceID string) Event {
	e.ResourceID = resourceID
	return e
}

// WithActor records who performed the mutation.
// An empty actor means an anonymous or system caller.
func (e Event) WithActor(actor string) Event {
	e.Actor = actor
	return e
}

// WithDescription sets the event description.
func (e Event) WithDescription(desc string) Event {
	e.Description = desc
	return e
}

// Prepend places e at the head of log and trims the tail to MaxEvents.
// POST: result[0] == e, len(result) <= MaxEvents
// INVARIANT: log is not mutated
func Prepend(log []Event, e Event) []Event {
	n := len(log) + 1
	if n > MaxEvents {
		n = MaxEvents
	}
	out := make([]Event, 0, n)
	out = append(out, e)
	out = append(out, log[:n-1]...)
	return out
}
