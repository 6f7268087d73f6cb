// Package forms keeps the state of open record forms: which record they target,
// the draft being edited, and any in-flight location lookup.
package forms

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"komunitas/internal/adapters/geo"
	"komunitas/internal/domain/activity"
	"komunitas/internal/domain/cashflow"
)

// Entity names the record type a form edits.
type Entity string

const (
	EntityActivity Entity = "activity"
	EntityCashflow Entity = "cashflow"
)

// Mode controls what a form may do.
type Mode string

const (
	ModeCreate Mode = "create" // blank draft, submit creates
	ModeEdit   Mode = "edit"   // seeded draft, submit updates
	ModeView   Mode = "view"   // seeded draft, read-only
)

// LocateState is the progress of a form's location lookup.
type LocateState string

const (
	LocateIdle     LocateState = "idle"
	LocatePending  LocateState = "pending"
	LocateResolved LocateState = "resolved"
	LocateFailed   LocateState = "failed"
)

// DefaultLocateTimeout bounds a single lookup.
const DefaultLocateTimeout = 10 * time.Second

var (
	ErrInvalidEntity   = errors.New("form entity must be one of: activity, cashflow")
	ErrInvalidMode     = errors.New("form mode must be one of: create, edit, view")
	ErrMissingTarget   = errors.New("edit and view forms need a target id")
	ErrReadOnly        = errors.New("form is read-only")
	ErrClosed          = errors.New("form is closed")
	ErrSubmitting      = errors.New("form is already being submitted")
	ErrNoLocationField = errors.New("this form has no location field")
)

// ParseEntity converts a raw string into an Entity.
func ParseEntity(s string) (Entity, error) {
	switch Entity(s) {
	case EntityActivity, EntityCashflow:
		return Entity(s), nil
	}
	return "", ErrInvalidEntity
}

// ParseMode converts a raw string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeCreate, ModeEdit, ModeView:
		return Mode(s), nil
	}
	return "", ErrInvalidMode
}

// Backend loads records into forms and commits submitted drafts.
type Backend interface {
	LoadActivity(ctx context.Context, id string) (activity.Activity, error)
	LoadCashflow(ctx context.Context, id string) (cashflow.Item, error)
	// SubmitActivity creates when targetID is empty and updates otherwise.
	SubmitActivity(ctx context.Context, targetID string, d activity.Draft, actor string) (string, error)
	SubmitCashflow(ctx context.Context, targetID string, d cashflow.Draft, actor string) (string, error)
}

// LocateStatus reports the latest lookup.
type LocateStatus struct {
	State      LocateState      `json:"state"`
	Generation uint64           `json:"generation"`
	Coords     *geo.Coordinates `json:"coords,omitempty"`
	Notice     string           `json:"notice,omitempty"`
}

// Snapshot is a point-in-time copy of a form.
type Snapshot struct {
	ID       string          `json:"id"`
	Entity   Entity          `json:"entity"`
	Mode     Mode            `json:"mode"`
	TargetID string          `json:"targetId,omitempty"`
	Activity *activity.Draft `json:"activity,omitempty"`
	Cashflow *cashflow.Draft `json:"cashflow,omitempty"`
	Locate   LocateStatus    `json:"locate"`
	ReadOnly bool            `json:"readOnly"`
}

// Controller is one open form.
// INVARIANT: at most one lookup is live; its generation equals c.gen
type Controller struct {
	id      string
	entity  Entity
	backend Backend
	locator geo.Locator
	timeout time.Duration
	now     func() time.Time

	// life is cancelled when the form closes; lookups derive from it.
	life     context.Context
	stopLife context.CancelFunc

	mu           sync.Mutex
	mode         Mode
	targetID     string
	activity     activity.Draft
	cashflow     cashflow.Draft
	locate       LocateStatus
	gen          uint64
	cancelLocate context.CancelFunc
	closed       bool
	submitting   bool
	touched      time.Time
}

// ID returns the form id.
func (c *Controller) ID() string { return c.id }

// seed loads the draft for the current mode and target.
// PRE: c.mu is held
func (c *Controller) seed(ctx context.Context) error {
	if c.mode != ModeCreate && c.targetID == "" {
		return ErrMissingTarget
	}
	switch c.entity {
	case EntityActivity:
		if c.mode == ModeCreate {
			c.activity = activity.NewDraft()
			return nil
		}
		a, err := c.backend.LoadActivity(ctx, c.targetID)
		if err != nil {
			return err
		}
		c.activity = activity.DraftOf(a)
	case EntityCashflow:
		if c.mode == ModeCreate {
			c.cashflow = cashflow.NewDraft(c.now())
			return nil
		}
		it, err := c.backend.LoadCashflow(ctx, c.targetID)
		if err != nil {
			return err
		}
		c.cashflow = cashflow.DraftOf(it)
	}
	return nil
}

// Retarget switches mode and/or target and re-seeds the draft from scratch.
// Any in-flight lookup is cancelled and its result will be dropped.
// POST: on error the form keeps its previous mode, target and draft
func (c *Controller) Retarget(ctx context.Context, mode Mode, targetID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writableLocked(); err != nil {
		return err
	}
	restore := c.saveLocked()
	if err := c.retargetLocked(ctx, mode, targetID); err != nil {
		restore()
		return err
	}
	c.abandonLocateLocked()
	c.touched = c.now()
	return nil
}

// writableLocked reports whether the form accepts changes at all.
// PRE: c.mu is held
func (c *Controller) writableLocked() error {
	if c.closed {
		return ErrClosed
	}
	if c.submitting {
		return ErrSubmitting
	}
	return nil
}

// saveLocked captures mode, target and drafts; the returned func puts them back.
// PRE: c.mu is held
func (c *Controller) saveLocked() (restore func()) {
	mode, target, act, cf := c.mode, c.targetID, c.activity, c.cashflow
	return func() {
		c.mode, c.targetID, c.activity, c.cashflow = mode, target, act, cf
	}
}

// PRE: c.mu is held
func (c *Controller) retargetLocked(ctx context.Context, mode Mode, targetID string) error {
	if mode == ModeCreate {
		targetID = ""
	}
	c.mode, c.targetID = mode, targetID
	return c.seed(ctx)
}

// Patch merges a partial JSON object into the draft.
// Numeric fields accept numbers or numeric strings; anything else becomes 0.
// Keys "mode" and "targetId" re-seed the form before the remaining fields apply.
// POST: the patch applies as a whole or not at all
func (c *Controller) Patch(ctx context.Context, raw []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return err
	}

	var mode Mode
	var target string
	rawMode, hasMode := fields["mode"]
	rawTarget, hasTarget := fields["targetId"]
	if hasMode {
		var s string
		if err := json.Unmarshal(rawMode, &s); err != nil {
			return ErrInvalidMode
		}
		m, err := ParseMode(s)
		if err != nil {
			return err
		}
		mode = m
	}
	if hasTarget {
		if err := json.Unmarshal(rawTarget, &target); err != nil {
			return ErrMissingTarget
		}
	}
	delete(fields, "mode")
	delete(fields, "targetId")

	CoerceNumbers(fields, "amount", "participants")
	merged, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writableLocked(); err != nil {
		return err
	}
	restore := c.saveLocked()

	retargeted := hasMode || hasTarget
	if retargeted {
		if !hasMode {
			mode = c.mode
		}
		if !hasTarget {
			target = c.targetID
		}
		if err := c.retargetLocked(ctx, mode, target); err != nil {
			restore()
			return err
		}
	}
	if len(fields) > 0 {
		if c.mode == ModeView {
			restore()
			return ErrReadOnly
		}
		if err := c.applyLocked(merged); err != nil {
			restore()
			return err
		}
	}

	_, locationEdited := fields["location"]
	if retargeted || (locationEdited && c.locate.State == LocatePending) {
		// a manual edit wins over a pending lookup
		c.abandonLocateLocked()
	}
	c.touched = c.now()
	return nil
}

// applyLocked decodes merged over the current draft.
// PRE: c.mu is held
func (c *Controller) applyLocked(merged []byte) error {
	switch c.entity {
	case EntityActivity:
		next := c.activity
		if err := json.Unmarshal(merged, &next); err != nil {
			return err
		}
		c.activity = next
	case EntityCashflow:
		next := c.cashflow
		if err := json.Unmarshal(merged, &next); err != nil {
			return err
		}
		c.cashflow = next
	}
	return nil
}

// CoerceNumbers rewrites the named fields, when present, as JSON integers.
func CoerceNumbers(fields map[string]json.RawMessage, keys ...string) {
	for _, key := range keys {
		if v, ok := fields[key]; ok {
			fields[key] = []byte(strconv.FormatInt(coerceInt(v), 10))
		}
	}
}

// coerceInt reads a JSON number or numeric string; anything else is 0.
func coerceInt(raw json.RawMessage) int64 {
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
		return 0
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	s = strings.TrimSpace(s)
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int64(f)
	}
	return 0
}

// Locate starts a location lookup and returns a channel closed once its result
// has been applied or discarded. Starting a lookup cancels the previous one.
// PRE: the form is an activity form not in view mode
// POST: the lookup's outcome is applied only if it is still the latest and the form is open
func (c *Controller) Locate(req geo.Request) (gen uint64, done <-chan struct{}, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writableLocked(); err != nil {
		return 0, nil, err
	}
	if c.mode == ModeView {
		return 0, nil, ErrReadOnly
	}
	if c.entity != EntityActivity {
		return 0, nil, ErrNoLocationField
	}

	c.abandonLocateLocked()
	c.gen++
	gen = c.gen
	ctx, cancel := context.WithTimeout(c.life, c.timeout)
	c.cancelLocate = cancel
	c.locate = LocateStatus{State: LocatePending, Generation: gen}

	ch := make(chan struct{})
	go func() {
		defer close(ch)
		defer cancel()
		coords, err := c.locator.Locate(ctx, req)
		c.finishLocate(gen, coords, err)
	}()
	return gen, ch, nil
}

func (c *Controller) finishLocate(gen uint64, coords geo.Coordinates, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen || c.locate.State != LocatePending {
		slog.Debug("form_event", "event", "locate_discarded", "form_id", c.id, "generation", gen)
		return
	}
	c.cancelLocate = nil
	if err != nil {
		c.locate = LocateStatus{State: LocateFailed, Generation: gen, Notice: locateNotice(err)}
		slog.Info("form_event", "event", "locate_failed", "form_id", c.id, "generation", gen, "error", err)
		return
	}
	c.activity.Location = activity.FormatCoordinates(coords.Lat, coords.Lng)
	c.locate = LocateStatus{State: LocateResolved, Generation: gen, Coords: &coords}
	slog.Info("form_event", "event", "locate_resolved", "form_id", c.id, "generation", gen)
}

func locateNotice(err error) string {
	switch {
	case errors.Is(err, geo.ErrDenied):
		return "Izin lokasi ditolak."
	case errors.Is(err, geo.ErrUnsupported):
		return "Perangkat tidak mendukung pencarian lokasi."
	case errors.Is(err, context.DeadlineExceeded):
		return "Pencarian lokasi melebihi batas waktu."
	}
	return "Lokasi tidak dapat ditentukan."
}

// abandonLocateLocked cancels the live lookup so its result is dropped.
// PRE: c.mu is held
func (c *Controller) abandonLocateLocked() {
	if c.cancelLocate != nil {
		c.cancelLocate()
		c.cancelLocate = nil
	}
	if c.locate.State == LocatePending {
		c.locate = LocateStatus{State: LocateIdle}
	}
	// bump so a result racing the cancel is stale
	c.gen++
}

// Submit commits the draft through the backend.
// Only one submit runs at a time; a concurrent one gets ErrSubmitting.
// POST: on success the form is closed and the record id returned; on error the form stays open
func (c *Controller) Submit(ctx context.Context, actor string) (string, error) {
	c.mu.Lock()
	if err := c.writableLocked(); err != nil {
		c.mu.Unlock()
		return "", err
	}
	if c.mode == ModeView {
		c.mu.Unlock()
		return "", ErrReadOnly
	}
	c.submitting = true
	target := c.targetID
	entity := c.entity
	act, cf := c.activity, c.cashflow
	c.mu.Unlock()

	var id string
	var err error
	switch entity {
	case EntityActivity:
		id, err = c.backend.SubmitActivity(ctx, target, act, actor)
	case EntityCashflow:
		id, err = c.backend.SubmitCashflow(ctx, target, cf, actor)
	}
	if err != nil {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
		return "", err
	}
	c.Close()
	slog.Info("form_event", "event", "form_submitted", "form_id", c.id, "entity", entity, "record_id", id)
	return id, nil
}

// Close cancels any lookup and marks the form closed. Closing twice is harmless.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.abandonLocateLocked()
	c.closed = true
	c.stopLife()
}

// Closed reports whether the form has been closed.
func (c *Controller) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Snapshot copies the form state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Snapshot{
		ID:       c.id,
		Entity:   c.entity,
		Mode:     c.mode,
		TargetID: c.targetID,
		Locate:   c.locate,
		ReadOnly: c.mode == ModeView,
	}
	switch c.entity {
	case EntityActivity:
		d := c.activity
		s.Activity = &d
	case EntityCashflow:
		d := c.cashflow
		s.Cashflow = &d
	}
	return s
}

func (c *Controller) idleSince() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.touched
}
