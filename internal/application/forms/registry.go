package forms

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"komunitas/internal/adapters/geo"
)

// MaxOpenForms caps how many forms a registry keeps at once.
const MaxOpenForms = 1000

var (
	ErrNotFound     = errors.New("form not found")
	ErrTooManyForms = errors.New("too many open forms")
)

// OpenInput carries input for opening a form.
type OpenInput struct {
	Entity   Entity
	Mode     Mode
	TargetID string
}

// RegistryDeps holds dependencies for a Registry.
type RegistryDeps struct {
	Backend       Backend
	Locator       geo.Locator   // nil means lookups always fail as unsupported
	LocateTimeout time.Duration // 0 means DefaultLocateTimeout
	GenerateID    func() string
	Now           func() time.Time
}

// Registry tracks open forms by id.
type Registry struct {
	deps RegistryDeps

	mu    sync.Mutex
	forms map[string]*Controller
}

// NewRegistry creates an empty registry.
// PRE: deps.Backend and deps.GenerateID are non-nil
func NewRegistry(deps RegistryDeps) *Registry {
	if deps.Locator == nil {
		deps.Locator = geo.Unsupported
	}
	if deps.LocateTimeout <= 0 {
		deps.LocateTimeout = DefaultLocateTimeout
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Registry{deps: deps, forms: make(map[string]*Controller)}
}

// Open creates a form and seeds its draft.
// POST: Returns the seeding error (for example a missing target) without registering the form
func (r *Registry) Open(ctx context.Context, input OpenInput) (*Controller, error) {
	if _, err := ParseEntity(string(input.Entity)); err != nil {
		return nil, err
	}
	if _, err := ParseMode(string(input.Mode)); err != nil {
		return nil, err
	}
	target := input.TargetID
	if input.Mode == ModeCreate {
		target = ""
	}

	life, stop := context.WithCancel(context.Background())
	c := &Controller{
		id:       r.deps.GenerateID(),
		entity:   input.Entity,
		backend:  r.deps.Backend,
		locator:  r.deps.Locator,
		timeout:  r.deps.LocateTimeout,
		now:      r.deps.Now,
		life:     life,
		stopLife: stop,
		mode:     input.Mode,
		targetID: target,
		locate:   LocateStatus{State: LocateIdle},
		touched:  r.deps.Now(),
	}
	c.mu.Lock()
	err := c.seed(ctx)
	c.mu.Unlock()
	if err != nil {
		stop()
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.forms) >= MaxOpenForms {
		stop()
		return nil, ErrTooManyForms
	}
	r.forms[c.id] = c
	slog.Info("form_event", "event", "form_opened", "form_id", c.id, "entity", c.entity, "mode", c.mode, "target_id", target)
	return c, nil
}

// Get returns an open form.
func (r *Registry) Get(id string) (*Controller, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.forms[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

// Close closes and forgets a form. Unknown ids are a no-op.
func (r *Registry) Close(id string) {
	r.mu.Lock()
	c, ok := r.forms[id]
	delete(r.forms, id)
	r.mu.Unlock()
	if ok {
		c.Close()
		slog.Info("form_event", "event", "form_closed", "form_id", id)
	}
}

// Submit commits a form and forgets it on success.
func (r *Registry) Submit(ctx context.Context, id, actor string) (string, error) {
	c, err := r.Get(id)
	if err != nil {
		return "", err
	}
	recordID, err := c.Submit(ctx, actor)
	if err != nil {
		return "", err
	}
	r.mu.Lock()
	delete(r.forms, id)
	r.mu.Unlock()
	return recordID, nil
}

// Len returns the number of open forms.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// CloseIdle closes forms untouched for longer than maxIdle and returns how many were closed.
func (r *Registry) CloseIdle(maxIdle time.Duration) int {
	cutoff := r.deps.Now().Add(-maxIdle)
	r.mu.Lock()
	var stale []*Controller
	for id, c := range r.forms {
		if c.idleSince().Before(cutoff) {
			stale = append(stale, c)
			delete(r.forms, id)
		}
	}
	r.mu.Unlock()

	for _, c := range stale {
		c.Close()
	}
	if len(stale) > 0 {
		slog.Info("form_event", "event", "idle_forms_closed", "count", len(stale))
	}
	return len(stale)
}
