package web

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"komunitas/internal/adapters/http/middleware"
	"komunitas/internal/adapters/http/perf"
	"komunitas/internal/adapters/storage/collection"
	"komunitas/internal/application/forms"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/domain/account"
)

// Config holds HTTP settings resolved at startup.
type Config struct {
	Production         bool     // secure cookies, CSRF key required
	CSRFKeyHex         string   // 64 hex characters; random per start when empty outside production
	TrustedOrigins     []string // extra origins accepted by CSRF checks
	RateLimitPerSecond int      // per client IP; 0 disables
	SlowRequestMs      int      // 0 selects middleware.DefaultSlowRequestMs
}

// Deps are the collaborators shared by every handler.
type Deps struct {
	Stores     *collection.Stores
	Forms      *forms.Registry
	Sessions   *middleware.SessionStore
	Perf       *perf.Collector // optional
	Notify     orchestrators.NotifyDeps
	GenerateID func() string    // nil selects UUIDv4
	Now        func() time.Time // nil selects time.Now
}

// Server is the JSON API.
type Server struct {
	deps    Deps
	cfg     Config
	limiter *middleware.RateLimiter
	router  chi.Router
}

// ErrCSRFKeyRequired is returned when production runs without a CSRF key.
var ErrCSRFKeyRequired = errors.New("csrf key is required in production")

// LoadCSRFKey decodes the CSRF secret (hex-encoded, 32 bytes).
// Outside production an empty key yields a random one; issued tokens then do not survive a restart.
func LoadCSRFKey(keyHex string, production bool) ([]byte, error) {
	if keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			return nil, errors.New("csrf key must be 64 hex characters (32 bytes)")
		}
		return key, nil
	}
	if production {
		return nil, ErrCSRFKeyRequired
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	slog.Warn("csrf_key_random", "hint", "set KOMUNITAS_CSRF_KEY for production")
	return key, nil
}

// NewServer wires the routes and middleware.
// PRE: deps.Stores, deps.Forms and deps.Sessions are non-nil
func NewServer(deps Deps, cfg Config) (*Server, error) {
	if deps.GenerateID == nil {
		deps.GenerateID = func() string { return uuid.New().String() }
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	csrfKey, err := LoadCSRFKey(cfg.CSRFKeyHex, cfg.Production)
	if err != nil {
		return nil, err
	}

	s := &Server{deps: deps, cfg: cfg}
	if cfg.RateLimitPerSecond > 0 {
		s.limiter = middleware.NewRateLimiter(cfg.RateLimitPerSecond, time.Second)
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(
		middleware.SecurityHeaders,
		middleware.RateLimit(s.limiter),
		middleware.Timing(deps.Perf, cfg.SlowRequestMs),
		middleware.Auth(deps.Sessions),
		middleware.CSRF(csrfKey, cfg.Production, cfg.TrustedOrigins),
	)
	s.routes(r)
	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) routes(r chi.Router) {
	r.Get("/healthz", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)

		// public surface
		r.Get("/public/activities", s.handlePublicActivities)
		r.Get("/activities/map", s.handleActivityMap)
		r.Post("/donations", s.handleCreateDonation)
		r.Post("/volunteers", s.handleCreateVolunteer)
		r.Post("/submissions", s.handleCreateSubmission)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole())

			r.Get("/dashboard", s.handleDashboard)
			r.Post("/account/password", s.handleChangePassword)

			r.Get("/activities", s.handleListActivities)
			r.Post("/activities", s.handleCreateActivity)
			r.Get("/activities/{id}", s.handleGetActivity)
			r.Put("/activities/{id}", s.handleUpdateActivity)
			r.Delete("/activities/{id}", s.handleDeleteActivity)

			r.Get("/cashflow", s.handleListCashflow)
			r.Post("/cashflow", s.handleCreateCashflow)
			r.Get("/cashflow/summary", s.handleCashflowSummary)
			r.Get("/cashflow/{id}", s.handleGetCashflow)
			r.Put("/cashflow/{id}", s.handleUpdateCashflow)
			r.Delete("/cashflow/{id}", s.handleDeleteCashflow)

			r.Get("/donations", s.handleListDonations)
			r.Get("/volunteers", s.handleListVolunteers)

			r.Post("/forms", s.handleOpenForm)
			r.Get("/forms/{id}", s.handleGetForm)
			r.Patch("/forms/{id}", s.handlePatchForm)
			r.Delete("/forms/{id}", s.handleCloseForm)
			r.Post("/forms/{id}/locate", s.handleLocateForm)
			r.Post("/forms/{id}/submit", s.handleSubmitForm)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(account.RoleAdmin))

			r.Post("/donations/{id}/status", s.handleSetDonationStatus)
			r.Delete("/donations/{id}", s.handleDeleteDonation)
			r.Post("/volunteers/{id}/status", s.handleSetVolunteerStatus)
			r.Delete("/volunteers/{id}", s.handleDeleteVolunteer)

			r.Route("/admin", func(r chi.Router) {
				r.Get("/submissions", s.handleListSubmissions)
				r.Post("/submissions/{id}/approve", s.handleApproveSubmission)
				r.Post("/submissions/{id}/reject", s.handleRejectSubmission)
				r.Post("/reset", s.handleReset)
				r.Get("/audit", s.handleListAudit)
				r.Get("/perf", s.handlePerf)
				r.Post("/accounts", s.handleCreateAccount)
			})
		})
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deps.Stores.Slots.Keys(r.Context()); err != nil {
		slog.Warn("health_check_failed", "error", err)
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// auditDeps is embedded into every mutating orchestrator's deps.
func (s *Server) auditDeps() orchestrators.AuditDeps {
	return orchestrators.AuditDeps{
		AuditLog:   s.deps.Stores.AuditLog,
		GenerateID: s.deps.GenerateID,
		Now:        s.deps.Now,
	}
}

func (s *Server) activityDeps() orchestrators.ActivityDeps {
	return orchestrators.ActivityDeps{Activities: s.deps.Stores.Activities, AuditDeps: s.auditDeps()}
}

func (s *Server) cashflowDeps() orchestrators.CashflowDeps {
	return orchestrators.CashflowDeps{Cashflow: s.deps.Stores.Cashflow, AuditDeps: s.auditDeps()}
}

func (s *Server) donationDeps() orchestrators.DonationDeps {
	return orchestrators.DonationDeps{Donations: s.deps.Stores.Donations, AuditDeps: s.auditDeps(), NotifyDeps: s.deps.Notify}
}

func (s *Server) volunteerDeps() orchestrators.VolunteerDeps {
	return orchestrators.VolunteerDeps{Volunteers: s.deps.Stores.Volunteers, AuditDeps: s.auditDeps(), NotifyDeps: s.deps.Notify}
}

func (s *Server) submissionDeps() orchestrators.SubmissionDeps {
	return orchestrators.SubmissionDeps{
		Submissions: s.deps.Stores.Submissions,
		Activity:    s.activityDeps(),
		Cashflow:    s.cashflowDeps(),
		AuditDeps:   s.auditDeps(),
	}
}
