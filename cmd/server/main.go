package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	emailPkg "komunitas/internal/adapters/email"
	"komunitas/internal/adapters/geo"
	web "komunitas/internal/adapters/http"
	"komunitas/internal/adapters/http/middleware"
	"komunitas/internal/adapters/http/perf"
	"komunitas/internal/adapters/storage/collection"
	"komunitas/internal/adapters/storage/slot"
	"komunitas/internal/application/forms"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/config"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configFile := flag.String("config", "", "config file (default ./komunitas.yaml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		slog.Error("config_invalid", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg)

	if err := run(cfg); err != nil {
		slog.Error("server_failed", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs JSON logs in production and text logs elsewhere.
func setupLogger(cfg *config.Config) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var h slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Production() {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(h).With("version", version))
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	collector := perf.NewCollector(perf.DefaultRingSize)
	store, closeStore, err := slot.Open(ctx, slot.OpenOptions{
		Backend:     cfg.Store.Driver,
		SQLitePath:  cfg.Store.SQLitePath,
		DiskvPath:   cfg.Store.DiskvPath,
		PostgresURL: cfg.Store.PostgresURL,
		Collector:   collector,
		SlowMs:      cfg.SlowQueryMs,
	})
	if err != nil {
		return err
	}
	defer closeStore()
	stores := collection.NewStores(store)

	generateID := func() string { return uuid.New().String() }
	audit := orchestrators.AuditDeps{AuditLog: stores.AuditLog, GenerateID: generateID, Now: time.Now}

	seedDeps := orchestrators.CreateAccountDeps{Accounts: stores.Accounts, AuditDeps: audit}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return err
	}

	locator, closeLocator, err := newLocator(cfg)
	if err != nil {
		return err
	}
	defer closeLocator()

	registry := forms.NewRegistry(forms.RegistryDeps{
		Backend: forms.OrchestratorBackend{
			Activity: orchestrators.ActivityDeps{Activities: stores.Activities, AuditDeps: audit},
			Cashflow: orchestrators.CashflowDeps{Cashflow: stores.Cashflow, AuditDeps: audit},
		},
		Locator:       locator,
		LocateTimeout: cfg.LocateTimeout,
		GenerateID:    generateID,
	})
	go sweepIdleForms(ctx, registry, cfg.FormIdle)

	srv, err := web.NewServer(web.Deps{
		Stores:     stores,
		Forms:      registry,
		Sessions:   middleware.NewSessionStore(nil),
		Perf:       collector,
		Notify:     newNotifier(cfg),
		GenerateID: generateID,
	}, web.Config{
		Production:         cfg.Production(),
		CSRFKeyHex:         cfg.CSRFKey,
		RateLimitPerSecond: cfg.RateLimit,
		SlowRequestMs:      cfg.SlowRequestMs,
	})
	if err != nil {
		return err
	}
	defer srv.Close()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server_starting", "addr", cfg.Addr, "env", cfg.Env, "store", cfg.Store.Driver)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("server_stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newLocator prefers a client-supplied fix and falls back to GeoIP when a database is configured.
func newLocator(cfg *config.Config) (geo.Locator, func() error, error) {
	g, err := geo.OpenGeoIP(cfg.GeoIPPath)
	if err != nil {
		return nil, nil, err
	}
	if g == nil {
		slog.Info("geoip_disabled", "hint", "set KOMUNITAS_GEOIP_DB_PATH to resolve client addresses")
		return geo.DeviceFirst(nil), func() error { return nil }, nil
	}
	return geo.DeviceFirst(g), g.Close, nil
}

// newNotifier configures decision notices: Resend when a key is set, log-only otherwise.
func newNotifier(cfg *config.Config) orchestrators.NotifyDeps {
	n := orchestrators.NotifyDeps{FromAddress: cfg.ResendFrom, ReplyTo: cfg.ReplyTo, OrgName: cfg.OrgName}
	if cfg.ResendKey != "" {
		n.EmailSender = emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom, cfg.ReplyTo)
		slog.Info("email_configured", "provider", "resend")
		return n
	}
	n.EmailSender = emailPkg.NewNoopSender()
	if cfg.Production() {
		slog.Warn("email_disabled", "hint", "KOMUNITAS_RESEND_KEY is not set; decision notices are only logged")
	}
	return n
}

func sweepIdleForms(ctx context.Context, registry *forms.Registry, maxIdle time.Duration) {
	if maxIdle <= 0 {
		return
	}
	ticker := time.NewTicker(maxIdle / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			registry.CloseIdle(maxIdle)
		}
	}
}
