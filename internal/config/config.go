// Package config loads server and CLI settings from .env, the environment and an optional komunitas.yaml.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

// EnvPrefix namespaces every environment variable, e.g. KOMUNITAS_STORE_DRIVER.
const EnvPrefix = "KOMUNITAS"

// Storage drivers.
const (
	DriverSQLite   = "sqlite"
	DriverDiskv    = "diskv"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

var (
	ErrUnknownDriver       = errors.New("store.driver must be one of: sqlite, diskv, postgres, memory")
	ErrPostgresURLRequired = errors.New("store.postgres_url is required for the postgres driver")
	ErrAdminPasswordWeak   = errors.New("admin.password must be at least 12 characters")
)

// Store selects and locates the slot backend.
type Store struct {
	Driver      string
	SQLitePath  string
	DiskvPath   string
	PostgresURL string
}

// Config is the resolved configuration.
type Config struct {
	Env  string
	Addr string

	Store Store

	GeoIPPath     string
	LocateTimeout time.Duration
	FormIdle      time.Duration

	AdminEmail    string
	AdminPassword string
	CSRFKey       string

	ResendKey  string
	ResendFrom string
	ReplyTo    string
	OrgName    string

	RateLimit     int
	SlowRequestMs int
	SlowQueryMs   int
	LogLevel      slog.Level
}

// Production reports whether the server runs with production safeguards.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("addr", ":8080")
	v.SetDefault("store.driver", DriverSQLite)
	v.SetDefault("store.sqlite_path", "komunitas.db")
	v.SetDefault("store.diskv_path", "~/.komunitas/slots")
	v.SetDefault("locate.timeout", "10s")
	v.SetDefault("forms.idle", "30m")
	v.SetDefault("admin.email", "admin@komunitas.id")
	v.SetDefault("admin.password", "ganti-password-ini")
	v.SetDefault("resend.from", "Komunitas <noreply@komunitas.id>")
	v.SetDefault("reply_to", "pengurus@komunitas.id")
	v.SetDefault("org_name", "Komunitas")
	v.SetDefault("rate_limit", 20)
	v.SetDefault("slow_request_ms", 200)
	v.SetDefault("slow_query_ms", 50)
	v.SetDefault("log.level", "info")
}

// Load resolves the configuration. An explicit file must exist; otherwise komunitas.yaml is
// looked up in the working directory and ~/.komunitas, and a missing file is not an error.
// POST: Paths beginning with ~ are expanded
func Load(file string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		path, err := homedir.Expand(file)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		v.SetConfigName("komunitas")
		v.AddConfigPath(".")
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".komunitas"))
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("config: read komunitas.yaml: %w", err)
			}
		}
	}

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:  v.GetString("env"),
		Addr: v.GetString("addr"),
		Store: Store{
			Driver:      strings.ToLower(v.GetString("store.driver")),
			SQLitePath:  v.GetString("store.sqlite_path"),
			DiskvPath:   v.GetString("store.diskv_path"),
			PostgresURL: v.GetString("store.postgres_url"),
		},
		GeoIPPath:     v.GetString("geoip.db_path"),
		LocateTimeout: v.GetDuration("locate.timeout"),
		FormIdle:      v.GetDuration("forms.idle"),
		AdminEmail:    v.GetString("admin.email"),
		AdminPassword: v.GetString("admin.password"),
		CSRFKey:       v.GetString("csrf.key"),
		ResendKey:     v.GetString("resend.key"),
		ResendFrom:    v.GetString("resend.from"),
		ReplyTo:       v.GetString("reply_to"),
		OrgName:       v.GetString("org_name"),
		RateLimit:     v.GetInt("rate_limit"),
		SlowRequestMs: v.GetInt("slow_request_ms"),
		SlowQueryMs:   v.GetInt("slow_query_ms"),
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log.level"))); err != nil {
		return nil, fmt.Errorf("config: log.level: %w", err)
	}

	var err error
	for _, p := range []*string{&cfg.Store.SQLitePath, &cfg.Store.DiskvPath, &cfg.GeoIPPath} {
		if *p, err = homedir.Expand(*p); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite, DriverDiskv, DriverMemory:
	case DriverPostgres:
		if c.Store.PostgresURL == "" {
			return ErrPostgresURLRequired
		}
	default:
		return ErrUnknownDriver
	}
	if len(c.AdminPassword) < 12 {
		return ErrAdminPasswordWeak
	}
	return nil
}
