package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	emailPkg "komunitas/internal/adapters/email"
	"komunitas/internal/adapters/storage/collection"
	"komunitas/internal/adapters/storage/slot"
	"komunitas/internal/application/orchestrators"
	"komunitas/internal/cli"
	"komunitas/internal/config"
)

func main() {
	if err := cli.Execute(context.Background(), open, os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(color.Error, color.RedString("error:"), err)
		os.Exit(1)
	}
}

// open resolves the same configuration the server uses and binds the collections.
func open(configFile string) (*cli.App, func() error, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))

	store, closeStore, err := slot.Open(context.Background(), slot.OpenOptions{
		Backend:     cfg.Store.Driver,
		SQLitePath:  cfg.Store.SQLitePath,
		DiskvPath:   cfg.Store.DiskvPath,
		PostgresURL: cfg.Store.PostgresURL,
		SlowMs:      cfg.SlowQueryMs,
	})
	if err != nil {
		return nil, nil, err
	}

	notify := orchestrators.NotifyDeps{FromAddress: cfg.ResendFrom, ReplyTo: cfg.ReplyTo, OrgName: cfg.OrgName}
	if cfg.ResendKey != "" {
		notify.EmailSender = emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom, cfg.ReplyTo)
	} else {
		notify.EmailSender = emailPkg.NewNoopSender()
	}

	return &cli.App{
		Stores:     collection.NewStores(store),
		Notify:     notify,
		GenerateID: func() string { return uuid.New().String() },
		Now:        time.Now,
	}, closeStore, nil
}
