// Package app wires the workspace stores together for the CLI and the HTTP
// server.
package app

import (
	"context"
	"database/sql"

	"taskhub/internal/config"
	"taskhub/internal/db"
	"taskhub/internal/migrate"
	"taskhub/internal/notify"
	"taskhub/internal/remote"
	"taskhub/internal/storage"
	"taskhub/internal/tasks"
	"taskhub/internal/theme"
)

type App struct {
	Workspace string
	Config    *config.Config
	DB        *sql.DB
	KV        storage.Store
	Tasks     *tasks.Store
	Cache     *remote.Cache
	Theme     theme.Manager
	Notifier  notify.Notifier
}

// Open opens the workspace database, runs migrations, and builds the stores.
// A missing taskhub.yml falls back to defaults.
func Open(ctx context.Context, workspace string, notifier notify.Notifier) (*App, error) {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	cfg, err := config.LoadOptional(workspace)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		return nil, err
	}
	if err := migrate.Migrate(conn); err != nil {
		conn.Close()
		return nil, err
	}
	kv := storage.Store{DB: conn}
	taskStore := tasks.New(kv, notifier)
	taskStore.Load(ctx)
	client := remote.NewClient(cfg.API.BaseURL, cfg.Timeout())
	return &App{
		Workspace: workspace,
		Config:    cfg,
		DB:        conn,
		KV:        kv,
		Tasks:     taskStore,
		Cache:     remote.NewCache(client, notifier),
		Theme:     theme.Manager{KV: kv, Default: cfg.Theme.Default},
		Notifier:  notifier,
	}, nil
}

func (a *App) Close() error {
	return a.DB.Close()
}
