// Package app wires the store, services and session manager into one
// explicitly constructed application context.
package app

import (
	"context"
	"errors"
	"log/slog"

	"todo-web/internal/auth"
	"todo-web/internal/config"
	"todo-web/internal/store"
	"todo-web/internal/tasks"
)

type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Store    *store.Store
	Auth     *auth.Service
	Sessions *auth.Sessions
	Tasks    *tasks.Service
}

// New opens the database and builds the services. Callers must Close the App.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		return nil, errors.New("app: nil logger")
	}

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	secret, err := auth.LoadOrInitSecretKey(cfg.SecretKeyFile)
	if err != nil {
		_ = st.Close()
		return nil, err
	}
	sessions, err := auth.NewSessions(auth.SessionsConfig{
		Secret:   secret,
		Accounts: st,
		Secure:   cfg.SecureCookies,
	})
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	logger.Debug("app ready", slog.String("db", st.Path()))
	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    st,
		Auth:     auth.NewService(st),
		Sessions: sessions,
		Tasks:    tasks.NewService(st),
	}, nil
}

func (a *App) Close() error {
	if a == nil {
		return nil
	}
	return a.Store.Close()
}
