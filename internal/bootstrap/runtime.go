// Package bootstrap opens the configured store and prepares it for serving.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"quill/internal/auth"
	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/repository"
	"quill/internal/repository/mongostore"
	"quill/internal/validation"
)

// OpenStore connects to the backend named by cfg.DBDriver.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("mongo connection failed: %w", err)
		}
		return mongostore.New(client, db), nil
	case config.DriverPostgres, config.DriverSQLite:
		db, err := database.Connect(cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return repository.NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
}

// InitRuntime opens the store and, in development, ensures the bootstrap
// admin account exists.
func InitRuntime(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := EnsureDevAdmin(ctx, cfg, store.Users); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to bootstrap development admin: %w", err)
	}
	return store, nil
}

// EnsureDevAdmin creates or promotes the development admin named by
// DEV_ADMIN_EMAIL. It does nothing outside development or when
// DEV_BOOTSTRAP_ADMIN is off.
func EnsureDevAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository) error {
	if cfg == nil || users == nil {
		return nil
	}
	if !strings.EqualFold(cfg.Env, "development") || !cfg.DevBootstrapAdmin {
		return nil
	}

	email := validation.NormalizeEmail(cfg.DevAdminEmail)
	if email == "" {
		email = "admin@quill.local"
	}
	name := strings.TrimSpace(cfg.DevAdminName)
	if name == "" {
		name = "Quill Admin"
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			if err := users.UpdateRole(ctx, existing.ID, models.RoleAdmin); err != nil {
				return err
			}
		}
	case models.HasCode(err, models.CodeNotFound):
		if cfg.DevAdminPassword == "" {
			return fmt.Errorf("DEV_ADMIN_PASSWORD must be set when DEV_BOOTSTRAP_ADMIN is enabled")
		}
		if err := validation.ValidatePassword(cfg.DevAdminPassword); err != nil {
			return fmt.Errorf("DEV_ADMIN_PASSWORD: %w", err)
		}
		hash, err := auth.HashPassword(cfg.DevAdminPassword)
		if err != nil {
			return fmt.Errorf("hash admin password: %w", err)
		}
		admin := &models.User{Name: name, Email: email, Password: hash, Role: models.RoleAdmin}
		if err := users.Create(ctx, admin); err != nil {
			return err
		}
	default:
		return err
	}

	middleware.Logger.Info("development admin ensured", slog.String("email", email))
	return nil
}
