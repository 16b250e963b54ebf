// Package bootstrap wires the process-wide dependencies shared by the
// server and the command-line tools.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"scribe/internal/config"
	"scribe/internal/database"
	"scribe/internal/middleware"
	"scribe/internal/models"
	"scribe/internal/redisconn"
	"scribe/internal/repository"
	"scribe/internal/seed"
	"scribe/internal/service"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Options control runtime initialization behavior.
type Options struct {
	// SkipRedis leaves Redis disconnected, for tools that never rate limit.
	SkipRedis bool
	// Seed, when non-nil, runs a seed after the development account exists.
	Seed *seed.Options
}

// Runtime holds the connections a process needs.
type Runtime struct {
	DB    *gorm.DB
	Redis *redis.Client
}

// InitRuntime connects to the database and Redis, ensures the development
// account and optionally seeds sample data. Redis may be nil afterwards.
func InitRuntime(ctx context.Context, cfg *config.Config, opts Options) (*Runtime, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	rt := &Runtime{DB: db}

	if !opts.SkipRedis {
		rt.Redis = redisconn.Connect(ctx, cfg.RedisURL)
	}

	if err := EnsureDevAccount(ctx, cfg, db); err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to bootstrap development account: %w", err)
	}

	if opts.Seed != nil {
		if _, err := seed.Seed(db, *opts.Seed); err != nil {
			rt.Close()
			return nil, fmt.Errorf("failed to seed: %w", err)
		}
	}

	return rt, nil
}

// Close releases both connections, logging rather than returning failures.
func (rt *Runtime) Close() {
	if rt.DB != nil {
		if err := database.Close(rt.DB); err != nil {
			middleware.Logger.Error("error closing database", slog.String("error", err.Error()))
		}
	}
	if rt.Redis != nil {
		if err := rt.Redis.Close(); err != nil {
			middleware.Logger.Error("error closing redis", slog.String("error", err.Error()))
		}
	}
}

// EnsureDevAccount registers the configured development account when it
// does not exist yet. Outside development, or without both values set, it
// does nothing. An existing account keeps its current password.
func EnsureDevAccount(ctx context.Context, cfg *config.Config, db *gorm.DB) error {
	if cfg == nil || db == nil || !strings.EqualFold(cfg.Env, "development") {
		return nil
	}
	username := strings.TrimSpace(cfg.DevAccountUsername)
	if username == "" {
		return nil
	}
	if cfg.DevAccountPassword == "" {
		return fmt.Errorf("DEV_ACCOUNT_PASSWORD must be set when DEV_ACCOUNT_USERNAME is")
	}

	store := service.NewCredentialStore(repository.NewAccountRepository(db), service.NewBcryptHasher(cfg.BcryptCost))
	account, err := store.Register(ctx, username, cfg.DevAccountPassword)
	switch {
	case models.HasCode(err, models.CodeDuplicateUsername):
		middleware.Logger.Info("development account already present", slog.String("username", username))
		return nil
	case err != nil:
		return err
	}

	middleware.Logger.Info("development account created",
		slog.String("username", account.Username),
		slog.Uint64("account_id", uint64(account.ID)),
	)
	return nil
}
