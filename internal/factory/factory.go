package factory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/moonpull/moonpull-web/internal/config"
	"github.com/moonpull/moonpull-web/internal/dependencies/clock"
	"github.com/moonpull/moonpull-web/internal/model"
	"github.com/moonpull/moonpull-web/internal/services/auth"
	"github.com/moonpull/moonpull-web/internal/storage"
	"github.com/moonpull/moonpull-web/internal/storage/memory"
	redisstorage "github.com/moonpull/moonpull-web/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = config.StorageMemory
	StorageTypeRedis  = config.StorageRedis
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	AuthService *auth.Service

	logger *slog.Logger
	closer io.Closer
}

// Config holds configuration for the application factory
type Config struct {
	// AuthConfig holds configuration for the auth service (optional)
	// If zero value, defaults to auth.DefaultConfig()
	AuthConfig auth.Config
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// ConfigFrom translates the server configuration into factory settings
func ConfigFrom(cfg config.Config, logger *slog.Logger) Config {
	fc := Config{
		AuthConfig:  auth.Config{SessionDuration: cfg.Auth.SessionDuration},
		Logger:      logger,
		StorageType: cfg.Storage.Type,
	}
	if cfg.Storage.Type == config.StorageRedis {
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = cfg.Storage.RedisURL
		if cfg.Storage.PoolSize > 0 {
			redisCfg.PoolSize = cfg.Storage.PoolSize
		}
		redisCfg.SessionTTL = cfg.Auth.SessionDuration
		fc.RedisConfig = &redisCfg
	}
	return fc
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var (
		store  storage.Storage
		closer io.Closer
	)
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
		closer = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	authCfg := cfg.AuthConfig
	if authCfg.SessionDuration == 0 {
		authCfg = auth.DefaultConfig()
	}

	app := newWithDependencies(store, clock.New(), authCfg, logger)
	app.closer = closer
	return app, nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, authCfg auth.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return &App{
		Storage:     store,
		Clock:       clk,
		AuthService: auth.New(store, clk, authCfg, logger),
		logger:      logger,
	}
}

// SeedAdmin grants ROLE_ADMIN to loginID. A login id that has not joined
// yet is logged and skipped so the server can still start.
func (a *App) SeedAdmin(ctx context.Context, loginID string) error {
	if loginID == "" {
		return nil
	}
	err := a.AuthService.GrantRole(ctx, loginID, model.RoleAdmin)
	if errors.Is(err, model.ErrMemberNotFound) {
		a.logger.Warn("admin login id has not joined yet", slog.String("login_id", loginID))
		return nil
	}
	return err
}

// SweepSessions removes expired sessions every interval until ctx is done
func (a *App) SweepSessions(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := a.AuthService.CleanExpiredSessions(ctx)
			if err != nil {
				a.logger.Warn("session sweep failed", slog.String("error", err.Error()))
				continue
			}
			if removed > 0 {
				a.logger.Info("expired sessions removed", slog.Int("count", removed))
			}
		}
	}
}

// Close releases the storage connection, if any
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	if err := a.closer.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}
	return nil
}
