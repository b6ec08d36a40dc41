// Package config loads the server configuration from defaults, an optional
// YAML file and environment overrides, in that order.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv
const (
	EnvConfigFile    = "MOONPULL_CONFIG"
	EnvAddr          = "MOONPULL_ADDR"
	EnvStorageType   = "STORAGE_TYPE"
	EnvRedisURL      = "REDIS_URL"
	EnvSecureCookies = "MOONPULL_SECURE_COOKIES"
	EnvAdminLogin    = "MOONPULL_ADMIN_LOGIN"
	EnvLogLevel      = "MOONPULL_LOG_LEVEL"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Config is the full server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Auth    AuthConfig    `yaml:"auth"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig controls the HTTP listener
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig selects and configures the storage backend
type StorageConfig struct {
	Type     string `yaml:"type"`
	RedisURL string `yaml:"redis_url"`
	PoolSize int    `yaml:"pool_size"`
}

// AuthConfig controls sessions and the session cookie
type AuthConfig struct {
	SessionDuration time.Duration `yaml:"session_duration"`
	SweepInterval   time.Duration `yaml:"sweep_interval"`
	SecureCookies   bool          `yaml:"secure_cookies"`
	// AdminLoginID, if set, is granted ROLE_ADMIN once it has joined
	AdminLoginID string `yaml:"admin_login_id"`
}

// LogConfig controls the slog handler
type LogConfig struct {
	Level string `yaml:"level"`
}

// SlogLevel converts Level for slog.HandlerOptions
func (l LogConfig) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Storage: StorageConfig{
			Type:     StorageMemory,
			PoolSize: 10,
		},
		Auth: AuthConfig{
			SessionDuration: 24 * time.Hour,
			SweepInterval:   10 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration from the process environment. The YAML
// file named by MOONPULL_CONFIG is applied first when set.
func Load() (Config, error) {
	return FromEnv(os.Getenv)
}

// FromEnv is Load with an injectable environment lookup
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Default()

	if path := getenv(EnvConfigFile); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	if v := getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := getenv(EnvStorageType); v != "" {
		cfg.Storage.Type = strings.ToLower(v)
	}
	if v := getenv(EnvRedisURL); v != "" {
		cfg.Storage.RedisURL = v
	}
	if v := getenv(EnvSecureCookies); v != "" {
		secure, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvSecureCookies, err)
		}
		cfg.Auth.SecureCookies = secure
	}
	if v := getenv(EnvAdminLogin); v != "" {
		cfg.Auth.AdminLoginID = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = strings.ToLower(v)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable
func (c Config) Validate() error {
	var errs []error

	if c.Server.Addr == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	switch c.Storage.Type {
	case StorageMemory:
	case StorageRedis:
		if c.Storage.RedisURL == "" {
			errs = append(errs, fmt.Errorf("%s required when storage type is redis", EnvRedisURL))
		}
	default:
		errs = append(errs, fmt.Errorf("invalid storage type %q: must be %q or %q", c.Storage.Type, StorageMemory, StorageRedis))
	}
	if c.Auth.SessionDuration <= 0 {
		errs = append(errs, errors.New("auth.session_duration must be positive"))
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("invalid log level %q", c.Log.Level))
	}

	return errors.Join(errs...)
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	return c.decode(data)
}

func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil {
		// An empty document leaves the defaults in place
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
