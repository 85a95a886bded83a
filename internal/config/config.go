// Package config loads the server configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"auth_backend/internal/platform/db"
	"auth_backend/internal/platform/redis"
)

// ErrMissingSecret is returned when neither JWT_TOKEN nor JWT_SECRET is set.
var ErrMissingSecret = errors.New("JWT_TOKEN (or JWT_SECRET) must be set")

// Config is the full server configuration.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	JWTToken      string        `env:"JWT_TOKEN"`
	JWTSecret     string        `env:"JWT_SECRET"`
	GinMode       string        `env:"GIN_MODE" envDefault:"release"`
	RunMigrations bool          `env:"RUN_MIGRATIONS" envDefault:"false"`
	UserCacheTTL  time.Duration `env:"USER_CACHE_TTL" envDefault:"5m"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat     string        `env:"LOG_FORMAT" envDefault:"json"`

	DB    db.Config
	Redis redis.Config
}

// Secret returns the token signing secret. JWT_TOKEN wins over JWT_SECRET.
func (c Config) Secret() string {
	if c.JWTToken != "" {
		return c.JWTToken
	}
	return c.JWTSecret
}

// Addr returns the HTTP listen address.
func (c Config) Addr() string {
	return ":" + c.Port
}

// RedisEnabled reports whether a Redis host is configured.
func (c Config) RedisEnabled() bool {
	return c.Redis.Host != ""
}

// Validate checks settings that have no usable default.
func (c Config) Validate() error {
	if c.Secret() == "" {
		return ErrMissingSecret
	}
	switch c.DB.Driver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("%w: %q", db.ErrUnsupportedDriver, c.DB.Driver)
	}
	return nil
}

// Load reads the given .env files (".env" when none are given) and parses the
// environment. Missing .env files are ignored; variables already set in the
// environment take precedence over file values.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
