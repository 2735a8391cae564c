package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const devSecret = "dev-secret-change-in-production"

var (
	ErrInsecureSecret = errors.New("JWT_SECRET must be set to a value of at least 32 bytes in production")
	ErrInvalidTTL     = errors.New("token TTLs must be positive")
	ErrInvalidStorage = errors.New("STORAGE must be mysql or memory")
	ErrInvalidLimit   = errors.New("RATE_LIMIT_RPS must not be negative and RATE_LIMIT_BURST must be positive")
)

const (
	StorageMySQL  = "mysql"
	StorageMemory = "memory"
)

// Config holds the process configuration. It is loaded once at startup and
// treated as read-only afterwards.
type Config struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	Env             string        `env:"ENV" envDefault:"development"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	Storage         string        `env:"STORAGE" envDefault:"mysql"`
	DatabaseDSN     string        `env:"DATABASE_DSN" envDefault:"root:password@tcp(127.0.0.1:3306)/taskmanager?parseTime=true"`
	RunMigrations   bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	JWTSecret       string        `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	JWTIssuer       string        `env:"JWT_ISSUER" envDefault:"taskmanager"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	RedisURL        string        `env:"REDIS_URL"`
	RateLimitRPS    float64       `env:"RATE_LIMIT_RPS" envDefault:"5"`
	RateLimitBurst  int           `env:"RATE_LIMIT_BURST" envDefault:"10"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks invariants that env parsing cannot express.
func (c Config) Validate() error {
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return ErrInvalidTTL
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst <= 0 {
		return ErrInvalidLimit
	}
	if c.Storage != StorageMySQL && c.Storage != StorageMemory {
		return ErrInvalidStorage
	}
	if c.IsProduction() && (c.JWTSecret == devSecret || len(c.JWTSecret) < 32) {
		return ErrInsecureSecret
	}
	return nil
}

// IsProduction reports whether the service runs in the production environment.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// NewLogger builds the process logger: JSON in production, text elsewhere.
func NewLogger(c Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(c.LogLevel)}
	if c.IsProduction() {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
