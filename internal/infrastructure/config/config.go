// Package config loads the portal configuration from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Session storage backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

type Config struct {
	Port      string `env:"PORT,       default=3000"`
	Env       string `env:"ENV,        default=development"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=true"`

	API      APIConfig
	Session  SessionConfig
	Redis    RedisConfig
	Mongo    MongoConfig
	Dispatch DispatchConfig
}

// APIConfig describes the remote backend every operation talks to.
type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL,   default=http://localhost:8000"`
	Timeout   time.Duration `env:"API_TIMEOUT,    default=30s"`
	RateLimit float64       `env:"API_RATE_LIMIT, default=0"`
	RateBurst int           `env:"API_RATE_BURST, default=5"`
}

type SessionConfig struct {
	Backend string `env:"SESSION_BACKEND, default=file"`
	File    string `env:"SESSION_FILE,    default=.portal-session.json"`
	// Secret seals the session file when set. Ignored by the other backends.
	Secret string `env:"SESSION_SECRET"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=portal:session"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=email_portal"`
}

type DispatchConfig struct {
	Workers int `env:"DISPATCH_WORKERS, default=4"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: load .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes the configuration from an arbitrary lookuper. Tests use
// envconfig.MapLookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the portal cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: API_BASE_URL must be an absolute URL, got %q", c.API.BaseURL)
	}
	switch c.Session.Backend {
	case BackendFile, BackendRedis, BackendMongo:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.API.RateLimit < 0 {
		return fmt.Errorf("config: API_RATE_LIMIT must not be negative")
	}
	return nil
}
