// Package config loads service configuration.
//
// Precedence (highest first): QUALITYDESK_* environment variables, the
// optional YAML file, then defaults. Environment keys split on the first
// underscore after the prefix:
//
//	QUALITYDESK_SERVER_ADDR         -> server.addr
//	QUALITYDESK_STORE_POSTGRES_DSN  -> store.postgres_dsn
//	QUALITYDESK_AUDIT_KAFKA_BROKERS -> audit.kafka_brokers (comma separated)
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "QUALITYDESK_"

// Store backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds the complete service configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Auth   AuthConfig   `koanf:"auth"`
	Store  StoreConfig  `koanf:"store"`
	Redis  RedisConfig  `koanf:"redis"`
	Audit  AuditConfig  `koanf:"audit"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig captures HTTP server level configuration.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// AuthConfig configures bearer token validation.
type AuthConfig struct {
	JWTSigningKey string `koanf:"jwt_signing_key"`
	Issuer        string `koanf:"issuer"`
	Audience      string `koanf:"audience"`
}

// StoreConfig selects where edit sessions live.
type StoreConfig struct {
	Backend     string        `koanf:"backend"`
	PostgresDSN string        `koanf:"postgres_dsn"`
	SessionTTL  time.Duration `koanf:"session_ttl"`
	TxTimeout   time.Duration `koanf:"tx_timeout"`
}

// RedisConfig configures the shared Redis client.
type RedisConfig struct {
	URL          string        `koanf:"url"`
	PoolSize     int           `koanf:"pool_size"`
	MinIdleConns int           `koanf:"min_idle_conns"`
	DialTimeout  time.Duration `koanf:"dial_timeout"`
	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
}

// AuditConfig configures the audit sink. Without brokers events stay in memory.
type AuditConfig struct {
	KafkaBrokers []string `koanf:"kafka_brokers"`
	KafkaTopic   string   `koanf:"kafka_topic"`
	BufferSize   int      `koanf:"buffer_size"`
	// MemoryCapacity bounds the events kept in process, as sink or fallback.
	MemoryCapacity int `koanf:"memory_capacity"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Load reads path (optional, may be empty or missing) and the environment.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		content, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue(envPrefix, ".", envKeyValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps QUALITYDESK_SECTION_FIELD_NAME to section.field_name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	section, field, ok := strings.Cut(lower, "_")
	if !ok {
		return lower
	}
	return section + "." + field
}

// listKeys hold comma separated values in the environment.
var listKeys = map[string]bool{
	"audit.kafka_brokers": true,
}

func envKeyValue(key, value string) (string, any) {
	key = envKey(key)
	if listKeys[key] {
		return key, strings.Split(value, ",")
	}
	return key, value
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Auth.JWTSigningKey == "" {
		// Development default; production sets QUALITYDESK_AUTH_JWT_SIGNING_KEY.
		cfg.Auth.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "qualitydesk"
	}
	if cfg.Auth.Audience == "" {
		cfg.Auth.Audience = "qualitydesk-dashboard"
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = BackendMemory
	}
	if cfg.Store.TxTimeout == 0 {
		cfg.Store.TxTimeout = 5 * time.Second
	}

	if cfg.Redis.PoolSize == 0 {
		cfg.Redis.PoolSize = 10
	}
	if cfg.Redis.DialTimeout == 0 {
		cfg.Redis.DialTimeout = 5 * time.Second
	}
	if cfg.Redis.ReadTimeout == 0 {
		cfg.Redis.ReadTimeout = 3 * time.Second
	}
	if cfg.Redis.WriteTimeout == 0 {
		cfg.Redis.WriteTimeout = 3 * time.Second
	}

	if cfg.Audit.KafkaTopic == "" {
		cfg.Audit.KafkaTopic = "qualitydesk.edits.audit"
	}
	if cfg.Audit.BufferSize == 0 {
		cfg.Audit.BufferSize = 1024
	}
	if cfg.Audit.MemoryCapacity == 0 {
		cfg.Audit.MemoryCapacity = 10_000
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Store.PostgresDSN == "" {
			return errors.New("store.postgres_dsn is required for the postgres backend")
		}
	case BackendRedis:
		if c.Redis.URL == "" {
			return errors.New("redis.url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Audit.MemoryCapacity < 0 {
		return errors.New("audit.memory_capacity must not be negative")
	}
	if c.Store.SessionTTL < 0 {
		return errors.New("store.session_ttl must not be negative")
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}
