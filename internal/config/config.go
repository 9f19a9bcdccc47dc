// Package config loads the musicbox settings.
//
// Values come from, in increasing precedence: built-in defaults, an optional
// YAML file, MUSICBOX_* environment variables, and command-line flags (applied
// by the caller).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/musicbox-realtime/pkg/service"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Session backends.
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MUSICBOX_"

// Config is the full runtime configuration.
type Config struct {
	WSAddr          string         `mapstructure:"ws_addr"`
	HealthAddr      string         `mapstructure:"health_addr"`
	MetricsAddr     string         `mapstructure:"metrics_addr"`
	MaxMessageBytes int64          `mapstructure:"max_message_bytes"`
	LogFormat       string         `mapstructure:"log_format"`
	LogLevel        string         `mapstructure:"log_level"`
	Sessions        SessionsConfig `mapstructure:"sessions"`
}

// SessionsConfig selects where presence records are kept.
type SessionsConfig struct {
	Backend string      `mapstructure:"backend"`
	Redis   RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the Redis session backend.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	svc := service.DefaultConfig()
	return Config{
		WSAddr:          svc.WSAddr,
		HealthAddr:      svc.HealthAddr,
		MetricsAddr:     svc.MetricsAddr,
		MaxMessageBytes: svc.MaxMessageBytes,
		LogFormat:       "text",
		LogLevel:        "info",
		Sessions: SessionsConfig{
			Backend: BackendNone,
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "musicbox:session:",
			},
		},
	}
}

// envKeys maps environment variables to nested config keys.
var envKeys = map[string][]string{
	"WS_ADDR":                 {"ws_addr"},
	"HEALTH_ADDR":             {"health_addr"},
	"METRICS_ADDR":            {"metrics_addr"},
	"MAX_MESSAGE_BYTES":       {"max_message_bytes"},
	"LOG_FORMAT":              {"log_format"},
	"LOG_LEVEL":               {"log_level"},
	"SESSIONS_BACKEND":        {"sessions", "backend"},
	"SESSIONS_REDIS_ADDR":     {"sessions", "redis", "addr"},
	"SESSIONS_REDIS_PASSWORD": {"sessions", "redis", "password"},
	"SESSIONS_REDIS_DB":       {"sessions", "redis", "db"},
	"SESSIONS_REDIS_PREFIX":   {"sessions", "redis", "prefix"},
	"SESSIONS_REDIS_TTL":      {"sessions", "redis", "ttl"},
}

// Load builds a Config from defaults, the YAML file at path (skipped when
// empty) and the environment as seen through lookup (os.LookupEnv when nil).
func Load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config: %w", err)
		}
		var values map[string]any
		if err := yaml.Unmarshal(raw, &values); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if err := decode(values, &cfg); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	if lookup == nil {
		lookup = os.LookupEnv
	}
	if err := decode(envValues(lookup), &cfg); err != nil {
		return cfg, fmt.Errorf("invalid environment: %w", err)
	}

	cfg.Normalize()
	return cfg, cfg.Validate()
}

func envValues(lookup func(string) (string, bool)) map[string]any {
	values := map[string]any{}
	for name, keys := range envKeys {
		v, ok := lookup(EnvPrefix + name)
		if !ok {
			continue
		}
		node := values
		for _, k := range keys[:len(keys)-1] {
			child, ok := node[k].(map[string]any)
			if !ok {
				child = map[string]any{}
				node[k] = child
			}
			node = child
		}
		node[keys[len(keys)-1]] = v
	}
	return values
}

func decode(values map[string]any, cfg *Config) error {
	if len(values) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	return dec.Decode(values)
}

// Normalize turns bare ports ("8080") into listen addresses (":8080").
func (c *Config) Normalize() {
	c.WSAddr = normalizeAddr(c.WSAddr)
	c.HealthAddr = normalizeAddr(c.HealthAddr)
	c.MetricsAddr = normalizeAddr(c.MetricsAddr)
	c.Sessions.Backend = strings.ToLower(strings.TrimSpace(c.Sessions.Backend))
}

func normalizeAddr(addr string) string {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return ""
	}
	if _, err := strconv.Atoi(addr); err == nil {
		return ":" + addr
	}
	return addr
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.WSAddr == "" {
		return fmt.Errorf("ws_addr is required")
	}
	if c.HealthAddr == "" {
		return fmt.Errorf("health_addr is required")
	}
	if c.WSAddr == c.HealthAddr {
		return fmt.Errorf("ws_addr and health_addr must differ (both %s)", c.WSAddr)
	}
	if c.MaxMessageBytes <= 0 {
		return fmt.Errorf("max_message_bytes must be positive, got %d", c.MaxMessageBytes)
	}
	switch c.Sessions.Backend {
	case BackendNone, BackendMemory:
	case BackendRedis:
		if c.Sessions.Redis.Addr == "" {
			return fmt.Errorf("sessions.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown sessions.backend %q", c.Sessions.Backend)
	}
	return nil
}

// Service returns the listener settings.
func (c Config) Service() service.Config {
	return service.Config{
		WSAddr:          c.WSAddr,
		HealthAddr:      c.HealthAddr,
		MetricsAddr:     c.MetricsAddr,
		MaxMessageBytes: c.MaxMessageBytes,
	}
}
