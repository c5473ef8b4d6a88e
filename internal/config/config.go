// Package config loads application configuration from YAML files and
// environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix prefixes environment overrides. Sections are separated with a
// double underscore so key names may themselves contain underscores,
// e.g. DESKROUTE_JWT__SECRET_KEY maps to jwt.secret_key.
const envPrefix = "DESKROUTE_"

// Config is the process-wide configuration, loaded once at startup.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Log       LogConfig       `koanf:"log"`
	Mongo     MongoConfig     `koanf:"mongo"`
	JWT       JWTConfig       `koanf:"jwt"`
	Password  PasswordConfig  `koanf:"password"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              string        `koanf:"port"`
	MetricsPort       string        `koanf:"metrics_port"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MongoConfig contains document store settings.
type MongoConfig struct {
	URI             string        `koanf:"uri"`
	Database        string        `koanf:"database"`
	ConnectTimeout  time.Duration `koanf:"connect_timeout"`
	ConnectAttempts int           `koanf:"connect_attempts"`
}

// JWTConfig contains token issuance settings.
type JWTConfig struct {
	SecretKey string        `koanf:"secret_key"`
	TokenTTL  time.Duration `koanf:"token_ttl"`
}

// PasswordConfig contains password hashing settings.
type PasswordConfig struct {
	BcryptCost int `koanf:"bcrypt_cost"`
}

// CORSConfig contains CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// RateLimitConfig contains auth endpoint rate limiting settings.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// Default returns the configuration defaults. The JWT secret has no default
// and must be provided.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              "8080",
			MetricsPort:       "9090",
			ReadTimeout:       10 * time.Second,
			ReadHeaderTimeout: 5 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Mongo: MongoConfig{
			URI:             "mongodb://localhost:27017",
			Database:        "deskroute",
			ConnectTimeout:  30 * time.Second,
			ConnectAttempts: 5,
		},
		JWT: JWTConfig{
			TokenTTL: 24 * time.Hour,
		},
		Password: PasswordConfig{
			BcryptCost: 12,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			RPS:     5,
			Burst:   10,
		},
	}
}

// Load reads configuration from an optional YAML file at path, then applies
// DESKROUTE_* environment overrides on top of the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	if c.JWT.SecretKey == "" {
		return errors.New("config: jwt.secret_key is required")
	}
	if c.JWT.TokenTTL <= 0 {
		return errors.New("config: jwt.token_ttl must be positive")
	}
	if c.Mongo.URI == "" {
		return errors.New("config: mongo.uri is required")
	}
	return nil
}
