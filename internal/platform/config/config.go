// Package config loads application configuration from environment variables.
// All variables use the CIVICA_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Store drivers.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Cache       CacheConfig
	Log         LogConfig
	ContentPath string // empty uses the embedded dataset
	Events      bool
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// Addr returns the host:port listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// StoreConfig selects where the progress record lives.
type StoreConfig struct {
	Driver     string
	Key        string
	SQLitePath string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Dragonfly/Redis connection settings.
type CacheConfig struct {
	URL string
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with CIVICA_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("CIVICA_SERVER_PORT", 8080),
			Host: envStr("CIVICA_SERVER_HOST", "0.0.0.0"),
		},
		Store: StoreConfig{
			Driver:     strings.ToLower(envStr("CIVICA_STORE_DRIVER", DriverSQLite)),
			Key:        envStr("CIVICA_STORE_KEY", "civica_scores"),
			SQLitePath: envStr("CIVICA_SQLITE_PATH", "./civica.db"),
		},
		Database: DatabaseConfig{
			URL:      envStr("CIVICA_DATABASE_URL", ""),
			MaxConns: envInt("CIVICA_DATABASE_MAX_CONNS", 10),
			MinConns: envInt("CIVICA_DATABASE_MIN_CONNS", 1),
		},
		Cache: CacheConfig{
			URL: envStr("CIVICA_CACHE_URL", "redis://localhost:6379"),
		},
		Log: LogConfig{
			Level:  envStr("CIVICA_LOG_LEVEL", "info"),
			Format: envStr("CIVICA_LOG_FORMAT", "json"),
		},
		ContentPath: envStr("CIVICA_CONTENT_PATH", ""),
		Events:      envBool("CIVICA_EVENTS_ENABLED", false),
	}

	return cfg, nil
}

// Validate checks that the selected store has what it needs.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Store.SQLitePath == "" {
			return fmt.Errorf("CIVICA_SQLITE_PATH is required for the sqlite store")
		}
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("CIVICA_DATABASE_URL is required for the postgres store")
		}
	case DriverRedis:
		if c.Cache.URL == "" {
			return fmt.Errorf("CIVICA_CACHE_URL is required for the redis store")
		}
	default:
		return fmt.Errorf("CIVICA_STORE_DRIVER must be one of memory, sqlite, postgres, redis; got %q", c.Store.Driver)
	}

	if c.Store.Key == "" {
		return fmt.Errorf("CIVICA_STORE_KEY must not be empty")
	}

	if c.Events && c.Database.URL == "" {
		return fmt.Errorf("CIVICA_EVENTS_ENABLED requires CIVICA_DATABASE_URL")
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("CIVICA_DATABASE_MIN_CONNS (%d) exceeds CIVICA_DATABASE_MAX_CONNS (%d)",
			c.Database.MinConns, c.Database.MaxConns)
	}

	return nil
}

// NeedsDatabase reports whether a PostgreSQL pool must be opened.
func (c *Config) NeedsDatabase() bool {
	return c.Store.Driver == DriverPostgres || c.Events
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		return strings.EqualFold(v, "true") || v == "1"
	}
	return fallback
}
