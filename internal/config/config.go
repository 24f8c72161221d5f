// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables and an optional .env file. It provides a centralized Config
// struct used across the application.
package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/viper"
)

const (
	// DriverPostgres and DriverSQLite name the supported database drivers.
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"

	defaultDBPassword = "changeme"
)

// Config holds all application configuration values.
type Config struct {
	// Server settings
	Host     string
	Port     string
	Env      string // "development", "production", "testing"
	LogLevel string

	// Database selection. DatabaseURL overrides the POSTGRES_* parts.
	DBDriver    string
	DatabaseURL string
	SQLitePath  string

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache) backing the category tree cache.
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	TreeCache      bool
	TreeCacheTTL   time.Duration

	// Taxonomy engine
	SlugRetries int

	// Write rate limit in ulule/limiter format, e.g. "120-M".
	RateLimit string
}

// Load reads configuration from the environment, applying defaults for
// development where appropriate. Returns an error if critical values are
// missing or malformed.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // the file is optional

	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Host:     v.GetString("APP_HOST"),
		Port:     v.GetString("APP_PORT"),
		Env:      v.GetString("APP_ENV"),
		LogLevel: v.GetString("LOG_LEVEL"),

		DBDriver:    v.GetString("DB_DRIVER"),
		DatabaseURL: v.GetString("DATABASE_URL"),
		SQLitePath:  v.GetString("SQLITE_PATH"),

		DBHost:     v.GetString("POSTGRES_HOST"),
		DBPort:     v.GetString("POSTGRES_PORT"),
		DBUser:     v.GetString("POSTGRES_USER"),
		DBPassword: v.GetString("POSTGRES_PASSWORD"),
		DBName:     v.GetString("POSTGRES_DB"),

		ValkeyHost:     v.GetString("VALKEY_HOST"),
		ValkeyPort:     v.GetString("VALKEY_PORT"),
		ValkeyPassword: v.GetString("VALKEY_PASSWORD"),
		TreeCache:      v.GetBool("TREE_CACHE"),
		TreeCacheTTL:   v.GetDuration("TREE_CACHE_TTL"),

		SlugRetries: v.GetInt("TAXONOMY_SLUG_RETRIES"),
		RateLimit:   v.GetString("RATE_LIMIT"),
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("DB_DRIVER %q is not supported (use %s or %s)", cfg.DBDriver, DriverPostgres, DriverSQLite)
	}
	if cfg.SlugRetries < 1 {
		return nil, fmt.Errorf("TAXONOMY_SLUG_RETRIES must be at least 1, got %d", cfg.SlugRetries)
	}
	if cfg.TreeCacheTTL <= 0 {
		return nil, fmt.Errorf("TREE_CACHE_TTL must be positive, got %s", cfg.TreeCacheTTL)
	}

	if cfg.Env == "production" && cfg.DBDriver == DriverPostgres && cfg.DatabaseURL == "" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("SQLITE_PATH", "taxonomy.db")

	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", "5432")
	v.SetDefault("POSTGRES_USER", "taxonomy")
	v.SetDefault("POSTGRES_PASSWORD", defaultDBPassword)
	v.SetDefault("POSTGRES_DB", "taxonomy")

	v.SetDefault("VALKEY_HOST", "localhost")
	v.SetDefault("VALKEY_PORT", "6379")
	v.SetDefault("TREE_CACHE", true)
	v.SetDefault("TREE_CACHE_TTL", "10m")

	v.SetDefault("TAXONOMY_SLUG_RETRIES", 3)
	v.SetDefault("RATE_LIMIT", "120-M")
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.DBDriver == DriverSQLite {
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", c.SQLitePath)
	}
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
