// Package config provides application configuration loading.
// This is part of the platform layer and contains no business logic.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// AdminConfig provides the shared key gating admin routes.
type AdminConfig interface {
	GetAdminAPIKey() string
}

// GeocodingConfig provides settings for the Nominatim geocoding client.
type GeocodingConfig interface {
	GetGeocodingBaseURL() string
	GetGeocodingUserAgent() string
	GetGeocodingCountryCodes() string
	GetGeocodingTimeout() time.Duration
	GetGeocodingCacheTTL() time.Duration
}

// SearchConfig provides defaults for the listing search surface.
type SearchConfig interface {
	GetSearchDefaultLimit() int
	GetSearchMaxLimit() int
	GetSearchDefaultRadiusMiles() float64
	GetDefaultLatitude() float64
	GetDefaultLongitude() float64
}

// TaxonomyConfig provides the optional category taxonomy override file.
type TaxonomyConfig interface {
	GetTaxonomyFile() string
}

// RedisConfig provides settings for Redis-backed components
// (geocode cache, asynq scheduler).
type RedisConfig interface {
	GetRedisURL() string
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                      string
	HTTPAddr                 string
	DatabaseURL              string
	CORSAllowAll             bool
	CORSOrigins              []string
	CORSAllowCreds           bool
	AdminAPIKey              string
	GeocodingBaseURL         string
	GeocodingUserAgent       string
	GeocodingCountryCodes    string
	GeocodingTimeout         time.Duration
	GeocodingCacheTTL        time.Duration
	SearchDefaultLimit       int
	SearchMaxLimit           int
	SearchDefaultRadiusMiles float64
	DefaultLatitude          float64
	DefaultLongitude         float64
	TaxonomyFile             string
	RedisURL                 string
	AsynqQueueName           string
	AsynqConcurrency         int
}

// =============================================================================
// Interface Implementations
// =============================================================================

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string { return c.DatabaseURL }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// AdminConfig implementation
func (c *Config) GetAdminAPIKey() string { return c.AdminAPIKey }

// GeocodingConfig implementation
func (c *Config) GetGeocodingBaseURL() string        { return c.GeocodingBaseURL }
func (c *Config) GetGeocodingUserAgent() string      { return c.GeocodingUserAgent }
func (c *Config) GetGeocodingCountryCodes() string   { return c.GeocodingCountryCodes }
func (c *Config) GetGeocodingTimeout() time.Duration { return c.GeocodingTimeout }
func (c *Config) GetGeocodingCacheTTL() time.Duration {
	return c.GeocodingCacheTTL
}

// SearchConfig implementation
func (c *Config) GetSearchDefaultLimit() int           { return c.SearchDefaultLimit }
func (c *Config) GetSearchMaxLimit() int               { return c.SearchMaxLimit }
func (c *Config) GetSearchDefaultRadiusMiles() float64 { return c.SearchDefaultRadiusMiles }
func (c *Config) GetDefaultLatitude() float64          { return c.DefaultLatitude }
func (c *Config) GetDefaultLongitude() float64         { return c.DefaultLongitude }

// TaxonomyConfig implementation
func (c *Config) GetTaxonomyFile() string { return c.TaxonomyFile }

// RedisConfig implementation
func (c *Config) GetRedisURL() string       { return c.RedisURL }
func (c *Config) GetAsynqQueueName() string { return c.AsynqQueueName }
func (c *Config) GetAsynqConcurrency() int  { return c.AsynqConcurrency }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                      getEnv("APP_ENV", "development"),
		HTTPAddr:                 getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:              getEnv("DATABASE_URL", ""),
		CORSAllowAll:             corsAllowAll,
		CORSOrigins:              corsOrigins,
		CORSAllowCreds:           strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "true"), "true"),
		AdminAPIKey:              getEnv("ADMIN_API_KEY", ""),
		GeocodingBaseURL:         getEnv("GEOCODING_BASE_URL", "https://nominatim.openstreetmap.org/search"),
		GeocodingUserAgent:       getEnv("GEOCODING_USER_AGENT", "StoreScout/1.0"),
		GeocodingCountryCodes:    getEnv("GEOCODING_COUNTRY_CODES", "us"),
		GeocodingTimeout:         mustDuration(getEnv("GEOCODING_TIMEOUT", "5s")),
		GeocodingCacheTTL:        mustDuration(getEnv("GEOCODING_CACHE_TTL", "24h")),
		SearchDefaultLimit:       mustInt(getEnv("SEARCH_DEFAULT_LIMIT", "10")),
		SearchMaxLimit:           mustInt(getEnv("SEARCH_MAX_LIMIT", "100")),
		SearchDefaultRadiusMiles: mustFloat(getEnv("SEARCH_DEFAULT_RADIUS_MILES", "25")),
		DefaultLatitude:          mustFloat(getEnv("DEFAULT_LATITUDE", "0")),
		DefaultLongitude:         mustFloat(getEnv("DEFAULT_LONGITUDE", "0")),
		TaxonomyFile:             getEnv("TAXONOMY_FILE", ""),
		RedisURL:                 getEnv("REDIS_URL", ""),
		AsynqQueueName:           getEnv("ASYNQ_QUEUE", "default"),
		AsynqConcurrency:         mustInt(getEnv("ASYNQ_CONCURRENCY", "10")),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.AdminAPIKey == "" && !strings.EqualFold(cfg.Env, "development") {
		return nil, fmt.Errorf("ADMIN_API_KEY is required outside development")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.SearchDefaultLimit < 1 || cfg.SearchMaxLimit < cfg.SearchDefaultLimit {
		return nil, fmt.Errorf("invalid search limit configuration")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
