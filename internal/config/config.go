package config

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Store drivers
const (
	StoreDriverMemory   = "memory"
	StoreDriverPostgres = "postgres"
	StoreDriverRedis    = "redis"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Store    StoreConfig
	Database DatabaseConfig
	Redis    RedisConfig
	CORS     CORSConfig
	Tax      TaxConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	Env          string
	LogLevel     string
	DefaultActor string
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string
}

// DatabaseConfig holds PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	PoolMin  int
	PoolMax  int
}

// DSN returns the connection string for the given URL scheme
// ("postgres" for pgx, "pgx5" for golang-migrate).
func (c DatabaseConfig) DSN(scheme string) string {
	return fmt.Sprintf(
		"%s://%s:%s@%s:%s/%s?sslmode=%s",
		scheme,
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Name,
		c.SSLMode,
	)
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Addr     string
	Password string
	Prefix   string
	DB       int
}

// CORSConfig holds CORS configuration.
type CORSConfig struct {
	Origins []string
}

// TaxConfig holds the default tax settings used until overridden through the API.
type TaxConfig struct {
	TaxYear                   string
	InterestDeductibilityRate decimal.Decimal
}

// Load reads configuration from environment variables.
// It uses viper to read values and provides sensible defaults for development.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults for development
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("DEFAULT_ACTOR", "default-user")
	v.SetDefault("STORE_DRIVER", StoreDriverMemory)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "rentaltax")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_POOL_MIN", 2)
	v.SetDefault("DB_POOL_MAX", 10)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_PREFIX", "rentaltax")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000,http://localhost:3001")
	v.SetDefault("TAX_YEAR", "2025/2026")
	v.SetDefault("INTEREST_DEDUCTIBILITY_RATE", "0.80")

	// Bind environment variables
	v.AutomaticEnv()

	rate, err := decimal.NewFromString(v.GetString("INTEREST_DEDUCTIBILITY_RATE"))
	if err != nil {
		return nil, fmt.Errorf("INTEREST_DEDUCTIBILITY_RATE is not a number: %w", err)
	}

	// Build configuration
	cfg := &Config{
		Server: ServerConfig{
			Port:         v.GetString("PORT"),
			Env:          v.GetString("ENV"),
			LogLevel:     v.GetString("LOG_LEVEL"),
			DefaultActor: v.GetString("DEFAULT_ACTOR"),
		},
		Store: StoreConfig{
			Driver: strings.ToLower(v.GetString("STORE_DRIVER")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			Name:     v.GetString("DB_NAME"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			SSLMode:  v.GetString("DB_SSLMODE"),
			PoolMin:  v.GetInt("DB_POOL_MIN"),
			PoolMax:  v.GetInt("DB_POOL_MAX"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
			Prefix:   v.GetString("REDIS_PREFIX"),
		},
		CORS: CORSConfig{
			Origins: parseOrigins(v.GetString("CORS_ORIGINS")),
		},
		Tax: TaxConfig{
			TaxYear:                   v.GetString("TAX_YEAR"),
			InterestDeductibilityRate: rate,
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present and valid.
// Backend settings are only checked for the selected store driver.
func (c *Config) Validate() error {
	// Validate server config
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.Server.DefaultActor == "" {
		return fmt.Errorf("DEFAULT_ACTOR is required")
	}

	switch c.Store.Driver {
	case StoreDriverMemory:
	case StoreDriverPostgres:
		if err := c.Database.validate(); err != nil {
			return err
		}
	case StoreDriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
		if c.Redis.DB < 0 {
			return fmt.Errorf("REDIS_DB must be non-negative")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be one of %s, %s, %s",
			StoreDriverMemory, StoreDriverPostgres, StoreDriverRedis)
	}

	// Validate tax defaults
	if c.Tax.TaxYear == "" {
		return fmt.Errorf("TAX_YEAR is required")
	}
	if c.Tax.InterestDeductibilityRate.IsNegative() || c.Tax.InterestDeductibilityRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("INTEREST_DEDUCTIBILITY_RATE must be between 0 and 1")
	}

	// Validate CORS config
	if len(c.CORS.Origins) == 0 {
		return fmt.Errorf("CORS_ORIGINS is required")
	}

	return nil
}

func (c DatabaseConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("DB_HOST is required")
	}
	if c.Port == "" {
		return fmt.Errorf("DB_PORT is required")
	}
	if c.Name == "" {
		return fmt.Errorf("DB_NAME is required")
	}
	if c.User == "" {
		return fmt.Errorf("DB_USER is required")
	}
	if c.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.PoolMin < 0 {
		return fmt.Errorf("DB_POOL_MIN must be non-negative")
	}
	if c.PoolMax < 1 {
		return fmt.Errorf("DB_POOL_MAX must be at least 1")
	}
	if c.PoolMin > c.PoolMax {
		return fmt.Errorf("DB_POOL_MIN must be less than or equal to DB_POOL_MAX")
	}
	return nil
}

// parseOrigins splits a comma-separated string of origins into a slice.
func parseOrigins(origins string) []string {
	if origins == "" {
		return []string{}
	}

	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
