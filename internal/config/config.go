package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `mapstructure:"ENV"`
	DBDSN       string `mapstructure:"DB_DSN"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	RedisURL    string `mapstructure:"REDIS_URL"`

	JWTSecret string        `mapstructure:"JWT_SECRET"`
	JWTIssuer string        `mapstructure:"JWT_ISSUER"`
	TokenTTL  time.Duration `mapstructure:"TOKEN_TTL"`

	MigrationsEnabled   bool     `mapstructure:"MIGRATIONS_ENABLED"`
	MetricsSnapshotSpec string   `mapstructure:"METRICS_SNAPSHOT_SPEC"`
	CORSAllowedOrigins  []string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	// LoadedEnvFile reports whether a .env file was found
	LoadedEnvFile bool `mapstructure:"-"`
}

// Load reads .env when present, then the process environment
func Load() (*Config, error) {
	loaded := godotenv.Load(".env") == nil
	return FromEnv(os.Getenv, loaded)
}

// FromEnv builds the config from a lookup function
func FromEnv(getenv func(string) string, loadedEnvFile bool) (*Config, error) {
	cfg := &Config{
		Environment:         getenv("ENV"),
		DBDSN:               getenv("DB_DSN"),
		HTTPAddr:            getenv("HTTP_ADDR"),
		RedisURL:            getenv("REDIS_URL"),
		JWTSecret:           getenv("JWT_SECRET"),
		JWTIssuer:           getenv("JWT_ISSUER"),
		MetricsSnapshotSpec: getenv("METRICS_SNAPSHOT_SPEC"),
		MigrationsEnabled:   true,
		TokenTTL:            24 * time.Hour,
		LoadedEnvFile:       loadedEnvFile,
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.RedisURL == "" {
		cfg.RedisURL = "redis://localhost:6379/0"
	}
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "hostelhub"
	}
	if cfg.MetricsSnapshotSpec == "" {
		cfg.MetricsSnapshotSpec = "@hourly"
	}

	if v := getenv("MIGRATIONS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("MIGRATIONS_ENABLED: %w", err)
		}
		cfg.MigrationsEnabled = enabled
	}

	if v := getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}

	for _, origin := range strings.Split(getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, origin)
		}
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	return cfg, nil
}
