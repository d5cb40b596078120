package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"DB_DSN":     "postgres://localhost/hostels",
		"JWT_SECRET": "secret",
	}), false)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "hostelhub", cfg.JWTIssuer)
	assert.Equal(t, "@hourly", cfg.MetricsSnapshotSpec)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.MigrationsEnabled)
	assert.Empty(t, cfg.CORSAllowedOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{
		"ENV":                  "production",
		"DB_DSN":               "postgres://db/hostels",
		"JWT_SECRET":           "secret",
		"MIGRATIONS_ENABLED":   "false",
		"TOKEN_TTL":            "2h",
		"CORS_ALLOWED_ORIGINS": "https://a.example, ,https://b.example",
	}), true)
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.False(t, cfg.MigrationsEnabled)
	assert.Equal(t, 2*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.True(t, cfg.LoadedEnvFile)
}

func TestFromEnvRequired(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{"missing dsn", map[string]string{"JWT_SECRET": "s"}, "DB_DSN"},
		{"missing secret", map[string]string{"DB_DSN": "d"}, "JWT_SECRET"},
		{"bad bool", map[string]string{"DB_DSN": "d", "JWT_SECRET": "s", "MIGRATIONS_ENABLED": "maybe"}, "MIGRATIONS_ENABLED"},
		{"bad ttl", map[string]string{"DB_DSN": "d", "JWT_SECRET": "s", "TOKEN_TTL": "forever"}, "TOKEN_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromEnv(env(tt.values), false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
