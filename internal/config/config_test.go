package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "/api", cfg.APIPrefix)
	assert.Equal(t, DriverMongo, cfg.StorageDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 40, cfg.RateLimitMax)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Empty(t, cfg.RabbitMQURL)
	assert.False(t, cfg.SeedOnStart)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("APP_PORT", "9000")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("DATABASE_DSN", "file:catalog.db")
	t.Setenv("TOKEN_TTL", "0")
	t.Setenv("RATE_LIMIT_MAX", "5")
	t.Setenv("RATE_LIMIT_WINDOW", "10s")
	t.Setenv("SEED_ON_START", "true")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.AppPort)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
	assert.Equal(t, "file:catalog.db", cfg.DatabaseDSN)
	assert.Zero(t, cfg.TokenTTL)
	assert.Equal(t, 5, cfg.RateLimitMax)
	assert.Equal(t, 10*time.Second, cfg.RateLimitWindow)
	assert.True(t, cfg.SeedOnStart)
}

func TestLoad_RequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.EqualError(t, err, "JWT_SECRET is required")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			JWTSecret:       "s",
			StorageDriver:   DriverMemory,
			RateLimitMax:    1,
			RateLimitWindow: time.Second,
		}
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"memory driver", func(*Config) {}, ""},
		{"unknown driver", func(c *Config) { c.StorageDriver = "redis" }, `unknown STORAGE_DRIVER "redis"`},
		{"postgres without dsn", func(c *Config) { c.StorageDriver = DriverPostgres }, "DATABASE_DSN is required for the postgres driver"},
		{"negative ttl", func(c *Config) { c.TokenTTL = -time.Second }, "TOKEN_TTL must not be negative, got -1s"},
		{"zero rate limit", func(c *Config) { c.RateLimitMax = 0 }, "RATE_LIMIT_MAX must be positive, got 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.EqualError(t, err, tt.errMsg)
			}
		})
	}
}
