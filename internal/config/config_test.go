package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "FreshTrack Backend", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	assert.Equal(t, 24*time.Hour, cfg.Expiry.SweepInterval)
	assert.True(t, cfg.Expiry.SweepOnStart)
	assert.Equal(t, 10*time.Minute, cfg.Expiry.SweepLockTTL)
	assert.Equal(t, "Default", cfg.Expiry.DefaultRuleName)
	assert.Equal(t, 3, cfg.Expiry.DefaultRuleDays)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("EXPIRY_SWEEP_INTERVAL", "6h")
	t.Setenv("EXPIRY_DEFAULT_RULE_DAYS", "5")
	t.Setenv("REDIS_HOST", "cache.internal")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 6*time.Hour, cfg.Expiry.SweepInterval)
	assert.Equal(t, 5, cfg.Expiry.DefaultRuleDays)
	assert.Equal(t, "cache.internal:6380", cfg.GetRedisAddr())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: "8080"},
			Database: DatabaseConfig{Host: "localhost", Name: "db", User: "user"},
			Redis:    RedisConfig{Host: "localhost"},
			JWT:      JWTConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Expiry:   ExpiryConfig{SweepInterval: time.Hour, DefaultRuleDays: 3},
		}
	}

	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("short JWT secret", func(t *testing.T) {
		cfg := valid()
		cfg.JWT.Secret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing database host", func(t *testing.T) {
		cfg := valid()
		cfg.Database.Host = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("sub-minute sweep interval", func(t *testing.T) {
		cfg := valid()
		cfg.Expiry.SweepInterval = 30 * time.Second
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative default rule days", func(t *testing.T) {
		cfg := valid()
		cfg.Expiry.DefaultRuleDays = -1
		assert.Error(t, cfg.Validate())
	})
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "freshtrack_user",
			Password: "secret",
			Name:     "freshtrack_db",
			SSLMode:  "disable",
		},
	}

	assert.Equal(t,
		"host=localhost port=5432 user=freshtrack_user password=secret dbname=freshtrack_db sslmode=disable",
		cfg.GetDatabaseDSN())
}
