package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars"

func TestLoad(t *testing.T) {
	envKeys := []string{
		"VELO_APP_NAME",
		"VELO_APP_ENVIRONMENT",
		"VELO_HTTP_PORT",
		"VELO_DATABASE_HOST",
		"VELO_DATABASE_PORT",
		"VELO_DATABASE_USER",
		"VELO_DATABASE_PASSWORD",
		"VELO_DATABASE_NAME",
		"VELO_DATABASE_SSL_MODE",
		"VELO_JWT_SECRET",
		"VELO_JWT_ACCESS_TOKEN_EXPIRATION",
		"VELO_JWT_REFRESH_TOKEN_EXPIRATION",
		"VELO_LOG_LEVEL",
	}

	originalEnv := make(map[string]string, len(envKeys))
	for _, k := range envKeys {
		originalEnv[k] = os.Getenv(k)
	}
	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for _, k := range envKeys {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()
		os.Setenv("VELO_JWT_SECRET", testSecret)

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "velocore", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Environment)
		assert.Equal(t, 8080, cfg.HTTP.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "velocore", cfg.Database.User)
		assert.Equal(t, "velocore", cfg.Database.Name)
		assert.Equal(t, "disable", cfg.Database.SSLMode)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 5, cfg.Database.MaxIdleConns)
		assert.Equal(t, 15*time.Minute, cfg.JWT.AccessTokenExpiration)
		assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshTokenExpiration)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
		assert.False(t, cfg.IsProduction())
	})

	t.Run("loads values from environment variables", func(t *testing.T) {
		clearEnv()
		os.Setenv("VELO_JWT_SECRET", testSecret)
		os.Setenv("VELO_APP_NAME", "velocore-test")
		os.Setenv("VELO_APP_ENVIRONMENT", "production")
		os.Setenv("VELO_HTTP_PORT", "9000")
		os.Setenv("VELO_DATABASE_HOST", "testdb.local")
		os.Setenv("VELO_DATABASE_PORT", "5433")
		os.Setenv("VELO_DATABASE_USER", "testuser")
		os.Setenv("VELO_DATABASE_PASSWORD", "testpass")
		os.Setenv("VELO_DATABASE_NAME", "testdb")
		os.Setenv("VELO_DATABASE_SSL_MODE", "require")
		os.Setenv("VELO_LOG_LEVEL", "debug")

		cfg, err := Load(t.TempDir())
		require.NoError(t, err)

		assert.Equal(t, "velocore-test", cfg.App.Name)
		assert.Equal(t, "production", cfg.App.Environment)
		assert.Equal(t, 9000, cfg.HTTP.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "testuser", cfg.Database.User)
		assert.Equal(t, "testpass", cfg.Database.Password)
		assert.Equal(t, "testdb", cfg.Database.Name)
		assert.Equal(t, "require", cfg.Database.SSLMode)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.IsProduction())
	})

	t.Run("loads values from config file", func(t *testing.T) {
		clearEnv()

		dir := t.TempDir()
		content := `
[app]
name = "velocore-file"
environment = "staging"

[http]
port = 8181

[jwt]
secret = "file-secret-key-at-least-32-chars!"
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0o644))

		cfg, err := Load(dir)
		require.NoError(t, err)

		assert.Equal(t, "velocore-file", cfg.App.Name)
		assert.Equal(t, "staging", cfg.App.Environment)
		assert.Equal(t, 8181, cfg.HTTP.Port)
	})

	t.Run("fails without jwt secret", func(t *testing.T) {
		clearEnv()

		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required")
	})

	t.Run("fails with short jwt secret", func(t *testing.T) {
		clearEnv()
		os.Setenv("VELO_JWT_SECRET", "too-short")

		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("fails when access token outlives refresh token", func(t *testing.T) {
		clearEnv()
		os.Setenv("VELO_JWT_SECRET", testSecret)
		os.Setenv("VELO_JWT_ACCESS_TOKEN_EXPIRATION", "48h")
		os.Setenv("VELO_JWT_REFRESH_TOKEN_EXPIRATION", "24h")

		_, err := Load(t.TempDir())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access_token_expiration")
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.local",
		Port:     5432,
		User:     "velo",
		Password: "secret",
		Name:     "velocore",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()

	assert.Equal(t, "host=db.local port=5432 user=velo password=secret dbname=velocore sslmode=disable", dsn)
}

func TestHTTPConfig_Addr(t *testing.T) {
	cfg := HTTPConfig{Host: "0.0.0.0", Port: 8080}
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache.local", Port: 6379}
	assert.Equal(t, "cache.local:6379", cfg.Addr())
}
