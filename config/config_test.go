package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// unsetEnv clears key for the test and restores it afterwards.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_ExampleFile(t *testing.T) {
	cfg, err := Load("config.example.yaml")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "Europe/Oslo", cfg.Server.Timezone)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
	assert.False(t, cfg.Push.Enabled())
	assert.Equal(t, 2, cfg.WorkerPool.Size)
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, "config.yaml", "database:\n  driver: postgres\n  dsn: host=db\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Server.RateLimitPerSec)
	assert.Equal(t, 5, cfg.Server.RateLimitBurst)
	assert.Equal(t, 30*time.Second, cfg.Server.CacheTTL())
	assert.Equal(t, "host=db", cfg.Database.DSN)
	assert.Equal(t, "laundry-booking", cfg.Auth.Issuer)
	assert.Equal(t, 3600, cfg.Push.TTL)
	assert.Equal(t, 1, cfg.WorkerPool.Size)
	assert.Equal(t, 64, cfg.WorkerPool.QueueSize)

	def := Default()
	assert.Equal(t, "laundry.db", def.Database.DSN)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "bad.yaml", "server: [not, a, map"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	for _, key := range []string{"LAUNDRY_JWT_SECRET", "LAUNDRY_DATABASE_DRIVER", "LAUNDRY_DATABASE_DSN", "LAUNDRY_VAPID_PUBLIC_KEY", "LAUNDRY_VAPID_PRIVATE_KEY"} {
		unsetEnv(t, key)
	}
	secret := strings.Repeat("s", 40)
	envFile := writeFile(t, ".env", "LAUNDRY_JWT_SECRET="+secret+"\nLAUNDRY_VAPID_PUBLIC_KEY=pub\nLAUNDRY_VAPID_PRIVATE_KEY=priv\n")
	t.Setenv("LAUNDRY_SERVER_PORT", "9090")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, envFile))

	assert.Equal(t, secret, cfg.Auth.JWTSecret)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Push.Enabled())
	assert.NoError(t, cfg.Validate())

	t.Run("missing env file is fine", func(t *testing.T) {
		assert.NoError(t, ApplyEnv(Default(), filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("LAUNDRY_SERVER_PORT", "eighty")
		assert.Error(t, ApplyEnv(Default(), filepath.Join(t.TempDir(), ".env")))
	})
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Auth.JWTSecret = strings.Repeat("x", minSecretLength)
		return cfg
	}

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"short secret", func(c *Config) { c.Auth.JWTSecret = "short" }, "jwt_secret"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, "unsupported"},
		{"empty dsn", func(c *Config) { c.Database.DSN = "" }, "dsn"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestServerConfig_Location(t *testing.T) {
	assert.Equal(t, time.Local, ServerConfig{}.Location())
	assert.Equal(t, time.Local, ServerConfig{Timezone: "Mars/Olympus"}.Location())
	assert.Equal(t, "Europe/Oslo", ServerConfig{Timezone: "Europe/Oslo"}.Location().String())
}
