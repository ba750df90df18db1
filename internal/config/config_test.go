package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfigFile(t, "jwt:\n  secret: test-secret\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Mode)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "24h", cfg.JWT.TokenExpiration)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Len(t, cfg.Tenants, 2)
	assert.Equal(t, "Utah Valley University", cfg.Tenants["uvu"].Name)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: "9090"
jwt:
  secret: test-secret
  token_expiration: 1h
tenants:
  byu:
    name: Brigham Young University
    theme:
      primary_color: "#002E5D"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, time.Hour, cfg.TokenExpiration())
	assert.True(t, cfg.KnownTenant("byu"))
	assert.Equal(t, "#002E5D", cfg.Tenants["byu"].Theme.PrimaryColor)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("DB_MAX_OPEN_CONNS", "50")

	path := writeConfigFile(t, "server:\n  port: \"9090\"\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Server.Port, "environment wins over the file")
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, 50, cfg.Database.MaxOpenConns)
}

func TestLoadConfigMissingSecret(t *testing.T) {
	path := writeConfigFile(t, "server:\n  port: \"9090\"\n")

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "JWT secret is required")
}

func TestLoadConfigBadExpiration(t *testing.T) {
	path := writeConfigFile(t, "jwt:\n  secret: test-secret\n  token_expiration: soon\n")

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "token expiration")
}

func TestKnownTenant(t *testing.T) {
	cfg := &Config{Tenants: map[string]TenantConfig{"uvu": {Name: "Utah Valley University"}}}

	assert.True(t, cfg.KnownTenant("uvu"))
	assert.False(t, cfg.KnownTenant("mit"))
	assert.False(t, cfg.KnownTenant(""))
	assert.ElementsMatch(t, []string{"uvu"}, cfg.TenantIDs())
}

func TestTokenExpirationFallback(t *testing.T) {
	cfg := &Config{}
	cfg.JWT.TokenExpiration = "garbage"
	assert.Equal(t, 24*time.Hour, cfg.TokenExpiration())

	cfg.JWT.TokenExpiration = "30m"
	assert.Equal(t, 30*time.Minute, cfg.TokenExpiration())
}

func TestPostgresConnectionString(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Host = "db.internal"
	cfg.Database.Port = "5432"
	cfg.Database.User = "app"
	cfg.Database.Password = "pw"
	cfg.Database.DBName = "courselog"

	assert.Equal(t, "postgres://app:pw@db.internal:5432/courselog?sslmode=disable", cfg.GetPostgresConnectionString())
}
