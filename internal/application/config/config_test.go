package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate переходит во временный каталог без .env и очищает значимые переменные
func isolate(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Chdir(dir)

	for _, key := range []string{
		"SitePassword", "DATABASE_URL", "ConnectionStrings__DefaultConnection",
		"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "PORT", "METRIC_PORT",
		"DEBUG", "DOMAIN", "STATIC_DIR", "SESSION_IDLE_TIMEOUT", "TRUSTED_PROXIES",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	return dir
}

func TestNewRequiresPassword(t *testing.T) {
	isolate(t)

	_, err := New("")
	assert.ErrorIs(t, err, ErrPasswordNotConfigured)
}

func TestNewDefaults(t *testing.T) {
	isolate(t)
	t.Setenv("SitePassword", "s3cret")

	cfg, err := New("")
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.SitePassword)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "9090", cfg.MetricPort)
	assert.Equal(t, 24*time.Hour, cfg.SessionIdleTimeout)
	assert.False(t, cfg.Redis.Enabled())

	dsn, err := cfg.Database.ConnectionString()
	require.NoError(t, err)
	assert.Empty(t, dsn)
}

func TestNewPrecedence(t *testing.T) {
	dir := isolate(t)

	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
SitePassword: from-yaml
Port: "4000"
SessionIdleTimeout: 2h
ConnectionStrings:
  DefaultConnection: "host=db dbname=rooms"
Redis:
  Addr: "redis:6379"
`), 0o600))

	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PORT=5000\nMETRIC_PORT=9999\n"), 0o600))

	t.Setenv("PORT", "6000")

	cfg, err := New(configPath)
	require.NoError(t, err)

	assert.Equal(t, "from-yaml", cfg.SitePassword)
	assert.Equal(t, "6000", cfg.Port)
	assert.Equal(t, "9999", cfg.MetricPort)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTimeout)
	assert.True(t, cfg.Redis.Enabled())

	dsn, err := cfg.Database.ConnectionString()
	require.NoError(t, err)
	assert.Equal(t, "host=db dbname=rooms", dsn)
}

func TestNewMissingConfigFile(t *testing.T) {
	isolate(t)
	t.Setenv("SitePassword", "s3cret")

	_, err := New("does-not-exist.yaml")
	assert.Error(t, err)
}

func TestDefaultConnectionOverridesDatabaseURL(t *testing.T) {
	d := DatabaseConfig{
		DefaultConnection: "host=primary",
		URL:               "postgres://u:p@example.com:6543/app",
	}

	dsn, err := d.ConnectionString()
	require.NoError(t, err)
	assert.Equal(t, "host=primary", dsn)

	d.DefaultConnection = ""

	dsn, err = d.ConnectionString()
	require.NoError(t, err)
	assert.Equal(t, "host=example.com port=6543 dbname=app user=u password=p sslmode=require", dsn)
}

func TestTrustedProxiesFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("SitePassword", "secret")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1, 192.168.0.0/16,::1")

	c, err := New("")
	require.NoError(t, err)

	nets, err := c.TrustedProxyNets()
	require.NoError(t, err)
	require.Len(t, nets, 3)

	assert.Equal(t, "10.0.0.1/32", nets[0].String())
	assert.Equal(t, "192.168.0.0/16", nets[1].String())
	assert.Equal(t, "::1/128", nets[2].String())
}

func TestInvalidTrustedProxyIsRejected(t *testing.T) {
	isolate(t)
	t.Setenv("SitePassword", "secret")
	t.Setenv("TRUSTED_PROXIES", "not-an-ip")

	_, err := New("")
	assert.Error(t, err)
}
