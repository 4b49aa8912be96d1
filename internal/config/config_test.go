package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SALT", "pepper")
	t.Setenv("PORT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("BASE_PATH", "")
	t.Setenv("RATE_LIMIT_WHITELIST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "pepper", cfg.Salt)
	assert.Empty(t, cfg.BasePath)
	assert.Empty(t, cfg.RateLimitWhitelist)
}

func TestLoadRequiresSalt(t *testing.T) {
	t.Setenv("SALT", "")

	_, err := Load()
	assert.ErrorIs(t, err, ErrMissingSetting)
	assert.Contains(t, err.Error(), "SALT")
}

func TestLoadParsesSettings(t *testing.T) {
	t.Setenv("SALT", "pepper")
	t.Setenv("BASE_PATH", "/escape/")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 192.168.0.0/16,,")
	t.Setenv("AUTO_BLOCK_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/escape", cfg.BasePath)
	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, []string{"10.0.0.1", "192.168.0.0/16"}, cfg.RateLimitWhitelist)
	assert.True(t, cfg.AutoBlockEnabled)
}

func TestValidate(t *testing.T) {
	base := Config{Salt: "s", StoreBackend: BackendMemory}
	require.NoError(t, base.Validate())

	pg := base
	pg.StoreBackend = BackendPostgres
	assert.ErrorIs(t, pg.Validate(), ErrMissingSetting)

	unknown := base
	unknown.StoreBackend = "etcd"
	assert.Error(t, unknown.Validate())

	badPath := base
	badPath.BasePath = "escape"
	assert.Error(t, badPath.Validate())
}

func TestIsDevelopment(t *testing.T) {
	assert.True(t, (&Config{Env: "development"}).IsDevelopment())
	assert.False(t, (&Config{Env: "production"}).IsDevelopment())
}
