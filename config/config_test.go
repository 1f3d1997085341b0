package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 3600, cfg.Cache.TTLSecs)
	assert.Equal(t, 10000, cfg.Cache.MaxSize)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.DefaultTimeout)
	assert.Equal(t, "gamemeta/1.0", cfg.UserAgent)
	assert.Equal(t, []string{"us", "wor", "eu", "jp"}, cfg.RegionPriority)

	for _, name := range []string{"igdb", "screenscraper", "hasheous", "playmatch"} {
		pc, ok := cfg.Providers[name]
		require.True(t, ok, "provider %s should have a default entry", name)
		assert.False(t, pc.Enabled)
		assert.Equal(t, 100, pc.Priority)
		assert.Equal(t, 30, pc.TimeoutSecs)
	}
}

func TestProviderConfig_Credential(t *testing.T) {
	pc := ProviderConfig{Credentials: map[string]string{"api_key": "secret"}}
	assert.Equal(t, "secret", pc.Credential("api_key"))
	assert.Equal(t, "", pc.Credential("missing"))
	assert.Equal(t, "", ProviderConfig{}.Credential("api_key"))
}

func TestProviderConfig_IsConfigured(t *testing.T) {
	assert.False(t, ProviderConfig{}.IsConfigured())
	assert.False(t, ProviderConfig{Enabled: true}.IsConfigured())
	assert.False(t, ProviderConfig{Credentials: map[string]string{"k": "v"}}.IsConfigured())
	assert.True(t, ProviderConfig{
		Enabled:     true,
		Credentials: map[string]string{"k": "v"},
	}.IsConfigured())
}

func TestEnabledProviders_PriorityOrder(t *testing.T) {
	cfg := &Config{
		Providers: map[string]ProviderConfig{
			"igdb":          {Enabled: true, Priority: 20},
			"screenscraper": {Enabled: true, Priority: 10},
			"mobygames":     {Enabled: false, Priority: 1},
			"hasheous":      {Enabled: true, Priority: 20},
			"playmatch":     {Enabled: true, Priority: 20},
		},
	}

	assert.Equal(t,
		[]string{"screenscraper", "hasheous", "igdb", "playmatch"},
		cfg.EnabledProviders())
}

func TestEnabledProviders_NoneEnabled(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.EnabledProviders())
}

func TestLoad_FromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
providers:
  igdb:
    enabled: true
    priority: 5
    credentials:
      client_id: abc
      client_secret: def
cache:
  backend: sqlite
  path: /tmp/gamemeta-cache.db
logging:
  level: debug
`), 0o644))

	t.Setenv("GAMEMETA_CONFIG", path)
	t.Setenv("GAMEMETA_CACHE", "")
	t.Setenv("GAMEMETA_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	igdb := cfg.Provider("igdb")
	assert.True(t, igdb.Enabled)
	assert.Equal(t, 5, igdb.Priority)
	assert.Equal(t, "abc", igdb.Credential("client_id"))

	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "/tmp/gamemeta-cache.db", cfg.Cache.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Values the file leaves out keep their defaults.
	assert.Equal(t, 30, cfg.DefaultTimeout)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_MissingEnvPathFails(t *testing.T) {
	t.Setenv("GAMEMETA_CONFIG", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache:\n  backend: memory\n"), 0o644))

	t.Setenv("GAMEMETA_CONFIG", path)
	t.Setenv("GAMEMETA_CACHE", "/tmp/override.db")
	t.Setenv("GAMEMETA_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Cache.Backend)
	assert.Equal(t, "/tmp/override.db", cfg.Cache.Path)
	assert.Equal(t, "warn", cfg.Logging.Level)
}
