package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Defaults()
	cfg.Portals = DefaultPortals()
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigNoFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, 5, cfg.Orchestrator.MaxConcurrentPortals)
	assert.Equal(t, 10*time.Minute, cfg.Orchestrator.RunTimeout)
	assert.NotEmpty(t, cfg.Portals)
}

func TestLoadConfigFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
orchestrator:
  max_concurrent_portals: 2
  run_timeout: 30s
logging:
  level: debug
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Orchestrator.MaxConcurrentPortals)
	assert.Equal(t, 30*time.Second, cfg.Orchestrator.RunTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Untouched sections keep their defaults.
	assert.Equal(t, 8, cfg.Enrichment.MaxConcurrent)
}

func TestLoadConfigExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_HUNTER_KEY", "hk_123")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
enrichment:
  hunter_api_key: ${TEST_HUNTER_KEY}
`), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "hk_123", cfg.Enrichment.HunterAPIKey)
}

func TestEnvOverridesWin(t *testing.T) {
	t.Setenv("HUNTER_API_KEY", "from_env")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from_env", cfg.Enrichment.HunterAPIKey)
}

func TestValidateRejectsDuplicatePortalIDs(t *testing.T) {
	cfg := Defaults()
	cfg.Portals = []PortalConfig{
		{ID: "remotive", MaxConcurrent: 1},
		{ID: "remotive", MaxConcurrent: 1},
	}
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Defaults()
	cfg.Portals = DefaultPortals()
	cfg.Orchestrator.MaxConcurrentPortals = 0
	assert.Error(t, cfg.Validate())
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDefaultPortalsCoverCapabilities(t *testing.T) {
	portals := DefaultPortals()
	byID := make(map[string]PortalConfig, len(portals))
	for _, p := range portals {
		byID[p.ID] = p
	}

	require.Contains(t, byID, "linkedin")
	require.Contains(t, byID, "remotive")
	assert.True(t, byID["linkedin"].SupportsTimeFilter)
	assert.Greater(t, byID["linkedin"].Priority, byID["remotive"].Priority)
	for _, p := range portals {
		assert.Greater(t, p.MaxConcurrent, 0, "portal %s", p.ID)
	}
}
