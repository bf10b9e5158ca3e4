package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SOURCE_BASE_URL", "http://pgs.local")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "NetworkInnvia", cfg.Sync.ContextName)
	assert.Equal(t, 60000, cfg.Sync.PullIntervalMS)
	assert.Equal(t, 60, cfg.Sync.CooldownSeconds)
	assert.Equal(t, "/VccWebService/JSon/PGS_GetPublicCarparksStallCount", cfg.Source.SummaryPath)
	assert.Equal(t, "/VccWebService/JSon/PGS_GetStallsCurrentState", cfg.Source.DetailPath)
	assert.False(t, cfg.Storage.Enabled)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("SOURCE_BASE_URL", "https://pgs.example.com")
	t.Setenv("SYNC_PULL_INTERVAL_MS", "15000")
	t.Setenv("SYNC_CONTEXT_NAME", "Parkings")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "https://pgs.example.com", cfg.Source.BaseURL)
	assert.Equal(t, 15000, cfg.Sync.PullIntervalMS)
	assert.Equal(t, "Parkings", cfg.Sync.ContextName)
	assert.Equal(t, "console", cfg.Log.Format)
}

func TestLoadConfig_MissingBaseURL(t *testing.T) {
	t.Setenv("SOURCE_BASE_URL", "")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "BaseURL")
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	t.Setenv("SOURCE_BASE_URL", "http://pgs.local")
	t.Setenv("DATABASE_DRIVER", "postgres")

	_, err := LoadConfig(t.TempDir())
	assert.Error(t, err)
}
