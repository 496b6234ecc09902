package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("UNIHOOD_HOME_DIR", t.TempDir())
	t.Setenv("UNIHOOD_SERVER_URL", "")
	t.Setenv("UNIHOOD_RADIUS_M", "")
	t.Setenv("UNIHOOD_DEBUG", "")
	t.Setenv("UNIHOOD_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://api.unihood.app", cfg.ServerURL)
	require.Equal(t, DefaultRadiusM, cfg.RadiusM)
	require.False(t, cfg.Debug)
	require.NotEmpty(t, cfg.AccessToken)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("UNIHOOD_HOME_DIR", t.TempDir())
	t.Setenv("UNIHOOD_SERVER_URL", "http://localhost:8080")
	t.Setenv("UNIHOOD_RADIUS_M", "1500")
	t.Setenv("UNIHOOD_DEBUG", "1")
	t.Setenv("UNIHOOD_LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.ServerURL)
	require.Equal(t, 1500, cfg.RadiusM)
	require.True(t, cfg.Debug)
}

func TestLoad_InvalidRadius(t *testing.T) {
	t.Setenv("UNIHOOD_HOME_DIR", t.TempDir())
	t.Setenv("UNIHOOD_LOG_LEVEL", "")
	t.Setenv("UNIHOOD_RADIUS_M", "-5")

	_, err := Load()
	require.Error(t, err)
}
