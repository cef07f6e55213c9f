package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadRequiresBaseURL(t *testing.T) {
	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GLINTWASH_API_BASE_URL", "http://localhost:8080")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "file", cfg.Session.Backend)
	require.Equal(t, ".glintwash/session.json", cfg.Session.Path)
	require.True(t, cfg.App.IsDev())
	require.False(t, cfg.Metrics.Enabled)
}

func TestLoadRejectsUnknownSessionBackend(t *testing.T) {
	t.Setenv("GLINTWASH_API_BASE_URL", "http://localhost:8080")
	t.Setenv("GLINTWASH_SESSION_BACKEND", "scroll")

	_, err := Load()
	require.Error(t, err)
}
