package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.HttpServer.Port)
	assert.Equal(t, "9090", cfg.GrpcServer.Port)
	assert.Equal(t, "http://localhost:8000", cfg.Catalog.BackendURL)
	assert.Equal(t, 500*time.Millisecond, cfg.Catalog.Debounce)
	assert.Equal(t, 9, cfg.Catalog.ItemsPerPage)
	assert.Zero(t, cfg.Catalog.Timeout)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 1000, cfg.Session.MaxSessions)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CATALOG_BACKEND_URL", "http://catalog:9000")
	t.Setenv("CATALOG_SEARCH_DEBOUNCE", "250ms")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "http://catalog:9000", cfg.Catalog.BackendURL)
	assert.Equal(t, 250*time.Millisecond, cfg.Catalog.Debounce)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("CATALOG_ITEMS_PER_PAGE", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsNonPositiveSessionLimit(t *testing.T) {
	t.Setenv("SESSION_MAX", "0")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnparsableDuration(t *testing.T) {
	t.Setenv("SESSION_IDLE_TIMEOUT", "soon")
	_, err := Load()
	assert.Error(t, err)
}
