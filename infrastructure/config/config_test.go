package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("SERVER_WRITE_TIMEOUT", "")
	t.Setenv("STORAGE_BACKEND", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ":10000", cfg.ServerAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 60, cfg.WriteTimeoutSeconds)
	assert.Equal(t, "dynamodb", cfg.StorageBackend)
}

func TestLoadConfig_WriteTimeoutOverride(t *testing.T) {
	t.Setenv("SERVER_WRITE_TIMEOUT", "120")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.WriteTimeoutSeconds)
}

func TestLoadConfig_WriteTimeoutUnparseableFallsBack(t *testing.T) {
	t.Setenv("SERVER_WRITE_TIMEOUT", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.WriteTimeoutSeconds)
}

func TestLoadConfig_RejectsUnknownStorageBackend(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")

	_, err := LoadConfig()
	assert.Error(t, err)
}
