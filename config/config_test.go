package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shape-mapper/config"
	"shape-mapper/primitive"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.True(t, cfg.Mapping.RequireInitialize)
	assert.True(t, cfg.Mapping.NullSafe)
	assert.True(t, cfg.Mapping.Flattening)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Profiles)

	cats, err := cfg.Mapping.Categories()
	require.NoError(t, err)
	assert.Equal(t, primitive.CategoryDefault, cats)
}

func TestLoadFromFile(t *testing.T) {
	content := `
mapping:
  flattening: false
  conversions: [safe_number, text_number]
logging:
  level: debug
  format: console
profiles:
  - orders.yaml
`
	path := filepath.Join(t.TempDir(), "shapemap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Mapping.Flattening)
	assert.True(t, cfg.Mapping.NullSafe, "defaults survive a partial file")
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"orders.yaml"}, cfg.Profiles)

	cats, err := cfg.Mapping.Categories()
	require.NoError(t, err)
	assert.Equal(t, primitive.CategorySafeNumber|primitive.CategoryTextNumber, cats)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("SHAPEMAP_LOGGING_LEVEL", "warn")
	t.Setenv("SHAPEMAP_MAPPING_NULL_SAFE", "false")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.False(t, cfg.Mapping.NullSafe)
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "bad level", content: "logging:\n  level: loud\n"},
		{name: "bad format", content: "logging:\n  format: xml\n"},
		{name: "unknown category", content: "mapping:\n  conversions: [magic]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "shapemap.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o600))

			_, err := config.Load(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoggingConfig_Build(t *testing.T) {
	logger, err := config.LoggingConfig{Level: "debug", Format: "console", Output: "stderr"}.Build()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = config.LoggingConfig{Level: "nope", Format: "json", Output: "stderr"}.Build()
	assert.Error(t, err)
}
