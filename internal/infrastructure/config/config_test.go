package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/4adex/hilabs/internal/service/outlier"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 0.72, cfg.Engine.DuplicateThreshold)
	assert.Equal(t, 0.85, cfg.Engine.NPIMatchThreshold)
	assert.Equal(t, 500, cfg.Engine.MaxBlockSize)
	assert.Equal(t, outlier.PolicyFlag, cfg.Engine.Outlier.Policy)
}

func TestLoadWithoutFile(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Engine.DuplicateThreshold, cfg.Engine.DuplicateThreshold)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
engine:
  duplicate_threshold: 0.80
  workers: 8
output:
  dir: /tmp/roster-out
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.80, cfg.Engine.DuplicateThreshold)
	assert.Equal(t, 8, cfg.Engine.Workers)
	assert.Equal(t, "/tmp/roster-out", cfg.Output.Dir)
	// Untouched keys keep their defaults
	assert.Equal(t, 0.85, cfg.Engine.NPIMatchThreshold)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("ROSTER_ENGINE__WORKERS", "16")
	t.Setenv("ROSTER_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Engine.Workers)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*Config)
	}{
		{"zero duplicate threshold", func(c *Config) { c.Engine.DuplicateThreshold = 0 }},
		{"threshold above one", func(c *Config) { c.Engine.DuplicateThreshold = 1.1 }},
		{"npi threshold below duplicate threshold", func(c *Config) { c.Engine.NPIMatchThreshold = 0.5 }},
		{"block size too small", func(c *Config) { c.Engine.MaxBlockSize = 1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
		{"bad outlier policy", func(c *Config) { c.Engine.Outlier.Policy = "purge" }},
		{"bad weight", func(c *Config) { c.Engine.Weights.Name = 0 }},
		{"quality credit above range", func(c *Config) { c.Engine.Quality.NonRepresentativeScore = 1.5 }},
		{"negative quality credit", func(c *Config) { c.Engine.Quality.ExpiredLicenseCredit = -0.5 }},
		{"empty output dir", func(c *Config) { c.Output.Dir = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
