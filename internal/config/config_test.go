package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for config:
// - Defaults validate and enable all supported languages
// - An explicit config file overrides defaults, unset keys keep them
// - A named but missing or broken config file is an error
// - Validation rejects bad depths, thresholds and languages

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DepthDeep, cfg.Depth)
	assert.True(t, cfg.LanguageEnabled("python"))
	assert.True(t, cfg.LanguageEnabled("TypeScript"), "language check is case-insensitive")
	assert.False(t, cfg.LanguageEnabled("go"))
	assert.NotEmpty(t, cfg.IgnorePatterns)
	assert.InDelta(t, 0.7, cfg.SimilarityThreshold, 1e-9)
}

func TestLoad_ExplicitFile(t *testing.T) {
	tmpDir := t.TempDir()

	content := `languages:
  - python
depth: medium
similarity_threshold: 0.85
library_path: examples.yaml
`
	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"python"}, cfg.Languages)
	assert.Equal(t, DepthMedium, cfg.Depth)
	assert.InDelta(t, 0.85, cfg.SimilarityThreshold, 1e-9)
	assert.Equal(t, "examples.yaml", cfg.LibraryPath)
	assert.NotEmpty(t, cfg.IgnorePatterns, "unset keys keep their defaults")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	tmpDir := t.TempDir()

	_, err := Load(filepath.Join(tmpDir, "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tmpDir := t.TempDir()

	path := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("depth: bottomless\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "depth")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid defaults", func(c *Config) {}, false},
		{"bad depth", func(c *Config) { c.Depth = "bottomless" }, true},
		{"zero threshold", func(c *Config) { c.SimilarityThreshold = 0 }, true},
		{"threshold above one", func(c *Config) { c.SimilarityThreshold = 1.5 }, true},
		{"unknown language", func(c *Config) { c.Languages = []string{"cobol"} }, true},
		{"mixed-case language", func(c *Config) { c.Languages = []string{"Python"} }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
