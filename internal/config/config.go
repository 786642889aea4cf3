// Package config loads analysis configuration from file, environment
// and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"codescope/internal/analyzer"
	"codescope/internal/library"
)

// Depth levels re-exported for callers configuring an analysis.
const (
	DepthShallow = analyzer.DepthShallow
	DepthMedium  = analyzer.DepthMedium
	DepthDeep    = analyzer.DepthDeep
)

// Config represents the complete codescope configuration.
// It can be loaded from .codescope.yaml with environment variable
// overrides.
type Config struct {
	// Languages enables extractors by name: "python", "javascript",
	// "typescript".
	Languages []string `yaml:"languages" mapstructure:"languages"`

	// IgnorePatterns are glob patterns excluded from file discovery.
	IgnorePatterns []string `yaml:"ignore" mapstructure:"ignore"`

	// Depth is the analysis depth: shallow, medium or deep.
	Depth string `yaml:"depth" mapstructure:"depth"`

	// SimilarityThreshold is the minimum pattern-match score in (0, 1].
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`

	// LibraryPath points at a YAML code-example library. Empty means the
	// built-in default library.
	LibraryPath string `yaml:"library_path" mapstructure:"library_path"`
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Languages:           []string{"python", "javascript", "typescript"},
		IgnorePatterns:      analyzer.DefaultIgnorePatterns,
		Depth:               DepthDeep,
		SimilarityThreshold: library.DefaultSimilarityThreshold,
	}
}

// Load reads configuration with the following priority (highest to
// lowest): environment variables (CODESCOPE_*), config file, defaults.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	def := Default()
	v.SetDefault("languages", def.Languages)
	v.SetDefault("ignore", def.IgnorePatterns)
	v.SetDefault("depth", def.Depth)
	v.SetDefault("similarity_threshold", def.SimilarityThreshold)
	v.SetDefault("library_path", "")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(".codescope")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
	}

	v.SetEnvPrefix("CODESCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A missing config file falls back to defaults; a broken one is
		// worth surfacing when the user named it explicitly.
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound && configFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	switch c.Depth {
	case DepthShallow, DepthMedium, DepthDeep:
	default:
		return fmt.Errorf("invalid depth %q (want shallow, medium or deep)", c.Depth)
	}
	if c.SimilarityThreshold <= 0 || c.SimilarityThreshold > 1 {
		return fmt.Errorf("similarity_threshold %v out of range (0, 1]", c.SimilarityThreshold)
	}
	for _, lang := range c.Languages {
		switch strings.ToLower(lang) {
		case "python", "javascript", "typescript":
		default:
			return fmt.Errorf("unknown language %q", lang)
		}
	}
	return nil
}

// LanguageEnabled reports whether a language name is enabled.
func (c *Config) LanguageEnabled(name string) bool {
	for _, lang := range c.Languages {
		if strings.EqualFold(lang, name) {
			return true
		}
	}
	return false
}
