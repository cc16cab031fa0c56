package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration options for ariadne.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis"`

	// Analyzer toggles
	Analyzers AnalyzerConfig `koanf:"analyzers"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude"`

	// Cache settings
	Cache CacheConfig `koanf:"cache"`

	// Output settings
	Output OutputConfig `koanf:"output"`
}

// AnalysisConfig controls how much context is gathered and when results
// are produced.
type AnalysisConfig struct {
	// Mode is "file", "smart", or "project".
	Mode string `koanf:"mode"`
	// MaxFiles bounds cross-file discovery; results are capped at
	// MEDIUM confidence when the ceiling is hit. Zero means unbounded.
	MaxFiles int `koanf:"max_files"`
	// IncludePatterns restricts discovery to matching paths.
	IncludePatterns []string `koanf:"include_patterns"`
	// ExcludePatterns drops matching paths from discovery.
	ExcludePatterns []string `koanf:"exclude_patterns"`
	// MinConfidence filters issues below "LOW", "MEDIUM", or "HIGH".
	MinConfidence string `koanf:"min_confidence"`
	// DebounceMs delays re-analysis while typing; saves bypass it.
	DebounceMs int `koanf:"debounce_ms"`
	// Workers sizes the parallel parse pool.
	Workers int `koanf:"workers"`
}

// AnalyzerConfig switches individual analyzers on and off.
type AnalyzerConfig struct {
	Keyboard      bool `koanf:"keyboard"`
	TabOrder      bool `koanf:"tab_order"`
	AriaState     bool `koanf:"aria_state"`
	Focus         bool `koanf:"focus"`
	ContextChange bool `koanf:"context_change"`
	Timing        bool `koanf:"timing"`
	// Heuristics enables LOW-confidence keyword classification in the
	// timing analyzer.
	Heuristics bool `koanf:"heuristics"`
}

// ExcludeConfig defines file exclusion patterns for workspace scans.
type ExcludeConfig struct {
	Patterns   []string `koanf:"patterns"`
	Extensions []string `koanf:"extensions"`
	Dirs       []string `koanf:"dirs"`
	Gitignore  bool     `koanf:"gitignore"`
}

// CacheConfig controls IR tree caching.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled"`
	Dir     string `koanf:"dir"`
	TTL     int    `koanf:"ttl"` // TTL in hours
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format  string `koanf:"format"` // text, json, markdown, toon
	Color   bool   `koanf:"color"`
	Verbose bool   `koanf:"verbose"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Mode:          "smart",
			MaxFiles:      200,
			MinConfidence: "LOW",
			DebounceMs:    300,
			Workers:       4,
		},
		Analyzers: AnalyzerConfig{
			Keyboard:      true,
			TabOrder:      true,
			AriaState:     true,
			Focus:         true,
			ContextChange: true,
			Timing:        true,
			Heuristics:    true,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.min.css",
				"*.test.js",
				"*.spec.js",
			},
			Extensions: []string{
				".lock",
				".map",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				".git",
				".ariadne",
				"dist",
				"build",
			},
			Gitignore: true,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".ariadne/cache",
			TTL:     24,
		},
		Output: OutputConfig{
			Format:  "text",
			Color:   true,
			Verbose: false,
		},
	}
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	// Determine parser based on extension
	var parser koanf.Parser
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		parser = toml.Parser()
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		parser = toml.Parser()
	}

	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	configNames := []string{
		"ariadne.toml",
		"ariadne.yaml",
		"ariadne.yml",
		"ariadne.json",
		".ariadne.toml",
		".ariadne.yaml",
		".ariadne.yml",
		".ariadne.json",
	}

	searchDirs := []string{".", ".ariadne"}

	for _, dir := range searchDirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				cfg, err := Load(path)
				if err == nil {
					return cfg
				}
			}
		}
	}

	return DefaultConfig()
}

// Validate rejects values the pipeline cannot honor.
func (c *Config) Validate() error {
	switch c.Analysis.Mode {
	case "file", "smart", "project":
	default:
		return fmt.Errorf("config: unknown analysis mode %q", c.Analysis.Mode)
	}
	switch c.Analysis.MinConfidence {
	case "LOW", "MEDIUM", "HIGH":
	default:
		return fmt.Errorf("config: unknown confidence %q", c.Analysis.MinConfidence)
	}
	if c.Analysis.MaxFiles < 0 {
		return fmt.Errorf("config: max_files must be >= 0, got %d", c.Analysis.MaxFiles)
	}
	return nil
}

// ShouldExclude checks if a path should be excluded from analysis.
func (c *Config) ShouldExclude(path string) bool {
	for _, dir := range c.Exclude.Dirs {
		if strings.Contains(path, string(filepath.Separator)+dir+string(filepath.Separator)) ||
			strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}

	ext := filepath.Ext(path)
	for _, excludeExt := range c.Exclude.Extensions {
		if ext == excludeExt {
			return true
		}
	}

	base := filepath.Base(path)
	for _, pattern := range c.Exclude.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}

	return false
}
