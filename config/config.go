// Package config provides configuration loading and management for semlens.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/semlens/export"
)

// FormatMarkdown is the report format. All other formats are graph exports.
const FormatMarkdown = "markdown"

// Config represents the complete semlens configuration
type Config struct {
	Fetch    FetchConfig    `yaml:"fetch"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Output   OutputConfig   `yaml:"output"`
	Batch    BatchConfig    `yaml:"batch"`
	Log      LogConfig      `yaml:"log"`
}

// FetchConfig configures page retrieval
type FetchConfig struct {
	// Timeout is the maximum time for one page request
	Timeout time.Duration `yaml:"timeout"`
	// UserAgent is sent with every request
	UserAgent string `yaml:"user_agent"`
	// MaxContentSize is the largest page body accepted, in bytes
	MaxContentSize int64 `yaml:"max_content_size"`
	// AllowHTTP permits plain http URLs (https only by default)
	AllowHTTP bool `yaml:"allow_http"`
	// RemoteContexts loads the Schema.org context over the network instead
	// of using the embedded copy
	RemoteContexts bool `yaml:"remote_contexts"`
}

// AnalysisConfig configures graph construction and insights
type AnalysisConfig struct {
	// Readability extracts the main article before Markdown conversion
	Readability bool `yaml:"readability"`
	// CombineBlocks merges all JSON-LD blocks of a page before expansion
	CombineBlocks bool `yaml:"combine_blocks"`
	// MaxInheritanceDepth bounds isVariantOf property inheritance
	MaxInheritanceDepth int `yaml:"max_inheritance_depth"`
}

// OutputConfig configures what is written and where
type OutputConfig struct {
	// Format is markdown or one of the graph export formats
	Format string `yaml:"format"`
	// IncludeGraph appends the graph JSON and Mermaid diagram to reports
	IncludeGraph bool `yaml:"include_graph"`
	// GraphOnly leaves the page Markdown out of reports
	GraphOnly bool `yaml:"graph_only"`
	// DataDownloads always shows the data downloads section
	DataDownloads bool `yaml:"data_downloads"`
	// SaveDir, when set, saves reports there instead of printing them
	SaveDir string `yaml:"save_dir"`
	// MaxVariants limits variant table rows (0 = all)
	MaxVariants int `yaml:"max_variants"`
}

// BatchConfig configures local file analysis
type BatchConfig struct {
	// Concurrency is the number of files analyzed at once
	Concurrency int `yaml:"concurrency"`
	// DebounceDelay is how long watch mode waits for more changes
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// LogConfig configures logging and metrics output
type LogConfig struct {
	// Level is debug, info, warn or error
	Level string `yaml:"level"`
	// MetricsFile, when set, receives Prometheus metrics after each run
	MetricsFile string `yaml:"metrics_file"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Fetch: FetchConfig{
			Timeout:        30 * time.Second,
			UserAgent:      "semlens/1.0 (+https://github.com/c360studio/semlens)",
			MaxContentSize: 10 * 1024 * 1024,
		},
		Analysis: AnalysisConfig{
			MaxInheritanceDepth: 2,
		},
		Output: OutputConfig{
			Format: FormatMarkdown,
		},
		Batch: BatchConfig{
			Concurrency:   4,
			DebounceDelay: 200 * time.Millisecond,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch.timeout must be positive")
	}
	if c.Fetch.MaxContentSize <= 0 {
		return fmt.Errorf("fetch.max_content_size must be positive")
	}
	if c.Analysis.MaxInheritanceDepth < 0 {
		return fmt.Errorf("analysis.max_inheritance_depth must not be negative")
	}
	if c.Output.MaxVariants < 0 {
		return fmt.Errorf("output.max_variants must not be negative")
	}
	if c.Output.Format != FormatMarkdown {
		if _, err := export.ParseFormat(c.Output.Format); err != nil {
			return fmt.Errorf("output.format: %w", err)
		}
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be at least 1")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	return nil
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// LoadFromFile loads configuration from a YAML file
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values). Booleans can only be switched on by a later layer.
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Fetch
	if other.Fetch.Timeout != 0 {
		c.Fetch.Timeout = other.Fetch.Timeout
	}
	if other.Fetch.UserAgent != "" {
		c.Fetch.UserAgent = other.Fetch.UserAgent
	}
	if other.Fetch.MaxContentSize != 0 {
		c.Fetch.MaxContentSize = other.Fetch.MaxContentSize
	}
	c.Fetch.AllowHTTP = c.Fetch.AllowHTTP || other.Fetch.AllowHTTP
	c.Fetch.RemoteContexts = c.Fetch.RemoteContexts || other.Fetch.RemoteContexts

	// Analysis
	c.Analysis.Readability = c.Analysis.Readability || other.Analysis.Readability
	c.Analysis.CombineBlocks = c.Analysis.CombineBlocks || other.Analysis.CombineBlocks
	if other.Analysis.MaxInheritanceDepth != 0 {
		c.Analysis.MaxInheritanceDepth = other.Analysis.MaxInheritanceDepth
	}

	// Output
	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	c.Output.IncludeGraph = c.Output.IncludeGraph || other.Output.IncludeGraph
	c.Output.GraphOnly = c.Output.GraphOnly || other.Output.GraphOnly
	c.Output.DataDownloads = c.Output.DataDownloads || other.Output.DataDownloads
	if other.Output.SaveDir != "" {
		c.Output.SaveDir = other.Output.SaveDir
	}
	if other.Output.MaxVariants != 0 {
		c.Output.MaxVariants = other.Output.MaxVariants
	}

	// Batch
	if other.Batch.Concurrency != 0 {
		c.Batch.Concurrency = other.Batch.Concurrency
	}
	if other.Batch.DebounceDelay != 0 {
		c.Batch.DebounceDelay = other.Batch.DebounceDelay
	}

	// Log
	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.MetricsFile != "" {
		c.Log.MetricsFile = other.Log.MetricsFile
	}
}
