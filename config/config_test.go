package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Fetch.Timeout != 30*time.Second {
		t.Errorf("expected default timeout 30s, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxContentSize != 10*1024*1024 {
		t.Errorf("expected default max content size 10MiB, got %d", cfg.Fetch.MaxContentSize)
	}
	if cfg.Fetch.AllowHTTP {
		t.Error("expected https only by default")
	}
	if cfg.Analysis.MaxInheritanceDepth != 2 {
		t.Errorf("expected default inheritance depth 2, got %d", cfg.Analysis.MaxInheritanceDepth)
	}
	if cfg.Output.Format != FormatMarkdown {
		t.Errorf("expected default format markdown, got %s", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "export format",
			modify:  func(c *Config) { c.Output.Format = "turtle" },
			wantErr: false,
		},
		{
			name:    "unknown format",
			modify:  func(c *Config) { c.Output.Format = "pdf" },
			wantErr: true,
		},
		{
			name:    "zero timeout",
			modify:  func(c *Config) { c.Fetch.Timeout = 0 },
			wantErr: true,
		},
		{
			name:    "zero max content size",
			modify:  func(c *Config) { c.Fetch.MaxContentSize = 0 },
			wantErr: true,
		},
		{
			name:    "negative inheritance depth",
			modify:  func(c *Config) { c.Analysis.MaxInheritanceDepth = -1 },
			wantErr: true,
		},
		{
			name:    "negative max variants",
			modify:  func(c *Config) { c.Output.MaxVariants = -5 },
			wantErr: true,
		},
		{
			name:    "zero concurrency",
			modify:  func(c *Config) { c.Batch.Concurrency = 0 },
			wantErr: true,
		},
		{
			name:    "unknown log level",
			modify:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if err != nil {
			t.Errorf("ParseLevel(%q) error = %v", tt.name, err)
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if _, err := ParseLevel("trace"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `
fetch:
  timeout: 10s
  user_agent: "test-agent"
  allow_http: true
analysis:
  readability: true
  max_inheritance_depth: 4
output:
  format: ntriples
  save_dir: "/tmp/reports"
batch:
  concurrency: 8
  debounce_delay: 500ms
log:
  level: debug
  metrics_file: "/tmp/semlens.prom"
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.UserAgent != "test-agent" {
		t.Errorf("expected user agent test-agent, got %s", cfg.Fetch.UserAgent)
	}
	if !cfg.Fetch.AllowHTTP {
		t.Error("expected allow_http")
	}
	if cfg.Fetch.MaxContentSize != 10*1024*1024 {
		t.Errorf("expected default max content size to survive, got %d", cfg.Fetch.MaxContentSize)
	}
	if !cfg.Analysis.Readability {
		t.Error("expected readability")
	}
	if cfg.Analysis.MaxInheritanceDepth != 4 {
		t.Errorf("expected inheritance depth 4, got %d", cfg.Analysis.MaxInheritanceDepth)
	}
	if cfg.Output.Format != "ntriples" {
		t.Errorf("expected format ntriples, got %s", cfg.Output.Format)
	}
	if cfg.Output.SaveDir != "/tmp/reports" {
		t.Errorf("expected save dir /tmp/reports, got %s", cfg.Output.SaveDir)
	}
	if cfg.Batch.Concurrency != 8 {
		t.Errorf("expected concurrency 8, got %d", cfg.Batch.Concurrency)
	}
	if cfg.Batch.DebounceDelay != 500*time.Millisecond {
		t.Errorf("expected debounce 500ms, got %v", cfg.Batch.DebounceDelay)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
	if cfg.Log.MetricsFile != "/tmp/semlens.prom" {
		t.Errorf("expected metrics file /tmp/semlens.prom, got %s", cfg.Log.MetricsFile)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("fetch: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestConfigMerge(t *testing.T) {
	base := DefaultConfig()
	override := &Config{
		Fetch: FetchConfig{
			UserAgent: "override-agent",
			AllowHTTP: true,
		},
		Output: OutputConfig{
			Format:      "csv",
			MaxVariants: 10,
		},
	}

	base.Merge(override)

	if base.Fetch.UserAgent != "override-agent" {
		t.Errorf("expected user agent override-agent, got %s", base.Fetch.UserAgent)
	}
	// Timeout should remain from base since override didn't set it
	if base.Fetch.Timeout != 30*time.Second {
		t.Errorf("expected timeout to remain default, got %v", base.Fetch.Timeout)
	}
	if !base.Fetch.AllowHTTP {
		t.Error("expected allow_http to be switched on")
	}
	if base.Output.Format != "csv" {
		t.Errorf("expected format csv, got %s", base.Output.Format)
	}
	if base.Output.MaxVariants != 10 {
		t.Errorf("expected max variants 10, got %d", base.Output.MaxVariants)
	}

	base.Merge(nil)
	if base.Output.Format != "csv" {
		t.Error("merging nil changed the config")
	}
}

func TestConfigSaveToFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := DefaultConfig()
	cfg.Fetch.UserAgent = "saved-agent"
	cfg.Batch.DebounceDelay = time.Second

	if err := cfg.SaveToFile(configPath); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}

	loaded, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.Fetch.UserAgent != "saved-agent" {
		t.Errorf("expected user agent saved-agent, got %s", loaded.Fetch.UserAgent)
	}
	if loaded.Batch.DebounceDelay != time.Second {
		t.Errorf("expected debounce 1s, got %v", loaded.Batch.DebounceDelay)
	}
}
