package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// isolate points the home directory and working directory at fresh temp
// directories and returns them.
func isolate(t *testing.T) (home, work string) {
	t.Helper()
	home = t.TempDir()
	work = t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)
	return home, work
}

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func TestLoaderDefaults(t *testing.T) {
	isolate(t)

	cfg, err := NewLoader(nil).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Output.Format != FormatMarkdown {
		t.Errorf("expected default format, got %s", cfg.Output.Format)
	}
}

func TestLoaderPrecedence(t *testing.T) {
	home, work := isolate(t)

	writeConfig(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
fetch:
  user_agent: "user-agent"
  timeout: 5s
output:
  format: turtle
`)
	writeConfig(t, filepath.Join(work, ProjectConfigFile), `
output:
  format: csv
`)

	// Project config is found from a subdirectory.
	sub := filepath.Join(work, "a", "b")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatal(err)
	}
	t.Chdir(sub)

	cfg, err := NewLoader(nil).Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Fetch.UserAgent != "user-agent" {
		t.Errorf("expected user config user agent, got %s", cfg.Fetch.UserAgent)
	}
	if cfg.Fetch.Timeout != 5*time.Second {
		t.Errorf("expected user config timeout, got %v", cfg.Fetch.Timeout)
	}
	if cfg.Output.Format != "csv" {
		t.Errorf("expected project format csv to win, got %s", cfg.Output.Format)
	}
	if cfg.Batch.Concurrency != 4 {
		t.Errorf("expected default concurrency to survive, got %d", cfg.Batch.Concurrency)
	}
}

func TestLoaderExplicitFile(t *testing.T) {
	_, work := isolate(t)
	writeConfig(t, filepath.Join(work, ProjectConfigFile), "output:\n  format: csv\n")
	explicit := filepath.Join(t.TempDir(), "custom.yaml")
	writeConfig(t, explicit, "output:\n  format: json\n")

	cfg, err := NewLoader(nil).LoadWithFile(explicit)
	if err != nil {
		t.Fatalf("LoadWithFile() error = %v", err)
	}
	if cfg.Output.Format != "json" {
		t.Errorf("expected explicit format json, got %s", cfg.Output.Format)
	}

	if _, err := NewLoader(nil).LoadWithFile(filepath.Join(work, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit file")
	}
}

func TestLoaderInvalidConfig(t *testing.T) {
	_, work := isolate(t)
	writeConfig(t, filepath.Join(work, ProjectConfigFile), "output:\n  format: pdf\n")

	if _, err := NewLoader(nil).Load(); err == nil {
		t.Error("expected validation error")
	}
}

func TestEnsureUserConfig(t *testing.T) {
	home, _ := isolate(t)
	loader := NewLoader(nil)

	path, err := loader.EnsureUserConfig()
	if err != nil {
		t.Fatalf("EnsureUserConfig() error = %v", err)
	}
	want := filepath.Join(home, UserConfigDir, UserConfigFile)
	if path != want {
		t.Errorf("expected %s, got %s", want, path)
	}

	writeConfig(t, path, "log:\n  level: debug\n")
	if _, err := loader.EnsureUserConfig(); err != nil {
		t.Fatalf("second EnsureUserConfig() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "log:\n  level: debug\n" {
		t.Error("existing user config was overwritten")
	}
}
