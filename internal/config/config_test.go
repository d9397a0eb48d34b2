// Package config tests configuration loading.
package config

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := &Config{}
	setDefaults(cfg)

	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("ListenAddr: got %q, want %q", cfg.ListenAddr, DefaultListenAddr)
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL: got %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.StoreDriver != DefaultStoreDriver {
		t.Errorf("StoreDriver: got %q, want %q", cfg.StoreDriver, DefaultStoreDriver)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
	if cfg.LogFormat != DefaultLogFormat {
		t.Errorf("LogFormat: got %q, want %q", cfg.LogFormat, DefaultLogFormat)
	}
	if cfg.Metrics != DefaultMetrics {
		t.Errorf("Metrics: got %q, want %q", cfg.Metrics, DefaultMetrics)
	}
}

func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	configFile := filepath.Join(tmpDir, "todocore.toml")

	content := []byte(`listen_addr = ":9090"
store_driver = "sqlite"
log_level = "debug"
`)
	if err := os.WriteFile(configFile, content, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &Config{}
	if err := loadConfigFile(cfg, configFile); err != nil {
		t.Fatalf("loadConfigFile: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr: got %q, want :9090", cfg.ListenAddr)
	}
	if cfg.StoreDriver != "sqlite" {
		t.Errorf("StoreDriver: got %q, want sqlite", cfg.StoreDriver)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want debug", cfg.LogLevel)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TODOCORE_LISTEN_ADDR", ":7070")
	t.Setenv("TODOCORE_BASE_URL", "http://api.internal:7070")
	t.Setenv("TODOCORE_METRICS", "expvar")

	cfg := &Config{}
	setDefaults(cfg)
	loadFromEnv(cfg)

	if cfg.ListenAddr != ":7070" {
		t.Errorf("ListenAddr: got %q, want :7070", cfg.ListenAddr)
	}
	if cfg.BaseURL != "http://api.internal:7070" {
		t.Errorf("BaseURL: got %q, want http://api.internal:7070", cfg.BaseURL)
	}
	if cfg.Metrics != "expvar" {
		t.Errorf("Metrics: got %q, want expvar", cfg.Metrics)
	}
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`listen_addr = ":9090"
log_level = "debug"
base_url = "http://from-file:9090"
`)
	if err := os.WriteFile(filepath.Join(dir, "todocore.toml"), content, 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)
	t.Setenv("TODOCORE_LOG_LEVEL", "warn")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-base-url", "http://from-flag:9090"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// File beats defaults.
	if cfg.ListenAddr != ":9090" {
		t.Errorf("ListenAddr: got %q, want :9090", cfg.ListenAddr)
	}
	// Env beats file.
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel: got %q, want warn", cfg.LogLevel)
	}
	// Flags beat everything.
	if cfg.BaseURL != "http://from-flag:9090" {
		t.Errorf("BaseURL: got %q, want http://from-flag:9090", cfg.BaseURL)
	}
}

func TestHiddenConfigFileName(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".todocore.toml"), []byte(`store_driver = "sqlite"`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	cfg, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.StoreDriver != "sqlite" {
		t.Errorf("StoreDriver: got %q, want sqlite", cfg.StoreDriver)
	}
}

func TestLoadRejectsUnknownMetricsSink(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TODOCORE_METRICS", "statsd")

	_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	if err == nil {
		t.Fatal("expected an error for an unknown metrics sink")
	}
	if !strings.Contains(err.Error(), "statsd") {
		t.Errorf("expected the sink name in the error, got %v", err)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-log-format", "xml"})
	if err == nil {
		t.Fatal("expected an error for an unknown log format")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("expected the format name in the error, got %v", err)
	}
}
