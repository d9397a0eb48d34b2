// Package config handles configuration loading and defaults for the todocore
// binaries. Values are resolved in priority order: built-in defaults, then a
// TOML file in the working directory, then TODOCORE_* environment variables,
// then CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultListenAddr  = ":8080"
	DefaultBaseURL     = "http://localhost:8080"
	DefaultStoreDriver = "memory"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"
	DefaultMetrics     = "prometheus"
)

// Metrics sink names accepted by the metrics setting.
const (
	MetricsPrometheus = "prometheus"
	MetricsExpvar     = "expvar"
	MetricsOff        = "off"
)

// Config holds the full configuration shared by the server and the client.
type Config struct {
	// Server
	ListenAddr  string `toml:"listen_addr"`
	StoreDriver string `toml:"store_driver"`
	Metrics     string `toml:"metrics"`

	// Client
	BaseURL string `toml:"base_url"`

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. Config file (TOML)
// 3. Environment variables
// 4. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}

	setDefaults(cfg)

	configFile := findConfigFile()
	if configFile != "" {
		if err := loadConfigFile(cfg, configFile); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", configFile, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.ListenAddr = DefaultListenAddr
	cfg.BaseURL = DefaultBaseURL
	cfg.StoreDriver = DefaultStoreDriver
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
	cfg.Metrics = DefaultMetrics
}

// findConfigFile looks for a config file in the current directory.
func findConfigFile() string {
	names := []string{"todocore.toml", ".todocore.toml"}
	for _, name := range names {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	_, err := toml.DecodeFile(path, cfg)
	return err
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	if v := os.Getenv("TODOCORE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("TODOCORE_STORE_DRIVER"); v != "" {
		cfg.StoreDriver = v
	}
	if v := os.Getenv("TODOCORE_METRICS"); v != "" {
		cfg.Metrics = v
	}
	if v := os.Getenv("TODOCORE_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TODOCORE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODOCORE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
}

// parseFlags defines and parses CLI flags.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		fs = flag.NewFlagSet("todocore", flag.ContinueOnError)
	}

	fs.StringVar(&cfg.ListenAddr, "listen-addr", cfg.ListenAddr, "Address the API server listens on")
	fs.StringVar(&cfg.StoreDriver, "store-driver", cfg.StoreDriver, "Storage driver (memory|sqlite)")
	fs.StringVar(&cfg.Metrics, "metrics", cfg.Metrics, "Metrics sink (prometheus|expvar|off)")
	fs.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Base URL of the API server the client talks to")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug|info|warn|error|fatal)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format (text|json|logfmt)")

	return fs.Parse(args)
}

// validate rejects settings no component could honour. The storage driver is
// validated where the store is opened.
func validate(cfg *Config) error {
	switch cfg.Metrics {
	case MetricsPrometheus, MetricsExpvar, MetricsOff:
	default:
		return fmt.Errorf("unsupported metrics sink %q", cfg.Metrics)
	}
	switch cfg.LogFormat {
	case "text", "json", "logfmt":
	default:
		return fmt.Errorf("unsupported log format %q", cfg.LogFormat)
	}
	return nil
}
