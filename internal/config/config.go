// Package config loads client settings from a YAML file and TREEKEEPER_*
// environment variables. Command-line flags are applied on top by the CLI.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Драйверы удаленного шлюза
const (
	DriverREST     = "rest"
	DriverPostgres = "postgres"
)

// EnvPrefix is the prefix of every environment override.
const EnvPrefix = "TREEKEEPER_"

// Config holds the client settings.
type Config struct {
	Remote       RemoteConfig       `yaml:"remote"`
	Store        StoreConfig        `yaml:"store"`
	Log          LogConfig          `yaml:"log"`
	Connectivity ConnectivityConfig `yaml:"connectivity"`
}

// RemoteConfig describes how to reach the system of record.
type RemoteConfig struct {
	Driver  string        `yaml:"driver"`  // rest или postgres
	URL     string        `yaml:"url"`     // базовый URL PostgREST-совместимого API
	APIKey  string        `yaml:"api_key"` // ключ для заголовка apikey
	DSN     string        `yaml:"dsn"`     // строка подключения для драйвера postgres
	Timeout time.Duration `yaml:"timeout"` // ограничение на один удаленный вызов
}

// StoreConfig describes the local cache.
type StoreConfig struct {
	Path string `yaml:"path"` // файл BoltDB
}

// ConnectivityConfig tunes the connectivity watcher.
type ConnectivityConfig struct {
	ProbeURL     string        `yaml:"probe_url"`     // адрес HEAD-проверки; по умолчанию <url>/rest/v1/
	ProbeTimeout time.Duration `yaml:"probe_timeout"` // таймаут проверки
	PollInterval time.Duration `yaml:"poll_interval"` // период опроса сетевых интерфейсов
}

// LogConfig configures slog output.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text или json
}

// Default returns the settings used when nothing is configured.
func Default() *Config {
	return &Config{
		Remote: RemoteConfig{
			Driver:  DriverREST,
			URL:     "http://localhost:8080",
			Timeout: 5 * time.Second,
		},
		Store: StoreConfig{
			Path: "treekeeper-client.db",
		},
		Connectivity: ConnectivityConfig{
			ProbeTimeout: 3 * time.Second,
			PollInterval: 10 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over the defaults and then applies environment
// overrides. An empty path skips the file.
func Load(path string, lookupEnv func(string) (string, bool)) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, err
		}
	}

	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	if err := cfg.applyEnv(lookupEnv); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

func (c *Config) applyEnv(lookupEnv func(string) (string, bool)) error {
	stringVars := map[string]*string{
		"REMOTE_DRIVER":  &c.Remote.Driver,
		"REMOTE_URL":     &c.Remote.URL,
		"REMOTE_API_KEY": &c.Remote.APIKey,
		"REMOTE_DSN":     &c.Remote.DSN,
		"STORE_PATH":     &c.Store.Path,
		"PROBE_URL":      &c.Connectivity.ProbeURL,
		"LOG_LEVEL":      &c.Log.Level,
		"LOG_FORMAT":     &c.Log.Format,
	}
	for key, dest := range stringVars {
		if value, ok := lookupEnv(EnvPrefix + key); ok {
			*dest = value
		}
	}

	durations := map[string]*time.Duration{
		"REMOTE_TIMEOUT": &c.Remote.Timeout,
		"PROBE_TIMEOUT":  &c.Connectivity.ProbeTimeout,
		"POLL_INTERVAL":  &c.Connectivity.PollInterval,
	}
	for key, dest := range durations {
		value, ok := lookupEnv(EnvPrefix + key)
		if !ok {
			continue
		}
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", EnvPrefix, key, err)
		}
		*dest = d
	}

	return nil
}

// Validate checks that the settings are usable.
func (c *Config) Validate() error {
	switch c.Remote.Driver {
	case DriverREST:
		if c.Remote.URL == "" {
			return fmt.Errorf("remote.url is required for the %s driver", DriverREST)
		}
	case DriverPostgres:
		if c.Remote.DSN == "" {
			return fmt.Errorf("remote.dsn is required for the %s driver", DriverPostgres)
		}
	default:
		return fmt.Errorf("unknown remote.driver %q: must be %s or %s", c.Remote.Driver, DriverREST, DriverPostgres)
	}

	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be positive")
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path cannot be empty")
	}
	if c.Connectivity.ProbeTimeout <= 0 {
		return fmt.Errorf("connectivity.probe_timeout must be positive")
	}
	if c.Connectivity.PollInterval <= 0 {
		return fmt.Errorf("connectivity.poll_interval must be positive")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("invalid log.format %q: must be text or json", c.Log.Format)
	}

	return nil
}

// ProbeURL returns the connectivity probe address. For the rest driver it
// defaults to the REST root; the postgres driver pings the pool instead.
func (c *Config) ProbeURL() string {
	if c.Connectivity.ProbeURL != "" {
		return c.Connectivity.ProbeURL
	}
	if c.Remote.Driver == DriverREST {
		return strings.TrimRight(c.Remote.URL, "/") + "/rest/v1/"
	}
	return ""
}

// Logger builds a slog logger writing to w.
func (c LogConfig) Logger(w io.Writer) *slog.Logger {
	level, err := parseLevel(c.Level)
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return level, fmt.Errorf("invalid log.level %q: %w", s, err)
	}
	return level, nil
}
