// Package config provides configuration management for the job crawler.
// Values come from an optional YAML file, .env files and environment
// variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jonesrussell/north-cloud/job-crawler/internal/config/crawler"
	"github.com/jonesrussell/north-cloud/job-crawler/internal/logger"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is read when no explicit path is given and the file exists.
const DefaultConfigFile = "config.yaml"

// Server defaults
const (
	defaultServerAddress         = ":8080"
	defaultServerReadTimeout     = 30 * time.Second
	defaultServerWriteTimeout    = 0 // SSE streams stay open
	defaultServerIdleTimeout     = 60 * time.Second
	defaultServerShutdownTimeout = 10 * time.Second
)

// Elasticsearch defaults
const (
	defaultElasticsearchURL   = "http://localhost:9200"
	defaultElasticsearchIndex = "job_listings"
)

// Config represents the application configuration.
type Config struct {
	App           AppConfig           `yaml:"app"`
	Logger        logger.Config       `yaml:"logger"`
	Crawler       *crawler.Config     `yaml:"crawler"`
	Server        ServerConfig        `yaml:"server"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Environment string `env:"APP_ENV"   yaml:"environment"`
	Debug       bool   `env:"APP_DEBUG" yaml:"debug"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Address         string        `env:"SERVER_ADDRESS"          yaml:"address"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     yaml:"read_timeout"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    yaml:"write_timeout"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT"     yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" yaml:"shutdown_timeout"`
}

// ElasticsearchConfig controls the optional result indexer.
type ElasticsearchConfig struct {
	Enabled  bool   `env:"ELASTICSEARCH_ENABLED"  yaml:"enabled"`
	URL      string `env:"ELASTICSEARCH_URL"      yaml:"url"`
	Index    string `env:"ELASTICSEARCH_INDEX"    yaml:"index"`
	Username string `env:"ELASTICSEARCH_USERNAME" yaml:"username"`
	Password string `env:"ELASTICSEARCH_PASSWORD" yaml:"password"`
	APIKey   string `env:"ELASTICSEARCH_API_KEY"  yaml:"api_key"`
}

// Load reads configuration from path. An empty path reads DefaultConfigFile
// when it exists and otherwise starts from defaults.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg := &Config{Crawler: crawler.New()}

	file := path
	if file == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			file = DefaultConfigFile
		}
	}

	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, &LoadError{File: file, Err: err}
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &LoadError{File: file, Err: fmt.Errorf("%w: %w", ErrConfigParseFailed, err)}
		}
	}

	applyEnvOverrides(cfg)
	cfg.SetDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default returns a configuration built only from defaults.
func Default() *Config {
	cfg := &Config{}
	cfg.SetDefaults()
	return cfg
}

// SetDefaults fills every zero-value field with its default.
func (c *Config) SetDefaults() {
	if c.Crawler == nil {
		c.Crawler = crawler.New()
	} else {
		c.Crawler.SetDefaults()
	}

	c.Logger.SetDefaults()
	if c.App.Debug {
		c.Logger.Level = "debug"
		c.Logger.Development = true
	}

	if c.Server.Address == "" {
		c.Server.Address = defaultServerAddress
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaultServerReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaultServerWriteTimeout
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = defaultServerIdleTimeout
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = defaultServerShutdownTimeout
	}

	if c.Elasticsearch.URL == "" {
		c.Elasticsearch.URL = defaultElasticsearchURL
	}
	if c.Elasticsearch.Index == "" {
		c.Elasticsearch.Index = defaultElasticsearchIndex
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Crawler.Validate(); err != nil {
		return &ValidationError{Field: "crawler", Value: c.Crawler.Origin, Reason: err.Error()}
	}
	switch c.Logger.Level {
	case "debug", "info", "warn", "warning", "error", "fatal":
	default:
		return &ValidationError{Field: "logger.level", Value: c.Logger.Level, Reason: "must be one of debug, info, warn, error, fatal"}
	}
	if c.Server.Address == "" {
		return &ValidationError{Field: "server.address", Value: c.Server.Address, Reason: "is required"}
	}
	if c.Elasticsearch.Enabled && c.Elasticsearch.Index == "" {
		return &ValidationError{Field: "elasticsearch.index", Value: c.Elasticsearch.Index, Reason: "is required when enabled"}
	}
	return nil
}

// Common configuration errors
var (
	// ErrConfigParseFailed is returned when parsing the configuration fails
	ErrConfigParseFailed = errors.New("failed to parse configuration")
	// ErrConfigInvalid is returned when the configuration is invalid
	ErrConfigInvalid = errors.New("invalid configuration")
)

// ValidationError represents an error in configuration validation
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid config: field %q with value %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets callers match ErrConfigInvalid.
func (e *ValidationError) Unwrap() error {
	return ErrConfigInvalid
}

// LoadError represents an error loading configuration
type LoadError struct {
	File string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load config from %s: %v", e.File, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
