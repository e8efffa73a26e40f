// Package crawler provides configuration for the listing crawler: the target
// site origin, politeness delay and transport settings.
package crawler

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Default configuration values
const (
	DefaultOrigin      = "https://duunitori.fi"
	DefaultDelay       = 100 * time.Millisecond
	DefaultUserAgent   = "job-crawler/1.0"
	DefaultTimeout     = 30 * time.Second
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB
	// DefaultEventBuffer is the capacity of a run's event channel.
	DefaultEventBuffer = 64
)

// Config represents the crawler configuration.
type Config struct {
	// Origin is the scheme and host of the job site. Listing and detail
	// links are resolved against it.
	Origin string `env:"CRAWLER_ORIGIN" yaml:"origin"`
	// Delay is the fixed courtesy delay between requests.
	Delay time.Duration `env:"CRAWLER_DELAY" yaml:"delay"`
	// RequestTimeout is the transport timeout for each request.
	RequestTimeout time.Duration `env:"CRAWLER_REQUEST_TIMEOUT" yaml:"request_timeout"`
	// UserAgent is the user agent to use for requests.
	UserAgent string `env:"CRAWLER_USER_AGENT" yaml:"user_agent"`
	// MaxBodySize is the maximum response body size in bytes.
	MaxBodySize int `env:"CRAWLER_MAX_BODY_SIZE" yaml:"max_body_size"`
	// EventBuffer is the capacity of the per-run event channel.
	EventBuffer int `env:"CRAWLER_EVENT_BUFFER" yaml:"event_buffer"`
}

// New creates a new crawler configuration with the given options.
func New(opts ...Option) *Config {
	cfg := &Config{
		Origin:         DefaultOrigin,
		Delay:          DefaultDelay,
		RequestTimeout: DefaultTimeout,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		EventBuffer:    DefaultEventBuffer,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// SetDefaults fills zero-value fields. A zero Delay is kept: it disables the
// courtesy delay, which tests rely on.
func (c *Config) SetDefaults() {
	if c.Origin == "" {
		c.Origin = DefaultOrigin
	}
	if c.RequestTimeout == 0 {
		c.RequestTimeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.MaxBodySize == 0 {
		c.MaxBodySize = DefaultMaxBodySize
	}
	if c.EventBuffer == 0 {
		c.EventBuffer = DefaultEventBuffer
	}
}

// Validate validates the crawler configuration.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Origin)
	if err != nil {
		return fmt.Errorf("origin: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return errors.New("origin must be an absolute URL")
	}
	if c.Delay < 0 {
		return errors.New("delay must be non-negative")
	}
	if c.RequestTimeout < 0 {
		return errors.New("request_timeout must be non-negative")
	}
	if c.MaxBodySize < 0 {
		return errors.New("max_body_size must be non-negative")
	}
	if c.EventBuffer < 0 {
		return errors.New("event_buffer must be non-negative")
	}
	return nil
}

// Option is a function that configures a crawler configuration.
type Option func(*Config)

// WithOrigin sets the site origin.
func WithOrigin(origin string) Option {
	return func(c *Config) {
		c.Origin = strings.TrimRight(origin, "/")
	}
}

// WithDelay sets the delay between requests.
func WithDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.Delay = delay
	}
}

// WithRequestTimeout sets the request timeout.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.RequestTimeout = timeout
	}
}

// WithUserAgent sets the user agent.
func WithUserAgent(agent string) Option {
	return func(c *Config) {
		c.UserAgent = agent
	}
}

// WithEventBuffer sets the per-run event channel capacity. Zero makes every
// event a handoff to the consumer.
func WithEventBuffer(size int) Option {
	return func(c *Config) {
		c.EventBuffer = size
	}
}

// ParseDelay parses a delay string into a time.Duration.
// Accepts Go duration strings ("100ms", "1s") or bare numbers as seconds ("0.5", "2").
func ParseDelay(delay string) (time.Duration, error) {
	delay = strings.TrimSpace(delay)
	if delay == "" {
		return 0, errors.New("delay cannot be empty")
	}

	d, err := time.ParseDuration(delay)
	if err != nil {
		if f, parseErr := strconv.ParseFloat(delay, 64); parseErr == nil && f >= 0 {
			return time.Duration(f * float64(time.Second)), nil
		}
		return 0, fmt.Errorf("error parsing duration: %w", err)
	}

	if d < 0 {
		return 0, errors.New("delay must be non-negative")
	}

	return d, nil
}
