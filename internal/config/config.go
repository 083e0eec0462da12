// Package config provides configuration management for the screening service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	yaml "gopkg.in/yaml.v3"
)

// Service Defaults
const (
	// defaultPort is used when server.port is unset
	defaultPort = 8080
	// defaultReadTimeout is used when server.read_timeout is unset
	defaultReadTimeout = 15 * time.Second
	// defaultWriteTimeout is used when server.write_timeout is unset
	defaultWriteTimeout = 30 * time.Second
	// defaultShutdownTimeout bounds graceful drain when server.shutdown_timeout is unset
	defaultShutdownTimeout = 10 * time.Second
	// defaultRateLimit is the sustained requests-per-second budget when http.rate_limit is unset
	defaultRateLimit = 50.0
	// defaultRateBurst is used when http.rate_burst is unset
	defaultRateBurst = 25
	// defaultBatchLimit caps portfolios per batch request when http.batch_limit is unset
	defaultBatchLimit = 20
	// defaultConcurrency is the batch worker count when http.concurrency is unset
	defaultConcurrency = 4
)

// Config represents the complete application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Environment EnvironmentConfig `yaml:"environment"`
	HTTP        HTTPConfig        `yaml:"http"`
	Screener    ScreenerConfig    `yaml:"screener"`
}

// ServerConfig defines the HTTP listener settings.
type ServerConfig struct {
	Port      int    `yaml:"port"`
	AuthToken string `yaml:"auth_token"` // empty disables token auth
	// Timeouts are Go duration strings, e.g. "15s"
	ReadTimeout     string `yaml:"read_timeout"`
	WriteTimeout    string `yaml:"write_timeout"`
	ShutdownTimeout string `yaml:"shutdown_timeout"`
}

// EnvironmentConfig defines the runtime environment settings.
type EnvironmentConfig struct {
	LogLevel  string `yaml:"log_level"`  // debug | info | warn | error
	LogFormat string `yaml:"log_format"` // text | json
}

// HTTPConfig defines request handling limits.
type HTTPConfig struct {
	CORSOrigins []string `yaml:"cors_origins"`
	RateLimit   float64  `yaml:"rate_limit"` // sustained requests per second
	RateBurst   int      `yaml:"rate_burst"`
	BatchLimit  int      `yaml:"batch_limit"` // max portfolios per batch request
	Concurrency int      `yaml:"concurrency"` // parallel batch workers
}

// ScreenerConfig defines screening engine parameters.
type ScreenerConfig struct {
	// DistinctSingleLegTags enables the dedicated Long Call and Short Put
	// tags for uncovered legs. Unset means enabled.
	DistinctSingleLegTags *bool `yaml:"distinct_single_leg_tags"`
}

// DistinctTags reports whether uncovered long calls and short puts get their
// dedicated tags rather than the generic Naked tag.
func (c *ScreenerConfig) DistinctTags() bool {
	if c.DistinctSingleLegTags == nil {
		return true
	}
	return *c.DistinctSingleLegTags
}

// Load reads and parses the configuration file from the specified path.
// A .env file in the working directory is loaded first so that ${VAR}
// references in the YAML can resolve against it.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- configPath is a user-provided config file path
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables
	expanded := os.ExpandEnv(string(data))

	var config Config
	dec := yaml.NewDecoder(strings.NewReader(expanded))
	dec.KnownFields(true)
	if err := dec.Decode(&config); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate checks that all configuration values are valid and consistent.
func (c *Config) Validate() error {
	c.applyDefaults()

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got %d)", c.Server.Port)
	}
	if _, err := time.ParseDuration(c.Server.ReadTimeout); err != nil {
		return fmt.Errorf("server.read_timeout invalid: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.WriteTimeout); err != nil {
		return fmt.Errorf("server.write_timeout invalid: %w", err)
	}
	if _, err := time.ParseDuration(c.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("server.shutdown_timeout invalid: %w", err)
	}

	// Environment validation
	switch c.Environment.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("environment.log_level must be one of debug, info, warn, error (got %q)", c.Environment.LogLevel)
	}
	if c.Environment.LogFormat != "text" && c.Environment.LogFormat != "json" {
		return fmt.Errorf("environment.log_format must be 'text' or 'json' (got %q)", c.Environment.LogFormat)
	}

	// HTTP validation
	if c.HTTP.RateLimit <= 0 {
		return fmt.Errorf("http.rate_limit must be > 0")
	}
	if c.HTTP.RateBurst <= 0 {
		return fmt.Errorf("http.rate_burst must be > 0")
	}
	if c.HTTP.BatchLimit <= 0 {
		return fmt.Errorf("http.batch_limit must be > 0")
	}
	if c.HTTP.Concurrency <= 0 {
		return fmt.Errorf("http.concurrency must be > 0")
	}

	return nil
}

// Addr returns the listen address for the configured port.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// AuthEnabled returns true if request token auth is configured.
func (c *Config) AuthEnabled() bool {
	return c.Server.AuthToken != ""
}

// GetReadTimeout returns the configured server read timeout duration.
func (c *Config) GetReadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ReadTimeout)
	if err != nil {
		return defaultReadTimeout
	}
	return d
}

// GetWriteTimeout returns the configured server write timeout duration.
func (c *Config) GetWriteTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.WriteTimeout)
	if err != nil {
		return defaultWriteTimeout
	}
	return d
}

// GetShutdownTimeout returns the configured graceful shutdown budget.
func (c *Config) GetShutdownTimeout() time.Duration {
	d, err := time.ParseDuration(c.Server.ShutdownTimeout)
	if err != nil {
		return defaultShutdownTimeout
	}
	return d
}

// applyDefaults fills unset fields with their default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = defaultReadTimeout.String()
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = defaultWriteTimeout.String()
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = defaultShutdownTimeout.String()
	}
	if c.Environment.LogLevel == "" {
		c.Environment.LogLevel = "info"
	}
	if c.Environment.LogFormat == "" {
		c.Environment.LogFormat = "text"
	}
	if c.HTTP.RateLimit == 0 {
		c.HTTP.RateLimit = defaultRateLimit
	}
	if c.HTTP.RateBurst == 0 {
		c.HTTP.RateBurst = defaultRateBurst
	}
	if c.HTTP.BatchLimit == 0 {
		c.HTTP.BatchLimit = defaultBatchLimit
	}
	if c.HTTP.Concurrency == 0 {
		c.HTTP.Concurrency = defaultConcurrency
	}
}
