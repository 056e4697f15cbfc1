// Package config loads client settings from YAML and ZOHOCRM_* variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rubyzoho/zohocrm.go/pkg/constants"
)

// Config is the root configuration structure.
type Config struct {
	AuthToken string `yaml:"auth_token"`
	BaseURL   string `yaml:"base_url"`
	// Modules are custom modules added to the built-in ones.
	Modules []string `yaml:"modules"`
	// IgnoreFields are never encoded or decoded.
	IgnoreFields []string `yaml:"ignore_fields"`
	// FieldsFile, when set, supplies field metadata instead of asking the service.
	FieldsFile string        `yaml:"fields_file"`
	Timeout    time.Duration `yaml:"timeout"`
	Logging    LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "console"
	Path   string `yaml:"path"`
}

// Environment variables read by LoadFromEnv and applied over file settings.
const (
	EnvAuthToken    = "ZOHOCRM_AUTH_TOKEN"
	EnvBaseURL      = "ZOHOCRM_BASE_URL"
	EnvModules      = "ZOHOCRM_MODULES"
	EnvIgnoreFields = "ZOHOCRM_IGNORE_FIELDS"
	EnvFieldsFile   = "ZOHOCRM_FIELDS_FILE"
	EnvTimeout      = "ZOHOCRM_TIMEOUT"
	EnvLogLevel     = "ZOHOCRM_LOG_LEVEL"
	EnvLogFormat    = "ZOHOCRM_LOG_FORMAT"
)

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, expanding ${VAR} references first.
func Parse(data []byte) (*Config, error) {
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadFromEnv creates configuration entirely from environment variables.
func LoadFromEnv() (*Config, error) {
	var cfg Config

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

// LoadWithFallback loads path if it exists, otherwise the environment.
func LoadWithFallback(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	if os.Getenv(EnvAuthToken) != "" {
		return LoadFromEnv()
	}
	return nil, fmt.Errorf("no configuration found: provide a config file or set %s", EnvAuthToken)
}

// Validate checks the settings a client cannot run without.
func (c *Config) Validate() error {
	var errs []error
	if c.AuthToken == "" {
		errs = append(errs, constants.ErrNoAuthToken)
	}
	if c.BaseURL == "" {
		errs = append(errs, constants.ErrNoBaseURL)
	}
	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout must not be negative: %s", c.Timeout))
	}
	return errors.Join(errs...)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvAuthToken); v != "" {
		cfg.AuthToken = v
	}
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv(EnvModules); v != "" {
		cfg.Modules = splitList(v)
	}
	if v := os.Getenv(EnvIgnoreFields); v != "" {
		cfg.IgnoreFields = splitList(v)
	}
	if v := os.Getenv(EnvFieldsFile); v != "" {
		cfg.FieldsFile = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Timeout = d
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
}

func setDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = constants.DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = constants.DefaultHTTPTimeout
	}
	cfg.Logging.Level = GetEnvOrDefault(EnvLogLevel, orDefault(cfg.Logging.Level, "info"))
	cfg.Logging.Format = orDefault(cfg.Logging.Format, "json")
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// GetEnvOrDefault returns the environment value of key, or defaultValue when
// it is unset or empty.
func GetEnvOrDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	return value
}
