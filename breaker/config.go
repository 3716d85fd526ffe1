package breaker

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Predefined config error types.
var (
	// ErrConfigNameRequired indicates that a configuration name is required.
	ErrConfigNameRequired = errors.New("config name is required")
	// ErrThresholdInvalid indicates a negative failure threshold.
	ErrThresholdInvalid = errors.New("failure threshold must not be negative")
	// ErrResetTimeoutInvalid indicates an unparseable reset timeout.
	ErrResetTimeoutInvalid = errors.New("reset timeout is not a valid duration")
)

// Config describes a breaker declaratively. Zero values fall back to the
// breaker defaults, matching New.
type Config struct {
	Name             string `json:"name"             yaml:"name"`
	FailureThreshold int    `json:"failureThreshold" yaml:"failureThreshold"`
	ResetTimeout     string `json:"resetTimeout"     yaml:"resetTimeout"` // Go duration string, e.g. "10s"
}

// LoadConfig loads a breaker configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return ParseConfig(data)
}

// ParseConfig parses and validates a breaker configuration from YAML bytes.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Name == "" {
		return ErrConfigNameRequired
	}

	if c.FailureThreshold < 0 {
		return fmt.Errorf("%w: %d", ErrThresholdInvalid, c.FailureThreshold)
	}

	if c.ResetTimeout != "" {
		if _, err := time.ParseDuration(c.ResetTimeout); err != nil {
			return fmt.Errorf("%w: %q", ErrResetTimeoutInvalid, c.ResetTimeout)
		}
	}

	return nil
}

// NewFromConfig creates a breaker from a validated configuration. Options
// passed here are applied after the configuration and take precedence.
func NewFromConfig(config *Config, opts ...Option) (*Breaker, error) {
	err := config.Validate()
	if err != nil {
		return nil, err
	}

	all := []Option{
		WithName(config.Name),
		WithFailureThreshold(config.FailureThreshold),
	}

	if config.ResetTimeout != "" {
		timeout, err := time.ParseDuration(config.ResetTimeout)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrResetTimeoutInvalid, config.ResetTimeout)
		}

		all = append(all, WithResetTimeout(timeout))
	}

	all = append(all, opts...)

	return New(all...), nil
}
