package jwtlite

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config represents codec configuration. Secrets are deliberately absent: they are
// passed to every Sign and Verify call instead.
type Config struct {
	// SigningMethod is the algorithm used when SignOptions.Algorithm is empty
	SigningMethod SigningMethod `yaml:"signing_method" json:"signing_method"`

	// ExpiresIn sets a relative expiry when SignOptions.ExpireDate is zero.
	// Zero means tokens never expire.
	ExpiresIn time.Duration `yaml:"expires_in" json:"expires_in"`

	// MaxAge is the grace period used when VerifyOptions.MaxAge is zero
	MaxAge time.Duration `yaml:"max_age" json:"max_age"`

	// IgnoreExpiration disables the expiry check for every Verify call
	IgnoreExpiration bool `yaml:"ignore_expiration" json:"ignore_expiration"`

	// Clock defaults to SystemClock
	Clock Clock `yaml:"-" json:"-"`

	// Logger receives debug entries for rejected operations. Defaults to a no-op logger.
	Logger *zap.Logger `yaml:"-" json:"-"`

	// Registerer enables Prometheus metrics when set
	Registerer prometheus.Registerer `yaml:"-" json:"-"`
}

// DefaultConfig returns the configuration matching the plain Sign and Verify behavior
func DefaultConfig() Config {
	return Config{
		SigningMethod:    DefaultSigningMethod,
		ExpiresIn:        0,
		MaxAge:           0,
		IgnoreExpiration: false,
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	if c == nil {
		return ErrInvalidConfig
	}

	if c.ExpiresIn < 0 {
		return fmt.Errorf("%w: expires_in must not be negative", ErrInvalidConfig)
	}

	switch c.SigningMethod {
	case SigningMethodHS256, SigningMethodHS384, SigningMethodHS512:
		return nil
	case "":
		return nil
	default:
		return ErrInvalidSigningMethod
	}
}

// LoadConfig reads a YAML configuration file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}
