// Package ratelimit provides per-client request limiting for the generation
// endpoint, backed by github.com/ulule/limiter.
package ratelimit

import (
	"errors"
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"
)

// Mode selects the limiter backend.
type Mode string

const (
	ModeDisabled Mode = "disabled"
	ModeMemory   Mode = "memory"
	ModeRedis    Mode = "redis"
)

// DefaultPrefix namespaces limiter keys in the store. The store joins it
// to the client key with a colon.
const DefaultPrefix = "doc2code:ratelimit"

// Config represents rate limiting configuration.
type Config struct {
	Mode     Mode          `yaml:"mode"`
	Limit    int64         `yaml:"limit"`
	Period   time.Duration `yaml:"period"`
	Prefix   string        `yaml:"prefix"`
	FailOpen bool          `yaml:"fail_open"`
}

// DefaultConfig allows 10 generations per client per hour, in memory.
func DefaultConfig() Config {
	return Config{
		Mode:     ModeMemory,
		Limit:    10,
		Period:   time.Hour,
		Prefix:   DefaultPrefix,
		FailOpen: true,
	}
}

// ToLimiterRate converts the config to a limiter.Rate.
func (c Config) ToLimiterRate() limiter.Rate {
	return limiter.Rate{
		Period: c.Period,
		Limit:  c.Limit,
	}
}

// Validate validates the configuration.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeDisabled:
		return nil
	case ModeMemory, ModeRedis:
	default:
		return fmt.Errorf("invalid rate limit mode %q (must be disabled, memory or redis)", c.Mode)
	}

	var errs []error
	if c.Limit <= 0 {
		errs = append(errs, errors.New("rate limit must be positive"))
	}
	if c.Period <= 0 {
		errs = append(errs, errors.New("rate limit period must be positive"))
	}
	return errors.Join(errs...)
}
