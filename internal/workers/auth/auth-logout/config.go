package authlogout

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`
	// RevokeTimeout bounds the provider logout call. Zero means the job timeout.
	RevokeTimeout time.Duration `mapstructure:"revoke_timeout"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 10,
		Timeout:       10 * time.Second,
		RevokeTimeout: 5 * time.Second,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.RevokeTimeout < 0 || c.RevokeTimeout > c.Timeout {
		return fmt.Errorf("revoke_timeout must be between 0 and timeout")
	}
	return nil
}
