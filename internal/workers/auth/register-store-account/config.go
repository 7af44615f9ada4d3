package registerstoreaccount

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled           bool          `mapstructure:"enabled"`
	MaxJobsActive     int           `mapstructure:"max_jobs_active"`
	Timeout           time.Duration `mapstructure:"timeout"`
	StoreEmailDomain  string        `mapstructure:"store_email_domain"`
	MinPasswordLength int           `mapstructure:"min_password_length"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:           true,
		MaxJobsActive:     5,
		Timeout:           15 * time.Second,
		StoreEmailDomain:  "pos.local",
		MinPasswordLength: 8,
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.StoreEmailDomain == "" {
		return fmt.Errorf("store_email_domain is required")
	}
	if c.MinPasswordLength <= 0 {
		return fmt.Errorf("min_password_length must be positive")
	}
	return nil
}
