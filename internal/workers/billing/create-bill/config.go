// internal/workers/billing/create-bill/config.go
package createbill

import (
	"fmt"
	"time"

	"franchise-pos/internal/common/config"
)

type Config struct {
	Timeout time.Duration
	// IndexTimeout bounds the best-effort search indexing after the write.
	IndexTimeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		IndexTimeout: 3 * time.Second,
	}
}

// NewConfig derives the worker config from its entry in the app config.
func NewConfig(wc config.WorkerConfig) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	return cfg
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.IndexTimeout <= 0 {
		return fmt.Errorf("index_timeout must be positive")
	}
	return nil
}
