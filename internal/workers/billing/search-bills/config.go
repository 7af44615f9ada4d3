// internal/workers/billing/search-bills/config.go
package searchbills

import (
	"time"

	"franchise-pos/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	Location *time.Location
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:  5 * time.Second,
		Location: time.UTC,
	}
}

func NewConfig(wc config.WorkerConfig, loc *time.Location) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if loc != nil {
		cfg.Location = loc
	}
	return cfg
}
