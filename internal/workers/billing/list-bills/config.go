// internal/workers/billing/list-bills/config.go
package listbills

import (
	"time"

	"franchise-pos/internal/common/config"
)

type Config struct {
	Timeout      time.Duration
	DefaultLimit int
	MaxLimit     int
	Location     *time.Location
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      10 * time.Second,
		DefaultLimit: 50,
		MaxLimit:     500,
		Location:     time.UTC,
	}
}

// NewConfig applies the worker entry and the POS settings to the defaults.
func NewConfig(wc config.WorkerConfig, pos config.POSConfig, loc *time.Location) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if pos.MaxBillListLimit > 0 {
		cfg.MaxLimit = pos.MaxBillListLimit
	}
	if loc != nil {
		cfg.Location = loc
	}
	return cfg
}
