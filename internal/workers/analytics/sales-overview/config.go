// internal/workers/analytics/sales-overview/config.go
package salesoverview

import (
	"time"

	"franchise-pos/internal/common/config"
)

type Config struct {
	Timeout  time.Duration
	CacheTTL time.Duration
	Location *time.Location
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:  15 * time.Second,
		CacheTTL: 5 * time.Minute,
		Location: time.UTC,
	}
}

func NewConfig(wc config.WorkerConfig, pos config.POSConfig, loc *time.Location) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if pos.SalesCacheTTL > 0 {
		cfg.CacheTTL = time.Duration(pos.SalesCacheTTL) * time.Second
	}
	if loc != nil {
		cfg.Location = loc
	}
	return cfg
}
