// internal/workers/analytics/predict-trends/config.go
package predicttrends

import (
	"time"

	"franchise-pos/internal/common/config"
)

const (
	minLookbackDays = 1
	maxLookbackDays = 90
)

type Config struct {
	Timeout      time.Duration
	LookbackDays int
	Location     *time.Location
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:      20 * time.Second,
		LookbackDays: 7,
		Location:     time.UTC,
	}
}

func NewConfig(wc config.WorkerConfig, pos config.POSConfig, loc *time.Location) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if pos.LookbackDays >= minLookbackDays && pos.LookbackDays <= maxLookbackDays {
		cfg.LookbackDays = pos.LookbackDays
	}
	if loc != nil {
		cfg.Location = loc
	}
	return cfg
}
