// internal/workers/billing/export-bills/config.go
package exportbills

import (
	"time"

	"franchise-pos/internal/common/config"
)

type Config struct {
	Timeout        time.Duration
	MaxBills       int
	FilenamePrefix string
	Location       *time.Location
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		MaxBills:       500,
		FilenamePrefix: "bills",
		Location:       time.UTC,
	}
}

func NewConfig(wc config.WorkerConfig, pos config.POSConfig, loc *time.Location) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if pos.MaxBillListLimit > 0 {
		cfg.MaxBills = pos.MaxBillListLimit
	}
	if pos.ExportFilenamePrefix != "" {
		cfg.FilenamePrefix = pos.ExportFilenamePrefix
	}
	if loc != nil {
		cfg.Location = loc
	}
	return cfg
}
