// internal/workers/billing/format-receipt/config.go
package formatreceipt

import (
	"time"

	"franchise-pos/internal/common/config"
	"franchise-pos/internal/receipt"
)

type Config struct {
	Timeout time.Duration
	Receipt receipt.Options
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
		Receipt: receipt.Options{
			Header:   receipt.DefaultHeader,
			Footer:   receipt.DefaultFooter,
			Location: time.UTC,
		},
	}
}

func NewConfig(wc config.WorkerConfig, pos config.POSConfig, loc *time.Location) *Config {
	cfg := DefaultConfig()
	if wc.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wc.Timeout)
	}
	if pos.ReceiptHeader != "" {
		cfg.Receipt.Header = pos.ReceiptHeader
	}
	if pos.ReceiptFooter != "" {
		cfg.Receipt.Footer = pos.ReceiptFooter
	}
	if loc != nil {
		cfg.Receipt.Location = loc
	}
	return cfg
}
