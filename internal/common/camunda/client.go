// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"sync"
	"time"

	"franchise-pos/internal/common/config"
	"franchise-pos/internal/common/logger"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
)

// Client owns the gateway connection and every job worker opened on it.
type Client struct {
	zbc            zbc.Client
	requestTimeout time.Duration
	logger         logger.Logger

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

// Connect dials the gateway and verifies it with a topology request.
func Connect(ctx context.Context, cfg config.CamundaConfig, log logger.Logger) (*Client, error) {
	zeebeClient, err := zbc.NewClient(&zbc.ClientConfig{
		GatewayAddress:         cfg.BrokerAddress,
		UsePlaintextConnection: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Zeebe client: %w", err)
	}

	c := &Client{
		zbc:            zeebeClient,
		requestTimeout: config.GetDuration(cfg.RequestTimeout),
		logger:         log,
		workers:        make(map[string]worker.JobWorker),
	}
	if c.requestTimeout <= 0 {
		c.requestTimeout = 10 * time.Second
	}

	if err := c.Ready(ctx); err != nil {
		zeebeClient.Close()
		return nil, fmt.Errorf("failed to connect to Zeebe broker at %s: %w", cfg.BrokerAddress, err)
	}
	return c, nil
}

// Ready sends a topology request bounded by the configured request timeout.
func (c *Client) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.requestTimeout)
	defer cancel()

	if _, err := c.zbc.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe topology request failed: %w", err)
	}
	return nil
}

// Open starts a job worker for taskType unless the worker config disables
// it. It reports whether a worker was opened.
func (c *Client) Open(taskType string, wcfg config.WorkerConfig, handler worker.JobHandler) bool {
	if !wcfg.Enabled {
		c.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.workers[taskType]; exists {
		c.logger.Warn("worker already open", map[string]interface{}{"taskType": taskType})
		return false
	}

	c.workers[taskType] = c.zbc.NewJobWorker().
		JobType(taskType).
		Handler(handler).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	c.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// TaskTypes lists the task types with an open worker.
func (c *Client) TaskTypes() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.workers))
	for t := range c.workers {
		out = append(out, t)
	}
	return out
}

// Close stops polling, waits for in-flight jobs and closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	workers := c.workers
	c.workers = make(map[string]worker.JobWorker)
	c.mu.Unlock()

	for taskType, w := range workers {
		w.Close()
		w.AwaitClose()
		c.logger.Debug("worker stopped", map[string]interface{}{"taskType": taskType})
	}
	return c.zbc.Close()
}
