// internal/common/http/client.go

// Package http wraps net/http for outbound calls to third-party services.
package http

import (
	"net/http"
	"strconv"
	"time"

	"franchise-pos/internal/common/metrics"
)

// Client records the outcome and latency of every request under the name of
// the service it talks to.
type Client struct {
	service    string
	httpClient *http.Client
}

func NewClient(service string, timeout time.Duration) *Client {
	return NewClientWithTransport(service, timeout, nil)
}

// NewClientWithTransport uses rt instead of the default transport when it is
// not nil.
func NewClientWithTransport(service string, timeout time.Duration, rt http.RoundTripper) *Client {
	return &Client{
		service:    service,
		httpClient: &http.Client{Timeout: timeout, Transport: rt},
	}
}

func (c *Client) Service() string {
	return c.service
}

// Do sends req as is. The request context bounds the call together with the
// client timeout.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)

	status := "error"
	if err == nil {
		status = statusClass(resp.StatusCode)
	}
	metrics.OutboundRequests.WithLabelValues(c.service, req.Method, status).Inc()
	metrics.OutboundRequestDuration.WithLabelValues(c.service).Observe(time.Since(start).Seconds())
	return resp, err
}

func statusClass(code int) string {
	return strconv.Itoa(code/100) + "xx"
}
