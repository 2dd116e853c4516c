package transport

import (
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"tattle/src/internal/config"
	"tattle/src/internal/version"

	"github.com/lixenwraith/log"
	"github.com/valyala/fasthttp"
)

// Client posts serialized batches to the remote log intake endpoint.
// Delivery is best-effort: a failed batch is counted and dropped, never
// retried, so a slow or unreachable endpoint cannot stall the flush loop.
type Client struct {
	config *config.IntakeConfig
	client *fasthttp.Client
	logger *log.Logger

	requestTimeout time.Duration

	// Statistics
	totalBatches  atomic.Uint64
	failedBatches atomic.Uint64
}

// NewClient creates an intake client with bounded connect and request
// timeouts taken from the configuration.
func NewClient(opts *config.IntakeConfig, logger *log.Logger) (*Client, error) {
	if opts == nil {
		return nil, fmt.Errorf("intake options cannot be nil")
	}
	if opts.URL == "" {
		return nil, fmt.Errorf("intake URL cannot be empty")
	}

	connectTimeout := time.Duration(opts.ConnectTimeoutMS) * time.Millisecond
	requestTimeout := time.Duration(opts.RequestTimeoutMS) * time.Millisecond

	c := &Client{
		config:         opts,
		logger:         logger,
		requestTimeout: requestTimeout,
	}

	c.client = &fasthttp.Client{
		MaxConnsPerHost:     4,
		MaxIdleConnDuration: 10 * time.Second,
		ReadTimeout:         requestTimeout,
		WriteTimeout:        requestTimeout,
		Dial: func(addr string) (net.Conn, error) {
			return fasthttp.DialTimeout(addr, connectTimeout)
		},
	}

	return c, nil
}

// Post ships one serialized batch. Any failure is final; the caller discards
// the payload.
func (c *Client) Post(body []byte) error {
	c.totalBatches.Add(1)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()

	req.SetRequestURI(c.config.URL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.Header.Set("User-Agent", fmt.Sprintf("tattle/%s", version.Short()))
	if c.config.APIKey != "" {
		req.Header.Set(c.config.APIKeyHeader, c.config.APIKey)
	}
	req.SetBody(body)

	err := c.client.DoTimeout(req, resp, c.requestTimeout)
	statusCode := resp.StatusCode()

	// Release immediately, not deferred
	fasthttp.ReleaseRequest(req)
	fasthttp.ReleaseResponse(resp)

	if err != nil {
		c.failedBatches.Add(1)
		return fmt.Errorf("request failed: %w", err)
	}

	if statusCode < 200 || statusCode >= 300 {
		c.failedBatches.Add(1)
		return fmt.Errorf("server returned status %d", statusCode)
	}

	return nil
}

// Stats returns the lifetime attempted and failed batch counts.
func (c *Client) Stats() (total, failed uint64) {
	return c.totalBatches.Load(), c.failedBatches.Load()
}
