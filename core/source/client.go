package source

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"parking-sync/core/metrics"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
)

// Client fetches the two payloads of the upstream API.
// Errors are returned as is; the client never retries.
type Client interface {
	// FetchSummary returns stall counts per car park and level.
	FetchSummary(ctx context.Context) (*Summary, error)
	// FetchDetailedState returns the state of every stall.
	FetchDetailedState(ctx context.Context) (*DetailedState, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *zap.Logger
}

// NewClient creates a new upstream API client based on the configuration.
func NewClient(cfg Config, logger *zap.Logger) (*HTTPClient, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("source base url is required")
	}
	if cfg.SummaryPath == "" {
		cfg.SummaryPath = DefaultSummaryPath
	}
	if cfg.DetailPath == "" {
		cfg.DetailPath = DefaultDetailPath
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	c := &HTTPClient{
		cfg: cfg,
		http: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: logger,
	}

	if cfg.BreakerThreshold > 0 {
		c.breaker = newBreaker(cfg, logger)
	}

	return c, nil
}

func newBreaker(cfg Config, logger *zap.Logger) *gobreaker.CircuitBreaker[[]byte] {
	settings := gobreaker.Settings{
		Name:    "parking-source",
		Timeout: time.Duration(cfg.BreakerTimeoutSeconds) * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.BreakerState.WithLabelValues(name).Set(float64(to))
			logger.Warn("Upstream circuit breaker changed state",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}
	return gobreaker.NewCircuitBreaker[[]byte](settings)
}

// FetchSummary returns stall counts per car park and level.
func (c *HTTPClient) FetchSummary(ctx context.Context) (*Summary, error) {
	body, err := c.get(ctx, "summary", c.cfg.SummaryPath)
	if err != nil {
		return nil, err
	}

	var summary Summary
	if err := json.Unmarshal(body, &summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary payload: %w", err)
	}
	return &summary, nil
}

// FetchDetailedState returns the state of every stall.
func (c *HTTPClient) FetchDetailedState(ctx context.Context) (*DetailedState, error) {
	body, err := c.get(ctx, "detail", c.cfg.DetailPath)
	if err != nil {
		return nil, err
	}

	var detail DetailedState
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("failed to decode detail payload: %w", err)
	}
	return &detail, nil
}

func (c *HTTPClient) get(ctx context.Context, endpoint, path string) ([]byte, error) {
	start := time.Now()

	var (
		body []byte
		err  error
	)
	if c.breaker != nil {
		body, err = c.breaker.Execute(func() ([]byte, error) {
			return c.do(ctx, path)
		})
	} else {
		body, err = c.do(ctx, path)
	}

	metrics.SourceRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SourceRequests.WithLabelValues(endpoint, metrics.OutcomeFailure).Inc()
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}
	metrics.SourceRequests.WithLabelValues(endpoint, metrics.OutcomeSuccess).Inc()
	return body, nil
}

func (c *HTTPClient) do(ctx context.Context, path string) ([]byte, error) {
	url := joinURL(c.cfg.BaseURL, path)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.Username != "" {
		req.SetBasicAuth(c.cfg.Username, c.cfg.Password)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the connection can be reused
		_, _ = io.CopyN(io.Discard, resp.Body, 4096)
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}

	return io.ReadAll(resp.Body)
}

func joinURL(base, path string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(path, "/")
}
