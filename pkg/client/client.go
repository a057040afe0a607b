// Package client provides the core chain data API HTTP client with
// API-key auth, rate limiting, response caching, retries and error
// classification. The per-ecosystem clients in pkg/translate sit on
// top of it and never talk HTTP themselves.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Noves-Inc/noves-sdk-sub000/pkg/cache"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/ratelimit"
)

// Prometheus metrics for API client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chaindata_requests_total",
		Help: "Total chain data API requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chaindata_request_duration_seconds",
		Help:    "Chain data API request duration in seconds by endpoint",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chaindata_errors_total",
		Help: "Total chain data API errors by class",
	}, []string{"class"})
)

// DefaultBaseURL is the hosted chain data API.
const DefaultBaseURL = "https://translate.noves.fi"

// Client is the chain data API transport.
type Client struct {
	httpClient  *http.Client
	redis       *redis.Client
	rateLimiter *ratelimit.Tracker
	cache       *cache.Manager
	config      Config
	logger      zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// Redis client for response caching and shared rate limit state
	Redis *redis.Client

	// APIKey is sent in the apikey header on every request (REQUIRED)
	APIKey string

	// BaseURL of the API (default: DefaultBaseURL)
	BaseURL string

	// User-Agent header
	UserAgent string

	// CacheTTL is how long successful GET responses are cached.
	// Collection pages are block-anchored, so a short TTL only bounds
	// staleness of the newest pages.
	CacheTTL time.Duration

	// Retry
	MaxRetries     int
	InitialBackoff time.Duration
}

// DefaultConfig returns a safe default configuration.
func DefaultConfig(redis *redis.Client, apiKey string) Config {
	return Config{
		Redis:          redis,
		APIKey:         apiKey,
		BaseURL:        DefaultBaseURL,
		UserAgent:      "noves-sdk-go/0.1.0",
		CacheTTL:       60 * time.Second,
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
	}
}

// New creates a new chain data API client.
func New(cfg Config) (*Client, error) {
	if cfg.Redis == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 60 * time.Second
	}

	logger := log.With().Str("component", "chaindata-client").Logger()

	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		redis:       cfg.Redis,
		rateLimiter: ratelimit.NewTracker(cfg.Redis, logger),
		cache:       cache.NewManager(cfg.Redis),
		config:      cfg,
		logger:      logger,
	}, nil
}

// Do performs an HTTP request with rate limiting, caching and retries.
// This is the core request method; GetJSON is the typed convenience on
// top of it.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	endpoint := req.URL.Path

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	// Step 1: rate limit gate
	allowed, err := c.rateLimiter.ShouldAllowRequest(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Rate limit check failed")
		return nil, fmt.Errorf("rate limit check: %w", err)
	}
	if !allowed {
		c.logger.Warn().
			Str("endpoint", endpoint).
			Msg("Request blocked by rate limiter")
		requestsTotal.WithLabelValues(endpoint, "rate_limited").Inc()
		return nil, fmt.Errorf("request blocked: rate limit critical")
	}

	// Step 2: cache lookup (GET only)
	cacheKey := cache.Key{
		Endpoint:    endpoint,
		QueryParams: req.URL.Query(),
	}

	if req.Method == http.MethodGet {
		entry, err := c.cache.Get(ctx, cacheKey)
		if err != nil && err != cache.ErrCacheMiss {
			c.logger.Warn().Err(err).Str("endpoint", endpoint).Msg("Cache get error")
		}
		if entry != nil {
			c.logger.Debug().
				Str("endpoint", endpoint).
				Dur("age", time.Since(entry.CachedAt)).
				Msg("Serving response from cache")
			requestsTotal.WithLabelValues(endpoint, "cache_hit").Inc()
			return cache.EntryToResponse(entry), nil
		}
	}

	// Step 3: auth and content headers
	req.Header.Set("apikey", c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("method", req.Method).
		Msg("Executing API request")

	// Step 4: execute with retry
	var resp *http.Response
	retryErr := retryWithBackoff(ctx, c.retryConfig(), func() error {
		var reqErr error
		resp, reqErr = c.httpClient.Do(req)
		if reqErr != nil {
			c.logger.Error().Err(reqErr).Str("endpoint", endpoint).Msg("HTTP request failed")
			errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
			requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
			return &APIError{ErrorClass: ErrorClassNetwork, Message: "request failed", Err: reqErr}
		}

		// Rate limit headers ride on every response, errors included.
		if err := c.rateLimiter.UpdateFromHeaders(ctx, resp.Header); err != nil {
			c.logger.Warn().Err(err).Msg("Failed to update rate limit from headers")
		}

		if resp.StatusCode >= 400 {
			class := ClassifyStatus(resp.StatusCode)
			errorsTotal.WithLabelValues(string(class)).Inc()
			requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()

			c.logger.Warn().
				Str("endpoint", endpoint).
				Int("status", resp.StatusCode).
				Str("error_class", string(class)).
				Msg("API request error")

			if shouldRetry(class) {
				apiErr := &APIError{
					StatusCode: resp.StatusCode,
					ErrorClass: class,
					Message:    resp.Status,
				}
				resp.Body.Close()
				return apiErr
			}

			// 4xx responses are returned to the caller as-is; GetJSON
			// maps them to typed errors.
			return nil
		}

		requestsTotal.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Inc()
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	// Step 5: cache fill on success
	if req.Method == http.MethodGet && resp.StatusCode == http.StatusOK {
		entry, err := cache.ResponseToEntry(resp, c.config.CacheTTL)
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to create cache entry")
		} else {
			if err := c.cache.Set(ctx, cacheKey, entry); err != nil {
				c.logger.Warn().Err(err).Msg("Failed to cache response")
			}
			// ResponseToEntry drained the body; hand the caller a
			// replayable copy.
			resp = cache.EntryToResponse(entry)
		}
	}

	return resp, nil
}

// Get performs a raw GET against an API endpoint path (query string
// included) and returns the response as-is. Used by the proxy; SDK
// callers normally want GetJSON.
func (c *Client) Get(ctx context.Context, endpoint string) (*http.Response, error) {
	u := strings.TrimRight(c.config.BaseURL, "/") + endpoint

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return c.Do(req)
}

// GetJSON performs a GET against path with the given query and decodes
// the JSON response into v. Non-2xx responses become *APIError with the
// API's message body when one is present. GetJSON is what satisfies
// translate.Getter.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, v any) error {
	u := strings.TrimRight(c.config.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.errorFromResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// errorFromResponse maps an error response to an *APIError, preferring
// the API's own message body.
func (c *Client) errorFromResponse(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		ErrorClass: ClassifyStatus(resp.StatusCode),
		Message:    resp.Status,
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil && len(body) > 0 {
		var payload struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(bytes.TrimSpace(body), &payload) == nil && payload.Message != "" {
			apiErr.Message = payload.Message
		}
	}

	return apiErr
}

func (c *Client) retryConfig() RetryConfig {
	cfg := DefaultRetryConfig()
	if c.config.MaxRetries > 0 {
		cfg.MaxAttempts = c.config.MaxRetries
	}
	if c.config.InitialBackoff > 0 {
		cfg.InitialBackoff = c.config.InitialBackoff
	}
	return cfg
}

// Close closes the client and releases resources.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Cache returns the cache manager (for testing).
func (c *Client) Cache() *cache.Manager {
	return c.cache
}
