package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Noves-Inc/noves-sdk-sub000/pkg/ratelimit"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/types"
)

// setupTestRedis creates a test Redis client.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15, // Use a separate DB for tests
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}

	// Flush test DB
	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

// writeRateLimitHeaders marks the response as well within budget so the
// tracker stays out of the way of the behavior under test.
func writeRateLimitHeaders(w http.ResponseWriter) {
	w.Header().Set("X-RateLimit-Remaining", "100")
	w.Header().Set("X-RateLimit-Reset", "60")
}

func TestNew_Validation(t *testing.T) {
	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer redisClient.Close()

	tests := []struct {
		name        string
		config      Config
		expectError bool
		errorMsg    string
	}{
		{
			name: "valid config",
			config: Config{
				Redis:  redisClient,
				APIKey: "test-key",
			},
			expectError: false,
		},
		{
			name: "nil redis",
			config: Config{
				APIKey: "test-key",
			},
			expectError: true,
			errorMsg:    "redis client is required",
		},
		{
			name: "empty api key",
			config: Config{
				Redis: redisClient,
			},
			expectError: true,
			errorMsg:    "api key is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := New(tt.config)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got nil")
					return
				}
				if tt.errorMsg != "" && err.Error() != tt.errorMsg {
					t.Errorf("Error message = %q, want %q", err.Error(), tt.errorMsg)
				}
			} else {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
					return
				}
				if client == nil {
					t.Error("Client is nil")
				}
			}
		})
	}
}

func TestNew_Defaults(t *testing.T) {
	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer redisClient.Close()

	client, err := New(Config{Redis: redisClient, APIKey: "test-key"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	if client.config.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", client.config.BaseURL, DefaultBaseURL)
	}
	if client.config.CacheTTL <= 0 {
		t.Errorf("CacheTTL = %v, should be > 0", client.config.CacheTTL)
	}
}

func TestDefaultConfig(t *testing.T) {
	redisClient := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	defer redisClient.Close()

	cfg := DefaultConfig(redisClient, "test-key")

	if cfg.Redis != redisClient {
		t.Error("Redis client not set correctly")
	}
	if cfg.APIKey != "test-key" {
		t.Errorf("APIKey = %q, want %q", cfg.APIKey, "test-key")
	}
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.BaseURL, DefaultBaseURL)
	}
	if cfg.MaxRetries <= 0 {
		t.Errorf("MaxRetries = %d, should be > 0", cfg.MaxRetries)
	}
}

func TestDo_AuthHeaders(t *testing.T) {
	redisClient := setupTestRedis(t)

	apiKeyReceived := ""
	userAgentReceived := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKeyReceived = r.Header.Get("apikey")
		userAgentReceived = r.Header.Get("User-Agent")
		writeRateLimitHeaders(w)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"test": "data"}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	req, _ := http.NewRequest("GET", server.URL+"/test", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	resp.Body.Close()

	if apiKeyReceived != "test-key" {
		t.Errorf("apikey header = %q, want %q", apiKeyReceived, "test-key")
	}
	if userAgentReceived != cfg.UserAgent {
		t.Errorf("User-Agent = %q, want %q", userAgentReceived, cfg.UserAgent)
	}
}

func TestDo_RateLimitBlock(t *testing.T) {
	redisClient := setupTestRedis(t)

	// Pre-populate Redis with critical rate limit state
	ctx := context.Background()
	now := time.Now()
	redisClient.Set(ctx, ratelimit.RedisKeyRemaining, 3, 0)
	redisClient.Set(ctx, ratelimit.RedisKeyResetTimestamp, now.Add(60*time.Second).Unix(), 0)
	lastUpdateJSON, _ := json.Marshal(now)
	redisClient.Set(ctx, ratelimit.RedisKeyLastUpdate, lastUpdateJSON, 0)

	cfg := DefaultConfig(redisClient, "test-key")
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	req, _ := http.NewRequest("GET", "http://example.com/test", nil)
	_, err = client.Do(req)

	if err == nil {
		t.Error("Expected request to be blocked by rate limiter")
	}
	if err != nil && err.Error() != "request blocked: rate limit critical" {
		t.Errorf("Error = %q, want rate limit block error", err.Error())
	}
}

func TestDo_CacheHit(t *testing.T) {
	redisClient := setupTestRedis(t)

	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		writeRateLimitHeaders(w)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"test": "data"}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	// First request - hits the server and fills the cache
	req1, _ := http.NewRequest("GET", server.URL+"/test", nil)
	resp1, err := client.Do(req1)
	if err != nil {
		t.Fatalf("First request failed: %v", err)
	}
	body1, _ := io.ReadAll(resp1.Body)
	resp1.Body.Close()

	if requestCount != 1 {
		t.Errorf("Request count after first request = %d, want 1", requestCount)
	}

	// Second request - served from cache, never reaches the server
	req2, _ := http.NewRequest("GET", server.URL+"/test", nil)
	resp2, err := client.Do(req2)
	if err != nil {
		t.Fatalf("Second request failed: %v", err)
	}
	body2, _ := io.ReadAll(resp2.Body)
	resp2.Body.Close()

	if requestCount != 1 {
		t.Errorf("Request count after second request = %d, want 1 (cache hit)", requestCount)
	}
	if string(body1) != string(body2) {
		t.Errorf("Cached body = %q, want %q", body2, body1)
	}
}

func TestDo_NoCacheOnError(t *testing.T) {
	redisClient := setupTestRedis(t)

	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestCount++
		writeRateLimitHeaders(w)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message": "account not found"}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	for i := 0; i < 2; i++ {
		req, _ := http.NewRequest("GET", server.URL+"/test", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("Request %d failed: %v", i+1, err)
		}
		resp.Body.Close()
	}

	// Error responses are never cached, both requests reach the server.
	if requestCount != 2 {
		t.Errorf("Request count = %d, want 2", requestCount)
	}
}

func TestDo_RetryOnServerError(t *testing.T) {
	redisClient := setupTestRedis(t)

	// Server that fails twice, then succeeds
	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount++
		writeRateLimitHeaders(w)

		if attemptCount < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	cfg.InitialBackoff = 10 * time.Millisecond
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	req, _ := http.NewRequest("GET", server.URL+"/test", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 after retry, got %d", resp.StatusCode)
	}
	if attemptCount != 3 {
		t.Errorf("Expected 3 attempts (2 retries), got %d", attemptCount)
	}
}

func TestDo_NoRetryOnClientError(t *testing.T) {
	redisClient := setupTestRedis(t)

	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount++
		writeRateLimitHeaders(w)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	req, _ := http.NewRequest("GET", server.URL+"/test", nil)
	resp, err := client.Do(req)

	// Should not error out, but return the 404 response
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
	if attemptCount != 1 {
		t.Errorf("Expected 1 attempt (no retry for 4xx), got %d", attemptCount)
	}
}

func TestDo_RetryOnRateLimit(t *testing.T) {
	redisClient := setupTestRedis(t)

	// Server that returns 429 once, then succeeds
	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount++
		writeRateLimitHeaders(w)

		if attemptCount == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	cfg.InitialBackoff = 10 * time.Millisecond
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	req, _ := http.NewRequest("GET", server.URL+"/test", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200 after retry, got %d", resp.StatusCode)
	}
	if attemptCount != 2 {
		t.Errorf("Expected 2 attempts (1 retry), got %d", attemptCount)
	}
}

func TestDo_RetryExhausted(t *testing.T) {
	redisClient := setupTestRedis(t)

	attemptCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attemptCount++
		writeRateLimitHeaders(w)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	cfg.InitialBackoff = 10 * time.Millisecond
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	req, _ := http.NewRequest("GET", server.URL+"/test", nil)
	_, err = client.Do(req)

	if err == nil {
		t.Error("Expected error, got nil")
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Expected ErrRetryExhausted, got %v", err)
	}
	if attemptCount != 3 {
		t.Errorf("Expected 3 attempts, got %d", attemptCount)
	}
}

func TestGetJSON(t *testing.T) {
	redisClient := setupTestRedis(t)

	queryReceived := ""
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		queryReceived = r.URL.RawQuery
		writeRateLimitHeaders(w)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{
			"items": [{"hash": "0xaaa", "blockNumber": 100, "timestamp": 1660000100}],
			"pageSize": 1,
			"hasNextPage": false,
			"nextPageUrl": ""
		}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	cfg.BaseURL = server.URL
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	var payload struct {
		Items []types.Transaction `json:"items"`
	}
	opts := types.PageOptions{PageSize: types.Int(1)}
	if err := client.GetJSON(context.Background(), "/evm/eth/txs/0xabc", opts.Query(), &payload); err != nil {
		t.Fatalf("GetJSON() failed: %v", err)
	}

	if queryReceived != "pageSize=1" {
		t.Errorf("Query = %q, want %q", queryReceived, "pageSize=1")
	}
	if len(payload.Items) != 1 || payload.Items[0].Hash != "0xaaa" {
		t.Errorf("Unexpected payload: %+v", payload)
	}
}

func TestGetJSON_ErrorResponse(t *testing.T) {
	redisClient := setupTestRedis(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeRateLimitHeaders(w)
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message": "unsupported chain: foo"}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	cfg.BaseURL = server.URL
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	var payload map[string]any
	err = client.GetJSON(context.Background(), "/evm/foo/txs/0xabc", nil, &payload)
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d, want %d", apiErr.StatusCode, http.StatusBadRequest)
	}
	if apiErr.ErrorClass != ErrorClassClient {
		t.Errorf("ErrorClass = %q, want %q", apiErr.ErrorClass, ErrorClassClient)
	}
	if apiErr.Message != "unsupported chain: foo" {
		t.Errorf("Message = %q, want API message body", apiErr.Message)
	}
}

func TestDo_UpdatesRateLimitState(t *testing.T) {
	redisClient := setupTestRedis(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-RateLimit-Remaining", "42")
		w.Header().Set("X-RateLimit-Reset", "30")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	cfg := DefaultConfig(redisClient, "test-key")
	client, err := New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	req, _ := http.NewRequest("GET", server.URL+"/test", nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Do() failed: %v", err)
	}
	resp.Body.Close()

	remaining, err := redisClient.Get(context.Background(), ratelimit.RedisKeyRemaining).Int()
	if err != nil {
		t.Fatalf("Failed to read rate limit state: %v", err)
	}
	if remaining != 42 {
		t.Errorf("Remaining = %d, want 42", remaining)
	}
}
