// chaindata-proxy is a small pass-through proxy in front of the chain
// data API. It adds the shared Redis cache, rate limit gating and retry
// behavior of pkg/client to any HTTP consumer, and exposes health and
// Prometheus endpoints.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Noves-Inc/noves-sdk-sub000/pkg/client"
	"github.com/Noves-Inc/noves-sdk-sub000/pkg/logging"
)

func main() {
	// Configuration from environment
	redisURL := getEnv("REDIS_URL", "localhost:6379")
	port := getEnv("PORT", "8080")
	apiKey := os.Getenv("CHAINDATA_API_KEY")
	baseURL := getEnv("CHAINDATA_BASE_URL", client.DefaultBaseURL)

	logging.Setup(logging.Config{
		Level:  logging.LogLevel(getEnv("LOG_LEVEL", "info")),
		Pretty: os.Getenv("LOG_PRETTY") == "true",
		Output: os.Stderr,
	})

	if apiKey == "" {
		log.Fatal().Msg("CHAINDATA_API_KEY is required")
	}

	// Setup Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})

	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Str("redis_url", redisURL).Msg("Failed to connect to Redis")
	}
	log.Info().Str("redis_url", redisURL).Msg("Connected to Redis")

	cfg := client.DefaultConfig(redisClient, apiKey)
	cfg.BaseURL = baseURL

	apiClient, err := client.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create chain data client")
	}
	defer apiClient.Close()

	// HTTP Server
	http.HandleFunc("/health", healthHandler)
	http.HandleFunc("/ready", readyHandler(redisClient))
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/api/", proxyHandler(apiClient))

	addr := ":" + port
	log.Info().Str("addr", addr).Str("base_url", baseURL).Msg("Starting chain data proxy")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// readyHandler reports readiness: the proxy is ready once Redis answers.
func readyHandler(redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			http.Error(w, fmt.Sprintf("redis unavailable: %v", err), http.StatusServiceUnavailable)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "OK")
	}
}

// proxyHandler forwards /api/* to the chain data API through the
// caching, rate-limited client.
// Example: /api/evm/eth/txs/0xabc?pageSize=25 -> /evm/eth/txs/0xabc?pageSize=25
func proxyHandler(apiClient *client.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		endpoint := strings.TrimPrefix(r.URL.Path, "/api")
		if r.URL.RawQuery != "" {
			endpoint += "?" + r.URL.RawQuery
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		resp, err := apiClient.Get(ctx, endpoint)
		if err != nil {
			http.Error(w, fmt.Sprintf("upstream request failed: %v", err), http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()

		for key, values := range resp.Header {
			for _, value := range values {
				w.Header().Add(key, value)
			}
		}
		w.WriteHeader(resp.StatusCode)

		if _, err := io.Copy(w, resp.Body); err != nil {
			log.Warn().Err(err).Str("endpoint", endpoint).Msg("Failed to write proxied response")
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
