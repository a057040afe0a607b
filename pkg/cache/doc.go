// Package cache provides response caching for the chain data API with
// a Redis backend.
//
// The pagination engine itself never caches pages; this cache lives in
// the transport below it and is shared by every client instance that
// points at the same Redis. Collection pages are anchored to block or
// timestamp ranges, so cached responses only go stale at the head of a
// collection - the configured TTL bounds that staleness.
//
// # Basic Usage
//
//	redisClient := redis.NewClient(&redis.Options{
//		Addr: "localhost:6379",
//	})
//
//	manager := cache.NewManager(redisClient)
//
//	key := cache.Key{
//		Endpoint: "/evm/eth/txs/0xA1b2...",
//		QueryParams: url.Values{"pageSize": []string{"25"}},
//	}
//
//	entry, err := manager.Get(ctx, key)
//	if err == cache.ErrCacheMiss {
//		// fetch from the API
//	}
//
// # HTTP Response Caching
//
//	entry, err := cache.ResponseToEntry(resp, 60*time.Second)
//	if err != nil {
//		return err
//	}
//	if err := manager.Set(ctx, key, entry); err != nil {
//		return err
//	}
//
// # Metrics
//
// The cache manager exports Prometheus metrics:
//
//   - chaindata_cache_hits_total{layer="redis"} - Cache hits
//   - chaindata_cache_misses_total - Cache misses
//   - chaindata_cache_size_bytes{layer="redis"} - Cache size
//   - chaindata_cache_errors_total{operation} - Cache operation errors
package cache
