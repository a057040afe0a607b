package cache

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
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

	if err := client.FlushDB(ctx).Err(); err != nil {
		t.Fatalf("Failed to flush test DB: %v", err)
	}

	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})

	return client
}

func testKey() Key {
	return Key{
		Endpoint:    "/evm/eth/txs/0xA1b2",
		QueryParams: url.Values{"pageSize": []string{"25"}},
	}
}

func testEntry(ttl time.Duration) *Entry {
	now := time.Now()
	return &Entry{
		Data:       []byte(`{"items": []}`),
		StatusCode: 200,
		CachedAt:   now,
		ExpiresAt:  now.Add(ttl),
	}
}

func TestNewManager_NilRedis(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for nil redis client")
		}
	}()

	NewManager(nil)
}

func TestManager_SetAndGet(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient)
	ctx := context.Background()

	key := testKey()
	entry := testEntry(60 * time.Second)

	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	got, err := manager.Get(ctx, key)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}

	if string(got.Data) != string(entry.Data) {
		t.Errorf("Data = %q, want %q", got.Data, entry.Data)
	}
	if got.StatusCode != entry.StatusCode {
		t.Errorf("StatusCode = %d, want %d", got.StatusCode, entry.StatusCode)
	}
}

func TestManager_Get_CacheMiss(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient)

	_, err := manager.Get(context.Background(), testKey())
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestManager_Set_ExpiredEntryDropped(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient)
	ctx := context.Background()

	key := testKey()
	entry := testEntry(-1 * time.Second)

	// Already-expired entries are a no-op
	if err := manager.Set(ctx, key, entry); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	_, err := manager.Get(ctx, key)
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss for expired entry, got %v", err)
	}
}

func TestManager_Set_NilEntry(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient)

	if err := manager.Set(context.Background(), testKey(), nil); err == nil {
		t.Error("Expected error for nil entry")
	}
}

func TestManager_Delete(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient)
	ctx := context.Background()

	key := testKey()
	if err := manager.Set(ctx, key, testEntry(60*time.Second)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	if err := manager.Delete(ctx, key); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}

	_, err := manager.Get(ctx, key)
	if !errors.Is(err, ErrCacheMiss) {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestManager_Get_InvalidEntry(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient)
	ctx := context.Background()

	key := testKey()
	if err := redisClient.Set(ctx, key.String(), "not json", 0).Err(); err != nil {
		t.Fatalf("Failed to seed invalid entry: %v", err)
	}

	_, err := manager.Get(ctx, key)
	if !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("Expected ErrInvalidEntry, got %v", err)
	}
}

func TestManager_RedisTTL(t *testing.T) {
	redisClient := setupTestRedis(t)
	manager := NewManager(redisClient)
	ctx := context.Background()

	key := testKey()
	if err := manager.Set(ctx, key, testEntry(60*time.Second)); err != nil {
		t.Fatalf("Set() failed: %v", err)
	}

	// Redis key TTL should mirror the entry's lifetime
	ttl, err := redisClient.TTL(ctx, key.String()).Result()
	if err != nil {
		t.Fatalf("TTL() failed: %v", err)
	}
	if ttl <= 0 || ttl > 60*time.Second {
		t.Errorf("Redis TTL = %v, want (0, 60s]", ttl)
	}
}
