package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/therabridge/therabridge-backend/internal/database"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// ProfileCacheTTL applies to therapist profiles served to the directory
	ProfileCacheTTL = 1 * time.Hour
	// CountCacheTTL applies to unread counts; counts are also invalidated on
	// every notification write, so the TTL is only a backstop
	CountCacheTTL = 10 * time.Minute
)

// CacheService provides Redis-backed caching for read-heavy data
type CacheService struct{}

// Get retrieves a JSON value from cache into dest. A miss is not an error.
func (c *CacheService) Get(key string, dest interface{}) (bool, error) {
	ctx := context.Background()

	val, err := database.RedisClient.Get(ctx, CacheKeyPrefix+key).Result()
	if err != nil {
		return false, nil // Cache miss
	}

	if err := json.Unmarshal([]byte(val), dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a JSON value in cache with the given TTL
func (c *CacheService) Set(key string, value interface{}, ttl time.Duration) error {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return database.RedisClient.Set(context.Background(), CacheKeyPrefix+key, jsonData, ttl).Err()
}

// Delete removes a value from cache
func (c *CacheService) Delete(key string) error {
	return database.RedisClient.Del(context.Background(), CacheKeyPrefix+key).Err()
}

// GetInt64 retrieves an integer value (e.g. an unread count) from cache
func (c *CacheService) GetInt64(key string) (int64, bool) {
	val, err := database.RedisClient.Get(context.Background(), CacheKeyPrefix+key).Int64()
	if err != nil {
		return 0, false
	}
	return val, true
}

// SetInt64 stores an integer value in cache with the given TTL
func (c *CacheService) SetInt64(key string, value int64, ttl time.Duration) error {
	return database.RedisClient.Set(context.Background(), CacheKeyPrefix+key, value, ttl).Err()
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}

// Global cache service instance
var Cache = &CacheService{}
