package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache key prefixes and TTLs.
const (
	dedupKeyPrefix    = "dedup:"
	urlKeyPrefix      = "url:"
	negCacheKeySuffix = ":neg"

	// DedupTTL is the TTL for long-URL dedup entries. Records are immutable
	// and never deleted, so entries cannot go stale; the TTL only bounds
	// memory.
	DedupTTL = 24 * time.Hour

	// NegativeCacheTTL is the TTL for unknown-code entries on the redirect
	// path.
	NegativeCacheTTL = 5 * time.Minute
)

// ErrCacheMiss is returned when a key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// GetDedupCode returns the short code previously stored for a long URL.
// Returns ErrCacheMiss if the destination has not been cached.
func (c *Cache) GetDedupCode(ctx context.Context, longURL string) (string, error) {
	code, err := c.client.Get(ctx, dedupKey(longURL)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("redis get failed: %w", err)
	}
	return code, nil
}

// SetDedupCode stores the long URL to short code mapping.
func (c *Cache) SetDedupCode(ctx context.Context, longURL, code string) error {
	if err := c.client.SetEx(ctx, dedupKey(longURL), code, DedupTTL).Err(); err != nil {
		return fmt.Errorf("failed to cache dedup code: %w", err)
	}
	return nil
}

// IsNegativelyCached reports whether a code was recently resolved as unknown.
func (c *Cache) IsNegativelyCached(ctx context.Context, code string) (bool, error) {
	exists, err := c.client.Exists(ctx, urlKeyPrefix+code+negCacheKeySuffix).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check negative cache: %w", err)
	}
	return exists > 0, nil
}

// SetNegativeCache marks a short code as not found.
func (c *Cache) SetNegativeCache(ctx context.Context, code string) error {
	key := urlKeyPrefix + code + negCacheKeySuffix
	if err := c.client.SetEx(ctx, key, "", NegativeCacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set negative cache: %w", err)
	}
	return nil
}

// ClearNegativeCache removes a not-found marker. Called after a record is
// created so a code that was probed before allocation resolves immediately.
func (c *Cache) ClearNegativeCache(ctx context.Context, code string) error {
	key := urlKeyPrefix + code + negCacheKeySuffix
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear negative cache: %w", err)
	}
	return nil
}

// dedupKey derives the cache key for a long URL. Hashing keeps keys a fixed
// size and avoids storing raw destinations in key names.
func dedupKey(longURL string) string {
	sum := sha256.Sum256([]byte(longURL))
	return dedupKeyPrefix + hex.EncodeToString(sum[:])
}
