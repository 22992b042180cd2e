// Package cache provides the response cache used in front of the
// pricing pipeline. The pipeline itself is cache-free; callers that
// want caching hold a Cache and decide what to store and for how long.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache is a TTL byte cache. Implementations must be safe for
// concurrent use. A miss is not an error; the second return value
// reports presence.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SearchKey builds a deterministic cache key for one search request.
// All parameters that change the response participate in the key.
func SearchKey(query, setID string, pageSize, offset int, sort string) string {
	return fmt.Sprintf("search:%s:%s:%d:%d:%s",
		strings.ToLower(strings.TrimSpace(query)), setID, pageSize, offset, sort)
}

// ProductKey builds the cache key for one product detail response.
func ProductKey(productID int) string {
	return fmt.Sprintf("product:%d", productID)
}

// Nop is a Cache that stores nothing. Used when caching is disabled.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error                     { return nil }
