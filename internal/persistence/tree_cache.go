package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/orgchart-service/internal/domain"
)

// TreeCacheKey holds the serialized organization forest.
const TreeCacheKey = "orgchart:tree"

// RedisTreeCache stores the last built forest. It is dropped on every
// employee mutation and never patched in place.
type RedisTreeCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisTreeCache returns nil when redis is disabled or ttl is not
// positive. Entries always expire.
func NewRedisTreeCache(r *Redis, ttl time.Duration) *RedisTreeCache {
	if !r.Enabled() || ttl <= 0 {
		return nil
	}
	return &RedisTreeCache{client: r.Client, ttl: ttl}
}

func (c *RedisTreeCache) Get(ctx context.Context) ([]*domain.OrganizationNode, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	raw, err := c.client.Get(ctx, TreeCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var forest []*domain.OrganizationNode
	if err := json.Unmarshal(raw, &forest); err != nil {
		return nil, false, fmt.Errorf("decode cached tree: %w", err)
	}
	return forest, true, nil
}

func (c *RedisTreeCache) Set(ctx context.Context, forest []*domain.OrganizationNode) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(forest)
	if err != nil {
		return fmt.Errorf("encode tree: %w", err)
	}
	return c.client.Set(ctx, TreeCacheKey, raw, c.ttl).Err()
}

func (c *RedisTreeCache) Invalidate(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, TreeCacheKey).Err()
}
