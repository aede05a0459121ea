package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/orgchart-service/internal/config"
	"github.com/spec-kit/orgchart-service/internal/orgtree"
	"github.com/spec-kit/orgchart-service/internal/testutil/stubs"
)

func newMiniredis(t *testing.T) (*miniredis.Miniredis, *Redis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, &Redis{Client: client}
}

func TestDisabledRedisYieldsNoCache(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, zap.NewNop())
	assert.False(t, r.Enabled())
	assert.Error(t, r.Ping(context.Background()))
	r.Close()

	cache := NewRedisTreeCache(r, time.Minute)
	assert.Nil(t, cache)

	forest, ok, err := cache.Get(context.Background())
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, forest)
	assert.NoError(t, cache.Set(context.Background(), nil))
	assert.NoError(t, cache.Invalidate(context.Background()))
}

func TestZeroTTLDisablesCache(t *testing.T) {
	_, r := newMiniredis(t)
	assert.Nil(t, NewRedisTreeCache(r, 0))
	assert.Nil(t, NewRedisTreeCache(r, -time.Second))
	assert.NotNil(t, NewRedisTreeCache(r, time.Second))
}

func TestRedisTreeCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	mr, r := newMiniredis(t)
	require.NoError(t, r.Ping(ctx))
	cache := NewRedisTreeCache(r, time.Minute)

	forest, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "empty cache is a miss")
	assert.Nil(t, forest)

	employees := stubs.Chain(3)
	employees = append(employees, stubs.NewEmployeeStub().WithManager("gone").WithImage("/uploads/a.png").Get())
	built := orgtree.Build(employees)
	require.NoError(t, cache.Set(ctx, built))
	assert.Equal(t, time.Minute, mr.TTL(TreeCacheKey))

	cached, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Empty(t, cmp.Diff(built, cached))

	require.NoError(t, cache.Invalidate(ctx))
	assert.False(t, mr.Exists(TreeCacheKey))
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	mr.FastForward(2 * time.Minute)
	require.NoError(t, cache.Set(ctx, built))
	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "entries expire after the ttl")
}

func TestRedisTreeCacheRejectsCorruptPayload(t *testing.T) {
	mr, r := newMiniredis(t)
	cache := NewRedisTreeCache(r, time.Minute)
	require.NoError(t, mr.Set(TreeCacheKey, "{not json"))

	_, ok, err := cache.Get(context.Background())
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestRedisTreeCacheSurfacesConnectionErrors(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	cache := NewRedisTreeCache(&Redis{Client: client}, time.Minute)
	mr.Close()

	_, _, err = cache.Get(ctx)
	assert.Error(t, err)
	assert.Error(t, cache.Invalidate(ctx))
}

func TestPostgresRequiresDSN(t *testing.T) {
	pg, err := NewPostgres(context.Background(), config.PostgresConfig{}, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, pg)

	var missing *Postgres
	assert.Nil(t, missing.PoolHandle())
	assert.Error(t, missing.Ping(context.Background()))
	missing.Close()
}
