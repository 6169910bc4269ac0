package repository

import (
	"context"
	"testing"
	"time"

	"workforce/config"
	"workforce/internal/core"
	client "workforce/internal/database/client"
	"workforce/internal/telemetry"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCache(t *testing.T) (*ListingCacheRepository, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	conf := &config.Configuration{Cache: config.Cache{TTLSeconds: 60, KeyPrefix: "wf"}}
	return NewListingCacheRepository(&telemetry.Trace{}, client.NewRedisClientFrom(zap.NewNop(), rdb), conf), mr
}

func TestListingCacheGetSet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()
	key := cache.Key("acme", core.EntityDepartment)
	assert.Equal(t, "wf:listing:acme:departments", key)

	_, hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, cache.Set(ctx, key, []byte(`[{"id":"1"}]`), 0))
	value, hit, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.JSONEq(t, `[{"id":"1"}]`, string(value))

	mr.FastForward(61 * time.Second)
	_, hit, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestListingCacheInvalidateScopesByTenantAndEntity(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{
		cache.Key("acme", core.EntityEmployee),
		cache.Key("acme", core.EntityEmployee, "active"),
		cache.Key("acme", core.EntityDesignation),
		cache.Key("globex", core.EntityEmployee),
	} {
		require.NoError(t, cache.Set(ctx, key, []byte("x"), 0))
	}

	require.NoError(t, cache.InvalidateListings(ctx, "acme", core.EntityEmployee))

	assert.False(t, mr.Exists("wf:listing:acme:employees"))
	assert.False(t, mr.Exists("wf:listing:acme:employees:active"))
	assert.True(t, mr.Exists("wf:listing:acme:designations"))
	assert.True(t, mr.Exists("wf:listing:globex:employees"))
}

func TestListingCacheInvalidateTreatsTenantIDLiterally(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	for _, tenant := range []string{"a*", "acme", "a?me", "[a]cme", "a"} {
		require.NoError(t, cache.Set(ctx, cache.Key(tenant, core.EntityEmployee), []byte("x"), 0))
	}

	require.NoError(t, cache.InvalidateListings(ctx, "a*", core.EntityEmployee))
	require.NoError(t, cache.InvalidateListings(ctx, "a?me", core.EntityEmployee))

	assert.False(t, mr.Exists("wf:listing:a*:employees"))
	assert.False(t, mr.Exists("wf:listing:a?me:employees"))
	assert.True(t, mr.Exists("wf:listing:acme:employees"))
	assert.True(t, mr.Exists("wf:listing:[a]cme:employees"))
	assert.True(t, mr.Exists("wf:listing:a:employees"))

	deleted, err := cache.Invalidate(ctx, cache.Key("[a]cme", core.EntityEmployee))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
	assert.True(t, mr.Exists("wf:listing:acme:employees"))
}

func TestListingCacheInvalidateReportsBackendError(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := NewListingCacheRepository(&telemetry.Trace{}, client.NewRedisClientFrom(zap.NewNop(), rdb), &config.Configuration{})
	mr.Close()

	err = cache.InvalidateListings(context.Background(), "acme", core.EntityDepartment)
	assert.Error(t, err)
}
