package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestFetchJSONCachesLoaderResult(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "lodgebooks", "summary", "2025-03-14")
	require.NoError(t, err)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]string{"netCash": "54.50"}, nil
	}

	var first map[string]string
	require.NoError(t, c.FetchJSON(ctx, key, &first, loader))
	require.Equal(t, "54.50", first["netCash"])
	require.Equal(t, 1, calls)

	var second map[string]string
	require.NoError(t, c.FetchJSON(ctx, key, &second, loader))
	require.Equal(t, first, second)
	require.Equal(t, 1, calls, "second read must come from the cache")
}

func TestBumpChangesKeys(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	before, err := c.BuildKey(ctx, "lodgebooks", "summary", "2025-03-14")
	require.NoError(t, err)

	require.NoError(t, c.Bump(ctx))

	after, err := c.BuildKey(ctx, "lodgebooks", "summary", "2025-03-14")
	require.NoError(t, err)
	require.NotEqual(t, before, after, "a write must retire every cached key")
}

func TestNilCacheCallsLoaderEveryTime(t *testing.T) {
	var c *Cache
	ctx := context.Background()

	require.NoError(t, c.Bump(ctx))

	key, err := c.BuildKey(ctx, "lodgebooks", "summary", "2025-03-14")
	require.NoError(t, err)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]string{"netCash": "0.00"}, nil
	}
	var out map[string]string
	require.NoError(t, c.FetchJSON(ctx, key, &out, loader))
	require.NoError(t, c.FetchJSON(ctx, key, &out, loader))
	require.Equal(t, 2, calls)
}

func TestFetchJSONSurvivesRedisRestart(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	key, err := c.BuildKey(ctx, "lodgebooks", "summary", "2025-03-14")
	require.NoError(t, err)

	var out map[string]string
	require.NoError(t, c.FetchJSON(ctx, key, &out, func(context.Context) (any, error) {
		return map[string]string{"netCash": "10.00"}, nil
	}))

	mr.FlushAll()

	require.NoError(t, c.FetchJSON(ctx, key, &out, func(context.Context) (any, error) {
		return map[string]string{"netCash": "11.00"}, nil
	}))
	require.Equal(t, "11.00", out["netCash"])
}
