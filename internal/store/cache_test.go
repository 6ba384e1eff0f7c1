package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metgo3d/fieldsync/internal/common"
	"github.com/metgo3d/fieldsync/internal/logging"
)

func setupCache(t *testing.T) (*Cache, *Store) {
	t.Helper()
	s, _ := setupStore(t)
	return NewCache(s, logging.NewDefault()), s
}

func TestCacheRoundTrip(t *testing.T) {
	c, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, KeyCacheWeather, map[string]float64{"temp": 22.5}, time.Minute))

	var got map[string]float64
	found, err := c.Get(ctx, KeyCacheWeather, &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 22.5, got["temp"])
}

func TestCacheSet_InvalidTTL(t *testing.T) {
	c, _ := setupCache(t)

	err := c.Set(context.Background(), "k", 1, 0)
	require.ErrorIs(t, err, common.ErrInvalidTTL)

	err = c.Set(context.Background(), "k", 1, -time.Second)
	require.ErrorIs(t, err, common.ErrInvalidTTL)
}

func TestCacheGet_ExpiredEntryEvicted(t *testing.T) {
	c, s := setupCache(t)
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, "k", "v", 30*time.Minute))

	// still fresh one minute before the deadline
	c.now = func() time.Time { return base.Add(29 * time.Minute) }
	var got string
	found, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, found)

	// expired: reported absent and purged from the plain tier
	c.now = func() time.Time { return base.Add(31 * time.Minute) }
	found, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, found)

	var raw cacheEntry
	found, err = s.GetPlain(ctx, "k", &raw)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheGet_Missing(t *testing.T) {
	c, _ := setupCache(t)

	var got string
	found, err := c.Get(context.Background(), "missing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCacheSweep(t *testing.T) {
	c, s := setupCache(t)
	ctx := context.Background()

	base := time.Now()
	c.now = func() time.Time { return base }
	require.NoError(t, c.Set(ctx, "fresh", 1, time.Hour))
	require.NoError(t, c.Set(ctx, "stale", 2, time.Minute))

	c.now = func() time.Time { return base.Add(10 * time.Minute) }
	c.Sweep(ctx, "fresh", "stale", "absent")

	var entry cacheEntry
	found, err := s.GetPlain(ctx, "fresh", &entry)
	require.NoError(t, err)
	assert.True(t, found)

	found, err = s.GetPlain(ctx, "stale", &entry)
	require.NoError(t, err)
	assert.False(t, found)
}
