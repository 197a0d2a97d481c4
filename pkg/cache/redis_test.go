package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type entry struct {
	Name string `json:"name"`
	Days int    `json:"days"`
}

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := NewRedisCache(mr.Addr())
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache_GetSetJSON(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Ping(ctx))

	var got entry
	assert.ErrorIs(t, c.GetJSON(ctx, "topic", &got), ErrMiss)

	require.NoError(t, c.SetJSON(ctx, "topic", entry{Name: "Speed Post", Days: 3}, time.Minute))
	assert.True(t, mr.Exists("prep:topic"))

	require.NoError(t, c.GetJSON(ctx, "topic", &got))
	assert.Equal(t, entry{Name: "Speed Post", Days: 3}, got)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, c.GetJSON(ctx, "topic", &got), ErrMiss)
}

func TestRedisCache_Invalidate(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"courses", "revision:topics", "questions:postal-rules:", "questions:geography:beginner"} {
		require.NoError(t, c.SetJSON(ctx, key, entry{Name: key}, time.Hour))
	}
	require.NoError(t, mr.Set("other:questions:x", "kept"))

	require.NoError(t, c.Invalidate(ctx, "courses"))
	assert.False(t, mr.Exists("prep:courses"))
	assert.True(t, mr.Exists("prep:revision:topics"))
	require.NoError(t, c.Invalidate(ctx))

	require.NoError(t, c.InvalidateMatching(ctx, "questions:*"))
	assert.False(t, mr.Exists("prep:questions:postal-rules:"))
	assert.False(t, mr.Exists("prep:questions:geography:beginner"))
	assert.True(t, mr.Exists("prep:revision:topics"))
	assert.True(t, mr.Exists("other:questions:x"))

	require.NoError(t, c.InvalidateMatching(ctx, "nothing:*"))
}

func TestRedisCache_Unreachable(t *testing.T) {
	c, mr := newTestCache(t)
	mr.Close()

	var got entry
	err := c.GetJSON(context.Background(), "topic", &got)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMiss)
}
