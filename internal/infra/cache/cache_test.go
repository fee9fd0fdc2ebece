package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_GetSet(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()

	_, err := c.Get(ctx, "products:list")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, "products:list", "[]", time.Minute))
	v, err := c.Get(ctx, "products:list")
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestMemoryClient_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryClient()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Second))
	now = now.Add(2 * time.Second)

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryClient_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryClient()
	require.NoError(t, c.Set(ctx, "products:a", "1", 0))
	require.NoError(t, c.Set(ctx, "products:b", "2", 0))
	require.NoError(t, c.Set(ctx, "reviews:a", "3", 0))

	require.NoError(t, c.DeletePrefix(ctx, "products:"))

	_, err := c.Get(ctx, "products:a")
	assert.ErrorIs(t, err, ErrCacheMiss)
	v, err := c.Get(ctx, "reviews:a")
	require.NoError(t, err)
	assert.Equal(t, "3", v)
}
