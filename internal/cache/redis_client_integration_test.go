//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/Kosench/go-article-counter/internal/testutils"
)

func TestRedisClient_Integration(t *testing.T) {
	client := testutils.StartRedis(t)
	r := NewRedisClientFrom(client, "it")
	ctx := context.Background()

	t.Run("increment returns the committed triple", func(t *testing.T) {
		hash, err := r.IncrementCounter(ctx, "post", FieldViews)
		require.NoError(t, err)
		assert.Equal(t, int64(1), hash.Views)
		assert.Equal(t, int64(0), hash.Likes)
		assert.Positive(t, hash.UpdatedAtMs)

		stored, err := r.GetCounter(ctx, "post")
		require.NoError(t, err)
		assert.Equal(t, hash, stored)

		ttl, err := client.TTL(ctx, r.GetKeyBuilder().Counter("post")).Result()
		require.NoError(t, err)
		assert.Equal(t, time.Duration(-1), ttl, "counter keys never expire")
	})

	t.Run("unknown field is rejected", func(t *testing.T) {
		_, err := r.IncrementCounter(ctx, "post", FieldUpdatedAt)
		assert.Error(t, err)
	})

	t.Run("concurrent increments", func(t *testing.T) {
		var g errgroup.Group
		for i := 0; i < 50; i++ {
			g.Go(func() error {
				_, err := r.IncrementCounter(ctx, "busy", FieldLikes)
				return err
			})
		}
		require.NoError(t, g.Wait())

		hash, err := r.GetCounter(ctx, "busy")
		require.NoError(t, err)
		assert.Equal(t, int64(50), hash.Likes)
	})

	t.Run("rate limit window", func(t *testing.T) {
		for i := int64(1); i <= 3; i++ {
			count, err := r.IncrementRateLimit(ctx, "10.0.0.1", time.Minute)
			require.NoError(t, err)
			assert.Equal(t, i, count)
		}

		ttl, err := client.TTL(ctx, r.GetKeyBuilder().RateLimit("10.0.0.1")).Result()
		require.NoError(t, err)
		assert.Positive(t, ttl)
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("health", func(t *testing.T) {
		assert.NoError(t, r.HealthCheck(ctx))
	})
}
