//go:build integration

package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Kosench/go-article-counter/internal/cache"
	"github.com/Kosench/go-article-counter/internal/database"
	"github.com/Kosench/go-article-counter/internal/database/migrations"
	"github.com/Kosench/go-article-counter/internal/testutils"
)

type healthCounterRepository interface {
	CounterRepository
	HealthChecker
}

func TestPostgresCounterRepository_Integration(t *testing.T) {
	dsn := testutils.StartPostgres(t)

	// A second run must be a no-op.
	require.NoError(t, migrations.Run(dsn, zap.NewNop()))

	db, err := database.Connect(dsn, database.PoolConfig{MaxOpenConns: 20})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	runRepositoryContract(t, NewPostgresCounterRepository(db))
}

func TestGormCounterRepository_Integration(t *testing.T) {
	dsn := testutils.StartMySQL(t)

	db, err := database.ConnectMySQL(dsn, database.PoolConfig{MaxOpenConns: 20}, true, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseMySQL(db) })

	version, err := database.GetMySQLVersion(db)
	require.NoError(t, err)
	assert.NotEmpty(t, version)

	runRepositoryContract(t, NewGormCounterRepository(db))
}

func TestRedisCounterRepository_Integration(t *testing.T) {
	client := testutils.StartRedis(t)

	runRepositoryContract(t, NewRedisCounterRepository(cache.NewRedisClientFrom(client, "it")))
}

func runRepositoryContract(t *testing.T, repo healthCounterRepository) {
	ctx := context.Background()

	t.Run("health", func(t *testing.T) {
		assert.NoError(t, repo.HealthCheck(ctx))
	})

	t.Run("unknown slug reads zero without creating it", func(t *testing.T) {
		rec, err := repo.GetOrZero(ctx, "never-seen")
		require.NoError(t, err)
		assert.Equal(t, "never-seen", rec.Slug)
		assert.Zero(t, rec.Views)
		assert.Zero(t, rec.Likes)

		rec, err = repo.GetOrZero(ctx, "never-seen")
		require.NoError(t, err)
		assert.True(t, rec.UpdatedAt.IsZero())
	})

	t.Run("views and likes are independent", func(t *testing.T) {
		rec, err := repo.IncrementViews(ctx, "hello-world")
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.Views)
		assert.Equal(t, int64(0), rec.Likes)

		rec, err = repo.IncrementViews(ctx, "hello-world")
		require.NoError(t, err)
		assert.Equal(t, int64(2), rec.Views)

		rec, err = repo.IncrementLikes(ctx, "hello-world")
		require.NoError(t, err)
		assert.Equal(t, int64(2), rec.Views)
		assert.Equal(t, int64(1), rec.Likes)

		first := rec.UpdatedAt
		assert.False(t, first.IsZero())

		rec, err = repo.GetOrZero(ctx, "hello-world")
		require.NoError(t, err)
		assert.Equal(t, int64(2), rec.Views)
		assert.Equal(t, int64(1), rec.Likes)

		rec, err = repo.IncrementLikes(ctx, "hello-world")
		require.NoError(t, err)
		assert.False(t, rec.UpdatedAt.Before(first), "updated_at moved backwards")
	})

	t.Run("like on a new slug creates it with one like", func(t *testing.T) {
		rec, err := repo.IncrementLikes(ctx, "liked-first")
		require.NoError(t, err)
		assert.Equal(t, int64(0), rec.Views)
		assert.Equal(t, int64(1), rec.Likes)
	})

	t.Run("slugs are case sensitive", func(t *testing.T) {
		_, err := repo.IncrementViews(ctx, "Case")
		require.NoError(t, err)

		rec, err := repo.GetOrZero(ctx, "case")
		require.NoError(t, err)
		assert.Zero(t, rec.Views)
	})

	t.Run("concurrent increments are not lost", func(t *testing.T) {
		const n = 100

		g, gctx := errgroup.WithContext(ctx)
		for i := 0; i < n; i++ {
			like := i%2 == 1
			g.Go(func() error {
				var err error
				if like {
					_, err = repo.IncrementLikes(gctx, "hot")
				} else {
					_, err = repo.IncrementViews(gctx, "hot")
				}
				return err
			})
		}
		require.NoError(t, g.Wait())

		rec, err := repo.GetOrZero(ctx, "hot")
		require.NoError(t, err)
		assert.Equal(t, int64(n/2), rec.Views)
		assert.Equal(t, int64(n/2), rec.Likes)
	})
}
