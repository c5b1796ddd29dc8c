package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kosench/go-article-counter/internal/cache"
	apperrors "github.com/Kosench/go-article-counter/internal/errors"
)

type fakeCounterStore struct {
	hashes   map[string]cache.CounterHash
	fields   []string
	failWith error
	pingErr  error
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{hashes: make(map[string]cache.CounterHash)}
}

func (f *fakeCounterStore) IncrementCounter(ctx context.Context, slug, field string) (cache.CounterHash, error) {
	f.fields = append(f.fields, field)
	if f.failWith != nil {
		return cache.CounterHash{}, f.failWith
	}

	h := f.hashes[slug]
	switch field {
	case cache.FieldViews:
		h.Views++
	case cache.FieldLikes:
		h.Likes++
	}
	h.UpdatedAtMs = 1700000000123
	f.hashes[slug] = h
	return h, nil
}

func (f *fakeCounterStore) GetCounter(ctx context.Context, slug string) (cache.CounterHash, error) {
	if f.failWith != nil {
		return cache.CounterHash{}, f.failWith
	}
	return f.hashes[slug], nil
}

func (f *fakeCounterStore) HealthCheck(ctx context.Context) error {
	return f.pingErr
}

func TestRedisCounterRepository_Increments(t *testing.T) {
	store := newFakeCounterStore()
	repo := NewRedisCounterRepository(store)
	ctx := context.Background()

	rec, err := repo.IncrementViews(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, "hello-world", rec.Slug)
	assert.Equal(t, int64(1), rec.Views)
	assert.Equal(t, int64(0), rec.Likes)
	assert.Equal(t, time.UnixMilli(1700000000123).UTC(), rec.UpdatedAt)

	rec, err = repo.IncrementLikes(ctx, "hello-world")
	require.NoError(t, err)
	assert.Equal(t, int64(1), rec.Views)
	assert.Equal(t, int64(1), rec.Likes)

	assert.Equal(t, []string{cache.FieldViews, cache.FieldLikes}, store.fields)
}

func TestRedisCounterRepository_GetOrZero(t *testing.T) {
	store := newFakeCounterStore()
	repo := NewRedisCounterRepository(store)

	rec, err := repo.GetOrZero(context.Background(), "never-seen")
	require.NoError(t, err)
	assert.Equal(t, "never-seen", rec.Slug)
	assert.Zero(t, rec.Views)
	assert.Zero(t, rec.Likes)
	assert.True(t, rec.UpdatedAt.IsZero())
	assert.Empty(t, store.hashes)
}

func TestRedisCounterRepository_StoreUnavailable(t *testing.T) {
	store := newFakeCounterStore()
	store.failWith = errors.New("i/o timeout")
	repo := NewRedisCounterRepository(store)
	ctx := context.Background()

	_, err := repo.GetOrZero(ctx, "a")
	assert.True(t, apperrors.IsStoreUnavailable(err))

	_, err = repo.IncrementViews(ctx, "a")
	assert.True(t, apperrors.IsStoreUnavailable(err))

	_, err = repo.IncrementLikes(ctx, "a")
	assert.True(t, apperrors.IsStoreUnavailable(err))
	assert.Equal(t, "i/o timeout", apperrors.GetBusinessError(err).Detail())
}

func TestRedisCounterRepository_HealthCheck(t *testing.T) {
	store := newFakeCounterStore()
	repo := NewRedisCounterRepository(store)

	assert.NoError(t, repo.HealthCheck(context.Background()))

	store.pingErr = errors.New("down")
	assert.Error(t, repo.HealthCheck(context.Background()))
}
