package repository

import (
	"context"
	"time"

	"github.com/Kosench/go-article-counter/internal/cache"
	apperrors "github.com/Kosench/go-article-counter/internal/errors"
	"github.com/Kosench/go-article-counter/internal/model"
)

// RedisCounterRepository keeps each slug in a Redis hash. Redis is the
// system of record here, not a cache in front of another store.
type RedisCounterRepository struct {
	store cache.CounterStore
}

func NewRedisCounterRepository(store cache.CounterStore) *RedisCounterRepository {
	return &RedisCounterRepository{store: store}
}

func (r *RedisCounterRepository) GetOrZero(ctx context.Context, slug string) (*model.CounterRecord, error) {
	hash, err := r.store.GetCounter(ctx, slug)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to read counters", err)
	}
	return toRecord(slug, hash), nil
}

func (r *RedisCounterRepository) IncrementViews(ctx context.Context, slug string) (*model.CounterRecord, error) {
	hash, err := r.store.IncrementCounter(ctx, slug, columnViews)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to increment views", err)
	}
	return toRecord(slug, hash), nil
}

func (r *RedisCounterRepository) IncrementLikes(ctx context.Context, slug string) (*model.CounterRecord, error) {
	hash, err := r.store.IncrementCounter(ctx, slug, columnLikes)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to increment likes", err)
	}
	return toRecord(slug, hash), nil
}

func (r *RedisCounterRepository) HealthCheck(ctx context.Context) error {
	if hc, ok := r.store.(cache.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

func toRecord(slug string, hash cache.CounterHash) *model.CounterRecord {
	record := &model.CounterRecord{
		Slug:  slug,
		Views: hash.Views,
		Likes: hash.Likes,
	}
	if hash.UpdatedAtMs > 0 {
		record.UpdatedAt = time.UnixMilli(hash.UpdatedAtMs).UTC()
	}
	return record
}
