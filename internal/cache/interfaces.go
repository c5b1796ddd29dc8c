package cache

import (
	"context"
	"time"
)

// CounterHash - поля хэша счетчика; отсутствующие поля равны нулю
type CounterHash struct {
	Views       int64
	Likes       int64
	UpdatedAtMs int64
}

// CounterStore - атомарные операции над счетчиками статьи
type CounterStore interface {
	IncrementCounter(ctx context.Context, slug, field string) (CounterHash, error)
	GetCounter(ctx context.Context, slug string) (CounterHash, error)
}

// RateLimiter - интерфейс для rate limiting
type RateLimiter interface {
	IncrementRateLimit(ctx context.Context, clientIP string, window time.Duration) (int64, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
