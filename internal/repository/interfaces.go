package repository

import (
	"context"

	"github.com/Kosench/go-article-counter/internal/model"
)

// CounterRepository owns the slug -> (views, likes) mapping.
//
// Increments are a single atomic upsert at the store: a missing record is
// created with the target counter at 1, an existing one gets +1. Every failure
// is reported as a StoreUnavailable business error and is never retried here.
type CounterRepository interface {
	// GetOrZero returns the stored counters or a zero record. It never creates a row.
	GetOrZero(ctx context.Context, slug string) (*model.CounterRecord, error)
	IncrementViews(ctx context.Context, slug string) (*model.CounterRecord, error)
	IncrementLikes(ctx context.Context, slug string) (*model.CounterRecord, error)
}

// HealthChecker is implemented by repositories that can ping their backend.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Counter column names. Only these two values are ever interpolated into SQL.
const (
	columnViews = "views"
	columnLikes = "likes"
)
