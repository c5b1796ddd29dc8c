package repository

import (
	"context"
	"database/sql"
	"errors"

	apperrors "github.com/Kosench/go-article-counter/internal/errors"
	"github.com/Kosench/go-article-counter/internal/model"
)

const (
	selectCounterQuery = `
	SELECT slug, views, likes, updated_at
	FROM article_counters
	WHERE slug = $1
	`

	// The delta pair is (1, 0) for a view and (0, 1) for a like, so one
	// statement serves both counters and the other column is left unchanged.
	upsertCounterQuery = `
	INSERT INTO article_counters (slug, views, likes)
	VALUES ($1, $2, $3)
	ON CONFLICT (slug) DO UPDATE
	SET views = article_counters.views + EXCLUDED.views,
	    likes = article_counters.likes + EXCLUDED.likes,
	    updated_at = GREATEST(article_counters.updated_at, CURRENT_TIMESTAMP)
	RETURNING slug, views, likes, updated_at
	`
)

type PostgresCounterRepository struct {
	db *sql.DB
}

func NewPostgresCounterRepository(db *sql.DB) *PostgresCounterRepository {
	return &PostgresCounterRepository{
		db: db,
	}
}

func (r *PostgresCounterRepository) GetOrZero(ctx context.Context, slug string) (*model.CounterRecord, error) {
	record := &model.CounterRecord{}
	err := r.db.QueryRowContext(ctx, selectCounterQuery, slug).Scan(
		&record.Slug,
		&record.Views,
		&record.Likes,
		&record.UpdatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return &model.CounterRecord{Slug: slug}, nil
	}

	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to read counters", err)
	}

	return record, nil
}

func (r *PostgresCounterRepository) IncrementViews(ctx context.Context, slug string) (*model.CounterRecord, error) {
	return r.upsert(ctx, slug, 1, 0, "failed to increment views")
}

func (r *PostgresCounterRepository) IncrementLikes(ctx context.Context, slug string) (*model.CounterRecord, error) {
	return r.upsert(ctx, slug, 0, 1, "failed to increment likes")
}

func (r *PostgresCounterRepository) upsert(ctx context.Context, slug string, views, likes int64, failure string) (*model.CounterRecord, error) {
	record := &model.CounterRecord{}
	err := r.db.QueryRowContext(ctx, upsertCounterQuery, slug, views, likes).Scan(
		&record.Slug,
		&record.Views,
		&record.Likes,
		&record.UpdatedAt,
	)
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(failure, err)
	}

	return record, nil
}

func (r *PostgresCounterRepository) HealthCheck(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
