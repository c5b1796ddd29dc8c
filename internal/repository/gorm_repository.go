package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/Kosench/go-article-counter/internal/errors"
	"github.com/Kosench/go-article-counter/internal/model"
)

// GormCounterRepository stores counters in MySQL through GORM.
//
// MySQL has no RETURNING, so the upsert and the read-back run in one
// transaction. The upsert leaves the row exclusively locked until commit,
// which keeps the returned pair consistent with this call's increment.
type GormCounterRepository struct {
	db *gorm.DB
}

func NewGormCounterRepository(db *gorm.DB) *GormCounterRepository {
	return &GormCounterRepository{db: db}
}

func (r *GormCounterRepository) GetOrZero(ctx context.Context, slug string) (*model.CounterRecord, error) {
	var record model.CounterRecord
	err := r.db.WithContext(ctx).Where("slug = ?", slug).Take(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &model.CounterRecord{Slug: slug}, nil
	}
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("failed to read counters", err)
	}
	return &record, nil
}

func (r *GormCounterRepository) IncrementViews(ctx context.Context, slug string) (*model.CounterRecord, error) {
	return r.upsert(ctx, slug, columnViews, "failed to increment views")
}

func (r *GormCounterRepository) IncrementLikes(ctx context.Context, slug string) (*model.CounterRecord, error) {
	return r.upsert(ctx, slug, columnLikes, "failed to increment likes")
}

func (r *GormCounterRepository) upsert(ctx context.Context, slug, column, failure string) (*model.CounterRecord, error) {
	seed := model.CounterRecord{Slug: slug}
	if column == columnViews {
		seed.Views = 1
	} else {
		seed.Likes = 1
	}

	var record model.CounterRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				column:       gorm.Expr(column + " + 1"),
				"updated_at": gorm.Expr("GREATEST(updated_at, CURRENT_TIMESTAMP(6))"),
			}),
		}).Create(&seed).Error
		if err != nil {
			return err
		}

		return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("slug = ?", slug).
			Take(&record).Error
	})
	if err != nil {
		return nil, apperrors.NewStoreUnavailable(failure, err)
	}

	return &record, nil
}

func (r *GormCounterRepository) HealthCheck(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
