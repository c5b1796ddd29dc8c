package service

import (
	"context"

	"go.uber.org/zap"

	apperrors "github.com/Kosench/go-article-counter/internal/errors"
	"github.com/Kosench/go-article-counter/internal/model"
	"github.com/Kosench/go-article-counter/internal/repository"
	"github.com/Kosench/go-article-counter/internal/utils"
)

// CounterRequest is one inbound call. A nil Slug means the caller sent none.
type CounterRequest struct {
	Slug   *string
	Action string
	Verb   Verb
}

type CounterService struct {
	repo   repository.CounterRepository
	logger *zap.Logger
}

func NewCounterService(repo repository.CounterRepository, logger *zap.Logger) *CounterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CounterService{
		repo:   repo,
		logger: logger,
	}
}

// Handle validates the slug, applies zero or one increment and returns the
// counts as committed by the store.
func (s *CounterService) Handle(ctx context.Context, req CounterRequest) (*model.CounterResponse, error) {
	if req.Slug == nil {
		return nil, apperrors.NewMissingKeyError("slug parameter is required")
	}

	slug := *req.Slug
	if err := utils.ValidateSlug(slug); err != nil {
		return nil, err
	}

	action := req.Action
	if action == "" {
		action = ActionView
	}
	op := Classify(action, req.Verb)

	var (
		record *model.CounterRecord
		err    error
	)
	switch op {
	case OpIncrementViews:
		record, err = s.repo.IncrementViews(ctx, slug)
	case OpIncrementLikes:
		record, err = s.repo.IncrementLikes(ctx, slug)
	default:
		record, err = s.repo.GetOrZero(ctx, slug)
	}

	if err != nil {
		if !apperrors.IsStoreUnavailable(err) {
			err = apperrors.NewStoreUnavailable("counter store failure", err)
		}
		s.logger.Error("counter store failure",
			zap.String("slug", slug),
			zap.Stringer("operation", op),
			zap.Error(err),
		)
		return nil, err
	}

	s.logger.Debug("counter handled",
		zap.String("slug", slug),
		zap.Stringer("operation", op),
		zap.Int64("views", record.Views),
		zap.Int64("likes", record.Likes),
	)

	return record.ToResponse(), nil
}
