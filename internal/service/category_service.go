package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/noah-isme/campus-complaint-api/pkg/errors"
)

const categoryCacheKey = "categories:names"

type categoryRepository interface {
	EnsureDefaults(ctx context.Context) error
	ListNames(ctx context.Context) ([]string, error)
}

type categoryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// CategoryService serves the category registry. The list rarely changes, so a
// short-lived redis cache can sit in front of it when configured.
type CategoryService struct {
	repo     categoryRepository
	cache    categoryCache
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewCategoryService constructs a CategoryService. Passing a nil cache
// disables caching entirely.
func NewCategoryService(repo categoryRepository, cache categoryCache, cacheTTL time.Duration, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{repo: repo, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Seed inserts the default categories; duplicates are skipped.
func (s *CategoryService) Seed(ctx context.Context) error {
	return s.repo.EnsureDefaults(ctx)
}

// List returns category names in alphabetical order.
func (s *CategoryService) List(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		var cached []string
		err := s.cache.Get(ctx, categoryCacheKey, &cached)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("category cache read failed", zap.Error(err))
		}
	}

	names, err := s.repo.ListNames(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, categoryCacheKey, names, s.cacheTTL); err != nil {
			s.logger.Warn("category cache write failed", zap.Error(err))
		}
	}
	return names, nil
}
