package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ai-governance/internal/cache"
	"ai-governance/internal/domain"
	"ai-governance/internal/logger"

	"go.uber.org/zap"
)

// ErrSummaryNotCached is returned when no cached summary exists.
var ErrSummaryNotCached = errors.New("assessment summary not found in cache")

// SummaryCacheService caches assessment summaries per owner.
type SummaryCacheService interface {
	Get(ctx context.Context, userID, assessmentID string) (*domain.Summary, error)
	Put(ctx context.Context, userID string, summary *domain.Summary) error
	Invalidate(ctx context.Context, userID, assessmentID string) error
}

type summaryCacheServiceImpl struct {
	cache domain.Cache
	ttl   time.Duration
}

// NewSummaryCacheService falls back to a no-op implementation when c is nil.
func NewSummaryCacheService(c domain.Cache, ttl time.Duration) SummaryCacheService {
	if c == nil {
		logger.Get().Warn("SummaryCacheService initialized with nil cache. Service will be no-op.")
		return &noopSummaryCacheService{}
	}
	return &summaryCacheServiceImpl{cache: c, ttl: ttl}
}

func (s *summaryCacheServiceImpl) Get(ctx context.Context, userID, assessmentID string) (*domain.Summary, error) {
	key := cache.SummaryKey(userID, assessmentID)
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			logger.Get().Debug("Summary cache miss", zap.String("key", key))
			return nil, ErrSummaryNotCached
		}
		return nil, domain.NewInternalError(fmt.Sprintf("failed to get summary from cache for key %s", key), err)
	}
	if data == "" {
		return nil, ErrSummaryNotCached
	}

	var summary domain.Summary
	if err := json.Unmarshal([]byte(data), &summary); err != nil {
		return nil, domain.NewInternalError(fmt.Sprintf("failed to unmarshal summary from cache for key %s", key), err)
	}
	if summary.Assessment == nil {
		return nil, ErrSummaryNotCached
	}
	return &summary, nil
}

func (s *summaryCacheServiceImpl) Put(ctx context.Context, userID string, summary *domain.Summary) error {
	if summary == nil || summary.Assessment == nil {
		return domain.NewInvalidInputError("cannot cache empty summary")
	}
	key := cache.SummaryKey(userID, summary.Assessment.ID)
	data, err := json.Marshal(summary)
	if err != nil {
		return domain.NewInternalError("failed to marshal summary for caching", err)
	}
	if err := s.cache.Set(ctx, key, string(data), s.ttl); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to set summary to cache for key %s", key), err)
	}
	logger.Get().Debug("Cached assessment summary", zap.String("key", key), zap.Duration("ttl", s.ttl))
	return nil
}

func (s *summaryCacheServiceImpl) Invalidate(ctx context.Context, userID, assessmentID string) error {
	key := cache.SummaryKey(userID, assessmentID)
	if err := s.cache.Delete(ctx, key); err != nil {
		return domain.NewInternalError(fmt.Sprintf("failed to invalidate summary cache key %s", key), err)
	}
	return nil
}

type noopSummaryCacheService struct{}

func (noopSummaryCacheService) Get(context.Context, string, string) (*domain.Summary, error) {
	return nil, ErrSummaryNotCached
}

func (noopSummaryCacheService) Put(context.Context, string, *domain.Summary) error { return nil }

func (noopSummaryCacheService) Invalidate(context.Context, string, string) error { return nil }
