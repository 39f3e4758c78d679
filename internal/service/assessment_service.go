package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"ai-governance/internal/domain"
	"ai-governance/internal/logger"

	"go.uber.org/zap"
)

const (
	DefaultListLimit = 100
	MaxListLimit     = 100
)

// AssessmentService manages assessments, category submissions and summaries.
// Every operation is scoped to the owning user; a foreign id reads as not found.
type AssessmentService interface {
	CreateAssessment(ctx context.Context, userID, title, description string) (*domain.Assessment, error)
	GetAssessment(ctx context.Context, userID, assessmentID string) (*domain.Assessment, error)
	ListAssessments(ctx context.Context, userID string, skip, limit int) ([]*domain.Assessment, error)
	// UpdateAssessment changes title and/or description. Status is owned by the lifecycle.
	UpdateAssessment(ctx context.Context, userID, assessmentID string, title, description *string) (*domain.Assessment, error)
	DeleteAssessment(ctx context.Context, userID, assessmentID string) error
	SubmitAnswers(ctx context.Context, userID, assessmentID string, category domain.Category, answers map[string]int) (*domain.AssessmentResult, error)
	GetAssessmentSummary(ctx context.Context, userID, assessmentID string) (*domain.Summary, error)
}

type assessmentServiceImpl struct {
	repo         domain.AssessmentRepository
	txManager    domain.TransactionManager
	summaryCache SummaryCacheService
	now          func() time.Time
}

// NewAssessmentService creates a new instance of AssessmentService.
func NewAssessmentService(repo domain.AssessmentRepository, txManager domain.TransactionManager, summaryCache SummaryCacheService) AssessmentService {
	if summaryCache == nil {
		summaryCache = &noopSummaryCacheService{}
	}
	return &assessmentServiceImpl{
		repo:         repo,
		txManager:    txManager,
		summaryCache: summaryCache,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *assessmentServiceImpl) CreateAssessment(ctx context.Context, userID, title, description string) (*domain.Assessment, error) {
	a := domain.NewAssessment(userID, strings.TrimSpace(title), description, s.now())
	if err := s.repo.CreateAssessment(ctx, a); err != nil {
		return nil, domain.NewInternalError("failed to create assessment", err)
	}
	a.Results = []domain.AssessmentResult{}
	logger.Get().Info("Assessment created", zap.String("assessmentID", a.ID), zap.String("userID", userID))
	return a, nil
}

func (s *assessmentServiceImpl) GetAssessment(ctx context.Context, userID, assessmentID string) (*domain.Assessment, error) {
	a, err := s.repo.GetAssessment(ctx, assessmentID, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get assessment", err)
	}
	if a == nil {
		return nil, domain.NewAssessmentNotFoundError(assessmentID)
	}
	results, err := s.repo.GetResults(ctx, a.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get assessment results", err)
	}
	a.Results = results
	return a, nil
}

// ListAssessments clamps limit to (0, MaxListLimit]; a non-positive limit means the default.
func (s *assessmentServiceImpl) ListAssessments(ctx context.Context, userID string, skip, limit int) ([]*domain.Assessment, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	list, err := s.repo.ListAssessments(ctx, userID, skip, limit)
	if err != nil {
		return nil, domain.NewInternalError("failed to list assessments", err)
	}
	if list == nil {
		list = []*domain.Assessment{}
	}
	return list, nil
}

func (s *assessmentServiceImpl) UpdateAssessment(ctx context.Context, userID, assessmentID string, title, description *string) (*domain.Assessment, error) {
	var updated *domain.Assessment
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAssessmentForUpdate(ctx, assessmentID, userID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NewAssessmentNotFoundError(assessmentID)
		}
		if title != nil {
			a.Title = strings.TrimSpace(*title)
		}
		if description != nil {
			a.Description = *description
		}
		a.Touch(s.now())
		if err := s.repo.UpdateAssessment(ctx, a); err != nil {
			return err
		}
		if a.Results, err = s.repo.GetResults(ctx, a.ID); err != nil {
			return err
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, asServiceError("failed to update assessment", err)
	}
	s.invalidateSummary(ctx, userID, assessmentID)
	return updated, nil
}

func (s *assessmentServiceImpl) DeleteAssessment(ctx context.Context, userID, assessmentID string) error {
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAssessmentForUpdate(ctx, assessmentID, userID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NewAssessmentNotFoundError(assessmentID)
		}
		if err := s.repo.DeleteResults(ctx, a.ID); err != nil {
			return err
		}
		return s.repo.DeleteAssessment(ctx, a.ID)
	})
	if err != nil {
		return asServiceError("failed to delete assessment", err)
	}
	s.invalidateSummary(ctx, userID, assessmentID)
	logger.Get().Info("Assessment deleted", zap.String("assessmentID", assessmentID), zap.String("userID", userID))
	return nil
}

func (s *assessmentServiceImpl) SubmitAnswers(ctx context.Context, userID, assessmentID string, category domain.Category, answers map[string]int) (*domain.AssessmentResult, error) {
	if !category.Valid() {
		return nil, domain.NewInvalidCategoryError(string(category))
	}
	if answers == nil {
		answers = map[string]int{}
	}

	var result *domain.AssessmentResult
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		a, err := s.repo.GetAssessmentForUpdate(ctx, assessmentID, userID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.NewAssessmentNotFoundError(assessmentID)
		}

		now := s.now()
		eval := domain.Evaluate(category, answers)

		existing, err := s.repo.GetResultByCategory(ctx, a.ID, category)
		if err != nil {
			return err
		}
		if existing != nil {
			existing.Apply(answers, eval, now)
			if err := s.repo.UpdateResult(ctx, existing); err != nil {
				return err
			}
			result = existing
		} else {
			result = &domain.AssessmentResult{AssessmentID: a.ID, Category: category}
			result.Apply(answers, eval, now)
			if err := s.repo.CreateResult(ctx, result); err != nil {
				return err
			}
		}

		covered, err := s.repo.CountResultCategories(ctx, a.ID)
		if err != nil {
			return err
		}
		previous := a.Status
		a.RecordSubmission(covered, now)
		if err := s.repo.UpdateAssessment(ctx, a); err != nil {
			return err
		}
		if previous != a.Status {
			logger.Get().Info("Assessment status changed",
				zap.String("assessmentID", a.ID),
				zap.String("from", string(previous)),
				zap.String("to", string(a.Status)))
		}
		return nil
	})
	if err != nil {
		return nil, asServiceError("failed to submit answers", err)
	}

	s.invalidateSummary(ctx, userID, assessmentID)
	return result, nil
}

// GetAssessmentSummary serves a cached summary only while it matches the
// stored row. Every write moves UpdatedAt, so a summary cached from an older
// read is recomputed instead of outliving a concurrent submit.
func (s *assessmentServiceImpl) GetAssessmentSummary(ctx context.Context, userID, assessmentID string) (*domain.Summary, error) {
	a, err := s.repo.GetAssessment(ctx, assessmentID, userID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get assessment", err)
	}
	if a == nil {
		return nil, domain.NewAssessmentNotFoundError(assessmentID)
	}

	cached, err := s.summaryCache.Get(ctx, userID, assessmentID)
	switch {
	case err == nil && cached.Assessment.UpdatedAt.Equal(a.UpdatedAt):
		return cached, nil
	case err == nil:
		logger.Get().Debug("Cached summary is stale, recomputing",
			zap.String("assessmentID", assessmentID),
			zap.Time("cachedVersion", cached.Assessment.UpdatedAt),
			zap.Time("storedVersion", a.UpdatedAt))
	case !errors.Is(err, ErrSummaryNotCached):
		logger.Get().Warn("Summary cache read failed, computing summary", zap.Error(err))
	}

	results, err := s.repo.GetResults(ctx, a.ID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get assessment results", err)
	}
	a.Results = results
	summary := domain.Summarize(a, results)

	if err := s.summaryCache.Put(ctx, userID, &summary); err != nil {
		logger.Get().Warn("Failed to cache assessment summary", zap.String("assessmentID", assessmentID), zap.Error(err))
	}
	return &summary, nil
}

// invalidateSummary drops the cached summary. The database is the source of
// truth, so a cache failure is logged and not returned.
func (s *assessmentServiceImpl) invalidateSummary(ctx context.Context, userID, assessmentID string) {
	if err := s.summaryCache.Invalidate(ctx, userID, assessmentID); err != nil {
		logger.Get().Warn("Failed to invalidate summary cache",
			zap.String("assessmentID", assessmentID),
			zap.Error(err))
	}
}
