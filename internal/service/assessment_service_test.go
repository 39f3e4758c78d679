package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"ai-governance/internal/cache"
	"ai-governance/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fullMarks(t *testing.T, c domain.Category) map[string]int {
	t.Helper()
	q, ok := domain.GetQuestionnaire(c)
	require.True(t, ok)
	answers := make(map[string]int, len(q.Questions))
	for _, question := range q.Questions {
		answers[question.ID] = question.Weight
	}
	return answers
}

func resultFor(results []domain.AssessmentResult, c domain.Category) *domain.AssessmentResult {
	for i := range results {
		if results[i].Category == c {
			return &results[i]
		}
	}
	return nil
}

func TestAssessmentService_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, testEmail, testPassword)

	a, err := env.assessment.CreateAssessment(ctx, user.ID, "  Q1 governance review ", "quarterly")
	require.NoError(t, err)
	assert.Equal(t, "Q1 governance review", a.Title)
	assert.Equal(t, domain.StatusDraft, a.Status)
	assert.Equal(t, domain.SchemaVersion, a.SchemaVersion)

	categories := domain.AllCategories()
	for i, c := range categories[:3] {
		env.clock.Advance(time.Minute)
		_, err := env.assessment.SubmitAnswers(ctx, user.ID, a.ID, c, fullMarks(t, c))
		require.NoError(t, err)

		got, err := env.assessment.GetAssessment(ctx, user.ID, a.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusInProgress, got.Status, "after %d categories", i+1)
		assert.Nil(t, got.CompletedAt)
		assert.Len(t, got.Results, i+1)
	}

	completedAt := env.clock.Advance(time.Minute)
	_, err = env.assessment.SubmitAnswers(ctx, user.ID, a.ID, categories[3], fullMarks(t, categories[3]))
	require.NoError(t, err)

	got, err := env.assessment.GetAssessment(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(completedAt))
	original := resultFor(got.Results, domain.CategoryDataPrivacy)
	require.NotNil(t, original)

	// Resubmitting overwrites the result in place and keeps the completion stamp.
	resubmittedAt := env.clock.Advance(time.Hour)
	r, err := env.assessment.SubmitAnswers(ctx, user.ID, a.ID, domain.CategoryDataPrivacy, map[string]int{"dp_1": 5})
	require.NoError(t, err)
	assert.Equal(t, original.ID, r.ID)
	assert.Equal(t, 8, r.Score)
	assert.Equal(t, domain.MaturityInitial, r.MaturityLevel)
	assert.Equal(t, domain.Recommendation(domain.CategoryDataPrivacy, domain.MaturityInitial), r.Recommendations)

	got, err = env.assessment.GetAssessment(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.True(t, got.CompletedAt.Equal(completedAt))
	assert.True(t, got.UpdatedAt.Equal(resubmittedAt))
	assert.Len(t, got.Results, 4)
	stored := resultFor(got.Results, domain.CategoryDataPrivacy)
	require.NotNil(t, stored)
	assert.Equal(t, map[string]int{"dp_1": 5}, stored.Answers)
	assert.True(t, stored.CreatedAt.Equal(resubmittedAt))
}

func TestAssessmentService_SubmitAnswers_Errors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.signup(t, testEmail, testPassword)
	other := env.signup(t, "other@example.com", testPassword)

	a, err := env.assessment.CreateAssessment(ctx, owner.ID, "mine", "")
	require.NoError(t, err)

	_, err = env.assessment.SubmitAnswers(ctx, other.ID, a.ID, domain.CategoryEthics, map[string]int{})
	assert.True(t, errors.Is(err, domain.ErrAssessmentNotFound))

	_, err = env.assessment.SubmitAnswers(ctx, owner.ID, "missing", domain.CategoryEthics, nil)
	assert.True(t, errors.Is(err, domain.ErrAssessmentNotFound))

	_, err = env.assessment.SubmitAnswers(ctx, owner.ID, a.ID, domain.Category("finance"), nil)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInvalidCategory, domainErr.Code)

	r, err := env.assessment.SubmitAnswers(ctx, owner.ID, a.ID, domain.CategoryEthics, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, r.Score)
	assert.Equal(t, domain.MaturityInitial, r.MaturityLevel)
}

func TestAssessmentService_Summary(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, testEmail, testPassword)
	a, err := env.assessment.CreateAssessment(ctx, user.ID, "summary", "")
	require.NoError(t, err)
	key := cache.SummaryKey(user.ID, a.ID)

	s, err := env.assessment.GetAssessmentSummary(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, s.OverallScore)
	assert.Equal(t, domain.MaturityInitial, s.OverallMaturity)
	assert.Empty(t, s.CategoryScores)
	assert.True(t, env.cache.has(key))

	_, err = env.assessment.SubmitAnswers(ctx, user.ID, a.ID, domain.CategoryDataPrivacy, fullMarks(t, domain.CategoryDataPrivacy))
	require.NoError(t, err)
	assert.False(t, env.cache.has(key), "submit invalidates the cached summary")

	_, err = env.assessment.SubmitAnswers(ctx, user.ID, a.ID, domain.CategoryModelRisk,
		map[string]int{"mr_1": 7, "mr_2": 7, "mr_3": 7, "mr_4": 5, "mr_5": 5})
	require.NoError(t, err)

	s, err = env.assessment.GetAssessmentSummary(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 73, s.OverallScore) // (100+47)/2
	assert.Equal(t, domain.MaturityManaged, s.OverallMaturity)
	assert.Equal(t, map[domain.Category]int{
		domain.CategoryDataPrivacy: 100,
		domain.CategoryModelRisk:   47,
	}, s.CategoryScores)
	assert.Equal(t, domain.StatusInProgress, s.Assessment.Status)

	cached, err := env.assessment.GetAssessmentSummary(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, s.OverallScore, cached.OverallScore)
	assert.Equal(t, s.CategoryScores, cached.CategoryScores)

	_, err = env.assessment.GetAssessmentSummary(ctx, "someone-else", a.ID)
	assert.True(t, errors.Is(err, domain.ErrAssessmentNotFound))
}

func TestAssessmentService_SummaryServedFromCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockAssessmentRepository)
	memory := newMemoryCache()
	svc := NewAssessmentService(repo, passthroughTx{}, NewSummaryCacheService(memory, time.Minute))

	a := &domain.Assessment{ID: "a1", UserID: "u1", Title: "cached", Status: domain.StatusInProgress}
	results := []domain.AssessmentResult{
		{ID: "r1", AssessmentID: "a1", Category: domain.CategoryEthics, Score: 80, MaturityLevel: domain.MaturityOptimized},
	}
	repo.On("GetAssessment", mock.Anything, "a1", "u1").Return(a, nil).Twice()
	repo.On("GetResults", mock.Anything, "a1").Return(results, nil).Once()

	first, err := svc.GetAssessmentSummary(ctx, "u1", "a1")
	require.NoError(t, err)
	second, err := svc.GetAssessmentSummary(ctx, "u1", "a1")
	require.NoError(t, err)

	assert.Equal(t, 80, first.OverallScore)
	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, "cached", second.Assessment.Title)
	assert.Equal(t, map[domain.Category]int{domain.CategoryEthics: 80}, second.CategoryScores)
	repo.AssertExpectations(t)
}

// submitBeforeSet commits a submission right before the first cache write,
// after the summary it is about to store was computed.
type submitBeforeSet struct {
	*memoryCache
	once   sync.Once
	submit func()
}

func (c *submitBeforeSet) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	c.once.Do(c.submit)
	return c.memoryCache.Set(ctx, key, value, ttl)
}

func TestAssessmentService_SummaryNotStaleAfterConcurrentSubmit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, testEmail, testPassword)
	a, err := env.assessment.CreateAssessment(ctx, user.ID, "race", "")
	require.NoError(t, err)

	racing := &submitBeforeSet{memoryCache: env.cache}
	svc := NewAssessmentService(env.assessments, env.txManager, NewSummaryCacheService(racing, time.Minute)).(*assessmentServiceImpl)
	// The clock stays put, so the submit cannot rely on a later timestamp.
	svc.now = env.clock.Now
	racing.submit = func() {
		_, err := svc.SubmitAnswers(ctx, user.ID, a.ID, domain.CategoryDataPrivacy, fullMarks(t, domain.CategoryDataPrivacy))
		require.NoError(t, err)
	}

	first, err := svc.GetAssessmentSummary(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, first.OverallScore)
	assert.True(t, env.cache.has(cache.SummaryKey(user.ID, a.ID)), "the outdated summary was cached")

	s, err := svc.GetAssessmentSummary(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, s.OverallScore)
	assert.Equal(t, map[domain.Category]int{domain.CategoryDataPrivacy: 100}, s.CategoryScores)
	assert.Equal(t, domain.StatusInProgress, s.Assessment.Status)

	// The recomputed summary replaced the stale entry and is served from cache.
	again, err := svc.GetAssessmentSummary(ctx, user.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, again.OverallScore)
}

func TestAssessmentService_ListUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.signup(t, testEmail, testPassword)

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		env.clock.Advance(time.Second)
		a, err := env.assessment.CreateAssessment(ctx, user.ID, title, "")
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	list, err := env.assessment.ListAssessments(ctx, user.ID, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "second", list[0].Title)
	assert.Equal(t, "third", list[1].Title)

	list, err = env.assessment.ListAssessments(ctx, "nobody", 0, 10)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	_, err = env.assessment.GetAssessmentSummary(ctx, user.ID, ids[0])
	require.NoError(t, err)

	newTitle := "renamed"
	updated, err := env.assessment.UpdateAssessment(ctx, user.ID, ids[0], &newTitle, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)
	assert.Equal(t, domain.StatusDraft, updated.Status)
	assert.False(t, env.cache.has(cache.SummaryKey(user.ID, ids[0])))

	_, err = env.assessment.UpdateAssessment(ctx, "nobody", ids[0], &newTitle, nil)
	assert.True(t, errors.Is(err, domain.ErrAssessmentNotFound))

	_, err = env.assessment.SubmitAnswers(ctx, user.ID, ids[0], domain.CategoryCompliance, map[string]int{"comp_1": 10})
	require.NoError(t, err)

	require.NoError(t, env.assessment.DeleteAssessment(ctx, user.ID, ids[0]))
	_, err = env.assessment.GetAssessment(ctx, user.ID, ids[0])
	assert.True(t, errors.Is(err, domain.ErrAssessmentNotFound))

	var remaining int
	require.NoError(t, env.db.GetContext(ctx, &remaining, `SELECT COUNT(*) FROM ASSESSMENT_RESULTS WHERE ASSESSMENT_ID = ?`, ids[0]))
	assert.Equal(t, 0, remaining)

	err = env.assessment.DeleteAssessment(ctx, user.ID, ids[0])
	assert.True(t, errors.Is(err, domain.ErrAssessmentNotFound))
}

func TestAssessmentService_ListClampsLimit(t *testing.T) {
	repo := new(MockAssessmentRepository)
	svc := NewAssessmentService(repo, passthroughTx{}, nil)

	repo.On("ListAssessments", mock.Anything, "u1", 0, MaxListLimit).Return([]*domain.Assessment{}, nil).Once()
	_, err := svc.ListAssessments(context.Background(), "u1", -5, 1000)
	require.NoError(t, err)

	repo.On("ListAssessments", mock.Anything, "u1", 10, DefaultListLimit).Return(nil, errors.New("db down")).Once()
	_, err = svc.ListAssessments(context.Background(), "u1", 10, 0)
	var domainErr *domain.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, domain.CodeInternal, domainErr.Code)

	repo.AssertExpectations(t)
}
