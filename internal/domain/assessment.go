package domain

import (
	"context"
	"time"
)

// SchemaVersion is stamped on every new assessment.
const SchemaVersion = "1.0"

// AssessmentStatus is the lifecycle state of an assessment.
type AssessmentStatus string

const (
	StatusDraft      AssessmentStatus = "draft"
	StatusInProgress AssessmentStatus = "in_progress"
	StatusCompleted  AssessmentStatus = "completed"
)

// Assessment is a user-owned evaluation across the four categories.
type Assessment struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	SchemaVersion string
	Status        AssessmentStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	CompletedAt   *time.Time
	Results       []AssessmentResult
}

// AssessmentResult is the scored answer set of one category.
type AssessmentResult struct {
	ID              string
	AssessmentID    string
	Category        Category
	Answers         map[string]int
	Score           int
	MaturityLevel   MaturityLevel
	Recommendations string
	CreatedAt       time.Time
}

// NewAssessment creates a draft assessment.
func NewAssessment(userID, title, description string, now time.Time) *Assessment {
	return &Assessment{
		UserID:        userID,
		Title:         title,
		Description:   description,
		SchemaVersion: SchemaVersion,
		Status:        StatusDraft,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// RecordSubmission advances the lifecycle after a category result was stored.
// distinctCategories is the number of categories with results, the new one included.
// A completed assessment keeps its original completion time.
func (a *Assessment) RecordSubmission(distinctCategories int, now time.Time) {
	if a.Status == StatusDraft {
		a.Status = StatusInProgress
	}
	if distinctCategories >= CategoryCount && a.Status != StatusCompleted {
		a.Status = StatusCompleted
		completed := now
		a.CompletedAt = &completed
	}
	a.Touch(now)
}

// Touch moves UpdatedAt forward to now, or by one microsecond when now does
// not advance it. Microseconds are the finest precision the stores keep, so
// every write yields a distinct UpdatedAt that versions cached summaries.
func (a *Assessment) Touch(now time.Time) {
	next := now.Truncate(time.Microsecond)
	if !next.After(a.UpdatedAt) {
		next = a.UpdatedAt.Truncate(time.Microsecond).Add(time.Microsecond)
	}
	a.UpdatedAt = next
}

// Apply overwrites a result with a fresh evaluation, keeping its identity.
func (r *AssessmentResult) Apply(answers map[string]int, eval Evaluation, now time.Time) {
	r.Answers = answers
	r.Score = eval.Score
	r.MaturityLevel = eval.MaturityLevel
	r.Recommendations = eval.Recommendations
	r.CreatedAt = now
}

// Summary aggregates the stored results of an assessment.
type Summary struct {
	Assessment      *Assessment
	OverallScore    int
	OverallMaturity MaturityLevel
	CategoryScores  map[Category]int
}

// Summarize computes the overall score over the categories present.
func Summarize(a *Assessment, results []AssessmentResult) Summary {
	s := Summary{
		Assessment:      a,
		OverallMaturity: MaturityInitial,
		CategoryScores:  make(map[Category]int, len(results)),
	}
	if len(results) == 0 {
		return s
	}
	scores := make([]int, 0, len(results))
	for _, r := range results {
		scores = append(scores, r.Score)
		s.CategoryScores[r.Category] = r.Score
	}
	s.OverallScore = OverallScore(scores)
	s.OverallMaturity = MaturityLevelFor(s.OverallScore)
	return s
}

// AssessmentRepository persists assessments and their results.
// Lookups return nil, nil when the row does not exist.
type AssessmentRepository interface {
	CreateAssessment(ctx context.Context, a *Assessment) error
	GetAssessment(ctx context.Context, id, userID string) (*Assessment, error)
	GetAssessmentForUpdate(ctx context.Context, id, userID string) (*Assessment, error)
	ListAssessments(ctx context.Context, userID string, offset, limit int) ([]*Assessment, error)
	UpdateAssessment(ctx context.Context, a *Assessment) error
	DeleteAssessment(ctx context.Context, id string) error

	GetResults(ctx context.Context, assessmentID string) ([]AssessmentResult, error)
	GetResultByCategory(ctx context.Context, assessmentID string, category Category) (*AssessmentResult, error)
	CreateResult(ctx context.Context, r *AssessmentResult) error
	UpdateResult(ctx context.Context, r *AssessmentResult) error
	CountResultCategories(ctx context.Context, assessmentID string) (int, error)
	DeleteResults(ctx context.Context, assessmentID string) error
}

// TransactionManager runs fn inside a database transaction carried by ctx.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
