package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ai-governance/internal/domain"
	"ai-governance/internal/repository/models"
	"ai-governance/internal/util"
)

const (
	assessmentColumns = `ID, USER_ID, TITLE, DESCRIPTION, SCHEMA_VERSION, STATUS, CREATED_AT, UPDATED_AT, COMPLETED_AT`
	resultColumns     = `ID, ASSESSMENT_ID, CATEGORY, ANSWERS, SCORE, MATURITY_LEVEL, RECOMMENDATIONS, CREATED_AT`
)

type sqlxAssessmentRepository struct {
	db DBTX
}

// NewSQLXAssessmentRepository creates a repository for assessments and their results.
func NewSQLXAssessmentRepository(db DBTX) domain.AssessmentRepository {
	return &sqlxAssessmentRepository{db: db}
}

func toDomainAssessment(m *models.Assessment) *domain.Assessment {
	return &domain.Assessment{
		ID:            m.ID,
		UserID:        m.UserID,
		Title:         m.Title,
		Description:   m.Description.String,
		SchemaVersion: m.SchemaVersion,
		Status:        domain.AssessmentStatus(m.Status),
		CreatedAt:     m.CreatedAt.UTC(),
		UpdatedAt:     m.UpdatedAt.UTC(),
		CompletedAt:   util.NullTimeToPtr(m.CompletedAt),
	}
}

func toDomainResult(m *models.AssessmentResult) domain.AssessmentResult {
	answers := map[string]int(m.Answers)
	if answers == nil {
		answers = map[string]int{}
	}
	return domain.AssessmentResult{
		ID:              m.ID,
		AssessmentID:    m.AssessmentID,
		Category:        domain.Category(m.Category),
		Answers:         answers,
		Score:           m.Score,
		MaturityLevel:   domain.MaturityLevel(m.MaturityLevel),
		Recommendations: m.Recommendations.String,
		CreatedAt:       m.CreatedAt.UTC(),
	}
}

func assessmentArgs(a *domain.Assessment) map[string]interface{} {
	return map[string]interface{}{
		"id":             a.ID,
		"user_id":        a.UserID,
		"title":          a.Title,
		"description":    util.StringToNullString(a.Description),
		"schema_version": a.SchemaVersion,
		"status":         string(a.Status),
		"created_at":     a.CreatedAt.UTC(),
		"updated_at":     a.UpdatedAt.UTC(),
		"completed_at":   util.TimePtrToNullTime(a.CompletedAt),
	}
}

func resultArgs(r *domain.AssessmentResult) map[string]interface{} {
	return map[string]interface{}{
		"id":              r.ID,
		"assessment_id":   r.AssessmentID,
		"category":        string(r.Category),
		"answers":         models.AnswerMap(r.Answers),
		"score":           r.Score,
		"maturity_level":  string(r.MaturityLevel),
		"recommendations": util.StringToNullString(r.Recommendations),
		"created_at":      r.CreatedAt.UTC(),
	}
}

func (r *sqlxAssessmentRepository) CreateAssessment(ctx context.Context, a *domain.Assessment) error {
	if a.ID == "" {
		a.ID = util.NewULID()
	}
	query := `INSERT INTO ASSESSMENTS (` + assessmentColumns + `)
	          VALUES (:id, :user_id, :title, :description, :schema_version, :status, :created_at, :updated_at, :completed_at)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, assessmentArgs(a)); err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

func (r *sqlxAssessmentRepository) getAssessment(ctx context.Context, id, userID string, lock bool) (*domain.Assessment, error) {
	db := GetExecutor(ctx, r.db)
	query := `SELECT ` + assessmentColumns + ` FROM ASSESSMENTS WHERE ID = :id AND USER_ID = :user_id`
	if lock {
		query += dialectOf(db).forUpdate()
	}

	var m models.Assessment
	if err := namedGet(ctx, db, &m, query, map[string]interface{}{"id": id, "user_id": userID}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment %s: %w", id, err)
	}
	return toDomainAssessment(&m), nil
}

// GetAssessment returns nil, nil when the assessment is absent or owned by someone else.
func (r *sqlxAssessmentRepository) GetAssessment(ctx context.Context, id, userID string) (*domain.Assessment, error) {
	return r.getAssessment(ctx, id, userID, false)
}

// GetAssessmentForUpdate locks the assessment row for the surrounding transaction.
func (r *sqlxAssessmentRepository) GetAssessmentForUpdate(ctx context.Context, id, userID string) (*domain.Assessment, error) {
	return r.getAssessment(ctx, id, userID, true)
}

// ListAssessments returns the user's assessments oldest first.
func (r *sqlxAssessmentRepository) ListAssessments(ctx context.Context, userID string, offset, limit int) ([]*domain.Assessment, error) {
	db := GetExecutor(ctx, r.db)
	query := `SELECT ` + assessmentColumns + ` FROM ASSESSMENTS WHERE USER_ID = :user_id ORDER BY CREATED_AT, ID` +
		dialectOf(db).paginate()

	var rows []models.Assessment
	err := namedSelect(ctx, db, &rows, query, map[string]interface{}{
		"user_id": userID,
		"offset":  offset,
		"limit":   limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}

	out := make([]*domain.Assessment, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainAssessment(&rows[i]))
	}
	return out, nil
}

// UpdateAssessment persists the mutable columns of an assessment.
func (r *sqlxAssessmentRepository) UpdateAssessment(ctx context.Context, a *domain.Assessment) error {
	query := `UPDATE ASSESSMENTS SET TITLE = :title, DESCRIPTION = :description, STATUS = :status,
	          UPDATED_AT = :updated_at, COMPLETED_AT = :completed_at WHERE ID = :id`
	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, assessmentArgs(a))
	if err != nil {
		return fmt.Errorf("failed to update assessment: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return domain.NewAssessmentNotFoundError(a.ID)
	}
	return nil
}

// DeleteAssessment removes the assessment row. Results must be deleted first.
func (r *sqlxAssessmentRepository) DeleteAssessment(ctx context.Context, id string) error {
	query := `DELETE FROM ASSESSMENTS WHERE ID = :id`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, map[string]interface{}{"id": id}); err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	return nil
}

// GetResults returns the results of an assessment ordered by category.
func (r *sqlxAssessmentRepository) GetResults(ctx context.Context, assessmentID string) ([]domain.AssessmentResult, error) {
	query := `SELECT ` + resultColumns + ` FROM ASSESSMENT_RESULTS WHERE ASSESSMENT_ID = :assessment_id ORDER BY CATEGORY`
	var rows []models.AssessmentResult
	if err := namedSelect(ctx, GetExecutor(ctx, r.db), &rows, query, map[string]interface{}{"assessment_id": assessmentID}); err != nil {
		return nil, fmt.Errorf("failed to get assessment results: %w", err)
	}

	out := make([]domain.AssessmentResult, 0, len(rows))
	for i := range rows {
		out = append(out, toDomainResult(&rows[i]))
	}
	return out, nil
}

// GetResultByCategory returns nil, nil when the category has no result yet.
func (r *sqlxAssessmentRepository) GetResultByCategory(ctx context.Context, assessmentID string, category domain.Category) (*domain.AssessmentResult, error) {
	query := `SELECT ` + resultColumns + ` FROM ASSESSMENT_RESULTS WHERE ASSESSMENT_ID = :assessment_id AND CATEGORY = :category`
	var m models.AssessmentResult
	err := namedGet(ctx, GetExecutor(ctx, r.db), &m, query, map[string]interface{}{
		"assessment_id": assessmentID,
		"category":      string(category),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment result: %w", err)
	}
	res := toDomainResult(&m)
	return &res, nil
}

func (r *sqlxAssessmentRepository) CreateResult(ctx context.Context, res *domain.AssessmentResult) error {
	if res.ID == "" {
		res.ID = util.NewULID()
	}
	query := `INSERT INTO ASSESSMENT_RESULTS (` + resultColumns + `)
	          VALUES (:id, :assessment_id, :category, :answers, :score, :maturity_level, :recommendations, :created_at)`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, resultArgs(res)); err != nil {
		return fmt.Errorf("failed to create assessment result: %w", err)
	}
	return nil
}

// UpdateResult overwrites a result in place, keeping its ID.
func (r *sqlxAssessmentRepository) UpdateResult(ctx context.Context, res *domain.AssessmentResult) error {
	query := `UPDATE ASSESSMENT_RESULTS SET ANSWERS = :answers, SCORE = :score, MATURITY_LEVEL = :maturity_level,
	          RECOMMENDATIONS = :recommendations, CREATED_AT = :created_at WHERE ID = :id`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, resultArgs(res)); err != nil {
		return fmt.Errorf("failed to update assessment result: %w", err)
	}
	return nil
}

// CountResultCategories counts the distinct categories with a stored result.
func (r *sqlxAssessmentRepository) CountResultCategories(ctx context.Context, assessmentID string) (int, error) {
	query := `SELECT COUNT(DISTINCT CATEGORY) FROM ASSESSMENT_RESULTS WHERE ASSESSMENT_ID = :assessment_id`
	var count int
	if err := namedGet(ctx, GetExecutor(ctx, r.db), &count, query, map[string]interface{}{"assessment_id": assessmentID}); err != nil {
		return 0, fmt.Errorf("failed to count result categories: %w", err)
	}
	return count, nil
}

func (r *sqlxAssessmentRepository) DeleteResults(ctx context.Context, assessmentID string) error {
	query := `DELETE FROM ASSESSMENT_RESULTS WHERE ASSESSMENT_ID = :assessment_id`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, map[string]interface{}{"assessment_id": assessmentID}); err != nil {
		return fmt.Errorf("failed to delete assessment results: %w", err)
	}
	return nil
}
