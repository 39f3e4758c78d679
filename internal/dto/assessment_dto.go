package dto

import (
	"time"

	"ai-governance/internal/domain"
)

// CreateAssessmentRequest represents the request body for creating an assessment.
// @Description Request body for creating an assessment
type CreateAssessmentRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// UpdateAssessmentRequest carries the client-writable fields of an assessment.
// Absent fields are left unchanged.
// @Description Request body for updating an assessment
type UpdateAssessmentRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// SubmitAnswersRequest holds the answers of one category.
// @Description Request body for submitting the answers of a category
type SubmitAnswersRequest struct {
	Category string         `json:"category"`
	Answers  map[string]int `json:"answers"`
}

// AssessmentResultResponse is the scored result of one category.
type AssessmentResultResponse struct {
	ID              string         `json:"id"`
	AssessmentID    string         `json:"assessment_id"`
	Category        string         `json:"category"`
	Answers         map[string]int `json:"answers"`
	Score           int            `json:"score"`
	MaturityLevel   string         `json:"maturity_level"`
	Recommendations string         `json:"recommendations"`
	CreatedAt       time.Time      `json:"created_at"`
}

// AssessmentResponse is an assessment with its stored results.
type AssessmentResponse struct {
	ID            string                     `json:"id"`
	UserID        string                     `json:"user_id"`
	Title         string                     `json:"title"`
	Description   string                     `json:"description"`
	SchemaVersion string                     `json:"schema_version"`
	Status        string                     `json:"status"`
	CreatedAt     time.Time                  `json:"created_at"`
	UpdatedAt     time.Time                  `json:"updated_at"`
	CompletedAt   *time.Time                 `json:"completed_at"`
	Results       []AssessmentResultResponse `json:"results"`
}

// AssessmentSummaryResponse carries the overall score of an assessment.
type AssessmentSummaryResponse struct {
	Assessment      AssessmentResponse `json:"assessment"`
	OverallScore    int                `json:"overall_score"`
	OverallMaturity string             `json:"overall_maturity"`
	CategoryScores  map[string]int     `json:"category_scores"`
}

// QuestionnaireResponse is one category's question set.
type QuestionnaireResponse struct {
	Category    string             `json:"category"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Questions   []QuestionResponse `json:"questions"`
}

// QuestionResponse is a single question and its options.
type QuestionResponse struct {
	ID      string           `json:"id"`
	Text    string           `json:"text"`
	Weight  int              `json:"weight"`
	Options []OptionResponse `json:"options"`
}

// OptionResponse is an answer choice and its numeric value.
type OptionResponse struct {
	Value int    `json:"value"`
	Label string `json:"label"`
}

func NewAssessmentResultResponse(r domain.AssessmentResult) AssessmentResultResponse {
	answers := r.Answers
	if answers == nil {
		answers = map[string]int{}
	}
	return AssessmentResultResponse{
		ID:              r.ID,
		AssessmentID:    r.AssessmentID,
		Category:        string(r.Category),
		Answers:         answers,
		Score:           r.Score,
		MaturityLevel:   string(r.MaturityLevel),
		Recommendations: r.Recommendations,
		CreatedAt:       r.CreatedAt,
	}
}

func NewAssessmentResponse(a *domain.Assessment) AssessmentResponse {
	results := make([]AssessmentResultResponse, 0, len(a.Results))
	for _, r := range a.Results {
		results = append(results, NewAssessmentResultResponse(r))
	}
	return AssessmentResponse{
		ID:            a.ID,
		UserID:        a.UserID,
		Title:         a.Title,
		Description:   a.Description,
		SchemaVersion: a.SchemaVersion,
		Status:        string(a.Status),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
		CompletedAt:   a.CompletedAt,
		Results:       results,
	}
}

func NewAssessmentSummaryResponse(s *domain.Summary) AssessmentSummaryResponse {
	scores := make(map[string]int, len(s.CategoryScores))
	for c, score := range s.CategoryScores {
		scores[string(c)] = score
	}
	return AssessmentSummaryResponse{
		Assessment:      NewAssessmentResponse(s.Assessment),
		OverallScore:    s.OverallScore,
		OverallMaturity: string(s.OverallMaturity),
		CategoryScores:  scores,
	}
}

func NewQuestionnaireResponse(q domain.Questionnaire) QuestionnaireResponse {
	questions := make([]QuestionResponse, 0, len(q.Questions))
	for _, question := range q.Questions {
		options := make([]OptionResponse, 0, len(question.Options))
		for _, o := range question.Options {
			options = append(options, OptionResponse{Value: o.Value, Label: o.Label})
		}
		questions = append(questions, QuestionResponse{
			ID:      question.ID,
			Text:    question.Text,
			Weight:  question.Weight,
			Options: options,
		})
	}
	return QuestionnaireResponse{
		Category:    string(q.Category),
		Title:       q.Title,
		Description: q.Description,
		Questions:   questions,
	}
}
