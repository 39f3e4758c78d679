package handler_test

import (
	"context"
	"time"

	"ai-governance/internal/domain"
	"ai-governance/internal/dto"
)

// --- Manual Mocks ---

// MockAuthService
type MockAuthService struct {
	SignupFunc                   func(ctx context.Context, email, password, fullName string) (*domain.User, error)
	LoginFunc                    func(ctx context.Context, email, password, clientIP string) (string, error)
	CreatePasswordResetTokenFunc func(ctx context.Context, email string) (string, error)
	ResetPasswordWithTokenFunc   func(ctx context.Context, token, newPassword string) (bool, error)
}

func (m *MockAuthService) Signup(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, email, password, fullName)
	}
	panic("MockAuthService.SignupFunc not implemented")
}

func (m *MockAuthService) Authenticate(ctx context.Context, email, password, clientIP string) (*domain.User, error) {
	panic("MockAuthService.Authenticate not implemented")
}

func (m *MockAuthService) Login(ctx context.Context, email, password, clientIP string) (string, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password, clientIP)
	}
	panic("MockAuthService.LoginFunc not implemented")
}

func (m *MockAuthService) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration) (string, error) {
	panic("MockAuthService.CreateJWT not implemented")
}

func (m *MockAuthService) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	panic("MockAuthService.ValidateJWT not implemented")
}

func (m *MockAuthService) ValidateAccessToken(ctx context.Context, tokenString string) (*domain.User, error) {
	panic("MockAuthService.ValidateAccessToken not implemented")
}

func (m *MockAuthService) CreatePasswordResetToken(ctx context.Context, email string) (string, error) {
	if m.CreatePasswordResetTokenFunc != nil {
		return m.CreatePasswordResetTokenFunc(ctx, email)
	}
	panic("MockAuthService.CreatePasswordResetTokenFunc not implemented")
}

func (m *MockAuthService) ResetPasswordWithToken(ctx context.Context, token, newPassword string) (bool, error) {
	if m.ResetPasswordWithTokenFunc != nil {
		return m.ResetPasswordWithTokenFunc(ctx, token, newPassword)
	}
	panic("MockAuthService.ResetPasswordWithTokenFunc not implemented")
}

// MockAssessmentService
type MockAssessmentService struct {
	CreateAssessmentFunc     func(ctx context.Context, userID, title, description string) (*domain.Assessment, error)
	GetAssessmentFunc        func(ctx context.Context, userID, assessmentID string) (*domain.Assessment, error)
	ListAssessmentsFunc      func(ctx context.Context, userID string, skip, limit int) ([]*domain.Assessment, error)
	UpdateAssessmentFunc     func(ctx context.Context, userID, assessmentID string, title, description *string) (*domain.Assessment, error)
	DeleteAssessmentFunc     func(ctx context.Context, userID, assessmentID string) error
	SubmitAnswersFunc        func(ctx context.Context, userID, assessmentID string, category domain.Category, answers map[string]int) (*domain.AssessmentResult, error)
	GetAssessmentSummaryFunc func(ctx context.Context, userID, assessmentID string) (*domain.Summary, error)
}

func (m *MockAssessmentService) CreateAssessment(ctx context.Context, userID, title, description string) (*domain.Assessment, error) {
	if m.CreateAssessmentFunc != nil {
		return m.CreateAssessmentFunc(ctx, userID, title, description)
	}
	panic("MockAssessmentService.CreateAssessmentFunc not implemented")
}

func (m *MockAssessmentService) GetAssessment(ctx context.Context, userID, assessmentID string) (*domain.Assessment, error) {
	if m.GetAssessmentFunc != nil {
		return m.GetAssessmentFunc(ctx, userID, assessmentID)
	}
	panic("MockAssessmentService.GetAssessmentFunc not implemented")
}

func (m *MockAssessmentService) ListAssessments(ctx context.Context, userID string, skip, limit int) ([]*domain.Assessment, error) {
	if m.ListAssessmentsFunc != nil {
		return m.ListAssessmentsFunc(ctx, userID, skip, limit)
	}
	panic("MockAssessmentService.ListAssessmentsFunc not implemented")
}

func (m *MockAssessmentService) UpdateAssessment(ctx context.Context, userID, assessmentID string, title, description *string) (*domain.Assessment, error) {
	if m.UpdateAssessmentFunc != nil {
		return m.UpdateAssessmentFunc(ctx, userID, assessmentID, title, description)
	}
	panic("MockAssessmentService.UpdateAssessmentFunc not implemented")
}

func (m *MockAssessmentService) DeleteAssessment(ctx context.Context, userID, assessmentID string) error {
	if m.DeleteAssessmentFunc != nil {
		return m.DeleteAssessmentFunc(ctx, userID, assessmentID)
	}
	panic("MockAssessmentService.DeleteAssessmentFunc not implemented")
}

func (m *MockAssessmentService) SubmitAnswers(ctx context.Context, userID, assessmentID string, category domain.Category, answers map[string]int) (*domain.AssessmentResult, error) {
	if m.SubmitAnswersFunc != nil {
		return m.SubmitAnswersFunc(ctx, userID, assessmentID, category, answers)
	}
	panic("MockAssessmentService.SubmitAnswersFunc not implemented")
}

func (m *MockAssessmentService) GetAssessmentSummary(ctx context.Context, userID, assessmentID string) (*domain.Summary, error) {
	if m.GetAssessmentSummaryFunc != nil {
		return m.GetAssessmentSummaryFunc(ctx, userID, assessmentID)
	}
	panic("MockAssessmentService.GetAssessmentSummaryFunc not implemented")
}

// MockMailer records the last reset e-mail.
type MockMailer struct {
	Email string
	Token string
}

func (m *MockMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.Email, m.Token = email, token
	return nil
}
