package service

import (
	"context"
	"time"

	"ai-governance/internal/domain"

	"github.com/stretchr/testify/mock"
)

// passthroughTx runs fn without a database transaction.
type passthroughTx struct{}

func (passthroughTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- MockUserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetUserByEmailForUpdate(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateLockState(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID, hashedPassword string, updatedAt time.Time) error {
	args := m.Called(ctx, userID, hashedPassword, updatedAt)
	return args.Error(0)
}

// --- MockFailedLoginRepository ---
type MockFailedLoginRepository struct {
	mock.Mock
}

func (m *MockFailedLoginRepository) CreateFailedLogin(ctx context.Context, attempt *domain.FailedLogin) error {
	args := m.Called(ctx, attempt)
	return args.Error(0)
}

func (m *MockFailedLoginRepository) CountFailedLoginsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	args := m.Called(ctx, userID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockFailedLoginRepository) DeleteFailedLogins(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// --- MockPasswordResetRepository ---
type MockPasswordResetRepository struct {
	mock.Mock
}

func (m *MockPasswordResetRepository) CreatePasswordReset(ctx context.Context, reset *domain.PasswordReset) error {
	args := m.Called(ctx, reset)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) InvalidateUnusedTokens(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockPasswordResetRepository) GetUnusedByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PasswordReset), args.Error(1)
}

func (m *MockPasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// --- MockAssessmentRepository ---
type MockAssessmentRepository struct {
	mock.Mock
}

func (m *MockAssessmentRepository) CreateAssessment(ctx context.Context, a *domain.Assessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssessmentRepository) GetAssessment(ctx context.Context, id, userID string) (*domain.Assessment, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) GetAssessmentForUpdate(ctx context.Context, id, userID string) (*domain.Assessment, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) ListAssessments(ctx context.Context, userID string, offset, limit int) ([]*domain.Assessment, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Assessment), args.Error(1)
}

func (m *MockAssessmentRepository) UpdateAssessment(ctx context.Context, a *domain.Assessment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssessmentRepository) DeleteAssessment(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAssessmentRepository) GetResults(ctx context.Context, assessmentID string) ([]domain.AssessmentResult, error) {
	args := m.Called(ctx, assessmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AssessmentResult), args.Error(1)
}

func (m *MockAssessmentRepository) GetResultByCategory(ctx context.Context, assessmentID string, category domain.Category) (*domain.AssessmentResult, error) {
	args := m.Called(ctx, assessmentID, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AssessmentResult), args.Error(1)
}

func (m *MockAssessmentRepository) CreateResult(ctx context.Context, r *domain.AssessmentResult) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockAssessmentRepository) UpdateResult(ctx context.Context, r *domain.AssessmentResult) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockAssessmentRepository) CountResultCategories(ctx context.Context, assessmentID string) (int, error) {
	args := m.Called(ctx, assessmentID)
	return args.Int(0), args.Error(1)
}

func (m *MockAssessmentRepository) DeleteResults(ctx context.Context, assessmentID string) error {
	args := m.Called(ctx, assessmentID)
	return args.Error(0)
}
