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

type sqlxPasswordResetRepository struct {
	db DBTX
}

func NewSQLXPasswordResetRepository(db DBTX) domain.PasswordResetRepository {
	return &sqlxPasswordResetRepository{db: db}
}

func toDomainPasswordReset(m *models.PasswordReset) *domain.PasswordReset {
	return &domain.PasswordReset{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		IsUsed:    m.IsUsed,
		CreatedAt: m.CreatedAt.UTC(),
		ExpiresAt: m.ExpiresAt.UTC(),
	}
}

func (r *sqlxPasswordResetRepository) CreatePasswordReset(ctx context.Context, reset *domain.PasswordReset) error {
	if reset.ID == "" {
		reset.ID = util.NewULID()
	}
	query := `INSERT INTO PASSWORD_RESETS (ID, USER_ID, TOKEN, IS_USED, CREATED_AT, EXPIRES_AT)
	          VALUES (:id, :user_id, :token, :is_used, :created_at, :expires_at)`
	args := map[string]interface{}{
		"id":         reset.ID,
		"user_id":    reset.UserID,
		"token":      reset.Token,
		"is_used":    util.BoolToInt(reset.IsUsed),
		"created_at": reset.CreatedAt.UTC(),
		"expires_at": reset.ExpiresAt.UTC(),
	}
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, args); err != nil {
		return fmt.Errorf("failed to create password reset: %w", err)
	}
	return nil
}

// InvalidateUnusedTokens marks every unused token of the user as used.
func (r *sqlxPasswordResetRepository) InvalidateUnusedTokens(ctx context.Context, userID string) error {
	query := `UPDATE PASSWORD_RESETS SET IS_USED = 1 WHERE USER_ID = :user_id AND IS_USED = 0`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, map[string]interface{}{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to invalidate password resets: %w", err)
	}
	return nil
}

// GetUnusedByToken locks the matching row when called inside a transaction on Oracle.
func (r *sqlxPasswordResetRepository) GetUnusedByToken(ctx context.Context, token string) (*domain.PasswordReset, error) {
	db := GetExecutor(ctx, r.db)
	query := `SELECT ID, USER_ID, TOKEN, IS_USED, CREATED_AT, EXPIRES_AT FROM PASSWORD_RESETS
	          WHERE TOKEN = :token AND IS_USED = 0` + dialectOf(db).forUpdate()

	var m models.PasswordReset
	if err := namedGet(ctx, db, &m, query, map[string]interface{}{"token": token}); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get password reset: %w", err)
	}
	return toDomainPasswordReset(&m), nil
}

func (r *sqlxPasswordResetRepository) MarkUsed(ctx context.Context, id string) error {
	query := `UPDATE PASSWORD_RESETS SET IS_USED = 1 WHERE ID = :id AND IS_USED = 0`
	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, map[string]interface{}{"id": id})
	if err != nil {
		return fmt.Errorf("failed to mark password reset used: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("password reset %s already used: %w", id, sql.ErrNoRows)
	}
	return nil
}
