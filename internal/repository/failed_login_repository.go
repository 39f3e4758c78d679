package repository

import (
	"context"
	"fmt"
	"time"

	"ai-governance/internal/domain"
	"ai-governance/internal/util"
)

type sqlxFailedLoginRepository struct {
	db DBTX
}

func NewSQLXFailedLoginRepository(db DBTX) domain.FailedLoginRepository {
	return &sqlxFailedLoginRepository{db: db}
}

func (r *sqlxFailedLoginRepository) CreateFailedLogin(ctx context.Context, attempt *domain.FailedLogin) error {
	if attempt.ID == "" {
		attempt.ID = util.NewULID()
	}
	query := `INSERT INTO FAILED_LOGINS (ID, USER_ID, ATTEMPTED_AT, IP_ADDRESS) VALUES (:id, :user_id, :attempted_at, :ip_address)`
	args := map[string]interface{}{
		"id":           attempt.ID,
		"user_id":      attempt.UserID,
		"attempted_at": attempt.AttemptedAt.UTC(),
		"ip_address":   util.StringToNullString(attempt.IPAddress),
	}
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, args); err != nil {
		return fmt.Errorf("failed to record failed login: %w", err)
	}
	return nil
}

// CountFailedLoginsSince counts attempts with ATTEMPTED_AT >= since.
func (r *sqlxFailedLoginRepository) CountFailedLoginsSince(ctx context.Context, userID string, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM FAILED_LOGINS WHERE USER_ID = :user_id AND ATTEMPTED_AT >= :since`
	var count int
	err := namedGet(ctx, GetExecutor(ctx, r.db), &count, query, map[string]interface{}{
		"user_id": userID,
		"since":   since.UTC(),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to count failed logins: %w", err)
	}
	return count, nil
}

func (r *sqlxFailedLoginRepository) DeleteFailedLogins(ctx context.Context, userID string) error {
	query := `DELETE FROM FAILED_LOGINS WHERE USER_ID = :user_id`
	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, map[string]interface{}{"user_id": userID}); err != nil {
		return fmt.Errorf("failed to clear failed logins: %w", err)
	}
	return nil
}
