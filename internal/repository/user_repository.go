package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-governance/internal/domain"
	"ai-governance/internal/repository/models"
	"ai-governance/internal/util"
)

const userColumns = `ID, EMAIL, HASHED_PASSWORD, FULL_NAME, IS_ACTIVE, IS_LOCKED, LOCKED_UNTIL, CREATED_AT, UPDATED_AT`

// sqlxUserRepository implements domain.UserRepository using sqlx.
type sqlxUserRepository struct {
	db DBTX
}

// NewSQLXUserRepository creates a new instance of sqlxUserRepository.
func NewSQLXUserRepository(db DBTX) domain.UserRepository {
	return &sqlxUserRepository{db: db}
}

func toDomainUser(m *models.User) *domain.User {
	if m == nil {
		return nil
	}
	return &domain.User{
		ID:             m.ID,
		Email:          m.Email,
		HashedPassword: m.HashedPassword,
		FullName:       m.FullName.String,
		IsActive:       m.IsActive,
		IsLocked:       m.IsLocked,
		LockedUntil:    util.NullTimeToPtr(m.LockedUntil),
		CreatedAt:      m.CreatedAt.UTC(),
		UpdatedAt:      m.UpdatedAt.UTC(),
	}
}

func fromDomainUser(u *domain.User) *models.User {
	if u == nil {
		return nil
	}
	return &models.User{
		ID:             u.ID,
		Email:          u.Email,
		HashedPassword: u.HashedPassword,
		FullName:       util.StringToNullString(u.FullName),
		IsActive:       u.IsActive,
		IsLocked:       u.IsLocked,
		LockedUntil:    util.TimePtrToNullTime(u.LockedUntil),
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// CreateUser inserts a new user. The ID is generated when empty.
func (r *sqlxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		user.ID = util.NewULID()
	}
	m := fromDomainUser(user)
	query := `INSERT INTO USERS (` + userColumns + `)
	          VALUES (:id, :email, :hashed_password, :full_name, :is_active, :is_locked, :locked_until, :created_at, :updated_at)`
	args := map[string]interface{}{
		"id":              m.ID,
		"email":           m.Email,
		"hashed_password": m.HashedPassword,
		"full_name":       m.FullName,
		"is_active":       util.BoolToInt(m.IsActive),
		"is_locked":       util.BoolToInt(m.IsLocked),
		"locked_until":    m.LockedUntil,
		"created_at":      m.CreatedAt.UTC(),
		"updated_at":      m.UpdatedAt.UTC(),
	}

	if _, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, args); err != nil {
		if isUniqueViolation(err) {
			return domain.NewEmailTakenError(user.Email)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *sqlxUserRepository) getUser(ctx context.Context, where string, args map[string]interface{}, lock bool) (*domain.User, error) {
	db := GetExecutor(ctx, r.db)
	query := `SELECT ` + userColumns + ` FROM USERS WHERE ` + where
	if lock {
		query += dialectOf(db).forUpdate()
	}

	var user models.User
	if err := namedGet(ctx, db, &user, query, args); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return toDomainUser(&user), nil
}

// GetUserByID retrieves a user by ID. Returns nil, nil when not found.
func (r *sqlxUserRepository) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	user, err := r.getUser(ctx, `ID = :id`, map[string]interface{}{"id": userID}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, nil
}

// GetUserByEmail retrieves a user by email. Returns nil, nil when not found.
func (r *sqlxUserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.getUser(ctx, `EMAIL = :email`, map[string]interface{}{"email": email}, false)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

// GetUserByEmailForUpdate is GetUserByEmail with the row locked until the
// surrounding transaction ends.
func (r *sqlxUserRepository) GetUserByEmailForUpdate(ctx context.Context, email string) (*domain.User, error) {
	user, err := r.getUser(ctx, `EMAIL = :email`, map[string]interface{}{"email": email}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to lock user by email: %w", err)
	}
	return user, nil
}

// UpdateLockState persists IsLocked, LockedUntil and UpdatedAt.
func (r *sqlxUserRepository) UpdateLockState(ctx context.Context, user *domain.User) error {
	query := `UPDATE USERS SET IS_LOCKED = :is_locked, LOCKED_UNTIL = :locked_until, UPDATED_AT = :updated_at WHERE ID = :id`
	args := map[string]interface{}{
		"is_locked":    util.BoolToInt(user.IsLocked),
		"locked_until": util.TimePtrToNullTime(user.LockedUntil),
		"updated_at":   user.UpdatedAt.UTC(),
		"id":           user.ID,
	}
	return r.execOne(ctx, query, args, "update user lock state")
}

// UpdatePassword replaces the stored password hash.
func (r *sqlxUserRepository) UpdatePassword(ctx context.Context, userID, hashedPassword string, updatedAt time.Time) error {
	query := `UPDATE USERS SET HASHED_PASSWORD = :hashed_password, UPDATED_AT = :updated_at WHERE ID = :id`
	args := map[string]interface{}{
		"hashed_password": hashedPassword,
		"updated_at":      updatedAt.UTC(),
		"id":              userID,
	}
	return r.execOne(ctx, query, args, "update user password")
}

func (r *sqlxUserRepository) execOne(ctx context.Context, query string, args map[string]interface{}, op string) error {
	result, err := GetExecutor(ctx, r.db).NamedExecContext(ctx, query, args)
	if err != nil {
		return fmt.Errorf("failed to %s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("failed to %s: %w", op, sql.ErrNoRows)
	}
	return nil
}

// isUniqueViolation recognizes duplicate key errors from Oracle and SQLite.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "ORA-00001") || strings.Contains(msg, "UNIQUE constraint failed")
}
