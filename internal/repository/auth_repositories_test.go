package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"ai-governance/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLXFailedLoginRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("CreateFailedLogin", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewSQLXFailedLoginRepository(db)

		mock.ExpectExec(`INSERT INTO FAILED_LOGINS \(ID, USER_ID, ATTEMPTED_AT, IP_ADDRESS\) VALUES \(\?, \?, \?, \?\)`).
			WithArgs(sqlmock.AnyArg(), "user-1", now, "10.0.0.1").
			WillReturnResult(sqlmock.NewResult(1, 1))

		attempt := &domain.FailedLogin{UserID: "user-1", AttemptedAt: now, IPAddress: "10.0.0.1"}
		require.NoError(t, repo.CreateFailedLogin(ctx, attempt))
		assert.NotEmpty(t, attempt.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CountFailedLoginsSince", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewSQLXFailedLoginRepository(db)
		since := now.Add(-15 * time.Minute)

		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM FAILED_LOGINS WHERE USER_ID = \? AND ATTEMPTED_AT >= \?`).
			WithArgs("user-1", since).
			WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))

		count, err := repo.CountFailedLoginsSince(ctx, "user-1", since)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("DeleteFailedLogins", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewSQLXFailedLoginRepository(db)

		mock.ExpectExec(`DELETE FROM FAILED_LOGINS WHERE USER_ID = \?`).
			WithArgs("user-1").
			WillReturnResult(sqlmock.NewResult(0, 4))

		assert.NoError(t, repo.DeleteFailedLogins(ctx, "user-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSQLXPasswordResetRepository(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	resetColumns := []string{"ID", "USER_ID", "TOKEN", "IS_USED", "CREATED_AT", "EXPIRES_AT"}

	t.Run("InvalidateUnusedTokens", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewSQLXPasswordResetRepository(db)

		mock.ExpectExec(`UPDATE PASSWORD_RESETS SET IS_USED = 1 WHERE USER_ID = \? AND IS_USED = 0`).
			WithArgs("user-1").
			WillReturnResult(sqlmock.NewResult(0, 2))

		assert.NoError(t, repo.InvalidateUnusedTokens(ctx, "user-1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreatePasswordReset", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewSQLXPasswordResetRepository(db)

		mock.ExpectExec(`INSERT INTO PASSWORD_RESETS`).
			WithArgs(sqlmock.AnyArg(), "user-1", "tok", 0, now, now.Add(time.Hour)).
			WillReturnResult(sqlmock.NewResult(1, 1))

		reset := &domain.PasswordReset{UserID: "user-1", Token: "tok", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
		require.NoError(t, repo.CreatePasswordReset(ctx, reset))
		assert.NotEmpty(t, reset.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUnusedByToken", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewSQLXPasswordResetRepository(db)

		mock.ExpectQuery(`SELECT .* FROM PASSWORD_RESETS\s+WHERE TOKEN = \? AND IS_USED = 0 FOR UPDATE`).
			WithArgs("tok").
			WillReturnRows(sqlmock.NewRows(resetColumns).AddRow("r1", "user-1", "tok", int64(0), now, now.Add(time.Hour)))

		reset, err := repo.GetUnusedByToken(ctx, "tok")
		require.NoError(t, err)
		require.NotNil(t, reset)
		assert.Equal(t, "r1", reset.ID)
		assert.False(t, reset.IsUsed)
		assert.True(t, now.Add(time.Hour).Equal(reset.ExpiresAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("GetUnusedByToken_NotFound", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewSQLXPasswordResetRepository(db)

		mock.ExpectQuery(`SELECT .* FROM PASSWORD_RESETS`).
			WithArgs("nope").
			WillReturnError(sql.ErrNoRows)

		reset, err := repo.GetUnusedByToken(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, reset)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("MarkUsed_AlreadyUsed", func(t *testing.T) {
		db, mock := setupTestDB(t)
		repo := NewSQLXPasswordResetRepository(db)

		mock.ExpectExec(`UPDATE PASSWORD_RESETS SET IS_USED = 1 WHERE ID = \? AND IS_USED = 0`).
			WithArgs("r1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.MarkUsed(ctx, "r1"), sql.ErrNoRows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
