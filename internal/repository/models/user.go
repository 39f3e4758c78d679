package models

import (
	"database/sql"
	"time"
)

// User is a row of the USERS table.
type User struct {
	ID             string         `db:"ID"` // ULID
	Email          string         `db:"EMAIL"`
	HashedPassword string         `db:"HASHED_PASSWORD"`
	FullName       sql.NullString `db:"FULL_NAME"`
	IsActive       bool           `db:"IS_ACTIVE"`
	IsLocked       bool           `db:"IS_LOCKED"`
	LockedUntil    sql.NullTime   `db:"LOCKED_UNTIL"`
	CreatedAt      time.Time      `db:"CREATED_AT"`
	UpdatedAt      time.Time      `db:"UPDATED_AT"`
}

// FailedLogin is a row of the FAILED_LOGINS table. Rows are append-only.
type FailedLogin struct {
	ID          string         `db:"ID"`
	UserID      string         `db:"USER_ID"`
	AttemptedAt time.Time      `db:"ATTEMPTED_AT"`
	IPAddress   sql.NullString `db:"IP_ADDRESS"`
}

// PasswordReset is a row of the PASSWORD_RESETS table.
type PasswordReset struct {
	ID        string    `db:"ID"`
	UserID    string    `db:"USER_ID"`
	Token     string    `db:"TOKEN"`
	IsUsed    bool      `db:"IS_USED"`
	CreatedAt time.Time `db:"CREATED_AT"`
	ExpiresAt time.Time `db:"EXPIRES_AT"`
}
