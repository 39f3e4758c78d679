package domain

import (
	"context"
	"time"
)

// User represents a registered account
type User struct {
	ID             string
	Email          string
	HashedPassword string
	FullName       string
	IsActive       bool
	IsLocked       bool
	LockedUntil    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewUser creates an active, unlocked user.
func NewUser(email, hashedPassword, fullName string, now time.Time) *User {
	return &User{
		Email:          email,
		HashedPassword: hashedPassword,
		FullName:       fullName,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// LockActive reports whether the lock still applies at now.
// A lock without an expiry is treated as expired.
func (u *User) LockActive(now time.Time) bool {
	return u.IsLocked && u.LockedUntil != nil && now.Before(*u.LockedUntil)
}

// Lock locks the account until now+d.
func (u *User) Lock(now time.Time, d time.Duration) {
	until := now.Add(d)
	u.IsLocked = true
	u.LockedUntil = &until
	u.UpdatedAt = now
}

// Unlock clears the lock state.
func (u *User) Unlock(now time.Time) {
	u.IsLocked = false
	u.LockedUntil = nil
	u.UpdatedAt = now
}

// FailedLogin records one failed authentication attempt.
type FailedLogin struct {
	ID          string
	UserID      string
	AttemptedAt time.Time
	IPAddress   string
}

// PasswordReset is a single-use password reset token.
type PasswordReset struct {
	ID        string
	UserID    string
	Token     string
	IsUsed    bool
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token is past its expiry at now.
func (p *PasswordReset) Expired(now time.Time) bool {
	return now.After(p.ExpiresAt)
}

// UserRepository defines the interface for user data persistence.
// Lookups return nil, nil when the user does not exist.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	// GetUserByEmailForUpdate locks the row for the surrounding transaction.
	GetUserByEmailForUpdate(ctx context.Context, email string) (*User, error)
	UpdateLockState(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, userID, hashedPassword string, updatedAt time.Time) error
}

// FailedLoginRepository stores failed authentication attempts.
type FailedLoginRepository interface {
	CreateFailedLogin(ctx context.Context, attempt *FailedLogin) error
	CountFailedLoginsSince(ctx context.Context, userID string, since time.Time) (int, error)
	DeleteFailedLogins(ctx context.Context, userID string) error
}

// PasswordResetRepository stores password reset tokens.
type PasswordResetRepository interface {
	CreatePasswordReset(ctx context.Context, reset *PasswordReset) error
	InvalidateUnusedTokens(ctx context.Context, userID string) error
	// GetUnusedByToken returns nil, nil when no unused token matches.
	GetUnusedByToken(ctx context.Context, token string) (*PasswordReset, error)
	MarkUsed(ctx context.Context, id string) error
}
