package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-governance/internal/config"
	"ai-governance/internal/domain"
	"ai-governance/internal/dto"
	"ai-governance/internal/logger"
	"ai-governance/internal/security"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	tokenTypeAccess = "access"
	resetTokenTTL   = time.Hour
)

var ErrInvalidJWTToken = errors.New("invalid jwt token")

// AuthService defines the interface for authentication operations.
type AuthService interface {
	Signup(ctx context.Context, email, password, fullName string) (*domain.User, error)
	// Authenticate checks credentials and applies the lockout policy.
	Authenticate(ctx context.Context, email, password, clientIP string) (*domain.User, error)
	Login(ctx context.Context, email, password, clientIP string) (string, error)
	CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration) (string, error)
	ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error)
	ValidateAccessToken(ctx context.Context, tokenString string) (*domain.User, error)
	// CreatePasswordResetToken returns "" for an unknown email.
	CreatePasswordResetToken(ctx context.Context, email string) (string, error)
	ResetPasswordWithToken(ctx context.Context, token, newPassword string) (bool, error)
}

type authServiceImpl struct {
	userRepo        domain.UserRepository
	failedLoginRepo domain.FailedLoginRepository
	resetRepo       domain.PasswordResetRepository
	txManager       domain.TransactionManager
	hasher          *security.PasswordHasher
	authCfg         config.AuthConfig
	now             func() time.Time
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(
	userRepo domain.UserRepository,
	failedLoginRepo domain.FailedLoginRepository,
	resetRepo domain.PasswordResetRepository,
	txManager domain.TransactionManager,
	authCfg config.AuthConfig,
) (AuthService, error) {
	if len(authCfg.JWT.SecretKey) < 32 {
		return nil, errors.New("jwt secret key must be at least 32 bytes long")
	}
	if authCfg.Lockout.MaxFailedAttempts <= 0 || authCfg.Lockout.Duration <= 0 {
		return nil, errors.New("lockout policy must have a positive threshold and duration")
	}
	return &authServiceImpl{
		userRepo:        userRepo,
		failedLoginRepo: failedLoginRepo,
		resetRepo:       resetRepo,
		txManager:       txManager,
		hasher:          security.NewPasswordHasher(authCfg.BcryptCost),
		authCfg:         authCfg,
		now:             func() time.Time { return time.Now().UTC() },
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// asServiceError keeps domain errors intact and wraps everything else as internal.
func asServiceError(message string, err error) error {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return domain.NewInternalError(message, err)
}

func (s *authServiceImpl) Signup(ctx context.Context, email, password, fullName string) (*domain.User, error) {
	email = normalizeEmail(email)

	existing, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, domain.NewInternalError("failed to look up user", err)
	}
	if existing != nil {
		return nil, domain.NewEmailTakenError(email)
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, domain.NewInternalError("failed to hash password", err)
	}

	user := domain.NewUser(email, hashed, strings.TrimSpace(fullName), s.now())
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, asServiceError("failed to create user", err)
	}

	logger.Get().Info("User signed up", zap.String("userID", user.ID))
	return user, nil
}

func (s *authServiceImpl) Authenticate(ctx context.Context, email, password, clientIP string) (*domain.User, error) {
	email = normalizeEmail(email)

	var (
		authenticated *domain.User
		rejected      bool
	)
	// Failure bookkeeping must commit, so a rejection is signalled through
	// rejected instead of an error that would roll the transaction back.
	err := s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		user, err := s.userRepo.GetUserByEmailForUpdate(ctx, email)
		if err != nil {
			return err
		}
		if user == nil {
			s.hasher.VerifyAbsent(password)
			rejected = true
			return nil
		}

		now := s.now()
		if user.IsLocked {
			if user.LockActive(now) {
				logger.Get().Warn("Login attempt on locked account",
					zap.String("userID", user.ID),
					zap.String("ip", clientIP))
				rejected = true
				return nil
			}
			user.Unlock(now)
			if err := s.userRepo.UpdateLockState(ctx, user); err != nil {
				return err
			}
			logger.Get().Info("Expired account lock cleared", zap.String("userID", user.ID))
		}

		ok, err := s.hasher.Verify(user.HashedPassword, password)
		if err != nil {
			return err
		}
		if !ok {
			rejected = true
			return s.recordFailedLogin(ctx, user, clientIP, now)
		}

		if err := s.failedLoginRepo.DeleteFailedLogins(ctx, user.ID); err != nil {
			return err
		}
		authenticated = user
		return nil
	})
	if err != nil {
		return nil, domain.NewInternalError("failed to authenticate user", err)
	}
	if rejected {
		return nil, domain.NewInvalidCredentialsError()
	}
	return authenticated, nil
}

func (s *authServiceImpl) recordFailedLogin(ctx context.Context, user *domain.User, clientIP string, now time.Time) error {
	attempt := &domain.FailedLogin{
		UserID:      user.ID,
		AttemptedAt: now,
		IPAddress:   clientIP,
	}
	if err := s.failedLoginRepo.CreateFailedLogin(ctx, attempt); err != nil {
		return err
	}

	lockout := s.authCfg.Lockout
	recent, err := s.failedLoginRepo.CountFailedLoginsSince(ctx, user.ID, now.Add(-lockout.Duration))
	if err != nil {
		return err
	}
	if recent < lockout.MaxFailedAttempts {
		return nil
	}

	user.Lock(now, lockout.Duration)
	if err := s.userRepo.UpdateLockState(ctx, user); err != nil {
		return err
	}
	logger.Get().Warn("Account locked after repeated failed logins",
		zap.String("userID", user.ID),
		zap.Int("recentFailures", recent),
		zap.Time("lockedUntil", *user.LockedUntil),
		zap.String("ip", clientIP))
	return nil
}

func (s *authServiceImpl) Login(ctx context.Context, email, password, clientIP string) (string, error) {
	user, err := s.Authenticate(ctx, email, password, clientIP)
	if err != nil {
		return "", err
	}
	if !user.IsActive {
		return "", domain.NewAccountInactiveError()
	}

	token, err := s.CreateJWT(ctx, user, s.authCfg.JWT.AccessTokenTTL)
	if err != nil {
		return "", domain.NewInternalError("failed to create access token", err)
	}
	return token, nil
}

func (s *authServiceImpl) CreateJWT(ctx context.Context, user *domain.User, ttl time.Duration) (string, error) {
	now := s.now()
	claims := dto.AuthClaims{
		UserID:    user.ID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.authCfg.JWT.SecretKey))
}

func (s *authServiceImpl) ValidateJWT(ctx context.Context, tokenString string) (*dto.AuthClaims, error) {
	appLogger := logger.Get()
	token, err := jwt.ParseWithClaims(tokenString, &dto.AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authCfg.JWT.SecretKey), nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil {
		snippet := tokenString[:min(len(tokenString), 20)] + "..."
		if errors.Is(err, jwt.ErrTokenExpired) {
			appLogger.Warn("JWT token expired", zap.Error(err), zap.String("token_snippet", snippet))
		} else {
			appLogger.Warn("JWT validation failed", zap.Error(err), zap.String("token_snippet", snippet))
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJWTToken, err)
	}

	if claims, ok := token.Claims.(*dto.AuthClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, ErrInvalidJWTToken
}

func (s *authServiceImpl) ValidateAccessToken(ctx context.Context, tokenString string) (*domain.User, error) {
	claims, err := s.ValidateJWT(ctx, tokenString)
	if err != nil {
		return nil, domain.NewUnauthorizedError("Could not validate credentials", err)
	}
	if claims.TokenType != tokenTypeAccess || claims.UserID == "" {
		return nil, domain.NewUnauthorizedError("Could not validate credentials", ErrInvalidJWTToken)
	}

	user, err := s.userRepo.GetUserByID(ctx, claims.UserID)
	if err != nil {
		return nil, domain.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, domain.NewUnauthorizedError("Could not validate credentials", nil)
	}
	if !user.IsActive {
		return nil, domain.NewAccountInactiveError()
	}
	return user, nil
}

func (s *authServiceImpl) CreatePasswordResetToken(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", domain.NewInternalError("failed to look up user", err)
	}
	if user == nil {
		return "", nil
	}

	token, err := security.NewResetToken()
	if err != nil {
		return "", domain.NewInternalError("failed to generate reset token", err)
	}

	now := s.now()
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.resetRepo.InvalidateUnusedTokens(ctx, user.ID); err != nil {
			return err
		}
		return s.resetRepo.CreatePasswordReset(ctx, &domain.PasswordReset{
			UserID:    user.ID,
			Token:     token,
			CreatedAt: now,
			ExpiresAt: now.Add(resetTokenTTL),
		})
	})
	if err != nil {
		return "", domain.NewInternalError("failed to store reset token", err)
	}

	logger.Get().Info("Password reset token issued", zap.String("userID", user.ID))
	return token, nil
}

func (s *authServiceImpl) ResetPasswordWithToken(ctx context.Context, token, newPassword string) (bool, error) {
	if token == "" {
		return false, nil
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return false, domain.NewInternalError("failed to hash password", err)
	}

	var (
		reset *domain.PasswordReset
		ok    bool
	)
	err = s.txManager.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		reset, err = s.resetRepo.GetUnusedByToken(ctx, token)
		if err != nil {
			return err
		}
		now := s.now()
		if reset == nil || reset.Expired(now) {
			return nil
		}
		if err := s.userRepo.UpdatePassword(ctx, reset.UserID, hashed, now); err != nil {
			return err
		}
		if err := s.resetRepo.MarkUsed(ctx, reset.ID); err != nil {
			return err
		}
		ok = true
		return nil
	})
	if err != nil {
		return false, domain.NewInternalError("failed to reset password", err)
	}

	if ok {
		logger.Get().Info("Password reset token consumed", zap.String("userID", reset.UserID))
	} else if reset != nil {
		logger.Get().Warn("Expired password reset token presented", zap.String("userID", reset.UserID))
	}
	return ok, nil
}
