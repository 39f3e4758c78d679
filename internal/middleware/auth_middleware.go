package middleware

import (
	"errors"
	"strings"

	"ai-governance/internal/domain"
	"ai-governance/internal/logger"
	"ai-governance/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	AuthorizationHeader = "Authorization"
	BearerSchema        = "Bearer "
	UserIDKey           = "userID" // Key for storing UserID in fiber.Ctx locals
	UserKey             = "user"   // Key for storing the *domain.User in fiber.Ctx locals
)

// Protected is a middleware function that protects routes by requiring a valid JWT.
// It resolves the token to an active user and stores it in the context.
func Protected(authService service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(AuthorizationHeader)
		if authHeader == "" {
			return unauthorized(c, "MISSING_AUTH_HEADER", "Authorization header is missing")
		}

		if !strings.HasPrefix(authHeader, BearerSchema) {
			return unauthorized(c, "INVALID_AUTH_SCHEME", "Authorization scheme is not Bearer")
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, BearerSchema))
		if tokenString == "" {
			return unauthorized(c, "EMPTY_TOKEN", "Token is empty")
		}

		user, err := authService.ValidateAccessToken(c.UserContext(), tokenString)
		if err != nil {
			var domainErr *domain.DomainError
			if errors.As(err, &domainErr) && domainErr.Code == domain.CodeUnauthorized {
				logger.Get().Debug("Access token rejected", zap.Error(err), zap.String("path", c.Path()))
				return unauthorized(c, "INVALID_TOKEN", "Could not validate credentials")
			}
			// Inactive accounts and internal failures go through the error handler.
			return err
		}

		c.Locals(UserIDKey, user.ID)
		c.Locals(UserKey, user)

		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, code, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Code:    code,
		Message: message,
		Status:  fiber.StatusUnauthorized,
	})
}

// CurrentUser returns the user stored by Protected.
func CurrentUser(c *fiber.Ctx) (*domain.User, bool) {
	user, ok := c.Locals(UserKey).(*domain.User)
	return user, ok && user != nil
}
