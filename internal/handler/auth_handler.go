package handler

import (
	"ai-governance/internal/domain"
	"ai-governance/internal/dto"
	"ai-governance/internal/logger"
	"ai-governance/internal/middleware"
	"ai-governance/internal/service"
	"ai-governance/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// resetRequestedMessage is returned whether or not the email exists.
const resetRequestedMessage = "If the email exists, a password reset link has been sent"

type AuthHandler struct {
	authService service.AuthService
	mailer      service.Mailer
	validator   *validation.Validator
}

// NewAuthHandler creates an AuthHandler. A nil mailer keeps reset tokens out of band.
func NewAuthHandler(authService service.AuthService, mailer service.Mailer) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		mailer:      mailer,
		validator:   validation.NewValidator(),
	}
}

// Signup godoc
// @Summary Create an account
// @Description Registers a new email/password account.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account details"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 409 {object} middleware.ErrorResponse "Email already registered"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateSignup(req); len(errs) > 0 {
		return errs
	}

	user, err := h.authService.Signup(c.UserContext(), req.Email, req.Password, req.FullName)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewUserResponse(user))
}

// Login godoc
// @Summary Log in
// @Description Exchanges email and password for a bearer token. Repeated failures lock the account.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.TokenResponse
// @Failure 401 {object} middleware.ErrorResponse "Incorrect email or password, or account is locked"
// @Failure 403 {object} middleware.ErrorResponse "Account is inactive"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateLogin(req); len(errs) > 0 {
		return errs
	}

	token, err := h.authService.Login(c.UserContext(), req.Email, req.Password, c.IP())
	if err != nil {
		return err
	}
	return c.JSON(dto.TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// RequestPasswordReset godoc
// @Summary Request a password reset
// @Description Always answers with the same message so account existence is not revealed.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetRequest true "Account email"
// @Success 200 {object} dto.MessageResponse
// @Router /auth/reset-password [post]
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidatePasswordResetRequest(req); len(errs) > 0 {
		return errs
	}

	token, err := h.authService.CreatePasswordResetToken(c.UserContext(), req.Email)
	if err != nil {
		return err
	}
	if token != "" && h.mailer != nil {
		if err := h.mailer.SendPasswordReset(c.UserContext(), req.Email, token); err != nil {
			logger.Get().Error("Failed to send password reset e-mail", zap.Error(err))
		}
	}
	return c.JSON(dto.MessageResponse{Message: resetRequestedMessage})
}

// ConfirmPasswordReset godoc
// @Summary Set a new password
// @Description Consumes a single-use reset token and replaces the password.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.PasswordResetConfirm true "Token and new password"
// @Success 200 {object} dto.MessageResponse
// @Failure 401 {object} middleware.ErrorResponse "Invalid or expired token"
// @Router /auth/reset-password/confirm [post]
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidatePasswordResetConfirm(req); len(errs) > 0 {
		return errs
	}

	ok, err := h.authService.ResetPasswordWithToken(c.UserContext(), req.Token, req.NewPassword)
	if err != nil {
		return err
	}
	if !ok {
		return domain.NewInvalidResetTokenError()
	}
	return c.JSON(dto.MessageResponse{Message: "Password has been reset successfully"})
}

// Me godoc
// @Summary Current user
// @Tags auth
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} middleware.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		return domain.NewUnauthorizedError("Could not validate credentials", nil)
	}
	return c.JSON(dto.NewUserResponse(user))
}
