package middleware_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"ai-governance/internal/domain"
	"ai-governance/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{domain.NewAssessmentNotFoundError("a1"), fiber.StatusNotFound, "ASSESSMENT_NOT_FOUND"},
		{domain.NewNotFoundError("missing"), fiber.StatusNotFound, "NOT_FOUND"},
		{domain.NewInvalidCategoryError("finance"), fiber.StatusBadRequest, "INVALID_CATEGORY"},
		{domain.NewInvalidInputError("bad"), fiber.StatusBadRequest, "INVALID_INPUT"},
		{domain.NewInvalidCredentialsError(), fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{domain.NewInvalidResetTokenError(), fiber.StatusUnauthorized, "INVALID_RESET_TOKEN"},
		{domain.NewUnauthorizedError("no", nil), fiber.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.NewAccountInactiveError(), fiber.StatusForbidden, "ACCOUNT_INACTIVE"},
		{domain.NewEmailTakenError("a@example.com"), fiber.StatusConflict, "EMAIL_TAKEN"},
		{domain.NewInternalError("db", errors.New("secret detail")), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
		{fmt.Errorf("wrapped: %w", domain.NewAssessmentNotFoundError("a2")), fiber.StatusNotFound, "ASSESSMENT_NOT_FOUND"},
		{fiber.NewError(fiber.StatusMethodNotAllowed, "nope"), fiber.StatusMethodNotAllowed, "HTTP_ERROR"},
		{errors.New("boom"), fiber.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
			app.Get("/", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)

			var body middleware.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.NotContains(t, body.Message, "secret detail")
		})
	}
}

func TestErrorHandler_Details(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error { return domain.NewAssessmentNotFoundError("a1") })

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)

	var body middleware.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "a1", body.Details["assessment_id"])
}

func TestErrorHandler_ValidationErrors(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/", func(c *fiber.Ctx) error {
		return domain.ValidationErrors{domain.NewMissingFieldError("title")}
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "title", body.Errors[0].Field)
	assert.Equal(t, domain.CodeMissingField, body.Errors[0].Code)
}

func TestValidateCategoryMiddleware(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Get("/q/:category", middleware.NewValidationMiddleware().ValidateCategory(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("validated_category").(string))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/q/ethics", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/q/finance", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestRequestLogger(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(middleware.RequestLogger())
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fail", func(c *fiber.Ctx) error { return domain.NewAssessmentNotFoundError("x") })

	resp, err := app.Test(httptest.NewRequest("GET", "/ok", nil), -1)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(middleware.RequestIDHeader), 36)

	req := httptest.NewRequest("GET", "/fail", nil)
	req.Header.Set(middleware.RequestIDHeader, "7b7c6f1e-3f4c-4a47-9a47-0d8a2f1d1e11")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "7b7c6f1e-3f4c-4a47-9a47-0d8a2f1d1e11", resp.Header.Get(middleware.RequestIDHeader))
}
