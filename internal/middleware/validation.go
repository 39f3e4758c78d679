package middleware

import (
	"ai-governance/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ValidationMiddleware provides request validation middleware
type ValidationMiddleware struct {
	validator *validation.Validator
}

// NewValidationMiddleware creates a new validation middleware instance
func NewValidationMiddleware() *ValidationMiddleware {
	return &ValidationMiddleware{
		validator: validation.NewValidator(),
	}
}

// ValidateCategory validates the :category path parameter.
func (vm *ValidationMiddleware) ValidateCategory() fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Params("category")

		if errors := vm.validator.ValidateCategory(category); len(errors) > 0 {
			return errors // This will be handled by ErrorHandler middleware
		}

		c.Locals("validated_category", category)
		return c.Next()
	}
}
