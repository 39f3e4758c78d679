package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeInvalidInput ErrorCode = "INVALID_INPUT"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeConflict     ErrorCode = "CONFLICT"

	// Validation errors
	CodeValidation    ErrorCode = "VALIDATION_ERROR"
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"

	// Assessment specific errors
	CodeAssessmentNotFound ErrorCode = "ASSESSMENT_NOT_FOUND"
	CodeInvalidCategory    ErrorCode = "INVALID_CATEGORY"

	// Account specific errors
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeInvalidResetToken  ErrorCode = "INVALID_RESET_TOKEN"
	CodeAccountInactive    ErrorCode = "ACCOUNT_INACTIVE"
	CodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
)

// InvalidCredentialsMessage is shared by every login failure so callers cannot
// tell an unknown email from a wrong password or a locked account.
const InvalidCredentialsMessage = "Incorrect email or password, or account is locked"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches any DomainError carrying the same code.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// WithContext attaches a detail to the error and returns it for chaining.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Sentinels for errors.Is checks; compared by code.
var (
	ErrNotFound           = NewError(CodeNotFound, "not found", nil)
	ErrAssessmentNotFound = NewError(CodeAssessmentNotFound, "Assessment not found", nil)
	ErrInvalidCredentials = NewError(CodeInvalidCredentials, InvalidCredentialsMessage, nil)
	ErrInvalidResetToken  = NewError(CodeInvalidResetToken, "Invalid or expired token", nil)
	ErrAccountInactive    = NewError(CodeAccountInactive, "Account is inactive", nil)
	ErrEmailTaken         = NewError(CodeEmailTaken, "Email already registered", nil)
)

func NewNotFoundError(message string) *DomainError {
	return NewError(CodeNotFound, message, nil)
}

func NewInvalidInputError(message string) *DomainError {
	return NewError(CodeInvalidInput, message, nil)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(CodeInternal, message, err)
}

func NewUnauthorizedError(message string, err error) *DomainError {
	return NewError(CodeUnauthorized, message, err)
}

func NewAssessmentNotFoundError(assessmentID string) *DomainError {
	return NewError(CodeAssessmentNotFound, "Assessment not found", nil).WithContext("assessment_id", assessmentID)
}

func NewInvalidCategoryError(category string) *DomainError {
	return NewError(CodeInvalidCategory, fmt.Sprintf("Invalid category: %s", category), nil)
}

func NewInvalidCredentialsError() *DomainError {
	return NewError(CodeInvalidCredentials, InvalidCredentialsMessage, nil)
}

func NewInvalidResetTokenError() *DomainError {
	return NewError(CodeInvalidResetToken, "Invalid or expired token", nil)
}

func NewAccountInactiveError() *DomainError {
	return NewError(CodeAccountInactive, "Account is inactive", nil)
}

func NewEmailTakenError(email string) *DomainError {
	return NewError(CodeEmailTaken, "Email already registered", nil).WithContext("email", email)
}

// ValidationError describes one invalid request field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every field failure of a request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Error())
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func NewMissingFieldError(field string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: fmt.Sprintf("%s is required", field)}
}

func NewInvalidFormatError(field string, value interface{}) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: fmt.Sprintf("%s has an invalid format", field), Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %d and %d", field, min, max),
		Value:   value,
	}
}
