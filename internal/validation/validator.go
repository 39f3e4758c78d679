package validation

import (
	"net/mail"
	"strings"

	"ai-governance/internal/domain"
	"ai-governance/internal/dto"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores input past 72 bytes.
	MaxPasswordLength = 72
	MaxTitleLength    = 255
	MaxNameLength     = 255
	MaxAnswers        = 50
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

func (v *Validator) ValidateSignup(req dto.SignupRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	errors = append(errors, validateEmail("email", req.Email)...)
	errors = append(errors, validatePassword("password", req.Password)...)
	if len(req.FullName) > MaxNameLength {
		errors = append(errors, domain.NewOutOfRangeError("full_name", len(req.FullName), 0, MaxNameLength))
	}
	return errors
}

func (v *Validator) ValidateLogin(req dto.LoginRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(req.Email) == "" {
		errors = append(errors, domain.NewMissingFieldError("email"))
	}
	if req.Password == "" {
		errors = append(errors, domain.NewMissingFieldError("password"))
	}
	return errors
}

func (v *Validator) ValidatePasswordResetRequest(req dto.PasswordResetRequest) domain.ValidationErrors {
	return validateEmail("email", req.Email)
}

func (v *Validator) ValidatePasswordResetConfirm(req dto.PasswordResetConfirm) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(req.Token) == "" {
		errors = append(errors, domain.NewMissingFieldError("token"))
	}
	errors = append(errors, validatePassword("new_password", req.NewPassword)...)
	return errors
}

func (v *Validator) ValidateCreateAssessment(req dto.CreateAssessmentRequest) domain.ValidationErrors {
	return validateTitle(req.Title)
}

func (v *Validator) ValidateUpdateAssessment(req dto.UpdateAssessmentRequest) domain.ValidationErrors {
	if req.Title == nil {
		return nil
	}
	return validateTitle(*req.Title)
}

// ValidateSubmitAnswers checks the category name and the size of the answer set.
// Answer values are not range-checked; scoring accepts any integer.
func (v *Validator) ValidateSubmitAnswers(req dto.SubmitAnswersRequest) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(req.Category) == "" {
		errors = append(errors, domain.NewMissingFieldError("category"))
	} else if !domain.Category(req.Category).Valid() {
		errors = append(errors, domain.ValidationError{
			Field:   "category",
			Code:    domain.CodeInvalidCategory,
			Message: "category must be one of data_privacy, model_risk, ethics, compliance",
			Value:   req.Category,
		})
	}
	if len(req.Answers) > MaxAnswers {
		errors = append(errors, domain.NewOutOfRangeError("answers", len(req.Answers), 0, MaxAnswers))
	}
	return errors
}

// ValidateCategory validates a category path parameter.
func (v *Validator) ValidateCategory(category string) domain.ValidationErrors {
	var errors domain.ValidationErrors
	if strings.TrimSpace(category) == "" {
		errors = append(errors, domain.NewMissingFieldError("category"))
	} else if !domain.Category(category).Valid() {
		errors = append(errors, domain.NewInvalidFormatError("category", category))
	}
	return errors
}

func validateEmail(field, email string) domain.ValidationErrors {
	email = strings.TrimSpace(email)
	if email == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return domain.ValidationErrors{domain.NewInvalidFormatError(field, email)}
	}
	return nil
}

func validatePassword(field, password string) domain.ValidationErrors {
	if password == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError(field)}
	}
	if len(password) < MinPasswordLength || len(password) > MaxPasswordLength {
		return domain.ValidationErrors{domain.NewOutOfRangeError(field, len(password), MinPasswordLength, MaxPasswordLength)}
	}
	return nil
}

func validateTitle(title string) domain.ValidationErrors {
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.ValidationErrors{domain.NewMissingFieldError("title")}
	}
	if len(title) > MaxTitleLength {
		return domain.ValidationErrors{domain.NewOutOfRangeError("title", len(title), 1, MaxTitleLength)}
	}
	return nil
}
