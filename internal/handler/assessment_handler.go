package handler

import (
	"fmt"
	"strconv"

	"ai-governance/internal/domain"
	"ai-governance/internal/dto"
	"ai-governance/internal/logger"
	"ai-governance/internal/middleware"
	"ai-governance/internal/report"
	"ai-governance/internal/service"
	"ai-governance/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AssessmentHandler struct {
	service   service.AssessmentService
	validator *validation.Validator
}

func NewAssessmentHandler(assessmentService service.AssessmentService) *AssessmentHandler {
	return &AssessmentHandler{
		service:   assessmentService,
		validator: validation.NewValidator(),
	}
}

func currentUserID(c *fiber.Ctx) (string, error) {
	userID, ok := c.Locals(middleware.UserIDKey).(string)
	if !ok || userID == "" {
		return "", domain.NewUnauthorizedError("Could not validate credentials", nil)
	}
	return userID, nil
}

// queryInt parses an optional integer query parameter.
func queryInt(c *fiber.Ctx, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ValidationErrors{domain.NewInvalidFormatError(name, raw)}
	}
	return v, nil
}

// CreateAssessment godoc
// @Summary Create an assessment
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateAssessmentRequest true "Assessment"
// @Success 201 {object} dto.AssessmentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /assessments [post]
func (h *AssessmentHandler) CreateAssessment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.CreateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateCreateAssessment(req); len(errs) > 0 {
		return errs
	}

	a, err := h.service.CreateAssessment(c.UserContext(), userID, req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewAssessmentResponse(a))
}

// ListAssessments godoc
// @Summary List the caller's assessments
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param skip query int false "Items to skip" default(0)
// @Param limit query int false "Page size (max 100)" default(100)
// @Success 200 {array} dto.AssessmentResponse
// @Router /assessments [get]
func (h *AssessmentHandler) ListAssessments(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	skip, err := queryInt(c, "skip", 0)
	if err != nil {
		return err
	}
	limit, err := queryInt(c, "limit", service.DefaultListLimit)
	if err != nil {
		return err
	}

	list, err := h.service.ListAssessments(c.UserContext(), userID, skip, limit)
	if err != nil {
		return err
	}
	resp := make([]dto.AssessmentResponse, 0, len(list))
	for _, a := range list {
		resp = append(resp, dto.NewAssessmentResponse(a))
	}
	return c.JSON(resp)
}

// GetAssessment godoc
// @Summary Get an assessment with its results
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Assessment ID"
// @Success 200 {object} dto.AssessmentResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /assessments/{id} [get]
func (h *AssessmentHandler) GetAssessment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	a, err := h.service.GetAssessment(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAssessmentResponse(a))
}

// UpdateAssessment godoc
// @Summary Update title or description
// @Description Status is driven by answer submissions and cannot be set directly.
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Assessment ID"
// @Param request body dto.UpdateAssessmentRequest true "Fields to change"
// @Success 200 {object} dto.AssessmentResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /assessments/{id} [put]
func (h *AssessmentHandler) UpdateAssessment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateAssessmentRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateUpdateAssessment(req); len(errs) > 0 {
		return errs
	}

	a, err := h.service.UpdateAssessment(c.UserContext(), userID, c.Params("id"), req.Title, req.Description)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAssessmentResponse(a))
}

// DeleteAssessment godoc
// @Summary Delete an assessment and its results
// @Tags assessments
// @Security ApiKeyAuth
// @Param id path string true "Assessment ID"
// @Success 204
// @Failure 404 {object} middleware.ErrorResponse
// @Router /assessments/{id} [delete]
func (h *AssessmentHandler) DeleteAssessment(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteAssessment(c.UserContext(), userID, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SubmitAnswers godoc
// @Summary Submit the answers of one category
// @Description Scores the category, stores the result and advances the assessment status.
// @Tags assessments
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Assessment ID"
// @Param request body dto.SubmitAnswersRequest true "Category answers"
// @Success 200 {object} dto.AssessmentResultResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /assessments/{id}/answers [post]
func (h *AssessmentHandler) SubmitAnswers(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req dto.SubmitAnswersRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.NewInvalidInputError("Invalid request body")
	}
	if errs := h.validator.ValidateSubmitAnswers(req); len(errs) > 0 {
		return errs
	}

	result, err := h.service.SubmitAnswers(c.UserContext(), userID, c.Params("id"), domain.Category(req.Category), req.Answers)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAssessmentResultResponse(*result))
}

// GetSummary godoc
// @Summary Overall score of an assessment
// @Tags assessments
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "Assessment ID"
// @Success 200 {object} dto.AssessmentSummaryResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /assessments/{id}/summary [get]
func (h *AssessmentHandler) GetSummary(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	summary, err := h.service.GetAssessmentSummary(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewAssessmentSummaryResponse(summary))
}

// ExportCSV godoc
// @Summary Download the assessment as CSV
// @Tags assessments
// @Produce text/csv
// @Security ApiKeyAuth
// @Param id path string true "Assessment ID"
// @Success 200 {file} file
// @Failure 404 {object} middleware.ErrorResponse
// @Router /assessments/{id}/export/csv [get]
func (h *AssessmentHandler) ExportCSV(c *fiber.Ctx) error {
	return h.export(c, "csv", "text/csv", report.CSV)
}

// ExportPDF godoc
// @Summary Download the assessment as PDF
// @Tags assessments
// @Produce application/pdf
// @Security ApiKeyAuth
// @Param id path string true "Assessment ID"
// @Success 200 {file} file
// @Failure 404 {object} middleware.ErrorResponse
// @Router /assessments/{id}/export/pdf [get]
func (h *AssessmentHandler) ExportPDF(c *fiber.Ctx) error {
	return h.export(c, "pdf", "application/pdf", report.PDF)
}

func (h *AssessmentHandler) export(c *fiber.Ctx, ext, contentType string, render func(*domain.Assessment, []domain.AssessmentResult) ([]byte, error)) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	a, err := h.service.GetAssessment(c.UserContext(), userID, c.Params("id"))
	if err != nil {
		return err
	}

	body, err := render(a, a.Results)
	if err != nil {
		logger.Get().Error("Failed to render report", zap.String("format", ext), zap.String("assessmentID", a.ID), zap.Error(err))
		return domain.NewInternalError("failed to render report", err)
	}

	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=assessment_%s.%s", a.ID, ext))
	return c.Send(body)
}
