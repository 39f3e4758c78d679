package handler

import (
	"ai-governance/internal/domain"
	"ai-governance/internal/dto"

	"github.com/gofiber/fiber/v2"
)

type QuestionnaireHandler struct{}

func NewQuestionnaireHandler() *QuestionnaireHandler {
	return &QuestionnaireHandler{}
}

// GetQuestionnaires godoc
// @Summary All questionnaire templates
// @Tags questionnaires
// @Produce json
// @Success 200 {array} dto.QuestionnaireResponse
// @Router /assessments/questionnaires [get]
func (h *QuestionnaireHandler) GetQuestionnaires(c *fiber.Ctx) error {
	qs := domain.Questionnaires()
	resp := make([]dto.QuestionnaireResponse, 0, len(qs))
	for _, q := range qs {
		resp = append(resp, dto.NewQuestionnaireResponse(q))
	}
	return c.JSON(resp)
}

// GetQuestionnaire godoc
// @Summary Questionnaire of one category
// @Tags questionnaires
// @Produce json
// @Param category path string true "data_privacy, model_risk, ethics or compliance"
// @Success 200 {object} dto.QuestionnaireResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Router /assessments/questionnaires/{category} [get]
func (h *QuestionnaireHandler) GetQuestionnaire(c *fiber.Ctx) error {
	category, err := domain.ParseCategory(c.Params("category"))
	if err != nil {
		return err
	}
	q, ok := domain.GetQuestionnaire(category)
	if !ok {
		return domain.NewInvalidCategoryError(string(category))
	}
	return c.JSON(dto.NewQuestionnaireResponse(q))
}
