package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/noteshare/noteshare-backend/internal/middleware"
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/service"
	"github.com/noteshare/noteshare-backend/pkg/utils"
)

type AIHandler struct {
	aiService *service.AIService
	validator *utils.Validator
}

func NewAIHandler(aiService *service.AIService, validator *utils.Validator) *AIHandler {
	return &AIHandler{
		aiService: aiService,
		validator: validator,
	}
}

func (h *AIHandler) Summarize(c *fiber.Ctx) error {
	return h.run(c, models.AIJobSummarize)
}

func (h *AIHandler) Flashcards(c *fiber.Ctx) error {
	return h.run(c, models.AIJobFlashcards)
}

func (h *AIHandler) Quiz(c *fiber.Ctx) error {
	return h.run(c, models.AIJobQuiz)
}

func (h *AIHandler) Explain(c *fiber.Ctx) error {
	return h.run(c, models.AIJobExplain)
}

func (h *AIHandler) run(c *fiber.Ctx, jobType models.AIJobType) error {
	user := middleware.CurrentUser(c)

	var req models.AIRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	job, err := h.aiService.Run(c.Context(), user, jobType, req.Text)
	if err != nil {
		return serviceError(c, err)
	}

	remaining := user.Credits
	if user.Plan == models.PlanFree && job.CostUnits > 0 {
		remaining = user.Credits - job.CostUnits
	}

	return c.JSON(models.SuccessResponse(models.AIResponse{
		JobID:   job.ID,
		Output:  job.Output,
		Credits: remaining,
	}, ""))
}

func (h *AIHandler) History(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	jobs, err := h.aiService.RecentJobs(user.ID, c.QueryInt("limit", 20))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(jobs, ""))
}
