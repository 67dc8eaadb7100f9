package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/noteshare/noteshare-backend/internal/middleware"
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/service"
	"github.com/noteshare/noteshare-backend/pkg/utils"
)

type ReferralHandler struct {
	ledgerService *service.LedgerService
	userService   *service.UserService
	validator     *utils.Validator
}

func NewReferralHandler(ledgerService *service.LedgerService, userService *service.UserService, validator *utils.Validator) *ReferralHandler {
	return &ReferralHandler{
		ledgerService: ledgerService,
		userService:   userService,
		validator:     validator,
	}
}

func (h *ReferralHandler) Apply(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req models.ApplyReferralRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	if err := h.ledgerService.ApplyReferral(user, req.Code); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(nil, "Referral applied"))
}

func (h *ReferralHandler) Stats(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	stats, err := h.userService.GetReferralStats(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(stats, ""))
}
