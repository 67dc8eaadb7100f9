package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/noteshare/noteshare-backend/internal/middleware"
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/service"
	"github.com/noteshare/noteshare-backend/pkg/utils"
)

type UserHandler struct {
	userService   *service.UserService
	ledgerService *service.LedgerService
	validator     *utils.Validator
}

func NewUserHandler(userService *service.UserService, ledgerService *service.LedgerService, validator *utils.Validator) *UserHandler {
	return &UserHandler{
		userService:   userService,
		ledgerService: ledgerService,
		validator:     validator,
	}
}

func (h *UserHandler) Dashboard(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	dashboard, err := h.userService.GetDashboard(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(dashboard, ""))
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req models.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	updated, err := h.userService.UpdateProfile(user, req)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(updated, "Profile updated"))
}

func (h *UserHandler) RequestPayout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req models.RequestPayoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	payout, err := h.ledgerService.RequestPayout(user, req.Amount, req.Method)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(models.SuccessResponse(payout, "Payout requested"))
}

func (h *UserHandler) Payouts(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	payouts, err := h.userService.GetPayouts(user)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(payouts, ""))
}

// AdCredit grants a credit for a watched rewarded ad, capped per day.
func (h *UserHandler) AdCredit(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	credits, err := h.ledgerService.GrantAdCredit(user, 1)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(fiber.Map{"credits": credits}, "Credit granted"))
}
