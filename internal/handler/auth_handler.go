package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/service"
	"github.com/noteshare/noteshare-backend/pkg/utils"
)

type AuthHandler struct {
	authService *service.AuthService
	validator   *utils.Validator
}

func NewAuthHandler(authService *service.AuthService, validator *utils.Validator) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   validator,
	}
}

func (h *AuthHandler) TelegramLogin(c *fiber.Ctx) error {
	var req models.TelegramLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	resp, err := h.authService.TelegramLogin(req)
	if err != nil {
		return serviceError(c, err)
	}

	return c.JSON(models.SuccessResponse(resp, "Login successful"))
}
