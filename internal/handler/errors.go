package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/service"
)

// serviceError maps service sentinels onto HTTP statuses. Unknown errors
// become a generic 500; the detail stays in the logs.
func serviceError(c *fiber.Ctx, err error) error {
	switch {
	case service.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrAlreadyPurchased),
		errors.Is(err, service.ErrAlreadySubscribed),
		errors.Is(err, service.ErrAlreadyReferred),
		errors.Is(err, service.ErrAlreadyReviewed),
		errors.Is(err, service.ErrSelfReferral):
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidReferralCode),
		errors.Is(err, service.ErrOwnNote),
		errors.Is(err, service.ErrInsufficientBalance):
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrInsufficientCredits):
		return c.Status(fiber.StatusPaymentRequired).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(models.ErrorResponse(err.Error()))
	case errors.Is(err, service.ErrTierNotConfigured):
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("internal server error"))
	}
}
