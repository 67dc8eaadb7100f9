package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/noteshare/noteshare-backend/internal/middleware"
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/service"
	"github.com/noteshare/noteshare-backend/pkg/utils"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	validator      *utils.Validator
	webhookSecret  string
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, validator *utils.Validator, webhookSecret string, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validator:      validator,
		webhookSecret:  webhookSecret,
		logger:         logger,
	}
}

func (h *PaymentHandler) CreateCheckout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req models.CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	session, err := h.paymentService.CreateCheckout(user, req.NoteID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(session, ""))
}

func (h *PaymentHandler) CreateSubscription(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	var req models.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	session, err := h.paymentService.CreateSubscription(user, req.Tier)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(session, ""))
}

func (h *PaymentHandler) MyPurchases(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	purchases, err := h.paymentService.GetPurchases(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(purchases, ""))
}

func (h *PaymentHandler) VerifyPurchase(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)

	purchase, err := h.paymentService.VerifyPurchase(user.ID, c.Params("sessionId"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(models.SuccessResponse(purchase, ""))
}

// HandleStripeWebhook verifies the event signature over the raw body, then
// hands it to the reconciler. Signature failures are rejected before any
// state is touched; reconciliation failures return 500 so Stripe retries.
func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("invalid signature"))
	}

	if err := h.paymentService.HandleStripeWebhook(&event); err != nil {
		h.logger.Error("webhook reconciliation failed",
			zap.String("event_type", string(event.Type)),
			zap.String("event_id", event.ID),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse("processing failed"))
	}

	return c.SendStatus(fiber.StatusOK)
}
