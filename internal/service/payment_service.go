package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/noteshare/noteshare-backend/internal/config"
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/repository"
	"github.com/noteshare/noteshare-backend/pkg/payment"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// subscription statuses Stripe may report that end the user's paid access
var terminalSubscriptionStatuses = map[stripe.SubscriptionStatus]bool{
	stripe.SubscriptionStatusCanceled:          true,
	stripe.SubscriptionStatusUnpaid:            true,
	stripe.SubscriptionStatusIncompleteExpired: true,
}

type PaymentService struct {
	db            *gorm.DB
	stripeService *payment.StripeService
	cfg           *config.Config
	userRepo      *repository.UserRepository
	noteRepo      *repository.NoteRepository
	purchaseRepo  *repository.PurchaseRepository
	subRepo       *repository.SubscriptionRepository
	aiJobRepo     *repository.AIJobRepository
	logger        *zap.Logger
}

func NewPaymentService(
	db *gorm.DB,
	stripeService *payment.StripeService,
	cfg *config.Config,
	userRepo *repository.UserRepository,
	noteRepo *repository.NoteRepository,
	purchaseRepo *repository.PurchaseRepository,
	subRepo *repository.SubscriptionRepository,
	aiJobRepo *repository.AIJobRepository,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		db:            db,
		stripeService: stripeService,
		cfg:           cfg,
		userRepo:      userRepo,
		noteRepo:      noteRepo,
		purchaseRepo:  purchaseRepo,
		subRepo:       subRepo,
		aiJobRepo:     aiJobRepo,
		logger:        logger,
	}
}

// round2 keeps monetary amounts at cent precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeFees splits a note price into platform fee, processor fee and
// seller earnings. Frozen into session metadata at checkout time so a later
// price change cannot alter what the reconciler credits.
func ComputeFees(price float64) (platformFee, processorFee, sellerEarnings float64) {
	platformFee = round2(price * models.PlatformFeeRate)
	processorFee = round2(price*models.ProcessorFeeRate + models.ProcessorFeeFixed)
	sellerEarnings = round2(price - platformFee - processorFee)
	return platformFee, processorFee, sellerEarnings
}

// CreateCheckout opens a Stripe session for a note purchase and records the
// pending purchase keyed by the session id before returning.
func (s *PaymentService) CreateCheckout(buyer *models.User, noteID uint) (*models.CheckoutSessionResponse, error) {
	note, err := s.noteRepo.GetPublishedByID(noteID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if note.SellerID == buyer.ID {
		return nil, ErrOwnNote
	}

	exists, err := s.purchaseRepo.ExistsForNoteAndBuyer(note.ID, buyer.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrAlreadyPurchased
	}

	platformFee, _, sellerEarnings := ComputeFees(note.Price)

	session, err := s.stripeService.CreateNoteCheckoutSession(
		int64(math.Round(note.Price*100)),
		note.Title,
		map[string]string{
			"type":            "note_purchase",
			"note_id":         strconv.FormatUint(uint64(note.ID), 10),
			"buyer_id":        strconv.FormatUint(uint64(buyer.ID), 10),
			"seller_id":       strconv.FormatUint(uint64(note.SellerID), 10),
			"seller_earnings": fmt.Sprintf("%.2f", sellerEarnings),
		},
	)
	if err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		BuyerID:         buyer.ID,
		NoteID:          note.ID,
		Amount:          note.Price,
		PlatformFee:     platformFee,
		SellerEarnings:  sellerEarnings,
		StripeSessionID: session.ID,
		Status:          models.PurchaseStatusPending,
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}

	return &models.CheckoutSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// CreateSubscription opens a subscription-mode session for a plan tier.
func (s *PaymentService) CreateSubscription(user *models.User, tier string) (*models.CheckoutSessionResponse, error) {
	var priceID string
	switch tier {
	case string(models.PlanPro):
		priceID = s.cfg.Stripe.PriceIDPro
	case string(models.PlanElite):
		priceID = s.cfg.Stripe.PriceIDElite
	default:
		return nil, NewValidationError("tier must be pro or elite")
	}
	if priceID == "" {
		return nil, ErrTierNotConfigured
	}

	active, err := s.subRepo.HasActive(user.ID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrAlreadySubscribed
	}

	session, err := s.stripeService.CreateSubscriptionSession(priceID, map[string]string{
		"type":    "subscription",
		"user_id": strconv.FormatUint(uint64(user.ID), 10),
		"tier":    tier,
	})
	if err != nil {
		return nil, err
	}

	return &models.CheckoutSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

func (s *PaymentService) GetPurchases(buyerID uint) ([]models.Purchase, error) {
	return s.purchaseRepo.GetByBuyer(buyerID)
}

// VerifyPurchase reports the status of the caller's purchase for a session.
func (s *PaymentService) VerifyPurchase(buyerID uint, sessionID string) (*models.Purchase, error) {
	purchase, err := s.purchaseRepo.GetBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if purchase.BuyerID != buyerID {
		return nil, ErrNotFound
	}
	return purchase, nil
}

// HandleStripeWebhook reconciles an authenticated payment event against
// local state. Every ledger-touching branch is idempotent: session ids and
// conditional status transitions guarantee at-most-once effect application
// under Stripe's at-least-once delivery.
func (s *PaymentService) HandleStripeWebhook(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		switch session.Metadata["type"] {
		case "note_purchase":
			return s.completeNotePurchase(&session)
		case "subscription":
			return s.activateSubscription(&session)
		default:
			// a session we did not create; acknowledge and ignore
			return nil
		}

	case "checkout.session.expired":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return fmt.Errorf("failed to parse checkout session: %w", err)
		}
		if session.Metadata["type"] != "note_purchase" {
			return nil
		}
		// the session never completed, so no wallet credit exists to undo
		_, err := s.purchaseRepo.MarkRefunded(s.db, session.ID)
		return err

	case "invoice.paid":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("failed to parse invoice: %w", err)
		}
		if invoice.Subscription == nil {
			return nil
		}
		return s.subRepo.UpdateStatusByStripeID(s.db, invoice.Subscription.ID, models.SubscriptionStatusActive)

	case "invoice.payment_failed":
		var invoice stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
			return fmt.Errorf("failed to parse invoice: %w", err)
		}
		if invoice.Subscription == nil {
			return nil
		}
		return s.subRepo.UpdateStatusByStripeID(s.db, invoice.Subscription.ID, models.SubscriptionStatusPastDue)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		return s.terminateSubscription(sub.ID)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return fmt.Errorf("failed to parse subscription: %w", err)
		}
		if terminalSubscriptionStatuses[sub.Status] {
			return s.terminateSubscription(sub.ID)
		}
		return s.mirrorSubscriptionStatus(sub.ID, sub.Status)

	default:
		// unrecognized event types are acknowledged and ignored
		return nil
	}
}

// completeNotePurchase credits the seller exactly once per session. The
// conditional pending→completed update is the guard: on redelivery it
// affects zero rows and the wallet credit is skipped.
func (s *PaymentService) completeNotePurchase(session *stripe.CheckoutSession) error {
	sellerID, err := strconv.ParseUint(session.Metadata["seller_id"], 10, 32)
	if err != nil {
		return fmt.Errorf("bad seller_id metadata: %w", err)
	}
	noteID, err := strconv.ParseUint(session.Metadata["note_id"], 10, 32)
	if err != nil {
		return fmt.Errorf("bad note_id metadata: %w", err)
	}
	// trust the earnings frozen at checkout time, not the current price
	sellerEarnings, err := strconv.ParseFloat(session.Metadata["seller_earnings"], 64)
	if err != nil {
		return fmt.Errorf("bad seller_earnings metadata: %w", err)
	}

	paymentIntentID := ""
	if session.PaymentIntent != nil {
		paymentIntentID = session.PaymentIntent.ID
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		transitioned, err := s.purchaseRepo.MarkCompleted(tx, session.ID, paymentIntentID)
		if err != nil {
			return err
		}
		if !transitioned {
			s.logger.Info("duplicate completion event ignored",
				zap.String("session_id", session.ID))
			return nil
		}

		if err := s.userRepo.CreditWallet(tx, uint(sellerID), sellerEarnings); err != nil {
			return err
		}
		if err := s.noteRepo.IncrementPurchaseCount(tx, uint(noteID)); err != nil {
			return err
		}
		return s.aiJobRepo.Create(tx, &models.AIJob{
			UserID:    uint(sellerID),
			JobType:   models.AIJobPurchaseCompleted,
			InputHash: session.ID,
			CostUnits: 0,
		})
	})
}

// activateSubscription upserts the user's subscription row and switches the
// plan. Re-running on redelivery converges to the same state.
func (s *PaymentService) activateSubscription(session *stripe.CheckoutSession) error {
	userID, err := strconv.ParseUint(session.Metadata["user_id"], 10, 32)
	if err != nil {
		return fmt.Errorf("bad user_id metadata: %w", err)
	}
	tier := models.PlanType(session.Metadata["tier"])
	if tier != models.PlanPro && tier != models.PlanElite {
		return fmt.Errorf("bad tier metadata: %q", session.Metadata["tier"])
	}

	stripeSubID := ""
	if session.Subscription != nil {
		stripeSubID = session.Subscription.ID
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.subRepo.Upsert(tx, &models.Subscription{
			UserID:               uint(userID),
			StripeSubscriptionID: stripeSubID,
			Tier:                 tier,
			Status:               models.SubscriptionStatusActive,
		}); err != nil {
			return err
		}
		return s.userRepo.SetPlan(tx, uint(userID), tier, models.UnlimitedCredits, nil)
	})
}

// terminateSubscription cancels the local row and downgrades the owner back
// to the free plan with the default credit balance (reset, not additive).
func (s *PaymentService) terminateSubscription(stripeSubID string) error {
	sub, err := s.subRepo.GetByStripeID(stripeSubID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// not our subscription; nothing to reconcile
			return nil
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		now := tx.NowFunc()
		if err := tx.Model(&models.Subscription{}).
			Where("id = ?", sub.ID).
			Updates(map[string]interface{}{
				"status":      models.SubscriptionStatusCanceled,
				"canceled_at": now,
			}).Error; err != nil {
			return err
		}
		return s.userRepo.SetPlan(tx, sub.UserID, models.PlanFree, models.DefaultFreeCredits, nil)
	})
}

func (s *PaymentService) mirrorSubscriptionStatus(stripeSubID string, status stripe.SubscriptionStatus) error {
	var local models.SubscriptionStatus
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		local = models.SubscriptionStatusActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusIncomplete:
		local = models.SubscriptionStatusPastDue
	default:
		local = models.SubscriptionStatusCanceled
	}
	return s.subRepo.UpdateStatusByStripeID(s.db, stripeSubID, local)
}
