package models

import (
	"time"
)

type PurchaseStatus string

const (
	PurchaseStatusPending   PurchaseStatus = "pending"
	PurchaseStatusCompleted PurchaseStatus = "completed"
	PurchaseStatusRefunded  PurchaseStatus = "refunded"
)

// Fee model: the platform keeps 30% of the note price, Stripe's processor
// fee is 2.9% + $0.30, the seller gets the remainder.
const (
	PlatformFeeRate   = 0.30
	ProcessorFeeRate  = 0.029
	ProcessorFeeFixed = 0.30
	MinPayoutAmount   = 20.00
)

type Purchase struct {
	ID              uint           `json:"id" gorm:"primaryKey"`
	BuyerID         uint           `json:"buyer_id" gorm:"not null;index"`
	NoteID          uint           `json:"note_id" gorm:"not null;index"`
	Amount          float64        `json:"amount" gorm:"not null"`
	PlatformFee     float64        `json:"platform_fee" gorm:"not null"`
	SellerEarnings  float64        `json:"seller_earnings" gorm:"not null"`
	StripeSessionID string         `json:"stripe_session_id" gorm:"uniqueIndex;not null"`
	PaymentIntentID string         `json:"-"`
	Status          PurchaseStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending'"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`

	Note *Note `json:"note,omitempty" gorm:"foreignKey:NoteID"`
}

type CreateCheckoutRequest struct {
	NoteID uint `json:"note_id" validate:"required"`
}

type CreateSubscriptionRequest struct {
	Tier string `json:"tier" validate:"required,oneof=pro elite"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}
