package models

import (
	"time"
)

type PayoutStatus string

const (
	PayoutStatusPending    PayoutStatus = "pending"
	PayoutStatusProcessing PayoutStatus = "processing"
	PayoutStatusCompleted  PayoutStatus = "completed"
	PayoutStatusFailed     PayoutStatus = "failed"
)

// Payout reserves the amount from the seller's wallet at request time.
// A payout that later fails is credited back (see LedgerService.MarkPayoutFailed).
type Payout struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	SellerID  uint         `json:"seller_id" gorm:"not null;index"`
	Amount    float64      `json:"amount" gorm:"not null"`
	Method    string       `json:"method" gorm:"not null"`
	Status    PayoutStatus `json:"status" gorm:"type:varchar(12);not null;default:'pending'"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type RequestPayoutRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Method string  `json:"method" validate:"required,oneof=bank paypal crypto"`
}
