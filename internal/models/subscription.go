package models

import (
	"time"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
)

type Subscription struct {
	ID                   uint               `json:"id" gorm:"primaryKey"`
	UserID               uint               `json:"user_id" gorm:"uniqueIndex;not null"`
	StripeSubscriptionID string             `json:"-" gorm:"index"`
	Tier                 PlanType           `json:"tier" gorm:"type:varchar(10);not null"`
	Status               SubscriptionStatus `json:"status" gorm:"type:varchar(10);not null"`
	CanceledAt           *time.Time         `json:"canceled_at"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}
