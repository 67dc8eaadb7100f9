package models

import (
	"time"
)

// Referral rewards: the referrer earns 5 credits per signup, the referred
// user gets 3, and the referrer is upgraded to a 7-day pro trial when the
// third referral lands.
const (
	ReferralReferrerReward  = 5
	ReferralReferredBonus   = 3
	ReferralPremiumAt       = 3
	ReferralPremiumDuration = 7 * 24 * time.Hour
)

// Referral links a referrer to a referred user. The unique index on
// ReferredUserID enforces one redemption per user, ever.
type Referral struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ReferrerID     uint      `json:"referrer_id" gorm:"not null;index"`
	ReferredUserID uint      `json:"referred_user_id" gorm:"uniqueIndex;not null"`
	CreatedAt      time.Time `json:"created_at"`
}

type ApplyReferralRequest struct {
	Code string `json:"code" validate:"required,len=8"`
}

type ReferralStatsResponse struct {
	ReferralCode   string     `json:"referral_code"`
	ReferralsCount int        `json:"referrals_count"`
	CreditsEarned  int        `json:"credits_earned"`
	PremiumUntil   *time.Time `json:"premium_until"`
}
