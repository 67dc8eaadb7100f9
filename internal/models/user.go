package models

import (
	"time"
)

type PlanType string

const (
	PlanFree  PlanType = "free"
	PlanPro   PlanType = "pro"
	PlanElite PlanType = "elite"
)

// DefaultFreeCredits is granted on signup and restored when a
// subscription ends.
const DefaultFreeCredits = 10

// UnlimitedCredits is the sentinel balance set for paid plans.
const UnlimitedCredits = 9999

type User struct {
	ID               uint       `json:"id" gorm:"primaryKey"`
	TelegramID       int64      `json:"telegram_id" gorm:"uniqueIndex;not null"`
	Username         string     `json:"username"`
	FirstName        string     `json:"first_name"`
	PhotoURL         string     `json:"photo_url"`
	Plan             PlanType   `json:"plan" gorm:"type:varchar(10);not null;default:'free'"`
	Credits          int        `json:"credits" gorm:"not null;default:10"`
	WalletBalance    float64    `json:"wallet_balance" gorm:"not null;default:0"`
	SessionToken     string     `json:"-" gorm:"index"`
	SessionExpiresAt *time.Time `json:"-"`
	ReferralCode     string     `json:"referral_code" gorm:"uniqueIndex;size:16;not null"`
	ReferralsCount   int        `json:"referrals_count" gorm:"not null;default:0"`
	PremiumUntil     *time.Time `json:"premium_until"`
	StripeCustomerID string     `json:"-"`
	LastLoginAt      time.Time  `json:"last_login_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type UpdateProfileRequest struct {
	Username  string `json:"username" validate:"omitempty,max=64"`
	FirstName string `json:"first_name" validate:"omitempty,max=64"`
	PhotoURL  string `json:"photo_url" validate:"omitempty,url"`
}

type DashboardResponse struct {
	User           User    `json:"user"`
	NotesCount     int64   `json:"notes_count"`
	SalesCount     int64   `json:"sales_count"`
	PurchasesCount int64   `json:"purchases_count"`
	TotalEarnings  float64 `json:"total_earnings"`
	AIJobsToday    int64   `json:"ai_jobs_today"`
}
