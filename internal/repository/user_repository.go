package repository

import (
	"errors"
	"time"

	"github.com/noteshare/noteshare-backend/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrInsufficientBalance = errors.New("insufficient wallet balance")
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByTelegramID(telegramID int64) (*models.User, error) {
	var user models.User
	err := r.db.Where("telegram_id = ?", telegramID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetBySessionToken(token string) (*models.User, error) {
	var user models.User
	err := r.db.Where("session_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByReferralCode(code string) (*models.User, error) {
	var user models.User
	err := r.db.Where("referral_code = ?", code).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

func (r *UserRepository) ReferralCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("referral_code = ?", code).Count(&count).Error
	return count > 0, err
}

// SetSession replaces the user's current session token. One active session
// per user; the previous token stops resolving immediately.
func (r *UserRepository) SetSession(userID uint, token string, expiresAt time.Time) error {
	return r.db.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"session_token":      token,
		"session_expires_at": expiresAt,
		"last_login_at":      time.Now(),
	}).Error
}

// AddCredits applies a relative credit grant. Never used for deductions.
func (r *UserRepository) AddCredits(tx *gorm.DB, userID uint, amount int) error {
	result := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("credits", gorm.Expr("credits + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ConsumeCredit decrements one credit, guarded so the balance can never go
// negative. Zero rows affected means the user had no credits left.
func (r *UserRepository) ConsumeCredit(tx *gorm.DB, userID uint) error {
	result := tx.Model(&models.User{}).
		Where("id = ? AND credits > 0", userID).
		Update("credits", gorm.Expr("credits - 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientCredits
	}
	return nil
}

// CreditWallet adds seller earnings to the wallet as a relative update.
func (r *UserRepository) CreditWallet(tx *gorm.DB, userID uint, amount float64) error {
	result := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("wallet_balance", gorm.Expr("wallet_balance + ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DebitWallet reserves an amount, guarded against overdraft. Zero rows
// affected means the balance was too low.
func (r *UserRepository) DebitWallet(tx *gorm.DB, userID uint, amount float64) error {
	result := tx.Model(&models.User{}).
		Where("id = ? AND wallet_balance >= ?", userID, amount).
		Update("wallet_balance", gorm.Expr("wallet_balance - ?", amount))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientBalance
	}
	return nil
}

// IncrementReferrals bumps the counter and returns the updated value so the
// caller can check the premium threshold inside the same transaction.
func (r *UserRepository) IncrementReferrals(tx *gorm.DB, userID uint) (int, error) {
	result := tx.Model(&models.User{}).Where("id = ?", userID).
		Update("referrals_count", gorm.Expr("referrals_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, gorm.ErrRecordNotFound
	}

	var user models.User
	if err := tx.Select("referrals_count").First(&user, userID).Error; err != nil {
		return 0, err
	}
	return user.ReferralsCount, nil
}

// SetPlan rewrites the plan, credit balance and premium window together,
// used by the webhook reconciler and the referral premium grant.
func (r *UserRepository) SetPlan(tx *gorm.DB, userID uint, plan models.PlanType, credits int, premiumUntil *time.Time) error {
	return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"plan":          plan,
		"credits":       credits,
		"premium_until": premiumUntil,
	}).Error
}

// GrantPremium upgrades the plan without touching the credit balance.
func (r *UserRepository) GrantPremium(tx *gorm.DB, userID uint, plan models.PlanType, until time.Time) error {
	return tx.Model(&models.User{}).Where("id = ?", userID).Updates(map[string]interface{}{
		"plan":          plan,
		"premium_until": until,
	}).Error
}
