package repository

import (
	"github.com/noteshare/noteshare-backend/internal/models"
	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) Create(tx *gorm.DB, referral *models.Referral) error {
	return tx.Create(referral).Error
}

// HasRedeemed reports whether the user has ever been referred. The unique
// index on referred_user_id backs this as a hard constraint.
func (r *ReferralRepository) HasRedeemed(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Referral{}).
		Where("referred_user_id = ?", userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReferralRepository) CountByReferrer(referrerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Referral{}).
		Where("referrer_id = ?", referrerID).
		Count(&count).Error
	return count, err
}
