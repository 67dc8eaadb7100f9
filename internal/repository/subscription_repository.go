package repository

import (
	"github.com/noteshare/noteshare-backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) GetByUserID(userID uint) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) GetByStripeID(stripeID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.Where("stripe_subscription_id = ?", stripeID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepository) HasActive(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Subscription{}).
		Where("user_id = ? AND status = ?", userID, models.SubscriptionStatusActive).
		Count(&count).Error
	return count > 0, err
}

// Upsert inserts or replaces the user's single subscription row. The
// unique index on user_id makes this a conflict update.
func (r *SubscriptionRepository) Upsert(tx *gorm.DB, sub *models.Subscription) error {
	return tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"stripe_subscription_id", "tier", "status", "canceled_at", "updated_at",
		}),
	}).Create(sub).Error
}

func (r *SubscriptionRepository) UpdateStatusByStripeID(tx *gorm.DB, stripeID string, status models.SubscriptionStatus) error {
	return tx.Model(&models.Subscription{}).
		Where("stripe_subscription_id = ?", stripeID).
		Update("status", status).Error
}
