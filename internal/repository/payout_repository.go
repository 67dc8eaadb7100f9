package repository

import (
	"github.com/noteshare/noteshare-backend/internal/models"
	"gorm.io/gorm"
)

type PayoutRepository struct {
	db *gorm.DB
}

func NewPayoutRepository(db *gorm.DB) *PayoutRepository {
	return &PayoutRepository{db: db}
}

func (r *PayoutRepository) Create(tx *gorm.DB, payout *models.Payout) error {
	return tx.Create(payout).Error
}

func (r *PayoutRepository) GetByID(id uint) (*models.Payout, error) {
	var payout models.Payout
	err := r.db.First(&payout, id).Error
	if err != nil {
		return nil, err
	}
	return &payout, nil
}

func (r *PayoutRepository) GetBySeller(sellerID uint) ([]models.Payout, error) {
	var payouts []models.Payout
	err := r.db.Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&payouts).Error
	return payouts, err
}

// MarkFailed transitions a payout out of pending/processing exactly once so
// the compensating wallet credit cannot be applied twice.
func (r *PayoutRepository) MarkFailed(tx *gorm.DB, id uint) (bool, error) {
	result := tx.Model(&models.Payout{}).
		Where("id = ? AND status IN ?", id, []models.PayoutStatus{
			models.PayoutStatusPending, models.PayoutStatusProcessing,
		}).
		Update("status", models.PayoutStatusFailed)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
