package repository

import (
	"github.com/noteshare/noteshare-backend/internal/models"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(purchase *models.Purchase) error {
	return r.db.Create(purchase).Error
}

func (r *PurchaseRepository) GetBySessionID(sessionID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Preload("Note").Where("stripe_session_id = ?", sessionID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *PurchaseRepository) ExistsForNoteAndBuyer(noteID, buyerID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).
		Where("note_id = ? AND buyer_id = ?", noteID, buyerID).
		Count(&count).Error
	return count > 0, err
}

func (r *PurchaseRepository) GetCompletedForNoteAndBuyer(noteID, buyerID uint) (*models.Purchase, error) {
	var purchase models.Purchase
	err := r.db.Where("note_id = ? AND buyer_id = ? AND status = ?",
		noteID, buyerID, models.PurchaseStatusCompleted).
		First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

func (r *PurchaseRepository) GetByBuyer(buyerID uint) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := r.db.Preload("Note").Preload("Note.Seller").
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// MarkCompleted flips pending to completed for the given session id. The
// status predicate is the idempotency guard against duplicate webhook
// delivery: a redelivered event affects zero rows and the caller must then
// skip the wallet credit.
func (r *PurchaseRepository) MarkCompleted(tx *gorm.DB, sessionID, paymentIntentID string) (bool, error) {
	result := tx.Model(&models.Purchase{}).
		Where("stripe_session_id = ? AND status = ?", sessionID, models.PurchaseStatusPending).
		Updates(map[string]interface{}{
			"status":            models.PurchaseStatusCompleted,
			"payment_intent_id": paymentIntentID,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkRefunded transitions pending to refunded, once. A purchase that
// already completed stays completed; each session id transitions at most
// one time.
func (r *PurchaseRepository) MarkRefunded(tx *gorm.DB, sessionID string) (bool, error) {
	result := tx.Model(&models.Purchase{}).
		Where("stripe_session_id = ? AND status = ?", sessionID, models.PurchaseStatusPending).
		Update("status", models.PurchaseStatusRefunded)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *PurchaseRepository) CountCompletedForSeller(sellerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).
		Joins("JOIN notes ON notes.id = purchases.note_id").
		Where("notes.seller_id = ? AND purchases.status = ?", sellerID, models.PurchaseStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *PurchaseRepository) CountByBuyer(buyerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Purchase{}).
		Where("buyer_id = ? AND status = ?", buyerID, models.PurchaseStatusCompleted).
		Count(&count).Error
	return count, err
}

func (r *PurchaseRepository) SumEarningsForSeller(sellerID uint) (float64, error) {
	var total float64
	err := r.db.Model(&models.Purchase{}).
		Select("COALESCE(SUM(purchases.seller_earnings), 0)").
		Joins("JOIN notes ON notes.id = purchases.note_id").
		Where("notes.seller_id = ? AND purchases.status = ?", sellerID, models.PurchaseStatusCompleted).
		Scan(&total).Error
	return total, err
}
