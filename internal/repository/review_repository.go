package repository

import (
	"github.com/noteshare/noteshare-backend/internal/models"
	"gorm.io/gorm"
)

type ReviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Create(review *models.Review) error {
	return r.db.Create(review).Error
}

func (r *ReviewRepository) ExistsForNoteAndUser(noteID, userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Review{}).
		Where("note_id = ? AND user_id = ?", noteID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *ReviewRepository) GetByNote(noteID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.Where("note_id = ?", noteID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}
