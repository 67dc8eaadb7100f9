package repository

import (
	"time"

	"github.com/noteshare/noteshare-backend/internal/models"
	"gorm.io/gorm"
)

type AIJobRepository struct {
	db *gorm.DB
}

func NewAIJobRepository(db *gorm.DB) *AIJobRepository {
	return &AIJobRepository{db: db}
}

func (r *AIJobRepository) Create(tx *gorm.DB, job *models.AIJob) error {
	return tx.Create(job).Error
}

// startOfToday is local midnight; Truncate would pin the window to UTC.
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// CountByTypeToday counts a user's jobs of one type since local midnight.
// Used for the daily rewarded-ad cap; runs on the caller's transaction so
// the cap check sees a consistent view.
func (r *AIJobRepository) CountByTypeToday(tx *gorm.DB, userID uint, jobType models.AIJobType) (int64, error) {
	var count int64
	err := tx.Model(&models.AIJob{}).
		Where("user_id = ? AND job_type = ? AND created_at >= ?", userID, jobType, startOfToday()).
		Count(&count).Error
	return count, err
}

func (r *AIJobRepository) CountByUserToday(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.AIJob{}).
		Where("user_id = ? AND created_at >= ?", userID, startOfToday()).
		Count(&count).Error
	return count, err
}

func (r *AIJobRepository) GetRecentByUser(userID uint, limit int) ([]models.AIJob, error) {
	var jobs []models.AIJob
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}
