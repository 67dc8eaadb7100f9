package repository

import (
	"strings"

	"github.com/noteshare/noteshare-backend/internal/models"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// allowedSortColumns is the catalog sort allow-list. User-supplied sort
// keys are never interpolated into SQL; anything not in this map falls
// back to created_at.
var allowedSortColumns = map[string]string{
	"created_at":     "created_at",
	"price":          "price",
	"purchase_count": "purchase_count",
	"avg_rating":     "avg_rating",
}

func (r *NoteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

func (r *NoteRepository) GetByID(id uint) (*models.Note, error) {
	var note models.Note
	err := r.db.Preload("Seller").First(&note, id).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

func (r *NoteRepository) GetPublishedByID(id uint) (*models.Note, error) {
	var note models.Note
	err := r.db.Preload("Seller").
		Where("id = ? AND status = ?", id, models.NoteStatusPublished).
		First(&note).Error
	if err != nil {
		return nil, err
	}
	return &note, nil
}

// List returns published notes matching the query filters, with the seller
// preloaded and offset pagination.
func (r *NoteRepository) List(q models.NoteListQuery) ([]models.Note, int64, error) {
	query := r.db.Model(&models.Note{}).Where("status = ?", models.NoteStatusPublished)

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}
	if q.Subject != "" {
		query = query.Where("subject = ?", q.Subject)
	}
	if q.Level != "" {
		query = query.Where("level = ?", q.Level)
	}
	if q.MinPrice > 0 {
		query = query.Where("price >= ?", q.MinPrice)
	}
	if q.MaxPrice > 0 {
		query = query.Where("price <= ?", q.MaxPrice)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := allowedSortColumns[q.Sort]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.Order, "asc") {
		direction = "ASC"
	}

	if q.Limit <= 0 || q.Limit > 100 {
		q.Limit = 20
	}
	if q.Page <= 0 {
		q.Page = 1
	}

	var notes []models.Note
	err := query.Preload("Seller").
		Order(column + " " + direction).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&notes).Error
	return notes, total, err
}

func (r *NoteRepository) GetBySeller(sellerID uint) ([]models.Note, error) {
	var notes []models.Note
	err := r.db.Where("seller_id = ?", sellerID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

func (r *NoteRepository) IncrementViews(id uint) error {
	return r.db.Model(&models.Note{}).Where("id = ?", id).
		Update("views", gorm.Expr("views + 1")).Error
}

func (r *NoteRepository) IncrementPurchaseCount(tx *gorm.DB, id uint) error {
	return tx.Model(&models.Note{}).Where("id = ?", id).
		Update("purchase_count", gorm.Expr("purchase_count + 1")).Error
}

// RefreshRating recomputes the note's average rating from its reviews.
func (r *NoteRepository) RefreshRating(noteID uint) error {
	return r.db.Model(&models.Note{}).Where("id = ?", noteID).
		Update("avg_rating", r.db.Model(&models.Review{}).
			Select("COALESCE(AVG(rating), 0)").
			Where("note_id = ?", noteID),
		).Error
}

func (r *NoteRepository) CountBySeller(sellerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Note{}).Where("seller_id = ?", sellerID).Count(&count).Error
	return count, err
}
