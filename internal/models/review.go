package models

import (
	"time"
)

// Review requires a completed purchase of the note. One review per
// (note, user) pair.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	NoteID    uint      `json:"note_id" gorm:"not null;uniqueIndex:idx_review_note_user"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_review_note_user"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"omitempty,max=2000"`
}
