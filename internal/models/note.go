package models

import (
	"time"
)

type NoteStatus string

const (
	NoteStatusPending   NoteStatus = "pending"
	NoteStatusPublished NoteStatus = "published"
	NoteStatusRejected  NoteStatus = "rejected"
)

// Price bounds enforced at upload time.
const (
	MinNotePrice = 0.99
	MaxNotePrice = 99.99
)

type Note struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	SellerID      uint       `json:"seller_id" gorm:"not null;index"`
	Title         string     `json:"title" gorm:"not null"`
	Description   string     `json:"description"`
	Subject       string     `json:"subject" gorm:"index"`
	Level         string     `json:"level" gorm:"index"`
	Price         float64    `json:"price" gorm:"not null"`
	Status        NoteStatus `json:"status" gorm:"type:varchar(10);not null;default:'pending';index"`
	FileKey       string     `json:"-" gorm:"not null"`
	FileName      string     `json:"file_name" gorm:"not null"`
	FileSize      int64      `json:"file_size" gorm:"not null"`
	MimeType      string     `json:"mime_type" gorm:"not null"`
	Views         int        `json:"views" gorm:"not null;default:0"`
	PurchaseCount int        `json:"purchase_count" gorm:"not null;default:0"`
	AvgRating     float64    `json:"avg_rating" gorm:"not null;default:0"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Seller *User `json:"seller,omitempty" gorm:"foreignKey:SellerID"`
}

// NoteListQuery carries the catalog filters. Sort is validated against an
// allow-list before it reaches SQL.
type NoteListQuery struct {
	Search   string
	Subject  string
	Level    string
	MinPrice float64
	MaxPrice float64
	Sort     string
	Order    string
	Page     int
	Limit    int
}

type NoteListResponse struct {
	Notes []Note `json:"notes"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

type DownloadResponse struct {
	URL       string    `json:"url"`
	FileName  string    `json:"file_name"`
	ExpiresAt time.Time `json:"expires_at"`
}
