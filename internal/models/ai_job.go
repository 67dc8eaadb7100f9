package models

import (
	"time"
)

type AIJobType string

const (
	AIJobSummarize  AIJobType = "summarize"
	AIJobFlashcards AIJobType = "flashcards"
	AIJobQuiz       AIJobType = "quiz"
	AIJobExplain    AIJobType = "explain"
	AIJobRewardedAd AIJobType = "rewarded_ad"
	// AIJobPurchaseCompleted is an audit entry written by the webhook
	// reconciler, cost_units 0.
	AIJobPurchaseCompleted AIJobType = "purchase_completed"
)

// AIJob is an append-only usage log. Rows are never updated or deleted.
type AIJob struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`
	JobType   AIJobType `json:"job_type" gorm:"type:varchar(20);not null;index"`
	InputHash string    `json:"input_hash"`
	Output    string    `json:"output"`
	CostUnits int       `json:"cost_units" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
}

type AIRequest struct {
	Text string `json:"text" validate:"required,min=20,max=20000"`
}

type AIResponse struct {
	JobID   uint   `json:"job_id"`
	Output  string `json:"output"`
	Credits int    `json:"credits_remaining"`
}
