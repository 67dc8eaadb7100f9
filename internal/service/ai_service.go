package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"

	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/repository"
	"github.com/noteshare/noteshare-backend/pkg/ai"
	"go.uber.org/zap"
)

var aiPrompts = map[models.AIJobType]string{
	models.AIJobSummarize:  "You are a study assistant. Summarize the following study material into concise bullet points covering every key concept.",
	models.AIJobFlashcards: "You are a study assistant. Turn the following study material into flashcards. Output a JSON array of {\"front\", \"back\"} objects.",
	models.AIJobQuiz:       "You are a study assistant. Create a multiple-choice quiz from the following study material. Output a JSON array of {\"question\", \"options\", \"answer\"} objects.",
	models.AIJobExplain:    "You are a patient tutor. Explain the following material in simple terms, as if to a student encountering it for the first time.",
}

type AIService struct {
	client    *ai.Client
	ledger    *LedgerService
	userRepo  *repository.UserRepository
	aiJobRepo *repository.AIJobRepository
	logger    *zap.Logger
}

func NewAIService(
	client *ai.Client,
	ledger *LedgerService,
	userRepo *repository.UserRepository,
	aiJobRepo *repository.AIJobRepository,
	logger *zap.Logger,
) *AIService {
	return &AIService{
		client:    client,
		ledger:    ledger,
		userRepo:  userRepo,
		aiJobRepo: aiJobRepo,
		logger:    logger,
	}
}

// Run forwards text to the model and charges one credit. The credit check
// happens up front so free users with an empty balance never trigger a
// model call; the actual deduction and the usage record are applied
// together after the call succeeds.
func (s *AIService) Run(ctx context.Context, user *models.User, jobType models.AIJobType, text string) (*models.AIJob, error) {
	prompt, ok := aiPrompts[jobType]
	if !ok {
		return nil, NewValidationError("unknown job type")
	}

	if user.Plan == models.PlanFree && user.Credits <= 0 {
		return nil, ErrInsufficientCredits
	}

	output, err := s.client.Complete(ctx, prompt, text)
	if err != nil {
		s.logger.Error("ai completion failed",
			zap.Uint("user_id", user.ID),
			zap.String("job_type", string(jobType)),
			zap.Error(err))
		return nil, err
	}

	hash := sha256.Sum256([]byte(text))
	job := &models.AIJob{
		UserID:    user.ID,
		JobType:   jobType,
		InputHash: hex.EncodeToString(hash[:]),
		Output:    output,
	}

	if err := s.ledger.ConsumeCreditForAIJob(user, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *AIService) RecentJobs(userID uint, limit int) ([]models.AIJob, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	return s.aiJobRepo.GetRecentByUser(userID, limit)
}
