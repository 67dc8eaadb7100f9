package service

import (
	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/repository"
)

type UserService struct {
	userRepo     *repository.UserRepository
	noteRepo     *repository.NoteRepository
	purchaseRepo *repository.PurchaseRepository
	aiJobRepo    *repository.AIJobRepository
	payoutRepo   *repository.PayoutRepository
	referralRepo *repository.ReferralRepository
}

func NewUserService(
	userRepo *repository.UserRepository,
	noteRepo *repository.NoteRepository,
	purchaseRepo *repository.PurchaseRepository,
	aiJobRepo *repository.AIJobRepository,
	payoutRepo *repository.PayoutRepository,
	referralRepo *repository.ReferralRepository,
) *UserService {
	return &UserService{
		userRepo:     userRepo,
		noteRepo:     noteRepo,
		purchaseRepo: purchaseRepo,
		aiJobRepo:    aiJobRepo,
		payoutRepo:   payoutRepo,
		referralRepo: referralRepo,
	}
}

func (s *UserService) GetDashboard(user *models.User) (*models.DashboardResponse, error) {
	notesCount, err := s.noteRepo.CountBySeller(user.ID)
	if err != nil {
		return nil, err
	}
	salesCount, err := s.purchaseRepo.CountCompletedForSeller(user.ID)
	if err != nil {
		return nil, err
	}
	purchasesCount, err := s.purchaseRepo.CountByBuyer(user.ID)
	if err != nil {
		return nil, err
	}
	earnings, err := s.purchaseRepo.SumEarningsForSeller(user.ID)
	if err != nil {
		return nil, err
	}
	aiJobsToday, err := s.aiJobRepo.CountByUserToday(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.DashboardResponse{
		User:           *user,
		NotesCount:     notesCount,
		SalesCount:     salesCount,
		PurchasesCount: purchasesCount,
		TotalEarnings:  earnings,
		AIJobsToday:    aiJobsToday,
	}, nil
}

func (s *UserService) UpdateProfile(user *models.User, req models.UpdateProfileRequest) (*models.User, error) {
	if req.Username != "" {
		user.Username = req.Username
	}
	if req.FirstName != "" {
		user.FirstName = req.FirstName
	}
	if req.PhotoURL != "" {
		user.PhotoURL = req.PhotoURL
	}
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetReferralStats(user *models.User) (*models.ReferralStatsResponse, error) {
	count, err := s.referralRepo.CountByReferrer(user.ID)
	if err != nil {
		return nil, err
	}

	return &models.ReferralStatsResponse{
		ReferralCode:   user.ReferralCode,
		ReferralsCount: int(count),
		CreditsEarned:  int(count) * models.ReferralReferrerReward,
		PremiumUntil:   user.PremiumUntil,
	}, nil
}

func (s *UserService) GetPayouts(user *models.User) ([]models.Payout, error) {
	return s.payoutRepo.GetBySeller(user.ID)
}
