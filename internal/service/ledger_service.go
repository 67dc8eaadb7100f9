package service

import (
	"errors"
	"time"

	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/repository"
	"github.com/noteshare/noteshare-backend/pkg/email"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Daily cap on rewarded-ad credit grants per user.
const AdCreditDailyCap = 5

// LedgerService owns every mutation of credits, wallet balances and
// referral counters. All multi-statement operations run in a single
// transaction with relative updates so concurrent requests cannot lose
// writes.
type LedgerService struct {
	db           *gorm.DB
	userRepo     *repository.UserRepository
	aiJobRepo    *repository.AIJobRepository
	referralRepo *repository.ReferralRepository
	payoutRepo   *repository.PayoutRepository
	emailService *email.EmailService
	logger       *zap.Logger
}

func NewLedgerService(
	db *gorm.DB,
	userRepo *repository.UserRepository,
	aiJobRepo *repository.AIJobRepository,
	referralRepo *repository.ReferralRepository,
	payoutRepo *repository.PayoutRepository,
	emailService *email.EmailService,
	logger *zap.Logger,
) *LedgerService {
	return &LedgerService{
		db:           db,
		userRepo:     userRepo,
		aiJobRepo:    aiJobRepo,
		referralRepo: referralRepo,
		payoutRepo:   payoutRepo,
		emailService: emailService,
		logger:       logger,
	}
}

// ConsumeCreditForAIJob deducts one credit and appends the usage record in
// one transaction. Paid plans skip the deduction but still log the job.
func (s *LedgerService) ConsumeCreditForAIJob(user *models.User, job *models.AIJob) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		if user.Plan == models.PlanFree {
			if err := s.userRepo.ConsumeCredit(tx, user.ID); err != nil {
				return err
			}
			job.CostUnits = 1
		} else {
			job.CostUnits = 0
		}
		return s.aiJobRepo.Create(tx, job)
	})
}

// GrantAdCredit rewards a watched ad, at most AdCreditDailyCap times per
// calendar day. The credit update takes the user row lock before the cap
// is counted, so concurrent grants serialize instead of both slipping
// under the cap.
func (s *LedgerService) GrantAdCredit(user *models.User, amount int) (int, error) {
	if amount <= 0 {
		amount = 1
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.AddCredits(tx, user.ID, amount); err != nil {
			return err
		}

		count, err := s.aiJobRepo.CountByTypeToday(tx, user.ID, models.AIJobRewardedAd)
		if err != nil {
			return err
		}
		if count >= AdCreditDailyCap {
			return ErrRateLimited
		}

		return s.aiJobRepo.Create(tx, &models.AIJob{
			UserID:    user.ID,
			JobType:   models.AIJobRewardedAd,
			CostUnits: -amount,
		})
	})
	if err != nil {
		return 0, err
	}

	updated, err := s.userRepo.GetByID(user.ID)
	if err != nil {
		return 0, err
	}
	return updated.Credits, nil
}

// ApplyReferral redeems a referral code for a newly referred user. The
// referral row, both credit grants and the optional premium upgrade are one
// transaction; none of the effects is observable alone.
func (s *LedgerService) ApplyReferral(referred *models.User, code string) error {
	if code == referred.ReferralCode {
		return ErrSelfReferral
	}

	redeemed, err := s.referralRepo.HasRedeemed(referred.ID)
	if err != nil {
		return err
	}
	if redeemed {
		return ErrAlreadyReferred
	}

	referrer, err := s.userRepo.GetByReferralCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidReferralCode
		}
		return err
	}
	if referrer.ID == referred.ID {
		return ErrSelfReferral
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.referralRepo.Create(tx, &models.Referral{
			ReferrerID:     referrer.ID,
			ReferredUserID: referred.ID,
		}); err != nil {
			return err
		}

		if err := s.userRepo.AddCredits(tx, referrer.ID, models.ReferralReferrerReward); err != nil {
			return err
		}
		if err := s.userRepo.AddCredits(tx, referred.ID, models.ReferralReferredBonus); err != nil {
			return err
		}

		count, err := s.userRepo.IncrementReferrals(tx, referrer.ID)
		if err != nil {
			return err
		}
		if count == models.ReferralPremiumAt {
			until := time.Now().Add(models.ReferralPremiumDuration)
			if err := s.userRepo.GrantPremium(tx, referrer.ID, models.PlanPro, until); err != nil {
				return err
			}
			s.logger.Info("referral premium granted",
				zap.Uint("referrer_id", referrer.ID),
				zap.Time("premium_until", until))
		}
		return nil
	})
}

// RequestPayout reserves the amount from the wallet immediately and records
// the payout in pending. The debit is guarded so the wallet cannot go
// negative.
func (s *LedgerService) RequestPayout(seller *models.User, amount float64, method string) (*models.Payout, error) {
	if amount < models.MinPayoutAmount {
		return nil, NewValidationError("minimum payout is $20.00")
	}

	payout := &models.Payout{
		SellerID: seller.ID,
		Amount:   amount,
		Method:   method,
		Status:   models.PayoutStatusPending,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.DebitWallet(tx, seller.ID, amount); err != nil {
			return err
		}
		return s.payoutRepo.Create(tx, payout)
	})
	if err != nil {
		return nil, err
	}

	if s.emailService != nil {
		go func() {
			if err := s.emailService.SendPayoutAlert(payout.ID, seller.ID, amount, method); err != nil {
				s.logger.Warn("payout alert email failed", zap.Error(err))
			}
		}()
	}

	return payout, nil
}

// MarkPayoutFailed fails a payout and credits the reserved amount back.
// The conditional status transition makes the compensation idempotent.
func (s *LedgerService) MarkPayoutFailed(payoutID uint) error {
	payout, err := s.payoutRepo.GetByID(payoutID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		failed, err := s.payoutRepo.MarkFailed(tx, payout.ID)
		if err != nil {
			return err
		}
		if !failed {
			return nil
		}
		return s.userRepo.CreditWallet(tx, payout.SellerID, payout.Amount)
	})
}
