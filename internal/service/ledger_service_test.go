package service

import (
	"testing"
	"time"

	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLedgerService(db *gorm.DB) *LedgerService {
	return NewLedgerService(
		db,
		repository.NewUserRepository(db),
		repository.NewAIJobRepository(db),
		repository.NewReferralRepository(db),
		repository.NewPayoutRepository(db),
		nil,
		testLogger(),
	)
}

func TestConsumeCreditNeverGoesNegative(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	user := createTestUser(t, db, func(u *models.User) { u.Credits = 2 })

	for i := 0; i < 2; i++ {
		err := ledger.ConsumeCreditForAIJob(user, &models.AIJob{
			UserID:  user.ID,
			JobType: models.AIJobSummarize,
		})
		require.NoError(t, err)
	}

	// third consumption fails instead of deducting below zero
	err := ledger.ConsumeCreditForAIJob(user, &models.AIJob{
		UserID:  user.ID,
		JobType: models.AIJobSummarize,
	})
	require.ErrorIs(t, err, ErrInsufficientCredits)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, 0, stored.Credits)

	// the failed attempt must not have logged a job either
	var jobs int64
	require.NoError(t, db.Model(&models.AIJob{}).Where("user_id = ?", user.ID).Count(&jobs).Error)
	require.Equal(t, int64(2), jobs)
}

func TestConsumeCreditSkippedForPaidPlans(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	user := createTestUser(t, db, func(u *models.User) {
		u.Plan = models.PlanPro
		u.Credits = models.UnlimitedCredits
	})

	err := ledger.ConsumeCreditForAIJob(user, &models.AIJob{
		UserID:  user.ID,
		JobType: models.AIJobQuiz,
	})
	require.NoError(t, err)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, models.UnlimitedCredits, stored.Credits)

	var job models.AIJob
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&job).Error)
	require.Equal(t, 0, job.CostUnits)
}

func TestGrantAdCreditDailyCap(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	user := createTestUser(t, db, func(u *models.User) { u.Credits = 0 })

	for i := 0; i < AdCreditDailyCap; i++ {
		credits, err := ledger.GrantAdCredit(user, 1)
		require.NoError(t, err)
		require.Equal(t, i+1, credits)
	}

	_, err := ledger.GrantAdCredit(user, 1)
	require.ErrorIs(t, err, ErrRateLimited)

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	require.Equal(t, AdCreditDailyCap, stored.Credits)
}

func TestApplyReferralFullEffect(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	referrer := createTestUser(t, db, func(u *models.User) { u.Credits = 0 })
	referred := createTestUser(t, db, func(u *models.User) { u.Credits = 0 })

	require.NoError(t, ledger.ApplyReferral(referred, referrer.ReferralCode))

	var storedReferrer, storedReferred models.User
	require.NoError(t, db.First(&storedReferrer, referrer.ID).Error)
	require.NoError(t, db.First(&storedReferred, referred.ID).Error)

	require.Equal(t, models.ReferralReferrerReward, storedReferrer.Credits)
	require.Equal(t, models.ReferralReferredBonus, storedReferred.Credits)
	require.Equal(t, 1, storedReferrer.ReferralsCount)
	require.Nil(t, storedReferrer.PremiumUntil)

	var referralCount int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&referralCount).Error)
	require.Equal(t, int64(1), referralCount)
}

func TestApplyReferralRejectsSelfAndDuplicate(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	referrer := createTestUser(t, db, nil)
	other := createTestUser(t, db, nil)
	referred := createTestUser(t, db, nil)

	require.ErrorIs(t, ledger.ApplyReferral(referred, referred.ReferralCode), ErrSelfReferral)
	require.ErrorIs(t, ledger.ApplyReferral(referred, "NOSUCH00"), ErrInvalidReferralCode)

	require.NoError(t, ledger.ApplyReferral(referred, referrer.ReferralCode))

	// a user can only ever redeem one code, even a different one
	err := ledger.ApplyReferral(referred, other.ReferralCode)
	require.ErrorIs(t, err, ErrAlreadyReferred)

	var count int64
	require.NoError(t, db.Model(&models.Referral{}).Where("referred_user_id = ?", referred.ID).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestApplyReferralRollsBackMidSequence(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	referrer := createTestUser(t, db, func(u *models.User) { u.Credits = 0 })
	referred := createTestUser(t, db, func(u *models.User) { u.Credits = 0 })

	// deleting the referred row makes the bonus-credit update affect zero
	// rows after the referrer was already credited; the whole transaction
	// must unwind
	require.NoError(t, db.Delete(&models.User{}, referred.ID).Error)

	err := ledger.ApplyReferral(referred, referrer.ReferralCode)
	require.Error(t, err)

	var storedReferrer models.User
	require.NoError(t, db.First(&storedReferrer, referrer.ID).Error)
	require.Equal(t, 0, storedReferrer.Credits)
	require.Equal(t, 0, storedReferrer.ReferralsCount)

	var referralCount int64
	require.NoError(t, db.Model(&models.Referral{}).Count(&referralCount).Error)
	require.Equal(t, int64(0), referralCount)
}

func TestApplyReferralPremiumAtThreshold(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	referrer := createTestUser(t, db, func(u *models.User) { u.ReferralsCount = 2 })

	// count 2 -> 3 crosses the threshold
	referred := createTestUser(t, db, nil)
	require.NoError(t, ledger.ApplyReferral(referred, referrer.ReferralCode))

	var stored models.User
	require.NoError(t, db.First(&stored, referrer.ID).Error)
	require.Equal(t, 3, stored.ReferralsCount)
	require.Equal(t, models.PlanPro, stored.Plan)
	require.NotNil(t, stored.PremiumUntil)
	require.WithinDuration(t, time.Now().Add(models.ReferralPremiumDuration), *stored.PremiumUntil, time.Minute)
}

func TestApplyReferralNoPremiumBelowThreshold(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	referrer := createTestUser(t, db, nil) // count 0 -> 1
	referred := createTestUser(t, db, nil)
	require.NoError(t, ledger.ApplyReferral(referred, referrer.ReferralCode))

	var stored models.User
	require.NoError(t, db.First(&stored, referrer.ID).Error)
	require.Equal(t, 1, stored.ReferralsCount)
	require.Equal(t, models.PlanFree, stored.Plan)
	require.Nil(t, stored.PremiumUntil)
}

func TestRequestPayoutBoundaries(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	seller := createTestUser(t, db, func(u *models.User) { u.WalletBalance = 15 })

	// below the minimum
	_, err := ledger.RequestPayout(seller, 10, "bank")
	require.Error(t, err)
	require.True(t, IsValidation(err))

	// above the wallet balance
	_, err = ledger.RequestPayout(seller, 20, "bank")
	require.ErrorIs(t, err, ErrInsufficientBalance)

	var stored models.User
	require.NoError(t, db.First(&stored, seller.ID).Error)
	require.Equal(t, float64(15), stored.WalletBalance)

	var payouts int64
	require.NoError(t, db.Model(&models.Payout{}).Count(&payouts).Error)
	require.Equal(t, int64(0), payouts)
}

func TestRequestPayoutDebitsWallet(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	seller := createTestUser(t, db, func(u *models.User) { u.WalletBalance = 25 })

	payout, err := ledger.RequestPayout(seller, 20, "paypal")
	require.NoError(t, err)
	require.Equal(t, models.PayoutStatusPending, payout.Status)

	var stored models.User
	require.NoError(t, db.First(&stored, seller.ID).Error)
	require.Equal(t, float64(5), stored.WalletBalance)
}

func TestMarkPayoutFailedCreditsBackOnce(t *testing.T) {
	db := setupTestDB(t)
	ledger := newLedgerService(db)

	seller := createTestUser(t, db, func(u *models.User) { u.WalletBalance = 30 })

	payout, err := ledger.RequestPayout(seller, 20, "bank")
	require.NoError(t, err)

	require.NoError(t, ledger.MarkPayoutFailed(payout.ID))
	// second failure report is a no-op
	require.NoError(t, ledger.MarkPayoutFailed(payout.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, seller.ID).Error)
	require.Equal(t, float64(30), stored.WalletBalance)

	var storedPayout models.Payout
	require.NoError(t, db.First(&storedPayout, payout.ID).Error)
	require.Equal(t, models.PayoutStatusFailed, storedPayout.Status)
}
