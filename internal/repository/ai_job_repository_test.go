package repository

import (
	"testing"
	"time"

	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/stretchr/testify/require"
)

func TestCountByTypeTodayUsesLocalMidnight(t *testing.T) {
	db := setupTestDB(t)
	repo := NewAIJobRepository(db)
	user := seedSeller(t, db, 1)

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	// yesterday's grant must not count against today's window
	require.NoError(t, db.Create(&models.AIJob{
		UserID:    user.ID,
		JobType:   models.AIJobRewardedAd,
		CreatedAt: midnight.Add(-time.Minute),
	}).Error)
	require.NoError(t, db.Create(&models.AIJob{
		UserID:    user.ID,
		JobType:   models.AIJobRewardedAd,
		CreatedAt: midnight.Add(time.Minute),
	}).Error)
	// other job types are outside the cap
	require.NoError(t, db.Create(&models.AIJob{
		UserID:    user.ID,
		JobType:   models.AIJobSummarize,
		CreatedAt: now,
	}).Error)

	count, err := repo.CountByTypeToday(db, user.ID, models.AIJobRewardedAd)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
