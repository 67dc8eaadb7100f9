package service

import (
	"fmt"
	"testing"

	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/pkg/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a per-test in-memory database so tests cannot
// interfere with each other.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))
	return db
}

func testLogger() *zap.Logger {
	return zap.NewNop()
}

var userSeq int64

func createTestUser(t *testing.T, db *gorm.DB, mutate func(*models.User)) *models.User {
	t.Helper()
	userSeq++
	user := &models.User{
		TelegramID:   userSeq,
		FirstName:    fmt.Sprintf("user%d", userSeq),
		Plan:         models.PlanFree,
		Credits:      models.DefaultFreeCredits,
		ReferralCode: fmt.Sprintf("CODE%04d", userSeq),
	}
	if mutate != nil {
		mutate(user)
	}

	// column defaults replace zero values on insert, so a fixture asking
	// for 0 credits would come back with 10; reapply the intended
	// balances after the row exists
	credits := user.Credits
	wallet := user.WalletBalance
	require.NoError(t, db.Create(user).Error)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"credits":        credits,
		"wallet_balance": wallet,
	}).Error)
	user.Credits = credits
	user.WalletBalance = wallet
	return user
}

func createTestNote(t *testing.T, db *gorm.DB, sellerID uint, price float64, status models.NoteStatus) *models.Note {
	t.Helper()
	note := &models.Note{
		SellerID: sellerID,
		Title:    "Calculus II summary",
		Subject:  "math",
		Level:    "university",
		Price:    price,
		Status:   status,
		FileKey:  "notes/test.pdf",
		FileName: "test.pdf",
		FileSize: 1024,
		MimeType: "application/pdf",
	}
	require.NoError(t, db.Create(note).Error)
	return note
}
