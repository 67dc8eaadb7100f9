package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"testing"
	"time"

	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/repository"
	"github.com/noteshare/noteshare-backend/pkg/telegram"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testBotToken = "123456:test-bot-token"

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(
		repository.NewUserRepository(db),
		telegram.NewVerifier(testBotToken),
		testLogger(),
	)
}

// signLoginRequest produces the hash the Telegram widget would attach.
func signLoginRequest(req *models.TelegramLoginRequest) {
	fields := map[string]string{
		"id":         strconv.FormatInt(req.ID, 10),
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"username":   req.Username,
		"photo_url":  req.PhotoURL,
		"auth_date":  strconv.FormatInt(req.AuthDate, 10),
	}

	keys := []string{"auth_date", "first_name", "id", "last_name", "photo_url", "username"}
	checkString := ""
	for _, k := range keys {
		if fields[k] == "" {
			continue
		}
		if checkString != "" {
			checkString += "\n"
		}
		checkString += fmt.Sprintf("%s=%s", k, fields[k])
	}

	secret := sha256.Sum256([]byte(testBotToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(checkString))
	req.Hash = hex.EncodeToString(mac.Sum(nil))
}

func TestTelegramLoginCreatesUser(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	req := models.TelegramLoginRequest{
		ID:        900001,
		FirstName: "Ada",
		Username:  "ada",
		AuthDate:  time.Now().Unix(),
	}
	signLoginRequest(&req)

	resp, err := svc.TelegramLogin(req)
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, models.PlanFree, resp.User.Plan)
	require.Equal(t, models.DefaultFreeCredits, resp.User.Credits)
	require.Len(t, resp.User.ReferralCode, 8)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)
}

func TestTelegramLoginRotatesSession(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	req := models.TelegramLoginRequest{
		ID:        900002,
		FirstName: "Ada",
		AuthDate:  time.Now().Unix(),
	}
	signLoginRequest(&req)

	first, err := svc.TelegramLogin(req)
	require.NoError(t, err)
	second, err := svc.TelegramLogin(req)
	require.NoError(t, err)
	require.NotEqual(t, first.Token, second.Token)

	// a second login does not create a second account and the old
	// token stops resolving
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(1), count)

	_, err = svc.ResolveToken(first.Token)
	require.ErrorIs(t, err, ErrUnauthorized)

	user, err := svc.ResolveToken(second.Token)
	require.NoError(t, err)
	require.Equal(t, int64(900002), user.TelegramID)
}

func TestTelegramLoginRejectsBadHash(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	req := models.TelegramLoginRequest{
		ID:        900003,
		FirstName: "Mallory",
		AuthDate:  time.Now().Unix(),
		Hash:      "deadbeef",
	}
	_, err := svc.TelegramLogin(req)
	require.ErrorIs(t, err, ErrUnauthorized)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

func TestResolveTokenExpiry(t *testing.T) {
	db := setupTestDB(t)
	svc := newAuthService(db)

	expired := time.Now().Add(-time.Hour)
	user := createTestUser(t, db, func(u *models.User) {
		u.SessionToken = "expired-token"
		u.SessionExpiresAt = &expired
	})

	_, err := svc.ResolveToken("expired-token")
	require.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.ResolveToken("")
	require.ErrorIs(t, err, ErrUnauthorized)

	fresh := time.Now().Add(time.Hour)
	require.NoError(t, db.Model(user).Updates(map[string]interface{}{
		"session_token":      "fresh-token",
		"session_expires_at": fresh,
	}).Error)

	resolved, err := svc.ResolveToken("fresh-token")
	require.NoError(t, err)
	require.Equal(t, user.ID, resolved.ID)
}
