package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/noteshare/noteshare-backend/internal/models"
	"github.com/noteshare/noteshare-backend/internal/repository"
	"github.com/noteshare/noteshare-backend/pkg/telegram"
	"github.com/noteshare/noteshare-backend/pkg/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// SessionExpiry bounds how long a login stays valid. Tokens are
	// refreshed on every login.
	SessionExpiry = 30 * 24 * time.Hour

	referralCodeAttempts = 10
)

type AuthService struct {
	userRepo *repository.UserRepository
	verifier *telegram.Verifier
	logger   *zap.Logger
}

func NewAuthService(userRepo *repository.UserRepository, verifier *telegram.Verifier, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		verifier: verifier,
		logger:   logger,
	}
}

// TelegramLogin verifies the widget payload, finds or creates the user and
// issues a fresh session token, invalidating any previous one.
func (s *AuthService) TelegramLogin(req models.TelegramLoginRequest) (*models.AuthResponse, error) {
	fields := map[string]string{
		"id":         strconv.FormatInt(req.ID, 10),
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"username":   req.Username,
		"photo_url":  req.PhotoURL,
		"auth_date":  strconv.FormatInt(req.AuthDate, 10),
	}
	if err := s.verifier.Verify(fields, req.Hash); err != nil {
		s.logger.Warn("telegram login hash mismatch", zap.Int64("telegram_id", req.ID))
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetByTelegramID(req.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = s.createUser(req)
	}
	if err != nil {
		return nil, err
	}

	token, err := utils.GenerateSessionToken()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(SessionExpiry)
	if err := s.userRepo.SetSession(user.ID, token, expiresAt); err != nil {
		return nil, err
	}
	user.SessionToken = token
	user.SessionExpiresAt = &expiresAt
	user.LastLoginAt = time.Now()

	return &models.AuthResponse{
		Token: token,
		User:  *user,
	}, nil
}

func (s *AuthService) createUser(req models.TelegramLoginRequest) (*models.User, error) {
	code, err := s.uniqueReferralCode()
	if err != nil {
		return nil, err
	}

	user := &models.User{
		TelegramID:   req.ID,
		Username:     req.Username,
		FirstName:    req.FirstName,
		PhotoURL:     req.PhotoURL,
		Plan:         models.PlanFree,
		Credits:      models.DefaultFreeCredits,
		ReferralCode: code,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	s.logger.Info("user created",
		zap.Uint("user_id", user.ID),
		zap.Int64("telegram_id", user.TelegramID))
	return user, nil
}

// uniqueReferralCode samples random codes against the uniqueness constraint
// a bounded number of times, then falls back to a timestamp-derived code.
func (s *AuthService) uniqueReferralCode() (string, error) {
	for i := 0; i < referralCodeAttempts; i++ {
		code := utils.GenerateReferralCode()
		exists, err := s.userRepo.ReferralCodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return utils.FallbackReferralCode(), nil
}

// ResolveToken maps a bearer token to its user, rejecting expired sessions.
func (s *AuthService) ResolveToken(token string) (*models.User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.GetBySessionToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}

	if user.SessionExpiresAt != nil && user.SessionExpiresAt.Before(time.Now()) {
		return nil, ErrUnauthorized
	}
	return user, nil
}
