package service

import (
	"errors"

	"github.com/noteshare/noteshare-backend/internal/repository"
)

// Sentinel errors returned by the service layer. Handlers map these onto
// HTTP statuses; anything else is a 500 with a generic message.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("purchase required")
	ErrNotFound            = errors.New("not found")
	ErrAlreadyPurchased    = errors.New("note already purchased")
	ErrAlreadySubscribed   = errors.New("already subscribed")
	ErrAlreadyReferred     = errors.New("referral code already redeemed")
	ErrSelfReferral        = errors.New("cannot redeem your own referral code")
	ErrInvalidReferralCode = errors.New("invalid referral code")
	ErrRateLimited         = errors.New("daily limit reached")
	ErrOwnNote             = errors.New("cannot buy your own note")
	ErrAlreadyReviewed     = errors.New("note already reviewed")
	ErrTierNotConfigured   = errors.New("subscription tier is not configured")

	ErrInsufficientCredits = repository.ErrInsufficientCredits
	ErrInsufficientBalance = repository.ErrInsufficientBalance
)

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
