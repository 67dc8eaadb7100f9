package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"math/big"
	"time"
)

const referralCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReferralCode returns an 8-character uppercase-alphanumeric code.
func GenerateReferralCode() string {
	b := make([]byte, 8)
	for i := range b {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCharset))))
		if err != nil {
			// crypto/rand should not fail; fall back to a time-derived code
			return FallbackReferralCode()
		}
		b[i] = referralCharset[n.Int64()]
	}
	return string(b)
}

// FallbackReferralCode derives a code from the current timestamp, used when
// random generation keeps colliding with existing codes.
func FallbackReferralCode() string {
	return fmt.Sprintf("R%07X", time.Now().UnixNano()%0xFFFFFFF)
}

// GenerateSessionToken returns a 256-bit random token, hex encoded.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
