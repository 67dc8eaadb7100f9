package telegram

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var ErrInvalidHash = errors.New("telegram auth hash mismatch")

// Verifier checks Telegram Login Widget payloads. The widget signs the
// sorted "key=value" lines of the payload with HMAC-SHA256 keyed by
// sha256(bot token).
type Verifier struct {
	secret []byte
}

func NewVerifier(botToken string) *Verifier {
	secret := sha256.Sum256([]byte(botToken))
	return &Verifier{secret: secret[:]}
}

// Verify recomputes the HMAC over every field except "hash" and compares it
// against the supplied hash.
func (v *Verifier) Verify(fields map[string]string, hash string) error {
	keys := make([]string, 0, len(fields))
	for k, val := range fields {
		if k == "hash" || val == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, fmt.Sprintf("%s=%s", k, fields[k]))
	}
	checkString := strings.Join(pairs, "\n")

	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(checkString))
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(hash)) {
		return ErrInvalidHash
	}
	return nil
}
