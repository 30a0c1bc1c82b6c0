package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/dmitrijs2005/notevault/internal/server/models"
)

// OTPDigits is the default challenge code length.
const OTPDigits = 6

// GenerateOTP returns a uniform-random numeric code of exactly the given
// number of digits. Leading zeros are preserved: the code is an opaque
// string, never an integer.
func GenerateOTP(digits int) (string, error) {
	if digits < 4 || digits > 10 {
		return "", errors.New("invalid otp digits")
	}

	var b strings.Builder
	b.Grow(digits)

	max := big.NewInt(10)
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}

	return b.String(), nil
}

// NewChallenge generates a challenge that expires validity from now.
func NewChallenge(digits int, validity time.Duration, now time.Time) (*models.Challenge, error) {
	code, err := GenerateOTP(digits)
	if err != nil {
		return nil, err
	}
	return &models.Challenge{Code: code, ExpiresAt: now.Add(validity)}, nil
}

// ChallengeValid reports whether submitted completes the challenge: a
// challenge must exist, the code must match exactly, and now must be
// strictly before the expiry. The check does not consume the challenge;
// disposal is the caller's decision.
func ChallengeValid(c *models.Challenge, submitted string, now time.Time) bool {
	if c == nil || c.Code == "" {
		return false
	}
	if !now.Before(c.ExpiresAt) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Code), []byte(submitted)) == 1
}
