package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// ConfirmationCodePrefix is the fixed prefix on every job confirmation code.
const ConfirmationCodePrefix = "SVC-"

const confirmationAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReservationToken returns an opaque URL-safe token with 256 bits of
// entropy. The token is the sole credential for confirming a hold and encodes
// none of the reservation's fields.
func GenerateReservationToken() (string, error) {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// GenerateConfirmationCode returns a short human-readable code like
// "SVC-A1B2C3": the fixed prefix plus six random uppercase alphanumerics.
// Uniqueness per business is the caller's responsibility.
func GenerateConfirmationCode() (string, error) {
	raw := make([]byte, 6)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	code := make([]byte, 6)
	for i, b := range raw {
		code[i] = confirmationAlphabet[int(b)%len(confirmationAlphabet)]
	}
	return ConfirmationCodePrefix + string(code), nil
}
