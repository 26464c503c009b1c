package utils_test

import (
	"strings"
	"testing"

	"fieldops/utils"
)

func TestGenerateReservationToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := utils.GenerateReservationToken()
		if err != nil {
			t.Fatalf("GenerateReservationToken: %v", err)
		}
		// 32 raw bytes, base64 without padding.
		if len(token) != 43 {
			t.Fatalf("token length = %d, want 43", len(token))
		}
		if strings.ContainsAny(token, "+/=") {
			t.Fatalf("token %q is not URL-safe", token)
		}
		if seen[token] {
			t.Fatalf("token collision after %d draws", i)
		}
		seen[token] = true
	}
}

func TestGenerateConfirmationCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := utils.GenerateConfirmationCode()
		if err != nil {
			t.Fatalf("GenerateConfirmationCode: %v", err)
		}
		if !strings.HasPrefix(code, utils.ConfirmationCodePrefix) {
			t.Fatalf("code %q lacks prefix %q", code, utils.ConfirmationCodePrefix)
		}
		suffix := strings.TrimPrefix(code, utils.ConfirmationCodePrefix)
		if len(suffix) != 6 {
			t.Fatalf("code suffix %q should be 6 characters", suffix)
		}
		for _, r := range suffix {
			if !((r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')) {
				t.Fatalf("code %q contains a character outside A-Z0-9", code)
			}
		}
	}
}
