package service

import (
	"strings"
	"testing"

	"github.com/walaa-next/internal/constants"
)

func TestGenerateTokenFormat(t *testing.T) {
	for _, prefix := range []string{constants.TokenPrefixCard, constants.TokenPrefixQR, constants.TokenPrefixOTP} {
		token := GenerateToken(prefix)
		if !strings.HasPrefix(token, prefix+"_") {
			t.Fatalf("expected prefix %s_, got: %s", prefix, token)
		}
		random := strings.TrimPrefix(token, prefix+"_")
		if len(random) != constants.TokenRandomBytes*2 {
			t.Fatalf("expected %d hex chars, got %d: %s", constants.TokenRandomBytes*2, len(random), token)
		}
		for _, r := range random {
			if !strings.ContainsRune("0123456789abcdef", r) {
				t.Fatalf("non-hex rune %q in token: %s", r, token)
			}
		}
	}
}

func TestGenerateTokenDefaultsToQRPrefix(t *testing.T) {
	token := GenerateToken("  ")
	if !strings.HasPrefix(token, constants.TokenPrefixQR+"_") {
		t.Fatalf("expected default QR prefix, got: %s", token)
	}
}

func TestGenerateTokenUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		token := GenerateToken(constants.TokenPrefixOTP)
		if _, dup := seen[token]; dup {
			t.Fatalf("duplicate token after %d iterations: %s", i, token)
		}
		seen[token] = struct{}{}
	}
}

func TestGenerateVoucherCodeFormat(t *testing.T) {
	code := GenerateVoucherCode()
	if !strings.HasPrefix(code, constants.VoucherCodePrefix+"_") {
		t.Fatalf("expected prefix %s_, got: %s", constants.VoucherCodePrefix, code)
	}
	random := strings.TrimPrefix(code, constants.VoucherCodePrefix+"_")
	if len(random) != constants.VoucherCodeBytes*2 {
		t.Fatalf("expected %d chars, got %d: %s", constants.VoucherCodeBytes*2, len(random), code)
	}
	for _, r := range random {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			t.Fatalf("non-upper-hex rune %q in code: %s", r, code)
		}
	}
}
