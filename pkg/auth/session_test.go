package auth

import (
	"errors"
	"testing"
	"time"
)

func testSecret() []byte {
	return SessionSecretBytes("dev-secret-change-in-production-32bytes")
}

func TestSessionToken_RoundTrip(t *testing.T) {
	secret := testSecret()
	token := CreateSessionToken(42, secret, time.Hour)

	operatorID, err := VerifySessionToken(token, secret)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if operatorID != 42 {
		t.Errorf("expected operator id 42, got %d", operatorID)
	}
}

func TestSessionToken_TamperedSignature(t *testing.T) {
	secret := testSecret()
	token := CreateSessionToken(42, secret, time.Hour)

	tampered := token[:len(token)-2] + "xx"
	if _, err := VerifySessionToken(tampered, secret); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionToken_WrongSecret(t *testing.T) {
	token := CreateSessionToken(42, testSecret(), time.Hour)

	other := SessionSecretBytes("another-secret-that-is-long-enough-1234")
	if _, err := VerifySessionToken(token, other); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestSessionToken_Expired(t *testing.T) {
	secret := testSecret()
	token := CreateSessionToken(42, secret, -time.Minute)

	if _, err := VerifySessionToken(token, secret); !errors.Is(err, ErrExpiredToken) {
		t.Errorf("expected ErrExpiredToken, got %v", err)
	}
}

func TestSessionToken_Malformed(t *testing.T) {
	secret := testSecret()
	for _, token := range []string{"", "nodot", "not-base64!.sig", "YWJj.sig"} {
		if _, err := VerifySessionToken(token, secret); err == nil {
			t.Errorf("token %q: expected error, got nil", token)
		}
	}
}

func TestSessionSecretBytes_PadsShortSecrets(t *testing.T) {
	b := SessionSecretBytes("short")
	if len(b) != minSecretLen {
		t.Errorf("expected %d bytes, got %d", minSecretLen, len(b))
	}
}
