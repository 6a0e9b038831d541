package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

var (
	// ErrInvalidToken is returned for malformed or tampered session tokens.
	ErrInvalidToken = errors.New("invalid session token")
	// ErrExpiredToken is returned when the session's absolute lifetime has passed.
	ErrExpiredToken = errors.New("session expired")
)

const sessionCookieName = "ldo_session"
const minSecretLen = 32

// CreateSessionToken builds a signed session token for the given operator id.
// The token embeds an absolute expiry; there is no sliding renewal.
func CreateSessionToken(operatorID int64, secret []byte, ttl time.Duration) string {
	payload := strconv.FormatInt(operatorID, 10) + ":" + strconv.FormatInt(time.Now().Add(ttl).Unix(), 10)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(payload))
	sig := hex.EncodeToString(mac.Sum(nil))
	return base64.URLEncoding.EncodeToString([]byte(payload)) + "." + sig
}

// VerifySessionToken validates the signature and expiry and returns the
// operator id the token was issued for.
func VerifySessionToken(token string, secret []byte) (int64, error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 {
		return 0, ErrInvalidToken
	}
	payload, err := base64.URLEncoding.DecodeString(parts[0])
	if err != nil {
		return 0, ErrInvalidToken
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(parts[1])) {
		return 0, ErrInvalidToken
	}

	fields := strings.SplitN(string(payload), ":", 2)
	if len(fields) != 2 {
		return 0, ErrInvalidToken
	}
	operatorID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	expires, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	if time.Now().Unix() >= expires {
		return 0, ErrExpiredToken
	}
	return operatorID, nil
}

// SessionCookieName returns the session cookie name.
func SessionCookieName() string {
	return sessionCookieName
}

// SessionSecretBytes derives signing key bytes from the configured secret,
// zero-padding to the 32-byte minimum.
func SessionSecretBytes(s string) []byte {
	b := []byte(s)
	if len(b) < minSecretLen {
		out := make([]byte, minSecretLen)
		copy(out, b)
		return out
	}
	return b
}
