// internal/auth/token.go
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// ErrInvalidToken covers every verification failure: bad structure, bad
// signature, bad payload, expiry. Callers treat all of them as "not logged
// in"; the distinction is deliberately not exposed.
var ErrInvalidToken = errors.New("invalid session token")

type tokenPayload struct {
	UID *int64 `json:"uid"`
	Exp *int64 `json:"exp"` // milliseconds since epoch
}

// TokenCodec signs and verifies stateless session tokens of the form
// base64url(json({uid,exp})) + "." + base64url(hmac-sha256(secret, payload)).
// Validity is recomputed per request; nothing is stored server-side, so
// rotating the secret invalidates every outstanding token at once.
type TokenCodec struct {
	secret   []byte
	lifetime time.Duration
}

func NewTokenCodec(secret string, lifetime time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), lifetime: lifetime}
}

// Lifetime reports the validity window applied by Create.
func (c *TokenCodec) Lifetime() time.Duration { return c.lifetime }

// Create signs a token for userID valid until now + lifetime.
func (c *TokenCodec) Create(userID int64, now time.Time) string {
	exp := now.Add(c.lifetime).UnixMilli()
	b, _ := json.Marshal(tokenPayload{UID: &userID, Exp: &exp})
	payload := base64.RawURLEncoding.EncodeToString(b)
	return payload + "." + c.sign(payload)
}

// Verify checks the signature and expiry of token and returns the subject
// user id. Expiry is strict: a token is valid only while exp > now.
func (c *TokenCodec) Verify(token string, now time.Time) (int64, error) {
	payload, sig, ok := strings.Cut(token, ".")
	if !ok || payload == "" || sig == "" || strings.Contains(sig, ".") {
		return 0, ErrInvalidToken
	}

	// Signature first, constant-time. The payload is not parsed until the
	// token is known to be ours.
	expected := c.sign(payload)
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return 0, ErrInvalidToken
	}

	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return 0, ErrInvalidToken
	}
	var p tokenPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.UID == nil || p.Exp == nil {
		return 0, ErrInvalidToken
	}
	if *p.UID <= 0 {
		return 0, ErrInvalidToken
	}
	if *p.Exp <= now.UnixMilli() {
		return 0, ErrInvalidToken
	}
	return *p.UID, nil
}

func (c *TokenCodec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
