package auth

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLifetime = 7 * 24 * time.Hour

func newTestCodec(secret string) *TokenCodec {
	return NewTokenCodec(secret, testLifetime)
}

func TestTokenCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := newTestCodec("test-secret")
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	for _, uid := range []int64{1, 7, 42, 1 << 40} {
		token := codec.Create(uid, now)
		got, err := codec.Verify(token, now)
		require.NoError(t, err)
		assert.Equal(t, uid, got)
	}
}

func TestTokenCodec_Format(t *testing.T) {
	t.Parallel()

	codec := newTestCodec("test-secret")
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	token := codec.Create(9, now)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 2)

	raw, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)

	var payload struct {
		UID int64 `json:"uid"`
		Exp int64 `json:"exp"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, int64(9), payload.UID)
	assert.Equal(t, now.Add(testLifetime).UnixMilli(), payload.Exp)
}

func TestTokenCodec_ExpiryBoundary(t *testing.T) {
	t.Parallel()

	codec := newTestCodec("test-secret")
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	token := codec.Create(5, now)

	_, err := codec.Verify(token, now.Add(testLifetime-time.Millisecond))
	assert.NoError(t, err, "token must be valid just before expiry")

	_, err = codec.Verify(token, now.Add(testLifetime))
	assert.ErrorIs(t, err, ErrInvalidToken, "exp == now is expired (strict comparison)")

	_, err = codec.Verify(token, now.Add(testLifetime+time.Millisecond))
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_TamperRejection(t *testing.T) {
	t.Parallel()

	codec := newTestCodec("test-secret")
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	token := codec.Create(123456, now)

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		mutated := []byte(token)
		if mutated[i] == 'A' {
			mutated[i] = 'B'
		} else {
			mutated[i] = 'A'
		}
		_, err := codec.Verify(string(mutated), now)
		assert.ErrorIs(t, err, ErrInvalidToken, "byte %d", i)
	}
}

func TestTokenCodec_SecretSensitivity(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	token := newTestCodec("secret-a").Create(3, now)

	_, err := newTestCodec("secret-b").Verify(token, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenCodec_Malformed(t *testing.T) {
	t.Parallel()

	codec := newTestCodec("test-secret")
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	sign := func(payload string) string { return codec.sign(payload) }
	encode := func(v any) string {
		b, err := json.Marshal(v)
		require.NoError(t, err)
		return base64.RawURLEncoding.EncodeToString(b)
	}
	withSig := func(payload string) string { return payload + "." + sign(payload) }

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no dot", "abcdef"},
		{"empty payload", "." + sign("")},
		{"empty signature", "payload."},
		{"three segments", withSig(encode(map[string]int64{"uid": 1, "exp": now.UnixMilli() + 1000})) + ".extra"},
		{"payload not base64", withSig("!!not-base64!!")},
		{"payload not json", withSig(base64.RawURLEncoding.EncodeToString([]byte("{oops")))},
		{"missing uid", withSig(encode(map[string]int64{"exp": now.UnixMilli() + 1000}))},
		{"missing exp", withSig(encode(map[string]int64{"uid": 1}))},
		{"non-numeric uid", withSig(encode(map[string]any{"uid": "one", "exp": now.UnixMilli() + 1000}))},
		{"non-numeric exp", withSig(encode(map[string]any{"uid": 1, "exp": "later"}))},
		{"zero uid", withSig(encode(map[string]int64{"uid": 0, "exp": now.UnixMilli() + 1000}))},
		{"negative uid", withSig(encode(map[string]int64{"uid": -4, "exp": now.UnixMilli() + 1000}))},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := codec.Verify(tt.token, now)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
