package credential

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordRoundTrip(t *testing.T) {
	passwords := []string{"secret1", "securepassword123", "ünïcødé-pass", strings.Repeat("x", 72)}

	for _, p := range passwords {
		hash, err := HashPassword(p)
		require.NoError(t, err)

		assert.NotEqual(t, p, hash)
		assert.True(t, VerifyPassword(p, hash), "password %q should verify", p)
		assert.False(t, VerifyPassword(p+"!", hash))
	}
}

func TestHashIsSalted(t *testing.T) {
	a, err := HashPassword("same-password")
	require.NoError(t, err)
	b, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("anything", ""))
}

func TestDummyHashCostsLikeARealHash(t *testing.T) {
	cost, err := bcrypt.Cost([]byte(DummyHash()))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
	assert.Equal(t, DummyHash(), DummyHash())
	assert.False(t, VerifyPassword("securepassword123", DummyHash()))
}

func TestHashPasswordOverLimit(t *testing.T) {
	_, err := HashPassword(strings.Repeat("é", 37))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

// tamperSignature swaps one character in the middle of the signature segment.
func tamperSignature(token string) string {
	sigStart := strings.LastIndex(token, ".") + 1
	i := sigStart + (len(token)-sigStart)/2
	replacement := byte('A')
	if token[i] == 'A' {
		replacement = 'B'
	}
	return token[:i] + string(replacement) + token[i+1:]
}

func newFixedIssuer(secret string, now time.Time) *TokenIssuer {
	issuer := NewTokenIssuer(secret)
	issuer.now = func() time.Time { return now }
	return issuer
}

func TestTokenIssueAndVerify(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newFixedIssuer("test-secret", now)
	identity := Identity{Email: "driver@example.com", UserId: uuid.New()}

	token, expiresAt, err := issuer.Issue(identity, 30*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, now.Add(30*time.Minute), expiresAt)

	got, err := issuer.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, *got)
}

func TestTokenVerifiedByAnotherInstanceWithSameKey(t *testing.T) {
	now := time.Now()
	identity := Identity{Email: "driver@example.com", UserId: uuid.New()}

	token, _, err := newFixedIssuer("shared-key", now).Issue(identity, time.Hour)
	require.NoError(t, err)

	got, err := newFixedIssuer("shared-key", now).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity.UserId, got.UserId)
}

func TestTokenRejections(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer := newFixedIssuer("test-secret", now)
	identity := Identity{Email: "driver@example.com", UserId: uuid.New()}

	valid, _, err := issuer.Issue(identity, time.Minute)
	require.NoError(t, err)

	sign := func(claims jwt.Claims, method jwt.SigningMethod, key interface{}) string {
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return s
	}

	tests := []struct {
		name  string
		token string
		at    time.Time
	}{
		{
			name:  "expired",
			token: valid,
			at:    now.Add(2 * time.Minute),
		},
		{
			name:  "tampered signature",
			token: tamperSignature(valid),
			at:    now,
		},
		{
			name:  "signed with another key",
			token: func() string { tok, _, _ := newFixedIssuer("other", now).Issue(identity, time.Minute); return tok }(),
			at:    now,
		},
		{
			name: "missing user id",
			token: sign(sessionClaims{RegisteredClaims: jwt.RegisteredClaims{
				Subject:   identity.Email,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			}}, jwt.SigningMethodHS256, []byte("test-secret")),
			at: now,
		},
		{
			name: "missing subject",
			token: sign(sessionClaims{UserId: identity.UserId.String(), RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			}}, jwt.SigningMethodHS256, []byte("test-secret")),
			at: now,
		},
		{
			name: "missing expiry",
			token: sign(sessionClaims{UserId: identity.UserId.String(), RegisteredClaims: jwt.RegisteredClaims{
				Subject: identity.Email,
			}}, jwt.SigningMethodHS256, []byte("test-secret")),
			at: now,
		},
		{
			name: "malformed user id",
			token: sign(sessionClaims{UserId: "not-a-uuid", RegisteredClaims: jwt.RegisteredClaims{
				Subject:   identity.Email,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			}}, jwt.SigningMethodHS256, []byte("test-secret")),
			at: now,
		},
		{
			name: "unsigned",
			token: sign(sessionClaims{UserId: identity.UserId.String(), RegisteredClaims: jwt.RegisteredClaims{
				Subject:   identity.Email,
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			}}, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType),
			at: now,
		},
		{
			name:  "garbage",
			token: "not.a.token",
			at:    now,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := newFixedIssuer("test-secret", tt.at)
			got, err := verifier.Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidCredentials)
			assert.Nil(t, got)
		})
	}
}
