package credential

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidCredentials covers every token failure: bad signature, expiry, missing identity.
var ErrInvalidCredentials = errors.New("could not validate credentials")

// Identity is the subject encoded in a session token.
type Identity struct {
	Email  string
	UserId uuid.UUID
}

type sessionClaims struct {
	UserId string `json:"user_id"`
	jwt.RegisteredClaims
}

type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

func NewTokenIssuer(secret string) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Issue signs an HS256 token carrying sub=email, user_id and exp=now+ttl.
func (t *TokenIssuer) Issue(identity Identity, ttl time.Duration) (string, time.Time, error) {
	issuedAt := t.now()
	expiresAt := issuedAt.Add(ttl)

	claims := sessionClaims{
		UserId: identity.UserId.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.Email,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify returns the identity of a valid token. The payload is only read after the
// signature and expiry have been checked.
func (t *TokenIssuer) Verify(tokenStr string) (*Identity, error) {
	var claims sessionClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims,
		func(*jwt.Token) (interface{}, error) { return t.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}

	if claims.Subject == "" || claims.UserId == "" {
		return nil, ErrInvalidCredentials
	}
	userId, err := uuid.Parse(claims.UserId)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return &Identity{Email: claims.Subject, UserId: userId}, nil
}
