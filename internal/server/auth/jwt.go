package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dkireev/realty/internal/common"
)

// TokenIssuer mints and verifies signed, time-bounded bearer tokens carrying
// the user ID in the standard subject claim. The secret and signing method
// are fixed at construction and read-only afterwards.
type TokenIssuer struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewTokenIssuer builds a TokenIssuer for the given HMAC algorithm name
// (HS256, HS384 or HS512).
func NewTokenIssuer(secret string, algorithm string, ttl time.Duration) (*TokenIssuer, error) {
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported signing algorithm: %q", algorithm)
	}
	return &TokenIssuer{secret: []byte(secret), method: method, ttl: ttl}, nil
}

// TTL returns the validity window tokens are issued with. Session records
// must be registered with the same TTL so cache eviction and token expiry
// stay in sync.
func (i *TokenIssuer) TTL() time.Duration { return i.ttl }

// Issue creates a signed token for the subject, expiring at now+TTL.
func (i *TokenIssuer) Issue(subject string) (string, error) {
	token := jwt.NewWithClaims(i.method, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(i.ttl)),
	})

	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks structure, signature and expiry, and returns the subject.
// Expired tokens yield common.ErrTokenExpired; every other failure yields
// common.ErrInvalidToken. Only the configured algorithm is accepted.
func (i *TokenIssuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{i.method.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", common.ErrTokenExpired
		}
		return "", common.ErrInvalidToken
	}

	if !token.Valid || claims.Subject == "" {
		return "", common.ErrInvalidToken
	}
	return claims.Subject, nil
}
