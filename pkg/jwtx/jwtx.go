// Package jwtx signs and verifies the session tokens issued after an OAuth
// login. Both the short-lived access token and the long-lived refresh token
// are HS256 JWTs carrying the subject user id and a type tag; the type tag
// prevents a refresh token from being replayed as an access token.
package jwtx

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token type tags embedded in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Default token lifetimes.
const (
	DefaultAccessTokenTTL  = 15 * time.Minute
	DefaultRefreshTokenTTL = 30 * 24 * time.Hour
)

var (
	ErrInvalidToken  = errors.New("jwtx: invalid or expired token")
	ErrWrongTokenUse = errors.New("jwtx: token used for wrong purpose")
)

// Claims are the claims embedded in every session token.
type Claims struct {
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

// UserID returns the subject user id.
func (c Claims) UserID() string { return c.Subject }

// Verifier validates a raw token string and returns its claims.
// Implemented by *Signer; declared as an interface so HTTP middleware and
// tests can substitute their own implementation.
type Verifier interface {
	Verify(raw string) (Claims, error)
}

// Signer issues and verifies HS256 session tokens with a shared secret.
type Signer struct {
	secret []byte
	issuer string
}

// NewSigner creates a Signer. The secret should be a strong random string
// (32 bytes or more); the issuer is stamped into the "iss" claim.
func NewSigner(secret, issuer string) *Signer {
	return &Signer{secret: []byte(secret), issuer: issuer}
}

// Sign issues a token of the given type for the subject user id.
func (s *Signer) Sign(userID, tokenType string, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	raw, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign token: %w", err)
	}
	return raw, nil
}

// Verify parses a raw token, checking signature, expiry and issuer. The
// caller is responsible for checking the token type against its expectation
// (see RequireType).
func (s *Signer) Verify(raw string) (Claims, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(
		raw,
		&claims,
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// RequireType returns ErrWrongTokenUse unless the claims carry the expected
// type tag.
func RequireType(c Claims, tokenType string) error {
	if c.TokenType != tokenType {
		return ErrWrongTokenUse
	}
	return nil
}
