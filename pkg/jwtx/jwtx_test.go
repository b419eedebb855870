package jwtx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestSignAndVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	s := NewSigner(testSecret, "triptab")
	now := time.Now()

	raw, err := s.Sign("user-1", TokenTypeAccess, DefaultAccessTokenTTL, now)
	require.NoError(t, err)

	claims, err := s.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "user-1", claims.UserID())
	require.Equal(t, TokenTypeAccess, claims.TokenType)
	require.NoError(t, RequireType(claims, TokenTypeAccess))
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	s := NewSigner(testSecret, "triptab")
	issued := time.Now().Add(-time.Hour)

	raw, err := s.Sign("user-1", TokenTypeAccess, time.Minute, issued)
	require.NoError(t, err)

	_, err = s.Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	t.Parallel()

	raw, err := NewSigner(testSecret, "triptab").
		Sign("user-1", TokenTypeRefresh, DefaultRefreshTokenTTL, time.Now())
	require.NoError(t, err)

	_, err = NewSigner("another-secret-another-secret-xx", "triptab").Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	t.Parallel()

	raw, err := NewSigner(testSecret, "someone-else").
		Sign("user-1", TokenTypeAccess, DefaultAccessTokenTTL, time.Now())
	require.NoError(t, err)

	_, err = NewSigner(testSecret, "triptab").Verify(raw)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestRequireTypeBlocksCrossUse(t *testing.T) {
	t.Parallel()

	s := NewSigner(testSecret, "triptab")
	raw, err := s.Sign("user-1", TokenTypeRefresh, DefaultRefreshTokenTTL, time.Now())
	require.NoError(t, err)

	claims, err := s.Verify(raw)
	require.NoError(t, err)
	require.ErrorIs(t, RequireType(claims, TokenTypeAccess), ErrWrongTokenUse)
}
