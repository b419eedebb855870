package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/store"
	"github.com/triptab/triptab/pkg/cryptox"
	"github.com/triptab/triptab/pkg/idx"
	"github.com/triptab/triptab/pkg/jwtx"
	"github.com/triptab/triptab/pkg/slogx"
)

var (
	ErrInvalidRefresh = errors.New("invalid_refresh_token")
	ErrNotFound       = errors.New("not_found")
	ErrForbidden      = errors.New("forbidden")
	ErrValidation     = errors.New("invalid_input")
)

// SessionService issues and rotates the access/refresh token pair. Refresh
// tokens are JWTs too, but additionally anchored server-side by a peppered
// fingerprint so logout and rotation can revoke them.
type SessionService struct {
	Signer     *jwtx.Signer
	Store      store.Store
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Issue mints a fresh session for userID and persists the refresh
// fingerprint.
func (s *SessionService) Issue(ctx context.Context, userID string) (domain.SessionPair, error) {
	now := time.Now().UTC()

	access, err := s.Signer.Sign(userID, jwtx.TokenTypeAccess, s.AccessTTL, now)
	if err != nil {
		return domain.SessionPair{}, err
	}
	refresh, err := s.Signer.Sign(userID, jwtx.TokenTypeRefresh, s.RefreshTTL, now)
	if err != nil {
		return domain.SessionPair{}, err
	}

	record := domain.RefreshToken{
		ID:          idx.MustNew().String(),
		UserID:      userID,
		Fingerprint: cryptox.FingerprintToken(refresh),
		ExpiresAt:   now.Add(s.RefreshTTL),
		CreatedAt:   now,
	}
	if err := s.Store.RefreshTokens().CreateRefreshToken(ctx, record); err != nil {
		return domain.SessionPair{}, err
	}

	return domain.SessionPair{
		AccessToken:      access,
		AccessExpiresAt:  now.Add(s.AccessTTL),
		RefreshToken:     refresh,
		RefreshExpiresAt: now.Add(s.RefreshTTL),
	}, nil
}

// Refresh validates rawRefresh end to end and rotates it: the old
// fingerprint row is deleted and a new pair is issued in one transaction.
// Any failure leaves the caller logged out.
func (s *SessionService) Refresh(ctx context.Context, rawRefresh string) (domain.SessionPair, string, error) {
	claims, err := s.Signer.Verify(rawRefresh)
	if err != nil {
		return domain.SessionPair{}, "", ErrInvalidRefresh
	}
	if err := jwtx.RequireType(claims, jwtx.TokenTypeRefresh); err != nil {
		return domain.SessionPair{}, "", ErrInvalidRefresh
	}

	userID := claims.UserID()
	fingerprint := cryptox.FingerprintToken(rawRefresh)
	now := time.Now().UTC()

	var pair domain.SessionPair
	reused := false
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		record, err := tx.RefreshTokens().GetRefreshTokenByFingerprint(ctx, fingerprint)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				reused = true
				return ErrInvalidRefresh
			}
			return err
		}
		if record.UserID != userID || now.After(record.ExpiresAt) {
			return ErrInvalidRefresh
		}

		// Rotation: the presented token is single-use.
		if err := tx.RefreshTokens().DeleteRefreshToken(ctx, fingerprint); err != nil {
			return err
		}

		access, err := s.Signer.Sign(userID, jwtx.TokenTypeAccess, s.AccessTTL, now)
		if err != nil {
			return err
		}
		refresh, err := s.Signer.Sign(userID, jwtx.TokenTypeRefresh, s.RefreshTTL, now)
		if err != nil {
			return err
		}

		if err := tx.RefreshTokens().CreateRefreshToken(ctx, domain.RefreshToken{
			ID:          idx.MustNew().String(),
			UserID:      userID,
			Fingerprint: cryptox.FingerprintToken(refresh),
			ExpiresAt:   now.Add(s.RefreshTTL),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		pair = domain.SessionPair{
			AccessToken:      access,
			AccessExpiresAt:  now.Add(s.AccessTTL),
			RefreshToken:     refresh,
			RefreshExpiresAt: now.Add(s.RefreshTTL),
		}
		return nil
	})
	if reused {
		// A validly signed refresh token we hold no record of was already
		// rotated out or revoked. Someone is replaying a stolen token, so
		// every session for the user ends now.
		slogx.FromContext(ctx).Warn("refresh token reuse detected",
			slog.String("user_id", userID))
		if derr := s.Store.RefreshTokens().DeleteAllUserRefreshTokens(ctx, userID); derr != nil {
			slogx.FromContext(ctx).Warn("failed to revoke user sessions", slog.Any("err", derr))
		}
	}
	if err != nil {
		return domain.SessionPair{}, "", err
	}

	return pair, userID, nil
}

// Logout revokes the presented refresh token server-side. A malformed or
// already-revoked token is not an error; the caller ends up logged out
// either way.
func (s *SessionService) Logout(ctx context.Context, rawRefresh string) error {
	if rawRefresh == "" {
		return nil
	}

	fingerprint := cryptox.FingerprintToken(rawRefresh)
	if err := s.Store.RefreshTokens().DeleteRefreshToken(ctx, fingerprint); err != nil {
		slogx.FromContext(ctx).Warn("failed to revoke refresh token", slog.Any("err", err))
		return err
	}
	return nil
}
