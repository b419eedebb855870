package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newSessionService(t *testing.T) (*service.SessionService, string) {
	t.Helper()

	s := newTestStore(t)
	u := createUser(t, s, "session@example.com")
	return &service.SessionService{
		Signer:     newTestSigner(),
		Store:      s,
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 30 * 24 * time.Hour,
	}, u.ID
}

func TestSessionIssueAndRefresh(t *testing.T) {
	sessions, userID := newSessionService(t)
	ctx := context.Background()

	pair, err := sessions.Issue(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	rotated, gotUser, err := sessions.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	require.Equal(t, userID, gotUser)
	require.NotEqual(t, pair.RefreshToken, rotated.RefreshToken)

	// The replacement is live.
	_, _, err = sessions.Refresh(ctx, rotated.RefreshToken)
	require.NoError(t, err)
}

func TestSessionRefreshReuseRevokesAllSessions(t *testing.T) {
	sessions, userID := newSessionService(t)
	ctx := context.Background()

	first, err := sessions.Issue(ctx, userID)
	require.NoError(t, err)
	second, err := sessions.Issue(ctx, userID)
	require.NoError(t, err)

	rotated, _, err := sessions.Refresh(ctx, first.RefreshToken)
	require.NoError(t, err)

	// Replaying the rotated-out token is treated as theft.
	_, _, err = sessions.Refresh(ctx, first.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)

	// Every session for the user is dead, not just the replayed one.
	_, _, err = sessions.Refresh(ctx, rotated.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
	_, _, err = sessions.Refresh(ctx, second.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestSessionRefreshRejectsGarbage(t *testing.T) {
	sessions, _ := newSessionService(t)

	_, _, err := sessions.Refresh(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestSessionRefreshRejectsAccessToken(t *testing.T) {
	sessions, userID := newSessionService(t)
	ctx := context.Background()

	pair, err := sessions.Issue(ctx, userID)
	require.NoError(t, err)

	_, _, err = sessions.Refresh(ctx, pair.AccessToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestSessionRefreshRejectsUnknownFingerprint(t *testing.T) {
	sessions, userID := newSessionService(t)
	ctx := context.Background()

	// A validly signed refresh token that was never persisted, e.g. one
	// issued before a database wipe. Must fail closed.
	orphan, err := sessions.Signer.Sign(userID, jwtx.TokenTypeRefresh, time.Hour, time.Now())
	require.NoError(t, err)

	_, _, err = sessions.Refresh(ctx, orphan)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestSessionLogoutRevokesServerSide(t *testing.T) {
	sessions, userID := newSessionService(t)
	ctx := context.Background()

	pair, err := sessions.Issue(ctx, userID)
	require.NoError(t, err)

	require.NoError(t, sessions.Logout(ctx, pair.RefreshToken))

	// A logged-out refresh token must be dead even though its signature
	// and expiry are still valid.
	_, _, err = sessions.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, service.ErrInvalidRefresh)
}

func TestSessionLogoutTolerantOfJunk(t *testing.T) {
	sessions, _ := newSessionService(t)

	require.NoError(t, sessions.Logout(context.Background(), ""))
	require.NoError(t, sessions.Logout(context.Background(), "garbage"))
}
