package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/triptab/triptab/internal/oauth"
	"github.com/triptab/triptab/internal/service"
	"github.com/stretchr/testify/require"
)

func googleIdentity(sub, email string) oauth.Identity {
	expiry := time.Now().UTC().Add(time.Hour)
	return oauth.Identity{
		Provider:       "google",
		ProviderUserID: sub,
		Email:          email,
		Name:           "Trav Eller",
		AvatarURL:      "https://img/p.png",
		AccessToken:    "at-1",
		TokenExpiresAt: &expiry,
	}
}

func TestCallbackCreatesNewUser(t *testing.T) {
	s := newTestStore(t)
	login := newLoginService(s, &fakeProvider{
		name:     "google",
		identity: googleIdentity("sub-1", "new@example.com"),
	})

	user, err := login.Callback(context.Background(), "google", "code", "")
	require.NoError(t, err)
	require.NotEmpty(t, user.ID)
	require.Equal(t, "new@example.com", user.Email)
	require.Equal(t, "Trav Eller", user.Name)

	_, providers, err := login.Me(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"google"}, providers)
}

func TestCallbackReturningUserReusesLink(t *testing.T) {
	s := newTestStore(t)
	login := newLoginService(s, &fakeProvider{
		name:     "google",
		identity: googleIdentity("sub-1", "ret@example.com"),
	})
	ctx := context.Background()

	first, err := login.Callback(ctx, "google", "code", "")
	require.NoError(t, err)

	second, err := login.Callback(ctx, "google", "code", "")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)

	// Still exactly one link.
	links, err := s.ProviderLinks().ListLinksByUser(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, links, 1)
}

func TestCallbackMatchesExistingAccountByEmail(t *testing.T) {
	s := newTestStore(t)
	existing := createUser(t, s, "same@example.com")

	login := newLoginService(s, &fakeProvider{
		name:     "google",
		identity: googleIdentity("sub-9", "same@example.com"),
	})

	user, err := login.Callback(context.Background(), "google", "code", "")
	require.NoError(t, err)
	require.Equal(t, existing.ID, user.ID)
}

func TestCallbackLinkingAttachesProvider(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	login := newLoginService(s,
		&fakeProvider{name: "google", identity: googleIdentity("sub-1", "linker@example.com")},
		&fakeProvider{name: "instagram", identity: oauth.Identity{
			Provider:       "instagram",
			ProviderUserID: "ig-1",
			Handle:         "wanderer",
			AccessToken:    "ig-at",
		}},
	)

	user, err := login.Callback(ctx, "google", "code", "")
	require.NoError(t, err)

	linked, err := login.Callback(ctx, "instagram", "code", user.ID)
	require.NoError(t, err)
	require.Equal(t, user.ID, linked.ID)

	_, providers, err := login.Me(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"google", "instagram"}, providers)
}

func TestCallbackLinkConflict(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ig := &fakeProvider{name: "instagram", identity: oauth.Identity{
		Provider:       "instagram",
		ProviderUserID: "ig-1",
		Handle:         "wanderer",
	}}
	login := newLoginService(s, ig)

	// First user claims the Instagram account.
	owner, err := login.Callback(ctx, "instagram", "code", "")
	require.NoError(t, err)

	// A different user tries to link the same Instagram account.
	other := createUser(t, s, "other@example.com")
	_, err = login.Callback(ctx, "instagram", "code", other.ID)
	require.ErrorIs(t, err, service.ErrLinkConflict)

	// Ownership unchanged.
	got, err := s.ProviderLinks().GetLink(ctx, "instagram", "ig-1")
	require.NoError(t, err)
	require.Equal(t, owner.ID, got.UserID)
}

func TestCallbackInstagramUsernameBecomesHandle(t *testing.T) {
	s := newTestStore(t)
	login := newLoginService(s, &fakeProvider{name: "instagram", identity: oauth.Identity{
		Provider:       "instagram",
		ProviderUserID: "ig-7",
		Handle:         "wanderer",
	}})

	user, err := login.Callback(context.Background(), "instagram", "code", "")
	require.NoError(t, err)
	require.Equal(t, "wanderer", user.Handle)
	require.Empty(t, user.Name)
	require.Empty(t, user.Email)

	got, err := s.Users().GetUserByID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Equal(t, "wanderer", got.Handle)
}

func TestCallbackNoEmailUsersStayDistinct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	login := newLoginService(s,
		&fakeProvider{name: "instagram", identity: oauth.Identity{
			Provider: "instagram", ProviderUserID: "ig-a", Handle: "a",
		}},
	)
	first, err := login.Callback(ctx, "instagram", "code", "")
	require.NoError(t, err)

	login2 := newLoginService(s,
		&fakeProvider{name: "instagram", identity: oauth.Identity{
			Provider: "instagram", ProviderUserID: "ig-b", Handle: "b",
		}},
	)
	second, err := login2.Callback(ctx, "instagram", "code", "")
	require.NoError(t, err)

	require.NotEqual(t, first.ID, second.ID)
}

func TestCallbackUpstreamFailurePropagates(t *testing.T) {
	s := newTestStore(t)
	login := newLoginService(s, &fakeProvider{name: "google", err: oauth.ErrExchangeFailed})

	_, err := login.Callback(context.Background(), "google", "code", "")
	require.ErrorIs(t, err, oauth.ErrExchangeFailed)
}

func TestAuthorizeURLUnconfiguredProvider(t *testing.T) {
	s := newTestStore(t)
	login := newLoginService(s)

	_, err := login.AuthorizeURL("google", "state")
	require.ErrorIs(t, err, oauth.ErrNotConfigured)
}
