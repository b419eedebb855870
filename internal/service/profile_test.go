package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/service"
	"github.com/triptab/triptab/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestProfileCompleteness(t *testing.T) {
	s := newTestStore(t)
	profiles := &service.ProfileService{Store: s}
	ctx := context.Background()

	// Name + email present, no avatar and no saved profile: 2 of 6.
	u := createUser(t, s, "complete@example.com")

	view, err := profiles.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 33, view.Completeness)

	view, err = profiles.Update(ctx, u.ID,
		"Slow travel, night trains, and far too many bakeries.",
		map[string]any{"pace": "slow"},
		[]string{"foodie", "hiker", "museums"})
	require.NoError(t, err)

	// Bio, preferences and traits add three more signals: 5 of 6.
	require.Equal(t, 83, view.Completeness)
	require.Equal(t, "slow", view.Profile.Preferences["pace"])
}

func TestProfileCompletenessRounds(t *testing.T) {
	s := newTestStore(t)
	profiles := &service.ProfileService{Store: s}

	// Name, email, bio and preferences: 4 of 6 rounds to 67, not 66.
	u := createUser(t, s, "four@example.com")
	view, err := profiles.Update(context.Background(), u.ID,
		"Slow travel, night trains, and far too many bakeries.",
		map[string]any{"pace": "slow"}, nil)
	require.NoError(t, err)
	require.Equal(t, 67, view.Completeness)
}

func TestProfileHandleCountsAsIdentitySignal(t *testing.T) {
	s := newTestStore(t)
	profiles := &service.ProfileService{Store: s}
	ctx := context.Background()

	// An Instagram-only account: handle but no email.
	now := time.Now().UTC()
	u := domain.User{
		ID:        idx.MustNew().String(),
		Handle:    "wanderer",
		Name:      "Test Traveller",
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Users().CreateUser(ctx, u))

	view, err := profiles.Get(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 33, view.Completeness)
}

func TestProfileShortBioDoesNotCount(t *testing.T) {
	s := newTestStore(t)
	profiles := &service.ProfileService{Store: s}

	u := createUser(t, s, "short@example.com")
	view, err := profiles.Update(context.Background(), u.ID, "hi", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 33, view.Completeness)
}

func TestProfileUnknownUser(t *testing.T) {
	s := newTestStore(t)
	profiles := &service.ProfileService{Store: s}

	_, err := profiles.Get(context.Background(), "missing")
	require.ErrorIs(t, err, service.ErrNotFound)

	_, err = profiles.Update(context.Background(), "missing", "bio", nil, nil)
	require.ErrorIs(t, err, service.ErrNotFound)
}
