package service

import (
	"context"
	"errors"
	"time"

	"github.com/triptab/triptab/internal/domain"
	"github.com/triptab/triptab/internal/store"
)

// ProfileService reads and writes the traveller profile and scores its
// completeness.
type ProfileService struct {
	Store store.Store
}

// ProfileView is the profile joined with its owner and the derived
// completeness percentage.
type ProfileView struct {
	User         domain.User
	Profile      domain.Profile
	Completeness int
}

func (s *ProfileService) Get(ctx context.Context, userID string) (ProfileView, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ProfileView{}, ErrNotFound
		}
		return ProfileView{}, err
	}

	profile, err := s.Store.Profiles().GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return ProfileView{}, err
	}
	profile.UserID = userID

	return ProfileView{
		User:         user,
		Profile:      profile,
		Completeness: profile.Completeness(&user),
	}, nil
}

// Update upserts the profile fields and returns the refreshed view.
func (s *ProfileService) Update(ctx context.Context, userID, bio string, preferences map[string]any, traits []string) (ProfileView, error) {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ProfileView{}, ErrNotFound
		}
		return ProfileView{}, err
	}

	p := domain.Profile{
		UserID:      userID,
		Bio:         bio,
		Preferences: preferences,
		Traits:      traits,
		UpdatedAt:   time.Now().UTC(),
	}
	if err := s.Store.Profiles().UpsertProfile(ctx, p); err != nil {
		return ProfileView{}, err
	}
	return s.Get(ctx, userID)
}
