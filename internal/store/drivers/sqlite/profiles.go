package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/triptab/triptab/internal/domain"
)

type profilesRepo struct {
	db dbtx
}

func (r *profilesRepo) GetProfile(ctx context.Context, userID string) (domain.Profile, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, bio, preferences, traits, updated_at
		FROM profiles WHERE user_id = ?`, userID)

	var (
		p           domain.Profile
		preferences string
		traits      string
	)
	err := row.Scan(&p.UserID, &p.Bio, &preferences, &traits, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}

	if err := json.Unmarshal([]byte(preferences), &p.Preferences); err != nil {
		return domain.Profile{}, fmt.Errorf("decode preferences: %w", err)
	}
	if err := json.Unmarshal([]byte(traits), &p.Traits); err != nil {
		return domain.Profile{}, fmt.Errorf("decode traits: %w", err)
	}
	return p, nil
}

func (r *profilesRepo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	preferences, err := json.Marshal(p.Preferences)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if p.Preferences == nil {
		preferences = []byte("{}")
	}
	traits, err := json.Marshal(p.Traits)
	if err != nil {
		return fmt.Errorf("encode traits: %w", err)
	}
	if p.Traits == nil {
		traits = []byte("[]")
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, bio, preferences, traits, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			bio = excluded.bio,
			preferences = excluded.preferences,
			traits = excluded.traits,
			updated_at = excluded.updated_at`,
		p.UserID, p.Bio, string(preferences), string(traits), p.UpdatedAt)
	return err
}
