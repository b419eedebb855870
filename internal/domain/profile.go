package domain

import (
	"math"
	"time"
)

type Profile struct {
	UserID      string
	Bio         string
	Preferences map[string]any
	Traits      []string
	UpdatedAt   time.Time
}

// CompletenessSignals is the number of profile signals that feed the
// completeness percentage.
const CompletenessSignals = 6

// Completeness scores the profile together with its owning user record.
// Each satisfied signal is worth an equal share of 100.
func (p *Profile) Completeness(u *User) int {
	score := 0
	if u.Name != "" {
		score++
	}
	if u.Email != "" || u.Handle != "" {
		score++
	}
	if u.AvatarURL != "" {
		score++
	}
	if len(p.Bio) > 20 {
		score++
	}
	if len(p.Preferences) > 0 {
		score++
	}
	if len(p.Traits) >= 3 {
		score++
	}
	return int(math.Round(float64(score) * 100 / CompletenessSignals))
}
