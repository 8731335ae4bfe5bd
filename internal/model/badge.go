package model

import "time"

// BadgeTier is the metal tier of a badge.
type BadgeTier string

const (
	TierBronze   BadgeTier = "bronze"
	TierSilver   BadgeTier = "silver"
	TierGold     BadgeTier = "gold"
	TierPlatinum BadgeTier = "platinum"
)

// Badge is an achievement the user can earn through activity.
type Badge struct {
	// Slug is the stable machine identifier for this badge.
	Slug string `json:"slug"`

	// Title is the display name.
	Title string `json:"title"`

	// Description explains how the badge is earned.
	Description string `json:"description,omitempty"`

	// Icon names the badge artwork.
	Icon string `json:"icon,omitempty"`

	// Tier is the badge's metal tier.
	Tier BadgeTier `json:"tier"`

	// Category groups related badges (streak, social, exercise...).
	Category string `json:"category,omitempty"`

	// Progress is how far the user has advanced toward MaxProgress.
	Progress int `json:"progress"`

	// MaxProgress is the earning threshold.
	MaxProgress int `json:"max_progress"`

	// Percent is the server-reported completion ratio; may be out of
	// range, use Completion instead.
	Percent float64 `json:"percent"`

	// Earned indicates the badge has been awarded.
	Earned bool `json:"is_earned"`

	// EarnedAt is when the badge was awarded, if it has been.
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// Completion returns the badge progress percentage clamped to [0,100].
func (b Badge) Completion() float64 {
	pct := b.Percent
	if pct == 0 && b.MaxProgress > 0 {
		pct = float64(b.Progress) / float64(b.MaxProgress) * 100
	}
	if b.Earned {
		return 100
	}
	return ClampPercent(pct)
}

// BadgeStats summarizes a badge collection for the dashboard header.
type BadgeStats struct {
	Earned  int     `json:"earned"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}
