package model

import "time"

// Role identifies the account kind as reported by the backend.
type Role string

const (
	RoleUser          Role = "subscriber"
	RolePro           Role = "rejimde_pro"
	RoleAdministrator Role = "administrator"
	RoleEditor        Role = "editor"
)

// IsStaff reports whether the role carries administrative access.
func (r Role) IsStaff() bool {
	return r == RoleAdministrator || r == RoleEditor
}

// Profile is the authoritative "who am I" response used to reconcile
// the locally cached session role.
type Profile struct {
	// ID is the backend user id.
	ID int64 `json:"id"`

	// Username is the login name.
	Username string `json:"username"`

	// DisplayName is the name shown across the app.
	DisplayName string `json:"display_name"`

	// Role is the server-confirmed account role.
	Role Role `json:"role"`

	// Points is the user's current score total.
	Points int `json:"points"`

	// Level is the user's current level number.
	Level int `json:"level"`

	// Streak is the consecutive-day engagement counter.
	Streak int `json:"streak"`

	// StreakGrace is how many missed days remain forgivable.
	StreakGrace int `json:"streak_grace"`

	// League is the user's current competitive tier name.
	League string `json:"league"`

	// RejiScore is the composite trust score (experts only).
	RejiScore float64 `json:"reji_score,omitempty"`
}

// LeagueStanding is one row of the weekly league table.
type LeagueStanding struct {
	Rank        int    `json:"rank"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Points      int    `json:"points"`
	IsViewer    bool   `json:"is_viewer"`
}

// ClanSummary is the compact clan representation used in lists.
type ClanSummary struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	MemberCount int    `json:"member_count"`
	TotalPoints int    `json:"total_points"`
	Rank        int    `json:"rank"`
}

// ProfileView records one visit to an expert's public profile.
type ProfileView struct {
	ID          int64     `json:"id"`
	ViewerName  string    `json:"viewer_name"`
	ViewedAt    time.Time `json:"viewed_at"`
	IsAnonymous bool      `json:"is_anonymous"`
}
