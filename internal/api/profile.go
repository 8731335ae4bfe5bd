package api

import (
	"context"
	"fmt"

	"github.com/rejimde/terminal/internal/model"
)

// Me retrieves the server-confirmed profile for the current token.
// Unlike the list accessors this surfaces real errors: the guard's
// reconciliation logic distinguishes "backend contradicted the cached
// role" from "backend unreachable".
func (c *Client) Me(ctx context.Context) (*model.Profile, error) {
	var profile model.Profile
	if err := c.Get(ctx, "/rejimde/v1/me", nil, &profile); err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	return &profile, nil
}

// ProfileViews retrieves who visited the expert's public profile.
func (c *Client) ProfileViews(ctx context.Context) ([]model.ProfileView, error) {
	var views []model.ProfileView
	if err := c.Get(ctx, "/rejimde/v1/profile-views/recent", nil, &views); err != nil {
		c.degrade("/rejimde/v1/profile-views/recent", err)
		return nil, fmt.Errorf("fetching profile views: %w", err)
	}
	return views, nil
}

// LeagueStandings retrieves the viewer's current weekly league table.
func (c *Client) LeagueStandings(ctx context.Context) ([]model.LeagueStanding, error) {
	var standings []model.LeagueStanding
	if err := c.Get(ctx, "/rejimde/v1/leagues/current", nil, &standings); err != nil {
		c.degrade("/rejimde/v1/leagues/current", err)
		return nil, fmt.Errorf("fetching league standings: %w", err)
	}
	return standings, nil
}

// Clans retrieves the clan directory.
func (c *Client) Clans(ctx context.Context) ([]model.ClanSummary, error) {
	var clans []model.ClanSummary
	if err := c.Get(ctx, "/rejimde/v1/clans", nil, &clans); err != nil {
		c.degrade("/rejimde/v1/clans", err)
		return nil, fmt.Errorf("fetching clans: %w", err)
	}
	return clans, nil
}
