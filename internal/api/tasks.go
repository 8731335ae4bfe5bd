package api

import (
	"context"
	"fmt"

	"github.com/rejimde/terminal/internal/model"
)

// Tasks retrieves the user's full task collection, pre-split by
// cadence. One request serves all four board sections.
func (c *Client) Tasks(ctx context.Context) (model.TaskCollection, error) {
	var collection model.TaskCollection
	if err := c.Get(ctx, "/rejimde/v1/tasks", nil, &collection); err != nil {
		c.degrade("/rejimde/v1/tasks", err)
		return model.TaskCollection{}, fmt.Errorf("fetching tasks: %w", err)
	}
	return collection, nil
}

// Badges retrieves the user's badge collection.
func (c *Client) Badges(ctx context.Context) ([]model.Badge, error) {
	var badges []model.Badge
	if err := c.Get(ctx, "/rejimde/v1/badges", nil, &badges); err != nil {
		c.degrade("/rejimde/v1/badges", err)
		return nil, fmt.Errorf("fetching badges: %w", err)
	}
	return badges, nil
}
