package api

import (
	"context"
	"fmt"

	"github.com/rejimde/terminal/internal/mascot"
)

// MascotConfig fetches the remote mascot content override. Callers
// treat any error as "keep the compiled-in defaults".
func (c *Client) MascotConfig(ctx context.Context) (mascot.Config, error) {
	var cfg mascot.Config
	if err := c.Get(ctx, "/rejimde/v1/mascot/config", nil, &cfg); err != nil {
		c.degrade("/rejimde/v1/mascot/config", err)
		return mascot.Config{}, fmt.Errorf("fetching mascot config: %w", err)
	}
	return cfg, nil
}
