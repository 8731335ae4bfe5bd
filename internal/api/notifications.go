package api

import (
	"context"
	"fmt"

	"github.com/rejimde/terminal/internal/model"
)

// Notifications retrieves the user's notification page.
func (c *Client) Notifications(ctx context.Context) (model.NotificationPage, error) {
	var page model.NotificationPage
	if err := c.Get(ctx, "/rejimde/v1/notifications", nil, &page); err != nil {
		c.degrade("/rejimde/v1/notifications", err)
		return model.NotificationPage{}, fmt.Errorf("fetching notifications: %w", err)
	}
	return page, nil
}

// ExpertNotifications retrieves the pro-only notification page. Callers
// are expected to check the viewer's role first; the backend returns an
// auth error for non-pro accounts.
func (c *Client) ExpertNotifications(ctx context.Context) (model.NotificationPage, error) {
	var page model.NotificationPage
	if err := c.Get(ctx, "/rejimde/v1/expert-notifications", nil, &page); err != nil {
		c.degrade("/rejimde/v1/expert-notifications", err)
		return model.NotificationPage{}, fmt.Errorf("fetching expert notifications: %w", err)
	}
	return page, nil
}

// markReadRequest is the mark-as-read payload. An empty IDs slice marks
// everything read.
type markReadRequest struct {
	IDs []int64 `json:"ids,omitempty"`
	All bool    `json:"all,omitempty"`
}

// MarkNotificationsRead marks the given notifications read. With no ids
// it marks the whole collection.
func (c *Client) MarkNotificationsRead(ctx context.Context, ids ...int64) error {
	req := markReadRequest{IDs: ids, All: len(ids) == 0}
	if err := c.Post(ctx, "/rejimde/v1/notifications/mark-read", req, nil); err != nil {
		return fmt.Errorf("marking notifications read: %w", err)
	}
	return nil
}

// MarkExpertNotificationsRead is the pro-dashboard variant of
// MarkNotificationsRead.
func (c *Client) MarkExpertNotificationsRead(ctx context.Context, ids ...int64) error {
	req := markReadRequest{IDs: ids, All: len(ids) == 0}
	if err := c.Post(ctx, "/rejimde/v1/expert-notifications/mark-read", req, nil); err != nil {
		return fmt.Errorf("marking expert notifications read: %w", err)
	}
	return nil
}
