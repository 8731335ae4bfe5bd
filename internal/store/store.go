// Package store caches the last good snapshot of each remote
// collection so a failed refresh degrades to stale data instead of an
// empty screen.
package store

import (
	"context"

	"github.com/rejimde/terminal/internal/model"
)

// Store defines the persistence interface for collection snapshots.
type Store interface {
	SaveNotifications(ctx context.Context, userID int64, page model.NotificationPage) error
	LoadNotifications(ctx context.Context, userID int64) (model.NotificationPage, error)

	SaveTasks(ctx context.Context, userID int64, collection model.TaskCollection) error
	LoadTasks(ctx context.Context, userID int64) (model.TaskCollection, error)

	SaveBadges(ctx context.Context, userID int64, badges []model.Badge) error
	LoadBadges(ctx context.Context, userID int64) ([]model.Badge, error)

	SaveActivity(ctx context.Context, userID int64, items []model.ActivityItem) error
	LoadActivity(ctx context.Context, userID int64) ([]model.ActivityItem, error)

	Close() error
}
