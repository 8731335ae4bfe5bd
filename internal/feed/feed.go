// Package feed owns the client-side data synchronization layer: the
// polled notification feed, the fetch-once task and badge boards, and
// the paginated activity ledger. Each feed writes whole snapshots,
// never deltas, so the newest completed fetch always wins.
package feed

import (
	"context"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/session"
)

// SessionSource is the slice of the session store the feeds need.
type SessionSource interface {
	Current() session.Snapshot
}

// NotificationAPI is the slice of the API client the notification feed
// uses.
type NotificationAPI interface {
	Notifications(ctx context.Context) (model.NotificationPage, error)
	ExpertNotifications(ctx context.Context) (model.NotificationPage, error)
	MarkNotificationsRead(ctx context.Context, ids ...int64) error
	MarkExpertNotificationsRead(ctx context.Context, ids ...int64) error
}

// TaskAPI is the slice of the API client the task board uses.
type TaskAPI interface {
	Tasks(ctx context.Context) (model.TaskCollection, error)
}

// BadgeAPI is the slice of the API client the badge board uses.
type BadgeAPI interface {
	Badges(ctx context.Context) ([]model.Badge, error)
}

// ActivityAPI is the slice of the API client the activity feed uses.
type ActivityAPI interface {
	Activity(ctx context.Context, q api.ActivityQuery) ([]model.ActivityItem, error)
}

// Cache persists the last good snapshot of each collection so a failed
// refresh degrades to stale data instead of an empty screen.
type Cache interface {
	SaveNotifications(ctx context.Context, userID int64, page model.NotificationPage) error
	LoadNotifications(ctx context.Context, userID int64) (model.NotificationPage, error)
	SaveTasks(ctx context.Context, userID int64, collection model.TaskCollection) error
	LoadTasks(ctx context.Context, userID int64) (model.TaskCollection, error)
	SaveBadges(ctx context.Context, userID int64, badges []model.Badge) error
	LoadBadges(ctx context.Context, userID int64) ([]model.Badge, error)
	SaveActivity(ctx context.Context, userID int64, items []model.ActivityItem) error
	LoadActivity(ctx context.Context, userID int64) ([]model.ActivityItem, error)
}
