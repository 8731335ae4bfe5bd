package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/store"
	"github.com/rejimde/terminal/tests/testutil"
)

func TestNotificationSnapshotRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	page := model.NotificationPage{
		Notifications: []model.Notification{
			{ID: 1, Category: model.CategoryPoints, Title: "50 points earned"},
			{ID: 2, Category: model.CategorySystem, Title: "Welcome", Read: true},
		},
		UnreadCount: 1,
	}
	require.NoError(t, s.SaveNotifications(ctx, 7, page))

	loaded, err := s.LoadNotifications(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded.UnreadCount)
	require.Len(t, loaded.Notifications, 2)
	assert.Equal(t, "50 points earned", loaded.Notifications[0].Title)
}

func TestLoadMissingSnapshot(t *testing.T) {
	s := testutil.NewTestStore(t)

	_, err := s.LoadNotifications(context.Background(), 7)
	assert.ErrorIs(t, err, store.ErrNoSnapshot)
}

func TestSnapshotsAreScopedPerUser(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveBadges(ctx, 7, []model.Badge{{Slug: "week-streak"}}))

	_, err := s.LoadBadges(ctx, 8)
	assert.ErrorIs(t, err, store.ErrNoSnapshot)

	badges, err := s.LoadBadges(ctx, 7)
	require.NoError(t, err)
	require.Len(t, badges, 1)
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveTasks(ctx, 7, model.TaskCollection{
		Daily: []model.Task{{ID: 1, Title: "Old"}},
	}))
	require.NoError(t, s.SaveTasks(ctx, 7, model.TaskCollection{
		Daily: []model.Task{{ID: 2, Title: "New"}},
	}))

	loaded, err := s.LoadTasks(ctx, 7)
	require.NoError(t, err)
	require.Len(t, loaded.Daily, 1)
	assert.Equal(t, "New", loaded.Daily[0].Title)
}

func TestActivitySnapshotRoundTrip(t *testing.T) {
	s := testutil.NewTestStore(t)
	ctx := context.Background()

	items := []model.ActivityItem{
		{ID: 1, EventType: model.EventLevelUp, Points: 100, CreatedAt: time.Now().UTC().Truncate(time.Second)},
	}
	require.NoError(t, s.SaveActivity(ctx, 7, items))

	loaded, err := s.LoadActivity(ctx, 7)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, model.EventLevelUp, loaded[0].EventType)
	assert.Equal(t, 100, loaded[0].Points)
}
