package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/internal/session"
	"github.com/rejimde/terminal/tests/testutil"
)

type fakeSessions struct {
	snap session.Snapshot
}

func (f *fakeSessions) Current() session.Snapshot { return f.snap }

// fakeNotificationAPI serves a mutable page and applies mark-read
// mutations the way the backend would.
type fakeNotificationAPI struct {
	mu          sync.Mutex
	page        model.NotificationPage
	err         error
	calls       int
	expertCalls int
	markedAll   bool
	markedIDs   []int64
}

func (f *fakeNotificationAPI) Notifications(ctx context.Context) (model.NotificationPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return model.NotificationPage{}, f.err
	}
	return f.copyPage(), nil
}

func (f *fakeNotificationAPI) ExpertNotifications(ctx context.Context) (model.NotificationPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expertCalls++
	if f.err != nil {
		return model.NotificationPage{}, f.err
	}
	return f.copyPage(), nil
}

func (f *fakeNotificationAPI) MarkNotificationsRead(ctx context.Context, ids ...int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applyMarkRead(ids)
	return nil
}

func (f *fakeNotificationAPI) MarkExpertNotificationsRead(ctx context.Context, ids ...int64) error {
	return f.MarkNotificationsRead(ctx, ids...)
}

func (f *fakeNotificationAPI) applyMarkRead(ids []int64) {
	if len(ids) == 0 {
		f.markedAll = true
		for i := range f.page.Notifications {
			f.page.Notifications[i].Read = true
		}
		return
	}
	f.markedIDs = append(f.markedIDs, ids...)
	for _, id := range ids {
		for i := range f.page.Notifications {
			if f.page.Notifications[i].ID == id {
				f.page.Notifications[i].Read = true
			}
		}
	}
}

func (f *fakeNotificationAPI) copyPage() model.NotificationPage {
	page := f.page
	page.Notifications = make([]model.Notification, len(f.page.Notifications))
	copy(page.Notifications, f.page.Notifications)
	return page
}

func (f *fakeNotificationAPI) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func threeNotifications() model.NotificationPage {
	return model.NotificationPage{
		Notifications: []model.Notification{
			{ID: 1, Category: model.CategorySocial, Title: "Ayşe cheered you on"},
			{ID: 2, Category: model.CategoryLevel, Title: "Level 5 reached"},
			{ID: 3, Category: model.CategorySystem, Title: "Welcome", Read: true},
		},
		// The server-side counter is deliberately wrong; the feed
		// recomputes it from the collection.
		UnreadCount: 0,
	}
}

func loggedInUser() *fakeSessions {
	return &fakeSessions{snap: session.Snapshot{
		Token:  "token",
		Role:   model.RoleUser,
		UserID: 7,
	}}
}

func TestNotificationFeedFirstFetch(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeNotificationAPI{page: threeNotifications()}
	f := NewNotificationFeed(backend, loggedInUser(), nil, time.Hour, nil)
	defer f.Stop()

	msg, ok := f.Start()().(NotificationsMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)

	assert.Len(t, msg.Page.Notifications, 3)
	assert.Equal(t, 2, msg.Page.UnreadCount)
	assert.Equal(t, 2, f.UnreadCount())

	page, loaded := f.Snapshot()
	assert.True(t, loaded)
	assert.Len(t, page.Notifications, 3)
}

func TestNotificationFeedMarkAllReadRefetches(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeNotificationAPI{page: threeNotifications()}
	f := NewNotificationFeed(backend, loggedInUser(), nil, time.Hour, nil)
	defer f.Stop()

	first, ok := f.Start()().(NotificationsMsg)
	require.True(t, ok)
	require.Equal(t, 2, first.Page.UnreadCount)

	require.NoError(t, f.MarkRead(context.Background()))

	backend.mu.Lock()
	markedAll := backend.markedAll
	backend.mu.Unlock()
	assert.True(t, markedAll)

	// MarkRead refetches instead of patching local state, so the next
	// snapshot is the server-confirmed one.
	second, ok := f.WaitForNext()().(NotificationsMsg)
	require.True(t, ok)
	require.NoError(t, second.Err)
	assert.Equal(t, 0, second.Page.UnreadCount)
	assert.Equal(t, 0, f.UnreadCount())
}

func TestNotificationFeedMarkSingleRead(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeNotificationAPI{page: threeNotifications()}
	f := NewNotificationFeed(backend, loggedInUser(), nil, time.Hour, nil)
	defer f.Stop()

	_, ok := f.Start()().(NotificationsMsg)
	require.True(t, ok)

	require.NoError(t, f.MarkRead(context.Background(), 1))
	msg, ok := f.WaitForNext()().(NotificationsMsg)
	require.True(t, ok)
	assert.Equal(t, 1, msg.Page.UnreadCount)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, []int64{1}, backend.markedIDs)
	assert.False(t, backend.markedAll)
}

func TestNotificationFeedKeepsStaleStateOnFailure(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeNotificationAPI{page: threeNotifications()}
	f := NewNotificationFeed(backend, loggedInUser(), nil, time.Hour, nil)
	defer f.Stop()

	_, ok := f.Start()().(NotificationsMsg)
	require.True(t, ok)

	backend.setErr(errors.New("backend down"))
	f.Refresh()

	msg, ok := f.WaitForNext()().(NotificationsMsg)
	require.True(t, ok)
	assert.Error(t, msg.Err)

	// The last good snapshot survives a failed refresh.
	page, loaded := f.Snapshot()
	assert.True(t, loaded)
	assert.Len(t, page.Notifications, 3)
	assert.Equal(t, 2, f.UnreadCount())
}

func TestNotificationFeedDegradesToCache(t *testing.T) {
	cache := testutil.NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, cache.SaveNotifications(ctx, 7, threeNotifications()))

	backend := &fakeNotificationAPI{}
	backend.setErr(errors.New("backend down"))
	f := NewNotificationFeed(backend, loggedInUser(), cache, time.Hour, nil)
	defer f.Stop()

	msg, ok := f.Start()().(NotificationsMsg)
	require.True(t, ok)
	require.NoError(t, msg.Err)
	assert.True(t, msg.Stale)
	assert.Len(t, msg.Page.Notifications, 3)

	_, loaded := f.Snapshot()
	assert.True(t, loaded)
}

func TestExpertFeedIgnoresGeneralCache(t *testing.T) {
	cache := testutil.NewTestStore(t)
	ctx := context.Background()
	general := model.NotificationPage{Notifications: []model.Notification{
		{ID: 1, Category: model.CategorySocial, Title: "Ayşe cheered you on"},
	}}
	require.NoError(t, cache.SaveNotifications(ctx, 7, general))

	backend := &fakeNotificationAPI{}
	backend.setErr(errors.New("backend down"))
	sessions := &fakeSessions{snap: session.Snapshot{
		Token:  "token",
		Role:   model.RolePro,
		UserID: 7,
	}}
	f := NewExpertNotificationFeed(backend, sessions, cache, time.Hour, nil)
	defer f.Stop()

	// The cache holds general notifications; a failed expert fetch must
	// surface the error rather than serve them as expert ones.
	msg, ok := f.Start()().(NotificationsMsg)
	require.True(t, ok)
	assert.Error(t, msg.Err)
	assert.True(t, msg.Expert)
	assert.False(t, msg.Stale)
	assert.Empty(t, msg.Page.Notifications)

	_, loaded := f.Snapshot()
	assert.False(t, loaded)
}

func TestExpertFeedSkipsNonProViewer(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeNotificationAPI{page: threeNotifications()}
	f := NewExpertNotificationFeed(backend, loggedInUser(), nil, time.Hour, nil)
	defer f.Stop()

	f.Start()
	f.Refresh()
	time.Sleep(50 * time.Millisecond)

	backend.mu.Lock()
	expertCalls := backend.expertCalls
	backend.mu.Unlock()
	assert.Zero(t, expertCalls, "a non-pro viewer must not hit the expert endpoint")

	_, loaded := f.Snapshot()
	assert.False(t, loaded)
}

func TestExpertFeedFetchesForPro(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeNotificationAPI{page: threeNotifications()}
	sessions := &fakeSessions{snap: session.Snapshot{
		Token:  "token",
		Role:   model.RolePro,
		UserID: 7,
	}}
	f := NewExpertNotificationFeed(backend, sessions, nil, time.Hour, nil)
	defer f.Stop()

	msg, ok := f.Start()().(NotificationsMsg)
	require.True(t, ok)
	assert.True(t, msg.Expert)
	assert.Len(t, msg.Page.Notifications, 3)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, 1, backend.expertCalls)
	assert.Zero(t, backend.calls)
}

func TestNotificationFeedStartIsIdempotent(t *testing.T) {
	defer goleak.VerifyNone(t)

	backend := &fakeNotificationAPI{page: threeNotifications()}
	f := NewNotificationFeed(backend, loggedInUser(), nil, time.Hour, nil)
	defer f.Stop()

	_, ok := f.Start()().(NotificationsMsg)
	require.True(t, ok)

	// A second Start must not spawn a second loop or refetch.
	f.Start()
	time.Sleep(50 * time.Millisecond)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, 1, backend.calls)
}
