package feed

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rejimde/terminal/internal/model"
)

// NotificationsMsg is a tea.Msg carrying a fresh notification snapshot.
type NotificationsMsg struct {
	Page   model.NotificationPage
	Expert bool
	Stale  bool
	Err    error
}

// NotificationFeed owns the notification collection and its unread
// count, refreshing both on a fixed interval. Fetches run on a single
// loop goroutine, so they are serialized and the stored snapshot always
// comes from the latest completed fetch. Stop cancels the loop context,
// so no write can land after teardown.
type NotificationFeed struct {
	api      NotificationAPI
	sessions SessionSource
	cache    Cache
	logger   *zap.Logger
	interval time.Duration

	// expert gates the feed on the rejimde_pro role. A non-pro viewer
	// gets a silent no-op, not an error.
	expert bool

	mu      sync.Mutex
	page    model.NotificationPage
	loaded  bool
	running bool

	resultCh  chan NotificationsMsg
	triggerCh chan struct{}
	cancel    context.CancelFunc
}

// NewNotificationFeed creates a notification feed. cache may be nil.
func NewNotificationFeed(api NotificationAPI, sessions SessionSource, cache Cache, interval time.Duration, logger *zap.Logger) *NotificationFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &NotificationFeed{
		api:       api,
		sessions:  sessions,
		cache:     cache,
		logger:    logger,
		interval:  interval,
		resultCh:  make(chan NotificationsMsg, 16),
		triggerCh: make(chan struct{}, 16),
	}
}

// NewExpertNotificationFeed creates the role-gated pro variant.
func NewExpertNotificationFeed(api NotificationAPI, sessions SessionSource, cache Cache, interval time.Duration, logger *zap.Logger) *NotificationFeed {
	f := NewNotificationFeed(api, sessions, cache, interval, logger)
	f.expert = true
	return f
}

// Start launches the polling loop and returns a command that waits for
// the first result. Idempotent while running.
func (f *NotificationFeed) Start() tea.Cmd {
	f.mu.Lock()
	if f.running {
		f.mu.Unlock()
		return f.waitForResult()
	}
	f.running = true
	ctx, cancel := context.WithCancel(context.Background())
	f.cancel = cancel
	f.mu.Unlock()

	go f.loop(ctx)
	return f.waitForResult()
}

// Stop cancels the polling loop and any in-flight fetch.
func (f *NotificationFeed) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.running {
		return
	}
	f.cancel()
	f.running = false
}

// Refresh triggers an immediate refetch without waiting for the ticker.
func (f *NotificationFeed) Refresh() {
	select {
	case f.triggerCh <- struct{}{}:
	default:
	}
}

// Snapshot returns the current page and whether a fetch has completed.
func (f *NotificationFeed) Snapshot() (model.NotificationPage, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page, f.loaded
}

// UnreadCount returns the unread aggregate of the loaded page.
func (f *NotificationFeed) UnreadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.page.CountUnread()
}

// MarkRead marks the given notifications read (all of them when ids is
// empty) and refetches the collection rather than patching local
// state, so the next snapshot is server-confirmed.
func (f *NotificationFeed) MarkRead(ctx context.Context, ids ...int64) error {
	var err error
	if f.expert {
		err = f.api.MarkExpertNotificationsRead(ctx, ids...)
	} else {
		err = f.api.MarkNotificationsRead(ctx, ids...)
	}
	if err != nil {
		return err
	}
	f.Refresh()
	return nil
}

// MarkReadCmd wraps MarkRead as a command for the UI.
func (f *NotificationFeed) MarkReadCmd(ids ...int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := f.MarkRead(ctx, ids...); err != nil {
			return NotificationsMsg{Expert: f.expert, Err: err}
		}
		return nil
	}
}

// WaitForNext returns a command that waits for the next snapshot. Call
// it after handling a NotificationsMsg to keep the subscription alive.
func (f *NotificationFeed) WaitForNext() tea.Cmd {
	return f.waitForResult()
}

// loop is the polling loop: one immediate fetch, then a fixed-interval
// ticker plus manual triggers, until the context is cancelled.
func (f *NotificationFeed) loop(ctx context.Context) {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()

	f.fetch(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			f.fetch(ctx)
		case <-f.triggerCh:
			f.fetch(ctx)
		}
	}
}

// fetch performs one snapshot fetch and publishes the result. On
// failure the previous snapshot is kept; if the general feed has
// nothing loaded yet the cached snapshot from the last session is
// served instead. The cache holds only general notifications, so the
// expert feed never falls back to it.
func (f *NotificationFeed) fetch(ctx context.Context) {
	snap := f.sessions.Current()
	if !snap.LoggedIn() {
		return
	}
	if f.expert && snap.Role != model.RolePro {
		// Wrong role is an expected state for this feed, not an error.
		return
	}

	var page model.NotificationPage
	var err error
	if f.expert {
		page, err = f.api.ExpertNotifications(ctx)
	} else {
		page, err = f.api.Notifications(ctx)
	}

	if err != nil {
		if ctx.Err() != nil {
			return
		}
		f.logger.Warn("notification refresh failed, keeping stale state",
			zap.Bool("expert", f.expert),
			zap.Error(err))

		f.mu.Lock()
		loaded := f.loaded
		f.mu.Unlock()

		if !loaded && !f.expert && f.cache != nil {
			if cached, cacheErr := f.cache.LoadNotifications(ctx, snap.UserID); cacheErr == nil {
				f.store(cached)
				f.publish(NotificationsMsg{Page: cached, Expert: f.expert, Stale: true})
				return
			}
		}
		f.publish(NotificationsMsg{Expert: f.expert, Err: err})
		return
	}

	// Recompute the unread aggregate from the collection itself; the
	// server counter is advisory.
	page.UnreadCount = page.CountUnread()

	f.store(page)
	if f.cache != nil && !f.expert {
		if err := f.cache.SaveNotifications(ctx, snap.UserID, page); err != nil {
			f.logger.Warn("caching notifications", zap.Error(err))
		}
	}
	f.publish(NotificationsMsg{Page: page, Expert: f.expert})
}

func (f *NotificationFeed) store(page model.NotificationPage) {
	f.mu.Lock()
	f.page = page
	f.loaded = true
	f.mu.Unlock()
}

// publish sends a result without blocking; the poller never stalls on
// a slow consumer.
func (f *NotificationFeed) publish(msg NotificationsMsg) {
	select {
	case f.resultCh <- msg:
	default:
	}
}

func (f *NotificationFeed) waitForResult() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-f.resultCh
		if !ok {
			return nil
		}
		return msg
	}
}
