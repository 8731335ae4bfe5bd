package feed

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/model"
)

// DefaultActivityPageSize is the fixed page length for the ledger.
const DefaultActivityPageSize = 20

// ActivityMsg is a tea.Msg carrying the accumulated activity
// collection after a load or load-more completes.
type ActivityMsg struct {
	Items   []model.ActivityItem
	HasMore bool
	Stale   bool
	Err     error
}

// ActivityFeed owns the paginated activity ledger. The offset advances
// by the number of items actually returned, and a short page is the
// only end-of-data signal; the backend exposes no total count.
type ActivityFeed struct {
	api      ActivityAPI
	sessions SessionSource
	cache    Cache
	logger   *zap.Logger
	pageSize int

	mu      sync.Mutex
	filter  string
	items   []model.ActivityItem
	offset  int
	hasMore bool
	stale   bool
	loading bool
}

// NewActivityFeed creates an activity feed. cache may be nil.
func NewActivityFeed(apiClient ActivityAPI, sessions SessionSource, cache Cache, pageSize int, logger *zap.Logger) *ActivityFeed {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = DefaultActivityPageSize
	}
	return &ActivityFeed{
		api:      apiClient,
		sessions: sessions,
		cache:    cache,
		logger:   logger,
		pageSize: pageSize,
		hasMore:  true,
	}
}

// Load fetches the first page, replacing the collection.
func (f *ActivityFeed) Load(ctx context.Context) error {
	return f.fetch(ctx, true)
}

// LoadMore appends the next page. It no-ops when a load is already in
// flight or the last page was short.
func (f *ActivityFeed) LoadMore(ctx context.Context) error {
	f.mu.Lock()
	if f.loading || !f.hasMore {
		f.mu.Unlock()
		return nil
	}
	f.mu.Unlock()
	return f.fetch(ctx, false)
}

// SetFilter switches the event-type filter, resets the offset to zero,
// and replaces the collection with a fresh first page. No items from
// the previous filter survive.
func (f *ActivityFeed) SetFilter(ctx context.Context, filter string) error {
	f.mu.Lock()
	f.filter = filter
	f.mu.Unlock()
	return f.fetch(ctx, true)
}

// fetch retrieves one page. reset replaces the collection; otherwise
// the page is appended.
func (f *ActivityFeed) fetch(ctx context.Context, reset bool) error {
	snap := f.sessions.Current()
	if !snap.LoggedIn() {
		return nil
	}

	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return nil
	}
	f.loading = true
	offset := f.offset
	if reset {
		offset = 0
	}
	filter := f.filter
	f.mu.Unlock()

	page, err := f.api.Activity(ctx, api.ActivityQuery{
		Limit:  f.pageSize,
		Offset: offset,
		Filter: filter,
	})

	f.mu.Lock()
	defer f.mu.Unlock()
	f.loading = false

	if err != nil {
		// A failed reset still clears the stale filter's items: a
		// wrong-filter view is worse than an empty one.
		if reset {
			f.items = nil
			f.offset = 0
			f.hasMore = true

			// The unfiltered first page degrades to the cached
			// snapshot. Its pagination state is unknown, so load-more
			// stays disabled until a live fetch succeeds.
			if filter == "" && f.cache != nil {
				if cached, cacheErr := f.cache.LoadActivity(ctx, snap.UserID); cacheErr == nil && len(cached) > 0 {
					f.items = cached
					f.offset = len(cached)
					f.hasMore = false
					f.stale = true
					f.logger.Warn("activity fetch failed, serving cached snapshot", zap.Error(err))
					return nil
				}
			}
		}
		f.logger.Warn("activity fetch failed", zap.Error(err))
		return err
	}

	if reset {
		f.items = page
		f.offset = len(page)
	} else {
		f.items = append(f.items, page...)
		f.offset += len(page)
	}
	f.hasMore = len(page) == f.pageSize
	f.stale = false

	if reset && filter == "" && f.cache != nil {
		if err := f.cache.SaveActivity(ctx, snap.UserID, page); err != nil {
			f.logger.Warn("caching activity", zap.Error(err))
		}
	}
	return nil
}

// LoadCmd wraps Load as a command for the UI.
func (f *ActivityFeed) LoadCmd() tea.Cmd {
	return f.cmd(func(ctx context.Context) error { return f.Load(ctx) })
}

// LoadMoreCmd wraps LoadMore as a command for the UI.
func (f *ActivityFeed) LoadMoreCmd() tea.Cmd {
	return f.cmd(func(ctx context.Context) error { return f.LoadMore(ctx) })
}

// SetFilterCmd wraps SetFilter as a command for the UI.
func (f *ActivityFeed) SetFilterCmd(filter string) tea.Cmd {
	return f.cmd(func(ctx context.Context) error { return f.SetFilter(ctx, filter) })
}

func (f *ActivityFeed) cmd(op func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := op(ctx)

		f.mu.Lock()
		items := make([]model.ActivityItem, len(f.items))
		copy(items, f.items)
		msg := ActivityMsg{Items: items, HasMore: f.hasMore, Stale: f.stale, Err: err}
		f.mu.Unlock()
		return msg
	}
}

// State returns a copy of the accumulated collection and the
// pagination flag.
func (f *ActivityFeed) State() ([]model.ActivityItem, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items := make([]model.ActivityItem, len(f.items))
	copy(items, f.items)
	return items, f.hasMore
}

// Filter returns the active event-type filter.
func (f *ActivityFeed) Filter() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filter
}

// Groups buckets the accumulated collection into rendering day groups.
func (f *ActivityFeed) Groups(now time.Time) []model.ActivityGroup {
	items, _ := f.State()
	return model.GroupByDay(items, now)
}
