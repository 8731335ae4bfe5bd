package feed

import (
	"context"
	"sort"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rejimde/terminal/internal/model"
)

// BadgesMsg is a tea.Msg carrying a fresh badge collection.
type BadgesMsg struct {
	Badges []model.Badge
	Stale  bool
	Err    error
}

// recentlyEarnedLimit caps the dashboard's recently-earned strip.
const recentlyEarnedLimit = 5

// BadgeBoard owns the user's badge collection. The category map,
// recently-earned strip, and stats all derive from one response.
type BadgeBoard struct {
	api      BadgeAPI
	sessions SessionSource
	cache    Cache
	logger   *zap.Logger

	mu     sync.Mutex
	badges []model.Badge
	loaded bool
}

// NewBadgeBoard creates a badge board. cache may be nil.
func NewBadgeBoard(api BadgeAPI, sessions SessionSource, cache Cache, logger *zap.Logger) *BadgeBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BadgeBoard{api: api, sessions: sessions, cache: cache, logger: logger}
}

// Fetch retrieves the badge collection, gated on token presence and
// degrading to the cached snapshot on failure.
func (b *BadgeBoard) Fetch(ctx context.Context) ([]model.Badge, bool, error) {
	snap := b.sessions.Current()
	if !snap.LoggedIn() {
		return nil, false, nil
	}

	badges, err := b.api.Badges(ctx)
	if err != nil {
		b.logger.Warn("badge refresh failed, keeping stale state", zap.Error(err))
		if b.cache != nil {
			if cached, cacheErr := b.cache.LoadBadges(ctx, snap.UserID); cacheErr == nil {
				b.store(cached)
				return cached, true, nil
			}
		}
		b.mu.Lock()
		current, loaded := b.badges, b.loaded
		b.mu.Unlock()
		if loaded {
			return current, true, nil
		}
		return nil, false, err
	}

	b.store(badges)
	if b.cache != nil {
		if err := b.cache.SaveBadges(ctx, snap.UserID, badges); err != nil {
			b.logger.Warn("caching badges", zap.Error(err))
		}
	}
	return badges, false, nil
}

// Load wraps Fetch as a command for the UI.
func (b *BadgeBoard) Load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		badges, stale, err := b.Fetch(ctx)
		return BadgesMsg{Badges: badges, Stale: stale, Err: err}
	}
}

// All returns the full loaded collection.
func (b *BadgeBoard) All() []model.Badge {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.badges
}

// ByCategory groups the loaded collection by badge category.
func (b *BadgeBoard) ByCategory() map[string][]model.Badge {
	byCategory := make(map[string][]model.Badge)
	for _, badge := range b.All() {
		byCategory[badge.Category] = append(byCategory[badge.Category], badge)
	}
	return byCategory
}

// RecentlyEarned returns the newest earned badges, most recent first.
func (b *BadgeBoard) RecentlyEarned() []model.Badge {
	var earned []model.Badge
	for _, badge := range b.All() {
		if badge.Earned && badge.EarnedAt != nil {
			earned = append(earned, badge)
		}
	}
	sort.Slice(earned, func(i, j int) bool {
		return earned[i].EarnedAt.After(*earned[j].EarnedAt)
	})
	if len(earned) > recentlyEarnedLimit {
		earned = earned[:recentlyEarnedLimit]
	}
	return earned
}

// Stats summarizes the loaded collection.
func (b *BadgeBoard) Stats() model.BadgeStats {
	badges := b.All()
	stats := model.BadgeStats{Total: len(badges)}
	for _, badge := range badges {
		if badge.Earned {
			stats.Earned++
		}
	}
	if stats.Total > 0 {
		stats.Percent = model.ClampPercent(float64(stats.Earned) / float64(stats.Total) * 100)
	}
	return stats
}

func (b *BadgeBoard) store(badges []model.Badge) {
	b.mu.Lock()
	b.badges = badges
	b.loaded = true
	b.mu.Unlock()
}
