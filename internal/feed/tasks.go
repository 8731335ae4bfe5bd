package feed

import (
	"context"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/rejimde/terminal/internal/model"
)

// TasksMsg is a tea.Msg carrying a fresh task collection.
type TasksMsg struct {
	Collection model.TaskCollection
	Stale      bool
	Err        error
}

// TaskBoard owns the user's task collection. It fetches once per view
// entry; all four cadence sections derive from the same response.
type TaskBoard struct {
	api      TaskAPI
	sessions SessionSource
	cache    Cache
	logger   *zap.Logger

	mu         sync.Mutex
	collection model.TaskCollection
	loaded     bool
}

// NewTaskBoard creates a task board. cache may be nil.
func NewTaskBoard(api TaskAPI, sessions SessionSource, cache Cache, logger *zap.Logger) *TaskBoard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TaskBoard{api: api, sessions: sessions, cache: cache, logger: logger}
}

// Fetch retrieves the task collection. Without a token it resolves
// immediately to an empty collection instead of issuing an
// unauthenticated call. On failure it degrades to the cached snapshot
// if one exists, then to the empty collection.
func (b *TaskBoard) Fetch(ctx context.Context) (model.TaskCollection, bool, error) {
	snap := b.sessions.Current()
	if !snap.LoggedIn() {
		return model.TaskCollection{}, false, nil
	}

	collection, err := b.api.Tasks(ctx)
	if err != nil {
		b.logger.Warn("task refresh failed, keeping stale state", zap.Error(err))
		if b.cache != nil {
			if cached, cacheErr := b.cache.LoadTasks(ctx, snap.UserID); cacheErr == nil {
				b.store(cached)
				return cached, true, nil
			}
		}
		b.mu.Lock()
		current, loaded := b.collection, b.loaded
		b.mu.Unlock()
		if loaded {
			return current, true, nil
		}
		return model.TaskCollection{}, false, err
	}

	b.store(collection)
	if b.cache != nil {
		if err := b.cache.SaveTasks(ctx, snap.UserID, collection); err != nil {
			b.logger.Warn("caching tasks", zap.Error(err))
		}
	}
	return collection, false, nil
}

// Load wraps Fetch as a command for the UI. Refreshing reuses the same
// path; there is no separate per-section fetch.
func (b *TaskBoard) Load() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		collection, stale, err := b.Fetch(ctx)
		return TasksMsg{Collection: collection, Stale: stale, Err: err}
	}
}

// Daily returns the daily section of the loaded collection.
func (b *TaskBoard) Daily() []model.Task { return b.snapshot().Daily }

// Weekly returns the weekly section of the loaded collection.
func (b *TaskBoard) Weekly() []model.Task { return b.snapshot().Weekly }

// Monthly returns the monthly section of the loaded collection.
func (b *TaskBoard) Monthly() []model.Task { return b.snapshot().Monthly }

// Circle returns the clan section of the loaded collection.
func (b *TaskBoard) Circle() []model.CircleTask { return b.snapshot().Circle }

func (b *TaskBoard) store(collection model.TaskCollection) {
	b.mu.Lock()
	b.collection = collection
	b.loaded = true
	b.mu.Unlock()
}

func (b *TaskBoard) snapshot() model.TaskCollection {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.collection
}
