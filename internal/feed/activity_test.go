package feed

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rejimde/terminal/internal/api"
	"github.com/rejimde/terminal/internal/model"
	"github.com/rejimde/terminal/tests/testutil"
)

// fakeActivityAPI serves slices of a per-filter dataset and records
// every query it receives.
type fakeActivityAPI struct {
	mu      sync.Mutex
	data    map[string][]model.ActivityItem
	queries []api.ActivityQuery
	err     error
}

func (f *fakeActivityAPI) Activity(ctx context.Context, q api.ActivityQuery) ([]model.ActivityItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	set := f.data[q.Filter]
	if q.Offset >= len(set) {
		return nil, nil
	}
	end := q.Offset + q.Limit
	if end > len(set) {
		end = len(set)
	}
	page := make([]model.ActivityItem, end-q.Offset)
	copy(page, set[q.Offset:end])
	return page, nil
}

func (f *fakeActivityAPI) queryLog() []api.ActivityQuery {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]api.ActivityQuery, len(f.queries))
	copy(out, f.queries)
	return out
}

func makeActivityItems(event string, n int) []model.ActivityItem {
	items := make([]model.ActivityItem, n)
	for i := range items {
		items[i] = model.ActivityItem{ID: int64(i + 1), EventType: event}
	}
	return items
}

func TestActivityFeedPagination(t *testing.T) {
	backend := &fakeActivityAPI{
		data: map[string][]model.ActivityItem{
			"": makeActivityItems(model.EventExerciseComplete, 25),
		},
	}
	f := NewActivityFeed(backend, loggedInUser(), nil, 20, nil)
	ctx := context.Background()

	require.NoError(t, f.Load(ctx))
	items, hasMore := f.State()
	assert.Len(t, items, 20)
	assert.True(t, hasMore, "a full page means more may follow")

	require.NoError(t, f.LoadMore(ctx))
	items, hasMore = f.State()
	assert.Len(t, items, 25)
	assert.False(t, hasMore, "a short page is the end-of-data signal")

	// Items accumulate in server order with no duplicates.
	for i, item := range items {
		assert.Equal(t, int64(i+1), item.ID)
	}

	// The second query's offset advanced by the returned length.
	queries := backend.queryLog()
	require.Len(t, queries, 2)
	assert.Equal(t, 0, queries[0].Offset)
	assert.Equal(t, 20, queries[1].Offset)
}

func TestActivityFeedLoadMoreStopsAtEnd(t *testing.T) {
	backend := &fakeActivityAPI{
		data: map[string][]model.ActivityItem{
			"": makeActivityItems(model.EventDailyLogin, 5),
		},
	}
	f := NewActivityFeed(backend, loggedInUser(), nil, 20, nil)
	ctx := context.Background()

	require.NoError(t, f.Load(ctx))
	_, hasMore := f.State()
	require.False(t, hasMore)

	// Exhausted feed: LoadMore is a no-op, no extra request.
	require.NoError(t, f.LoadMore(ctx))
	assert.Len(t, backend.queryLog(), 1)
}

func TestActivityFeedExactPageBoundary(t *testing.T) {
	backend := &fakeActivityAPI{
		data: map[string][]model.ActivityItem{
			"": makeActivityItems(model.EventTaskComplete, 20),
		},
	}
	f := NewActivityFeed(backend, loggedInUser(), nil, 20, nil)
	ctx := context.Background()

	require.NoError(t, f.Load(ctx))
	items, hasMore := f.State()
	assert.Len(t, items, 20)
	assert.True(t, hasMore, "a full page cannot prove the end of data")

	// The follow-up page is empty and flips the flag.
	require.NoError(t, f.LoadMore(ctx))
	items, hasMore = f.State()
	assert.Len(t, items, 20)
	assert.False(t, hasMore)
}

func TestActivityFeedFilterResetsCollection(t *testing.T) {
	backend := &fakeActivityAPI{
		data: map[string][]model.ActivityItem{
			"":                         makeActivityItems(model.EventDailyLogin, 25),
			model.EventExerciseComplete: makeActivityItems(model.EventExerciseComplete, 3),
		},
	}
	f := NewActivityFeed(backend, loggedInUser(), nil, 20, nil)
	ctx := context.Background()

	require.NoError(t, f.Load(ctx))
	require.NoError(t, f.LoadMore(ctx))
	items, _ := f.State()
	require.Len(t, items, 25)

	require.NoError(t, f.SetFilter(ctx, model.EventExerciseComplete))
	items, hasMore := f.State()
	assert.Len(t, items, 3)
	assert.False(t, hasMore)
	for _, item := range items {
		assert.Equal(t, model.EventExerciseComplete, item.EventType)
	}

	// The filter switch restarted pagination from zero.
	queries := backend.queryLog()
	last := queries[len(queries)-1]
	assert.Equal(t, 0, last.Offset)
	assert.Equal(t, model.EventExerciseComplete, last.Filter)
}

func TestActivityFeedFailedResetClearsStaleItems(t *testing.T) {
	backend := &fakeActivityAPI{
		data: map[string][]model.ActivityItem{
			"": makeActivityItems(model.EventDailyLogin, 10),
		},
	}
	f := NewActivityFeed(backend, loggedInUser(), nil, 20, nil)
	ctx := context.Background()

	require.NoError(t, f.Load(ctx))
	items, _ := f.State()
	require.Len(t, items, 10)

	backend.mu.Lock()
	backend.err = errors.New("backend down")
	backend.mu.Unlock()

	assert.Error(t, f.SetFilter(ctx, model.EventBadgeEarned))
	items, _ = f.State()
	assert.Empty(t, items, "items from the previous filter must not survive")
}

func TestActivityFeedNoTokenSkipsFetch(t *testing.T) {
	backend := &fakeActivityAPI{}
	f := NewActivityFeed(backend, &fakeSessions{}, nil, 20, nil)

	require.NoError(t, f.Load(context.Background()))
	assert.Empty(t, backend.queryLog())
}

func TestActivityFeedCachesFirstPage(t *testing.T) {
	cache := testutil.NewTestStore(t)
	backend := &fakeActivityAPI{
		data: map[string][]model.ActivityItem{
			"": makeActivityItems(model.EventDailyLogin, 25),
		},
	}
	f := NewActivityFeed(backend, loggedInUser(), cache, 20, nil)
	ctx := context.Background()

	require.NoError(t, f.Load(ctx))

	cached, err := cache.LoadActivity(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, cached, 20, "only the unfiltered first page is cached")
}

func TestActivityFeedDegradesToCache(t *testing.T) {
	cache := testutil.NewTestStore(t)
	ctx := context.Background()
	require.NoError(t, cache.SaveActivity(ctx, 7, makeActivityItems(model.EventDailyLogin, 8)))

	backend := &fakeActivityAPI{err: errors.New("backend down")}
	f := NewActivityFeed(backend, loggedInUser(), cache, 20, nil)

	require.NoError(t, f.Load(ctx), "a cached snapshot absorbs the failure")
	items, hasMore := f.State()
	assert.Len(t, items, 8)
	assert.False(t, hasMore, "cached pagination state is unknown, load-more stays off")
}
