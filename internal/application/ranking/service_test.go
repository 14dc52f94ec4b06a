package ranking

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ideation/backend/internal/domain/ideation"
	"github.com/ideation/backend/internal/domain/player"
	"github.com/ideation/backend/internal/domain/scoring"
	"github.com/ideation/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves fixed collections and counts full rebuilds
type fakeStore struct {
	players  []player.Player
	ideas    []ideation.Idea
	comments []ideation.Comment
	evals    []ideation.Evaluation
	err      error
	loads    atomic.Int32
	// onListIdeas runs inside a rebuild, before ideas are returned
	onListIdeas func()
}

func (f *fakeStore) ListAll(context.Context) ([]player.Player, error) {
	f.loads.Add(1)
	return f.players, f.err
}
func (f *fakeStore) FindByID(context.Context, uuid.UUID) (*player.Player, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeStore) FindByIDs(context.Context, []uuid.UUID) ([]player.Player, error) { return nil, nil }
func (f *fakeStore) Save(context.Context, *player.Player) error                      { return nil }
func (f *fakeStore) FindDetails(context.Context, uuid.UUID) (*player.Details, error) {
	return nil, shared.ErrNotFound
}
func (f *fakeStore) SaveDetails(context.Context, *player.Details) error { return nil }

type fakeIdeas struct{ store *fakeStore }

func (f fakeIdeas) FindByID(context.Context, uuid.UUID) (*ideation.Idea, error) {
	return nil, shared.ErrNotFound
}
func (f fakeIdeas) FindByIDs(context.Context, []uuid.UUID) ([]ideation.Idea, error) { return nil, nil }
func (f fakeIdeas) FindAll(context.Context, shared.Filter) ([]ideation.Idea, error) { return nil, nil }
func (f fakeIdeas) ListAll(context.Context) ([]ideation.Idea, error) {
	ideas := f.store.ideas
	if f.store.onListIdeas != nil {
		f.store.onListIdeas()
	}
	return ideas, nil
}
func (f fakeIdeas) Count(context.Context, shared.Filter) (int64, error)             { return 0, nil }
func (f fakeIdeas) Create(context.Context, *ideation.Idea) error                    { return nil }
func (f fakeIdeas) Save(context.Context, *ideation.Idea) error                      { return nil }

type fakeComments struct{ store *fakeStore }

func (f fakeComments) FindByID(context.Context, uuid.UUID) (*ideation.Comment, error) {
	return nil, shared.ErrNotFound
}
func (f fakeComments) FindByIdea(context.Context, uuid.UUID) ([]ideation.Comment, error) {
	return nil, nil
}
func (f fakeComments) ListAll(context.Context) ([]ideation.Comment, error) {
	return f.store.comments, nil
}
func (f fakeComments) Create(context.Context, *ideation.Comment) error { return nil }
func (f fakeComments) Save(context.Context, *ideation.Comment) error   { return nil }

type fakeEvals struct{ store *fakeStore }

func (f fakeEvals) Upsert(context.Context, *ideation.Evaluation) error { return nil }
func (f fakeEvals) FindByIdea(context.Context, uuid.UUID) ([]ideation.Evaluation, error) {
	return nil, nil
}
func (f fakeEvals) FindOne(context.Context, uuid.UUID, uuid.UUID) (*ideation.Evaluation, error) {
	return nil, shared.ErrNotFound
}
func (f fakeEvals) ListAll(context.Context) ([]ideation.Evaluation, error) {
	return f.store.evals, nil
}

// memCache is a minimal Cache
type memCache struct {
	mu   sync.Mutex
	rows []scoring.Row
	ok   bool
}

func (c *memCache) Get(context.Context) ([]scoring.Row, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows, c.ok, nil
}
func (c *memCache) Set(_ context.Context, rows []scoring.Row) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows, c.ok = rows, true
	return nil
}
func (c *memCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rows, c.ok = nil, false
	return nil
}

func newTestService(store *fakeStore, cache Cache) *Service {
	return NewService(store, fakeIdeas{store}, fakeComments{store}, fakeEvals{store}, cache, nil)
}

func seededStore() *fakeStore {
	alice, bob := uuid.New(), uuid.New()
	day := func(n int) time.Time { return time.Unix(int64(n)*86400, 0) }
	idea := func(creator uuid.UUID, at time.Time) ideation.Idea {
		var i ideation.Idea
		i.ID = uuid.New()
		i.CreatorID = creator
		i.CreatedAt = at
		return i
	}
	return &fakeStore{
		players: []player.Player{
			{ID: alice, DisplayName: "Alice"},
			{ID: bob, DisplayName: "Bob"},
		},
		ideas: []ideation.Idea{idea(bob, day(1)), idea(bob, day(2)), idea(alice, day(5))},
	}
}

func TestService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults to xp descending", func(t *testing.T) {
		svc := newTestService(seededStore(), nil)

		resp, err := svc.Get(ctx, "", "")

		require.NoError(t, err)
		assert.Equal(t, scoring.ColumnXP, resp.Column)
		assert.Equal(t, scoring.Descending, resp.Direction)
		require.Len(t, resp.Rows, 2)
		assert.Equal(t, "Bob", resp.Rows[0].DisplayName)
		assert.Equal(t, 35+10, resp.Rows[0].XP)
		assert.Equal(t, 3, resp.Totals.Sums[scoring.ColumnIdeas])
	})

	t.Run("sorts by requested column", func(t *testing.T) {
		svc := newTestService(seededStore(), nil)

		resp, err := svc.Get(ctx, "name", "asc")

		require.NoError(t, err)
		assert.Equal(t, "Alice", resp.Rows[0].DisplayName)
	})

	t.Run("rejects unknown column", func(t *testing.T) {
		svc := newTestService(seededStore(), nil)

		_, err := svc.Get(ctx, "karma", "asc")
		assert.ErrorIs(t, err, scoring.ErrUnknownColumn)
	})

	t.Run("propagates load errors", func(t *testing.T) {
		store := seededStore()
		store.err = errors.New("db down")
		svc := newTestService(store, nil)

		_, err := svc.Get(ctx, "", "")
		assert.Error(t, err)
	})
}

func TestService_Cache(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	cache := &memCache{}
	svc := newTestService(store, cache)

	first, err := svc.Get(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Get(ctx, "ideas", "asc")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, int32(1), store.loads.Load())

	handler := NewInvalidationHandler(svc, nil, nil)
	require.NoError(t, handler.Handle(ctx, ideation.NewEvaluationSubmittedEvent(&ideation.Evaluation{IdeaID: uuid.New()})))

	third, err := svc.Get(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, third.Cached)
	assert.Equal(t, int32(2), store.loads.Load())
}

func TestService_InvalidateDuringRebuild(t *testing.T) {
	ctx := context.Background()
	store := seededStore()
	cache := &memCache{}
	svc := newTestService(store, cache)

	late := store.ideas[0]
	late.ID = uuid.New()
	store.onListIdeas = func() {
		store.onListIdeas = nil
		store.ideas = append(store.ideas, late)
		require.NoError(t, svc.Invalidate(ctx))
	}

	first, err := svc.Get(ctx, "", "")
	require.NoError(t, err)
	assert.Equal(t, 3, first.Totals.Sums[scoring.ColumnIdeas], "rows from before the write")
	_, ok, _ := cache.Get(ctx)
	assert.False(t, ok, "overtaken rows are not cached")

	second, err := svc.Get(ctx, "", "")
	require.NoError(t, err)
	assert.False(t, second.Cached)
	assert.Equal(t, 4, second.Totals.Sums[scoring.ColumnIdeas])

	third, err := svc.Get(ctx, "", "")
	require.NoError(t, err)
	assert.True(t, third.Cached)
	assert.Equal(t, 4, third.Totals.Sums[scoring.ColumnIdeas])
}

func TestInvalidationHandler_NotifiesSubscribers(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	defer cancel()
	handler := NewInvalidationHandler(newTestService(seededStore(), &memCache{}), b, nil)

	require.NoError(t, handler.Handle(context.Background(), player.NewUpdatedEvent(uuid.New())))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("expected change signal")
	}
	assert.Contains(t, handler.EventTypes(), player.EventTypePlayerUpdated)
}

func TestBroadcaster(t *testing.T) {
	b := NewBroadcaster()
	ch, cancel := b.Subscribe()
	assert.Equal(t, 1, b.Subscribers())

	b.Notify()
	b.Notify()
	<-ch
	select {
	case <-ch:
		t.Fatal("signals should coalesce")
	default:
	}

	cancel()
	cancel()
	assert.Equal(t, 0, b.Subscribers())
	_, open := <-ch
	assert.False(t, open)
	b.Notify()
}

func TestInvalidationHandler_OnTableChange(t *testing.T) {
	ctx := context.Background()
	cache := &memCache{}
	store := seededStore()
	handler := NewInvalidationHandler(newTestService(store, cache), nil, nil)
	require.NoError(t, cache.Set(ctx, []scoring.Row{{}}))

	require.NoError(t, handler.OnTableChange(ctx, "notifications"))
	_, ok, _ := cache.Get(ctx)
	assert.True(t, ok, "unranked tables keep the cache")

	require.NoError(t, handler.OnTableChange(ctx, "comments"))
	_, ok, _ = cache.Get(ctx)
	assert.False(t, ok)
}
