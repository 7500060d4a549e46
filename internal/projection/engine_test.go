package projection

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/infra/store/memory"
	"github.com/xavierca1/clientbook/internal/repository"
)

// fakeSource delivers synchronously so engine transitions are deterministic.
type fakeSource struct {
	mu           sync.Mutex
	onSnapshot   func(entity.RawCollection)
	onError      func(error)
	subscribeErr error
	subscribes   int
	unsubscribes int
}

func (f *fakeSource) Subscribe(ctx context.Context, onSnapshot func(entity.RawCollection), onError func(error)) (entity.Unsubscribe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.subscribeErr != nil {
		return nil, f.subscribeErr
	}
	f.subscribes++
	f.onSnapshot = onSnapshot
	f.onError = onError
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubscribes++
	}, nil
}

func (f *fakeSource) emit(raw entity.RawCollection) {
	f.mu.Lock()
	fn := f.onSnapshot
	f.mu.Unlock()
	fn(raw)
}

func (f *fakeSource) fail(err error) {
	f.mu.Lock()
	fn := f.onError
	f.mu.Unlock()
	fn(err)
}

var ashaSnapshot = entity.RawCollection{
	"c1": {"name": "Asha", "mobile": "9000000001", "status": "approach", "date": "2024-01-01T00:00:00Z"},
}

func newTestEngine(src Source) *Engine {
	return NewEngine(src,
		WithClock(func() time.Time { return refNow }),
		WithLocation(time.UTC),
	)
}

func TestEngineStateBeforeFirstSnapshot(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)

	state, _ := e.State()
	assert.Equal(t, StateUninitialized, state)

	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	v := e.View(Criteria{})
	assert.Equal(t, StateLoading, v.State)
	assert.False(t, v.Empty, "loading is not empty")
	assert.False(t, v.FilteredEmpty)
}

func TestEngineScenarioSingleClient(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.emit(ashaSnapshot)

	v := e.View(Criteria{})
	assert.Equal(t, StateReady, v.State)
	require.Len(t, v.Clients, 1)
	assert.Equal(t, "c1", v.Clients[0].ID)
	assert.Equal(t, 1, v.Stats.Total)
	assert.Equal(t, 1, v.Stats.ByStatus(entity.StatusApproach))
}

func TestEngineScenarioSearch(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.emit(ashaSnapshot)

	hit := e.View(Criteria{Search: "asha"})
	assert.Len(t, hit.Clients, 1)

	miss := e.View(Criteria{Search: "zzz"})
	assert.Empty(t, miss.Clients)
	assert.Equal(t, 1, miss.Stats.Total, "stats are computed before filtering")
	assert.True(t, miss.FilteredEmpty)
	assert.False(t, miss.Empty)
}

func TestEngineEmptyCollection(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.emit(entity.RawCollection{})

	v := e.View(Criteria{Search: "anything"})
	assert.True(t, v.Empty)
	assert.False(t, v.FilteredEmpty)
}

func TestEngineStatusChangeAndDelete(t *testing.T) {
	store := memory.NewStoreFrom(map[string]entity.RawCollection{
		repository.ClientsCollection: ashaSnapshot,
	})
	repo := repository.NewClientRepository(store)
	e := newTestEngine(repo)
	ctx := context.Background()

	require.NoError(t, e.Start(ctx))
	defer e.Stop()

	require.Eventually(t, func() bool { return e.Stats().Total == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, e.View(Criteria{Status: StatusApproach}).Clients, 1)

	require.NoError(t, repo.SetStatus(ctx, "c1", entity.StatusConfirmed))

	require.Eventually(t, func() bool { return e.Stats().Confirmed == 1 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, e.View(Criteria{Status: StatusApproach}).Clients)
	assert.Len(t, e.View(Criteria{Status: StatusConfirmed}).Clients, 1)
	assert.Equal(t, 0, e.Stats().Approach)

	require.NoError(t, repo.Remove(ctx, "c1"))

	require.Eventually(t, func() bool { return e.Stats().Total == 0 }, time.Second, 5*time.Millisecond)
	assert.Empty(t, e.Clients())
	assert.True(t, e.View(Criteria{}).Empty)
}

func TestEngineErrorKeepsLastProjection(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.emit(ashaSnapshot)
	src.fail(&entity.SubscriptionError{Collection: "clients", Err: errors.New("permission denied")})

	v := e.View(Criteria{})
	assert.Equal(t, StateError, v.State)
	require.Error(t, v.Err)
	assert.Len(t, v.Clients, 1, "last good data stays visible")
	assert.False(t, v.Empty)

	// restarting recovers
	require.NoError(t, e.Start(context.Background()))
	state, err := e.State()
	assert.Equal(t, StateLoading, state)
	assert.NoError(t, err)
	assert.Len(t, e.Clients(), 1)

	src.emit(entity.RawCollection{})
	state, _ = e.State()
	assert.Equal(t, StateReady, state)
	assert.Equal(t, 2, src.subscribes)
}

func TestEngineSubscribeFailure(t *testing.T) {
	src := &fakeSource{subscribeErr: errors.New("offline")}
	e := newTestEngine(src)

	err := e.Start(context.Background())
	require.Error(t, err)

	state, stateErr := e.State()
	assert.Equal(t, StateError, state)
	assert.Equal(t, err, stateErr)
}

func TestEngineStartWhileLiveIsNoop(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)
	require.NoError(t, e.Start(context.Background()))
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	assert.Equal(t, 1, src.subscribes)
}

func TestEngineStopIsIdempotent(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)
	require.NoError(t, e.Start(context.Background()))
	src.emit(ashaSnapshot)

	assert.NotPanics(t, func() {
		e.Stop()
		e.Stop()
	})
	assert.Equal(t, 1, src.unsubscribes)

	// late deliveries from the old subscription are ignored
	src.emit(entity.RawCollection{})
	src.fail(errors.New("late"))

	assert.Len(t, e.Clients(), 1)
	state, _ := e.State()
	assert.Equal(t, StateReady, state)
}

func TestEngineDiscardsStaleProjection(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.emit(ashaSnapshot)

	// a snapshot that arrived later has already been published
	e.mu.Lock()
	e.published = e.received.Load() + 10
	e.mu.Unlock()

	src.emit(entity.RawCollection{})

	assert.Len(t, e.Clients(), 1)
}

func TestEngineNotifiesListeners(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)

	var got []Stats
	e.OnProjected(func(s Stats) { got = append(got, s) })

	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.emit(ashaSnapshot)
	src.emit(entity.RawCollection{})

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Total)
	assert.Equal(t, 0, got[1].Total)
}

func TestEngineRefreshStatsFollowsClock(t *testing.T) {
	src := &fakeSource{}
	now := refNow
	var mu sync.Mutex
	e := NewEngine(src,
		WithClock(func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}),
		WithLocation(time.UTC),
	)
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.emit(entity.RawCollection{
		"c1": {"name": "Asha", "date": refNow.Add(-time.Hour).Format(time.RFC3339)},
	})
	assert.Equal(t, 1, e.Stats().Today)

	mu.Lock()
	now = refNow.Add(24 * time.Hour)
	mu.Unlock()

	assert.Equal(t, 0, e.RefreshStats().Today)
	assert.Equal(t, 0, e.Stats().Today)
}

func TestEngineFind(t *testing.T) {
	src := &fakeSource{}
	e := newTestEngine(src)
	require.NoError(t, e.Start(context.Background()))
	defer e.Stop()

	src.emit(ashaSnapshot)

	c, ok := e.Find("c1")
	assert.True(t, ok)
	assert.Equal(t, "Asha", c.Name)

	_, ok = e.Find("c2")
	assert.False(t, ok)
}
