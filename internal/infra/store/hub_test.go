package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clientbook/internal/entity"
)

type recorder struct {
	mu        sync.Mutex
	snapshots []entity.RawCollection
	errs      []error
}

func (r *recorder) onSnapshot(raw entity.RawCollection) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snapshots = append(r.snapshots, raw)
}

func (r *recorder) onError(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) count() (int, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snapshots), len(r.errs)
}

func TestHubDeliversInitialSnapshot(t *testing.T) {
	hub := NewHub()
	rec := &recorder{}

	unsubscribe := hub.Subscribe(context.Background(), "clients", func(context.Context) (entity.RawCollection, error) {
		return nil, nil
	}, rec.onSnapshot, rec.onError)
	defer unsubscribe()

	require.Eventually(t, func() bool {
		n, _ := rec.count()
		return n == 1
	}, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	assert.NotNil(t, rec.snapshots[0], "a nil load is delivered as an empty collection")
	assert.Empty(t, rec.snapshots[0])
	rec.mu.Unlock()
}

func TestHubNotifyReloads(t *testing.T) {
	hub := NewHub()
	rec := &recorder{}
	var loads atomic.Int32

	unsubscribe := hub.Subscribe(context.Background(), "clients", func(context.Context) (entity.RawCollection, error) {
		loads.Add(1)
		return entity.RawCollection{}, nil
	}, rec.onSnapshot, rec.onError)
	defer unsubscribe()

	require.Eventually(t, func() bool { return loads.Load() == 1 }, time.Second, 5*time.Millisecond)

	hub.Notify("other")
	hub.Notify("clients")

	require.Eventually(t, func() bool { return loads.Load() == 2 }, time.Second, 5*time.Millisecond)
}

func TestHubLoadErrorEndsSubscription(t *testing.T) {
	hub := NewHub()
	rec := &recorder{}
	boom := errors.New("permission denied")

	hub.Subscribe(context.Background(), "clients", func(context.Context) (entity.RawCollection, error) {
		return nil, boom
	}, rec.onSnapshot, rec.onError)

	require.Eventually(t, func() bool {
		_, e := rec.count()
		return e == 1
	}, time.Second, 5*time.Millisecond)

	rec.mu.Lock()
	var subErr *entity.SubscriptionError
	require.ErrorAs(t, rec.errs[0], &subErr)
	assert.Equal(t, "clients", subErr.Collection)
	assert.ErrorIs(t, rec.errs[0], boom)
	rec.mu.Unlock()

	assert.Eventually(t, func() bool { return hub.Len("clients") == 0 }, time.Second, 5*time.Millisecond)
}

func TestHubFailTerminatesSubscribers(t *testing.T) {
	hub := NewHub()
	rec := &recorder{}

	hub.Subscribe(context.Background(), "clients", func(context.Context) (entity.RawCollection, error) {
		return entity.RawCollection{}, nil
	}, rec.onSnapshot, rec.onError)

	require.Eventually(t, func() bool {
		n, _ := rec.count()
		return n == 1
	}, time.Second, 5*time.Millisecond)

	hub.Fail(errors.New("feed closed"))

	require.Eventually(t, func() bool {
		_, e := rec.count()
		return e == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, hub.Len("clients"))
}

func TestHubUnsubscribeIsIdempotent(t *testing.T) {
	hub := NewHub()
	rec := &recorder{}

	unsubscribe := hub.Subscribe(context.Background(), "clients", func(context.Context) (entity.RawCollection, error) {
		return entity.RawCollection{}, nil
	}, rec.onSnapshot, rec.onError)

	assert.Equal(t, 1, hub.Len("clients"))
	assert.NotPanics(t, func() {
		unsubscribe()
		unsubscribe()
	})
	assert.Equal(t, 0, hub.Len("clients"))
}

func TestHubNoCallbackBeginsAfterUnsubscribe(t *testing.T) {
	hub := NewHub()
	entered := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int32

	unsubscribe := hub.Subscribe(context.Background(), "clients", func(context.Context) (entity.RawCollection, error) {
		return entity.RawCollection{}, nil
	}, func(entity.RawCollection) {
		if calls.Add(1) == 1 {
			close(entered)
			<-release
		}
	}, nil)

	<-entered
	hub.Notify("clients")

	// returns while the first callback is still running
	unsubscribe()
	for i := 0; i < 5; i++ {
		hub.Notify("clients")
	}
	close(release)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, 0, hub.Len("clients"))
}

func TestHubUnsubscribeFromInsideCallback(t *testing.T) {
	hub := NewHub()
	var calls atomic.Int32
	var unsubscribe entity.Unsubscribe
	ready := make(chan struct{})

	unsubscribe = hub.Subscribe(context.Background(), "clients", func(context.Context) (entity.RawCollection, error) {
		return entity.RawCollection{}, nil
	}, func(entity.RawCollection) {
		<-ready
		calls.Add(1)
		unsubscribe()
		hub.Notify("clients")
	}, nil)
	close(ready)

	require.Eventually(t, func() bool { return hub.Len("clients") == 0 }, time.Second, 5*time.Millisecond)
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestHubContextCancelUnsubscribes(t *testing.T) {
	hub := NewHub()
	rec := &recorder{}
	ctx, cancel := context.WithCancel(context.Background())

	hub.Subscribe(ctx, "clients", func(context.Context) (entity.RawCollection, error) {
		return entity.RawCollection{}, nil
	}, rec.onSnapshot, rec.onError)

	cancel()

	assert.Eventually(t, func() bool { return hub.Len("clients") == 0 }, time.Second, 5*time.Millisecond)
}

func TestMergeDeletesNilKeys(t *testing.T) {
	dst := entity.Fields{"name": "Asha", "email": "a@example.com"}
	out := Merge(dst, entity.Fields{"email": nil, "mobile": "9000000001"})

	assert.Equal(t, entity.Fields{"name": "Asha", "mobile": "9000000001"}, out)
	assert.Contains(t, dst, "email", "the original map is left untouched")
}

func TestNormalizeRejectsNonJSONValues(t *testing.T) {
	_, err := Normalize(entity.Fields{"bad": make(chan int)})
	assert.Error(t, err)

	out, err := Normalize(entity.Fields{"n": 3})
	require.NoError(t, err)
	assert.Equal(t, float64(3), out["n"])
}

func TestCopyCollectionIsDeep(t *testing.T) {
	src := map[string]entity.Fields{
		"c1": {"payments": []any{map[string]any{"amount": 10.0}}},
	}
	cp := CopyCollection(src)

	cp["c1"]["payments"].([]any)[0].(map[string]any)["amount"] = 99.0

	assert.Equal(t, 10.0, src["c1"]["payments"].([]any)[0].(map[string]any)["amount"])
}
