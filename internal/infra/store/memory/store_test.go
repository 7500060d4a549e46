package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clientbook/internal/entity"
)

func TestPushAssignsUniqueIDs(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := s.Push(ctx, "clients", entity.Fields{"name": "x"})
		require.NoError(t, err)
		assert.False(t, seen[id], "id %s reused", id)
		seen[id] = true
	}
	assert.Len(t, s.Snapshot("clients"), 50)
}

func TestUpdateMergesAndDeletes(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id, err := s.Push(ctx, "clients", entity.Fields{"name": "Asha", "email": "a@example.com"})
	require.NoError(t, err)

	require.NoError(t, s.Update(ctx, "clients", id, entity.Fields{"status": "confirmed", "email": nil}))

	got, err := s.Get(ctx, "clients", id)
	require.NoError(t, err)
	assert.Equal(t, entity.Fields{"name": "Asha", "status": "confirmed"}, got)
}

func TestUpdateMissingRecord(t *testing.T) {
	s := NewStore()

	err := s.Update(context.Background(), "clients", "nope", entity.Fields{"name": "x"})
	assert.ErrorIs(t, err, entity.ErrRecordNotFound)
}

func TestRemoveIsIdempotent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	id, err := s.Push(ctx, "clients", entity.Fields{"name": "x"})
	require.NoError(t, err)

	assert.NoError(t, s.Remove(ctx, "clients", id))
	assert.NoError(t, s.Remove(ctx, "clients", id))

	_, err = s.Get(ctx, "clients", id)
	assert.ErrorIs(t, err, entity.ErrRecordNotFound)
}

func TestGetReturnsACopy(t *testing.T) {
	s := NewStoreFrom(map[string]entity.RawCollection{
		"clients": {"c1": {"name": "Asha"}},
	})

	got, err := s.Get(context.Background(), "clients", "c1")
	require.NoError(t, err)
	got["name"] = "changed"

	assert.Equal(t, "Asha", s.Snapshot("clients")["c1"]["name"])
}

func TestSubscribeSeesEveryMutation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var mu sync.Mutex
	var last entity.RawCollection
	unsubscribe, err := s.Subscribe(ctx, "clients", func(raw entity.RawCollection) {
		mu.Lock()
		last = raw
		mu.Unlock()
	}, nil)
	require.NoError(t, err)
	defer unsubscribe()

	size := func() int {
		mu.Lock()
		defer mu.Unlock()
		if last == nil {
			return -1
		}
		return len(last)
	}

	require.Eventually(t, func() bool { return size() == 0 }, time.Second, 5*time.Millisecond)

	id, err := s.Push(ctx, "clients", entity.Fields{"name": "Asha"})
	require.NoError(t, err)
	require.Eventually(t, func() bool { return size() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, s.Remove(ctx, "clients", id))
	require.Eventually(t, func() bool { return size() == 0 }, time.Second, 5*time.Millisecond)

	unsubscribe()
	assert.Equal(t, 0, s.Subscribers("clients"))
}

func TestCanceledContextFailsWrites(t *testing.T) {
	s := NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Push(ctx, "clients", entity.Fields{"name": "x"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPersisterSeesNextStateAndCanAbort(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	id, err := s.Push(ctx, "clients", entity.Fields{"name": "Asha"})
	require.NoError(t, err)

	var seen map[string]entity.RawCollection
	s.SetPersister(func(data map[string]entity.RawCollection) error {
		seen = data
		return nil
	})
	require.NoError(t, s.Update(ctx, "clients", id, entity.Fields{"status": "confirmed"}))
	assert.Equal(t, "confirmed", seen["clients"][id]["status"])

	require.NoError(t, s.Remove(ctx, "clients", id))
	assert.NotContains(t, seen["clients"], id)
	assert.Empty(t, s.Snapshot("clients"))

	s.SetPersister(func(map[string]entity.RawCollection) error { return errors.New("disk full") })
	newID, err := s.Push(ctx, "clients", entity.Fields{"name": "Ravi"})
	assert.Error(t, err)
	assert.Empty(t, newID)
	assert.Empty(t, s.Snapshot("clients"))
}
