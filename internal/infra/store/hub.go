// Package store holds the pieces shared by the record store backends.
package store

import (
	"context"
	"sync"

	"github.com/xavierca1/clientbook/internal/entity"
)

// Loader reads the current state of one collection.
type Loader func(ctx context.Context) (entity.RawCollection, error)

// Hub fans collection changes out to live subscribers. Every subscriber owns a
// goroutine and a one-slot signal channel, so bursts of changes collapse into a
// single reload and the newest state always wins.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]*subscriber
}

type subscriber struct {
	path   string
	signal chan struct{}
	fail   chan error
	done   chan struct{}
	once   sync.Once

	// guards stopped; a callback only begins after checking it
	mu      sync.Mutex
	stopped bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[uint64]*subscriber)}
}

// Subscribe starts delivery for path. The first snapshot is queued immediately.
// Once the returned Unsubscribe has returned no callback begins; one that was
// already running completes, so Unsubscribe never waits on it and may be
// called from inside a callback.
func (h *Hub) Subscribe(ctx context.Context, path string, load Loader, onSnapshot func(entity.RawCollection), onError func(error)) entity.Unsubscribe {
	s := &subscriber{
		path:   path,
		signal: make(chan struct{}, 1),
		fail:   make(chan error, 1),
		done:   make(chan struct{}),
	}
	s.signal <- struct{}{}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	if h.subs[path] == nil {
		h.subs[path] = make(map[uint64]*subscriber)
	}
	h.subs[path][id] = s
	h.mu.Unlock()

	unsubscribe := func() {
		s.once.Do(func() {
			s.mu.Lock()
			s.stopped = true
			s.mu.Unlock()
			close(s.done)
			h.mu.Lock()
			delete(h.subs[path], id)
			h.mu.Unlock()
		})
	}

	go h.run(ctx, s, load, onSnapshot, onError, unsubscribe)

	return unsubscribe
}

func (h *Hub) run(ctx context.Context, s *subscriber, load Loader, onSnapshot func(entity.RawCollection), onError func(error), unsubscribe func()) {
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			unsubscribe()
			return
		case err := <-s.fail:
			s.finish(err, onError, unsubscribe)
			return
		case <-s.signal:
		}

		snapshot, err := load(ctx)
		if err != nil {
			// a failed subscription is finished, the caller has to subscribe again
			s.finish(err, onError, unsubscribe)
			return
		}
		if snapshot == nil {
			snapshot = entity.RawCollection{}
		}
		if !s.live() {
			return
		}
		onSnapshot(snapshot)
	}
}

// live reports whether a callback may still begin.
func (s *subscriber) live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.stopped
}

// finish reports err unless the caller unsubscribed first.
func (s *subscriber) finish(err error, onError func(error), unsubscribe func()) {
	if !s.live() {
		return
	}
	unsubscribe()
	if onError != nil {
		onError(&entity.SubscriptionError{Collection: s.path, Err: err})
	}
}

// Notify marks path as changed for all of its subscribers.
func (h *Hub) Notify(path string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, s := range h.subs[path] {
		s.poke()
	}
}

// NotifyAll is used after a feed reconnect, when individual changes may have been missed.
func (h *Hub) NotifyAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.subs {
		for _, s := range subs {
			s.poke()
		}
	}
}

// Fail terminates every live subscription with err, e.g. when the change feed dies.
func (h *Hub) Fail(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.subs {
		for _, s := range subs {
			select {
			case s.fail <- err:
			default:
			}
		}
	}
}

func (h *Hub) Len(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[path])
}

func (s *subscriber) poke() {
	select {
	case s.signal <- struct{}{}:
	default:
	}
}
