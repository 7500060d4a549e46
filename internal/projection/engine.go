// Package projection keeps a live, sorted, queryable mirror of the clients
// collection and derives statistics from it.
package projection

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/logger"
)

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "uninitialized"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Source is satisfied by repository.ClientRepository.
type Source interface {
	Subscribe(ctx context.Context, onSnapshot func(entity.RawCollection), onError func(error)) (entity.Unsubscribe, error)
}

// View is what the API renders: the filtered list plus enough flags to tell
// loading, empty, filtered-empty and error apart.
type View struct {
	State         State           `json:"state"`
	Err           error           `json:"-"`
	Clients       []entity.Client `json:"clients"`
	Stats         Stats           `json:"stats"`
	Criteria      Criteria        `json:"criteria"`
	Empty         bool            `json:"empty"`
	FilteredEmpty bool            `json:"filtered_empty"`
}

type Engine struct {
	source Source
	now    func() time.Time
	loc    *time.Location

	// arrival order of snapshots across the engine's lifetime
	received atomic.Uint64

	mu          sync.RWMutex
	state       State
	err         error
	generation  uint64
	published   uint64
	clients     []entity.Client
	stats       Stats
	unsubscribe entity.Unsubscribe
	listeners   []func(Stats)
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLocation sets the zone used for "today" and "yesterday". Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) { e.loc = loc }
}

func NewEngine(source Source, opts ...Option) *Engine {
	e := &Engine{
		source: source,
		now:    time.Now,
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// OnProjected registers fn to run after every published projection.
func (e *Engine) OnProjected(fn func(Stats)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, fn)
}

// Start opens the subscription. Calling it while a subscription is live is a
// no-op; calling it after an error re-subscribes and keeps the last good data.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.unsubscribe != nil && e.state != StateError {
		e.mu.Unlock()
		return nil
	}
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
	e.generation++
	gen := e.generation
	e.state = StateLoading
	e.err = nil
	e.mu.Unlock()

	unsubscribe, err := e.source.Subscribe(ctx,
		func(raw entity.RawCollection) { e.handleSnapshot(gen, raw) },
		func(err error) { e.handleError(gen, err) },
	)

	e.mu.Lock()
	defer e.mu.Unlock()

	if err != nil {
		if gen == e.generation {
			e.state = StateError
			e.err = err
		}
		logger.Log.WithError(err).Error("❌ failed to open clients subscription")
		return err
	}

	if gen != e.generation {
		// Stop ran while we were subscribing
		unsubscribe()
		return nil
	}
	e.unsubscribe = unsubscribe
	return nil
}

// Stop ends delivery. Safe to call repeatedly and concurrently with mutations.
func (e *Engine) Stop() {
	e.mu.Lock()
	unsubscribe := e.unsubscribe
	e.unsubscribe = nil
	e.generation++
	e.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (e *Engine) handleSnapshot(gen uint64, raw entity.RawCollection) {
	seq := e.received.Add(1)

	clients := Normalize(raw)
	stats := ComputeStats(clients, e.localNow())

	e.mu.Lock()
	if gen != e.generation {
		e.mu.Unlock()
		return
	}
	if seq < e.published {
		// a newer snapshot already won
		e.mu.Unlock()
		logger.Log.WithField("seq", seq).Debug("discarding stale projection")
		return
	}
	e.published = seq
	e.clients = clients
	e.stats = stats
	if e.state != StateError {
		e.state = StateReady
	}
	listeners := append([]func(Stats){}, e.listeners...)
	e.mu.Unlock()

	logger.Log.WithFields(logrus.Fields{
		"total":     stats.Total,
		"approach":  stats.Approach,
		"confirmed": stats.Confirmed,
	}).Debug("🔄 clients projection updated")

	for _, fn := range listeners {
		fn(stats)
	}
}

func (e *Engine) handleError(gen uint64, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		return
	}
	e.state = StateError
	e.err = err
	logger.Log.WithError(err).Warn("⚠️ clients subscription failed, keeping last projection")
}

func (e *Engine) localNow() time.Time {
	return e.now().In(e.loc)
}

func (e *Engine) State() (State, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state, e.err
}

// Clients returns the canonical list. The slice is a copy.
func (e *Engine) Clients() []entity.Client {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]entity.Client(nil), e.clients...)
}

func (e *Engine) Stats() Stats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

// RefreshStats recomputes stats against the current clock. "today" moves at
// midnight even when no snapshot arrives.
func (e *Engine) RefreshStats() Stats {
	e.mu.Lock()
	e.stats = ComputeStats(e.clients, e.localNow())
	stats := e.stats
	e.mu.Unlock()
	return stats
}

func (e *Engine) Find(id string) (entity.Client, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	for _, c := range e.clients {
		if c.ID == id {
			return c, true
		}
	}
	return entity.Client{}, false
}

// View applies c to the canonical list. Stats always describe the unfiltered list.
func (e *Engine) View(c Criteria) View {
	e.mu.RLock()
	canonical := e.clients
	v := View{
		State:    e.state,
		Err:      e.err,
		Stats:    e.stats,
		Criteria: c,
	}
	e.mu.RUnlock()

	// published slices are never mutated, so filtering outside the lock is safe
	v.Clients = Project(canonical, c, e.localNow())
	v.Empty = v.State == StateReady && len(canonical) == 0
	v.FilteredEmpty = len(canonical) > 0 && len(v.Clients) == 0
	return v
}
