// Package memory is an in-process record store, used by tests and for local development.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/infra/store"
)

type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]entity.Fields
	hub         *store.Hub
	newID       func() string
	persist     Persister
}

// Persister receives the complete next state before a mutation is applied. An
// error aborts the mutation: nothing changes and no subscriber is notified.
type Persister func(data map[string]entity.RawCollection) error

func NewStore() *Store {
	return &Store{
		collections: make(map[string]map[string]entity.Fields),
		hub:         store.NewHub(),
		newID:       newTimeOrderedID,
	}
}

// NewStoreFrom seeds the store, typically with data read from disk.
func NewStoreFrom(data map[string]entity.RawCollection) *Store {
	s := NewStore()
	for path, records := range data {
		s.collections[path] = make(map[string]entity.Fields, len(records))
		for id, f := range records {
			s.collections[path][id] = f
		}
	}
	return s
}

// uuid v7 keeps push ids in creation order, like realtime database push keys.
func newTimeOrderedID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *Store) Subscribe(ctx context.Context, path string, onSnapshot func(entity.RawCollection), onError func(error)) (entity.Unsubscribe, error) {
	return s.hub.Subscribe(ctx, path, func(context.Context) (entity.RawCollection, error) {
		return s.Snapshot(path), nil
	}, onSnapshot, onError), nil
}

func (s *Store) Snapshot(path string) entity.RawCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.CopyCollection(s.collections[path])
}

func (s *Store) Load(ctx context.Context, path string) (entity.RawCollection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Snapshot(path), nil
}

// SetPersister installs p; it runs under the write lock, so writes are serialized.
func (s *Store) SetPersister(p Persister) {
	s.mu.Lock()
	s.persist = p
	s.mu.Unlock()
}

// Dump copies every collection, for persistence.
func (s *Store) Dump() map[string]entity.RawCollection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dumpLocked(nil)
}

// dumpLocked copies every collection with fn applied to the copy. Callers hold s.mu.
func (s *Store) dumpLocked(fn func(map[string]entity.RawCollection)) map[string]entity.RawCollection {
	out := make(map[string]entity.RawCollection, len(s.collections))
	for path, records := range s.collections {
		out[path] = store.CopyCollection(records)
	}
	if fn != nil {
		fn(out)
	}
	return out
}

// commitLocked hands the next state of path/id to the persister. next == nil removes the record.
func (s *Store) commitLocked(path, id string, next entity.Fields) error {
	if s.persist == nil {
		return nil
	}
	return s.persist(s.dumpLocked(func(data map[string]entity.RawCollection) {
		if next == nil {
			delete(data[path], id)
			return
		}
		if data[path] == nil {
			data[path] = entity.RawCollection{}
		}
		data[path][id] = store.CopyCollection(map[string]entity.Fields{id: next})[id]
	}))
}

func (s *Store) Push(ctx context.Context, path string, fields entity.Fields) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	normalized, err := store.Normalize(fields)
	if err != nil {
		return "", err
	}

	id := s.newID()
	next := store.Merge(nil, normalized)
	s.mu.Lock()
	if err := s.commitLocked(path, id, next); err != nil {
		s.mu.Unlock()
		return "", err
	}
	if s.collections[path] == nil {
		s.collections[path] = make(map[string]entity.Fields)
	}
	s.collections[path][id] = next
	s.mu.Unlock()

	s.hub.Notify(path)
	return id, nil
}

func (s *Store) Get(ctx context.Context, path, id string) (entity.Fields, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.collections[path][id]
	if !ok {
		return nil, entity.ErrRecordNotFound
	}
	return store.CopyCollection(map[string]entity.Fields{id: f})[id], nil
}

func (s *Store) Update(ctx context.Context, path, id string, fields entity.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	normalized, err := store.Normalize(fields)
	if err != nil {
		return err
	}
	s.mu.Lock()
	current, ok := s.collections[path][id]
	if !ok {
		s.mu.Unlock()
		return entity.ErrRecordNotFound
	}
	next := store.Merge(current, normalized)
	if err := s.commitLocked(path, id, next); err != nil {
		s.mu.Unlock()
		return err
	}
	s.collections[path][id] = next
	s.mu.Unlock()

	s.hub.Notify(path)
	return nil
}

// Remove is idempotent: deleting a missing id succeeds.
func (s *Store) Remove(ctx context.Context, path, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	_, existed := s.collections[path][id]
	if existed {
		if err := s.commitLocked(path, id, nil); err != nil {
			s.mu.Unlock()
			return err
		}
	}
	delete(s.collections[path], id)
	s.mu.Unlock()

	if existed {
		s.hub.Notify(path)
	}
	return nil
}

// Subscribers reports live subscriptions on path.
func (s *Store) Subscribers(path string) int {
	return s.hub.Len(path)
}
