package entity

import "context"

// Fields is the wire form of a single record: JSON compatible values only.
type Fields map[string]any

// RawCollection maps record id to its fields, exactly as the store holds it.
type RawCollection map[string]Fields

// Unsubscribe stops snapshot delivery: no callback begins after it returns,
// though one already running may complete. Calling it more than once is a no-op.
type Unsubscribe func()

// RecordStore is the remote realtime document store boundary.
type RecordStore interface {
	// Subscribe delivers the whole collection once right away and again after
	// every change until the returned Unsubscribe is called.
	Subscribe(ctx context.Context, path string, onSnapshot func(RawCollection), onError func(error)) (Unsubscribe, error)
	// Load reads the collection once, without subscribing.
	Load(ctx context.Context, path string) (RawCollection, error)
	Push(ctx context.Context, path string, fields Fields) (string, error)
	Get(ctx context.Context, path, id string) (Fields, error)
	// Update merges fields into the record. A nil value removes the key.
	Update(ctx context.Context, path, id string, fields Fields) error
	Remove(ctx context.Context, path, id string) error
}
