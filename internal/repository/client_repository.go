package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/clientbook/internal/entity"
)

const ClientsCollection = "clients"

// ClientRepository is the only gateway to the record store for clients. It
// keeps no cache: the projection engine owns the in-memory view.
type ClientRepository struct {
	store entity.RecordStore
	now   func() time.Time
}

func NewClientRepository(store entity.RecordStore) *ClientRepository {
	return &ClientRepository{store: store, now: time.Now}
}

func (r *ClientRepository) Subscribe(ctx context.Context, onSnapshot func(entity.RawCollection), onError func(error)) (entity.Unsubscribe, error) {
	unsubscribe, err := r.store.Subscribe(ctx, ClientsCollection, onSnapshot, onError)
	if err != nil {
		return nil, &entity.SubscriptionError{Collection: ClientsCollection, Err: err}
	}
	return unsubscribe, nil
}

// Add stamps the creation date when missing and returns the store assigned id.
func (r *ClientRepository) Add(ctx context.Context, c entity.Client) (string, error) {
	if c.CreatedAt == nil {
		now := r.now()
		c.CreatedAt = &now
	}

	id, err := r.store.Push(ctx, ClientsCollection, EncodeClient(c))
	if err != nil {
		return "", &entity.StoreWriteError{Op: "add", Err: err}
	}
	return id, nil
}

func (r *ClientRepository) Get(ctx context.Context, id string) (*entity.Client, error) {
	fields, err := r.store.Get(ctx, ClientsCollection, id)
	if err != nil {
		if errors.Is(err, entity.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", entity.ErrClientNotFound, id)
		}
		return nil, fmt.Errorf("read client %s: %w", id, err)
	}
	c := DecodeClient(id, fields)
	return &c, nil
}

func (r *ClientRepository) Update(ctx context.Context, id string, patch entity.ClientPatch) error {
	if patch.IsEmpty() {
		return nil
	}
	return r.write(ctx, "update", id, EncodePatch(patch))
}

func (r *ClientRepository) SetStatus(ctx context.Context, id string, status entity.ClientStatus) error {
	return r.write(ctx, "set-status", id, entity.Fields{FieldStatus: string(entity.ParseStatus(string(status)))})
}

// AppendPayment is a read-modify-write of the payments list and returns the
// client as written. Concurrent appends from two writers can lose one entry;
// the store offers no transaction.
func (r *ClientRepository) AppendPayment(ctx context.Context, id string, p entity.Payment) (*entity.Client, error) {
	c, err := r.Get(ctx, id)
	if err != nil {
		return nil, &entity.StoreWriteError{Op: "append-payment", ID: id, Err: err}
	}
	if p.Date.IsZero() {
		p.Date = r.now()
	}
	c.Payments = append(c.Payments, p)
	if err := r.write(ctx, "append-payment", id, entity.Fields{FieldPayments: EncodePayments(c.Payments)}); err != nil {
		return nil, err
	}
	return c, nil
}

// Remove hands back whatever the store reports; removing a missing id is not an error for the stores we ship.
func (r *ClientRepository) Remove(ctx context.Context, id string) error {
	if err := r.store.Remove(ctx, ClientsCollection, id); err != nil {
		return &entity.StoreWriteError{Op: "remove", ID: id, Err: err}
	}
	return nil
}

func (r *ClientRepository) write(ctx context.Context, op, id string, fields entity.Fields) error {
	err := r.store.Update(ctx, ClientsCollection, id, fields)
	if err == nil {
		return nil
	}
	if errors.Is(err, entity.ErrRecordNotFound) {
		err = fmt.Errorf("%w: %s", entity.ErrClientNotFound, id)
	}
	return &entity.StoreWriteError{Op: op, ID: id, Err: err}
}
