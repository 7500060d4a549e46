package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/infra/store"
	"github.com/xavierca1/clientbook/internal/logger"
)

// ChangeFeed carries "collection changed" signals between processes.
type ChangeFeed interface {
	Publish(ctx context.Context, collection string) error
	// Listen blocks until ctx ends or the feed breaks. An empty collection
	// means "anything may have changed".
	Listen(ctx context.Context, onChange func(collection string)) error
}

// RecordStore keeps documents as jsonb rows and turns feed signals into
// snapshot reloads for its subscribers.
type RecordStore struct {
	DB   *sql.DB
	feed ChangeFeed
	hub  *store.Hub
}

func NewRecordStore(db *sql.DB, feed ChangeFeed) *RecordStore {
	return &RecordStore{
		DB:   db,
		feed: feed,
		hub:  store.NewHub(),
	}
}

// Run listens to the change feed until ctx is done. When the feed dies every
// live subscription fails, so the engine can surface it.
func (r *RecordStore) Run(ctx context.Context) error {
	if r.feed == nil {
		<-ctx.Done()
		return nil
	}

	err := r.feed.Listen(ctx, func(collection string) {
		if collection == "" {
			r.hub.NotifyAll()
			return
		}
		r.hub.Notify(collection)
	})
	if err != nil && ctx.Err() == nil {
		logger.Log.WithError(err).Error("❌ change feed stopped")
		r.hub.Fail(err)
		return err
	}
	return nil
}

func (r *RecordStore) Subscribe(ctx context.Context, path string, onSnapshot func(entity.RawCollection), onError func(error)) (entity.Unsubscribe, error) {
	return r.hub.Subscribe(ctx, path, func(ctx context.Context) (entity.RawCollection, error) {
		return r.Load(ctx, path)
	}, onSnapshot, onError), nil
}

func (r *RecordStore) Load(ctx context.Context, path string) (entity.RawCollection, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, fields FROM records WHERE collection = $1`, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	defer rows.Close()

	out := entity.RawCollection{}
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		fields := entity.Fields{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			// one broken row must not take the collection down
			logger.Log.WithError(err).WithField("id", id).Warn("⚠️ skipping undecodable record fields")
		}
		out[id] = fields
	}
	return out, rows.Err()
}

func (r *RecordStore) Push(ctx context.Context, path string, fields entity.Fields) (string, error) {
	body, err := json.Marshal(fields)
	if err != nil {
		return "", err
	}

	id := uuid.Must(uuid.NewV7()).String()
	_, err = r.DB.ExecContext(ctx,
		`INSERT INTO records (collection, id, fields) VALUES ($1, $2, jsonb_strip_nulls($3::jsonb))`,
		path, id, body,
	)
	if err != nil {
		return "", fmt.Errorf("insert record: %w", err)
	}

	r.changed(ctx, path)
	return id, nil
}

func (r *RecordStore) Get(ctx context.Context, path, id string) (entity.Fields, error) {
	var raw []byte
	err := r.DB.QueryRowContext(ctx,
		`SELECT fields FROM records WHERE collection = $1 AND id = $2`, path, id,
	).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || isInvalidID(err) {
			return nil, entity.ErrRecordNotFound
		}
		return nil, err
	}

	fields := entity.Fields{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode record %s: %w", id, err)
	}
	return fields, nil
}

// Update merges with jsonb ||; keys set to null are stripped afterwards.
func (r *RecordStore) Update(ctx context.Context, path, id string, fields entity.Fields) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE records
		SET fields = jsonb_strip_nulls(fields || $3::jsonb),
		    updated_at = NOW()
		WHERE collection = $1 AND id = $2`,
		path, id, body,
	)
	if err != nil {
		if isInvalidID(err) {
			return entity.ErrRecordNotFound
		}
		return fmt.Errorf("update record: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return entity.ErrRecordNotFound
	}

	r.changed(ctx, path)
	return nil
}

func (r *RecordStore) Remove(ctx context.Context, path, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM records WHERE collection = $1 AND id = $2`, path, id)
	if err != nil {
		if isInvalidID(err) {
			return nil
		}
		return fmt.Errorf("delete record: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		r.changed(ctx, path)
	}
	return nil
}

// changed wakes local subscribers right away and tells the other instances.
func (r *RecordStore) changed(ctx context.Context, path string) {
	r.hub.Notify(path)
	if r.feed == nil {
		return
	}
	if err := r.feed.Publish(ctx, path); err != nil {
		logger.Log.WithError(err).WithField("collection", path).Warn("⚠️ change written but not broadcast")
	}
}

// 22P02: the id is not a uuid, so no such record can exist
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}
