package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/xavierca1/clientbook/internal/logger"
)

const notifyChannel = "records_changed"

// PgNotifyFeed uses Postgres LISTEN/NOTIFY, so no broker is needed.
type PgNotifyFeed struct {
	DB  *sql.DB
	DSN string
}

func NewPgNotifyFeed(db *sql.DB, dsn string) *PgNotifyFeed {
	return &PgNotifyFeed{DB: db, DSN: dsn}
}

func (f *PgNotifyFeed) Publish(ctx context.Context, collection string) error {
	_, err := f.DB.ExecContext(ctx, `SELECT pg_notify($1, $2)`, notifyChannel, collection)
	return err
}

func (f *PgNotifyFeed) Listen(ctx context.Context, onChange func(collection string)) error {
	failed := make(chan error, 1)

	listener := pq.NewListener(f.DSN, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnectionAttemptFailed:
			logger.Log.WithError(err).Warn("⚠️ LISTEN connection attempt failed")
		case pq.ListenerEventDisconnected:
			logger.Log.WithError(err).Warn("⚠️ LISTEN connection lost, reconnecting")
		case pq.ListenerEventReconnected:
			logger.Log.Info("🔌 LISTEN connection restored")
		}
	})
	defer listener.Close()

	if err := listener.Listen(notifyChannel); err != nil {
		return fmt.Errorf("listen %s: %w", notifyChannel, err)
	}
	logger.Log.Infof("👂 listening for record changes on %s", notifyChannel)

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-failed:
			return err
		case n, ok := <-listener.Notify:
			if !ok {
				return errors.New("listener closed")
			}
			// nil after a reconnect: notifications may have been lost
			if n == nil {
				onChange("")
				continue
			}
			onChange(n.Extra)
		case <-time.After(90 * time.Second):
			go func() {
				if err := listener.Ping(); err != nil {
					select {
					case failed <- err:
					default:
					}
				}
			}()
		}
	}
}
