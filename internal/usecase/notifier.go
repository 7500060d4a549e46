package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/logger"
)

// LogNotifier is used when no broker is configured.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, event entity.ClientEvent) error {
	logger.Log.WithFields(logrus.Fields{
		"type":      event.Type,
		"client_id": event.ClientID,
		"detail":    event.Detail,
	}).Info("🔔 client event")
	return nil
}

// notify never fails the mutation that already happened.
func notify(ctx context.Context, n Notifier, event entity.ClientEvent) {
	if n == nil {
		return
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	if err := n.Notify(ctx, event); err != nil {
		logger.Log.WithError(err).WithField("type", event.Type).Warn("⚠️ could not publish client event")
	}
}

// storeFailure turns repository errors into the use case taxonomy.
func storeFailure(err error, op string) error {
	if errors.Is(err, entity.ErrClientNotFound) {
		return &DomainError{Code: CodeClientNotFound, Message: "client not found"}
	}
	if entity.IsStoreWriteError(err) {
		return &TechnicalError{Code: CodeStoreWrite, Message: op + " failed", Err: err}
	}
	return &TechnicalError{Code: CodeStoreRead, Message: op + " failed", Err: err}
}
