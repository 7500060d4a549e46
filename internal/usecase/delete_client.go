package usecase

import (
	"context"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/logger"
)

type DeleteClientUseCase struct {
	Repo     ClientRepository
	Notifier Notifier
}

func NewDeleteClientUseCase(repo ClientRepository, notifier Notifier) *DeleteClientUseCase {
	return &DeleteClientUseCase{Repo: repo, Notifier: notifier}
}

// Execute removes the client. Deleting an id that is already gone succeeds.
func (uc *DeleteClientUseCase) Execute(ctx context.Context, id string) error {
	if err := uc.Repo.Remove(ctx, id); err != nil {
		logger.Log.WithError(err).WithField("client_id", id).Error("❌ could not delete client")
		return storeFailure(err, "delete client")
	}

	logger.Log.WithField("client_id", id).Info("🗑️ client deleted")
	notify(ctx, uc.Notifier, entity.ClientEvent{
		Type:     entity.EventClientDeleted,
		ClientID: id,
	})
	return nil
}
