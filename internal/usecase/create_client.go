package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/logger"
)

type CreateClientUseCase struct {
	Repo     ClientRepository
	Notifier Notifier
}

func NewCreateClientUseCase(repo ClientRepository, notifier Notifier) *CreateClientUseCase {
	return &CreateClientUseCase{Repo: repo, Notifier: notifier}
}

func (uc *CreateClientUseCase) Execute(ctx context.Context, input CreateClientInput) (*CreateClientOutput, error) {
	// 1. Normaliza antes de validar
	input = input.trimmed()
	if errs := Validate(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	// 2. Monta o registro
	client := entity.Client{
		Name:             input.Name,
		Mobile:           input.Mobile,
		Email:            input.Email,
		InstagramHandle:  input.InstagramHandle,
		Location:         input.Location,
		BusinessType:     input.BusinessType,
		Product:          input.Product,
		Status:           entity.ParseStatus(input.Status),
		ClientResponse:   entity.ClientResponse(input.ClientResponse),
		FindClientSource: input.FindClientSource,
		FirstApproach:    input.FirstApproach,
		PaymentOption:    input.PaymentOption,
		TotalAmount:      input.TotalAmount,
		Notes:            input.Notes,
	}

	// 3. Persiste
	id, err := uc.Repo.Add(ctx, client)
	if err != nil {
		logger.Log.WithError(err).Error("❌ could not save client")
		return nil, storeFailure(err, "save client")
	}

	// 4. Publica o evento
	logger.Log.WithField("client_id", id).Info("✅ client created")
	notify(ctx, uc.Notifier, entity.ClientEvent{
		Type:       entity.EventClientCreated,
		ClientID:   id,
		ClientName: client.Name,
	})

	return &CreateClientOutput{ID: id, Name: client.Name}, nil
}

func (in CreateClientInput) trimmed() CreateClientInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Mobile = strings.TrimSpace(in.Mobile)
	in.Email = strings.TrimSpace(in.Email)
	in.InstagramHandle = strings.TrimSpace(in.InstagramHandle)
	in.Location = strings.TrimSpace(in.Location)
	in.BusinessType = strings.TrimSpace(in.BusinessType)
	in.Product = strings.TrimSpace(in.Product)
	return in
}
