package usecase

import (
	"context"
	"strings"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/logger"
)

type UpdateClientUseCase struct {
	Repo     ClientRepository
	Notifier Notifier
}

func NewUpdateClientUseCase(repo ClientRepository, notifier Notifier) *UpdateClientUseCase {
	return &UpdateClientUseCase{Repo: repo, Notifier: notifier}
}

func (uc *UpdateClientUseCase) Execute(ctx context.Context, id string, input UpdateClientInput) error {
	input = input.trimmed()
	if errs := Validate(input); len(errs) > 0 {
		return validationFailed(errs)
	}

	patch := toPatch(input)
	if patch.IsEmpty() {
		return validationFailed([]ValidationError{{Field: "body", Message: "has no fields to update"}})
	}

	if err := uc.Repo.Update(ctx, id, patch); err != nil {
		logger.Log.WithError(err).WithField("client_id", id).Error("❌ could not update client")
		return storeFailure(err, "update client")
	}

	notify(ctx, uc.Notifier, entity.ClientEvent{
		Type:     entity.EventClientUpdated,
		ClientID: id,
	})
	return nil
}

// SetStatus is the single-field edit used by the status toggle.
func (uc *UpdateClientUseCase) SetStatus(ctx context.Context, id string, input SetStatusInput) error {
	if errs := Validate(input); len(errs) > 0 {
		return validationFailed(errs)
	}

	status := entity.ParseStatus(input.Status)
	if err := uc.Repo.SetStatus(ctx, id, status); err != nil {
		logger.Log.WithError(err).WithField("client_id", id).Error("❌ could not change client status")
		return storeFailure(err, "set status")
	}

	notify(ctx, uc.Notifier, entity.ClientEvent{
		Type:     entity.EventStatusChanged,
		ClientID: id,
		Detail:   string(status),
	})
	return nil
}

func toPatch(in UpdateClientInput) entity.ClientPatch {
	p := entity.ClientPatch{
		Name:             in.Name,
		Mobile:           in.Mobile,
		Email:            in.Email,
		InstagramHandle:  in.InstagramHandle,
		Location:         in.Location,
		BusinessType:     in.BusinessType,
		Product:          in.Product,
		FindClientSource: in.FindClientSource,
		FirstApproach:    in.FirstApproach,
		PaymentOption:    in.PaymentOption,
		TotalAmount:      in.TotalAmount,
		Notes:            in.Notes,
	}
	if in.Status != nil {
		s := entity.ParseStatus(*in.Status)
		p.Status = &s
	}
	if in.ClientResponse != nil {
		r := entity.ClientResponse(*in.ClientResponse)
		p.ClientResponse = &r
	}
	return p
}

// trimmed runs before validation so whitespace cannot satisfy required fields.
func (in UpdateClientInput) trimmed() UpdateClientInput {
	in.Name = trimmed(in.Name)
	in.Mobile = trimmed(in.Mobile)
	in.Email = trimmed(in.Email)
	in.InstagramHandle = trimmed(in.InstagramHandle)
	in.Location = trimmed(in.Location)
	in.BusinessType = trimmed(in.BusinessType)
	in.Product = trimmed(in.Product)
	return in
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
