package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/logger"
)

type RecordPaymentUseCase struct {
	Repo     ClientRepository
	Notifier Notifier
	Now      func() time.Time
}

func NewRecordPaymentUseCase(repo ClientRepository, notifier Notifier) *RecordPaymentUseCase {
	return &RecordPaymentUseCase{Repo: repo, Notifier: notifier, Now: time.Now}
}

func (uc *RecordPaymentUseCase) Execute(ctx context.Context, id string, input RecordPaymentInput) (*RecordPaymentOutput, error) {
	if errs := Validate(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	// 1. Monta o pagamento
	payment := entity.Payment{
		Amount: input.Amount,
		Date:   uc.Now(),
		Note:   input.Note,
	}
	if input.Date != nil {
		payment.Date = *input.Date
	}

	// 2. Persiste; os totais vêm do registro gravado, nunca de uma segunda leitura
	client, err := uc.Repo.AppendPayment(ctx, id, payment)
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", id).Error("❌ could not record payment")
		return nil, storeFailure(err, "record payment")
	}

	remaining := client.RemainingAmount()
	if remaining.IsNegative() {
		logger.Log.WithField("client_id", id).Warnf("⚠️ client overpaid by %s", remaining.Neg().StringFixedBank(2))
	}

	// 3. Publica o evento
	notify(ctx, uc.Notifier, entity.ClientEvent{
		Type:       entity.EventPaymentRecorded,
		ClientID:   id,
		ClientName: client.Name,
		Detail:     payment.Amount.StringFixedBank(2),
	})

	return &RecordPaymentOutput{
		ClientID:  id,
		Paid:      client.PaidAmount(),
		Remaining: remaining,
	}, nil
}
