package usecase

import (
	"context"

	"github.com/xavierca1/clientbook/internal/entity"
)

type ClientRepository interface {
	Add(ctx context.Context, c entity.Client) (string, error)
	Get(ctx context.Context, id string) (*entity.Client, error)
	Update(ctx context.Context, id string, patch entity.ClientPatch) error
	SetStatus(ctx context.Context, id string, status entity.ClientStatus) error
	AppendPayment(ctx context.Context, id string, p entity.Payment) (*entity.Client, error)
	Remove(ctx context.Context, id string) error
}

type ScriptRepository interface {
	List(ctx context.Context) ([]entity.Script, error)
	Get(ctx context.Context, id string) (*entity.Script, error)
	Add(ctx context.Context, s entity.Script) (string, error)
	Update(ctx context.Context, id string, s entity.Script) error
	Remove(ctx context.Context, id string) error
}

// Notifier receives a ClientEvent after every successful mutation.
type Notifier interface {
	Notify(ctx context.Context, event entity.ClientEvent) error
}

type EmailService interface {
	SendMessage(to, subject, body string) error
}

type WhatsAppService interface {
	SendText(ctx context.Context, phone, body string) error
}
