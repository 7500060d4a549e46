package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/clientbook/internal/entity"
	"github.com/xavierca1/clientbook/internal/logger"
	"github.com/xavierca1/clientbook/internal/message"
)

type ComposeMessagesUseCase struct {
	Repo ClientRepository
}

func NewComposeMessagesUseCase(repo ClientRepository) *ComposeMessagesUseCase {
	return &ComposeMessagesUseCase{Repo: repo}
}

// Execute renders every template for the client's status on the channel.
// Link is empty when the client lacks the contact the channel needs.
func (uc *ComposeMessagesUseCase) Execute(ctx context.Context, input ComposeMessagesInput) ([]ComposedMessage, error) {
	ch, err := message.ParseChannel(input.Channel)
	if err != nil {
		return nil, &DomainError{Code: CodeUnknownChannel, Message: err.Error()}
	}

	client, err := uc.Repo.Get(ctx, input.ClientID)
	if err != nil {
		return nil, storeFailure(err, "read client")
	}

	templates, err := message.Templates(ch, client.Status)
	if err != nil {
		return nil, &DomainError{Code: CodeTemplateMissing, Message: err.Error()}
	}

	out := make([]ComposedMessage, 0, len(templates))
	for _, t := range templates {
		text := message.Render(t.Body, *client)
		link, _ := message.Link(ch, *client, text)
		out = append(out, ComposedMessage{
			Key:   t.Key,
			Title: t.Title,
			Text:  text,
			Link:  link,
		})
	}
	return out, nil
}

type SendMessageUseCase struct {
	Repo     ClientRepository
	Email    EmailService
	WhatsApp WhatsAppService
	Notifier Notifier
}

func NewSendMessageUseCase(repo ClientRepository, email EmailService, whatsapp WhatsAppService, notifier Notifier) *SendMessageUseCase {
	return &SendMessageUseCase{
		Repo:     repo,
		Email:    email,
		WhatsApp: whatsapp,
		Notifier: notifier,
	}
}

// Execute delivers a template (or free text, which may hold placeholders)
// over email or WhatsApp. SMS and Instagram only have deep links.
func (uc *SendMessageUseCase) Execute(ctx context.Context, input SendMessageInput) (*SendMessageOutput, error) {
	if errs := Validate(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	ch, err := message.ParseChannel(input.Channel)
	if err != nil {
		return nil, &DomainError{Code: CodeUnknownChannel, Message: err.Error()}
	}

	client, err := uc.Repo.Get(ctx, input.ClientID)
	if err != nil {
		return nil, storeFailure(err, "read client")
	}

	text := message.Render(input.Text, *client)
	if input.TemplateKey != "" {
		t, ok := message.Lookup(ch, client.Status, input.TemplateKey)
		if !ok {
			return nil, &DomainError{
				Code:    CodeTemplateMissing,
				Message: fmt.Sprintf("no %s template %q for %s clients", ch, input.TemplateKey, client.Status),
			}
		}
		text = message.Render(t.Body, *client)
	}

	out := &SendMessageOutput{Channel: string(ch), Text: text}

	// Roteamento de canal
	switch ch {
	case message.ChannelEmail:
		if uc.Email == nil {
			return nil, &DomainError{Code: CodeNotDeliverable, Message: "email delivery is not configured"}
		}
		if client.Email == "" {
			return nil, &DomainError{Code: CodeMissingContact, Message: "client has no email"}
		}
		subject, body := message.SplitSubject(text)
		if err := uc.Email.SendMessage(client.Email, subject, body); err != nil {
			return nil, &TechnicalError{Code: CodeDeliveryFailed, Message: "email delivery failed", Err: err}
		}
		out.To = client.Email

	case message.ChannelWhatsApp:
		if uc.WhatsApp == nil {
			return nil, &DomainError{Code: CodeNotDeliverable, Message: "whatsapp delivery is not configured"}
		}
		phone := message.NormalizePhone(client.Mobile)
		if phone == "" {
			return nil, &DomainError{Code: CodeMissingContact, Message: "client has no mobile number"}
		}
		if err := uc.WhatsApp.SendText(ctx, phone, text); err != nil {
			return nil, &TechnicalError{Code: CodeDeliveryFailed, Message: "whatsapp delivery failed", Err: err}
		}
		out.To = phone

	default:
		return nil, &DomainError{
			Code:    CodeNotDeliverable,
			Message: fmt.Sprintf("%s messages can only be opened as a link", ch),
		}
	}

	logger.Log.WithField("client_id", client.ID).Infof("📨 %s message sent", ch)
	notify(ctx, uc.Notifier, entity.ClientEvent{
		Type:       entity.EventMessageSent,
		ClientID:   client.ID,
		ClientName: client.Name,
		Detail:     string(ch),
	})
	return out, nil
}
