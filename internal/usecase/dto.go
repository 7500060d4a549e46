package usecase

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateClientInput struct {
	Name             string           `json:"name" validate:"required,min=2,max=200"`
	Mobile           string           `json:"mobile" validate:"required,phone"`
	Email            string           `json:"email" validate:"omitempty,email"`
	InstagramHandle  string           `json:"instagramHandle" validate:"omitempty,max=100"`
	Location         string           `json:"location" validate:"omitempty,max=200"`
	BusinessType     string           `json:"businessType" validate:"omitempty,max=200"`
	Product          string           `json:"product" validate:"required,max=100"`
	Status           string           `json:"status" validate:"omitempty,oneof=approach confirmed"`
	ClientResponse   string           `json:"clientResponse" validate:"omitempty,client_response"`
	FindClientSource string           `json:"findClientSource" validate:"omitempty,client_source"`
	FirstApproach    string           `json:"firstApproach" validate:"omitempty,first_approach"`
	PaymentOption    string           `json:"paymentOption" validate:"omitempty,payment_option"`
	TotalAmount      *decimal.Decimal `json:"totalAmount" validate:"omitempty,non_negative"`
	Notes            string           `json:"notes" validate:"omitempty,max=2000"`
}

type CreateClientOutput struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UpdateClientInput is a partial update: nil fields are left as they are and
// an empty string clears an optional field.
type UpdateClientInput struct {
	Name             *string          `json:"name" validate:"omitnil,min=2,max=200"`
	Mobile           *string          `json:"mobile" validate:"omitnil,phone"`
	Email            *string          `json:"email" validate:"omitempty,email_or_empty"`
	InstagramHandle  *string          `json:"instagramHandle" validate:"omitempty,max=100"`
	Location         *string          `json:"location" validate:"omitempty,max=200"`
	BusinessType     *string          `json:"businessType" validate:"omitempty,max=200"`
	Product          *string          `json:"product" validate:"omitnil,min=1,max=100"`
	Status           *string          `json:"status" validate:"omitempty,oneof=approach confirmed"`
	ClientResponse   *string          `json:"clientResponse" validate:"omitempty,client_response_or_empty"`
	FindClientSource *string          `json:"findClientSource" validate:"omitempty,client_source_or_empty"`
	FirstApproach    *string          `json:"firstApproach" validate:"omitempty,first_approach_or_empty"`
	PaymentOption    *string          `json:"paymentOption" validate:"omitempty,payment_option_or_empty"`
	TotalAmount      *decimal.Decimal `json:"totalAmount" validate:"omitempty,non_negative"`
	Notes            *string          `json:"notes" validate:"omitempty,max=2000"`
}

type SetStatusInput struct {
	Status string `json:"status" validate:"required,oneof=approach confirmed"`
}

type RecordPaymentInput struct {
	Amount decimal.Decimal `json:"amount" validate:"positive"`
	Date   *time.Time      `json:"date"`
	Note   string          `json:"note" validate:"omitempty,max=500"`
}

type RecordPaymentOutput struct {
	ClientID  string          `json:"client_id"`
	Paid      decimal.Decimal `json:"paid"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ScriptInput carries every editable field; an update replaces all of them.
type ScriptInput struct {
	BusinessType   string `json:"businessType" validate:"required,max=200"`
	ColdCallScript string `json:"coldCallScript" validate:"required,max=10000"`
	MessageScript  string `json:"messageScript" validate:"required,max=10000"`
	Language       string `json:"language" validate:"omitempty,script_language"`
}

type ScriptQuery struct {
	Search   string
	Language string
	Kind     string
}

type ComposeMessagesInput struct {
	ClientID string
	Channel  string
}

type ComposedMessage struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Text  string `json:"text"`
	Link  string `json:"link"`
}

type SendMessageInput struct {
	ClientID    string `json:"-"`
	Channel     string `json:"-"`
	TemplateKey string `json:"template" validate:"required_without=Text"`
	Text        string `json:"text" validate:"omitempty,max=4000"`
}

type SendMessageOutput struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Text    string `json:"text"`
}
