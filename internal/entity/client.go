package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ClientStatus string

const (
	StatusApproach  ClientStatus = "approach"
	StatusConfirmed ClientStatus = "confirmed"
)

// ParseStatus never fails: anything that is not "confirmed" is an approach.
func ParseStatus(s string) ClientStatus {
	if ClientStatus(strings.ToLower(strings.TrimSpace(s))) == StatusConfirmed {
		return StatusConfirmed
	}
	return StatusApproach
}

func (s ClientStatus) Valid() bool {
	return s == StatusApproach || s == StatusConfirmed
}

type ClientResponse string

const (
	ResponseNone            ClientResponse = ""
	ResponsePositive        ClientResponse = "positive"
	ResponseNegative        ClientResponse = "negative"
	ResponseCallbackLater   ClientResponse = "callback-later"
	ResponseNotReceivedCall ClientResponse = "not-received-call"
)

// NoResponseYet is what the UI shows (and what older records stored) when no
// response was captured.
const NoResponseYet = "No response yet"

func (r ClientResponse) Responded() bool {
	return r != ResponseNone
}

func (r ClientResponse) Known() bool {
	switch r {
	case ResponsePositive, ResponseNegative, ResponseCallbackLater, ResponseNotReceivedCall:
		return true
	}
	return false
}

// Label is the human readable form used in exports and search.
func (r ClientResponse) Label() string {
	switch r {
	case ResponseNone:
		return NoResponseYet
	case ResponsePositive:
		return "Positive"
	case ResponseNegative:
		return "Negative"
	case ResponseCallbackLater:
		return "Call Back Later"
	case ResponseNotReceivedCall:
		return "Not Received Call"
	}
	return string(r)
}

type Payment struct {
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note"`
}

type Client struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Mobile          string         `json:"mobile"`
	Email           string         `json:"email,omitempty"`
	InstagramHandle string         `json:"instagramHandle,omitempty"`
	Location        string         `json:"location,omitempty"`
	BusinessType    string         `json:"businessType,omitempty"`
	Product         string         `json:"product"`
	Status          ClientStatus   `json:"status"`
	ClientResponse  ClientResponse `json:"clientResponse,omitempty"`

	FindClientSource string `json:"findClientSource,omitempty"`
	FirstApproach    string `json:"firstApproach,omitempty"`
	PaymentOption    string `json:"paymentOption,omitempty"`

	TotalAmount *decimal.Decimal `json:"totalAmount,omitempty"`
	Payments    []Payment        `json:"payments,omitempty"`
	Notes       string           `json:"notes,omitempty"`

	// CreatedAt is nil when the stored date is missing or unparseable.
	CreatedAt *time.Time `json:"date,omitempty"`
}

func (c Client) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range c.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// RemainingAmount can go negative when payments exceed the total.
func (c Client) RemainingAmount() decimal.Decimal {
	total := decimal.Zero
	if c.TotalAmount != nil {
		total = *c.TotalAmount
	}
	return total.Sub(c.PaidAmount())
}

// ResponseText is the value matched by free-text search.
func (c Client) ResponseText() string {
	if !c.ClientResponse.Responded() {
		return NoResponseYet
	}
	return string(c.ClientResponse)
}

// ClientPatch carries a partial update. Nil fields are left untouched.
type ClientPatch struct {
	Name             *string
	Mobile           *string
	Email            *string
	InstagramHandle  *string
	Location         *string
	BusinessType     *string
	Product          *string
	Status           *ClientStatus
	ClientResponse   *ClientResponse
	FindClientSource *string
	FirstApproach    *string
	PaymentOption    *string
	TotalAmount      *decimal.Decimal
	Notes            *string
}

func (p ClientPatch) IsEmpty() bool {
	return p.Name == nil && p.Mobile == nil && p.Email == nil && p.InstagramHandle == nil &&
		p.Location == nil && p.BusinessType == nil && p.Product == nil && p.Status == nil &&
		p.ClientResponse == nil && p.FindClientSource == nil && p.FirstApproach == nil &&
		p.PaymentOption == nil && p.TotalAmount == nil && p.Notes == nil
}
