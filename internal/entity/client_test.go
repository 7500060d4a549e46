package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseStatus(t *testing.T) {
	assert.Equal(t, StatusConfirmed, ParseStatus(" Confirmed "))
	assert.Equal(t, StatusApproach, ParseStatus("approach"))
	assert.Equal(t, StatusApproach, ParseStatus(""))
	assert.Equal(t, StatusApproach, ParseStatus("archived"))

	assert.True(t, StatusConfirmed.Valid())
	assert.False(t, ClientStatus("archived").Valid())
}

func TestClientResponse(t *testing.T) {
	assert.False(t, ResponseNone.Responded())
	assert.True(t, ResponseNegative.Responded())
	assert.True(t, ResponseNotReceivedCall.Known())
	assert.False(t, ClientResponse("maybe").Known())

	assert.Equal(t, NoResponseYet, ResponseNone.Label())
	assert.Equal(t, "Not Received Call", ResponseNotReceivedCall.Label())
	assert.Equal(t, "maybe", ClientResponse("maybe").Label())
}

func TestClientAmounts(t *testing.T) {
	total := decimal.NewFromInt(500)
	c := Client{
		TotalAmount: &total,
		Payments: []Payment{
			{Amount: decimal.RequireFromString("200.50")},
			{Amount: decimal.NewFromInt(400)},
		},
	}

	assert.True(t, decimal.RequireFromString("600.50").Equal(c.PaidAmount()))
	assert.True(t, decimal.RequireFromString("-100.50").Equal(c.RemainingAmount()))

	var empty Client
	assert.True(t, empty.PaidAmount().IsZero())
	assert.True(t, empty.RemainingAmount().IsZero())
}

func TestResponseText(t *testing.T) {
	assert.Equal(t, NoResponseYet, Client{}.ResponseText())
	assert.Equal(t, "positive", Client{ClientResponse: ResponsePositive}.ResponseText())
}

func TestClientPatchIsEmpty(t *testing.T) {
	assert.True(t, ClientPatch{}.IsEmpty())

	notes := ""
	assert.False(t, ClientPatch{Notes: &notes}.IsEmpty())
}

func TestIsOption(t *testing.T) {
	assert.True(t, IsOption(PaymentOptions, "installment"))
	assert.False(t, IsOption(PaymentOptions, "Installment"))
}
