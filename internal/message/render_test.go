package message

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/xavierca1/clientbook/internal/entity"
)

func sampleClient() entity.Client {
	total := decimal.NewFromInt(1000)
	created := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)
	return entity.Client{
		ID:              "c1",
		Name:            "Asha",
		Mobile:          "+91 90000-00001",
		Email:           "asha@example.com",
		InstagramHandle: "@asha.shop",
		Product:         "orderqr",
		Status:          entity.StatusConfirmed,
		ClientResponse:  entity.ResponsePositive,
		TotalAmount:     &total,
		Payments: []entity.Payment{
			{Amount: decimal.NewFromInt(400), Date: created},
		},
		CreatedAt: &created,
	}
}

func TestRender(t *testing.T) {
	c := sampleClient()

	tests := []struct {
		name string
		body string
		want string
	}{
		{"plain text", "hello", "hello"},
		{"client placeholder", "Hi ${client.name}", "Hi Asha"},
		{"several placeholders", "${client.name} bought ${client.product}", "Asha bought orderqr"},
		{"shorthand", "Hi {{name}}", "Hi Asha"},
		{"spaces inside", "Hi ${ client.name }", "Hi Asha"},
		{"unknown field", "Hi ${client.nickname}!", "Hi !"},
		{"missing namespace", "Hi ${name}!", "Hi !"},
		{"empty placeholder", "a${}b", "ab"},
		{"absent optional field", "[${client.location}]", "[]"},
		{"amounts", "${client.totalAmount}/${client.paidAmount}/${client.remainingAmount}", "1000.00/400.00/600.00"},
		{"date", "since ${client.date}", "since 15 Jun 2024"},
		{"response label", "${client.clientResponse}", "Positive"},
		{"unterminated", "Hi ${client.name", "Hi "},
		{"unterminated on one line only", "Hi ${client\nBye ${client.name}", "Hi \nBye Asha"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.body, c))
		})
	}
}

func TestRenderEmptyClient(t *testing.T) {
	got := Render("Hi ${client.name}, due ₹${client.remainingAmount} on ${client.date} (${client.totalAmount})", entity.Client{})
	assert.Equal(t, "Hi , due ₹0.00 on  ()", got)
}

func TestFieldValue(t *testing.T) {
	c := sampleClient()

	v, ok := FieldValue(c, "instagram")
	assert.True(t, ok)
	assert.Equal(t, "@asha.shop", v)

	v, ok = FieldValue(entity.Client{}, "clientResponse")
	assert.True(t, ok)
	assert.Empty(t, v)

	_, ok = FieldValue(c, "password")
	assert.False(t, ok)
}
