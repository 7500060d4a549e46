package message

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xavierca1/clientbook/internal/entity"
)

type Channel string

const (
	ChannelWhatsApp  Channel = "whatsapp"
	ChannelEmail     Channel = "email"
	ChannelSMS       Channel = "sms"
	ChannelInstagram Channel = "instagram"
)

var ErrUnknownChannel = errors.New("unknown message channel")

func ParseChannel(s string) (Channel, error) {
	ch := Channel(strings.ToLower(strings.TrimSpace(s)))
	switch ch {
	case ChannelWhatsApp, ChannelEmail, ChannelSMS, ChannelInstagram:
		return ch, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownChannel, s)
}

type Template struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

type catalogKey struct {
	channel Channel
	status  entity.ClientStatus
}

var catalog = map[catalogKey][]Template{
	{ChannelWhatsApp, entity.StatusApproach}: {
		{"intro", "Introduction", "Hi ${client.name}, thank you for your interest in our services. How can we help you today?"},
		{"follow-up", "Follow up", "Hello ${client.name}, following up on our conversation about ${client.product}. Do you have any questions?"},
		{"offer", "Special offer", "Hello ${client.name}, we have a special offer on ${client.product} that might interest you. Would you like to know more?"},
	},
	{ChannelWhatsApp, entity.StatusConfirmed}: {
		{"welcome", "Welcome", "Hi ${client.name}, welcome aboard! We are getting started on your ${client.product} and will keep you posted."},
		{"work-update", "Work update", "Hello ${client.name}, we've made good progress on your ${client.product}. Can we share the updates with you?"},
		{"payment-reminder", "Payment reminder", "Hello ${client.name}, a gentle reminder about the pending ₹${client.remainingAmount} for ${client.product}."},
	},
	{ChannelEmail, entity.StatusApproach}: {
		{"follow-up", "Follow-up on our conversation", "Subject: Follow-up on Our Conversation\n\nDear ${client.name},\n\nThank you for your interest in ${client.product}. I'd like to provide you with more details..."},
		{"offer", "Special offer", "Subject: Special Offer for You\n\nDear ${client.name},\n\nWe're pleased to offer you a special deal on ${client.product}..."},
	},
	{ChannelEmail, entity.StatusConfirmed}: {
		{"thank-you", "Thank you", "Subject: Thank You for Your Business\n\nDear ${client.name},\n\nWe appreciate your continued support and business..."},
		{"work-update", "Work update", "Subject: Progress on ${client.product}\n\nDear ${client.name},\n\nWe're pleased to inform you that we've made significant progress on your ${client.product}. We'd love to share the updates with you and get your feedback."},
	},
	{ChannelInstagram, entity.StatusApproach}: {
		{"connect", "Thanks for connecting", "Hi ${client.name}! Thanks for connecting with us on Instagram. We'd love to tell you more about ${client.product}."},
		{"interest", "Interest", "Hello there! We noticed you're interested in ${client.product}. Let us know if you'd like more information."},
	},
	{ChannelInstagram, entity.StatusConfirmed}: {
		{"news", "News", "Hi ${client.name}! We have some exciting news about ${client.product} we'd like to share with you."},
	},
	{ChannelSMS, entity.StatusApproach}: {
		{"call-back", "Call back", "Hi ${client.name}, thank you for your interest in ${client.product}. Please call us back at your convenience."},
		{"offer", "Special offer", "Hello ${client.name}, we have a special offer waiting for you! Call us to learn more."},
	},
	{ChannelSMS, entity.StatusConfirmed}: {
		{"follow-up", "Follow up", "Hi ${client.name}, just following up on our conversation. Let us know when you're available to chat."},
	},
}

// Templates picks the copy for a channel and the client's status. Unknown
// statuses read as approach.
func Templates(ch Channel, status entity.ClientStatus) ([]Template, error) {
	if _, err := ParseChannel(string(ch)); err != nil {
		return nil, err
	}
	return catalog[catalogKey{ch, entity.ParseStatus(string(status))}], nil
}

func Lookup(ch Channel, status entity.ClientStatus, key string) (Template, bool) {
	list, err := Templates(ch, status)
	if err != nil {
		return Template{}, false
	}
	for _, t := range list {
		if t.Key == key {
			return t, true
		}
	}
	return Template{}, false
}

type BillingKind string

const (
	BillingBill    BillingKind = "bill"
	BillingWork    BillingKind = "work"
	BillingPayment BillingKind = "payment"
)

var billing = map[BillingKind]Template{
	BillingBill: {"bill", "Send bill", "Dear ${client.name},\n\nThank you for choosing us! Here's your bill details:\nProduct: ${client.product}\nTotal Amount: ₹${client.totalAmount}\nPaid: ₹${client.paidAmount}\nRemaining: ₹${client.remainingAmount}\n\nFor any queries, feel free to contact us."},
	BillingWork: {"work", "Work update", "Dear ${client.name},\n\nWe're pleased to inform you that we've made significant progress on your ${client.product}. We'd love to share the updates with you and get your feedback."},
	BillingPayment: {"payment", "Payment reminder", "Dear ${client.name},\n\nThis is a gentle reminder regarding the pending payment of ₹${client.remainingAmount} for ${client.product}.\n\nPaid amount: ₹${client.paidAmount}\nTotal amount: ₹${client.totalAmount}\n\nKindly process the payment at your earliest convenience."},
}

func Billing(kind BillingKind) (Template, bool) {
	t, ok := billing[kind]
	return t, ok
}
