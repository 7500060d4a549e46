package entity

import "time"

type EventType string

const (
	EventClientCreated   EventType = "client.created"
	EventClientUpdated   EventType = "client.updated"
	EventStatusChanged   EventType = "client.status_changed"
	EventPaymentRecorded EventType = "client.payment_recorded"
	EventClientDeleted   EventType = "client.deleted"
	EventMessageSent     EventType = "client.message_sent"
)

// ClientEvent is published after every successful client mutation.
type ClientEvent struct {
	Type       EventType `json:"type"`
	ClientID   string    `json:"client_id"`
	ClientName string    `json:"client_name,omitempty"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
