package realtime

import "context"

// Message is one push event addressed to a channel (one channel per user).
type Message struct {
	Channel string         `json:"channel"`
	Event   string         `json:"event"`
	Data    map[string]any `json:"data,omitempty"`
}

const (
	EventInterventionStatusChanged = "intervention.status_changed"
	EventQuoteRejected             = "quote.rejected"
	EventNotificationCreated       = "notification.created"
)

// Publisher is the outbound push side; both the redis bus and the local hub
// implement it, so deployments without redis degrade to in-process delivery.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
}
