// Package realtime fans chat events out to connected clients over Redis
// pub/sub. Each user has a dedicated channel; gateway processes subscribe on
// behalf of their websocket connections.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kisansetu/kisansetu-backend/pkg/logger"
)

const (
	EventNewMessage   = "new_message"
	EventMessagesRead = "messages_read"
)

type publisher interface {
	Publish(ctx context.Context, channel string, payload any) error
}

// Event is the wire envelope delivered on a user channel.
type Event struct {
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Publisher delivers chat events to per-user channels. Delivery is best
// effort: a publish failure is logged and never fails the originating write.
type Publisher struct {
	store         publisher
	channelPrefix string
	log           *logger.Logger
}

// NewPublisher builds a Publisher on top of the shared Redis client.
func NewPublisher(store publisher, channelPrefix string, log *logger.Logger) *Publisher {
	return &Publisher{store: store, channelPrefix: channelPrefix, log: log}
}

// UserChannel returns the pub/sub channel for a user's event stream.
func (p *Publisher) UserChannel(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", p.channelPrefix, userID)
}

// Notify publishes an event of the given type to the user's channel.
func (p *Publisher) Notify(ctx context.Context, userID uuid.UUID, eventType string, payload any) {
	if p == nil || p.store == nil {
		return
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		p.logError(ctx, eventType, err)
		return
	}
	event, err := json.Marshal(Event{
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Payload:    raw,
	})
	if err != nil {
		p.logError(ctx, eventType, err)
		return
	}

	if err := p.store.Publish(ctx, p.UserChannel(userID), string(event)); err != nil {
		p.logError(ctx, eventType, err)
	}
}

func (p *Publisher) logError(ctx context.Context, eventType string, err error) {
	if p.log == nil {
		return
	}
	p.log.Error(p.log.WithField(ctx, "event_type", eventType), "publishing realtime event", err)
}
