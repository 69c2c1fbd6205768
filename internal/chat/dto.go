package chat

import (
	"time"

	"github.com/google/uuid"

	"github.com/kisansetu/kisansetu-backend/pkg/db/models"
)

// SendMessageRequest posts a direct message, optionally tied to an order.
type SendMessageRequest struct {
	ReceiverID uuid.UUID  `json:"receiver_id" validate:"required"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	Body       string     `json:"message" validate:"required,max=4000"`
}

// MessageDTO is a single chat message as returned to clients.
type MessageDTO struct {
	ID         uuid.UUID  `json:"id"`
	SenderID   uuid.UUID  `json:"sender_id"`
	ReceiverID uuid.UUID  `json:"receiver_id"`
	OrderID    *uuid.UUID `json:"order_id,omitempty"`
	Body       string     `json:"message"`
	Read       bool       `json:"read"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ConversationDTO is a thread summary with the other party resolved.
type ConversationDTO struct {
	ID              uuid.UUID `json:"id"`
	CounterpartID   uuid.UUID `json:"counterpart_id"`
	CounterpartName string    `json:"counterpart_name,omitempty"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_at"`
}

// UnreadCountDTO is the badge count for a user's inbox.
type UnreadCountDTO struct {
	Count int64 `json:"count"`
}

func messageFromModel(m *models.ChatMessage) *MessageDTO {
	if m == nil {
		return nil
	}
	return &MessageDTO{
		ID:         m.ID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		OrderID:    m.OrderID,
		Body:       m.Body,
		Read:       m.Read,
		CreatedAt:  m.CreatedAt,
	}
}

func messagesFromModels(rows []models.ChatMessage) []MessageDTO {
	out := make([]MessageDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *messageFromModel(&rows[i]))
	}
	return out
}
