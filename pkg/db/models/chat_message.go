package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is a single direct message, optionally attached to an order.
type ChatMessage struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	SenderID   uuid.UUID  `gorm:"column:sender_id;type:uuid;not null;index" json:"sender_id"`
	ReceiverID uuid.UUID  `gorm:"column:receiver_id;type:uuid;not null;index" json:"receiver_id"`
	OrderID    *uuid.UUID `gorm:"column:order_id;type:uuid" json:"order_id,omitempty"`
	Body       string     `gorm:"column:body;not null" json:"message"`
	Read       bool       `gorm:"column:read;not null;default:false" json:"read"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
