package models

import (
	"time"

	"github.com/google/uuid"

	dbtypes "github.com/kisansetu/kisansetu-backend/pkg/db/types"
)

// Conversation is the two-party chat thread between a consumer and a farmer.
type Conversation struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ParticipantIDs dbtypes.UUIDArray `gorm:"column:participant_ids;type:text;not null;uniqueIndex:uq_conversations_participants" json:"participant_ids"`
	LastMessage    string            `gorm:"column:last_message" json:"last_message"`
	LastMessageAt  time.Time         `gorm:"column:last_message_at;not null" json:"last_message_at"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}
